package domain

import "github.com/shopspring/decimal"

// BillStatus indicates where a bill sits in the review workflow.
type BillStatus string

const (
	StatusPending  BillStatus = "pending"
	StatusAccepted BillStatus = "accepted"
	StatusRefused  BillStatus = "refused"
)

// Bill represents one expense claim owned by an employee.
// The store is the source of truth; BillID is empty until the first
// successful create.
type Bill struct {
	BillID       string          `json:"id"`
	Type         string          `json:"type"` // expense category, free text (e.g. "Transports")
	Name         string          `json:"name"`
	Date         string          `json:"date"` // calendar date, YYYY-MM-DD
	Amount       decimal.Decimal `json:"amount"`
	VAT          string          `json:"vat"`
	Pct          int             `json:"pct"`
	Commentary   string          `json:"commentary,omitempty"`
	FileURL      string          `json:"fileUrl,omitempty"`
	FileName     string          `json:"fileName,omitempty"`
	Status       BillStatus      `json:"status"`
	CommentAdmin string          `json:"commentAdmin,omitempty"`
	Email        string          `json:"email"`
}

// HasReceipt reports whether the bill carries an uploaded receipt.
// FileURL and FileName are set together or not at all.
func (b Bill) HasReceipt() bool {
	return b.FileURL != "" && b.FileName != ""
}
