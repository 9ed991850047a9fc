package dto

import (
	"github.com/billed-app/billed-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBillRequest carries the new-bill form fields. The receipt file
// itself travels as the multipart "file" part and is validated separately.
type CreateBillRequest struct {
	Type       string `form:"type" binding:"required"`
	Name       string `form:"name" binding:"required"`
	Date       string `form:"date" binding:"required,billdate"`
	Amount     string `form:"amount" binding:"required"`
	VAT        string `form:"vat"`
	Pct        int    `form:"pct" binding:"min=0,max=100"`
	Commentary string `form:"commentary"`
}

// UpdateBillRequest overwrites an existing bill record.
type UpdateBillRequest struct {
	Type         string          `json:"type" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	Date         string          `json:"date" binding:"required,billdate"`
	Amount       decimal.Decimal `json:"amount"`
	VAT          string          `json:"vat"`
	Pct          int             `json:"pct" binding:"min=0,max=100"`
	Commentary   string          `json:"commentary"`
	FileURL      string          `json:"fileUrl"`
	FileName     string          `json:"fileName"`
	Status       string          `json:"status" binding:"omitempty,oneof=pending accepted refused"`
	CommentAdmin string          `json:"commentAdmin"`
	Email        string          `json:"email"`
}

// BillResponse defines the data returned for a single bill.
type BillResponse struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Name         string          `json:"name"`
	Date         string          `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	VAT          string          `json:"vat"`
	Pct          int             `json:"pct"`
	Commentary   string          `json:"commentary,omitempty"`
	FileURL      string          `json:"fileUrl,omitempty"`
	FileName     string          `json:"fileName,omitempty"`
	Status       string          `json:"status"`
	CommentAdmin string          `json:"commentAdmin,omitempty"`
	Email        string          `json:"email"`
}

// DisplayBill is a bill transformed for presentation: its raw fields plus a
// formatted date and a humanized status label. It is not a persistence
// entity.
type DisplayBill struct {
	BillResponse
	FormattedDate string `json:"formattedDate"`
	StatusLabel   string `json:"statusLabel"`
}

// ToBillResponse converts a domain Bill to its response DTO.
func ToBillResponse(b *domain.Bill) BillResponse {
	return BillResponse{
		ID:           b.BillID,
		Type:         b.Type,
		Name:         b.Name,
		Date:         b.Date,
		Amount:       b.Amount,
		VAT:          b.VAT,
		Pct:          b.Pct,
		Commentary:   b.Commentary,
		FileURL:      b.FileURL,
		FileName:     b.FileName,
		Status:       string(b.Status),
		CommentAdmin: b.CommentAdmin,
		Email:        b.Email,
	}
}

// ToDomainBill converts an update request into a domain Bill keyed by billID.
func ToDomainBill(billID string, req UpdateBillRequest) domain.Bill {
	return domain.Bill{
		BillID:       billID,
		Type:         req.Type,
		Name:         req.Name,
		Date:         req.Date,
		Amount:       req.Amount,
		VAT:          req.VAT,
		Pct:          req.Pct,
		Commentary:   req.Commentary,
		FileURL:      req.FileURL,
		FileName:     req.FileName,
		Status:       domain.BillStatus(req.Status),
		CommentAdmin: req.CommentAdmin,
		Email:        req.Email,
	}
}
