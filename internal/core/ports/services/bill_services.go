package services

import (
	"context"

	"github.com/billed-app/billed-backend/internal/core/domain"
	"github.com/billed-app/billed-backend/internal/dto"
)

// BillReaderSvc defines read operations over the bill collection.
type BillReaderSvc interface {
	// ListBills fetches all bills and returns them display-ready, ordered
	// by date descending.
	ListBills(ctx context.Context) ([]dto.DisplayBill, error)

	// GetBill retrieves a single bill by id.
	GetBill(ctx context.Context, billID string) (*domain.Bill, error)

	// GetReceipt streams the stored receipt blob when the active store
	// holds one; apperrors.ErrNotFound otherwise.
	GetReceipt(ctx context.Context, billID string) (*domain.StagedFile, error)
}

// BillWriterSvc defines write operations over the bill collection.
type BillWriterSvc interface {
	// CreateBill validates and stages the receipt file, assembles a draft
	// from the form fields plus the session email, and submits it.
	CreateBill(ctx context.Context, session domain.Session, req dto.CreateBillRequest, file domain.StagedFile) (*domain.Bill, error)

	// UpdateBill overwrites an existing bill.
	UpdateBill(ctx context.Context, billID string, req dto.UpdateBillRequest) (*domain.Bill, error)
}

// BillSvcFacade combines all bill-related service interfaces.
type BillSvcFacade interface {
	BillReaderSvc
	BillWriterSvc
}
