package services

import (
	"context"
	"fmt"

	"github.com/billed-app/billed-backend/internal/apperrors"
	"github.com/billed-app/billed-backend/internal/core/domain"
	"github.com/billed-app/billed-backend/internal/core/ports"
	"github.com/billed-app/billed-backend/internal/dto"
	"github.com/shopspring/decimal"
)

// BillService exposes the bill collection to the HTTP layer: listing with
// presentation, single-bill reads, receipt streaming, submission of new
// bills and updates of existing ones.
type BillService struct {
	store ports.BillStore
}

func NewBillService(store ports.BillStore) *BillService {
	return &BillService{store: store}
}

func (s *BillService) ListBills(ctx context.Context) ([]dto.DisplayBill, error) {
	bills, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills in service: %w", err)
	}
	return PresentBills(bills), nil
}

func (s *BillService) GetBill(ctx context.Context, billID string) (*domain.Bill, error) {
	bill, err := s.store.Get(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bill %s in service: %w", billID, err)
	}
	return bill, nil
}

// GetReceipt streams the receipt blob for stores that hold blobs inline.
// Stores that only point at an external fileUrl report ErrNotFound here.
func (s *BillService) GetReceipt(ctx context.Context, billID string) (*domain.StagedFile, error) {
	reader, ok := s.store.(ports.ReceiptReader)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	receipt, err := reader.Receipt(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to read receipt for bill %s: %w", billID, err)
	}
	return receipt, nil
}

// CreateBill runs one new-bill submission end to end: stage the receipt,
// assemble the draft from the form fields and submit it to the store.
func (s *BillService) CreateBill(ctx context.Context, session domain.Session, req dto.CreateBillRequest, file domain.StagedFile) (*domain.Bill, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: amount %q is not a number", apperrors.ErrValidation, req.Amount)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}

	submission := NewSubmission(s.store, session)
	if err := submission.StageFile(file); err != nil {
		return nil, err
	}
	return submission.Submit(ctx, BillForm{
		Type:       req.Type,
		Name:       req.Name,
		Date:       req.Date,
		Amount:     amount,
		VAT:        req.VAT,
		Pct:        req.Pct,
		Commentary: req.Commentary,
	})
}

func (s *BillService) UpdateBill(ctx context.Context, billID string, req dto.UpdateBillRequest) (*domain.Bill, error) {
	bill, err := s.store.Update(ctx, billID, dto.ToDomainBill(billID, req))
	if err != nil {
		return nil, fmt.Errorf("failed to update bill %s in service: %w", billID, err)
	}
	return bill, nil
}
