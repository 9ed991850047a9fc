// Package memory provides an in-memory BillStore. It backs the test suites
// and the demo backend; it keeps the same contract as the production stores,
// including StoreError statuses.
package memory

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/billed-app/billed-backend/internal/apperrors"
	"github.com/billed-app/billed-backend/internal/core/domain"
	"github.com/google/uuid"
)

type Store struct {
	mu       sync.RWMutex
	bills    map[string]domain.Bill
	order    []string // listing order, creation-stable
	receipts map[string]domain.StagedFile
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		bills:    make(map[string]domain.Bill),
		receipts: make(map[string]domain.StagedFile),
	}
}

// NewSeededStore returns a store preloaded with the canonical fixture bills.
func NewSeededStore() *Store {
	s := NewStore()
	for _, b := range FixtureBills() {
		s.bills[b.BillID] = b
		s.order = append(s.order, b.BillID)
	}
	return s
}

func (s *Store) List(ctx context.Context) ([]domain.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bills := make([]domain.Bill, 0, len(s.order))
	for _, id := range s.order {
		bills = append(bills, s.bills[id])
	}
	return bills, nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bill, ok := s.bills[id]
	if !ok {
		return nil, apperrors.NewStoreError(http.StatusNotFound, fmt.Sprintf("bill %s not found", id))
	}
	return &bill, nil
}

func (s *Store) Create(ctx context.Context, draft domain.Bill, receipt *domain.StagedFile) (*domain.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bill := draft
	bill.BillID = uuid.NewString()
	if bill.Status == "" {
		bill.Status = domain.StatusPending
	}
	if receipt != nil {
		bill.FileName = receipt.Name
		bill.FileURL = fmt.Sprintf("memory://receipts/%s/%s", bill.BillID, receipt.Name)
		s.receipts[bill.BillID] = *receipt
	}

	s.bills[bill.BillID] = bill
	s.order = append(s.order, bill.BillID)
	return &bill, nil
}

func (s *Store) Update(ctx context.Context, id string, bill domain.Bill) (*domain.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bills[id]; !ok {
		return nil, apperrors.NewStoreError(http.StatusNotFound, fmt.Sprintf("bill %s not found", id))
	}
	bill.BillID = id
	s.bills[id] = bill
	return &bill, nil
}

// Receipt implements ports.ReceiptReader.
func (s *Store) Receipt(ctx context.Context, id string) (*domain.StagedFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	receipt, ok := s.receipts[id]
	if !ok {
		return nil, apperrors.NewStoreError(http.StatusNotFound, fmt.Sprintf("no receipt stored for bill %s", id))
	}
	return &receipt, nil
}
