package ports

import (
	"context"

	"github.com/billed-app/billed-backend/internal/core/domain"
)

// BillStore is the gateway to the bill collection. Production (REST,
// Postgres) and test (memory) implementations sit behind this same
// interface, selected by dependency injection at construction.
//
// All operations are single-attempt; callers decide retry policy. Failures
// carry an *apperrors.StoreError with the backend status code.
type BillStore interface {
	// List returns every bill in the collection, possibly including
	// malformed records. No partial results on failure.
	List(ctx context.Context) ([]domain.Bill, error)

	// Get returns the bill with the given id, or StoreError(404).
	Get(ctx context.Context, id string) (*domain.Bill, error)

	// Create persists a draft (no id) together with its staged receipt and
	// returns the stored bill with the assigned id and fileUrl.
	Create(ctx context.Context, draft domain.Bill, receipt *domain.StagedFile) (*domain.Bill, error)

	// Update overwrites the remote record, or fails with StoreError(404)
	// when the id is unknown.
	Update(ctx context.Context, id string, bill domain.Bill) (*domain.Bill, error)
}

// ReceiptReader is implemented by stores that hold receipt blobs themselves
// (as opposed to pointing at an external fileUrl).
type ReceiptReader interface {
	Receipt(ctx context.Context, id string) (*domain.StagedFile, error)
}
