// Package pgsql implements the BillStore port on PostgreSQL. Receipt blobs
// are stored inline with the bill row; the fileUrl points back at this
// service's receipt endpoint.
package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/billed-app/billed-backend/internal/apperrors"
	"github.com/billed-app/billed-backend/internal/core/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BillStore struct {
	pool          *pgxpool.Pool
	publicBaseURL string
}

// NewBillStore creates a Postgres-backed bill store. publicBaseURL is the
// externally reachable base of this service, used to derive fileUrl values.
func NewBillStore(pool *pgxpool.Pool, publicBaseURL string) *BillStore {
	return &BillStore{pool: pool, publicBaseURL: publicBaseURL}
}

const billColumns = `bill_id, type, name, date, amount, vat, pct, commentary,
	file_url, file_name, status, comment_admin, email`

func (s *BillStore) List(ctx context.Context) ([]domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills ORDER BY created_at;`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, storeFailure(fmt.Errorf("failed to query bills: %w", err))
	}
	defer rows.Close()

	bills, err := pgx.CollectRows(rows, scanBill)
	if err != nil {
		return nil, storeFailure(fmt.Errorf("failed to scan bills: %w", err))
	}
	if bills == nil {
		bills = []domain.Bill{}
	}
	return bills, nil
}

func (s *BillStore) Get(ctx context.Context, id string) (*domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE bill_id = $1;`

	rows, err := s.pool.Query(ctx, query, id)
	if err != nil {
		return nil, storeFailure(fmt.Errorf("failed to query bill %s: %w", id, err))
	}
	bill, err := pgx.CollectOneRow(rows, scanBill)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewStoreError(http.StatusNotFound, fmt.Sprintf("bill %s not found", id))
		}
		return nil, storeFailure(fmt.Errorf("failed to scan bill %s: %w", id, err))
	}
	return &bill, nil
}

func (s *BillStore) Create(ctx context.Context, draft domain.Bill, receipt *domain.StagedFile) (*domain.Bill, error) {
	bill := draft
	bill.BillID = uuid.NewString()
	if bill.Status == "" {
		bill.Status = domain.StatusPending
	}

	var receiptContent []byte
	var receiptContentType string
	if receipt != nil {
		bill.FileName = receipt.Name
		bill.FileURL = fmt.Sprintf("%s/api/v1/bills/%s/receipt", s.publicBaseURL, bill.BillID)
		receiptContent = receipt.Content
		receiptContentType = receipt.ContentType
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO bills (bill_id, type, name, date, amount, vat, pct, commentary,
			file_url, file_name, status, comment_admin, email,
			receipt, receipt_content_type, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := s.pool.Exec(ctx, query,
		bill.BillID,
		bill.Type,
		bill.Name,
		bill.Date,
		bill.Amount,
		bill.VAT,
		bill.Pct,
		bill.Commentary,
		bill.FileURL,
		bill.FileName,
		string(bill.Status),
		bill.CommentAdmin,
		bill.Email,
		receiptContent,
		receiptContentType,
		now,
		now,
	)
	if err != nil {
		return nil, storeFailure(fmt.Errorf("failed to insert bill: %w", err))
	}
	return &bill, nil
}

func (s *BillStore) Update(ctx context.Context, id string, bill domain.Bill) (*domain.Bill, error) {
	bill.BillID = id
	query := `
		UPDATE bills SET
			type = $2, name = $3, date = $4, amount = $5, vat = $6, pct = $7,
			commentary = $8, file_url = $9, file_name = $10, status = $11,
			comment_admin = $12, email = $13, last_updated_at = $14
		WHERE bill_id = $1;
	`
	tag, err := s.pool.Exec(ctx, query,
		bill.BillID,
		bill.Type,
		bill.Name,
		bill.Date,
		bill.Amount,
		bill.VAT,
		bill.Pct,
		bill.Commentary,
		bill.FileURL,
		bill.FileName,
		string(bill.Status),
		bill.CommentAdmin,
		bill.Email,
		time.Now().UTC(),
	)
	if err != nil {
		return nil, storeFailure(fmt.Errorf("failed to update bill %s: %w", id, err))
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.NewStoreError(http.StatusNotFound, fmt.Sprintf("bill %s not found", id))
	}
	return &bill, nil
}

// Receipt implements ports.ReceiptReader.
func (s *BillStore) Receipt(ctx context.Context, id string) (*domain.StagedFile, error) {
	query := `SELECT file_name, receipt, receipt_content_type FROM bills WHERE bill_id = $1;`

	var receipt domain.StagedFile
	err := s.pool.QueryRow(ctx, query, id).Scan(&receipt.Name, &receipt.Content, &receipt.ContentType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewStoreError(http.StatusNotFound, fmt.Sprintf("bill %s not found", id))
		}
		return nil, storeFailure(fmt.Errorf("failed to read receipt for bill %s: %w", id, err))
	}
	if len(receipt.Content) == 0 {
		return nil, apperrors.NewStoreError(http.StatusNotFound, fmt.Sprintf("no receipt stored for bill %s", id))
	}
	return &receipt, nil
}

func scanBill(row pgx.CollectableRow) (domain.Bill, error) {
	var bill domain.Bill
	var status string
	err := row.Scan(
		&bill.BillID,
		&bill.Type,
		&bill.Name,
		&bill.Date,
		&bill.Amount,
		&bill.VAT,
		&bill.Pct,
		&bill.Commentary,
		&bill.FileURL,
		&bill.FileName,
		&status,
		&bill.CommentAdmin,
		&bill.Email,
	)
	bill.Status = domain.BillStatus(status)
	return bill, err
}

// storeFailure wraps a backend failure as a 500 StoreError so the error
// classifier treats database trouble the same as a remote server error.
func storeFailure(err error) error {
	return apperrors.NewStoreError(http.StatusInternalServerError, err.Error())
}
