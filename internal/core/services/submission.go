package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/billed-app/billed-backend/internal/apperrors"
	"github.com/billed-app/billed-backend/internal/core/domain"
	"github.com/billed-app/billed-backend/internal/core/ports"
	"github.com/billed-app/billed-backend/internal/utils"
	"github.com/shopspring/decimal"
)

// SubmissionState is the position of a new-bill draft in its lifecycle.
type SubmissionState string

const (
	StateEmpty        SubmissionState = "empty"
	StateFileStaged   SubmissionState = "file_staged"
	StateSubmitting   SubmissionState = "submitting"
	StatePersisted    SubmissionState = "persisted"
	StateSubmitFailed SubmissionState = "submit_failed"
)

// BillForm holds the editable new-bill fields, collected as-is at submit
// time. The only precondition enforced at submit is the staged file.
type BillForm struct {
	Type       string
	Name       string
	Date       string
	Amount     decimal.Decimal
	VAT        string
	Pct        int
	Commentary string
}

// Submission is the state machine for one new-bill draft:
//
//	Empty -> FileStaged -> Submitting -> Persisted
//	                         |
//	                         v
//	                    SubmitFailed (form data intact, may re-stage or resubmit)
//
// The instance owns at most one draft. At most one store create call is
// outstanding at a time: submit attempts while Submitting are ignored.
// There is no automatic retry and no cancellation; an in-flight create runs
// to completion.
type Submission struct {
	store   ports.BillStore
	session domain.Session

	mu      sync.Mutex
	state   SubmissionState
	staged  *domain.StagedFile
	bill    *domain.Bill
	lastErr *apperrors.DisplayError
}

// NewSubmission opens a fresh draft for the given session, in state Empty.
func NewSubmission(store ports.BillStore, session domain.Session) *Submission {
	return &Submission{
		store:   store,
		session: session,
		state:   StateEmpty,
	}
}

// State reports the current lifecycle state.
func (s *Submission) State() SubmissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// StagedFileName returns the name of the staged receipt, empty when none.
func (s *Submission) StagedFileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.staged == nil {
		return ""
	}
	return s.staged.Name
}

// LastError returns the classified store failure of the most recent failed
// submit, if any.
func (s *Submission) LastError() (apperrors.DisplayError, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr == nil {
		return apperrors.DisplayError{}, false
	}
	return *s.lastErr, true
}

// StageFile validates the receipt file name and stages the file, replacing
// any previously staged one. Rejection is non-fatal: the previously staged
// file (none, on a first attempt) is kept and the caller re-prompts the
// user.
func (s *Submission) StageFile(file domain.StagedFile) error {
	if err := utils.ValidateReceiptFileName(file.Name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateSubmitting:
		return apperrors.ErrSubmitInFlight
	case StatePersisted:
		return fmt.Errorf("%w: bill already persisted", apperrors.ErrValidation)
	}
	s.staged = &file
	s.state = StateFileStaged
	s.lastErr = nil
	return nil
}

// Submit assembles the bill payload from the form fields plus the staged
// file and calls the store's create. On success the submission records the
// assigned id and fileUrl and releases the staged file; on failure the
// classified error is kept for display and the draft stays editable.
func (s *Submission) Submit(ctx context.Context, form BillForm) (*domain.Bill, error) {
	s.mu.Lock()
	switch s.state {
	case StateSubmitting:
		s.mu.Unlock()
		return nil, apperrors.ErrSubmitInFlight
	case StatePersisted:
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: bill already persisted", apperrors.ErrValidation)
	}
	if s.staged == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: a receipt file must be staged before submit", apperrors.ErrValidation)
	}
	staged := s.staged
	s.state = StateSubmitting
	s.mu.Unlock()

	draft := domain.Bill{
		Type:       form.Type,
		Name:       form.Name,
		Date:       form.Date,
		Amount:     form.Amount,
		VAT:        form.VAT,
		Pct:        form.Pct,
		Commentary: form.Commentary,
		FileName:   staged.Name,
		Status:     domain.StatusPending,
		Email:      s.session.Email,
	}

	created, err := s.store.Create(ctx, draft, staged)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		display := apperrors.Classify(err)
		s.lastErr = &display
		s.state = StateSubmitFailed
		return nil, fmt.Errorf("failed to create bill in store: %w", err)
	}
	s.bill = created
	s.staged = nil
	s.lastErr = nil
	s.state = StatePersisted
	return created, nil
}

// Bill returns the persisted bill once the submission reached Persisted.
func (s *Submission) Bill() (*domain.Bill, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePersisted {
		return nil, false
	}
	return s.bill, true
}
