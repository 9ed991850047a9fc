package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/billed-app/billed-backend/internal/apperrors"
	"github.com/billed-app/billed-backend/internal/core/domain"
	"github.com/billed-app/billed-backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBillStore is a handwritten stand-in whose Create behavior is
// programmable per test, including re-entrant calls into the submission.
type fakeBillStore struct {
	createCalls int
	createFn    func(draft domain.Bill, receipt *domain.StagedFile) (*domain.Bill, error)
}

func (f *fakeBillStore) List(ctx context.Context) ([]domain.Bill, error) { return nil, nil }
func (f *fakeBillStore) Get(ctx context.Context, id string) (*domain.Bill, error) {
	return nil, apperrors.NewStoreError(http.StatusNotFound, "not found")
}
func (f *fakeBillStore) Update(ctx context.Context, id string, bill domain.Bill) (*domain.Bill, error) {
	return &bill, nil
}
func (f *fakeBillStore) Create(ctx context.Context, draft domain.Bill, receipt *domain.StagedFile) (*domain.Bill, error) {
	f.createCalls++
	return f.createFn(draft, receipt)
}

func persistedFrom(draft domain.Bill) *domain.Bill {
	bill := draft
	bill.BillID = "47qAXb6fIm2zOKkLzMro"
	bill.FileURL = "https://test.storage.tld/receipt.jpg"
	return &bill
}

func validForm() services.BillForm {
	return services.BillForm{
		Type:   "Transports",
		Name:   "vol Paris Londres",
		Date:   "2004-04-04",
		Amount: decimal.NewFromInt(400),
		VAT:    "80",
		Pct:    20,
	}
}

var session = domain.Session{Email: "a@a", Type: "Employee"}

func TestSubmission_StartsEmpty(t *testing.T) {
	sub := services.NewSubmission(&fakeBillStore{}, session)

	assert.Equal(t, services.StateEmpty, sub.State())
	assert.Empty(t, sub.StagedFileName())
}

func TestSubmission_StageValidFile(t *testing.T) {
	sub := services.NewSubmission(&fakeBillStore{}, session)

	err := sub.StageFile(domain.StagedFile{Name: "file-test.png", ContentType: "image/png"})

	require.NoError(t, err)
	assert.Equal(t, services.StateFileStaged, sub.State())
	assert.Equal(t, "file-test.png", sub.StagedFileName(), "file name recorded exactly as provided")
}

func TestSubmission_StageInvalidFileFirstAttempt(t *testing.T) {
	sub := services.NewSubmission(&fakeBillStore{}, session)

	err := sub.StageFile(domain.StagedFile{Name: "file-test.gif", ContentType: "image/gif"})

	assert.ErrorIs(t, err, apperrors.ErrInvalidExtension)
	assert.Equal(t, services.StateEmpty, sub.State(), "rejection on first attempt leaves nothing staged")
	assert.Empty(t, sub.StagedFileName())
}

func TestSubmission_StageInvalidFileKeepsPreviousFile(t *testing.T) {
	sub := services.NewSubmission(&fakeBillStore{}, session)
	require.NoError(t, sub.StageFile(domain.StagedFile{Name: "first.png"}))

	err := sub.StageFile(domain.StagedFile{Name: "second.gif"})

	assert.ErrorIs(t, err, apperrors.ErrInvalidExtension)
	assert.Equal(t, services.StateFileStaged, sub.State())
	assert.Equal(t, "first.png", sub.StagedFileName(), "previously staged file survives a rejected pick")
}

func TestSubmission_RestageReplacesWholesale(t *testing.T) {
	sub := services.NewSubmission(&fakeBillStore{}, session)
	require.NoError(t, sub.StageFile(domain.StagedFile{Name: "first.png"}))
	require.NoError(t, sub.StageFile(domain.StagedFile{Name: "second.jpeg"}))

	assert.Equal(t, "second.jpeg", sub.StagedFileName())
}

func TestSubmission_SubmitWithoutStagedFile(t *testing.T) {
	store := &fakeBillStore{}
	sub := services.NewSubmission(store, session)

	bill, err := sub.Submit(context.Background(), validForm())

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, bill)
	assert.Zero(t, store.createCalls)
	assert.Equal(t, services.StateEmpty, sub.State())
}

func TestSubmission_SubmitSuccess(t *testing.T) {
	store := &fakeBillStore{
		createFn: func(draft domain.Bill, receipt *domain.StagedFile) (*domain.Bill, error) {
			return persistedFrom(draft), nil
		},
	}
	sub := services.NewSubmission(store, session)
	require.NoError(t, sub.StageFile(domain.StagedFile{Name: "file-test.png", Content: []byte("png")}))

	bill, err := sub.Submit(context.Background(), validForm())

	require.NoError(t, err)
	require.NotNil(t, bill)
	assert.Equal(t, "47qAXb6fIm2zOKkLzMro", bill.BillID)
	assert.Equal(t, "a@a", bill.Email, "draft stamped with the session email")
	assert.Equal(t, domain.StatusPending, bill.Status)
	assert.Equal(t, services.StatePersisted, sub.State())
	assert.Empty(t, sub.StagedFileName(), "staged file consumed on success")

	persisted, ok := sub.Bill()
	require.True(t, ok)
	assert.Equal(t, bill, persisted)
}

func TestSubmission_SubmitFailureKeepsDraft(t *testing.T) {
	store := &fakeBillStore{
		createFn: func(draft domain.Bill, receipt *domain.StagedFile) (*domain.Bill, error) {
			return nil, apperrors.NewStoreError(http.StatusInternalServerError, "backend down")
		},
	}
	sub := services.NewSubmission(store, session)
	require.NoError(t, sub.StageFile(domain.StagedFile{Name: "file-test.png"}))

	bill, err := sub.Submit(context.Background(), validForm())

	require.Error(t, err)
	assert.Nil(t, bill)
	assert.Equal(t, services.StateSubmitFailed, sub.State())
	assert.Equal(t, "file-test.png", sub.StagedFileName(), "form data stays intact for resubmission")

	display, ok := sub.LastError()
	require.True(t, ok)
	assert.Contains(t, display.Summary, "Erreur 500")
}

func TestSubmission_ResubmitAfterFailure(t *testing.T) {
	failOnce := true
	store := &fakeBillStore{}
	store.createFn = func(draft domain.Bill, receipt *domain.StagedFile) (*domain.Bill, error) {
		if failOnce {
			failOnce = false
			return nil, apperrors.NewStoreError(http.StatusInternalServerError, "flaky")
		}
		return persistedFrom(draft), nil
	}
	sub := services.NewSubmission(store, session)
	require.NoError(t, sub.StageFile(domain.StagedFile{Name: "file-test.png"}))

	_, err := sub.Submit(context.Background(), validForm())
	require.Error(t, err, "no automatic retry; the user must resubmit")
	require.Equal(t, 1, store.createCalls)

	bill, err := sub.Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, "47qAXb6fIm2zOKkLzMro", bill.BillID)
	assert.Equal(t, 2, store.createCalls)

	_, ok := sub.LastError()
	assert.False(t, ok, "error cleared after a successful submit")
}

func TestSubmission_ReentrantSubmitIgnored(t *testing.T) {
	store := &fakeBillStore{}
	var sub *services.Submission
	var nestedErr error
	store.createFn = func(draft domain.Bill, receipt *domain.StagedFile) (*domain.Bill, error) {
		// A submit triggered while the first one is still in flight.
		_, nestedErr = sub.Submit(context.Background(), validForm())
		return persistedFrom(draft), nil
	}
	sub = services.NewSubmission(store, session)
	require.NoError(t, sub.StageFile(domain.StagedFile{Name: "file-test.png"}))

	bill, err := sub.Submit(context.Background(), validForm())

	require.NoError(t, err)
	require.NotNil(t, bill)
	assert.Equal(t, 1, store.createCalls, "only one create observed")
	assert.ErrorIs(t, nestedErr, apperrors.ErrSubmitInFlight)
}

func TestSubmission_SubmitAfterPersistedRejected(t *testing.T) {
	store := &fakeBillStore{
		createFn: func(draft domain.Bill, receipt *domain.StagedFile) (*domain.Bill, error) {
			return persistedFrom(draft), nil
		},
	}
	sub := services.NewSubmission(store, session)
	require.NoError(t, sub.StageFile(domain.StagedFile{Name: "file-test.png"}))

	_, err := sub.Submit(context.Background(), validForm())
	require.NoError(t, err)

	_, err = sub.Submit(context.Background(), validForm())
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, 1, store.createCalls)
}

func TestSubmission_ClassifiesUnknownStoreFailure(t *testing.T) {
	store := &fakeBillStore{
		createFn: func(draft domain.Bill, receipt *domain.StagedFile) (*domain.Bill, error) {
			return nil, errors.New("connection reset by peer")
		},
	}
	sub := services.NewSubmission(store, session)
	require.NoError(t, sub.StageFile(domain.StagedFile{Name: "file-test.png"}))

	_, err := sub.Submit(context.Background(), validForm())

	require.Error(t, err)
	display, ok := sub.LastError()
	require.True(t, ok)
	assert.Contains(t, display.Summary, "Une erreur est survenue")
}
