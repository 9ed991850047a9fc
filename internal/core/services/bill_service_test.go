package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/billed-app/billed-backend/internal/apperrors"
	"github.com/billed-app/billed-backend/internal/core/domain"
	portssvc "github.com/billed-app/billed-backend/internal/core/ports/services"
	"github.com/billed-app/billed-backend/internal/core/services"
	"github.com/billed-app/billed-backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock BillStore ---
type MockBillStore struct {
	mock.Mock
}

func (m *MockBillStore) List(ctx context.Context) ([]domain.Bill, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bill), args.Error(1)
}

func (m *MockBillStore) Get(ctx context.Context, id string) (*domain.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillStore) Create(ctx context.Context, draft domain.Bill, receipt *domain.StagedFile) (*domain.Bill, error) {
	args := m.Called(ctx, draft, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillStore) Update(ctx context.Context, id string, bill domain.Bill) (*domain.Bill, error) {
	args := m.Called(ctx, id, bill)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

// --- Test Suite ---
type BillServiceTestSuite struct {
	suite.Suite
	mockStore *MockBillStore
	service   portssvc.BillSvcFacade
	session   domain.Session
}

func (suite *BillServiceTestSuite) SetupTest() {
	suite.mockStore = new(MockBillStore)
	suite.service = services.NewBillService(suite.mockStore)
	suite.session = domain.Session{Email: "a@a", Type: "Employee"}
}

func billWithDate(id, date string) domain.Bill {
	return domain.Bill{
		BillID: id,
		Type:   "Transports",
		Name:   "bill " + id,
		Date:   date,
		Amount: decimal.NewFromInt(100),
		Status: domain.StatusPending,
		Email:  "a@a",
	}
}

// --- ListBills ---

func (suite *BillServiceTestSuite) TestListBills_OrdersByDateDescending() {
	ctx := context.Background()
	raw := []domain.Bill{
		billWithDate("b1", "2004-04-04"),
		billWithDate("b2", "2002-02-02"),
		billWithDate("b3", "2003-03-03"),
		billWithDate("b4", "2001-01-01"),
	}
	suite.mockStore.On("List", ctx).Return(raw, nil).Once()

	bills, err := suite.service.ListBills(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(bills, 4)
	dates := []string{bills[0].Date, bills[1].Date, bills[2].Date, bills[3].Date}
	suite.Equal([]string{"2004-04-04", "2003-03-03", "2002-02-02", "2001-01-01"}, dates)
	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *BillServiceTestSuite) TestListBills_EqualDatesKeepInputOrder() {
	ctx := context.Background()
	raw := []domain.Bill{
		billWithDate("first", "2003-03-03"),
		billWithDate("second", "2003-03-03"),
		billWithDate("third", "2003-03-03"),
	}
	suite.mockStore.On("List", ctx).Return(raw, nil).Once()

	bills, err := suite.service.ListBills(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(bills, 3)
	suite.Equal("first", bills[0].ID)
	suite.Equal("second", bills[1].ID)
	suite.Equal("third", bills[2].ID)
}

func (suite *BillServiceTestSuite) TestListBills_EmptyCollection() {
	ctx := context.Background()
	suite.mockStore.On("List", ctx).Return([]domain.Bill{}, nil).Once()

	bills, err := suite.service.ListBills(ctx)

	suite.Require().NoError(err)
	suite.NotNil(bills)
	suite.Len(bills, 0)
}

func (suite *BillServiceTestSuite) TestListBills_MalformedRecordsKept() {
	ctx := context.Background()
	malformed := domain.Bill{BillID: "bad", Date: "not-a-date", Status: domain.BillStatus("mystery")}
	raw := []domain.Bill{billWithDate("ok", "2004-04-04"), malformed}
	suite.mockStore.On("List", ctx).Return(raw, nil).Once()

	bills, err := suite.service.ListBills(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(bills, 2, "one bad record must not drop the list")

	var badRow dto.DisplayBill
	for _, b := range bills {
		if b.ID == "bad" {
			badRow = b
		}
	}
	suite.Equal("not-a-date", badRow.FormattedDate, "unparsable date passes through raw")
	suite.Equal("mystery", badRow.StatusLabel, "unknown status passes through raw")
}

func (suite *BillServiceTestSuite) TestListBills_StoreFailure() {
	ctx := context.Background()
	storeErr := apperrors.NewStoreError(http.StatusInternalServerError, "backend down")
	suite.mockStore.On("List", ctx).Return(nil, storeErr).Once()

	bills, err := suite.service.ListBills(ctx)

	suite.Require().Error(err)
	suite.Nil(bills, "no partial results on failure")
	unwrapped, ok := apperrors.AsStoreError(err)
	suite.Require().True(ok)
	suite.Equal(http.StatusInternalServerError, unwrapped.StatusCode)
}

// --- GetBill ---

func (suite *BillServiceTestSuite) TestGetBill_NotFound() {
	ctx := context.Background()
	suite.mockStore.On("Get", ctx, "missing").
		Return(nil, apperrors.NewStoreError(http.StatusNotFound, "bill missing not found")).Once()

	bill, err := suite.service.GetBill(ctx, "missing")

	suite.Require().Error(err)
	suite.Nil(bill)
	unwrapped, ok := apperrors.AsStoreError(err)
	suite.Require().True(ok)
	suite.Equal(http.StatusNotFound, unwrapped.StatusCode)
}

// --- CreateBill ---

func (suite *BillServiceTestSuite) TestCreateBill_Success() {
	ctx := context.Background()
	req := dto.CreateBillRequest{
		Type:       "Hôtel et logement",
		Name:       "encore",
		Date:       "2004-04-04",
		Amount:     "400",
		VAT:        "80",
		Pct:        20,
		Commentary: "séminaire billed",
	}
	file := domain.StagedFile{
		Name:        "preview-facture-free-201801-pdf-1.jpg",
		ContentType: "image/jpeg",
		Content:     []byte("jpeg-bytes"),
	}
	persisted := billWithDate("47qAXb6fIm2zOKkLzMro", "2004-04-04")
	persisted.FileURL = "https://test.storage.tld/receipt.jpg"
	persisted.FileName = file.Name

	suite.mockStore.On("Create", ctx, mock.MatchedBy(func(draft domain.Bill) bool {
		return draft.BillID == "" &&
			draft.Email == "a@a" &&
			draft.Status == domain.StatusPending &&
			draft.FileName == file.Name &&
			draft.Amount.Equal(decimal.NewFromInt(400))
	}), mock.AnythingOfType("*domain.StagedFile")).Return(&persisted, nil).Once()

	bill, err := suite.service.CreateBill(ctx, suite.session, req, file)

	suite.Require().NoError(err)
	suite.Require().NotNil(bill)
	suite.Equal("47qAXb6fIm2zOKkLzMro", bill.BillID)
	suite.True(bill.HasReceipt())
	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *BillServiceTestSuite) TestCreateBill_InvalidExtension() {
	ctx := context.Background()
	req := dto.CreateBillRequest{Type: "Transports", Name: "gif", Date: "2004-04-04", Amount: "10"}
	file := domain.StagedFile{Name: "file-test.gif", ContentType: "image/gif"}

	bill, err := suite.service.CreateBill(ctx, suite.session, req, file)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidExtension)
	suite.Nil(bill)
	suite.mockStore.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BillServiceTestSuite) TestCreateBill_RejectsBadAmount() {
	ctx := context.Background()
	file := domain.StagedFile{Name: "receipt.png"}

	_, err := suite.service.CreateBill(ctx, suite.session,
		dto.CreateBillRequest{Amount: "not-a-number"}, file)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.CreateBill(ctx, suite.session,
		dto.CreateBillRequest{Amount: "-5"}, file)
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockStore.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
}

// --- UpdateBill ---

func (suite *BillServiceTestSuite) TestUpdateBill_Success() {
	ctx := context.Background()
	req := dto.UpdateBillRequest{
		Type:   "Transports",
		Name:   "corrected",
		Date:   "2004-04-04",
		Amount: decimal.NewFromInt(450),
		Status: "pending",
		Email:  "a@a",
	}
	updated := billWithDate("47qAXb6fIm2zOKkLzMro", "2004-04-04")

	suite.mockStore.On("Update", ctx, "47qAXb6fIm2zOKkLzMro", mock.MatchedBy(func(b domain.Bill) bool {
		return b.BillID == "47qAXb6fIm2zOKkLzMro" && b.Name == "corrected"
	})).Return(&updated, nil).Once()

	bill, err := suite.service.UpdateBill(ctx, "47qAXb6fIm2zOKkLzMro", req)

	suite.Require().NoError(err)
	suite.Equal("47qAXb6fIm2zOKkLzMro", bill.BillID)
	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *BillServiceTestSuite) TestUpdateBill_UnknownID() {
	ctx := context.Background()
	suite.mockStore.On("Update", ctx, "nope", mock.AnythingOfType("domain.Bill")).
		Return(nil, apperrors.NewStoreError(http.StatusNotFound, "bill nope not found")).Once()

	bill, err := suite.service.UpdateBill(ctx, "nope", dto.UpdateBillRequest{})

	suite.Require().Error(err)
	suite.Nil(bill)
	unwrapped, ok := apperrors.AsStoreError(err)
	suite.Require().True(ok)
	suite.Equal(http.StatusNotFound, unwrapped.StatusCode)
}

// --- GetReceipt ---

func (suite *BillServiceTestSuite) TestGetReceipt_StoreWithoutBlobs() {
	// MockBillStore does not implement ReceiptReader, like the REST client.
	receipt, err := suite.service.GetReceipt(context.Background(), "47qAXb6fIm2zOKkLzMro")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(receipt)
}

func TestBillServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BillServiceTestSuite))
}
