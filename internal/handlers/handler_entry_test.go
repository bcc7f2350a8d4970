package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerbook/ledgerbook/internal/apperrors"
	"github.com/ledgerbook/ledgerbook/internal/core/domain"
	portssvc "github.com/ledgerbook/ledgerbook/internal/core/ports/services"
	"github.com/ledgerbook/ledgerbook/internal/dto"
	"github.com/ledgerbook/ledgerbook/internal/handlers"
	"github.com/ledgerbook/ledgerbook/internal/platform/config"
)

// --- Mock EntryService ---
type MockEntryService struct {
	mock.Mock
}

func (m *MockEntryService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest) (*dto.EntryResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.EntryResponse), args.Error(1)
}

func (m *MockEntryService) GetEntryByID(ctx context.Context, entryID string) (*dto.EntryResponse, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.EntryResponse), args.Error(1)
}

func (m *MockEntryService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest) (*dto.EntryResponse, error) {
	args := m.Called(ctx, entryID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.EntryResponse), args.Error(1)
}

func (m *MockEntryService) DeleteEntry(ctx context.Context, entryID string) (*dto.EntryDeletedResponse, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.EntryDeletedResponse), args.Error(1)
}

func (m *MockEntryService) ListEntries(ctx context.Context, filter domain.EntryFilter, limit, offset int) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

var _ portssvc.EntryService = (*MockEntryService)(nil)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateOrReactivateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListActiveAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

var _ portssvc.AccountService = (*MockAccountService)(nil)

// --- Mock SummaryService ---
type MockSummaryService struct {
	mock.Mock
}

func (m *MockSummaryService) GetSummary(ctx context.Context, filter domain.EntryFilter) (domain.LedgerSummary, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(domain.LedgerSummary), args.Error(1)
}

var _ portssvc.SummaryService = (*MockSummaryService)(nil)

// --- Test Suite Setup ---

type EntryHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockEntries  *MockEntryService
	mockAccounts *MockAccountService
	mockSummary  *MockSummaryService
}

func (suite *EntryHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.mockEntries = new(MockEntryService)
	suite.mockAccounts = new(MockAccountService)
	suite.mockSummary = new(MockSummaryService)

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, &config.Config{IsProduction: true}, &portssvc.ServiceContainer{
		Account: suite.mockAccounts,
		Entry:   suite.mockEntries,
		Summary: suite.mockSummary,
	}, nil)
}

func (suite *EntryHandlerTestSuite) perform(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *EntryHandlerTestSuite) TestCreateEntry_Created() {
	resp := &dto.EntryResponse{
		EntryID:        uuid.NewString(),
		AccountName:    "Operating Cash",
		EntryType:      "debit",
		Amount:         decimal.RequireFromString("100.00"),
		Currency:       "USD",
		Version:        1,
		CanadianAmount: decimal.RequireFromString("135.00"),
	}
	suite.mockEntries.On("CreateEntry", mock.Anything, mock.AnythingOfType("dto.CreateEntryRequest")).Return(resp, nil).Once()

	w := suite.perform(http.MethodPost, "/api/v1/entries", gin.H{
		"accountName":    "Operating Cash",
		"entryType":      "debit",
		"amount":         "100.00",
		"idempotencyKey": "create-entry-001",
	})

	suite.Equal(http.StatusCreated, w.Code)

	var got dto.EntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(resp.EntryID, got.EntryID)
	suite.mockEntries.AssertExpectations(suite.T())
}

func (suite *EntryHandlerTestSuite) TestCreateEntry_MissingRequiredFieldIs400() {
	w := suite.perform(http.MethodPost, "/api/v1/entries", gin.H{
		"entryType": "debit",
		"amount":    "100.00",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockEntries.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything)
}

func (suite *EntryHandlerTestSuite) TestCreateEntry_ConflictMapsTo409() {
	suite.mockEntries.On("CreateEntry", mock.Anything, mock.AnythingOfType("dto.CreateEntryRequest")).
		Return(nil, apperrors.ErrConflict).Once()

	w := suite.perform(http.MethodPost, "/api/v1/entries", gin.H{
		"accountName":    "Operating Cash",
		"entryType":      "credit",
		"amount":         "5.00",
		"idempotencyKey": "create-entry-002",
	})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *EntryHandlerTestSuite) TestGetEntry_NotFoundMapsTo404() {
	suite.mockEntries.On("GetEntryByID", mock.Anything, "missing-id").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.perform(http.MethodGet, "/api/v1/entries/missing-id", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *EntryHandlerTestSuite) TestGetEntry_GatewayFailureMapsTo502() {
	suite.mockEntries.On("GetEntryByID", mock.Anything, "some-id").Return(nil, apperrors.ErrGateway).Once()

	w := suite.perform(http.MethodGet, "/api/v1/entries/some-id", nil)

	suite.Equal(http.StatusBadGateway, w.Code)
}

func (suite *EntryHandlerTestSuite) TestListEntries_FilterAndPagingForwarded() {
	suite.mockEntries.On("ListEntries", mock.Anything, mock.MatchedBy(func(f domain.EntryFilter) bool {
		return f.AccountName == "Operating Cash" &&
			f.Currency == "USD" &&
			f.EntryType != nil && *f.EntryType == domain.Debit &&
			f.StartDate != nil && f.EndDate != nil
	}), 25, 50).Return(&dto.ListEntriesResponse{
		Total:   int64(110),
		Limit:   25,
		Offset:  50,
		Entries: []dto.EntryResponse{},
	}, nil).Once()

	w := suite.perform(http.MethodGet,
		"/api/v1/entries?account_name=Operating+Cash&currency=usd&entry_type=debit&start_date=2025-01-01&end_date=2025-12-31&limit=25&offset=50", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockEntries.AssertExpectations(suite.T())
}

func (suite *EntryHandlerTestSuite) TestListEntries_BadDateIs400() {
	w := suite.perform(http.MethodGet, "/api/v1/entries?start_date=yesterday", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockEntries.AssertNotCalled(suite.T(), "ListEntries", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryHandlerTestSuite) TestUpdateEntry_NoFieldsMapsTo400() {
	suite.mockEntries.On("UpdateEntry", mock.Anything, "some-id", dto.UpdateEntryRequest{}).
		Return(nil, apperrors.ErrValidation).Once()

	w := suite.perform(http.MethodPatch, "/api/v1/entries/some-id", gin.H{})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *EntryHandlerTestSuite) TestDeleteEntry_ReturnsDeletionReceipt() {
	entryID := uuid.NewString()
	suite.mockEntries.On("DeleteEntry", mock.Anything, entryID).
		Return(&dto.EntryDeletedResponse{EntryID: entryID, IsDeleted: true, Version: 2}, nil).Once()

	w := suite.perform(http.MethodDelete, "/api/v1/entries/"+entryID, nil)

	suite.Equal(http.StatusOK, w.Code)

	var got dto.EntryDeletedResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.True(got.IsDeleted)
	suite.Equal(int64(2), got.Version)
}

func (suite *EntryHandlerTestSuite) TestGetSummary_OK() {
	suite.mockSummary.On("GetSummary", mock.Anything, mock.AnythingOfType("domain.EntryFilter")).
		Return(domain.ZeroLedgerSummary(), nil).Once()

	w := suite.perform(http.MethodGet, "/api/v1/summary", nil)

	suite.Equal(http.StatusOK, w.Code)

	var got dto.SummaryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.True(got.IsBalanced)
}

func TestEntryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(EntryHandlerTestSuite))
}
