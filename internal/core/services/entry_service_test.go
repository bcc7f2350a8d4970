package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerbook/ledgerbook/internal/apperrors"
	"github.com/ledgerbook/ledgerbook/internal/core/domain"
	portsrepo "github.com/ledgerbook/ledgerbook/internal/core/ports/repositories"
	"github.com/ledgerbook/ledgerbook/internal/core/services"
	"github.com/ledgerbook/ledgerbook/internal/dto"
	"github.com/ledgerbook/ledgerbook/internal/events"
)

// MockEntryRepository is a mock type for the EntryRepository interface
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) FindEntryByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) ListEntries(ctx context.Context, filter domain.EntryFilter, limit, offset int) ([]domain.LedgerEntry, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockEntryRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) UpdateEntry(ctx context.Context, entryID string, amount decimal.Decimal, description string, expectedVersion int64, now time.Time) error {
	args := m.Called(ctx, entryID, amount, description, expectedVersion, now)
	return args.Error(0)
}

func (m *MockEntryRepository) SoftDeleteEntry(ctx context.Context, entryID string, expectedVersion int64, now time.Time) error {
	args := m.Called(ctx, entryID, expectedVersion, now)
	return args.Error(0)
}

var _ portsrepo.EntryRepository = (*MockEntryRepository)(nil)

// MockAccountReader is a mock type for the AccountReader interface
type MockAccountReader struct {
	mock.Mock
}

func (m *MockAccountReader) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountReader) FindAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountReader) FindActiveAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountReader) ListActiveAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

var _ portsrepo.AccountReader = (*MockAccountReader)(nil)

// MockRateProvider is a mock type for the RateProvider interface
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) UsdToCadRate(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockPublisher is a mock type for the events.Publisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.EntryEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// --- Test Suite Setup ---

type EntryServiceTestSuite struct {
	suite.Suite
	mockEntryRepo   *MockEntryRepository
	mockAccountRepo *MockAccountReader
	mockRates       *MockRateProvider
	mockPublisher   *MockPublisher
	service         *services.EntryService

	account domain.Account
	rate    decimal.Decimal
}

func (suite *EntryServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.mockAccountRepo = new(MockAccountReader)
	suite.mockRates = new(MockRateProvider)
	suite.mockPublisher = new(MockPublisher)
	suite.service = services.NewEntryService(suite.mockEntryRepo, suite.mockAccountRepo, suite.mockRates, suite.mockPublisher)

	suite.account = domain.Account{
		AccountID: uuid.NewString(),
		Name:      "Operating Cash",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	suite.rate = decimal.RequireFromString("1.35")
}

func (suite *EntryServiceTestSuite) storedEntry() *domain.LedgerEntry {
	now := time.Now().UTC()
	return &domain.LedgerEntry{
		EntryID:        uuid.NewString(),
		AccountID:      suite.account.AccountID,
		AccountName:    suite.account.Name,
		EntryDate:      now,
		EntryType:      domain.Debit,
		Amount:         decimal.RequireFromString("100.00"),
		Currency:       "USD",
		Description:    "office chairs",
		IdempotencyKey: "create-entry-001",
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// --- Create ---

func (suite *EntryServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	desc := "office chairs"
	req := dto.CreateEntryRequest{
		AccountName:    suite.account.Name,
		EntryType:      "debit",
		Amount:         decimal.RequireFromString("100.005"),
		Description:    &desc,
		IdempotencyKey: "create-entry-001",
	}

	suite.mockAccountRepo.On("FindActiveAccountByName", ctx, suite.account.Name).Return(&suite.account, nil).Once()
	suite.mockEntryRepo.On("FindEntryByIdempotencyKey", ctx, "create-entry-001").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.LedgerEntry")).Return(nil).Once()
	suite.mockPublisher.On("Publish", ctx, mock.AnythingOfType("events.EntryEvent")).Return(nil).Once()
	suite.mockRates.On("UsdToCadRate", ctx).Return(suite.rate, nil).Once()

	resp, err := suite.service.CreateEntry(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.NotEmpty(resp.EntryID)
	suite.Equal(suite.account.AccountID, resp.AccountID)
	suite.Equal("debit", resp.EntryType)
	// Amount is rounded half away from zero to 2 places before storage.
	suite.True(resp.Amount.Equal(decimal.RequireFromString("100.01")), "got %s", resp.Amount)
	suite.Equal("USD", resp.Currency)
	suite.Equal(int64(1), resp.Version)
	suite.False(resp.IsDeleted)
	// 100.01 * 1.35 = 135.0135 -> 135.01
	suite.True(resp.CanadianAmount.Equal(decimal.RequireFromString("135.01")), "got %s", resp.CanadianAmount)

	suite.mockEntryRepo.AssertExpectations(suite.T())
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestCreateEntry_IdempotentReplayReturnsStoredRow() {
	ctx := context.Background()
	stored := suite.storedEntry()
	desc := stored.Description
	req := dto.CreateEntryRequest{
		AccountName:    suite.account.Name,
		EntryType:      "debit",
		Amount:         decimal.RequireFromString("100.00"),
		Description:    &desc,
		IdempotencyKey: stored.IdempotencyKey,
	}

	suite.mockAccountRepo.On("FindActiveAccountByName", ctx, suite.account.Name).Return(&suite.account, nil).Once()
	suite.mockEntryRepo.On("FindEntryByIdempotencyKey", ctx, stored.IdempotencyKey).Return(stored, nil).Once()
	suite.mockRates.On("UsdToCadRate", ctx).Return(suite.rate, nil).Once()

	resp, err := suite.service.CreateEntry(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(stored.EntryID, resp.EntryID)
	suite.Equal(int64(1), resp.Version)

	// Replay must not write or publish anything.
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
	suite.mockPublisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_KeyReuseWithDifferentAmountConflicts() {
	ctx := context.Background()
	stored := suite.storedEntry()
	req := dto.CreateEntryRequest{
		AccountName:    suite.account.Name,
		EntryType:      "debit",
		Amount:         decimal.RequireFromString("250.00"),
		IdempotencyKey: stored.IdempotencyKey,
	}

	suite.mockAccountRepo.On("FindActiveAccountByName", ctx, suite.account.Name).Return(&suite.account, nil).Once()
	suite.mockEntryRepo.On("FindEntryByIdempotencyKey", ctx, stored.IdempotencyKey).Return(stored, nil).Once()

	resp, err := suite.service.CreateEntry(ctx, req)

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.ErrorContains(err, "idempotency key already used with different data")
}

func (suite *EntryServiceTestSuite) TestCreateEntry_ConcurrentInsertLoserReplaysWinner() {
	ctx := context.Background()
	stored := suite.storedEntry()
	stored.Description = ""
	req := dto.CreateEntryRequest{
		AccountName:    suite.account.Name,
		EntryType:      "debit",
		Amount:         decimal.RequireFromString("100.00"),
		IdempotencyKey: stored.IdempotencyKey,
	}

	suite.mockAccountRepo.On("FindActiveAccountByName", ctx, suite.account.Name).Return(&suite.account, nil).Once()
	// Fast path sees no entry, then the insert loses to a concurrent create.
	suite.mockEntryRepo.On("FindEntryByIdempotencyKey", ctx, stored.IdempotencyKey).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.LedgerEntry")).Return(apperrors.ErrConflict).Once()
	suite.mockEntryRepo.On("FindEntryByIdempotencyKey", ctx, stored.IdempotencyKey).Return(stored, nil).Once()
	suite.mockRates.On("UsdToCadRate", ctx).Return(suite.rate, nil).Once()

	resp, err := suite.service.CreateEntry(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(stored.EntryID, resp.EntryID)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestCreateEntry_InactiveAccountNotFound() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		AccountName:    "Dormant",
		EntryType:      "credit",
		Amount:         decimal.RequireFromString("10.00"),
		IdempotencyKey: "create-entry-002",
	}

	suite.mockAccountRepo.On("FindActiveAccountByName", ctx, "Dormant").Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.CreateEntry(ctx, req)

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.ErrorContains(err, "account not found or inactive")
}

func (suite *EntryServiceTestSuite) TestCreateEntry_ValidationFailures() {
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.CreateEntryRequest
	}{
		{
			name: "short idempotency key",
			req: dto.CreateEntryRequest{
				AccountName:    suite.account.Name,
				EntryType:      "debit",
				Amount:         decimal.RequireFromString("5.00"),
				IdempotencyKey: "  abc  ",
			},
		},
		{
			name: "negative amount",
			req: dto.CreateEntryRequest{
				AccountName:    suite.account.Name,
				EntryType:      "debit",
				Amount:         decimal.RequireFromString("-5.00"),
				IdempotencyKey: "create-entry-003",
			},
		},
		{
			name: "unsupported currency",
			req: dto.CreateEntryRequest{
				AccountName:    suite.account.Name,
				EntryType:      "debit",
				Amount:         decimal.RequireFromString("5.00"),
				Currency:       "EUR",
				IdempotencyKey: "create-entry-004",
			},
		},
		{
			name: "bad entry type",
			req: dto.CreateEntryRequest{
				AccountName:    suite.account.Name,
				EntryType:      "withdrawal",
				Amount:         decimal.RequireFromString("5.00"),
				IdempotencyKey: "create-entry-005",
			},
		},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			resp, err := suite.service.CreateEntry(ctx, tc.req)
			suite.Require().Error(err)
			suite.Nil(resp)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}

	// None of the invalid requests may reach storage.
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

// --- Get ---

func (suite *EntryServiceTestSuite) TestGetEntryByID_NotFound() {
	ctx := context.Background()
	suite.mockEntryRepo.On("FindEntryByID", ctx, "missing-id").Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.GetEntryByID(ctx, "missing-id")

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.ErrorContains(err, "ledger entry not found")
}

func (suite *EntryServiceTestSuite) TestGetEntryByID_GatewayFailurePropagates() {
	ctx := context.Background()
	stored := suite.storedEntry()

	suite.mockEntryRepo.On("FindEntryByID", ctx, stored.EntryID).Return(stored, nil).Once()
	suite.mockRates.On("UsdToCadRate", ctx).Return(decimal.Zero, apperrors.ErrGateway).Once()

	resp, err := suite.service.GetEntryByID(ctx, stored.EntryID)

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrGateway)
}

// --- Update ---

func (suite *EntryServiceTestSuite) TestUpdateEntry_NoFieldsProvided() {
	ctx := context.Background()

	resp, err := suite.service.UpdateEntry(ctx, "some-id", dto.UpdateEntryRequest{})

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorContains(err, "no fields provided to update")
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "FindEntryByID", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestUpdateEntry_NoChangesDetected() {
	ctx := context.Background()
	stored := suite.storedEntry()
	sameAmount := stored.Amount
	sameDesc := stored.Description

	suite.mockEntryRepo.On("FindEntryByID", ctx, stored.EntryID).Return(stored, nil).Once()

	resp, err := suite.service.UpdateEntry(ctx, stored.EntryID, dto.UpdateEntryRequest{
		Amount:      &sameAmount,
		Description: &sameDesc,
	})

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorContains(err, "no changes detected in update")
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "UpdateEntry",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestUpdateEntry_Success() {
	ctx := context.Background()
	stored := suite.storedEntry()
	newAmount := decimal.RequireFromString("175.50")

	suite.mockEntryRepo.On("FindEntryByID", ctx, stored.EntryID).Return(stored, nil).Once()
	suite.mockEntryRepo.On("UpdateEntry", ctx, stored.EntryID, newAmount, stored.Description, int64(1), mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockPublisher.On("Publish", ctx, mock.AnythingOfType("events.EntryEvent")).Return(nil).Once()
	suite.mockRates.On("UsdToCadRate", ctx).Return(suite.rate, nil).Once()

	resp, err := suite.service.UpdateEntry(ctx, stored.EntryID, dto.UpdateEntryRequest{Amount: &newAmount})

	suite.Require().NoError(err)
	suite.True(resp.Amount.Equal(newAmount))
	suite.Equal(int64(2), resp.Version)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestUpdateEntry_CASConflictSurfaces() {
	ctx := context.Background()
	stored := suite.storedEntry()
	newAmount := decimal.RequireFromString("175.50")

	suite.mockEntryRepo.On("FindEntryByID", ctx, stored.EntryID).Return(stored, nil).Once()
	suite.mockEntryRepo.On("UpdateEntry", ctx, stored.EntryID, newAmount, stored.Description, int64(1), mock.AnythingOfType("time.Time")).Return(apperrors.ErrConflict).Once()

	resp, err := suite.service.UpdateEntry(ctx, stored.EntryID, dto.UpdateEntryRequest{Amount: &newAmount})

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockPublisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

// --- Delete ---

func (suite *EntryServiceTestSuite) TestDeleteEntry_Success() {
	ctx := context.Background()
	stored := suite.storedEntry()

	suite.mockEntryRepo.On("FindEntryByID", ctx, stored.EntryID).Return(stored, nil).Once()
	suite.mockEntryRepo.On("SoftDeleteEntry", ctx, stored.EntryID, int64(1), mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockPublisher.On("Publish", ctx, mock.AnythingOfType("events.EntryEvent")).Return(nil).Once()

	resp, err := suite.service.DeleteEntry(ctx, stored.EntryID)

	suite.Require().NoError(err)
	suite.Equal(stored.EntryID, resp.EntryID)
	suite.True(resp.IsDeleted)
	suite.Equal(int64(2), resp.Version)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestDeleteEntry_AlreadyDeletedNotFound() {
	ctx := context.Background()

	// The read path filters deleted rows, so a second delete sees nothing.
	suite.mockEntryRepo.On("FindEntryByID", ctx, "gone-id").Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.DeleteEntry(ctx, "gone-id")

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *EntryServiceTestSuite) TestDeleteEntry_PublishFailureIsBestEffort() {
	ctx := context.Background()
	stored := suite.storedEntry()

	suite.mockEntryRepo.On("FindEntryByID", ctx, stored.EntryID).Return(stored, nil).Once()
	suite.mockEntryRepo.On("SoftDeleteEntry", ctx, stored.EntryID, int64(1), mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockPublisher.On("Publish", ctx, mock.AnythingOfType("events.EntryEvent")).Return(assert.AnError).Once()

	resp, err := suite.service.DeleteEntry(ctx, stored.EntryID)

	suite.Require().NoError(err)
	suite.True(resp.IsDeleted)
}

// --- List ---

func (suite *EntryServiceTestSuite) TestListEntries_SingleRateFetchPerPage() {
	ctx := context.Background()
	e1 := *suite.storedEntry()
	e2 := *suite.storedEntry()
	e2.Amount = decimal.RequireFromString("20.00")
	filter := domain.EntryFilter{AccountName: suite.account.Name}

	suite.mockEntryRepo.On("ListEntries", ctx, mock.AnythingOfType("domain.EntryFilter"), 100, 0).
		Return([]domain.LedgerEntry{e1, e2}, int64(7), nil).Once()
	suite.mockRates.On("UsdToCadRate", ctx).Return(suite.rate, nil).Once()

	resp, err := suite.service.ListEntries(ctx, filter, 100, 0)

	suite.Require().NoError(err)
	suite.Equal(int64(7), resp.Total)
	suite.Equal(100, resp.Limit)
	suite.Equal(0, resp.Offset)
	suite.Require().Len(resp.Entries, 2)
	suite.True(resp.Entries[0].CanadianAmount.Equal(decimal.RequireFromString("135.00")))
	suite.True(resp.Entries[1].CanadianAmount.Equal(decimal.RequireFromString("27.00")))

	suite.mockRates.AssertNumberOfCalls(suite.T(), "UsdToCadRate", 1)
}

func (suite *EntryServiceTestSuite) TestListEntries_EmptyPageStillFetchesRate() {
	ctx := context.Background()

	suite.mockEntryRepo.On("ListEntries", ctx, mock.AnythingOfType("domain.EntryFilter"), 50, 10).
		Return([]domain.LedgerEntry{}, int64(0), nil).Once()
	suite.mockRates.On("UsdToCadRate", ctx).Return(suite.rate, nil).Once()

	resp, err := suite.service.ListEntries(ctx, domain.EntryFilter{}, 50, 10)

	suite.Require().NoError(err)
	suite.Equal(int64(0), resp.Total)
	suite.Empty(resp.Entries)
}

func TestEntryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EntryServiceTestSuite))
}
