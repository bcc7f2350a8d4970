package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerbook/ledgerbook/internal/apperrors"
	"github.com/ledgerbook/ledgerbook/internal/core/domain"
	"github.com/ledgerbook/ledgerbook/internal/dto"
)

type AccountHandlerTestSuite struct {
	EntryHandlerTestSuite
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_Created() {
	account := &domain.Account{
		AccountID: uuid.NewString(),
		Name:      "Operating Cash",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	suite.mockAccounts.On("CreateOrReactivateAccount", mock.Anything, mock.AnythingOfType("dto.CreateAccountRequest")).
		Return(account, nil).Once()

	w := suite.perform(http.MethodPost, "/api/v1/accounts", gin.H{"name": "Operating Cash"})

	suite.Equal(http.StatusCreated, w.Code)

	var got dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(account.AccountID, got.AccountID)
	suite.True(got.IsActive)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_DuplicateNameMapsTo409() {
	suite.mockAccounts.On("CreateOrReactivateAccount", mock.Anything, mock.AnythingOfType("dto.CreateAccountRequest")).
		Return(nil, apperrors.ErrConflict).Once()

	w := suite.perform(http.MethodPost, "/api/v1/accounts", gin.H{"name": "Operating Cash"})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_MissingNameIs400() {
	w := suite.perform(http.MethodPost, "/api/v1/accounts", gin.H{})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccounts.AssertNotCalled(suite.T(), "CreateOrReactivateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestUpdateAccount_OK() {
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, Name: "Renamed", IsActive: true}
	suite.mockAccounts.On("UpdateAccount", mock.Anything, accountID, mock.AnythingOfType("dto.UpdateAccountRequest")).
		Return(account, nil).Once()

	w := suite.perform(http.MethodPatch, "/api/v1/accounts/"+accountID, gin.H{"name": "Renamed"})

	suite.Equal(http.StatusOK, w.Code)

	var got dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal("Renamed", got.Name)
}

func (suite *AccountHandlerTestSuite) TestUpdateAccount_UnknownIDMapsTo404() {
	suite.mockAccounts.On("UpdateAccount", mock.Anything, "missing-id", mock.AnythingOfType("dto.UpdateAccountRequest")).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.perform(http.MethodPatch, "/api/v1/accounts/missing-id", gin.H{"isActive": false})

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AccountHandlerTestSuite) TestListAccounts_OK() {
	accounts := []domain.Account{
		{AccountID: uuid.NewString(), Name: "Accounts Receivable", IsActive: true},
		{AccountID: uuid.NewString(), Name: "Operating Cash", IsActive: true},
	}
	suite.mockAccounts.On("ListActiveAccounts", mock.Anything).Return(accounts, nil).Once()

	w := suite.perform(http.MethodGet, "/api/v1/accounts", nil)

	suite.Equal(http.StatusOK, w.Code)

	var got dto.ListAccountsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Require().Len(got.Accounts, 2)
	suite.Equal("Accounts Receivable", got.Accounts[0].Name)
}

func TestAccountHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
