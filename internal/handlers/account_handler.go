package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"expensetracker/internal/models"
	"expensetracker/internal/services"
	"expensetracker/internal/uuid"
)

// AccountHandler handles account-related requests
type AccountHandler struct {
	accountService services.AccountServicer
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService services.AccountServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccountRequest represents the request payload for creating an account.
// InitialBalance is accepted for client compatibility; balances are not tracked.
type CreateAccountRequest struct {
	Name           string          `json:"name" binding:"required,notblank,max=50"`
	InitialBalance decimal.Decimal `json:"initialBalance" swaggertype:"number"`
}

// AccountResponse represents an account in the response
type AccountResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"isDefault"`
}

func newAccountResponse(account *models.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID,
		Name:      account.Name,
		IsDefault: account.Owner.IsSystem(),
	}
}

// ListAccounts handles the retrieval of every account visible to the caller
// @Summary     List accounts
// @Description Get the shared default accounts followed by the caller's own
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} AccountResponse "List of accounts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		resp = append(resp, newAccountResponse(&accounts[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateAccount handles the creation of a new account
// @Summary     Create an account
// @Description Create an account private to the caller
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAccountRequest true "Account details"
// @Success     200 {object} AccountResponse "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), userID, req.Name, req.InitialBalance)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAccountResponse(account))
}
