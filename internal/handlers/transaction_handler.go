package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
	"expensetracker/internal/services"
	"expensetracker/internal/uuid"
	"expensetracker/internal/validator"
)

// TotalCountHeader reports the number of transactions before paging.
const TotalCountHeader = "X-Total-Count"

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRequest is the payload for both create and update. Every field
// is overwritten on update.
type TransactionRequest struct {
	Amount          *decimal.Decimal `json:"amount" binding:"required" swaggertype:"number"`
	TransactionDate string           `json:"transactionDate" binding:"required,flexdate" example:"2024-01-01"`
	Notes           *string          `json:"notes" binding:"omitempty,max=500"`
	CategoryID      uuid.UUID        `json:"categoryId" binding:"required" swaggertype:"string" format:"uuid"`
	AccountID       uuid.UUID        `json:"accountId" binding:"required" swaggertype:"string" format:"uuid"`
}

func (r *TransactionRequest) input() services.TransactionInput {
	// flexdate already accepted the value during binding.
	date, _ := validator.ParseFlexibleTime(r.TransactionDate)
	return services.TransactionInput{
		Amount:          *r.Amount,
		TransactionDate: date,
		Notes:           r.Notes,
		CategoryID:      r.CategoryID,
		AccountID:       r.AccountID,
	}
}

// TransactionResponse represents a transaction with its category and account resolved.
type TransactionResponse struct {
	ID              uuid.UUID           `json:"id"`
	Amount          json.Number         `json:"amount" swaggertype:"number" example:"42.50"`
	TransactionDate time.Time           `json:"transactionDate"`
	Notes           *string             `json:"notes"`
	CategoryID      uuid.UUID           `json:"categoryId"`
	AccountID       uuid.UUID           `json:"accountId"`
	CategoryName    string              `json:"categoryName"`
	CategoryType    models.CategoryType `json:"categoryType"`
	AccountName     string              `json:"accountName"`
}

func newTransactionResponse(t *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		Amount:          json.Number(t.Amount.StringFixed(2)),
		TransactionDate: t.TransactionDate.UTC(),
		Notes:           t.Notes,
		CategoryID:      t.CategoryID,
		AccountID:       t.AccountID,
		CategoryName:    t.Category.Name,
		CategoryType:    t.Category.Type,
		AccountName:     t.Account.Name,
	}
}

// ListTransactions handles the retrieval of the caller's transactions
// @Summary     List transactions
// @Description Get the caller's transactions, newest first. Without page parameters every row is returned.
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (starts at 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {array} TransactionResponse "Transactions"
// @Header      200 {integer} X-Total-Count "Total number of transactions"
// @Failure     400 {object} ErrorResponse "Invalid page parameters"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}
	var pageReq *pagination.PageRequest
	if !page.IsZero() {
		pageReq = &page
	}

	transactions, total, err := h.transactionService.ListTransactions(c.Request.Context(), userID, pageReq)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := make([]TransactionResponse, 0, len(transactions))
	for i := range transactions {
		resp = append(resp, newTransactionResponse(&transactions[i]))
	}
	c.Header(TotalCountHeader, strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, resp)
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record a transaction against a category and an account visible to the caller
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} TransactionResponse "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input or unknown category/account"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), userID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTransactionResponse(transaction))
}

// UpdateTransaction handles overwriting a transaction
// @Summary     Update a transaction
// @Description Replace every field of a transaction the caller owns
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Transaction ID" format(uuid)
// @Param       request body TransactionRequest true "Transaction details"
// @Success     200 {object} TransactionResponse "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input or unknown category/account"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Transaction belongs to another user"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request.Context(), userID, transactionID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTransactionResponse(transaction))
}

// DeleteTransaction handles permanently removing a transaction
// @Summary     Delete a transaction
// @Description Permanently delete a transaction the caller owns
// @Tags        transactions
// @Security    BearerAuth
// @Param       id path string true "Transaction ID" format(uuid)
// @Success     204 "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Transaction belongs to another user"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
