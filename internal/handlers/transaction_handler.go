package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "moneta/internal/errors"
	"moneta/internal/services"
)

// TransactionHandler handles transaction-related requests
type TransactionHandler struct {
	transactionService services.TransactionServicer
	balanceService     services.BalanceServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(
	transactionService services.TransactionServicer,
	balanceService services.BalanceServicer,
	auditService services.AuditServicer,
) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		balanceService:     balanceService,
		auditService:       auditService,
	}
}

// CreateTransactionRequest represents the transaction creation payload.
// Amounts arrive as decimal strings to avoid float rounding on the wire.
// CarriedOut is a pointer so the epoch itself stays a valid business date.
type CreateTransactionRequest struct {
	Name        string   `json:"name" binding:"required,max=255"`
	WalletID    string   `json:"wallet_id" binding:"required,uuid"`
	CategoryIDs []string `json:"category_ids" binding:"omitempty,dive,uuid"`
	CarriedOut  *int64   `json:"carried_out" binding:"required"`
	Amount      string   `json:"amount" binding:"required"`
	IsIncome    *bool    `json:"is_income" binding:"required"`
}

// UpdateTransactionRequest represents a partial transaction update payload
type UpdateTransactionRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=255"`
	WalletID    *string   `json:"wallet_id" binding:"omitempty,uuid"`
	CategoryIDs *[]string `json:"category_ids" binding:"omitempty,dive,uuid"`
	CarriedOut  *int64    `json:"carried_out"`
	Amount      *string   `json:"amount"`
	IsIncome    *bool     `json:"is_income"`
}

// transactionRangeQuery holds the query parameters of the ranged listing.
// The range bounds are pointers so a range starting at epoch zero binds.
type transactionRangeQuery struct {
	CurrencyID string   `form:"currency_id" binding:"required,uuid"`
	Start      *int64   `form:"start_carried_out" binding:"required"`
	End        *int64   `form:"end_carried_out" binding:"required"`
	Wallets    []string `form:"wallets" binding:"required,dive,uuid"`
}

// CreateTransaction records a new income or expense entry
// @Summary     Create transaction
// @Description Record a new income or expense transaction with optional categories
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction data"
// @Success     201 {object} map[string]interface{} "Created transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be a decimal number"))
		return
	}

	transaction, err := h.transactionService.CreateTransaction(
		userID, req.Name, req.WalletID, req.CategoryIDs, *req.CarriedOut, amount, *req.IsIncome)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "transaction", transaction.ID)
	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetTransactions lists transactions in a carried-out range
// @Summary     List transactions
// @Description Get the newest transactions in an inclusive carried-out range for a set of wallets
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       currency_id query string true "Currency ID"
// @Param       start_carried_out query int true "Range start (Unix seconds, inclusive)"
// @Param       end_carried_out query int true "Range end (Unix seconds, inclusive)"
// @Param       wallets query []string true "Wallet IDs" collectionFormat(multi)
// @Success     200 {object} map[string]interface{} "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query transactionRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	rows, err := h.balanceService.GetTransactionsByRange(userID, query.CurrencyID, *query.Start, *query.End, query.Wallets)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": rows})
}

// UpdateTransaction applies a partial update to a transaction
// @Summary     Update transaction
// @Description Update one or more fields of a transaction; a new category set replaces the old one
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} map[string]interface{} "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction, wallet, or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.TransactionUpdateFields{
		Name:        req.Name,
		WalletID:    req.WalletID,
		CategoryIDs: req.CategoryIDs,
		CarriedOut:  req.CarriedOut,
		IsIncome:    req.IsIncome,
	}
	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be a decimal number"))
			return
		}
		fields.Amount = &amount
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, c.Param("id"), fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "update", "transaction", transaction.ID)
	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction soft-deletes a transaction
// @Summary     Delete transaction
// @Description Delete a transaction; a second delete of the same ID reports not found
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID := c.Param("id")
	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete", "transaction", transactionID)
	c.Status(http.StatusNoContent)
}
