package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "moneta/internal/errors"
	"moneta/internal/services"
)

// WalletHandler handles wallet-related requests
type WalletHandler struct {
	walletService services.WalletServicer
	auditService  services.AuditServicer
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService services.WalletServicer, auditService services.AuditServicer) *WalletHandler {
	return &WalletHandler{walletService: walletService, auditService: auditService}
}

// CreateWalletRequest represents the wallet creation payload. The untracked
// balance arrives as a decimal string to avoid float rounding on the wire.
type CreateWalletRequest struct {
	Name             string `json:"name" binding:"required,max=100"`
	CurrencyID       string `json:"currency_id" binding:"required,uuid"`
	UntrackedBalance string `json:"untracked_balance" binding:"omitempty"`
}

// UpdateWalletRequest represents a partial wallet update payload
type UpdateWalletRequest struct {
	Name             *string `json:"name" binding:"omitempty,max=100"`
	UntrackedBalance *string `json:"untracked_balance"`
}

// walletListQuery holds the query parameters of the wallet listing endpoint
type walletListQuery struct {
	View       string  `form:"view" binding:"omitempty,oneof=plain table"`
	CurrencyID *string `form:"currency_id" binding:"omitempty,uuid"`
}

// CreateWallet creates a new wallet
// @Summary     Create wallet
// @Description Create a new wallet denominated in an existing currency
// @Tags        wallets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateWalletRequest true "Wallet data"
// @Success     201 {object} map[string]interface{} "Created wallet"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets [post]
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	untracked := decimal.Zero
	if req.UntrackedBalance != "" {
		untracked, err = decimal.NewFromString(req.UntrackedBalance)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "untracked_balance must be a decimal number"))
			return
		}
	}

	wallet, err := h.walletService.CreateWallet(userID, req.Name, req.CurrencyID, untracked)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "wallet", wallet.ID)
	c.JSON(http.StatusCreated, gin.H{"wallet": wallet})
}

// GetWallets lists the user's wallets
// @Summary     List wallets
// @Description Get the user's wallets, either plain or as aggregated table rows
// @Tags        wallets
// @Produce     json
// @Security    BearerAuth
// @Param       view query string false "View: plain (default) or table"
// @Param       currency_id query string false "Restrict table rows to one currency"
// @Success     200 {object} map[string]interface{} "Wallets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets [get]
func (h *WalletHandler) GetWallets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query walletListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if query.View == "table" {
		rows, err := h.walletService.GetWalletTableRows(userID, query.CurrencyID)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"wallets": rows})
		return
	}

	wallets, err := h.walletService.GetWallets(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallets": wallets})
}

// UpdateWallet applies a partial update to a wallet
// @Summary     Update wallet
// @Description Update a wallet's name or untracked balance
// @Tags        wallets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Wallet ID"
// @Param       request body UpdateWalletRequest true "Fields to update"
// @Success     200 {object} map[string]interface{} "Updated wallet"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets/{id} [put]
func (h *WalletHandler) UpdateWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.WalletUpdateFields{Name: req.Name}
	if req.UntrackedBalance != nil {
		untracked, err := decimal.NewFromString(*req.UntrackedBalance)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "untracked_balance must be a decimal number"))
			return
		}
		fields.UntrackedBalance = &untracked
	}

	wallet, err := h.walletService.UpdateWallet(userID, c.Param("id"), fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "update", "wallet", wallet.ID)
	c.JSON(http.StatusOK, gin.H{"wallet": wallet})
}

// DeleteWallet soft-deletes a wallet and its transactions
// @Summary     Delete wallet
// @Description Delete a wallet together with all of its transactions
// @Tags        wallets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Wallet ID"
// @Success     204 "Wallet deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets/{id} [delete]
func (h *WalletHandler) DeleteWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	walletID := c.Param("id")
	if err := h.walletService.DeleteWallet(userID, walletID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete", "wallet", walletID)
	c.Status(http.StatusNoContent)
}
