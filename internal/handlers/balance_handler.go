package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/services"
)

// BalanceHandler serves the aggregated balance views
type BalanceHandler struct {
	balanceService services.BalanceServicer
}

// NewBalanceHandler creates a new BalanceHandler
func NewBalanceHandler(balanceService services.BalanceServicer) *BalanceHandler {
	return &BalanceHandler{balanceService: balanceService}
}

// balanceQuery holds the query parameters of the balance endpoint. The
// range bounds are pointers so a range starting at epoch zero binds.
type balanceQuery struct {
	CurrencyID string   `form:"currency_id" binding:"required,uuid"`
	Start      *int64   `form:"start_carried_out" binding:"required"`
	End        *int64   `form:"end_carried_out" binding:"required"`
	Wallets    []string `form:"wallets" binding:"required,dive,uuid"`
}

// monthlyQuery holds the query parameters of the monthly totals endpoint
type monthlyQuery struct {
	CurrencyCode *string `form:"currency_code" binding:"omitempty,iso4217"`
}

// GetBalance returns the income and expense sums for a range
// @Summary     Get balance
// @Description Get total income and expense over an inclusive carried-out range for a set of wallets
// @Tags        balance
// @Produce     json
// @Security    BearerAuth
// @Param       currency_id query string true "Currency ID"
// @Param       start_carried_out query int true "Range start (Unix seconds, inclusive)"
// @Param       end_carried_out query int true "Range end (Unix seconds, inclusive)"
// @Param       wallets query []string true "Wallet IDs" collectionFormat(multi)
// @Success     200 {object} map[string]interface{} "Balance totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /balance [get]
func (h *BalanceHandler) GetBalance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query balanceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	balance, err := h.balanceService.GetBalance(userID, query.CurrencyID, *query.Start, *query.End, query.Wallets)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// GetMonthlyTotals returns per-wallet calendar-month buckets
// @Summary     Get monthly wallet totals
// @Description Get income and expense per wallet and calendar month, optionally for one currency
// @Tags        balance
// @Produce     json
// @Security    BearerAuth
// @Param       currency_code query string false "ISO 4217 currency code"
// @Success     200 {object} map[string]interface{} "Monthly totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /balance/monthly [get]
func (h *BalanceHandler) GetMonthlyTotals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query monthlyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	totals, err := h.balanceService.GetMonthlyWalletTotals(userID, query.CurrencyCode)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"monthly_totals": totals})
}
