package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/pagination"
	"moneta/internal/services"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
	balanceService  services.BalanceServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(
	categoryService services.CategoryServicer,
	balanceService services.BalanceServicer,
	auditService services.AuditServicer,
) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		balanceService:  balanceService,
		auditService:    auditService,
	}
}

// CreateCategoryRequest represents the category creation payload
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// categoryBalanceQuery holds the range parameters of the annotated listing.
// When absent, the plain paginated list is returned instead.
type categoryBalanceQuery struct {
	Start   *int64   `form:"start_carried_out"`
	End     *int64   `form:"end_carried_out"`
	Wallets []string `form:"wallets" binding:"omitempty,dive,uuid"`
}

// CreateCategory creates a new category
// @Summary     Create category
// @Description Create a new transaction category; names are unique per user
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCategoryRequest true "Category data"
// @Success     201 {object} map[string]interface{} "Created category"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate category name"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "category", category.ID)
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// GetCategories lists the user's categories
// @Summary     List categories
// @Description Get the user's categories, plain or annotated with income/expense sums over a carried-out range
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       start_carried_out query int false "Range start (Unix seconds, inclusive)"
// @Param       end_carried_out query int false "Range end (Unix seconds, inclusive)"
// @Param       wallets query []string false "Wallet IDs" collectionFormat(multi)
// @Success     200 {object} map[string]interface{} "Categories"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query categoryBalanceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	// A range request switches to the balance-annotated view
	if query.Start != nil || query.End != nil || len(query.Wallets) > 0 {
		if query.Start == nil || query.End == nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "start_carried_out and end_carried_out are required for balance view"))
			return
		}

		balances, err := h.balanceService.GetCategoryBalances(userID, *query.Start, *query.End, query.Wallets)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": balances})
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.categoryService.GetCategories(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCategoriesOfTransaction lists the categories attached to one transaction
// @Summary     List transaction categories
// @Description Get the categories attached to a single transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} map[string]interface{} "Categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id}/categories [get]
func (h *CategoryHandler) GetCategoriesOfTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.GetCategoriesOfTransaction(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
