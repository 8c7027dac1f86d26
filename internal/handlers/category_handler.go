package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/models"
	"expensetracker/internal/services"
	"expensetracker/internal/uuid"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents the request payload for creating a category.
// Type defaults to Expense.
type CreateCategoryRequest struct {
	Name string              `json:"name" binding:"required,notblank,max=50"`
	Type models.CategoryType `json:"type" binding:"omitempty,category_type"`
}

// CategoryResponse represents a category in the response
type CategoryResponse struct {
	ID        uuid.UUID           `json:"id"`
	Name      string              `json:"name"`
	Type      models.CategoryType `json:"type"`
	IsDefault bool                `json:"isDefault"`
}

func newCategoryResponse(category *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Type:      category.Type,
		IsDefault: category.Owner.IsSystem(),
	}
}

// ListCategories handles the retrieval of every category visible to the caller
// @Summary     List categories
// @Description Get the shared default categories followed by the caller's own
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} CategoryResponse "List of categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.ListCategories(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		resp = append(resp, newCategoryResponse(&categories[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Description Create a category private to the caller
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     200 {object} CategoryResponse "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
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
		respondWithError(c, invalidInput(err))
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), userID, req.Name, req.Type)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newCategoryResponse(category))
}
