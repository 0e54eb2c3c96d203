package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendtable/internal/errors"
	"spendtable/internal/services"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auditService: auditService}
}

// CreateCategoryRequest represents the request payload for creating a category
type CreateCategoryRequest struct {
	Name     string  `json:"name" binding:"required,max=100"`
	Color    string  `json:"color" binding:"omitempty,hex_color"`
	Order    int     `json:"order"`
	ParentID *string `json:"parent_id"`
}

// UpdateCategoryRequest represents the request payload for updating a category.
// An empty parent_id moves the category to the top level.
type UpdateCategoryRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	Color    *string `json:"color" binding:"omitempty,hex_color"`
	Order    *int    `json:"order"`
	ParentID *string `json:"parent_id"`
}

func (h *CategoryHandler) ids(c *gin.Context, withCategory bool) (userID, projectID, categoryID string, err error) {
	if userID, err = getUserID(c); err != nil {
		return
	}
	if projectID, err = parsePathID(c, "projectID"); err != nil {
		return
	}
	if withCategory {
		categoryID, err = parsePathID(c, "categoryID")
	}
	return
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Description Create a category in a project, optionally below a parent category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       projectID path string                true "Project ID"
// @Param       request   body CreateCategoryRequest true "Category details"
// @Success     201 {object} models.Category "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project or parent not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{projectID}/categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, projectID, _, err := h.ids(c, false)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(userID, projectID, req.Name, req.Color, req.Order, req.ParentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CATEGORY", "category", category.ID, c.ClientIP(),
		map[string]any{"name": category.Name, "parent_id": category.ParentID})

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// GetProjectCategories lists every category of a project
// @Summary     List categories
// @Description Flat list of the project's categories ordered by order, name
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       projectID path string true "Project ID"
// @Success     200 {array} models.Category "Categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{projectID}/categories [get]
func (h *CategoryHandler) GetProjectCategories(c *gin.Context) {
	userID, projectID, _, err := h.ids(c, false)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.GetProjectCategories(userID, projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategoryByID handles the retrieval of a specific category
// @Summary     Get category
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       projectID  path string true "Project ID"
// @Param       categoryID path string true "Category ID"
// @Success     200 {object} models.Category "Category details"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /projects/{projectID}/categories/{categoryID} [get]
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	userID, projectID, categoryID, err := h.ids(c, true)
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(userID, projectID, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// UpdateCategory handles renaming, recoloring, reordering and moving a category
// @Summary     Update category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       projectID  path string                true "Project ID"
// @Param       categoryID path string                true "Category ID"
// @Param       request    body UpdateCategoryRequest true "Fields to change"
// @Success     200 {object} models.Category "Updated category"
// @Failure     400 {object} ErrorResponse "Invalid input or cyclic parent"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /projects/{projectID}/categories/{categoryID} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, projectID, categoryID, err := h.ids(c, true)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.UpdateCategory(userID, projectID, categoryID, services.CategoryUpdate{
		Name:     req.Name,
		Color:    req.Color,
		Order:    req.Order,
		ParentID: req.ParentID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_CATEGORY", "category", category.ID, c.ClientIP(),
		map[string]any{"name": category.Name, "color": category.Color, "order": category.Order, "parent_id": category.ParentID})

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory deletes a category and its expenses; children move to the top level
// @Summary     Delete category
// @Tags        categories
// @Security    BearerAuth
// @Param       projectID  path string true "Project ID"
// @Param       categoryID path string true "Category ID"
// @Success     204 "Category deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /projects/{projectID}/categories/{categoryID} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, projectID, categoryID, err := h.ids(c, true)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(userID, projectID, categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_CATEGORY", "category", categoryID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
