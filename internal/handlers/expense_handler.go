package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "spendtable/internal/errors"
	"spendtable/internal/models"
	"spendtable/internal/pagination"
	"spendtable/internal/services"
	"spendtable/internal/uuid"
	"spendtable/internal/validator"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
	defaultMonths  int
	now            func() time.Time
}

// NewExpenseHandler creates a new ExpenseHandler. defaultMonths is the number of
// trailing months used by the grouped listing when no range is given.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer, defaultMonths int) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		auditService:   auditService,
		defaultMonths:  defaultMonths,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// CreateExpenseRequest represents the request payload for creating an expense
type CreateExpenseRequest struct {
	CategoryID string           `json:"category_id" binding:"required,uuid"`
	Amount     *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"12.30"`
	Source     string           `json:"source" binding:"max=100"`
	Notes      string           `json:"notes" binding:"max=2000"`
	SpentAt    string           `json:"spent_at" binding:"required,iso_date" example:"2022-04-01"`
}

// UpdateExpenseRequest represents the request payload for updating an expense
type UpdateExpenseRequest struct {
	CategoryID *string          `json:"category_id" binding:"omitempty,uuid"`
	Amount     *decimal.Decimal `json:"amount" swaggertype:"string"`
	Source     *string          `json:"source" binding:"omitempty,max=100"`
	Notes      *string          `json:"notes" binding:"omitempty,max=2000"`
	SpentAt    *string          `json:"spent_at" binding:"omitempty,iso_date"`
}

// ExpenseGroup is one month of the grouped expense listing.
type ExpenseGroup struct {
	Label    string           `json:"label"`
	From     string           `json:"from"`
	To       string           `json:"to"`
	Href     string           `json:"href"`
	Expenses []models.Expense `json:"expenses"`
}

func (h *ExpenseHandler) ids(c *gin.Context, withExpense bool) (userID, projectID, expenseID string, err error) {
	if userID, err = getUserID(c); err != nil {
		return
	}
	if projectID, err = parsePathID(c, "projectID"); err != nil {
		return
	}
	if withExpense {
		expenseID, err = parsePathID(c, "expenseID")
	}
	return
}

// CreateExpense handles the creation of a new expense
// @Summary     Create an expense
// @Description Book an amount (negative for refunds) on a category of the project
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       projectID path string               true "Project ID"
// @Param       request   body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{projectID}/expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, projectID, _, err := h.ids(c, false)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	spentAt, err := validator.ParseDate(req.SpentAt)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.CreateExpense(userID, projectID, req.CategoryID, *req.Amount, req.Source, req.Notes, spentAt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]any{"category_id": expense.CategoryID, "amount": expense.Amount.StringFixed(2)})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetProjectExpenses lists expenses, optionally grouped by month
// @Summary     List expenses
// @Description Paginated expenses of a project, newest first. These are the targets of overview links.
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       projectID     path  string true  "Project ID"
// @Param       category      query string false "Only expenses of this category"
// @Param       show_children query string false "Include the category's subtree (True, true, 1)"
// @Param       from          query string false "Start date, inclusive (YYYY-MM-DD or RFC3339)"
// @Param       to            query string false "End date, inclusive (YYYY-MM-DD or RFC3339)"
// @Param       group         query string false "month to group by calendar month"
// @Param       months        query int    false "Trailing months when grouping without from"
// @Param       page          query int    false "Page number (default 1)"
// @Param       page_size     query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project or category not found"
// @Router      /projects/{projectID}/expenses [get]
func (h *ExpenseHandler) GetProjectExpenses(c *gin.Context) {
	userID, projectID, _, err := h.ids(c, false)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := h.parseFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	switch c.Query("group") {
	case "":
	case "month":
		h.listByMonth(c, userID, projectID, filter)
		return
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "group must be month"))
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.expenseService.GetProjectExpenses(userID, projectID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ExpenseHandler) parseFilter(c *gin.Context) (services.ExpenseFilter, error) {
	var filter services.ExpenseFilter

	if raw := c.Query("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid category")
		}
		filter.CategoryID = id
	}
	children, err := parseFlag(c, "show_children")
	if err != nil {
		return filter, err
	}
	filter.ShowChildren = children

	dates, err := parseDateRange(c)
	if err != nil {
		return filter, err
	}
	filter.From, filter.Until = dates.From, dates.Until
	return filter, nil
}

func (h *ExpenseHandler) listByMonth(c *gin.Context, userID, projectID string, filter services.ExpenseFilter) {
	months, err := parseMonths(c, h.defaultMonths)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groups, err := h.expenseService.GetExpensesByMonth(userID, projectID, filter, months, h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	out := make([]ExpenseGroup, len(groups))
	for i, g := range groups {
		out[i] = ExpenseGroup{
			Label:    g.Period.Label(),
			From:     formatDate(g.Period.Start),
			To:       formatDate(g.Period.LastDay()),
			Href:     "?" + periodQuery(g.Period),
			Expenses: g.Items,
		}
	}
	c.JSON(http.StatusOK, gin.H{"groups": out})
}

// GetExpenseByID returns a single expense
// @Summary     Get expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       projectID path string true "Project ID"
// @Param       expenseID path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense details"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /projects/{projectID}/expenses/{expenseID} [get]
func (h *ExpenseHandler) GetExpenseByID(c *gin.Context) {
	userID, projectID, expenseID, err := h.ids(c, true)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, projectID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense changes an expense
// @Summary     Update expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       projectID path string               true "Project ID"
// @Param       expenseID path string               true "Expense ID"
// @Param       request   body UpdateExpenseRequest true "Fields to change"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense or category not found"
// @Router      /projects/{projectID}/expenses/{expenseID} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, projectID, expenseID, err := h.ids(c, true)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.ExpenseUpdate{
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Source:     req.Source,
		Notes:      req.Notes,
	}
	if req.SpentAt != nil {
		spentAt, err := validator.ParseDate(*req.SpentAt)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		update.SpentAt = &spentAt
	}

	expense, err := h.expenseService.UpdateExpense(userID, projectID, expenseID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]any{"category_id": expense.CategoryID, "amount": expense.Amount.StringFixed(2)})

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense deletes an expense
// @Summary     Delete expense
// @Tags        expenses
// @Security    BearerAuth
// @Param       projectID path string true "Project ID"
// @Param       expenseID path string true "Expense ID"
// @Success     204 "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /projects/{projectID}/expenses/{expenseID} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, projectID, expenseID, err := h.ids(c, true)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(userID, projectID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_EXPENSE", "expense", expenseID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
