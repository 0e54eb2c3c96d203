package services

import (
	"time"

	"github.com/shopspring/decimal"

	"spendtable/internal/models"
	"spendtable/internal/overview"
	"spendtable/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
}

// ProjectServicer defines the contract for project-related business logic.
type ProjectServicer interface {
	CreateProject(userID, name string, order int, template string) (*models.Project, error)
	GetUserProjects(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Project], error)
	GetProjectByID(userID, projectID string) (*models.Project, error)
	UpdateProject(userID, projectID string, name *string, order *int) (*models.Project, error)
	DeleteProject(userID, projectID string) error
}

// CategoryUpdate holds the optional fields of a category update. A nil field
// is left unchanged; an empty ParentID turns the category into a root.
type CategoryUpdate struct {
	Name     *string
	Color    *string
	Order    *int
	ParentID *string
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, projectID, name, color string, order int, parentID *string) (*models.Category, error)
	GetProjectCategories(userID, projectID string) ([]models.Category, error)
	GetCategoryByID(userID, projectID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, projectID, categoryID string, update CategoryUpdate) (*models.Category, error)
	DeleteCategory(userID, projectID, categoryID string) error
}

// ExpenseFilter holds optional filter parameters for listing expenses.
// From is inclusive, Until exclusive.
type ExpenseFilter struct {
	CategoryID   string
	ShowChildren bool
	From         *time.Time
	Until        *time.Time
}

// ExpenseUpdate holds the optional fields of an expense update.
type ExpenseUpdate struct {
	CategoryID *string
	Amount     *decimal.Decimal
	Source     *string
	Notes      *string
	SpentAt    *time.Time
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID, projectID, categoryID string, amount decimal.Decimal, source, notes string, spentAt time.Time) (*models.Expense, error)
	GetExpenseByID(userID, projectID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, projectID, expenseID string, update ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(userID, projectID, expenseID string) error
	GetProjectExpenses(userID, projectID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpensesByMonth(userID, projectID string, filter ExpenseFilter, months int, now time.Time) ([]overview.PeriodGroup[models.Expense], error)
}

// OverviewRequest selects the months an overview covers. Months is used when
// From is nil; To defaults to the month of Now.
type OverviewRequest struct {
	Months int
	From   *time.Time
	To     *time.Time
	Now    time.Time
}

// Overview is the pivoted expense table of one project.
type Overview struct {
	Tree       *overview.Tree
	Columns    int
	HeaderRows [][]overview.HeaderCell
	Rows       []overview.ValueRow
}

// OverviewServicer defines the contract for building project overviews.
type OverviewServicer interface {
	BuildOverview(userID, projectID string, req OverviewRequest) (*Overview, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
