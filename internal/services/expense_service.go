package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spendtable/internal/errors"
	"spendtable/internal/models"
	"spendtable/internal/overview"
	"spendtable/internal/pagination"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

func (s *expenseService) categoryInProject(projectID, categoryID string) error {
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("id = ? AND project_id = ?", categoryID, projectID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

// CreateExpense books an amount on a category of the project. Amounts are
// rounded to cents and timestamps stored in UTC.
func (s *expenseService) CreateExpense(userID, projectID, categoryID string, amount decimal.Decimal, source, notes string, spentAt time.Time) (*models.Expense, error) {
	if _, err := findProject(s.db, userID, projectID); err != nil {
		return nil, err
	}
	if spentAt.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "spent_at is required")
	}
	if err := s.categoryInProject(projectID, categoryID); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		ProjectID:  projectID,
		CategoryID: categoryID,
		Amount:     amount.Round(2),
		Source:     strings.TrimSpace(source),
		Notes:      notes,
		SpentAt:    spentAt.UTC(),
	}
	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// GetExpenseByID retrieves an expense of a user's project.
func (s *expenseService) GetExpenseByID(userID, projectID, expenseID string) (*models.Expense, error) {
	if _, err := findProject(s.db, userID, projectID); err != nil {
		return nil, err
	}

	var expense models.Expense
	if err := s.db.Where("id = ? AND project_id = ?", expenseID, projectID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense changes the given fields of an expense.
func (s *expenseService) UpdateExpense(userID, projectID, expenseID string, update ExpenseUpdate) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, projectID, expenseID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if update.CategoryID != nil && *update.CategoryID != expense.CategoryID {
		if err := s.categoryInProject(projectID, *update.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *update.CategoryID
	}
	if update.Amount != nil {
		updates["amount"] = update.Amount.Round(2)
	}
	if update.Source != nil {
		updates["source"] = strings.TrimSpace(*update.Source)
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}
	if update.SpentAt != nil {
		if update.SpentAt.IsZero() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "spent_at cannot be empty")
		}
		updates["spent_at"] = update.SpentAt.UTC()
	}

	if len(updates) > 0 {
		if err := s.db.Model(expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return expense, nil
}

// DeleteExpense soft-deletes an expense.
func (s *expenseService) DeleteExpense(userID, projectID, expenseID string) error {
	expense, err := s.GetExpenseByID(userID, projectID, expenseID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// filtered scopes expenses of a project to filter. With ShowChildren the
// category filter covers the whole subtree below CategoryID.
func (s *expenseService) filtered(projectID string, filter ExpenseFilter) (*gorm.DB, error) {
	query := s.db.Model(&models.Expense{}).Where("project_id = ?", projectID)

	if filter.CategoryID != "" {
		if err := s.categoryInProject(projectID, filter.CategoryID); err != nil {
			return nil, err
		}
		ids := []string{filter.CategoryID}
		if filter.ShowChildren {
			tree, _, err := loadTree(s.db, projectID)
			if err != nil {
				return nil, err
			}
			if ids, err = tree.Descendants(filter.CategoryID); err != nil {
				return nil, treeError(err, projectID)
			}
		}
		query = query.Where("category_id IN ?", ids)
	}
	if filter.From != nil {
		query = query.Where("spent_at >= ?", filter.From.UTC())
	}
	if filter.Until != nil {
		query = query.Where("spent_at < ?", filter.Until.UTC())
	}
	if filter.From != nil && filter.Until != nil && !filter.Until.After(*filter.From) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must be before to")
	}
	return query.Session(&gorm.Session{}), nil
}

// GetProjectExpenses lists the expenses matching filter, newest first.
func (s *expenseService) GetProjectExpenses(userID, projectID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	if _, err := findProject(s.db, userID, projectID); err != nil {
		return nil, err
	}
	page.Defaults()

	base, err := s.filtered(projectID, filter)
	if err != nil {
		return nil, err
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Order("spent_at DESC, id DESC").Scopes(pagination.Paginate(page)).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpensesByMonth groups the expenses matching filter by calendar month.
// Months come from the filter bounds, or the trailing months ending now.
// Months without expenses are left out.
func (s *expenseService) GetExpensesByMonth(userID, projectID string, filter ExpenseFilter, months int, now time.Time) ([]overview.PeriodGroup[models.Expense], error) {
	if _, err := findProject(s.db, userID, projectID); err != nil {
		return nil, err
	}

	var last *time.Time
	if filter.Until != nil {
		l := filter.Until.Add(-time.Nanosecond)
		last = &l
	}
	periods, err := overview.GeneratePeriods(months, filter.From, last, now)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid month range")
	}

	base, err := s.filtered(projectID, filter)
	if err != nil {
		return nil, err
	}

	var expenses []models.Expense
	if err := base.
		Where("spent_at >= ? AND spent_at < ?", periods[0].Start.UTC(), periods[len(periods)-1].End.UTC()).
		Order("spent_at DESC, id DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	groups := overview.GroupByPeriod(periods, expenses, func(e models.Expense) time.Time { return e.SpentAt })
	if groups == nil {
		groups = []overview.PeriodGroup[models.Expense]{}
	}
	return groups, nil
}
