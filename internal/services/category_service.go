package services

import (
	"errors"
	"slices"
	"strings"

	"gorm.io/gorm"

	apperrors "spendtable/internal/errors"
	"spendtable/internal/logger"
	"spendtable/internal/models"
	"spendtable/internal/overview"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// loadTree reads every category of a project in one query and indexes it.
func loadTree(db *gorm.DB, projectID string) (*overview.Tree, []models.Category, error) {
	var categories []models.Category
	if err := db.Where("project_id = ?", projectID).Order("sort_order, name, id").Find(&categories).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	nodes := make([]overview.Node, len(categories))
	for i, c := range categories {
		nodes[i] = overview.Node{ID: c.ID, Name: c.Name, Color: c.Color, Order: c.Order}
		if c.ParentID != nil {
			nodes[i].ParentID = *c.ParentID
		}
	}
	return overview.NewTree(nodes), categories, nil
}

// treeError maps walk failures from the overview package onto AppErrors.
func treeError(err error, projectID string) error {
	if errors.Is(err, overview.ErrDepthExceeded) {
		logger.Get().Errorw("category tree exceeds maximum depth", "project_id", projectID, "max_depth", overview.MaxDepth)
		return apperrors.Wrap(apperrors.ErrCategoryTreeTooDeep, err)
	}
	return err
}

func (s *categoryService) findParent(projectID, parentID string) error {
	var parent models.Category
	if err := s.db.Where("id = ? AND project_id = ?", parentID, projectID).First(&parent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.WithMessage(apperrors.ErrCategoryNotFound, "parent category not found")
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// CreateCategory creates a new category, optionally below parentID.
func (s *categoryService) CreateCategory(userID, projectID, name, color string, order int, parentID *string) (*models.Category, error) {
	if _, err := findProject(s.db, userID, projectID); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if color == "" {
		color = models.DefaultCategoryColor
	}
	if parentID != nil && *parentID == "" {
		parentID = nil
	}
	if parentID != nil {
		if err := s.findParent(projectID, *parentID); err != nil {
			return nil, err
		}
	}

	category := &models.Category{
		ProjectID: projectID,
		Name:      name,
		Color:     strings.ToUpper(color),
		Order:     order,
		ParentID:  parentID,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// GetProjectCategories lists every category of a project, flat, in sibling order.
func (s *categoryService) GetProjectCategories(userID, projectID string) ([]models.Category, error) {
	if _, err := findProject(s.db, userID, projectID); err != nil {
		return nil, err
	}
	_, categories, err := loadTree(s.db, projectID)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

// GetCategoryByID retrieves a category of a user's project.
func (s *categoryService) GetCategoryByID(userID, projectID, categoryID string) (*models.Category, error) {
	if _, err := findProject(s.db, userID, projectID); err != nil {
		return nil, err
	}
	return s.getCategory(projectID, categoryID)
}

func (s *categoryService) getCategory(projectID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND project_id = ?", categoryID, projectID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory renames, recolors, reorders or moves a category. Moving a
// category below itself or any of its descendants is rejected.
func (s *categoryService) UpdateCategory(userID, projectID, categoryID string, update CategoryUpdate) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, projectID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name cannot be empty")
		}
		updates["name"] = name
	}
	if update.Color != nil {
		updates["color"] = strings.ToUpper(*update.Color)
	}
	if update.Order != nil {
		updates["sort_order"] = *update.Order
	}
	if update.ParentID != nil {
		parentID := *update.ParentID
		if parentID == "" {
			updates["parent_id"] = nil
		} else {
			if parentID == categoryID {
				return nil, apperrors.ErrSelfParentCategory
			}
			if err := s.findParent(projectID, parentID); err != nil {
				return nil, err
			}
			tree, _, err := loadTree(s.db, projectID)
			if err != nil {
				return nil, err
			}
			below, err := tree.Descendants(categoryID)
			if err != nil {
				return nil, treeError(err, projectID)
			}
			if slices.Contains(below, parentID) {
				return nil, apperrors.ErrCategoryCycle
			}
			updates["parent_id"] = &parentID
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return category, nil
}

// DeleteCategory soft-deletes a category and the expenses booked on it. Its
// children stay and become roots.
func (s *categoryService) DeleteCategory(userID, projectID, categoryID string) error {
	category, err := s.GetCategoryByID(userID, projectID, categoryID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Category{}).
			Where("parent_id = ? AND project_id = ?", category.ID, projectID).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", category.ID).Delete(&models.Expense{}).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("category deleted", "category_id", category.ID, "project_id", projectID)
	return nil
}
