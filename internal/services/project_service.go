package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "spendtable/internal/errors"
	"spendtable/internal/logger"
	"spendtable/internal/models"
	"spendtable/internal/pagination"
	"spendtable/internal/templates"
)

// projectService handles project-related business logic.
type projectService struct {
	db *gorm.DB
}

// NewProjectService creates a new ProjectServicer.
func NewProjectService(db *gorm.DB) ProjectServicer {
	return &projectService{db: db}
}

// findProject loads a project owned by userID. Projects of other users are
// reported as missing.
func findProject(db *gorm.DB, userID, projectID string) (*models.Project, error) {
	var project models.Project
	if err := db.Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &project, nil
}

// CreateProject creates a project and seeds its categories from the named template.
func (s *projectService) CreateProject(userID, name string, order int, template string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "project name is required")
	}
	if template == "" {
		template = templates.Empty
	}
	tpl, ok := templates.Lookup(template)
	if !ok {
		logger.Get().Errorw("unknown category template", "template", template, "user_id", userID)
		return nil, apperrors.WithMessage(apperrors.ErrUnknownTemplate, "Unknown category template: "+template)
	}

	project := &models.Project{
		UserID:   userID,
		Name:     name,
		Order:    order,
		Template: tpl.Name,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		return seedCategories(tx, project.ID, nil, tpl.Roots)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("project created", "project_id", project.ID, "template", tpl.Name, "categories", tpl.Size())
	return project, nil
}

func seedCategories(tx *gorm.DB, projectID string, parentID *string, seeds []templates.Category) error {
	for _, seed := range seeds {
		category := &models.Category{
			ProjectID: projectID,
			Name:      seed.Name,
			Color:     seed.Color,
			Order:     seed.Order,
			ParentID:  parentID,
		}
		if category.Color == "" {
			category.Color = models.DefaultCategoryColor
		}
		if err := tx.Create(category).Error; err != nil {
			return err
		}
		id := category.ID
		if err := seedCategories(tx, projectID, &id, seed.Children); err != nil {
			return err
		}
	}
	return nil
}

// GetUserProjects retrieves a paginated list of a user's projects, ordered by
// their sort order then name.
func (s *projectService) GetUserProjects(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Project], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Project{}).Where("user_id = ?", userID).Session(&gorm.Session{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var projects []models.Project
	if err := base.Order("sort_order, name, id").Scopes(pagination.Paginate(page)).Find(&projects).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(projects, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetProjectByID retrieves a project by ID for a specific user
func (s *projectService) GetProjectByID(userID, projectID string) (*models.Project, error) {
	return findProject(s.db, userID, projectID)
}

// UpdateProject renames and/or reorders a project.
func (s *projectService) UpdateProject(userID, projectID string, name *string, order *int) (*models.Project, error) {
	project, err := findProject(s.db, userID, projectID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "project name cannot be empty")
		}
		updates["name"] = trimmed
	}
	if order != nil {
		updates["sort_order"] = *order
	}

	if len(updates) > 0 {
		if err := s.db.Model(project).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return project, nil
}

// DeleteProject soft-deletes a project together with its categories and expenses.
func (s *projectService) DeleteProject(userID, projectID string) error {
	project, err := findProject(s.db, userID, projectID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Expense{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Category{}).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("project deleted", "project_id", project.ID)
	return nil
}
