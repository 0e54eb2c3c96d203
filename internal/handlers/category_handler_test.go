package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "spendtable/internal/errors"
	"spendtable/internal/models"
	"spendtable/internal/services"
)

type mockCategoryService struct {
	createCategoryFn       func(userID, projectID, name, color string, order int, parentID *string) (*models.Category, error)
	getProjectCategoriesFn func(userID, projectID string) ([]models.Category, error)
	getCategoryByIDFn      func(userID, projectID, categoryID string) (*models.Category, error)
	updateCategoryFn       func(userID, projectID, categoryID string, update services.CategoryUpdate) (*models.Category, error)
	deleteCategoryFn       func(userID, projectID, categoryID string) error
}

func (m *mockCategoryService) CreateCategory(userID, projectID, name, color string, order int, parentID *string) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(userID, projectID, name, color, order, parentID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) GetProjectCategories(userID, projectID string) ([]models.Category, error) {
	if m.getProjectCategoriesFn != nil {
		return m.getProjectCategoriesFn(userID, projectID)
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) GetCategoryByID(userID, projectID, categoryID string) (*models.Category, error) {
	if m.getCategoryByIDFn != nil {
		return m.getCategoryByIDFn(userID, projectID, categoryID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) UpdateCategory(userID, projectID, categoryID string, update services.CategoryUpdate) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(userID, projectID, categoryID, update)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) DeleteCategory(userID, projectID, categoryID string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(userID, projectID, categoryID)
	}
	return nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("/projects/:projectID/categories", injectUserID(testUserID))
	auth.POST("", handler.CreateCategory)
	auth.GET("", handler.GetProjectCategories)
	auth.GET("/:categoryID", handler.GetCategoryByID)
	auth.PUT("/:categoryID", handler.UpdateCategory)
	auth.DELETE("/:categoryID", handler.DeleteCategory)
	return r
}

const categoriesPath = "/projects/" + testProjectID + "/categories"

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("returns 201 with parent", func(t *testing.T) {
		svc := &mockCategoryService{
			createCategoryFn: func(_, projectID, name, color string, order int, parentID *string) (*models.Category, error) {
				if projectID != testProjectID {
					t.Errorf("expected project %s, got %s", testProjectID, projectID)
				}
				if parentID == nil || *parentID != testCategoryID {
					t.Errorf("expected parent %s, got %v", testCategoryID, parentID)
				}
				return &models.Category{Base: models.Base{ID: testExpenseID}, ProjectID: projectID, Name: name, Color: color, Order: order, ParentID: parentID}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupCategoryRouter(NewCategoryHandler(svc, audit))

		rec := doRequest(r, "POST", categoriesPath,
			`{"name":"Rent","color":"#00FF00","order":1,"parent_id":"`+testCategoryID+`"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		category := parseJSON(t, rec)["category"].(map[string]interface{})
		if category["parent_id"] != testCategoryID {
			t.Errorf("expected parent_id in response, got %v", category["parent_id"])
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "CREATE_CATEGORY" {
			t.Errorf("unexpected audit entries: %+v", audit.entries)
		}
	})

	t.Run("returns 400 on bad color", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", categoriesPath, `{"name":"Rent","color":"red"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on malformed project id", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/projects/nope/categories", `{"name":"Rent"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_GetProjectCategories(t *testing.T) {
	svc := &mockCategoryService{
		getProjectCategoriesFn: func(_, _ string) ([]models.Category, error) {
			return []models.Category{{Name: "Income"}, {Name: "Mandatory"}}, nil
		},
	}
	r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", categoriesPath, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	categories := parseJSON(t, rec)["categories"].([]interface{})
	if len(categories) != 2 {
		t.Errorf("expected 2 categories, got %d", len(categories))
	}
}

func TestCategoryHandler_UpdateCategory(t *testing.T) {
	t.Run("empty parent clears it", func(t *testing.T) {
		svc := &mockCategoryService{
			updateCategoryFn: func(_, _, categoryID string, update services.CategoryUpdate) (*models.Category, error) {
				if update.ParentID == nil || *update.ParentID != "" {
					t.Errorf("expected empty parent id, got %v", update.ParentID)
				}
				if update.Name != nil || update.Color != nil || update.Order != nil {
					t.Errorf("expected only parent to change, got %+v", update)
				}
				return &models.Category{Base: models.Base{ID: categoryID}}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", categoriesPath+"/"+testCategoryID, `{"parent_id":""}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on cycle", func(t *testing.T) {
		svc := &mockCategoryService{
			updateCategoryFn: func(_, _, _ string, _ services.CategoryUpdate) (*models.Category, error) {
				return nil, apperrors.ErrCategoryCycle
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", categoriesPath+"/"+testCategoryID, `{"parent_id":"`+testExpenseID+`"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_CYCLE")
	})
}

func TestCategoryHandler_DeleteCategory(t *testing.T) {
	t.Run("returns 204", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, audit))

		rec := doRequest(r, "DELETE", categoriesPath+"/"+testCategoryID, "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if len(audit.entries) != 1 || audit.entries[0].resourceID != testCategoryID {
			t.Errorf("unexpected audit entries: %+v", audit.entries)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockCategoryService{
			deleteCategoryFn: func(_, _, _ string) error {
				return apperrors.ErrCategoryNotFound
			},
		}
		audit := &mockAuditService{}
		r := setupCategoryRouter(NewCategoryHandler(svc, audit))

		rec := doRequest(r, "DELETE", categoriesPath+"/"+testCategoryID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if len(audit.entries) != 0 {
			t.Error("expected no audit entry for failed delete")
		}
	})
}
