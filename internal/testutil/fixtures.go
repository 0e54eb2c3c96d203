package testutil

import (
	"testing"
	"time"

	"spendtable/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// CreateTestUser creates a user with a hashed password and a random email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithEmail(t, db, gofakeit.UUID()+"@test.com")
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestProject creates an empty project owned by userID.
func CreateTestProject(t *testing.T, db *gorm.DB, userID string) *models.Project {
	t.Helper()

	project := &models.Project{
		UserID:   userID,
		Name:     gofakeit.Company(),
		Order:    gofakeit.Number(0, 100),
		Template: "empty",
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateTestCategory creates a category named name under parent (nil for a root).
func CreateTestCategory(t *testing.T, db *gorm.DB, projectID, name string, parent *models.Category) *models.Category {
	t.Helper()

	category := &models.Category{
		ProjectID: projectID,
		Name:      name,
		Color:     gofakeit.HexColor(),
	}
	if parent != nil {
		category.ParentID = &parent.ID
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense books amount (a decimal string such as "12.30") on category at spentAt.
func CreateTestExpense(t *testing.T, db *gorm.DB, category *models.Category, amount string, spentAt time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		ProjectID:  category.ProjectID,
		CategoryID: category.ID,
		Amount:     decimal.RequireFromString(amount),
		Source:     gofakeit.Company(),
		Notes:      gofakeit.Sentence(4),
		SpentAt:    spentAt.UTC(),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
