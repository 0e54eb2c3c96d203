package testutil_test

import (
	"testing"
	"time"

	"spendtable/internal/errors"
	"spendtable/internal/models"
	"spendtable/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"users", "projects", "categories", "expenses", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	testutil.CreateTestUser(t, first)

	var count int64
	second.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("second database sees %d users from the first", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}

	project := testutil.CreateTestProject(t, db, user.ID)
	if project.UserID != user.ID {
		t.Errorf("expected project owned by %s, got %s", user.ID, project.UserID)
	}

	parent := testutil.CreateTestCategory(t, db, project.ID, "Mandatory", nil)
	child := testutil.CreateTestCategory(t, db, project.ID, "Rent", parent)
	if child.ParentID == nil || *child.ParentID != parent.ID {
		t.Errorf("expected child of %s, got %v", parent.ID, child.ParentID)
	}

	spent := time.Date(2022, time.April, 3, 10, 0, 0, 0, time.UTC)
	expense := testutil.CreateTestExpense(t, db, child, "12.30", spent)
	if expense.ProjectID != project.ID {
		t.Errorf("expected expense in project %s, got %s", project.ID, expense.ProjectID)
	}

	var stored models.Expense
	if err := db.First(&stored, "id = ?", expense.ID).Error; err != nil {
		t.Fatalf("failed to reload expense: %v", err)
	}
	if stored.Amount.StringFixed(2) != "12.30" {
		t.Errorf("expected amount 12.30, got %s", stored.Amount.StringFixed(2))
	}
	if !stored.SpentAt.Equal(spent) {
		t.Errorf("expected spent_at %v, got %v", spent, stored.SpentAt)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrCategoryNotFound, "custom message")
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
