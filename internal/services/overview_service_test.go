package services

import (
	"testing"
	"time"

	"spendtable/internal/overview"
	"spendtable/internal/testutil"
)

func TestBuildOverview(t *testing.T) {
	now := time.Date(2022, 5, 15, 9, 0, 0, 0, time.UTC)

	t.Run("values_and_headers", func(t *testing.T) {
		f := newCategoryFixture(t)
		svc := NewOverviewService(f.db)
		income := testutil.CreateTestCategory(t, f.db, f.project.ID, "Income", nil)
		mandatory := testutil.CreateTestCategory(t, f.db, f.project.ID, "Mandatory", nil)
		food := testutil.CreateTestCategory(t, f.db, f.project.ID, "Food", mandatory)
		rent := testutil.CreateTestCategory(t, f.db, f.project.ID, "Rent", mandatory)

		testutil.CreateTestExpense(t, f.db, income, "100.00", testTime(2022, 4, 1))
		testutil.CreateTestExpense(t, f.db, rent, "50.00", testTime(2022, 4, 2))
		testutil.CreateTestExpense(t, f.db, food, "30.00", testTime(2022, 4, 30))
		testutil.CreateTestExpense(t, f.db, mandatory, "5.00", testTime(2022, 4, 15))
		// outside the window
		testutil.CreateTestExpense(t, f.db, food, "999.00", testTime(2022, 1, 10))
		// soft-deleted
		gone := testutil.CreateTestExpense(t, f.db, rent, "777.00", testTime(2022, 4, 3))
		f.db.Delete(gone)

		result, err := svc.BuildOverview(f.user.ID, f.project.ID, OverviewRequest{Months: 3, Now: now})
		testutil.AssertNoError(t, err)

		if result.Columns != 5 {
			t.Fatalf("expected 5 columns, got %d", result.Columns)
		}
		if len(result.Rows) != 3 {
			t.Fatalf("expected 3 value rows, got %d", len(result.Rows))
		}
		labels := []string{"Mar22", "Apr22", "May22"}
		for i, row := range result.Rows {
			if row.Period.Label() != labels[i] {
				t.Errorf("row %d: expected %s, got %s", i, labels[i], row.Period.Label())
			}
			if len(row.Values) != result.Columns {
				t.Errorf("row %d: expected %d values, got %d", i, result.Columns, len(row.Values))
			}
		}

		want := []string{"100.00", "85.00", "30.00", "50.00", "5.00"}
		for i, v := range result.Rows[1].Values {
			if v.Amount.StringFixed(2) != want[i] {
				t.Errorf("April column %d: expected %s, got %s", i, want[i], v.Amount.StringFixed(2))
			}
		}
		if !result.Rows[1].Values[1].Subtotal {
			t.Error("expected Mandatory column to be a subtotal")
		}
		for i, v := range result.Rows[0].Values {
			if !v.Amount.IsZero() {
				t.Errorf("March column %d: expected zero, got %s", i, v.Amount)
			}
		}

		if len(result.HeaderRows) != 2 {
			t.Fatalf("expected 2 header rows, got %d", len(result.HeaderRows))
		}
		top := result.HeaderRows[0]
		if len(top) != 2 || top[0].Name != "Income" || top[0].RowSpan != 2 || top[1].Name != "Mandatory" || top[1].ColSpan != 4 {
			t.Errorf("unexpected top header row: %+v", top)
		}
		second := result.HeaderRows[1]
		names := []string{overview.TotalLabel, "Food", "Rent", overview.OtherLabel}
		if len(second) != len(names) {
			t.Fatalf("expected %d cells in second header row, got %d", len(names), len(second))
		}
		for i, cell := range second {
			if cell.Name != names[i] {
				t.Errorf("second row cell %d: expected %s, got %s", i, names[i], cell.Name)
			}
		}
	})

	t.Run("explicit_range", func(t *testing.T) {
		f := newCategoryFixture(t)
		svc := NewOverviewService(f.db)
		cat := testutil.CreateTestCategory(t, f.db, f.project.ID, "Food", nil)
		testutil.CreateTestExpense(t, f.db, cat, "12.50", testTime(2021, 12, 31))

		from := time.Date(2021, 11, 20, 0, 0, 0, 0, time.UTC)
		to := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)
		result, err := svc.BuildOverview(f.user.ID, f.project.ID, OverviewRequest{From: &from, To: &to, Now: now})
		testutil.AssertNoError(t, err)

		if len(result.Rows) != 3 || result.Rows[0].Period.Label() != "Nov21" || result.Rows[2].Period.Label() != "Jan22" {
			t.Fatalf("unexpected periods: %+v", result.Rows)
		}
		if result.Rows[1].Values[0].Amount.StringFixed(2) != "12.50" {
			t.Errorf("expected December value 12.50, got %s", result.Rows[1].Values[0].Amount)
		}
	})

	t.Run("empty_project", func(t *testing.T) {
		f := newCategoryFixture(t)
		svc := NewOverviewService(f.db)

		result, err := svc.BuildOverview(f.user.ID, f.project.ID, OverviewRequest{Months: 2, Now: now})
		testutil.AssertNoError(t, err)
		if result.Columns != 0 || len(result.HeaderRows) != 0 {
			t.Errorf("expected empty layout, got columns=%d header_rows=%d", result.Columns, len(result.HeaderRows))
		}
		if len(result.Rows) != 2 {
			t.Errorf("expected a row per month, got %d", len(result.Rows))
		}
	})

	t.Run("inverted_range", func(t *testing.T) {
		f := newCategoryFixture(t)
		svc := NewOverviewService(f.db)
		from := time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)

		_, err := svc.BuildOverview(f.user.ID, f.project.ID, OverviewRequest{From: &from, To: &to, Now: now})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("months_out_of_bounds", func(t *testing.T) {
		f := newCategoryFixture(t)
		svc := NewOverviewService(f.db)

		_, err := svc.BuildOverview(f.user.ID, f.project.ID, OverviewRequest{Months: overview.MaxPeriods + 1, Now: now})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("foreign_project", func(t *testing.T) {
		f := newCategoryFixture(t)
		svc := NewOverviewService(f.db)
		stranger := testutil.CreateTestUser(t, f.db)

		_, err := svc.BuildOverview(stranger.ID, f.project.ID, OverviewRequest{Months: 1, Now: now})
		testutil.AssertAppError(t, err, "PROJECT_NOT_FOUND")
	})
}
