package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a signed amount booked on a category at a point in time.
// ProjectID duplicates the category's project so listings filter without a join.
type Expense struct {
	Base
	ProjectID  string          `gorm:"size:36;not null;index:idx_expenses_project_spent" json:"project_id"`
	CategoryID string          `gorm:"size:36;not null;index" json:"category_id"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Source     string          `gorm:"size:100" json:"source"`
	Notes      string          `json:"notes"`
	SpentAt    time.Time       `gorm:"not null;index:idx_expenses_project_spent" json:"spent_at"`
}
