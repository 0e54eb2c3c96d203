package models

// Project is a user's ledger: its own category tree and the expenses booked
// against it.
type Project struct {
	Base
	UserID   string `gorm:"size:36;not null;index" json:"user_id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Order    int    `gorm:"column:sort_order;not null;default:0" json:"order"`
	Template string `gorm:"size:32" json:"template"`
}
