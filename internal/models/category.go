package models

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#FF0000"

// Category is one node of a project's category forest. ParentID is a plain
// back reference: removing a parent never removes its children.
type Category struct {
	Base
	ProjectID string  `gorm:"size:36;not null;index" json:"project_id"`
	Name      string  `gorm:"size:100;not null" json:"name"`
	Color     string  `gorm:"size:7;not null;default:'#FF0000'" json:"color"`
	Order     int     `gorm:"column:sort_order;not null;default:0" json:"order"`
	ParentID  *string `gorm:"size:36;index" json:"parent_id"`
}
