package model

import "time"

// Category is a node of the category tree. The tree is assumed acyclic;
// nothing at write time enforces this.
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	ParentID    *uint     `json:"parent_id,omitempty" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Parent   *Category `json:"-" gorm:"foreignKey:ParentID"`
	Products []Product `json:"-" gorm:"many2many:product_categories"`
}
