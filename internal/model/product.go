package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductCondition is the physical condition of a listed product.
type ProductCondition string

const (
	ConditionNew  ProductCondition = "new"
	ConditionUsed ProductCondition = "used"
)

// Product represents a catalog listing owned by a seller.
type Product struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	Name        string           `json:"name" gorm:"size:255;not null;index"`
	Slug        string           `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Description string           `json:"description" gorm:"type:text"`
	Price       decimal.Decimal  `json:"price" gorm:"type:decimal(20,2);not null"`
	Stock       int              `json:"stock" gorm:"not null;default:0"`
	SKU         string           `json:"sku" gorm:"uniqueIndex;size:64;not null"`
	Brand       string           `json:"brand" gorm:"size:128;index"`
	Model       string           `json:"model" gorm:"size:128"`
	Condition   ProductCondition `json:"condition" gorm:"type:varchar(10);index"`
	IsActive    bool             `json:"is_active" gorm:"default:true;index"`
	SellerID    uint             `json:"seller_id" gorm:"not null;index"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Relations
	Seller     User           `json:"-" gorm:"foreignKey:SellerID"`
	Categories []Category     `json:"categories,omitempty" gorm:"many2many:product_categories"`
	Images     []ProductImage `json:"images,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Reviews    []Review       `json:"reviews,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	OrderItems []OrderItem    `json:"-" gorm:"foreignKey:ProductID"`
}

// ProductImage is one image of a product, ordered by primary key.
type ProductImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	URL       string    `json:"url" gorm:"size:512;not null"`
	AltText   string    `json:"alt_text" gorm:"size:255"`
	IsPrimary bool      `json:"is_primary" gorm:"default:false"`
	ProductID uint      `json:"product_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
