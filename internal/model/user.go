package model

import "time"

// UserRole represents the role of a user account.
type UserRole string

const (
	RoleGuest  UserRole = "guest"
	RoleBuyer  UserRole = "buyer"
	RoleSeller UserRole = "seller"
	RoleAdmin  UserRole = "admin"
)

// User represents a buyer, seller or admin account.
type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Email        string   `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string   `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FullName     string   `json:"full_name" gorm:"size:255"`
	Phone        string   `json:"phone" gorm:"size:32"`
	Role         UserRole `json:"role" gorm:"type:varchar(20);not null;default:'buyer';index"`
	IsActive     bool     `json:"is_active" gorm:"default:true;index"`

	// Seller profile
	CompanyName        string `json:"company_name,omitempty" gorm:"size:255"`
	CompanyDescription string `json:"company_description,omitempty" gorm:"type:text"`
	CompanyAddress     string `json:"company_address,omitempty" gorm:"size:255"`
	CompanyPhone       string `json:"company_phone,omitempty" gorm:"size:32"`
	IsVerified         bool   `json:"is_verified" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Products []Product `json:"products,omitempty" gorm:"foreignKey:SellerID"`
	Orders   []Order   `json:"orders,omitempty" gorm:"foreignKey:BuyerID"`
	Reviews  []Review  `json:"reviews,omitempty" gorm:"foreignKey:UserID"`
}

// IsSeller reports whether the user may manage a catalog.
func (u *User) IsSeller() bool {
	return u.Role == RoleSeller
}

// IsAdmin reports whether the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
