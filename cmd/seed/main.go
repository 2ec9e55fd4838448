package main

import (
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"marketplace/internal/config"
	"marketplace/internal/db"
	"marketplace/internal/model"
)

// Demo data for local development. Running the script twice is safe: every
// record is looked up by its natural key before insert.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.ProductImage{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	seedUser(gormDB, "admin@marketplace.local", "admin123", "Admin", model.RoleAdmin)
	seller := seedUser(gormDB, "seller@marketplace.local", "seller123", "Demo Seller", model.RoleSeller)
	seedUser(gormDB, "buyer@marketplace.local", "buyer123", "Demo Buyer", model.RoleBuyer)

	electronics := seedCategory(gormDB, "Electronics", "electronics", nil)
	seedCategory(gormDB, "Phones", "phones", &electronics.ID)
	clothing := seedCategory(gormDB, "Clothing", "clothing", nil)

	seedProduct(gormDB, seller, electronics, "Noise Cancelling Headphones", "demo-headphones", "SKU-HDP-001", "199.99", 25)
	seedProduct(gormDB, seller, electronics, "Mechanical Keyboard", "demo-keyboard", "SKU-KBD-001", "89.50", 40)
	seedProduct(gormDB, seller, clothing, "Canvas Jacket", "demo-jacket", "SKU-JKT-001", "59.00", 12)

	log.Println("Seed completed")
}

func seedUser(gormDB *gorm.DB, email, password, name string, role model.UserRole) *model.User {
	var user model.User
	if err := gormDB.Where("email = ?", email).First(&user).Error; err == nil {
		return &user
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	user = model.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     name,
		Role:         role,
		IsActive:     true,
	}
	if role == model.RoleSeller {
		user.CompanyName = "Demo Goods Ltd"
		user.IsVerified = true
	}
	if err := gormDB.Create(&user).Error; err != nil {
		log.Fatalf("Failed to create user %s: %v", email, err)
	}
	log.Printf("Created user %s (%s)", email, role)
	return &user
}

func seedCategory(gormDB *gorm.DB, name, slug string, parentID *uint) *model.Category {
	var category model.Category
	if err := gormDB.Where("slug = ?", slug).First(&category).Error; err == nil {
		return &category
	}

	category = model.Category{Name: name, Slug: slug, ParentID: parentID}
	if err := gormDB.Create(&category).Error; err != nil {
		log.Fatalf("Failed to create category %s: %v", slug, err)
	}
	log.Printf("Created category %s", slug)
	return &category
}

func seedProduct(gormDB *gorm.DB, seller *model.User, category *model.Category, name, slug, sku, price string, stock int) {
	var product model.Product
	if err := gormDB.Where("slug = ?", slug).First(&product).Error; err == nil {
		return
	}

	product = model.Product{
		Name:       name,
		Slug:       slug,
		SKU:        sku,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		Condition:  model.ConditionNew,
		IsActive:   true,
		SellerID:   seller.ID,
		Categories: []model.Category{*category},
	}
	if err := gormDB.Create(&product).Error; err != nil {
		log.Fatalf("Failed to create product %s: %v", slug, err)
	}
	log.Printf("Created product %s", slug)
}
