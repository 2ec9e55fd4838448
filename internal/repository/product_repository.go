package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"marketplace/internal/model"
)

// ProductFilter holds the optional, conjunctive filters of a catalog listing.
type ProductFilter struct {
	CategoryID uint
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Brand      string
	Condition  string
	Search     string
	SortBy     string
	SortOrder  string
	Page       int
	PerPage    int
}

// sortableColumns whitelists the columns a listing may be ordered by.
var sortableColumns = map[string]bool{
	"name":       true,
	"price":      true,
	"stock":      true,
	"created_at": true,
}

// ProductRepository defines product persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	ReplaceCategories(ctx context.Context, product *model.Product, categories []model.Category) error
	ReplaceImages(ctx context.Context, product *model.Product, images []model.ProductImage) error
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete hard-deletes the product; images, reviews and join rows cascade.
func (r *productRepository) Delete(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Select("Images", "Reviews", "Categories").Delete(product).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).
		Preload("Categories").
		Preload("Images").
		First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List applies the conjunctive filters, free-text search, whitelisted sort
// and pagination, returning the page plus the unpaginated total.
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Product{})

	if filter.CategoryID != 0 {
		sub := r.db.Table("product_categories").
			Select("product_id").
			Where("category_id = ?", filter.CategoryID)
		query = query.Where("id IN (?)", sub)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", filter.MaxPrice)
	}
	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}
	if filter.Condition != "" {
		query = query.Where("`condition` = ?", filter.Condition)
	}
	if filter.Search != "" {
		// MySQL LIKE is case-insensitive under the default collation.
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"name LIKE ? OR description LIKE ? OR sku LIKE ? OR brand LIKE ? OR model LIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if sortableColumns[filter.SortBy] {
		direction := "ASC"
		if filter.SortOrder == "desc" {
			direction = "DESC"
		}
		query = query.Order(filter.SortBy + " " + direction)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 20
	}

	var products []model.Product
	if err := query.
		Preload("Categories").
		Preload("Images").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ReplaceCategories replaces the product's category set.
func (r *productRepository) ReplaceCategories(ctx context.Context, product *model.Product, categories []model.Category) error {
	return r.db.WithContext(ctx).Model(product).Association("Categories").Replace(categories)
}

// ReplaceImages destructively replaces the product's image set: all existing
// rows are deleted and the new list is inserted.
func (r *productRepository) ReplaceImages(ctx context.Context, product *model.Product, images []model.ProductImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		for i := range images {
			images[i].ID = 0
			images[i].ProductID = product.ID
		}
		if len(images) == 0 {
			return nil
		}
		return tx.Create(&images).Error
	})
}
