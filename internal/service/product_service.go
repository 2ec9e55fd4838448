package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"marketplace/internal/auth"
	"marketplace/internal/cache"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

const productCacheTTL = 5 * time.Minute

// ProductImageInput is one image of a product create/update payload.
type ProductImageInput struct {
	URL       string
	AltText   string
	IsPrimary bool
}

// ProductInput carries the fields of a product create/update payload.
type ProductInput struct {
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Stock       int
	SKU         string
	Brand       string
	Model       string
	Condition   model.ProductCondition
	IsActive    bool
	CategoryIDs []uint
	Images      []ProductImageInput
}

// ProductService handles catalog operations.
type ProductService interface {
	List(ctx context.Context, filter repository.ProductFilter) ([]model.Product, int64, error)
	Get(ctx context.Context, id uint) (*model.Product, error)
	Create(ctx context.Context, seller *model.User, in ProductInput) (*model.Product, error)
	Update(ctx context.Context, seller *model.User, id uint, in ProductInput) (*model.Product, error)
	Delete(ctx context.Context, seller *model.User, id uint) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cache        *cache.Client
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, cache *cache.Client) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

func (s *productService) cacheKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

func (s *productService) List(ctx context.Context, filter repository.ProductFilter) ([]model.Product, int64, error) {
	return s.productRepo.List(ctx, filter)
}

// Get retrieves a product by ID with caching.
func (s *productService) Get(ctx context.Context, id uint) (*model.Product, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Product
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, err
	}

	if data, err := json.Marshal(product); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), data, productCacheTTL)
	}
	return product, nil
}

// checkUnique fails with a conflict when the slug or sku is already taken by
// a different product.
func (s *productService) checkUnique(ctx context.Context, slug, sku string, excludeID uint) error {
	if existing, err := s.productRepo.FindBySlug(ctx, slug); err == nil && existing.ID != excludeID {
		return apperrors.ErrSlugTaken
	} else if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("check slug: %w", err)
	}
	if existing, err := s.productRepo.FindBySKU(ctx, sku); err == nil && existing.ID != excludeID {
		return apperrors.ErrSKUTaken
	} else if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("check sku: %w", err)
	}
	return nil
}

func (s *productService) Create(ctx context.Context, seller *model.User, in ProductInput) (*model.Product, error) {
	if err := s.checkUnique(ctx, in.Slug, in.SKU, 0); err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.FindByIDs(ctx, in.CategoryIDs)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	images := make([]model.ProductImage, 0, len(in.Images))
	for _, img := range in.Images {
		images = append(images, model.ProductImage{
			URL:       img.URL,
			AltText:   img.AltText,
			IsPrimary: img.IsPrimary,
		})
	}

	product := &model.Product{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		SKU:         in.SKU,
		Brand:       in.Brand,
		Model:       in.Model,
		Condition:   in.Condition,
		IsActive:    in.IsActive,
		SellerID:    seller.ID,
		Categories:  categories,
		Images:      images,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrSKUTaken
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, seller *model.User, id uint, in ProductInput) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, err
	}
	if !auth.OwnsProduct(seller, product) {
		return nil, apperrors.ErrForbidden
	}
	if err := s.checkUnique(ctx, in.Slug, in.SKU, product.ID); err != nil {
		return nil, err
	}

	product.Name = in.Name
	product.Slug = in.Slug
	product.Description = in.Description
	product.Price = in.Price
	product.Stock = in.Stock
	product.SKU = in.SKU
	product.Brand = in.Brand
	product.Model = in.Model
	product.Condition = in.Condition
	product.IsActive = in.IsActive

	if in.CategoryIDs != nil {
		categories, err := s.categoryRepo.FindByIDs(ctx, in.CategoryIDs)
		if err != nil {
			return nil, fmt.Errorf("load categories: %w", err)
		}
		if err := s.productRepo.ReplaceCategories(ctx, product, categories); err != nil {
			return nil, fmt.Errorf("replace categories: %w", err)
		}
	}

	if in.Images != nil {
		// Destructive replace: existing images are deleted, the new list wins.
		images := make([]model.ProductImage, 0, len(in.Images))
		for _, img := range in.Images {
			images = append(images, model.ProductImage{
				URL:       img.URL,
				AltText:   img.AltText,
				IsPrimary: img.IsPrimary,
			})
		}
		if err := s.productRepo.ReplaceImages(ctx, product, images); err != nil {
			return nil, fmt.Errorf("replace images: %w", err)
		}
	}

	product.Categories = nil
	product.Images = nil
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(product.ID))
	return s.productRepo.FindByID(ctx, product.ID)
}

func (s *productService) Delete(ctx context.Context, seller *model.User, id uint) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrProductNotFound
		}
		return err
	}
	if !auth.OwnsProduct(seller, product) {
		return apperrors.ErrForbidden
	}
	if err := s.productRepo.Delete(ctx, product); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
