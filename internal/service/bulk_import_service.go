package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

// importColumns is the fixed upload schema, also served as the template.
var importColumns = []string{
	"name", "description", "price", "stock", "category_ids",
	"brand", "model", "condition", "sku", "images",
}

// ImportResult summarizes a bulk upload. Rows are independent: a failed row
// never rolls back the ones already inserted.
type ImportResult struct {
	Total   int      `json:"total"`
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// BulkImportService ingests seller catalogs from .csv and .xlsx files.
type BulkImportService interface {
	Import(ctx context.Context, seller *model.User, filename string, file io.Reader) (*ImportResult, error)
	Template() string
}

type bulkImportService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewBulkImportService creates a new bulk import service.
func NewBulkImportService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) BulkImportService {
	return &bulkImportService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// Template returns the CSV header row of the upload schema.
func (s *bulkImportService) Template() string {
	return strings.Join(importColumns, ",") + "\n"
}

func (s *bulkImportService) Import(ctx context.Context, seller *model.User, filename string, file io.Reader) (*ImportResult, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = readCSV(file)
	case ".xlsx":
		rows, err = readXLSX(file)
	default:
		return nil, apperrors.ErrUnsupportedUploadFormat
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.ErrInvalidUploadSchema
	}

	cols, err := columnIndex(rows[0])
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Total: len(rows) - 1}
	for i, row := range rows[1:] {
		// Row numbers are 1-indexed and account for the header row.
		rowNum := i + 2
		if err := s.importRow(ctx, seller, cols, row); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		result.Success++
	}
	return result, nil
}

func readCSV(file io.Reader) ([][]string, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.ErrInvalidUploadSchema
	}
	return rows, nil
}

func readXLSX(file io.Reader) ([][]string, error) {
	wb, err := excelize.OpenReader(file)
	if err != nil {
		return nil, apperrors.ErrInvalidUploadSchema
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.ErrInvalidUploadSchema
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.ErrInvalidUploadSchema
	}
	return rows, nil
}

// columnIndex maps every required column name to its position in the header.
func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range importColumns {
		if _, ok := cols[required]; !ok {
			return nil, apperrors.ErrInvalidUploadSchema
		}
	}
	return cols, nil
}

func cell(row []string, cols map[string]int, name string) string {
	i := cols[name]
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (s *bulkImportService) importRow(ctx context.Context, seller *model.User, cols map[string]int, row []string) error {
	name := cell(row, cols, "name")
	if name == "" {
		return fmt.Errorf("name is required")
	}
	sku := cell(row, cols, "sku")
	if sku == "" {
		return fmt.Errorf("sku is required")
	}

	price, err := decimal.NewFromString(cell(row, cols, "price"))
	if err != nil || price.IsNegative() {
		return fmt.Errorf("invalid price %q", cell(row, cols, "price"))
	}

	stock, err := strconv.Atoi(cell(row, cols, "stock"))
	if err != nil || stock < 0 {
		return fmt.Errorf("invalid stock %q", cell(row, cols, "stock"))
	}

	condition := model.ProductCondition(cell(row, cols, "condition"))
	if condition == "" {
		condition = model.ConditionNew
	}
	if condition != model.ConditionNew && condition != model.ConditionUsed {
		return fmt.Errorf("invalid condition %q", cell(row, cols, "condition"))
	}

	var categories []model.Category
	if raw := cell(row, cols, "category_ids"); raw != "" {
		var ids []uint
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid category id %q", part)
			}
			ids = append(ids, uint(id))
		}
		categories, err = s.categoryRepo.FindByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		if len(categories) != len(ids) {
			return fmt.Errorf("unknown category id")
		}
	}

	var images []model.ProductImage
	if raw := cell(row, cols, "images"); raw != "" {
		for i, url := range strings.Split(raw, ",") {
			images = append(images, model.ProductImage{
				URL:       strings.TrimSpace(url),
				IsPrimary: i == 0,
			})
		}
	}

	slug := slugify(name + "-" + sku)
	if existing, err := s.productRepo.FindBySlug(ctx, slug); err == nil && existing != nil {
		return fmt.Errorf("slug %q already taken", slug)
	} else if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("check slug: %w", err)
	}
	if existing, err := s.productRepo.FindBySKU(ctx, sku); err == nil && existing != nil {
		return fmt.Errorf("sku %q already taken", sku)
	} else if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("check sku: %w", err)
	}

	product := &model.Product{
		Name:        name,
		Slug:        slug,
		Description: cell(row, cols, "description"),
		Price:       price,
		Stock:       stock,
		SKU:         sku,
		Brand:       cell(row, cols, "brand"),
		Model:       cell(row, cols, "model"),
		Condition:   condition,
		IsActive:    true,
		SellerID:    seller.ID,
		Categories:  categories,
		Images:      images,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

// slugify lowercases the input and collapses every non-alphanumeric run into
// a single hyphen.
func slugify(s string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
