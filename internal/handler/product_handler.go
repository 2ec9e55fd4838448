package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"marketplace/internal/errors"
	"marketplace/internal/middleware"
	"marketplace/internal/model"
	"marketplace/internal/repository"
	"marketplace/internal/service"
)

// ProductHandler handles catalog endpoints.
type ProductHandler struct {
	productService service.ProductService
	importService  service.BulkImportService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(productService service.ProductService, importService service.BulkImportService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		importService:  importService,
	}
}

// ProductImageRequest represents one image of a product payload.
type ProductImageRequest struct {
	URL       string `json:"url" validate:"required,url"`
	AltText   string `json:"alt_text"`
	IsPrimary bool   `json:"is_primary"`
}

// ProductRequest represents a product create/update payload.
type ProductRequest struct {
	Name        string                `json:"name" validate:"required"`
	Slug        string                `json:"slug" validate:"required"`
	Description string                `json:"description"`
	Price       string                `json:"price" validate:"required"`
	Stock       int                   `json:"stock" validate:"gte=0"`
	SKU         string                `json:"sku" validate:"required"`
	Brand       string                `json:"brand"`
	Model       string                `json:"model"`
	Condition   string                `json:"condition" validate:"omitempty,oneof=new used"`
	IsActive    *bool                 `json:"is_active"`
	CategoryIDs []uint                `json:"category_ids"`
	Images      []ProductImageRequest `json:"images"`
}

// ProductListResponse represents a paginated product listing.
type ProductListResponse struct {
	Items   []model.Product `json:"items"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
}

func (r *ProductRequest) toInput() (service.ProductInput, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return service.ProductInput{}, err
	}

	condition := model.ProductCondition(r.Condition)
	if condition == "" {
		condition = model.ConditionNew
	}
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}

	images := make([]service.ProductImageInput, 0, len(r.Images))
	for _, img := range r.Images {
		images = append(images, service.ProductImageInput{
			URL:       img.URL,
			AltText:   img.AltText,
			IsPrimary: img.IsPrimary,
		})
	}

	return service.ProductInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Price:       price,
		Stock:       r.Stock,
		SKU:         r.SKU,
		Brand:       r.Brand,
		Model:       r.Model,
		Condition:   condition,
		IsActive:    isActive,
		CategoryIDs: r.CategoryIDs,
		Images:      images,
	}, nil
}

// List godoc
// @Summary List products with filters, sorting and pagination
// @Tags products
// @Produce json
// @Param category_id query int false "Category filter"
// @Param min_price query number false "Minimum price"
// @Param max_price query number false "Maximum price"
// @Param brand query string false "Brand filter"
// @Param condition query string false "Condition filter (new|used)"
// @Param search query string false "Substring search over name, description, sku, brand and model"
// @Param sort_by query string false "Sort column (name|price|stock|created_at)"
// @Param sort_order query string false "Sort direction (asc|desc)"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} ProductListResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	filter := repository.ProductFilter{
		Brand:     c.QueryParam("brand"),
		Condition: c.QueryParam("condition"),
		Search:    c.QueryParam("search"),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	}
	if v, err := strconv.ParseUint(c.QueryParam("category_id"), 10, 64); err == nil {
		filter.CategoryID = uint(v)
	}
	if v, err := decimal.NewFromString(c.QueryParam("min_price")); err == nil {
		filter.MinPrice = &v
	}
	if v, err := decimal.NewFromString(c.QueryParam("max_price")); err == nil {
		filter.MaxPrice = &v
	}
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.PerPage, _ = strconv.Atoi(c.QueryParam("per_page"))

	products, total, err := h.productService.List(c.Request().Context(), filter)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 20
	}
	return c.JSON(http.StatusOK, ProductListResponse{
		Items:   products,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

// Get godoc
// @Summary Get a product by id
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} model.Product
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	product, err := h.productService.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, product)
}

// Create godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProductRequest true "Product data"
// @Success 201 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in, err := req.toInput()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid price",
			Code:  "INVALID_PRICE",
		})
	}

	product, err := h.productService.Create(c.Request().Context(), middleware.UserFrom(c), in)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, product)
}

// Update godoc
// @Summary Update an owned product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body ProductRequest true "Product data"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in, err := req.toInput()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid price",
			Code:  "INVALID_PRICE",
		})
	}

	product, err := h.productService.Update(c.Request().Context(), middleware.UserFrom(c), id, in)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, product)
}

// Delete godoc
// @Summary Delete an owned product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.productService.Delete(c.Request().Context(), middleware.UserFrom(c), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "product deleted"})
}

// BulkUpload godoc
// @Summary Bulk import products from a csv or xlsx file
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Catalog file (.csv or .xlsx)"
// @Success 200 {object} service.ImportResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products/bulk-upload [post]
func (h *ProductHandler) BulkUpload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "file is required",
			Code:  "FILE_REQUIRED",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "unable to read file",
			Code:  "FILE_UNREADABLE",
		})
	}
	defer file.Close()

	result, err := h.importService.Import(c.Request().Context(), middleware.UserFrom(c), fileHeader.Filename, file)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, result)
}

// Template godoc
// @Summary Download the bulk upload CSV template
// @Tags products
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string
// @Router /products/bulk-upload/template [get]
func (h *ProductHandler) Template(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products_template.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(h.importService.Template()))
}

// parseID parses the :id path parameter.
func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid id",
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}
