package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"marketplace/internal/errors"
	"marketplace/internal/middleware"
	"marketplace/internal/service"
)

// AnalyticsHandler handles seller dashboard endpoints.
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Sales godoc
// @Summary Sales report for the calling seller
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param period query string false "Report period (week|month|year), default month"
// @Success 200 {object} service.SalesReport
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /analytics/sales [get]
func (h *AnalyticsHandler) Sales(c echo.Context) error {
	report, err := h.analyticsService.SalesReport(c.Request().Context(), middleware.UserFrom(c), c.QueryParam("period"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, report)
}
