package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user record is missing.
	ErrUserNotFound = errors.New("user not found")
	// ErrProductNotFound is returned when a product record is missing.
	ErrProductNotFound = errors.New("product not found")
	// ErrCategoryNotFound is returned when a category record is missing.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrOrderNotFound is returned when an order record is missing.
	ErrOrderNotFound = errors.New("order not found")
	// ErrChatNotFound is returned when a chat record is missing.
	ErrChatNotFound = errors.New("chat not found")
	// ErrNotificationNotFound is returned when a notification record is missing.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrForbidden is returned when the caller is authenticated but is not
	// allowed to act on the resource.
	ErrForbidden = errors.New("not enough permissions")
	// ErrInactiveUser is returned when the account has been deactivated.
	ErrInactiveUser = errors.New("inactive user")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("user with this email already exists")
	// ErrSlugTaken is returned when a product slug collides.
	ErrSlugTaken = errors.New("product with this slug already exists")
	// ErrSKUTaken is returned when a product sku collides.
	ErrSKUTaken = errors.New("product with this sku already exists")

	// ErrInsufficientStock is returned when an order requests more units than available.
	ErrInsufficientStock = errors.New("not enough stock")
	// ErrInvalidStatusTransition is returned on an illegal order status change.
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	// ErrOrderNotCancellable is returned when cancelling a non-pending order.
	ErrOrderNotCancellable = errors.New("can only cancel pending orders")
	// ErrInvalidUploadSchema is returned when a bulk upload file misses required columns.
	ErrInvalidUploadSchema = errors.New("upload file does not match the required schema")
	// ErrUnsupportedUploadFormat is returned for files that are neither csv nor xlsx.
	ErrUnsupportedUploadFormat = errors.New("unsupported upload file format")
	// ErrInvalidTimeRange is returned for unknown analytics time ranges.
	ErrInvalidTimeRange = errors.New("time range must be week, month or year")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrUserNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case ErrProductNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "PRODUCT_NOT_FOUND")
	case ErrCategoryNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "CATEGORY_NOT_FOUND")
	case ErrOrderNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "ORDER_NOT_FOUND")
	case ErrChatNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "CHAT_NOT_FOUND")
	case ErrNotificationNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOTIFICATION_NOT_FOUND")
	case ErrForbidden:
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case ErrInactiveUser:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INACTIVE_USER")
	case ErrEmailTaken:
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case ErrSlugTaken:
		return NewHTTPError(http.StatusConflict, err.Error(), "SLUG_TAKEN")
	case ErrSKUTaken:
		return NewHTTPError(http.StatusConflict, err.Error(), "SKU_TAKEN")
	case ErrInsufficientStock:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INSUFFICIENT_STOCK")
	case ErrInvalidStatusTransition:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_STATUS_TRANSITION")
	case ErrOrderNotCancellable:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ORDER_NOT_CANCELLABLE")
	case ErrInvalidUploadSchema:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_UPLOAD_SCHEMA")
	case ErrUnsupportedUploadFormat:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "UNSUPPORTED_UPLOAD_FORMAT")
	case ErrInvalidTimeRange:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_TIME_RANGE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
