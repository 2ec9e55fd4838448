package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"marketplace/internal/errors"
	"marketplace/internal/middleware"
	"marketplace/internal/model"
	"marketplace/internal/repository"
	"marketplace/internal/service"
)

// ChatHandler handles conversation endpoints.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ChatRequest represents a chat creation payload.
type ChatRequest struct {
	SellerID  uint  `json:"seller_id" validate:"required"`
	ProductID *uint `json:"product_id"`
}

// MessageRequest represents a message creation payload.
type MessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// ChatListResponse represents a paginated chat listing.
type ChatListResponse struct {
	Items   []model.Chat `json:"items"`
	Total   int64        `json:"total"`
	Page    int          `json:"page"`
	PerPage int          `json:"per_page"`
}

// Create godoc
// @Summary Open a conversation with a seller
// @Tags chats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChatRequest true "Chat data"
// @Success 201 {object} model.Chat
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /chats [post]
func (h *ChatHandler) Create(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	chat, err := h.chatService.Create(c.Request().Context(), middleware.UserFrom(c), service.ChatInput{
		SellerID:  req.SellerID,
		ProductID: req.ProductID,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, chat)
}

// List godoc
// @Summary List the caller's conversations
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param product_id query int false "Product filter"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} ChatListResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /chats [get]
func (h *ChatHandler) List(c echo.Context) error {
	var filter repository.ChatFilter
	if v, err := strconv.ParseUint(c.QueryParam("product_id"), 10, 64); err == nil {
		filter.ProductID = uint(v)
	}
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.PerPage, _ = strconv.Atoi(c.QueryParam("per_page"))

	chats, total, err := h.chatService.List(c.Request().Context(), middleware.UserFrom(c), filter)
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
	return c.JSON(http.StatusOK, ChatListResponse{
		Items:   chats,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

// Get godoc
// @Summary Get one of the caller's conversations
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chat ID"
// @Success 200 {object} model.Chat
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /chats/{id} [get]
func (h *ChatHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	chat, err := h.chatService.Get(c.Request().Context(), middleware.UserFrom(c), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, chat)
}

// ListMessages godoc
// @Summary List messages of a conversation
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chat ID"
// @Success 200 {array} model.Message
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /chats/{id}/messages [get]
func (h *ChatHandler) ListMessages(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	messages, err := h.chatService.ListMessages(c.Request().Context(), middleware.UserFrom(c), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, messages)
}

// SendMessage godoc
// @Summary Send a message into a conversation
// @Tags chats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chat ID"
// @Param request body MessageRequest true "Message data"
// @Success 201 {object} model.Message
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /chats/{id}/messages [post]
func (h *ChatHandler) SendMessage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message, err := h.chatService.SendMessage(c.Request().Context(), middleware.UserFrom(c), id, service.MessageInput{
		Content: req.Content,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, message)
}
