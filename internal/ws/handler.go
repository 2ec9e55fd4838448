package ws

import (
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"marketplace/internal/auth"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/repository"
	"marketplace/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// inboundMessage is what a connected client sends.
type inboundMessage struct {
	Content string `json:"content"`
}

// Handler serves the live chat endpoint. Browsers cannot set an
// Authorization header on a websocket handshake, so the access token is
// taken from the `token` query parameter instead.
type Handler struct {
	hub         *Hub
	jwtService  *auth.JWTService
	userRepo    repository.UserRepository
	chatService service.ChatService
}

// NewHandler creates a new websocket handler.
func NewHandler(hub *Hub, jwtService *auth.JWTService, userRepo repository.UserRepository, chatService service.ChatService) *Handler {
	return &Handler{
		hub:         hub,
		jwtService:  jwtService,
		userRepo:    userRepo,
		chatService: chatService,
	}
}

// Chat upgrades the connection and reads messages of one conversation.
// Persistence and the push to the peer both happen inside
// ChatService.SendMessage, shared with the REST path.
func (h *Handler) Chat(c echo.Context) error {
	claims, err := h.jwtService.ValidateToken(c.QueryParam("token"))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	user, err := h.userRepo.FindByID(c.Request().Context(), claims.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		return err
	}
	if !user.IsActive {
		return echo.NewHTTPError(http.StatusUnauthorized, "inactive user")
	}

	chatID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chat id")
	}
	chat, err := h.chatService.Get(c.Request().Context(), user, uint(chatID))
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	h.hub.Register(user.ID, conn)
	defer func() {
		h.hub.Unregister(user.ID, conn)
		conn.Close()
	}()

	for {
		var in inboundMessage
		if err := conn.ReadJSON(&in); err != nil {
			return nil
		}
		if in.Content == "" {
			continue
		}
		if _, err := h.chatService.SendMessage(c.Request().Context(), user, chat.ID, service.MessageInput{Content: in.Content}); err != nil {
			continue
		}
	}
}
