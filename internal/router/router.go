package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"marketplace/internal/auth"
	"marketplace/internal/config"
	"marketplace/internal/handler"
	"marketplace/internal/middleware"
	"marketplace/internal/repository"
	"marketplace/internal/ws"
)

// Handlers groups everything Register wires into the route table.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Product      *handler.ProductHandler
	Category     *handler.CategoryHandler
	Order        *handler.OrderHandler
	Chat         *handler.ChatHandler
	Notification *handler.NotificationHandler
	Analytics    *handler.AnalyticsHandler
	Review       *handler.ReviewHandler
	ChatStream   *ws.Handler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, userRepo repository.UserRepository, h Handlers) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Websocket handshake authenticates via token query parameter.
	e.GET("/ws/chats/:id", h.ChatStream.Chat)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/register/seller", h.Auth.RegisterSeller)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/logout", h.Auth.Logout)

	api.GET("/products", h.Product.List)
	api.GET("/products/:id", h.Product.Get)
	api.GET("/products/:id/reviews", h.Review.List)
	api.GET("/categories", h.Category.List)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}), middleware.CurrentUser(userRepo))

	secured.GET("/users/me", h.User.Me)
	secured.PUT("/users/me", h.User.UpdateMe)

	secured.POST("/categories", h.Category.Create)
	secured.PUT("/categories/:id", h.Category.Update)

	// Catalog management is seller-only; the bulk template comes before the
	// :id routes so echo does not shadow it.
	secured.GET("/products/bulk-upload/template", h.Product.Template, middleware.RequireSeller)
	secured.POST("/products/bulk-upload", h.Product.BulkUpload, middleware.RequireSeller)
	secured.POST("/products", h.Product.Create, middleware.RequireSeller)
	secured.PUT("/products/:id", h.Product.Update, middleware.RequireSeller)
	secured.DELETE("/products/:id", h.Product.Delete, middleware.RequireSeller)

	secured.POST("/products/:id/reviews", h.Review.Create)

	secured.POST("/orders", h.Order.Create)
	secured.GET("/orders", h.Order.List)
	secured.GET("/orders/:id", h.Order.Get)
	secured.PUT("/orders/:id", h.Order.Update)
	secured.POST("/orders/:id/cancel", h.Order.Cancel)

	secured.POST("/chats", h.Chat.Create)
	secured.GET("/chats", h.Chat.List)
	secured.GET("/chats/:id", h.Chat.Get)
	secured.GET("/chats/:id/messages", h.Chat.ListMessages)
	secured.POST("/chats/:id/messages", h.Chat.SendMessage)

	secured.GET("/notifications", h.Notification.List)
	secured.GET("/notifications/unread-count", h.Notification.UnreadCount)
	secured.POST("/notifications/read-all", h.Notification.MarkAllRead)
	secured.POST("/notifications/:id/read", h.Notification.MarkRead)
	secured.DELETE("/notifications/:id", h.Notification.Delete)

	secured.GET("/analytics/sales", h.Analytics.Sales, middleware.RequireSeller)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
