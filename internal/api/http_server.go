package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"structiv/internal/auth"
	"structiv/internal/config"
	"structiv/internal/domain"
	"structiv/internal/notify"
	"structiv/internal/service"
	"structiv/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Deps are the collaborators behind the REST API.
type Deps struct {
	Users     *service.UserService
	Units     *service.UnitService
	Bookings  *service.BookingService
	Dashboard *service.DashboardService
	Inbox     domain.NotificationRepository
	Hub       *notify.Hub
	Uploader  *storage.ImageUploader
	// Tokens is nil when authentication is disabled.
	Tokens *auth.TokenManager
	// UploadDir is served under the uploads URL prefix; empty when images live in S3.
	UploadDir string
}

// HTTPServer exposes the booking REST API.
type HTTPServer struct {
	cfg     *config.Config
	deps    Deps
	engine  *gin.Engine
	server  *http.Server
	limiter *rateLimiter
	logger  *zerolog.Logger
}

func NewHTTPServer(cfg *config.Config, deps Deps, logger *zerolog.Logger) *HTTPServer {
	if cfg.App.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &HTTPServer{
		cfg:     cfg,
		deps:    deps,
		limiter: newRateLimiter(cfg.API.RateLimit),
		logger:  logger,
	}

	engine := gin.New()
	engine.Use(
		requestIDMiddleware(),
		gin.CustomRecovery(recoveryHandler(logger)),
		accessLogMiddleware(logger),
		metricsMiddleware(),
		cors.New(corsConfig(cfg.Server.AllowedOrigins)),
		principalMiddleware(deps.Tokens),
	)
	engine.MaxMultipartMemory = 8 << 20
	s.engine = engine
	s.routes()

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

func (s *HTTPServer) routes() {
	r := s.engine
	if s.deps.UploadDir != "" {
		r.Static(s.cfg.Uploads.URLPrefix, s.deps.UploadDir)
	}

	api := r.Group("/api")
	api.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Backend is working!"})
	})
	api.GET("/faqs", s.handleFAQs)

	limited := api.Group("", s.limiter.middleware())
	limited.POST("/register", s.handleRegister)
	limited.POST("/login", s.handleLogin)
	limited.POST("/change-password", s.requireAuth(), s.handleChangePassword)

	api.GET("/units", s.handleListUnits)
	api.GET("/units/:id", s.handleGetUnit)

	authed := api.Group("", s.requireAuth())
	authed.GET("/users/:id", s.handleGetUser)
	authed.PUT("/users/:id", s.handleUpdateProfile)
	authed.GET("/bookings/:id", s.handleGetBooking)
	authed.PUT("/bookings/:id", s.handleUpdateBookingStatus)
	authed.POST("/bookings/:id/message", s.handleSendMessage)
	authed.GET("/bookings/:id/messages", s.handleListMessages)
	authed.GET("/user/bookings/:userId", s.handleUserBookings)
	authed.POST("/user/bookings", s.handleCreateBooking)
	authed.GET("/user/stats/:userId", s.handleUserStats)
	authed.GET("/notifications/:recipient", s.handleListNotifications)
	authed.DELETE("/notifications/:recipient", s.handleClearNotifications)
	authed.GET("/ws/notifications/:recipient", s.handleNotificationSocket)

	admin := api.Group("", s.requireAdmin())
	admin.POST("/units", s.handleCreateUnit)
	admin.PUT("/units/:id", s.handleUpdateUnit)
	admin.POST("/units/upload-images", s.handleUploadImages)
	admin.GET("/bookings", s.handleListBookings)
	admin.DELETE("/bookings/:id", s.handleDeleteBooking)
	admin.PUT("/bookings/:id/reschedule", s.handleRescheduleBooking)
	admin.GET("/admin/stats", s.handleAdminStats)
	admin.GET("/admin/users", s.handleListUsers)
	admin.POST("/admin/users", s.handleCreateUser)
	admin.GET("/admin/bookings/export", s.handleExportBookings)
}

func (s *HTTPServer) authEnabled() bool {
	return s.deps.Tokens != nil
}

// Handler exposes the router for tests and embedding.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Bool("auth", s.authEnabled()).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	if s.deps.Hub != nil {
		s.deps.Hub.Close()
	}
	return s.server.Shutdown(ctx)
}

// bindJSON decodes the body into v; an empty body leaves v untouched.
func bindJSON(c *gin.Context, v any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(v); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		writeError(c, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}
