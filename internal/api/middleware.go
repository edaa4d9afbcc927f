package api

import (
	"net/http"
	"strings"
	"time"

	"structiv/internal/auth"
	"structiv/internal/metrics"
	"structiv/internal/models"
	"structiv/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	principalKey    = "principal"
)

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLogMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = logger.Error()
		case status >= http.StatusBadRequest:
			event = logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("http request")
	}
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveHTTP(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}

func recoveryHandler(logger *zerolog.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		logger.Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// principalMiddleware attaches the token's principal when one is presented.
// Requests without a token pass through; route guards decide whether that is allowed.
func principalMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil {
			c.Next()
			return
		}

		raw := bearerToken(c)
		if raw == "" {
			c.Next()
			return
		}

		p, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// bearerToken reads the Authorization header, or ?token= for websocket clients.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(c.Query("token"))
}

func principalFrom(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

// requireAuth demands a principal when authentication is enabled.
func (s *HTTPServer) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.authEnabled() {
			if _, ok := principalFrom(c); !ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
				return
			}
		}
		c.Next()
	}
}

// requireAdmin demands an admin principal when authentication is enabled.
func (s *HTTPServer) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.authEnabled() {
			p, ok := principalFrom(c)
			if !ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
				return
			}
			if p.Role != models.RoleAdmin {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
				return
			}
		}
		c.Next()
	}
}

// actor is the service-level caller. Without authentication every request acts as the system.
func (s *HTTPServer) actor(c *gin.Context) service.Actor {
	if !s.authEnabled() {
		return service.Actor{}
	}
	p, ok := principalFrom(c)
	if !ok {
		// anonymous: owns nothing
		return service.Actor{Role: models.RoleUser}
	}
	return service.Actor{UserID: p.UserID, Role: p.Role}
}
