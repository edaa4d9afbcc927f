package api

import (
	"net/http"
	"strconv"

	"structiv/internal/models"

	"github.com/gin-gonic/gin"
)

// recipient resolves the :recipient path segment to an inbox key the caller may read.
func (s *HTTPServer) recipient(c *gin.Context) (string, bool) {
	raw := c.Param("recipient")
	actor := s.actor(c)

	if raw == models.RecipientAdmin {
		if !actor.System() && !actor.IsAdmin() {
			writeError(c, http.StatusForbidden, "Admin access required")
			return "", false
		}
		return models.RecipientAdmin, true
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, "Invalid recipient")
		return "", false
	}
	if !actor.CanAccessUser(id) {
		writeError(c, http.StatusForbidden, "Access denied")
		return "", false
	}
	return models.UserRecipient(id), true
}

func (s *HTTPServer) handleListNotifications(c *gin.Context) {
	recipient, ok := s.recipient(c)
	if !ok {
		return
	}

	items, err := s.deps.Inbox.List(c.Request.Context(), recipient)
	if err != nil {
		s.respondError(c, err, "Failed to fetch notifications")
		return
	}
	if items == nil {
		items = []*models.Notification{}
	}
	c.JSON(http.StatusOK, items)
}

func (s *HTTPServer) handleClearNotifications(c *gin.Context) {
	recipient, ok := s.recipient(c)
	if !ok {
		return
	}

	if err := s.deps.Inbox.Clear(c.Request.Context(), recipient); err != nil {
		s.respondError(c, err, "Failed to clear notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notifications cleared"})
}

func (s *HTTPServer) handleNotificationSocket(c *gin.Context) {
	recipient, ok := s.recipient(c)
	if !ok {
		return
	}

	// the upgrader has already answered the client on failure
	if err := s.deps.Hub.Serve(c.Writer, c.Request, recipient); err != nil {
		s.logger.Warn().Err(err).Str("recipient", recipient).Msg("websocket upgrade failed")
	}
}
