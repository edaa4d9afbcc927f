package api

import (
	"errors"
	"net/http"
	"strconv"

	"structiv/internal/service"
	"structiv/internal/storage"

	"github.com/gin-gonic/gin"
)

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondError maps service and upload errors to their status. Anything else is
// logged and answered with fallback so internal details never reach the client.
func (s *HTTPServer) respondError(c *gin.Context, err error, fallback string) {
	var upErr *storage.UploadError
	if errors.As(err, &upErr) {
		writeError(c, http.StatusBadRequest, upErr.Msg)
		return
	}

	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		writeError(c, statusFor(svcErr.Kind), svcErr.Msg)
		return
	}

	s.logger.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("request_id", c.GetString(requestIDKey)).
		Msg(fallback)
	writeError(c, http.StatusInternalServerError, fallback)
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, service.ErrInvalidInput), errors.Is(kind, service.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(kind, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(kind, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(kind, service.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}
