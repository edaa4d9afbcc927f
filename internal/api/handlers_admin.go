package api

import (
	"bytes"
	"net/http"
	"time"

	"structiv/internal/export"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *HTTPServer) handleAdminStats(c *gin.Context) {
	stats, err := s.deps.Dashboard.Stats(c.Request.Context())
	if err != nil {
		s.respondError(c, err, "Failed to fetch stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *HTTPServer) handleFAQs(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Dashboard.FAQs())
}

func (s *HTTPServer) handleExportBookings(c *gin.Context) {
	bookings, err := s.deps.Bookings.ListBookings(c.Request.Context())
	if err != nil {
		s.respondError(c, err, "Failed to export bookings")
		return
	}

	now := time.Now()
	var buf bytes.Buffer
	if err := export.WriteBookings(&buf, bookings, now); err != nil {
		s.respondError(c, err, "Failed to export bookings")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.FileName(now)+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
