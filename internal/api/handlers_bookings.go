package api

import (
	"net/http"

	"structiv/internal/service"

	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) handleListBookings(c *gin.Context) {
	bookings, err := s.deps.Bookings.ListBookings(c.Request.Context())
	if err != nil {
		s.respondError(c, err, "Failed to fetch bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (s *HTTPServer) handleGetBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	booking, err := s.deps.Bookings.GetBooking(c.Request.Context(), s.actor(c), id)
	if err != nil {
		s.respondError(c, err, "Failed to fetch booking")
		return
	}
	c.JSON(http.StatusOK, booking)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *HTTPServer) handleUpdateBookingStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := s.deps.Bookings.UpdateStatus(c.Request.Context(), s.actor(c), id, req.Status); err != nil {
		s.respondError(c, err, "Failed to update booking status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking status updated"})
}

func (s *HTTPServer) handleDeleteBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.deps.Bookings.DeleteBooking(c.Request.Context(), s.actor(c), id); err != nil {
		s.respondError(c, err, "Failed to delete booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted successfully"})
}

func (s *HTTPServer) handleRescheduleBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.RescheduleInput
	if !bindJSON(c, &req) {
		return
	}

	if err := s.deps.Bookings.RescheduleBooking(c.Request.Context(), s.actor(c), id, req); err != nil {
		s.respondError(c, err, "Failed to reschedule booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking rescheduled successfully"})
}

type messageRequest struct {
	SenderType string `json:"senderType"`
	Message    string `json:"message"`
}

func (s *HTTPServer) handleSendMessage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req messageRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := s.deps.Bookings.SendMessage(c.Request.Context(), s.actor(c), id, req.SenderType, req.Message)
	if err != nil {
		s.respondError(c, err, "Failed to send message")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Message sent successfully", "messageId": msg.ID})
}

func (s *HTTPServer) handleListMessages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	messages, err := s.deps.Bookings.ListMessages(c.Request.Context(), s.actor(c), id)
	if err != nil {
		s.respondError(c, err, "Failed to fetch messages")
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (s *HTTPServer) handleUserBookings(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	bookings, err := s.deps.Bookings.ListUserBookings(c.Request.Context(), s.actor(c), userID)
	if err != nil {
		s.respondError(c, err, "Failed to fetch bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (s *HTTPServer) handleCreateBooking(c *gin.Context) {
	var req service.CreateBookingInput
	if !bindJSON(c, &req) {
		return
	}

	booking, err := s.deps.Bookings.CreateBooking(c.Request.Context(), s.actor(c), req)
	if err != nil {
		s.respondError(c, err, "Failed to create booking")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Booking created successfully", "bookingId": booking.ID})
}

func (s *HTTPServer) handleUserStats(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	stats, err := s.deps.Bookings.UserStats(c.Request.Context(), s.actor(c), userID)
	if err != nil {
		s.respondError(c, err, "Failed to fetch user stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
