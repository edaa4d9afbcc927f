package models

import (
	"strconv"
	"time"
)

type AdminStats struct {
	TotalUsers      int64 `json:"totalUsers"`
	TotalUnits      int64 `json:"totalUnits"`
	AvailableUnits  int64 `json:"availableUnits"`
	PendingBookings int64 `json:"pendingBookings"`
}

type UserStats struct {
	OwnedUnit      string `json:"ownedUnit"`
	ActiveUnit     string `json:"activeUnit"`
	PendingPayment int64  `json:"pendingPayment"`
}

type Notification struct {
	ID        string    `json:"id"`
	Recipient string    `json:"recipient"`
	Type      string    `json:"type"`
	BookingID int64     `json:"bookingId,omitempty"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

func IsBookingStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusDeclined:
		return true
	}
	return false
}

func IsUnitStatus(s string) bool {
	switch s {
	case UnitAvailable, UnitOccupied, UnitMaintenance:
		return true
	}
	return false
}

func IsRole(s string) bool {
	switch s {
	case RoleAdmin, RoleTenant, RoleUser:
		return true
	}
	return false
}

func IsSenderType(s string) bool {
	return s == SenderAdmin || s == SenderUser
}

// SenderForRole maps an account role to the sender type of its messages.
func SenderForRole(role string) string {
	if role == RoleAdmin {
		return SenderAdmin
	}
	return SenderUser
}

// UserRecipient is the inbox key of a single user.
func UserRecipient(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10)
}
