package models

import "time"

type Booking struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	UnitID        int64     `json:"unit_id"`
	BookingDate   string    `json:"booking_date"`
	MeetingDate   string    `json:"meeting_date"`
	MeetingTime   string    `json:"meeting_time"`
	FacebookLink  string    `json:"facebook_link"`
	ContactNumber string    `json:"contact_number"`
	Status        string    `json:"status"` // Pending, Approved, Declined
	AdminMessage  string    `json:"admin_message"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BookingView is a booking joined with its unit and requester.
type BookingView struct {
	Booking
	UnitName  string  `json:"unit_name"`
	UnitPrice float64 `json:"price"`
	UnitSize  float64 `json:"size"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
}

// Reschedule carries the admin's new meeting proposal; nil fields stay unchanged.
type Reschedule struct {
	MeetingDate  string
	MeetingTime  *string
	AdminMessage *string
}

type BookingMessage struct {
	ID         int64     `json:"id"`
	BookingID  int64     `json:"booking_id"`
	SenderType string    `json:"sender_type"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
