package models

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusDeclined = "Declined"
)

const (
	UnitAvailable   = "Available"
	UnitOccupied    = "Occupied"
	UnitMaintenance = "Maintenance"
)

const (
	RoleAdmin  = "admin"
	RoleTenant = "tenant"
	RoleUser   = "user"
)

const (
	SenderAdmin = "admin"
	SenderUser  = "user"
)

const (
	NotificationBooking     = "booking"
	NotificationMessage     = "message"
	NotificationApproved    = "approved"
	NotificationDeclined    = "declined"
	NotificationRescheduled = "rescheduled"

	// RecipientAdmin is the shared inbox of every admin account.
	RecipientAdmin = "admin"
)

// DateLayout is the wire and storage format of booking and meeting dates.
const DateLayout = "2006-01-02"

const (
	// MaxUploadFiles is the number of images accepted by one upload request.
	MaxUploadFiles = 10

	// MaxUploadFileSizeMB caps each uploaded image.
	MaxUploadFileSizeMB = 50

	// DefaultInboxSize is how many notifications an inbox keeps.
	DefaultInboxSize = 50

	// AlertQueueSize is the buffer of the telegram alert worker.
	AlertQueueSize = 100
)
