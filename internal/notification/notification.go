package notification

import "time"

type Type string

const (
	TypeBookingApproved  Type = "booking_approved"
	TypeBookingRejected  Type = "booking_rejected"
	TypeBookingCancelled Type = "booking_cancelled"
	TypeBookingReminder  Type = "booking_reminder"
)

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      Type      `json:"type"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

type New struct {
	UserID  string
	Title   string
	Message string
	Type    Type
}
