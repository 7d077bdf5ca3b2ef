package booking

import "time"

type Booking struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	RoomID           string    `json:"roomId"`
	StartDate        string    `json:"startDate"` // YYYY-MM-DD
	EndDate          string    `json:"endDate"`
	StartTime        string    `json:"startTime"` // HH:MM
	EndTime          string    `json:"endTime"`
	EventName        string    `json:"eventName"`
	EventDescription string    `json:"eventDescription,omitempty"`
	AttendeesCount   int       `json:"attendeesCount"`
	Status           Status    `json:"status"`
	ProposalDocument string    `json:"proposalDocument,omitempty"`
	AdminNotes       string    `json:"adminNotes,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	// Room and Requester are filled by the list queries only.
	Room      *RoomSummary      `json:"room,omitempty"`
	Requester *RequesterSummary `json:"requester,omitempty"`
}

type RoomSummary struct {
	Name     string `json:"name"`
	RoomType string `json:"roomType"`
}

type RequesterSummary struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Institution string `json:"institution,omitempty"`
}

func (b Booking) Slot() Slot {
	return Slot{StartDate: b.StartDate, EndDate: b.EndDate, StartTime: b.StartTime, EndTime: b.EndTime}
}

// Input is the user-supplied part of a booking request.
type Input struct {
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
	EventName        string `json:"eventName"`
	EventDescription string `json:"eventDescription,omitempty"`
	AttendeesCount   *int   `json:"attendeesCount"`
}

// NewBooking is what the store persists for a validated submission.
type NewBooking struct {
	UserID           string
	RoomID           string
	Slot             Slot
	EventName        string
	EventDescription string
	AttendeesCount   int
	ProposalDocument string
}

type TransitionParams struct {
	ID    string
	From  Status
	To    Status
	Note  *string
	Actor string
}

type ListFilter struct {
	Status Status
	RoomID string
}
