// Package stats builds the admin dashboard figures.
package stats

import (
	"github.com/shopspring/decimal"
)

type MonthCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

type RoomCount struct {
	RoomID   string `json:"roomId"`
	RoomName string `json:"roomName"`
	Count    int    `json:"count"`
}

// Raw is what the repository reads; Summarize derives the rest.
type Raw struct {
	ByStatus   map[string]int
	TotalRooms int
	TotalUsers int
	Monthly    []MonthCount
	Popular    []RoomCount
}

type Dashboard struct {
	TotalBookings     int          `json:"totalBookings"`
	PendingBookings   int          `json:"pendingBookings"`
	ApprovedBookings  int          `json:"approvedBookings"`
	RejectedBookings  int          `json:"rejectedBookings"`
	CancelledBookings int          `json:"cancelledBookings"`
	CompletedBookings int          `json:"completedBookings"`
	TotalRooms        int          `json:"totalRooms"`
	TotalUsers        int          `json:"totalUsers"`
	ApprovalRate      string       `json:"approvalRate"` // percent, 2 decimals
	BookingsPerMonth  []MonthCount `json:"bookingsPerMonth"`
	PopularRooms      []RoomCount  `json:"popularRooms"`
}

// Summarize folds raw counts into the dashboard. The approval rate counts
// completed bookings as approved and ignores requests nobody decided yet
// (pending) or that the requester withdrew (cancelled).
func Summarize(raw Raw) Dashboard {
	d := Dashboard{
		PendingBookings:   raw.ByStatus["pending"],
		ApprovedBookings:  raw.ByStatus["approved"],
		RejectedBookings:  raw.ByStatus["rejected"],
		CancelledBookings: raw.ByStatus["cancelled"],
		CompletedBookings: raw.ByStatus["completed"],
		TotalRooms:        raw.TotalRooms,
		TotalUsers:        raw.TotalUsers,
		BookingsPerMonth:  raw.Monthly,
		PopularRooms:      raw.Popular,
	}
	for _, n := range raw.ByStatus {
		d.TotalBookings += n
	}
	if d.BookingsPerMonth == nil {
		d.BookingsPerMonth = []MonthCount{}
	}
	if d.PopularRooms == nil {
		d.PopularRooms = []RoomCount{}
	}

	accepted := decimal.NewFromInt(int64(d.ApprovedBookings + d.CompletedBookings))
	decided := accepted.Add(decimal.NewFromInt(int64(d.RejectedBookings)))
	rate := decimal.Zero
	if !decided.IsZero() {
		rate = accepted.Mul(decimal.NewFromInt(100)).Div(decided)
	}
	d.ApprovalRate = rate.StringFixed(2)
	return d
}
