package booking

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusApproved},
		{StatusPending, StatusRejected},
		{StatusPending, StatusCancelled},
		{StatusApproved, StatusCompleted},
		{StatusApproved, StatusCancelled},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to Status }{
		{StatusPending, StatusCompleted},
		{StatusApproved, StatusApproved},
		{StatusApproved, StatusRejected},
		{StatusRejected, StatusApproved},
		{StatusCancelled, StatusPending},
		{StatusCancelled, StatusApproved},
		{StatusCancelled, StatusRejected},
		{StatusCompleted, StatusCancelled},
		{Status("bogus"), StatusApproved},
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}

func TestTerminalAndOccupying(t *testing.T) {
	for _, s := range []Status{StatusRejected, StatusCompleted, StatusCancelled} {
		if !s.Terminal() {
			t.Fatalf("expected %s terminal", s)
		}
		if s.Occupying() {
			t.Fatalf("expected %s not to occupy", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusApproved} {
		if s.Terminal() {
			t.Fatalf("expected %s non-terminal", s)
		}
		if !s.Occupying() {
			t.Fatalf("expected %s to occupy", s)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("approved"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseStatus("APPROVED"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSlotOverlaps(t *testing.T) {
	base := Slot{StartDate: "2024-07-01", EndDate: "2024-07-03", StartTime: "09:00", EndTime: "11:00"}
	cases := []struct {
		name string
		o    Slot
		want bool
	}{
		{"identical", base, true},
		{"inner window", Slot{"2024-07-02", "2024-07-02", "09:30", "10:00"}, true},
		{"shares last day", Slot{"2024-07-03", "2024-07-05", "10:00", "12:00"}, true},
		{"back to back", Slot{"2024-07-01", "2024-07-01", "11:00", "12:00"}, false},
		{"ends at start", Slot{"2024-07-01", "2024-07-01", "08:00", "09:00"}, false},
		{"later days", Slot{"2024-07-04", "2024-07-06", "09:00", "11:00"}, false},
		{"same days other hours", Slot{"2024-07-01", "2024-07-03", "13:00", "15:00"}, false},
	}
	for _, tc := range cases {
		if got := base.Overlaps(tc.o); got != tc.want {
			t.Fatalf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}
		if got := tc.o.Overlaps(base); got != tc.want {
			t.Fatalf("%s: Overlaps not symmetric", tc.name)
		}
	}
}

func TestSlotEndsAt(t *testing.T) {
	s := Slot{StartDate: "2024-07-01", EndDate: "2024-07-03", StartTime: "09:00", EndTime: "11:30"}
	got, err := s.EndsAt(time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 7, 3, 11, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if !s.CoversDate("2024-07-02") || s.CoversDate("2024-07-04") {
		t.Fatalf("CoversDate mismatch")
	}
}
