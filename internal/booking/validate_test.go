package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roombooking/internal/apperr"
	"roombooking/internal/room"
)

func intp(n int) *int { return &n }

func validInput() Input {
	return Input{
		StartDate:      "2024-07-01",
		EndDate:        "2024-07-01",
		StartTime:      "09:00",
		EndTime:        "11:00",
		EventName:      "Book Club",
		AttendeesCount: intp(20),
	}
}

func testRoom(capacity int) room.Room {
	return room.Room{ID: "room-1", Name: "Meeting Room", RoomType: room.TypeMeetingRoom, Capacity: capacity, IsActive: true}
}

func requireCode(t *testing.T, err error, code string) *apperr.ValidationError {
	t.Helper()
	ve, ok := apperr.AsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Equal(t, code, ve.Code)
	return ve
}

func TestValidate_AcceptsValidInput(t *testing.T) {
	cases := map[string]func(*Input){
		"single day":          func(in *Input) {},
		"multi day":           func(in *Input) { in.EndDate = "2024-07-03" },
		"at capacity":         func(in *Input) { in.AttendeesCount = intp(30) },
		"one attendee":        func(in *Input) { in.AttendeesCount = intp(1) },
		"seconds in times":    func(in *Input) { in.StartTime, in.EndTime = "09:00:00", "11:30:00" },
		"no description":      func(in *Input) { in.EventDescription = "" },
		"surrounding spaces":  func(in *Input) { in.StartDate = " 2024-07-01 " },
		"one minute window":   func(in *Input) { in.StartTime, in.EndTime = "10:00", "10:01" },
		"year boundary range": func(in *Input) { in.StartDate, in.EndDate = "2024-12-31", "2025-01-01" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			assert.NoError(t, Validate(in, testRoom(30)))
		})
	}
}

func TestValidate_MissingFields(t *testing.T) {
	cases := map[string]func(*Input){
		"startDate":      func(in *Input) { in.StartDate = "" },
		"endDate":        func(in *Input) { in.EndDate = "" },
		"startTime":      func(in *Input) { in.StartTime = "" },
		"endTime":        func(in *Input) { in.EndTime = "   " },
		"eventName":      func(in *Input) { in.EventName = "" },
		"attendeesCount": func(in *Input) { in.AttendeesCount = nil },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			ve := requireCode(t, Validate(in, testRoom(30)), apperr.CodeMissingField)
			assert.Equal(t, field, ve.Field)
		})
	}
}

func TestValidate_DateOrder(t *testing.T) {
	in := validInput()
	in.StartDate, in.EndDate = "2024-07-05", "2024-07-01"
	requireCode(t, Validate(in, testRoom(30)), apperr.CodeDateOrder)
}

func TestValidate_TimeOrder(t *testing.T) {
	for _, tc := range []struct{ start, end string }{
		{"14:00", "10:00"},
		{"10:00", "10:00"},
		{"10:00:30", "10:00:59"},
	} {
		in := validInput()
		in.StartTime, in.EndTime = tc.start, tc.end
		requireCode(t, Validate(in, testRoom(30)), apperr.CodeTimeOrder)
	}
}

func TestValidate_TimeOrderAppliesToMultiDayRanges(t *testing.T) {
	in := validInput()
	in.StartDate, in.EndDate = "2024-07-01", "2024-07-02"
	in.StartTime, in.EndTime = "22:00", "02:00"
	requireCode(t, Validate(in, testRoom(30)), apperr.CodeTimeOrder)
}

func TestValidate_Capacity(t *testing.T) {
	for _, n := range []int{0, -3, 31, 1000} {
		in := validInput()
		in.AttendeesCount = intp(n)
		requireCode(t, Validate(in, testRoom(30)), apperr.CodeCapacityExceeded)
	}
}

func TestValidate_InvalidFormat(t *testing.T) {
	cases := map[string]func(*Input){
		"startDate": func(in *Input) { in.StartDate = "07/01/2024" },
		"endDate":   func(in *Input) { in.EndDate = "2024-02-30" },
		"startTime": func(in *Input) { in.StartTime = "9am" },
		"endTime":   func(in *Input) { in.EndTime = "25:00" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			ve := requireCode(t, Validate(in, testRoom(30)), apperr.CodeInvalidFormat)
			assert.Equal(t, field, ve.Field)
		})
	}
}

func TestValidate_FirstFailureWins(t *testing.T) {
	// Every rule is broken; the missing field is reported.
	in := Input{StartDate: "2024-07-05", EndDate: "2024-07-01", StartTime: "14:00", EndTime: "10:00", AttendeesCount: intp(99)}
	requireCode(t, Validate(in, testRoom(30)), apperr.CodeMissingField)

	in.EventName = "Talk"
	requireCode(t, Validate(in, testRoom(30)), apperr.CodeDateOrder)

	in.EndDate = "2024-07-05"
	requireCode(t, Validate(in, testRoom(30)), apperr.CodeTimeOrder)

	in.EndTime = "16:00"
	requireCode(t, Validate(in, testRoom(30)), apperr.CodeCapacityExceeded)
}

func TestValidate_FormatCheckedBeforeOrder(t *testing.T) {
	in := validInput()
	in.StartDate, in.EndDate = "2024-05-10", "2024-05-09"
	in.StartTime = "9am"
	ve := requireCode(t, Validate(in, testRoom(30)), apperr.CodeInvalidFormat)
	assert.Equal(t, "startTime", ve.Field)

	in.StartTime = "09:00"
	in.EndTime = "10:61"
	ve = requireCode(t, Validate(in, testRoom(30)), apperr.CodeInvalidFormat)
	assert.Equal(t, "endTime", ve.Field)
}

// A same-day request within capacity is accepted.
func TestValidate_ValidSameDayRequest(t *testing.T) {
	in := Input{StartDate: "2024-07-01", EndDate: "2024-07-01", StartTime: "09:00", EndTime: "11:00", EventName: "Book Club", AttendeesCount: intp(20)}
	require.NoError(t, Validate(in, testRoom(30)))
}

// Reversed dates fail on the date rule.
func TestValidate_ReversedDates(t *testing.T) {
	in := Input{StartDate: "2024-07-05", EndDate: "2024-07-01", StartTime: "09:00", EndTime: "11:00", EventName: "Workshop", AttendeesCount: intp(10)}
	requireCode(t, Validate(in, testRoom(30)), apperr.CodeDateOrder)
}

// More attendees than the room holds.
func TestValidate_OverCapacity(t *testing.T) {
	in := Input{StartDate: "2024-07-01", EndDate: "2024-07-01", StartTime: "09:00", EndTime: "11:00", EventName: "Seminar", AttendeesCount: intp(25)}
	requireCode(t, Validate(in, testRoom(20)), apperr.CodeCapacityExceeded)
}

func TestNormalize_DropsSeconds(t *testing.T) {
	in := validInput()
	in.StartTime, in.EndTime = "09:15:42", "11:00:00"
	s := normalize(in)
	assert.Equal(t, "09:15", s.StartTime)
	assert.Equal(t, "11:00", s.EndTime)
}
