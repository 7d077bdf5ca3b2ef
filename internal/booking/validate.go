package booking

import (
	"fmt"
	"strings"

	"roombooking/internal/apperr"
	"roombooking/internal/room"
)

// Validate checks a booking request against the target room. Checks run in a
// fixed order and the first failure is returned:
//  1. required fields present
//  2. dates and times well formed
//  3. start date not after end date
//  4. start time before end time
//  5. 1 <= attendees <= room capacity
//
// It does not look at other bookings; overlap is the store's concern.
func Validate(in Input, rm room.Room) error {
	required := []struct {
		field string
		value string
	}{
		{"startDate", in.StartDate},
		{"endDate", in.EndDate},
		{"startTime", in.StartTime},
		{"endTime", in.EndTime},
		{"eventName", in.EventName},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return missing(f.field)
		}
	}
	if in.AttendeesCount == nil {
		return missing("attendeesCount")
	}

	start, ok := parseDate(strings.TrimSpace(in.StartDate))
	if !ok {
		return invalidFormat("startDate", "YYYY-MM-DD")
	}
	end, ok := parseDate(strings.TrimSpace(in.EndDate))
	if !ok {
		return invalidFormat("endDate", "YYYY-MM-DD")
	}
	startTime, ok := parseClock(strings.TrimSpace(in.StartTime))
	if !ok {
		return invalidFormat("startTime", "HH:MM")
	}
	endTime, ok := parseClock(strings.TrimSpace(in.EndTime))
	if !ok {
		return invalidFormat("endTime", "HH:MM")
	}

	if start.After(end) {
		return &apperr.ValidationError{Code: apperr.CodeDateOrder, Field: "endDate", Message: "start date must not be after end date"}
	}
	if !startTime.Before(endTime) {
		return &apperr.ValidationError{Code: apperr.CodeTimeOrder, Field: "endTime", Message: "start time must be before end time"}
	}

	if n := *in.AttendeesCount; n < 1 || n > rm.Capacity {
		return &apperr.ValidationError{
			Code:    apperr.CodeCapacityExceeded,
			Field:   "attendeesCount",
			Message: fmt.Sprintf("attendees must be between 1 and %d", rm.Capacity),
		}
	}
	return nil
}

// normalize returns the slot of an already validated input.
func normalize(in Input) Slot {
	st, _ := parseClock(strings.TrimSpace(in.StartTime))
	et, _ := parseClock(strings.TrimSpace(in.EndTime))
	return Slot{
		StartDate: strings.TrimSpace(in.StartDate),
		EndDate:   strings.TrimSpace(in.EndDate),
		StartTime: st.Format(timeLayout),
		EndTime:   et.Format(timeLayout),
	}
}

func missing(field string) error {
	return &apperr.ValidationError{Code: apperr.CodeMissingField, Field: field, Message: "all fields are required"}
}

func invalidFormat(field, layout string) error {
	return &apperr.ValidationError{Code: apperr.CodeInvalidFormat, Field: field, Message: "expected " + layout}
}
