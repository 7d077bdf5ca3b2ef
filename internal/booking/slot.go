package booking

import "time"

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Slot is a booking's footprint on a room: every day from StartDate through
// EndDate, between StartTime and EndTime. Fields are normalized
// (zero-padded YYYY-MM-DD and HH:MM), so lexical order equals time order.
type Slot struct {
	StartDate string
	EndDate   string
	StartTime string
	EndTime   string
}

// Overlaps reports whether the two slots share any instant: their date ranges
// intersect (inclusive) and their daily windows intersect (half-open).
func (s Slot) Overlaps(o Slot) bool {
	return s.StartDate <= o.EndDate && o.StartDate <= s.EndDate &&
		s.StartTime < o.EndTime && o.StartTime < s.EndTime
}

// CoversDate reports whether date (YYYY-MM-DD) falls inside the slot's range.
func (s Slot) CoversDate(date string) bool {
	return s.StartDate <= date && date <= s.EndDate
}

// EndsAt is the instant the slot's final day window closes, in loc.
func (s Slot) EndsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout+" "+timeLayout, s.EndDate+" "+s.EndTime, loc)
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	return t, err == nil
}

// parseClock accepts HH:MM and HH:MM:SS (browsers send either). Seconds are
// dropped so that validation and storage agree.
func parseClock(s string) (time.Time, bool) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t.Truncate(time.Minute), true
	}
	return time.Time{}, false
}
