package notification

import "fmt"

// ForStatusChange builds the notification sent to a booking owner when staff
// act on their request. ok is false for changes that notify nobody.
func ForStatusChange(userID, eventName, status, note string) (New, bool) {
	var n New
	switch status {
	case "approved":
		n = New{Type: TypeBookingApproved, Title: "Booking approved",
			Message: fmt.Sprintf("Your booking for %q has been approved.", eventName)}
	case "rejected":
		n = New{Type: TypeBookingRejected, Title: "Booking rejected",
			Message: fmt.Sprintf("Your booking for %q has been rejected.", eventName)}
	case "cancelled":
		n = New{Type: TypeBookingCancelled, Title: "Booking cancelled",
			Message: fmt.Sprintf("Your booking for %q has been cancelled by staff.", eventName)}
	default:
		return New{}, false
	}
	if note != "" {
		n.Message += " Note: " + note
	}
	n.UserID = userID
	return n, true
}
