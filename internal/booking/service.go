package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"roombooking/internal/apperr"
	"roombooking/internal/document"
	"roombooking/internal/events"
	"roombooking/internal/notification"
	"roombooking/internal/room"
	"roombooking/internal/user"
)

// Store persists bookings. Implementations must make CreatePending atomic
// with its overlap check and Transition a compare-and-swap on status.
type Store interface {
	CreatePending(ctx context.Context, nb NewBooking) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByUser(ctx context.Context, userID string) ([]Booking, error)
	List(ctx context.Context, f ListFilter) ([]Booking, error)
	ListOccupying(ctx context.Context, roomID, date string) ([]Booking, error)
	ListElapsedApproved(ctx context.Context, before time.Time) ([]Booking, error)
	Transition(ctx context.Context, p TransitionParams) (*Booking, error)
	Events(ctx context.Context, bookingID string) ([]events.Event, error)
}

type Profiles interface {
	GetByID(ctx context.Context, id string) (*user.Profile, error)
}

type Documents interface {
	Upload(ctx context.Context, userID string, f document.File) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, n notification.New) error
}

type Deps struct {
	Store     Store
	Rooms     room.Catalog
	Profiles  Profiles
	Documents Documents // optional
	Notifier  Notifier  // optional
	// Location interprets booking dates and times; defaults to time.Local.
	Location *time.Location
}

type Service struct {
	store     Store
	rooms     room.Catalog
	profiles  Profiles
	documents Documents
	notifier  Notifier
	loc       *time.Location
}

func NewService(d Deps) *Service {
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		store:     d.Store,
		rooms:     d.Rooms,
		profiles:  d.Profiles,
		documents: d.Documents,
		notifier:  d.Notifier,
		loc:       loc,
	}
}

type SubmitResult struct {
	Booking *Booking
	// DocumentErr is set (wrapping apperr.ErrDocumentUploadFailed) when a
	// document was supplied but could not be stored. The booking exists anyway.
	DocumentErr error
}

// Submit creates a pending booking for userID. doc may be nil.
func (s *Service) Submit(ctx context.Context, userID, roomID string, in Input, doc *document.File) (*SubmitResult, error) {
	if _, err := s.profiles.GetByID(ctx, userID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrIncompleteProfile
		}
		return nil, err
	}

	rm, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrRoomNotFound
		}
		return nil, err
	}
	if !rm.IsActive {
		return nil, apperr.ErrRoomNotFound
	}

	if err := Validate(in, *rm); err != nil {
		return nil, err
	}

	log := logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": roomID})
	res := &SubmitResult{}

	var proposalURL string
	if doc != nil && s.documents != nil {
		proposalURL, err = s.documents.Upload(ctx, userID, *doc)
		if err != nil {
			log.WithError(err).WithField("file", doc.Name).Warn("proposal upload failed; booking continues without document")
			res.DocumentErr = fmt.Errorf("%w: %w", apperr.ErrDocumentUploadFailed, err)
			proposalURL = ""
		}
	} else if doc != nil {
		res.DocumentErr = fmt.Errorf("%w: no document storage configured", apperr.ErrDocumentUploadFailed)
	}

	b, err := s.store.CreatePending(ctx, NewBooking{
		UserID:           userID,
		RoomID:           rm.ID,
		Slot:             normalize(in),
		EventName:        strings.TrimSpace(in.EventName),
		EventDescription: strings.TrimSpace(in.EventDescription),
		AttendeesCount:   *in.AttendeesCount,
		ProposalDocument: proposalURL,
	})
	if err != nil {
		return nil, err
	}

	log.WithField("booking_id", b.ID).Info("booking submitted")
	res.Booking = b
	return res, nil
}

// Approve moves a pending booking to approved. Staff only.
func (s *Service) Approve(ctx context.Context, actor user.Actor, id, note string) (*Booking, error) {
	if !actor.IsStaff() {
		return nil, apperr.ErrForbidden
	}
	return s.transition(ctx, actor, id, StatusApproved, notePtr(note))
}

// Reject moves a pending booking to rejected. Staff only.
func (s *Service) Reject(ctx context.Context, actor user.Actor, id, note string) (*Booking, error) {
	if !actor.IsStaff() {
		return nil, apperr.ErrForbidden
	}
	return s.transition(ctx, actor, id, StatusRejected, notePtr(note))
}

// Cancel is allowed for the owner or staff, from pending or approved.
func (s *Service) Cancel(ctx context.Context, actor user.Actor, id string) (*Booking, error) {
	return s.transition(ctx, actor, id, StatusCancelled, nil)
}

func (s *Service) transition(ctx context.Context, actor user.Actor, id string, to Status, note *string) (*Booking, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != actor.UserID && !actor.IsStaff() {
		return nil, apperr.ErrNotFound
	}
	if !CanTransition(b.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", apperr.ErrInvalidTransition, b.Status, to)
	}

	updated, err := s.store.Transition(ctx, TransitionParams{
		ID:    b.ID,
		From:  b.Status,
		To:    to,
		Note:  note,
		Actor: actorLabel(actor, b),
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"from":       b.Status,
		"to":         to,
		"actor":      actor.UserID,
	}).Info("booking status changed")

	if actor.UserID != b.UserID {
		s.notify(ctx, updated)
	}
	return updated, nil
}

// CompleteElapsed moves approved bookings whose final window closed before now
// to completed. It returns how many were moved.
func (s *Service) CompleteElapsed(ctx context.Context, now time.Time) (int, error) {
	due, err := s.store.ListElapsedApproved(ctx, now.In(s.loc))
	if err != nil {
		return 0, err
	}

	done := 0
	for _, b := range due {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		_, err := s.store.Transition(ctx, TransitionParams{ID: b.ID, From: StatusApproved, To: StatusCompleted, Actor: "system"})
		if err != nil {
			// Cancelled in the meantime: the CAS lost, nothing to do.
			if errors.Is(err, apperr.ErrInvalidTransition) {
				continue
			}
			logrus.WithError(err).WithField("booking_id", b.ID).Error("complete booking failed")
			continue
		}
		done++
	}
	return done, nil
}

// Get returns a booking visible to actor: their own, or any for staff.
func (s *Service) Get(ctx context.Context, actor user.Actor, id string) (*Booking, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != actor.UserID && !actor.IsStaff() {
		return nil, apperr.ErrNotFound
	}
	return b, nil
}

func (s *Service) ListMine(ctx context.Context, actor user.Actor) ([]Booking, error) {
	return s.store.ListByUser(ctx, actor.UserID)
}

// ListAll is the staff review queue, optionally filtered by status.
func (s *Service) ListAll(ctx context.Context, actor user.Actor, f ListFilter) ([]Booking, error) {
	if !actor.IsStaff() {
		return nil, apperr.ErrForbidden
	}
	return s.store.List(ctx, f)
}

func (s *Service) Events(ctx context.Context, actor user.Actor, id string) ([]events.Event, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.store.Events(ctx, id)
}

// Availability lists the bookings holding roomID on date (YYYY-MM-DD).
func (s *Service) Availability(ctx context.Context, roomID, date string) ([]Slot, error) {
	if _, ok := parseDate(date); !ok {
		return nil, invalidFormat("date", "YYYY-MM-DD")
	}
	rm, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrRoomNotFound
		}
		return nil, err
	}
	if !rm.IsActive {
		return nil, apperr.ErrRoomNotFound
	}

	bs, err := s.store.ListOccupying(ctx, roomID, date)
	if err != nil {
		return nil, err
	}
	out := make([]Slot, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.Slot())
	}
	return out, nil
}

func (s *Service) notify(ctx context.Context, b *Booking) {
	if s.notifier == nil {
		return
	}
	n, ok := notification.ForStatusChange(b.UserID, b.EventName, string(b.Status), b.AdminNotes)
	if !ok {
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		logrus.WithError(err).WithField("booking_id", b.ID).Warn("notification insert failed")
	}
}

func actorLabel(a user.Actor, b *Booking) string {
	if a.UserID == b.UserID {
		return "user:" + a.UserID
	}
	return string(a.Role) + ":" + a.UserID
}

func notePtr(note string) *string {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil
	}
	return &note
}
