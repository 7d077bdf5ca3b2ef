package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"roombooking/internal/apperr"
	"roombooking/internal/document"
	"roombooking/internal/events"
	"roombooking/internal/notification"
	"roombooking/internal/room"
	"roombooking/internal/user"
)

// memStore mirrors Repository semantics: the overlap check and insert happen
// under one lock, and Transition is a compare-and-swap on status.
type memStore struct {
	mu       sync.Mutex
	bookings map[string]*Booking
	events   map[string][]events.Event
	now      func() time.Time
	failWith error
	// joined stands in for the room and user joins of the list queries.
	joined func(*Booking)
}

func newMemStore() *memStore {
	return &memStore{
		bookings: map[string]*Booking{},
		events:   map[string][]events.Event{},
		now:      time.Now,
	}
}

func (m *memStore) CreatePending(_ context.Context, nb NewBooking) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, b := range m.bookings {
		if b.RoomID == nb.RoomID && b.Status.Occupying() && b.Slot().Overlaps(nb.Slot) {
			return nil, apperr.ErrSlotConflict
		}
	}
	now := m.now()
	b := &Booking{
		ID:               uuid.NewString(),
		UserID:           nb.UserID,
		RoomID:           nb.RoomID,
		StartDate:        nb.Slot.StartDate,
		EndDate:          nb.Slot.EndDate,
		StartTime:        nb.Slot.StartTime,
		EndTime:          nb.Slot.EndTime,
		EventName:        nb.EventName,
		EventDescription: nb.EventDescription,
		AttendeesCount:   nb.AttendeesCount,
		Status:           StatusPending,
		ProposalDocument: nb.ProposalDocument,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	m.bookings[b.ID] = b
	m.addEvent(b.ID, events.TypeSubmitted, "user:"+b.UserID, now)
	cp := *b
	return &cp, nil
}

func (m *memStore) addEvent(id, typ, actor string, at time.Time) {
	m.events[id] = append(m.events[id], events.Event{
		ID: uuid.NewString(), BookingID: id, EventType: typ, Actor: actor, OccurredAt: at,
	})
}

func (m *memStore) GetByID(_ context.Context, id string) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) filter(keep func(*Booking) bool) []Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Booking{}
	for _, b := range m.bookings {
		if keep(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memStore) withJoins(out []Booking) []Booking {
	if m.joined != nil {
		for i := range out {
			m.joined(&out[i])
		}
	}
	return out
}

func (m *memStore) ListByUser(_ context.Context, userID string) ([]Booking, error) {
	return m.withJoins(m.filter(func(b *Booking) bool { return b.UserID == userID })), nil
}

func (m *memStore) List(_ context.Context, f ListFilter) ([]Booking, error) {
	return m.withJoins(m.filter(func(b *Booking) bool {
		return (f.Status == "" || b.Status == f.Status) && (f.RoomID == "" || b.RoomID == f.RoomID)
	})), nil
}

func (m *memStore) ListOccupying(_ context.Context, roomID, date string) ([]Booking, error) {
	return m.filter(func(b *Booking) bool {
		return b.RoomID == roomID && b.Status.Occupying() && b.Slot().CoversDate(date)
	}), nil
}

func (m *memStore) ListElapsedApproved(_ context.Context, before time.Time) ([]Booking, error) {
	return m.filter(func(b *Booking) bool {
		end, err := b.Slot().EndsAt(before.Location())
		return err == nil && b.Status == StatusApproved && end.Before(before)
	}), nil
}

func (m *memStore) Transition(_ context.Context, p TransitionParams) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[p.ID]
	if !ok || b.Status != p.From {
		return nil, fmt.Errorf("%w: booking %s is no longer %s", apperr.ErrInvalidTransition, p.ID, p.From)
	}
	b.Status = p.To
	if p.Note != nil {
		b.AdminNotes = *p.Note
	}
	b.UpdatedAt = m.now()
	m.addEvent(b.ID, events.TypeStatusChanged, p.Actor, b.UpdatedAt)
	cp := *b
	return &cp, nil
}

func (m *memStore) Events(_ context.Context, id string) ([]events.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.Event(nil), m.events[id]...), nil
}

// set forces a booking into a status, bypassing the workflow.
func (m *memStore) set(id string, s Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[id].Status = s
}

type memRooms map[string]room.Room

func (r memRooms) ListActive(context.Context) ([]room.Room, error) {
	out := []room.Room{}
	for _, rm := range r {
		if rm.IsActive {
			out = append(out, rm)
		}
	}
	return out, nil
}

func (r memRooms) GetByID(_ context.Context, id string) (*room.Room, error) {
	rm, ok := r[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &rm, nil
}

type memProfiles map[string]user.Profile

func (p memProfiles) GetByID(_ context.Context, id string) (*user.Profile, error) {
	pr, ok := p[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &pr, nil
}

type fakeDocuments struct {
	err  error
	keys []string
}

func (d *fakeDocuments) Upload(_ context.Context, userID string, f document.File) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	if _, err := io.ReadAll(f.Body); err != nil {
		return "", err
	}
	d.keys = append(d.keys, userID+"/"+f.Name)
	return "https://files.example/" + userID + "/" + f.Name, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification.New
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, msg notification.New) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

var errBoom = errors.New("boom")
