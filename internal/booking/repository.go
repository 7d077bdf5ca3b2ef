package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"roombooking/internal/apperr"
	"roombooking/internal/events"
	"roombooking/pkg/db"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const bookingColumns = `
id, user_id, room_id, start_date::text, end_date::text,
to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
event_name, COALESCE(event_description,''), attendees_count, status,
COALESCE(proposal_document,''), COALESCE(admin_notes,''), created_at, updated_at
`

// listColumns joins the room and requester so review screens can show who
// asked for which room without a lookup per row.
const listColumns = `
b.id, b.user_id, b.room_id, b.start_date::text, b.end_date::text,
to_char(b.start_time, 'HH24:MI'), to_char(b.end_time, 'HH24:MI'),
b.event_name, COALESCE(b.event_description,''), b.attendees_count, b.status,
COALESCE(b.proposal_document,''), COALESCE(b.admin_notes,''), b.created_at, b.updated_at,
r.name, r.room_type, u.full_name, u.email, COALESCE(u.institution,'')
`

const listFrom = `
FROM bookings b
JOIN rooms r ON r.id = b.room_id
JOIN users u ON u.id = b.user_id
`

func (b *Booking) dest() []any {
	return []any{
		&b.ID, &b.UserID, &b.RoomID, &b.StartDate, &b.EndDate,
		&b.StartTime, &b.EndTime,
		&b.EventName, &b.EventDescription, &b.AttendeesCount, &b.Status,
		&b.ProposalDocument, &b.AdminNotes, &b.CreatedAt, &b.UpdatedAt,
	}
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(b.dest()...); err != nil {
		return nil, err
	}
	return &b, nil
}

func scanListed(row pgx.Row) (*Booking, error) {
	b := Booking{Room: &RoomSummary{}, Requester: &RequesterSummary{}}
	dest := append(b.dest(),
		&b.Room.Name, &b.Room.RoomType,
		&b.Requester.FullName, &b.Requester.Email, &b.Requester.Institution,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &b, nil
}

func collect(rows pgx.Rows, scan func(pgx.Row) (*Booking, error)) ([]Booking, error) {
	defer rows.Close()
	out := []Booking{}
	for rows.Next() {
		b, err := scan(rows)
		if err != nil {
			return nil, apperr.Unavailable(err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable(err)
	}
	return out, nil
}

// CreatePending serializes submissions per room with an advisory lock, so the
// overlap check and the insert see a consistent set of occupying bookings.
func (r *Repository) CreatePending(ctx context.Context, nb NewBooking) (*Booking, error) {
	var created *Booking
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := db.LockKey(ctx, tx, "room:"+nb.RoomID); err != nil {
			return apperr.Unavailable(err)
		}

		const overlapQ = `
SELECT EXISTS (
  SELECT 1 FROM bookings
  WHERE room_id = $1
    AND status IN ('pending', 'approved')
    AND start_date <= $3::date AND $2::date <= end_date
    AND start_time < $5::time AND $4::time < end_time
)
`
		var clash bool
		if err := tx.QueryRow(ctx, overlapQ,
			nb.RoomID, nb.Slot.StartDate, nb.Slot.EndDate, nb.Slot.StartTime, nb.Slot.EndTime,
		).Scan(&clash); err != nil {
			return apperr.Unavailable(err)
		}
		if clash {
			return apperr.ErrSlotConflict
		}

		q := `
INSERT INTO bookings (user_id, room_id, start_date, end_date, start_time, end_time,
                      event_name, event_description, attendees_count, status, proposal_document)
VALUES ($1, $2, $3::date, $4::date, $5::time, $6::time, $7, NULLIF($8,''), $9, 'pending', NULLIF($10,''))
RETURNING ` + bookingColumns
		b, err := scanBooking(tx.QueryRow(ctx, q,
			nb.UserID, nb.RoomID, nb.Slot.StartDate, nb.Slot.EndDate, nb.Slot.StartTime, nb.Slot.EndTime,
			nb.EventName, nb.EventDescription, nb.AttendeesCount, nb.ProposalDocument,
		))
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				if pgErr.ConstraintName == "bookings_user_id_fkey" {
					return apperr.ErrIncompleteProfile
				}
				return apperr.ErrRoomNotFound
			}
			return apperr.Unavailable(err)
		}

		data := map[string]any{"roomId": b.RoomID, "attendeesCount": b.AttendeesCount}
		if b.ProposalDocument != "" {
			data["proposalDocument"] = b.ProposalDocument
		}
		if err := events.Insert(ctx, tx, b.ID, events.TypeSubmitted, "Booking submitted: "+b.EventName, "user:"+b.UserID, b.CreatedAt, data); err != nil {
			return apperr.Unavailable(err)
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || db.IsBadInput(err) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Unavailable(err)
	}
	return b, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	q := `SELECT ` + listColumns + listFrom + `WHERE b.user_id = $1 ORDER BY b.created_at DESC`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	out, err := collect(rows, scanListed)
	if err != nil && db.IsBadInput(err) {
		return []Booking{}, nil
	}
	return out, err
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Booking, error) {
	q := `SELECT ` + listColumns + listFrom + `
WHERE ($1 = '' OR b.status = $1)
  AND ($2 = '' OR b.room_id::text = $2)
ORDER BY b.created_at DESC
`
	rows, err := r.db.Query(ctx, q, string(f.Status), f.RoomID)
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	return collect(rows, scanListed)
}

func (r *Repository) ListOccupying(ctx context.Context, roomID, date string) ([]Booking, error) {
	q := `SELECT ` + bookingColumns + `
FROM bookings
WHERE room_id = $1
  AND status IN ('pending', 'approved')
  AND start_date <= $2::date AND $2::date <= end_date
ORDER BY start_time ASC
`
	rows, err := r.db.Query(ctx, q, roomID, date)
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	return collect(rows, scanBooking)
}

// ListElapsedApproved compares against wall-clock time in before's location;
// booking dates and times carry no zone.
func (r *Repository) ListElapsedApproved(ctx context.Context, before time.Time) ([]Booking, error) {
	q := `SELECT ` + bookingColumns + `
FROM bookings
WHERE status = 'approved'
  AND (end_date + end_time) < $1::timestamp
ORDER BY end_date ASC, end_time ASC
LIMIT 500
`
	rows, err := r.db.Query(ctx, q, before.Format("2006-01-02 15:04:05"))
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	return collect(rows, scanBooking)
}

// Transition applies p only if the row is still in p.From. Losing the race
// surfaces as ErrInvalidTransition.
func (r *Repository) Transition(ctx context.Context, p TransitionParams) (*Booking, error) {
	var updated *Booking
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		q := `
UPDATE bookings
SET status = $3, admin_notes = COALESCE($4, admin_notes), updated_at = NOW()
WHERE id = $1 AND status = $2
RETURNING ` + bookingColumns
		b, err := scanBooking(tx.QueryRow(ctx, q, p.ID, string(p.From), string(p.To), p.Note))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: booking %s is no longer %s", apperr.ErrInvalidTransition, p.ID, p.From)
			}
			return apperr.Unavailable(err)
		}

		data := map[string]any{"from": string(p.From), "to": string(p.To)}
		if p.Note != nil {
			data["note"] = *p.Note
		}
		summary := fmt.Sprintf("Status changed: %s -> %s", p.From, p.To)
		if err := events.Insert(ctx, tx, b.ID, events.TypeStatusChanged, summary, p.Actor, b.UpdatedAt, data); err != nil {
			return apperr.Unavailable(err)
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *Repository) Events(ctx context.Context, bookingID string) ([]events.Event, error) {
	out, err := events.ListByBooking(ctx, r.db, bookingID)
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	return out, nil
}
