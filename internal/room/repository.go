package room

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"roombooking/internal/apperr"
	"roombooking/pkg/db"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const roomColumns = `
id, name, COALESCE(description,''), room_type, capacity, COALESCE(facilities, '{}'), images,
COALESCE(layout_image,''), is_active, COALESCE(operating_hours, '{}'::jsonb), created_at, updated_at
`

func scanRoom(row pgx.Row) (*Room, error) {
	var rm Room
	var hours []byte
	if err := row.Scan(
		&rm.ID, &rm.Name, &rm.Description, &rm.RoomType, &rm.Capacity, &rm.Facilities, &rm.Images,
		&rm.LayoutImage, &rm.IsActive, &hours, &rm.CreatedAt, &rm.UpdatedAt,
	); err != nil {
		return nil, err
	}
	decodeHours(rm.ID, hours, &rm.OperatingHours)
	return &rm, nil
}

// decodeHours leaves dst zero when the stored value is unreadable. A bad
// value hides the hours but must not hide the room.
func decodeHours(roomID string, raw []byte, dst *OperatingHours) {
	if len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		*dst = OperatingHours{}
		logrus.WithError(err).WithField("room_id", roomID).Warn("room operating_hours unreadable")
	}
}

func (r *Repository) ListActive(ctx context.Context) ([]Room, error) {
	return r.list(ctx, `SELECT `+roomColumns+`
FROM rooms
WHERE is_active = TRUE
ORDER BY created_at ASC
`)
}

// ListAll includes inactive rooms; only staff screens use it.
func (r *Repository) ListAll(ctx context.Context) ([]Room, error) {
	return r.list(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY created_at ASC`)
}

func (r *Repository) list(ctx context.Context, q string) ([]Room, error) {
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	defer rows.Close()

	out := []Room{}
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, apperr.Unavailable(err)
		}
		out = append(out, *rm)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable(err)
	}
	return out, nil
}

// GetByID returns the room whether or not it is active; the submission flow
// decides what an inactive room means.
func (r *Repository) GetByID(ctx context.Context, id string) (*Room, error) {
	q := `SELECT ` + roomColumns + `
FROM rooms
WHERE id = $1
`
	rm, err := scanRoom(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || db.IsBadInput(err) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Unavailable(err)
	}
	return rm, nil
}

type CreateParams struct {
	Name           string
	Description    string
	RoomType       Type
	Capacity       int
	Facilities     []string
	Images         []string
	OperatingHours OperatingHours
}

// Create is used by the seeding tool; the HTTP surface never writes rooms.
func (r *Repository) Create(ctx context.Context, p CreateParams) (*Room, error) {
	hours, err := json.Marshal(p.OperatingHours)
	if err != nil {
		return nil, err
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	q := `
INSERT INTO rooms (name, description, room_type, capacity, facilities, images, operating_hours)
VALUES ($1, NULLIF($2,''), $3, $4, $5, $6, CAST($7 AS jsonb))
RETURNING ` + roomColumns
	rm, err := scanRoom(r.db.QueryRow(ctx, q, p.Name, p.Description, string(p.RoomType), p.Capacity, p.Facilities, p.Images, string(hours)))
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	return rm, nil
}

func (r *Repository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var ok bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rooms WHERE name = $1)`, name).Scan(&ok); err != nil {
		return false, apperr.Unavailable(err)
	}
	return ok, nil
}
