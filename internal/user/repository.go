package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roombooking/internal/apperr"
	"roombooking/pkg/db"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

type CreateParams struct {
	ID          string
	Email       string
	FullName    string
	Phone       string
	Institution string
}

const profileColumns = `id, email, full_name, COALESCE(phone,''), COALESCE(institution,''), role, created_at, updated_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	pr := &Profile{}
	if err := row.Scan(
		&pr.ID, &pr.Email, &pr.FullName, &pr.Phone, &pr.Institution, &pr.Role, &pr.CreatedAt, &pr.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return pr, nil
}

// Create inserts a profile with role "user", or updates the contact fields of
// an existing one. Roles are granted out of band and never touched here.
func (r *Repository) Create(ctx context.Context, p CreateParams) (*Profile, error) {
	const q = `
INSERT INTO users (id, email, full_name, phone, institution, role)
VALUES ($1, $2, $3, NULLIF($4,''), NULLIF($5,''), 'user')
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  full_name = EXCLUDED.full_name,
  phone = EXCLUDED.phone,
  institution = EXCLUDED.institution,
  updated_at = NOW()
RETURNING ` + profileColumns
	pr, err := scanProfile(r.db.QueryRow(ctx, q, p.ID, p.Email, p.FullName, p.Phone, p.Institution))
	if err != nil {
		return nil, createError(err)
	}
	return pr, nil
}

// createError keeps a malformed id from looking like a retryable outage.
func createError(err error) error {
	if db.IsBadInput(err) {
		return &apperr.ValidationError{Code: apperr.CodeInvalidFormat, Field: "id", Message: "user id must be a uuid"}
	}
	return apperr.Unavailable(err)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM users WHERE id = $1`
	pr, err := scanProfile(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || db.IsBadInput(err) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Unavailable(err)
	}
	return pr, nil
}

// List returns every profile, newest first, for the staff user directory.
func (r *Repository) List(ctx context.Context) ([]Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	defer rows.Close()

	out := []Profile{}
	for rows.Next() {
		pr, err := scanProfile(rows)
		if err != nil {
			return nil, apperr.Unavailable(err)
		}
		out = append(out, *pr)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable(err)
	}
	return out, nil
}
