package notification

import (
	"context"

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

func (r *Repository) Notify(ctx context.Context, n New) error {
	const q = `
INSERT INTO notifications (user_id, title, message, type)
VALUES ($1, $2, $3, $4)
`
	if _, err := r.db.Exec(ctx, q, n.UserID, n.Title, n.Message, string(n.Type)); err != nil {
		return apperr.Unavailable(err)
	}
	return nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]Notification, error) {
	const q = `
SELECT id, user_id, title, message, type, is_read, created_at
FROM notifications
WHERE user_id = $1 AND ($2 = FALSE OR is_read = FALSE)
ORDER BY created_at DESC
LIMIT 100
`
	rows, err := r.db.Query(ctx, q, userID, unreadOnly)
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	defer rows.Close()

	out := []Notification{}
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, apperr.Unavailable(err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable(err)
	}
	return out, nil
}

// MarkRead is scoped to the owner; another user's id reads as not found.
func (r *Repository) MarkRead(ctx context.Context, userID, id string) error {
	const q = `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, q, id, userID)
	if err != nil {
		if db.IsBadInput(err) {
			return apperr.ErrNotFound
		}
		return apperr.Unavailable(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
