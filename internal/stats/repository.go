package stats

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"roombooking/internal/apperr"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Load reads the raw dashboard counts. Monthly covers the last 12 months,
// Popular the top 5 rooms by non-cancelled bookings.
func (r *Repository) Load(ctx context.Context) (Raw, error) {
	raw := Raw{ByStatus: map[string]int{}}

	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return Raw{}, apperr.Unavailable(err)
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			rows.Close()
			return Raw{}, apperr.Unavailable(err)
		}
		raw.ByStatus[status] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Raw{}, apperr.Unavailable(err)
	}

	const qTotals = `
SELECT (SELECT COUNT(*) FROM rooms WHERE is_active = TRUE),
       (SELECT COUNT(*) FROM users)
`
	if err := r.db.QueryRow(ctx, qTotals).Scan(&raw.TotalRooms, &raw.TotalUsers); err != nil {
		return Raw{}, apperr.Unavailable(err)
	}

	const qMonthly = `
SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month, COUNT(*)
FROM bookings
WHERE created_at >= date_trunc('month', NOW()) - INTERVAL '11 months'
GROUP BY month
ORDER BY month ASC
`
	rows, err = r.db.Query(ctx, qMonthly)
	if err != nil {
		return Raw{}, apperr.Unavailable(err)
	}
	for rows.Next() {
		var m MonthCount
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			rows.Close()
			return Raw{}, apperr.Unavailable(err)
		}
		raw.Monthly = append(raw.Monthly, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Raw{}, apperr.Unavailable(err)
	}

	const qPopular = `
SELECT r.id, r.name, COUNT(b.id) AS n
FROM rooms r
JOIN bookings b ON b.room_id = r.id AND b.status <> 'cancelled'
GROUP BY r.id, r.name
ORDER BY n DESC, r.name ASC
LIMIT 5
`
	rows, err = r.db.Query(ctx, qPopular)
	if err != nil {
		return Raw{}, apperr.Unavailable(err)
	}
	defer rows.Close()
	for rows.Next() {
		var rc RoomCount
		if err := rows.Scan(&rc.RoomID, &rc.RoomName, &rc.Count); err != nil {
			return Raw{}, apperr.Unavailable(err)
		}
		raw.Popular = append(raw.Popular, rc)
	}
	if err := rows.Err(); err != nil {
		return Raw{}, apperr.Unavailable(err)
	}
	return raw, nil
}
