package skinlogrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/skinguide/internal/domain/skinlog"
	"github.com/yanqian/skinguide/pkg/util"
)

// PostgresRepository persists skin logs in the skin_logs table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const selectColumns = `id, user_id, logged_at, hydration, oiliness, has_breakouts, breakout_areas, notes, created_at, updated_at`

// Upsert inserts today's entry or replaces it on (user_id, logged_at) conflict.
func (r *PostgresRepository) Upsert(ctx context.Context, log skinlog.Log) (skinlog.Log, error) {
	loggedAt, err := time.Parse(util.DateLayout, log.LoggedAt)
	if err != nil {
		return skinlog.Log{}, err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO skin_logs (id, user_id, logged_at, hydration, oiliness, has_breakouts, breakout_areas, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT (user_id, logged_at) DO UPDATE SET
			hydration = EXCLUDED.hydration,
			oiliness = EXCLUDED.oiliness,
			has_breakouts = EXCLUDED.has_breakouts,
			breakout_areas = EXCLUDED.breakout_areas,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
		RETURNING `+selectColumns,
		log.ID, log.UserID, loggedAt, log.Hydration, log.Oiliness, log.HasBreakouts, log.BreakoutAreas, nullableText(log.Notes), log.UpdatedAt)
	return scanLog(row)
}

// ListSince fetches entries on or after since, newest first.
func (r *PostgresRepository) ListSince(ctx context.Context, userID string, since time.Time, limit int) ([]skinlog.Log, error) {
	query := `SELECT ` + selectColumns + `
		FROM skin_logs
		WHERE user_id = $1 AND logged_at >= $2
		ORDER BY logged_at DESC`
	args := []any{userID, util.StartOfDay(since)}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []skinlog.Log
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, log)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(row rowScanner) (skinlog.Log, error) {
	var (
		log       skinlog.Log
		loggedAt  time.Time
		hydration sql.NullInt32
		oiliness  sql.NullInt32
		notes     sql.NullString
		areas     []string
	)
	if err := row.Scan(&log.ID, &log.UserID, &loggedAt, &hydration, &oiliness, &log.HasBreakouts, &areas, &notes, &log.CreatedAt, &log.UpdatedAt); err != nil {
		return skinlog.Log{}, err
	}
	log.LoggedAt = util.FormatDate(loggedAt)
	if hydration.Valid {
		log.Hydration = skinlog.IntPtr(int(hydration.Int32))
	}
	if oiliness.Valid {
		log.Oiliness = skinlog.IntPtr(int(oiliness.Int32))
	}
	log.Notes = notes.String
	log.BreakoutAreas = areas
	log.CreatedAt = log.CreatedAt.UTC()
	log.UpdatedAt = log.UpdatedAt.UTC()
	return log, nil
}

func nullableText(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ skinlog.Repository = (*PostgresRepository)(nil)
