// Package search implements the search pipeline from spec.md §4.8, grounded
// on original_source/crates/domain_schedule/src/search/repository.rs
// (ScheduleSearchRepository). The original's raw SQL string concatenation
// for upsert/select is NOT replicated — this repository builds every
// statement with sqlx placeholders and bound args instead (see DESIGN.md's
// "Deliberate deviations" entry).
package search

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/mpeix-go/schedule-backend/internal/schedule"
	"github.com/mpeix-go/schedule-backend/pkg/apperrors"
)

// Result is one search hit (spec.md §3/§6's SearchResult).
type Result struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	ID          string        `json:"id"`
	Type        schedule.Type `json:"type"`
}

type resultRow struct {
	Name        string `db:"name"`
	Description string `db:"description"`
	RemoteID    string `db:"remote_id"`
	Type        string `db:"type"`
}

func (r resultRow) toDomain() (Result, error) {
	t, err := schedule.ParseType(r.Type)
	if err != nil {
		return Result{}, apperrors.NewInternal("invalid schedule type in search_results row", err)
	}
	return Result{Name: r.Name, Description: r.Description, ID: r.RemoteID, Type: t}, nil
}

// Repository persists and queries the relational search-results table that
// backs the search pipeline's fallback path.
type Repository struct {
	db *sqlx.DB
}

// NewRepository constructs a Repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Init creates the schedule_search_results table if it does not already
// exist (spec.md §5's startup init(), grounded on
// InitDomainScheduleUseCase::init).
func (r *Repository) Init(ctx context.Context) error {
	const stmt = `CREATE TABLE IF NOT EXISTS schedule_search_results (
		remote_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		type TEXT NOT NULL,
		PRIMARY KEY (remote_id, type)
	)`
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return apperrors.NewInternal("create schedule_search_results table", err)
	}
	return nil
}

// Upsert overwrites every given result by (remote_id, type) (spec.md §4.8:
// "Upsert is a full overwrite by id").
func (r *Repository) Upsert(ctx context.Context, results []Result) error {
	if len(results) == 0 {
		return nil
	}
	const stmt = `INSERT INTO schedule_search_results (remote_id, name, description, type)
		VALUES (:remote_id, :name, :description, :type)
		ON CONFLICT (remote_id, type) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description`

	rows := make([]resultRow, 0, len(results))
	for _, res := range results {
		rows = append(rows, resultRow{Name: res.Name, Description: res.Description, RemoteID: res.ID, Type: res.Type.String()})
	}
	if _, err := r.db.NamedExecContext(ctx, stmt, rows); err != nil {
		return apperrors.NewInternal("upsert schedule_search_results", err)
	}
	return nil
}

// Select returns every row whose name matches query (LIKE-style), scoped to
// t when it is non-nil, in a stable order (spec.md §4.8).
func (r *Repository) Select(ctx context.Context, query string, t *schedule.Type) ([]Result, error) {
	sqlStr := `SELECT remote_id, name, description, type FROM schedule_search_results
		WHERE name ILIKE '%' || $1 || '%'`
	args := []interface{}{query}
	if t != nil {
		sqlStr += " AND type = $2"
		args = append(args, t.String())
	}
	sqlStr += " ORDER BY remote_id"

	var rows []resultRow
	if err := r.db.SelectContext(ctx, &rows, sqlStr, args...); err != nil {
		return nil, apperrors.NewInternal("select schedule_search_results", err)
	}
	out := make([]Result, 0, len(rows))
	for _, row := range rows {
		res, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}
