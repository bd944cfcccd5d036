package dialogue

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/mpeix-go/schedule-backend/internal/schedule"
	"github.com/mpeix-go/schedule-backend/pkg/apperrors"
)

type peerRow struct {
	ID                   int64  `db:"id"`
	SelectedSchedule     string `db:"selected_schedule"`
	SelectedScheduleType string `db:"selected_schedule_type"`
	SelectingSchedule    bool   `db:"selecting_schedule"`
}

func (r peerRow) toDomain() (Peer, error) {
	t := schedule.Group
	if r.SelectedSchedule != "" {
		parsed, err := schedule.ParseType(r.SelectedScheduleType)
		if err != nil {
			return Peer{}, apperrors.NewInternal("invalid schedule type in peer row", err)
		}
		t = parsed
	}
	return Peer{
		ID:                   r.ID,
		SelectedSchedule:     schedule.Name(r.SelectedSchedule),
		SelectedScheduleType: t,
		SelectingSchedule:    r.SelectingSchedule,
	}, nil
}

// PeerRepository persists one row per chat the bot talks to, grounded on
// original_source/crates/domain_bot/src/peer/repository.rs. Unlike the
// original's format!-built SQL, every statement here is parameterized (see
// DESIGN.md's "Deliberate deviations" entry).
type PeerRepository struct {
	db *sqlx.DB
}

// NewPeerRepository constructs a PeerRepository.
func NewPeerRepository(db *sqlx.DB) *PeerRepository {
	return &PeerRepository{db: db}
}

// Init creates the peer and peer_by_platform tables if they do not exist
// (spec.md §5's startup init()).
func (r *PeerRepository) Init(ctx context.Context) error {
	const peerTable = `CREATE TABLE IF NOT EXISTS peer (
		id BIGSERIAL PRIMARY KEY,
		selected_schedule TEXT NOT NULL DEFAULT '',
		selected_schedule_type TEXT NOT NULL DEFAULT '',
		selecting_schedule BOOLEAN NOT NULL DEFAULT FALSE
	)`
	const byPlatformTable = `CREATE TABLE IF NOT EXISTS peer_by_platform (
		platform TEXT NOT NULL,
		platform_id BIGINT NOT NULL,
		peer_id BIGINT NOT NULL REFERENCES peer(id),
		PRIMARY KEY (platform, platform_id)
	)`
	if _, err := r.db.ExecContext(ctx, peerTable); err != nil {
		return apperrors.NewInternal("create peer table", err)
	}
	if _, err := r.db.ExecContext(ctx, byPlatformTable); err != nil {
		return apperrors.NewInternal("create peer_by_platform table", err)
	}
	return nil
}

func platformName(p Platform) string {
	if p == PlatformVK {
		return "vk"
	}
	return "telegram"
}

// GetByPlatformID fetches the Peer for id, inserting a fresh row (and its
// platform mapping) on first contact.
func (r *PeerRepository) GetByPlatformID(ctx context.Context, id PlatformID) (Peer, error) {
	var row peerRow
	const selectStmt = `SELECT p.id, p.selected_schedule, p.selected_schedule_type, p.selecting_schedule
		FROM peer p JOIN peer_by_platform pp ON pp.peer_id = p.id
		WHERE pp.platform = $1 AND pp.platform_id = $2`
	err := r.db.GetContext(ctx, &row, selectStmt, platformName(id.Platform), id.ChatID)
	if err == nil {
		return row.toDomain()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return Peer{}, apperrors.NewInternal("begin peer insert tx", err)
	}
	defer tx.Rollback()

	const insertPeer = `INSERT INTO peer DEFAULT VALUES RETURNING id`
	var peerID int64
	if err := tx.GetContext(ctx, &peerID, insertPeer); err != nil {
		return Peer{}, apperrors.NewInternal("insert peer", err)
	}
	const insertMapping = `INSERT INTO peer_by_platform (platform, platform_id, peer_id) VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, insertMapping, platformName(id.Platform), id.ChatID, peerID); err != nil {
		return Peer{}, apperrors.NewInternal("insert peer_by_platform", err)
	}
	if err := tx.Commit(); err != nil {
		return Peer{}, apperrors.NewInternal("commit peer insert tx", err)
	}
	return Peer{ID: peerID, SelectedScheduleType: schedule.Group}, nil
}

// Save persists peer's mutable fields.
func (r *PeerRepository) Save(ctx context.Context, peer Peer) error {
	const stmt = `UPDATE peer SET selected_schedule = $1, selected_schedule_type = $2, selecting_schedule = $3 WHERE id = $4`
	_, err := r.db.ExecContext(ctx, stmt,
		peer.SelectedSchedule.String(), peer.SelectedScheduleType.String(), peer.SelectingSchedule, peer.ID)
	if err != nil {
		return apperrors.NewInternal("save peer", err)
	}
	return nil
}
