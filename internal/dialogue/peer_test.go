package dialogue

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeerRepository_Init(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPeerRepository(sqlx.NewDb(db, "sqlmock"))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS peer ").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS peer_by_platform").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Init(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPeerRepository_GetByPlatformID_ExistingRow(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPeerRepository(sqlx.NewDb(db, "sqlmock"))
	mock.ExpectQuery("SELECT p.id, p.selected_schedule").
		WithArgs("telegram", int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "selected_schedule", "selected_schedule_type", "selecting_schedule"}).
			AddRow(int64(7), "ИВТ-01-20", "group", false))

	peer, err := repo.GetByPlatformID(context.Background(), PlatformID{Platform: PlatformTelegram, ChatID: 42})
	require.NoError(t, err)
	assert.Equal(t, int64(7), peer.ID)
	assert.Equal(t, "ИВТ-01-20", peer.SelectedSchedule.String())
}

func TestPeerRepository_GetByPlatformID_InsertsOnFirstContact(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPeerRepository(sqlx.NewDb(db, "sqlmock"))
	mock.ExpectQuery("SELECT p.id, p.selected_schedule").
		WithArgs("vk", int64(9)).
		WillReturnError(assertErr{})

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO peer DEFAULT VALUES").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectExec("INSERT INTO peer_by_platform").
		WithArgs("vk", int64(9), int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	peer, err := repo.GetByPlatformID(context.Background(), PlatformID{Platform: PlatformVK, ChatID: 9})
	require.NoError(t, err)
	assert.Equal(t, int64(1), peer.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPeerRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPeerRepository(sqlx.NewDb(db, "sqlmock"))
	mock.ExpectExec("UPDATE peer SET").
		WithArgs("ИВТ-01-20", "group", true, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Save(context.Background(), Peer{ID: 1, SelectedSchedule: "ИВТ-01-20", SelectedScheduleType: 0, SelectingSchedule: true})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

type assertErr struct{}

func (assertErr) Error() string { return "not found" }
