package dialogue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpeix-go/schedule-backend/internal/schedule"
	"github.com/mpeix-go/schedule-backend/internal/search"
)

type stubPeers struct {
	peer  Peer
	saved []Peer
}

func (s *stubPeers) GetByPlatformID(ctx context.Context, id PlatformID) (Peer, error) {
	return s.peer, nil
}

func (s *stubPeers) Save(ctx context.Context, peer Peer) error {
	s.peer = peer
	s.saved = append(s.saved, peer)
	return nil
}

type stubSchedule struct {
	sched schedule.Schedule
	err   error
}

func (s *stubSchedule) GetSchedule(ctx context.Context, rawName string, t schedule.Type, offset int32) (schedule.Schedule, error) {
	return s.sched, s.err
}

type stubSearch struct {
	results []search.Result
	err     error
}

func (s *stubSearch) Search(ctx context.Context, rawQuery string, t *schedule.Type) ([]search.Result, error) {
	return s.results, s.err
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func TestGenerateReply_NewPeerGetsStartGreetings(t *testing.T) {
	peers := &stubPeers{}
	svc := &Service{Peers: peers, Schedule: &stubSchedule{}, Search: &stubSearch{}}

	reply, err := svc.GenerateReply(context.Background(), PlatformID{ChatID: 1}, "старт")
	require.NoError(t, err)
	assert.Equal(t, ReplyStartGreetings, reply.Kind)
	assert.True(t, peers.peer.SelectingSchedule)
}

func TestGenerateReply_UnknownTextWhileSelectingTriggersSearch(t *testing.T) {
	peers := &stubPeers{peer: Peer{SelectingSchedule: true}}
	search := &stubSearch{results: []search.Result{{Name: "ИВТ-01-20", Type: schedule.Group}}}
	svc := &Service{Peers: peers, Schedule: &stubSchedule{}, Search: search}

	reply, err := svc.GenerateReply(context.Background(), PlatformID{ChatID: 1}, "ивт-01-20")
	require.NoError(t, err)
	assert.Equal(t, ReplyScheduleChangedSuccessfully, reply.Kind)
	assert.Equal(t, "ИВТ-01-20", reply.ScheduleName)
	assert.False(t, peers.peer.SelectingSchedule)
}

func TestGenerateReply_SearchWithNoExactMatchRanksResults(t *testing.T) {
	peers := &stubPeers{peer: Peer{SelectingSchedule: true}}
	search := &stubSearch{results: []search.Result{
		{Name: "Петров Иван", Type: schedule.Person},
		{Name: "Иванов Пётр", Type: schedule.Person},
	}}
	svc := &Service{Peers: peers, Schedule: &stubSchedule{}, Search: search}

	reply, err := svc.GenerateReply(context.Background(), PlatformID{ChatID: 1}, "иванов")
	require.NoError(t, err)
	assert.Equal(t, ReplyScheduleSearchResults, reply.Kind)
	require.Len(t, reply.SearchResults, 2)
	assert.Equal(t, "Иванов Пётр", reply.SearchResults[0])
	assert.True(t, reply.SearchResultsHasPerson)
}

func TestGenerateReply_SearchWithNoResults(t *testing.T) {
	peers := &stubPeers{peer: Peer{SelectingSchedule: true}}
	svc := &Service{Peers: peers, Schedule: &stubSchedule{}, Search: &stubSearch{}}

	reply, err := svc.GenerateReply(context.Background(), PlatformID{ChatID: 1}, "абракадабра")
	require.NoError(t, err)
	assert.Equal(t, ReplyCannotFindSchedule, reply.Kind)
}

func TestGenerateReply_WeekWithOffsetForStartedPeer(t *testing.T) {
	peers := &stubPeers{peer: Peer{SelectedSchedule: "ИВТ-01-20", SelectedScheduleType: schedule.Group}}
	sched := schedule.Schedule{
		ID: "1", Name: "ИВТ-01-20", Type: schedule.Group,
		Weeks: []schedule.Week{{WeekOfSemester: 3}},
	}
	svc := &Service{Peers: peers, Schedule: &stubSchedule{sched: sched}, Search: &stubSearch{}}

	reply, err := svc.GenerateReply(context.Background(), PlatformID{ChatID: 1}, "неделя")
	require.NoError(t, err)
	assert.Equal(t, ReplyWeek, reply.Kind)
	assert.Equal(t, int8(3), reply.Week.WeekOfSemester)
}

func TestGenerateReply_ChangeScheduleIntentMarksSelecting(t *testing.T) {
	peers := &stubPeers{peer: Peer{SelectedSchedule: "ИВТ-01-20", SelectedScheduleType: schedule.Group}}
	svc := &Service{Peers: peers, Schedule: &stubSchedule{}, Search: &stubSearch{}}

	reply, err := svc.GenerateReply(context.Background(), PlatformID{ChatID: 1}, "сменить")
	require.NoError(t, err)
	assert.Equal(t, ReplyReadyToChangeSchedule, reply.Kind)
	assert.True(t, peers.peer.SelectingSchedule)
}

func TestGenerateReply_UnknownCommandForStartedPeerNotSelecting(t *testing.T) {
	peers := &stubPeers{peer: Peer{SelectedSchedule: "ИВТ-01-20", SelectedScheduleType: schedule.Group}}
	svc := &Service{Peers: peers, Schedule: &stubSchedule{}, Search: &stubSearch{}, Now: fixedClock(time.Now())}

	reply, err := svc.GenerateReply(context.Background(), PlatformID{ChatID: 1}, "какая-то ерунда")
	require.NoError(t, err)
	assert.Equal(t, ReplyUnknownCommand, reply.Kind)
}
