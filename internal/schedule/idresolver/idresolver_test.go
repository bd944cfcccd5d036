package idresolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpeix-go/schedule-backend/internal/cache/inmemory"
	"github.com/mpeix-go/schedule-backend/internal/schedule"
	"github.com/mpeix-go/schedule-backend/pkg/apperrors"
)

type stubSearcher struct {
	results []schedule.RawSearchResult
	err     error
	calls   int
}

func (s *stubSearcher) Search(ctx context.Context, query string, t schedule.Type) ([]schedule.RawSearchResult, error) {
	s.calls++
	return s.results, s.err
}

func newResolver(api Searcher) *Resolver {
	return New(api, 10, inmemory.Policy{})
}

func TestGetID_CacheMissThenRemoteHit(t *testing.T) {
	api := &stubSearcher{results: []schedule.RawSearchResult{{ID: 42, Label: "А-01-22"}}}
	r := newResolver(api)

	id, err := r.GetID(context.Background(), schedule.Name("А-01-22"), schedule.Group)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, 1, api.calls)
}

func TestGetID_SecondCallHitsCache(t *testing.T) {
	api := &stubSearcher{results: []schedule.RawSearchResult{{ID: 42, Label: "А-01-22"}}}
	r := newResolver(api)

	_, err := r.GetID(context.Background(), schedule.Name("А-01-22"), schedule.Group)
	require.NoError(t, err)
	_, err = r.GetID(context.Background(), schedule.Name("А-01-22"), schedule.Group)
	require.NoError(t, err)
	assert.Equal(t, 1, api.calls, "second call must be served from cache")
}

func TestGetID_FuzzyEqualsIgnoresWhitespaceAndCase(t *testing.T) {
	api := &stubSearcher{results: []schedule.RawSearchResult{{ID: 7, Label: "иванов  иван"}}}
	r := newResolver(api)

	id, err := r.GetID(context.Background(), schedule.Name("Иванов Иван"), schedule.Person)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestGetID_LabelMismatchIsUserError(t *testing.T) {
	api := &stubSearcher{results: []schedule.RawSearchResult{{ID: 7, Label: "ФИТ-01-22"}}}
	r := newResolver(api)

	_, err := r.GetID(context.Background(), schedule.Name("А-01-22"), schedule.Group)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUser, apperrors.FromError(err).Kind)
}

func TestGetID_EmptyResultsIsUserError(t *testing.T) {
	api := &stubSearcher{results: nil}
	r := newResolver(api)

	_, err := r.GetID(context.Background(), schedule.Name("А-01-22"), schedule.Group)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUser, apperrors.FromError(err).Kind)
}
