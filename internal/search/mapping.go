package search

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mpeix-go/schedule-backend/internal/schedule"
)

var multiSpace = regexp.MustCompile(`\s{2,}`)

// mapFromUpstream converts raw upstream search hits into Results,
// collapsing whitespace runs in the label (spec.md §4.8, grounded on
// original_source/domain_schedule/src/search/mapping.rs).
func mapFromUpstream(raw []schedule.RawSearchResult) ([]Result, error) {
	out := make([]Result, 0, len(raw))
	for _, r := range raw {
		t, err := schedule.ParseType(r.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, Result{
			Name:        multiSpace.ReplaceAllString(r.Label, " "),
			Description: strings.TrimSpace(r.Description),
			ID:          strconv.FormatInt(r.ID, 10),
			Type:        t,
		})
	}
	return out, nil
}
