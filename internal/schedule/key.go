package schedule

import (
	"fmt"
	"time"
)

// Key identifies one cached schedule: a normalized name, type and the
// Monday the week begins on (spec.md §3's CacheKey).
type Key struct {
	Name      Name
	Type      Type
	WeekStart time.Time
}

// String renders the on-disk / mediator storage key:
// "{year}/{type} {NAME} [{YYYY-MM-DD}].cache" (spec.md §6).
func (k Key) String() string {
	return fmt.Sprintf("%d/%s %s [%s].cache",
		k.WeekStart.Year(), k.Type.String(), k.Name.String(), k.WeekStart.Format("2006-01-02"))
}
