package calendar

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/mpeix-go/schedule-backend/pkg/apperrors"
)

// defaultShiftTOML is the built-in fallback used when ConfigPath does not
// exist on disk, grounded on
// original_source/crates/domain_schedule_shift/src/lib.rs's
// res/default_schedule_shift.toml fixture (asserted by its own unit tests).
const defaultShiftTOML = `
[2021]
spring = { first-day = "2021-02-15", week-number = 0 }

[2023]
spring = { first-day = "2023-02-08", week-number = 0 }

[2025]
spring = { first-day = "2025-02-10", week-number = 1 }
`

type shiftRuleTOML struct {
	FirstDay   string `toml:"first-day"`
	WeekNumber *int8  `toml:"week-number"`
}

type semesterRulesTOML struct {
	Spring *shiftRuleTOML `toml:"spring"`
	Fall   *shiftRuleTOML `toml:"fall"`
}

type shiftKey struct {
	year     int
	semester Semester
}

// ShiftRepository is a 1-minute-TTL, lazily-reloaded view over the shift
// override file at ConfigPath, grounded on
// original_source/crates/domain_schedule/src/schedule_shift/repository.rs.
// A fsnotify watch invalidates the cache as soon as the file changes,
// rather than waiting out the full TTL.
type ShiftRepository struct {
	configPath string

	mu         sync.Mutex
	rules      map[shiftKey]ShiftRule
	loadedAt   time.Time
	ttl        time.Duration
	watcher    *fsnotify.Watcher
	invalidate bool
}

// NewShiftRepository builds a repository reading overrides from configPath.
// If configPath does not exist, Get falls back to defaultShiftTOML.
func NewShiftRepository(configPath string) *ShiftRepository {
	r := &ShiftRepository{
		configPath: configPath,
		ttl:        time.Minute,
	}
	r.startWatch()
	return r
}

// Close stops the filesystem watch, if any.
func (r *ShiftRepository) Close() error {
	if r.watcher != nil {
		return r.watcher.Close()
	}
	return nil
}

func (r *ShiftRepository) startWatch() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return
	}
	if err := watcher.Add(r.configPath); err != nil {
		_ = watcher.Close()
		return
	}
	r.watcher = watcher
	go func() {
		for {
			select {
			case _, ok := <-watcher.Events:
				if !ok {
					return
				}
				r.mu.Lock()
				r.invalidate = true
				r.mu.Unlock()
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
}

// Get resolves the override rule for (year, semester), reloading the
// backing file if the TTL has elapsed or a watched change occurred.
func (r *ShiftRepository) Get(year int, semester Semester) (ShiftRule, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rules == nil || r.invalidate || time.Since(r.loadedAt) >= r.ttl {
		rules, err := r.load()
		if err == nil {
			r.rules = rules
			r.loadedAt = time.Now()
			r.invalidate = false
		} else if r.rules == nil {
			r.rules = map[shiftKey]ShiftRule{}
		}
	}

	rule, ok := r.rules[shiftKey{year: year, semester: semester}]
	return rule, ok
}

func (r *ShiftRepository) load() (map[shiftKey]ShiftRule, error) {
	raw, err := os.ReadFile(r.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			raw = []byte(defaultShiftTOML)
		} else {
			return nil, apperrors.NewInternal("read shift config file", err)
		}
	}
	return parseShiftTOML(raw)
}

func parseShiftTOML(raw []byte) (map[shiftKey]ShiftRule, error) {
	var table map[string]semesterRulesTOML
	if err := toml.Unmarshal(raw, &table); err != nil {
		return nil, apperrors.NewInternal("parse shift config toml", err)
	}

	rules := make(map[shiftKey]ShiftRule, len(table)*2)
	for yearStr, semesterRules := range table {
		var year int
		if _, err := fmt.Sscanf(yearStr, "%d", &year); err != nil {
			return nil, apperrors.NewInternal(fmt.Sprintf("invalid shift config year key %q", yearStr), err)
		}

		for _, entry := range []struct {
			semester Semester
			rule     *shiftRuleTOML
		}{
			{Spring, semesterRules.Spring},
			{Fall, semesterRules.Fall},
		} {
			if entry.rule == nil {
				continue
			}
			if entry.rule.FirstDay == "" {
				return nil, apperrors.NewInternal(
					fmt.Sprintf("shift rule for %d %s semester missing required 'first-day' field", year, entry.semester), nil)
			}
			firstDay, err := time.Parse("2006-01-02", entry.rule.FirstDay)
			if err != nil {
				return nil, apperrors.NewInternal(
					fmt.Sprintf("shift rule for %d %s semester has invalid 'first-day' value %q", year, entry.semester, entry.rule.FirstDay), err)
			}
			if firstDay.Year() != year {
				return nil, apperrors.NewInternal(
					fmt.Sprintf("shift rule for %d %s semester has 'first-day' in a different year: %q", year, entry.semester, entry.rule.FirstDay), nil)
			}

			rules[shiftKey{year: year, semester: entry.semester}] = ShiftRule{
				FirstDay:   firstDay,
				WeekNumber: entry.rule.WeekNumber,
			}
		}
	}
	return rules, nil
}
