package httpapi

import (
	"strconv"
	"strings"

	"github.com/mpeix-go/schedule-backend/internal/schedule"
)

// appVersion is a parsed X-App-Version header, grounded on
// original_source/crates/domain_mobile/src/app_version.rs's
// major.minor.patch AppVersion (including its Ord: major, then minor, then
// patch).
type appVersion struct {
	major, minor, patch int
	ok                  bool
}

// parseAppVersion accepts exactly "MAJOR.MINOR.PATCH", matching the
// original's FromStr (which rejects any other part count). A missing or
// malformed header yields a zero value with ok=false, which
// downgradeSchedule treats as "no downgrade".
func parseAppVersion(header string) appVersion {
	parts := strings.Split(header, ".")
	if len(parts) != 3 {
		return appVersion{}
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return appVersion{}
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return appVersion{}
	}
	patch, err := strconv.Atoi(parts[2])
	if err != nil {
		return appVersion{}
	}
	return appVersion{major: major, minor: minor, patch: patch, ok: true}
}

// less reports whether v orders strictly before other, comparing major,
// then minor, then patch in turn (the original's Ord impl).
func (v appVersion) less(other appVersion) bool {
	if v.major != other.major {
		return v.major < other.major
	}
	if v.minor != other.minor {
		return v.minor < other.minor
	}
	return v.patch < other.patch
}

// downgradeSchedule rewrites every Exam/Consultation class to Undefined
// when v orders before 2.0.0, per spec.md §6's client compatibility rule:
// older clients don't know how to render those two class kinds.
func downgradeSchedule(sched *schedule.Schedule, v appVersion) {
	if !v.ok || !v.less(appVersion{major: 2}) {
		return
	}
	for wi := range sched.Weeks {
		for di := range sched.Weeks[wi].Days {
			classes := sched.Weeks[wi].Days[di].Classes
			for ci := range classes {
				if classes[ci].Type == schedule.Exam || classes[ci].Type == schedule.Consultation {
					classes[ci].Type = schedule.Undefined
				}
			}
		}
	}
}
