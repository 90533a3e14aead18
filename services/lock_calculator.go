package services

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"survivor-league/models"
)

// LockHourPT is the hour (Pacific time) at which weekly pick'ems lock.
const LockHourPT = 17

// LockCalculator computes weekly pick'em lock instants
type LockCalculator struct {
	anchors map[int]time.Time
	pacific *time.Location
}

// NewLockCalculator parses week-1 anchor dates (YYYY-MM-DD). A nil map means
// models.SeasonWeekOneAnchors.
func NewLockCalculator(anchors map[int]string) (*LockCalculator, error) {
	if anchors == nil {
		anchors = models.SeasonWeekOneAnchors
	}

	pacific, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		return nil, fmt.Errorf("failed to load Pacific time zone: %w", err)
	}

	parsed := make(map[int]time.Time, len(anchors))
	for season, date := range anchors {
		day, err := time.ParseInLocation("2006-01-02", date, pacific)
		if err != nil {
			return nil, fmt.Errorf("invalid week-1 anchor %q for season %d: %w", date, season, err)
		}
		if day.Weekday() != time.Wednesday {
			return nil, fmt.Errorf("week-1 anchor %s for season %d is a %s, not a Wednesday", date, season, day.Weekday())
		}
		parsed[season] = day
	}

	return &LockCalculator{anchors: parsed, pacific: pacific}, nil
}

// WeeklyLockAt returns the UTC instant at which the given week locks: the
// season's week-1 Wednesday plus 7*(week-1) days, at 17:00 Pacific. Seasons
// without an anchor lock at the next Wednesday 17:00 Pacific at or after now.
func (l *LockCalculator) WeeklyLockAt(season, week int, now time.Time) time.Time {
	anchor, ok := l.anchors[season]
	if !ok {
		return l.nextWednesdayLock(now)
	}

	if week < 1 {
		week = 1
	}
	y, m, d := anchor.Date()
	return time.Date(y, m, d+7*(week-1), LockHourPT, 0, 0, 0, l.pacific).UTC()
}

// IsLocked reports whether now is at or past the week's lock
func (l *LockCalculator) IsLocked(season, week int, now time.Time) bool {
	return !now.Before(l.WeeklyLockAt(season, week, now))
}

// HasAnchor reports whether the season has a configured week-1 anchor
func (l *LockCalculator) HasAnchor(season int) bool {
	_, ok := l.anchors[season]
	return ok
}

// WeekAt returns the pick'em week whose lock is the first one after now, or 0
// when the season has no anchor.
func (l *LockCalculator) WeekAt(season int, now time.Time) int {
	if !l.HasAnchor(season) {
		return 0
	}
	week := 1
	for l.IsLocked(season, week, now) {
		week++
	}
	return week
}

func (l *LockCalculator) nextWednesdayLock(now time.Time) time.Time {
	local := now.In(l.pacific)
	days := (int(time.Wednesday) - int(local.Weekday()) + 7) % 7
	y, m, d := local.Date()

	lock := time.Date(y, m, d+days, LockHourPT, 0, 0, 0, l.pacific)
	if !now.Before(lock) {
		lock = time.Date(y, m, d+days+7, LockHourPT, 0, 0, 0, l.pacific)
	}
	return lock.UTC()
}
