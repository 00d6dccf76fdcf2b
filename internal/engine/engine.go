package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/tartampluch/go-congrats/internal/config"
)

// ErrNegativeWindow is returned when the look-ahead window is below zero.
var ErrNegativeWindow = errors.New(config.ErrNegativeWindow)

// Planner computes upcoming congratulations relative to "today" as reported by its Clock.
type Planner struct {
	Clock Clock // Interface for time mocking.

	// WindowDays is the inclusive look-ahead. Zero means "today only".
	WindowDays int

	// Logger receives the per-record diagnostics. slog.Default() is used when nil.
	Logger *slog.Logger
}

// NewPlanner returns a Planner using the default seven-day window.
func NewPlanner(clock Clock) *Planner {
	return &Planner{
		Clock:      clock,
		WindowDays: config.DefaultWindowDays,
	}
}

// Upcoming filters users against the current date. The clock is read on every call.
func (p *Planner) Upcoming(users []UserRecord) ([]CongratulationEntry, error) {
	clock := p.Clock
	if clock == nil {
		clock = RealClock{}
	}
	return p.UpcomingFrom(users, clock.Now())
}

// UpcomingFrom filters users against an explicit reference date.
func (p *Planner) UpcomingFrom(users []UserRecord, referenceDate time.Time) ([]CongratulationEntry, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return filterUpcoming(logger, users, referenceDate, p.WindowDays)
}

// FilterUpcoming returns the users whose next birthday falls within
// [referenceDate, referenceDate+windowDays], sorted by congratulation date.
//
// Only the calendar date of referenceDate is used. Birthdays must be YYYY.MM.DD;
// anything else is logged at warning level and skipped. Feb 29 birthdays are
// celebrated on Mar 1 in common years. Dates falling on a weekend are moved to the
// following Monday after the window check, so results may lie up to two days past
// the window. Users with the same date keep their input order.
func FilterUpcoming(users []UserRecord, referenceDate time.Time, windowDays int) ([]CongratulationEntry, error) {
	return filterUpcoming(slog.Default(), users, referenceDate, windowDays)
}

// upcoming is the intermediate, not yet formatted result.
type upcoming struct {
	name string
	date time.Time
}

func filterUpcoming(logger *slog.Logger, users []UserRecord, referenceDate time.Time, windowDays int) ([]CongratulationEntry, error) {
	if windowDays < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeWindow, windowDays)
	}

	start := time.Now()
	log := logger.With(config.LogKeyComponent, config.CompEngine)

	today := calendarDate(referenceDate)
	last := today.AddDate(0, 0, windowDays)

	var kept []upcoming
	skipped := 0

	for i, u := range users {
		if strings.TrimSpace(u.Name) == "" {
			log.Warn(config.MsgSkippedName,
				config.LogKeyIndex, i,
				config.LogKeyName, config.FallbackName,
				config.LogKeyValue, u.Birthday)
			skipped++
			continue
		}

		birthday, err := parseBirthday(u.Birthday)
		if err != nil {
			// Log and continue to keep the rest of the roster usable
			log.Warn(config.MsgSkippedUser,
				config.LogKeyName, u.Name,
				config.LogKeyError, err)
			skipped++
			continue
		}

		occurrence := nextOccurrence(today, birthday)
		if occurrence.After(last) {
			continue
		}

		// Shifted after the window check, so the date may land past last.
		kept = append(kept, upcoming{name: u.Name, date: shiftWeekend(occurrence)})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].date.Before(kept[j].date)
	})

	entries := make([]CongratulationEntry, 0, len(kept))
	for _, k := range kept {
		entries = append(entries, CongratulationEntry{
			Name:               k.name,
			CongratulationDate: k.date.Format(config.DateFormatRoster),
		})
	}

	log.Debug(config.MsgFilterDone,
		config.LogKeyRefDate, today.Format(config.DateFormatRoster),
		config.LogKeyWindow, windowDays,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, len(users)),
			slog.Int(config.LogKeyKept, len(entries)),
			slog.Int(config.LogKeySkipped, skipped),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)

	return entries, nil
}

// IsLeapYear reports whether year is a leap year in the Gregorian calendar.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// calendarDate strips the clock part of t, keeping its local calendar date.
// Birthdays are calendar days: if it is June 15th where the caller lives,
// it is June 15th for the filter regardless of UTC.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// parseBirthday parses the strict roster layout YYYY.MM.DD.
func parseBirthday(value string) (time.Time, error) {
	t, err := time.Parse(config.DateFormatRoster, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", config.ErrDateParse, err)
	}
	return t, nil
}

// occurrenceIn returns the birthday's date in the given year.
// Leaplings are congratulated on March 1st in common years.
func occurrenceIn(year int, month time.Month, day int) time.Time {
	if month == time.February && day == 29 && !IsLeapYear(year) {
		return time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// nextOccurrence returns the first occurrence of birthday on or after today.
// The Feb 29 rule is evaluated again against the following year.
func nextOccurrence(today, birthday time.Time) time.Time {
	candidate := occurrenceIn(today.Year(), birthday.Month(), birthday.Day())
	if candidate.Before(today) {
		candidate = occurrenceIn(today.Year()+1, birthday.Month(), birthday.Day())
	}
	return candidate
}

// shiftWeekend moves Saturdays and Sundays to the following Monday.
func shiftWeekend(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, config.ShiftSaturday)
	case time.Sunday:
		return d.AddDate(0, 0, config.ShiftSunday)
	default:
		return d
	}
}
