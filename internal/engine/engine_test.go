package engine_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/engine"
)

// -----------------------------------------------------------------------------
// Mocks & Helpers
// -----------------------------------------------------------------------------

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// countingClock records how often "today" was requested.
type countingClock struct {
	mu    sync.Mutex
	times []time.Time
	calls int
}

func (c *countingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.times[c.calls%len(c.times)]
	c.calls++
	return t
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// captureLogger returns a JSON logger writing into buf.
func captureLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// logLines decodes every JSON log line in buf.
func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func warnings(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range logLines(t, buf) {
		if l["level"] == "WARN" {
			out = append(out, l)
		}
	}
	return out
}

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func TestFilterUpcoming_HappyPath(t *testing.T) {
	// Scenario: Monday 2024-01-22, seven-day window.
	users := []engine.UserRecord{
		{Name: "Alice Adams", Birthday: "1995.01.30"},   // in 8 days, outside
		{Name: "Jane Smith", Birthday: "1990.01.27"},    // Saturday, moved to Monday
		{Name: "John Doe", Birthday: "1985.01.23"},      // tomorrow
		{Name: "Charlie Clark", Birthday: "1987.01.22"}, // today
		{Name: "Emily Evans", Birthday: "1988.01.21"},   // yesterday, next one is 2025
		{Name: "Bob Brown", Birthday: "1985.01.01"},     // start of the year
	}

	got, err := engine.FilterUpcoming(users, day(2024, 1, 22), 7)

	require.NoError(t, err)
	assert.Equal(t, []engine.CongratulationEntry{
		{Name: "Charlie Clark", CongratulationDate: "2024.01.22"},
		{Name: "John Doe", CongratulationDate: "2024.01.23"},
		{Name: "Jane Smith", CongratulationDate: "2024.01.29"},
	}, got)
}

func TestFilterUpcoming_EmptyInput(t *testing.T) {
	got, err := engine.FilterUpcoming(nil, day(2024, 1, 22), 7)

	require.NoError(t, err)
	assert.NotNil(t, got, "Empty result should be an empty slice, not nil")
	assert.Empty(t, got)
}

func TestFilterUpcoming_YearBoundary(t *testing.T) {
	users := []engine.UserRecord{
		{Name: "Alice Adams", Birthday: "1995.01.01"},
		{Name: "Eve Evans", Birthday: "1990.12.31"},
		{Name: "Bob Brown", Birthday: "1990.12.25"},
		{Name: "Charlie Clark", Birthday: "1987.12.20"},
	}

	got, err := engine.FilterUpcoming(users, day(2024, 12, 31), 7)

	require.NoError(t, err)
	assert.Equal(t, []engine.CongratulationEntry{
		{Name: "Eve Evans", CongratulationDate: "2024.12.31"},
		{Name: "Alice Adams", CongratulationDate: "2025.01.01"},
	}, got)
}

func TestFilterUpcoming_LeapDay(t *testing.T) {
	users := []engine.UserRecord{
		{Name: "Leap Year Larry", Birthday: "1992.02.29"},
		{Name: "Normal Year Nancy", Birthday: "1993.02.28"},
	}

	tests := []struct {
		name  string
		today time.Time
		want  []engine.CongratulationEntry
	}{
		{
			name:  "Leap year keeps Feb 29",
			today: day(2024, 2, 28), // Wednesday
			want: []engine.CongratulationEntry{
				{Name: "Normal Year Nancy", CongratulationDate: "2024.02.28"},
				{Name: "Leap Year Larry", CongratulationDate: "2024.02.29"},
			},
		},
		{
			name:  "Common year moves to Mar 1",
			today: day(2023, 2, 28), // Tuesday
			want: []engine.CongratulationEntry{
				{Name: "Normal Year Nancy", CongratulationDate: "2023.02.28"},
				{Name: "Leap Year Larry", CongratulationDate: "2023.03.01"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.FilterUpcoming(users, tt.today, 7)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterUpcoming_WeekendShiftOverflowsWindow(t *testing.T) {
	// Thursday 2024-01-25 with a two-day window ends on Saturday 27th.
	// The Saturday birthday is inside the window and moves to Monday 29th,
	// two days past the window edge. This is expected.
	users := []engine.UserRecord{
		{Name: "Sat", Birthday: "1990.01.27"},
		{Name: "Sun", Birthday: "1990.01.28"}, // outside the raw window
	}

	got, err := engine.FilterUpcoming(users, day(2024, 1, 25), 2)

	require.NoError(t, err)
	assert.Equal(t, []engine.CongratulationEntry{
		{Name: "Sat", CongratulationDate: "2024.01.29"},
	}, got)
}

func TestFilterUpcoming_PassedSundayRollsToNextYear(t *testing.T) {
	// 2024-01-21 (Sunday) has passed relative to Monday 2024-01-22.
	// Its next occurrence (Tuesday 2025-01-21) only shows up with a wide window.
	users := []engine.UserRecord{{Name: "Emily Evans", Birthday: "1988.01.21"}}

	got, err := engine.FilterUpcoming(users, day(2024, 1, 22), 7)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = engine.FilterUpcoming(users, day(2024, 1, 22), 365)
	require.NoError(t, err)
	assert.Equal(t, []engine.CongratulationEntry{
		{Name: "Emily Evans", CongratulationDate: "2025.01.21"},
	}, got)
}

func TestFilterUpcoming_ZeroWindowIncludesToday(t *testing.T) {
	users := []engine.UserRecord{
		{Name: "Today", Birthday: "2000.01.22"},
		{Name: "Tomorrow", Birthday: "2000.01.23"},
	}

	got, err := engine.FilterUpcoming(users, day(2024, 1, 22), 0)

	require.NoError(t, err)
	assert.Equal(t, []engine.CongratulationEntry{
		{Name: "Today", CongratulationDate: "2024.01.22"},
	}, got)
}

func TestFilterUpcoming_StableOrderForTies(t *testing.T) {
	// Saturday, Sunday and Monday all land on Monday 2024-01-29.
	users := []engine.UserRecord{
		{Name: "Monday", Birthday: "1990.01.29"},
		{Name: "Saturday", Birthday: "1991.01.27"},
		{Name: "Sunday", Birthday: "1992.01.28"},
		{Name: "Duplicate", Birthday: "1993.01.29"},
		{Name: "Duplicate", Birthday: "1993.01.29"},
	}

	got, err := engine.FilterUpcoming(users, day(2024, 1, 25), 7)

	require.NoError(t, err)
	names := make([]string, 0, len(got))
	for _, e := range got {
		assert.Equal(t, "2024.01.29", e.CongratulationDate)
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Monday", "Saturday", "Sunday", "Duplicate", "Duplicate"}, names,
		"Equal dates must keep input order and duplicates are not collapsed")
}

func TestFilterUpcoming_ResultsSortedAndNotBeforeReference(t *testing.T) {
	ref := day(2024, 3, 10)
	var users []engine.UserRecord
	for offset := 40; offset >= -5; offset-- {
		d := ref.AddDate(-30, 0, offset)
		users = append(users, engine.UserRecord{Name: d.Format("Jan 2"), Birthday: d.Format(config.DateFormatRoster)})
	}

	got, err := engine.FilterUpcoming(users, ref, 30)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	var prev time.Time
	for _, e := range got {
		d, err := time.Parse(config.DateFormatRoster, e.CongratulationDate)
		require.NoError(t, err)
		assert.False(t, d.Before(ref), "%s precedes the reference date", e.CongratulationDate)
		assert.False(t, d.After(ref.AddDate(0, 0, 32)), "%s exceeds window plus shift", e.CongratulationDate)
		assert.False(t, d.Before(prev), "output must be sorted")
		assert.NotEqual(t, time.Saturday, d.Weekday())
		assert.NotEqual(t, time.Sunday, d.Weekday())
		prev = d
	}
}

func TestFilterUpcoming_IgnoresClockPartOfReference(t *testing.T) {
	users := []engine.UserRecord{{Name: "John Doe", Birthday: "1985.01.23"}}
	evening := time.Date(2024, 1, 23, 23, 59, 0, 0, time.UTC)

	got, err := engine.FilterUpcoming(users, evening, 0)

	require.NoError(t, err)
	assert.Equal(t, []engine.CongratulationEntry{{Name: "John Doe", CongratulationDate: "2024.01.23"}}, got)
}

func TestFilterUpcoming_NegativeWindow(t *testing.T) {
	got, err := engine.FilterUpcoming([]engine.UserRecord{{Name: "A", Birthday: "1990.01.01"}}, day(2024, 1, 1), -1)

	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrNegativeWindow)
	assert.Contains(t, err.Error(), "-1")
	assert.Nil(t, got)
}

func TestFilterUpcoming_DoesNotMutateInput(t *testing.T) {
	users := []engine.UserRecord{
		{Name: "B", Birthday: "1990.01.24"},
		{Name: "A", Birthday: "1990.01.23"},
	}
	snapshot := append([]engine.UserRecord(nil), users...)

	_, err := engine.FilterUpcoming(users, day(2024, 1, 22), 7)

	require.NoError(t, err)
	assert.Equal(t, snapshot, users)
}

func TestPlanner_MalformedRecordsAreLoggedAndSkipped(t *testing.T) {
	// Scenario: invalid birthdays must not affect the remaining records.
	var buf bytes.Buffer
	p := engine.NewPlanner(MockClock{CurrentTime: day(2024, 1, 22)})
	p.Logger = captureLogger(&buf)

	users := []engine.UserRecord{
		{Name: "John Doe", Birthday: "23.01.1985"}, // DD.MM.YYYY
		{Name: "John Doe", Birthday: "1985.01.23"},
		{Name: "", Birthday: "1985.01.24"},
		{Name: "Jane Doe", Birthday: ""},
	}

	got, err := p.Upcoming(users)

	require.NoError(t, err)
	assert.Equal(t, []engine.CongratulationEntry{{Name: "John Doe", CongratulationDate: "2024.01.23"}}, got)

	warns := warnings(t, &buf)
	require.Len(t, warns, 3, "One warning per dropped record")

	assert.Equal(t, config.MsgSkippedUser, warns[0]["msg"])
	assert.Equal(t, "John Doe", warns[0][config.LogKeyName])
	assert.Equal(t, config.CompEngine, warns[0][config.LogKeyComponent])
	assert.Contains(t, warns[0][config.LogKeyError], "unable to parse date")

	assert.Equal(t, config.MsgSkippedName, warns[1]["msg"])
	assert.Equal(t, config.FallbackName, warns[1][config.LogKeyName])

	assert.Equal(t, "Jane Doe", warns[2][config.LogKeyName])
}

func TestPlanner_LogsSummaryAtDebug(t *testing.T) {
	var buf bytes.Buffer
	p := engine.NewPlanner(MockClock{CurrentTime: day(2024, 1, 22)})
	p.Logger = captureLogger(&buf)

	_, err := p.Upcoming([]engine.UserRecord{
		{Name: "A", Birthday: "1990.01.23"},
		{Name: "B", Birthday: "bad"},
		{Name: "C", Birthday: "1990.06.01"},
	})
	require.NoError(t, err)

	var summary map[string]any
	for _, l := range logLines(t, &buf) {
		if l["msg"] == config.MsgFilterDone {
			summary = l
		}
	}
	require.NotNil(t, summary, "Summary line expected")
	assert.Equal(t, "DEBUG", summary["level"])
	assert.Equal(t, "2024.01.22", summary[config.LogKeyRefDate])

	stats, ok := summary[config.LogKeyStats].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 3, stats[config.LogKeyTotal])
	assert.EqualValues(t, 1, stats[config.LogKeyKept])
	assert.EqualValues(t, 1, stats[config.LogKeySkipped])
}

func TestPlanner_ReadsClockOnEveryCall(t *testing.T) {
	clock := &countingClock{times: []time.Time{day(2024, 1, 22), day(2024, 1, 29)}}
	p := engine.NewPlanner(clock)
	p.WindowDays = 365
	users := []engine.UserRecord{{Name: "John Doe", Birthday: "1985.01.23"}}

	first, err := p.Upcoming(users)
	require.NoError(t, err)
	second, err := p.Upcoming(users)
	require.NoError(t, err)

	assert.Equal(t, 2, clock.calls)
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, "2024.01.23", first[0].CongratulationDate)
	assert.Equal(t, "2025.01.23", second[0].CongratulationDate, "Second call must see the new date")
}

func TestPlanner_Defaults(t *testing.T) {
	p := engine.NewPlanner(nil)
	assert.Equal(t, config.DefaultWindowDays, p.WindowDays)

	// A nil clock falls back to the real one and must not panic.
	_, err := p.Upcoming(nil)
	assert.NoError(t, err)
}

func TestPlanner_NegativeWindow(t *testing.T) {
	p := &engine.Planner{Clock: MockClock{CurrentTime: day(2024, 1, 22)}, WindowDays: -3}

	_, err := p.Upcoming(nil)

	assert.ErrorIs(t, err, engine.ErrNegativeWindow)
}

func TestFilterUpcoming_ConcurrentCalls(t *testing.T) {
	users := []engine.UserRecord{
		{Name: "Charlie", Birthday: "1987.01.22"},
		{Name: "John", Birthday: "1985.01.23"},
		{Name: "Jane", Birthday: "1990.01.27"},
	}
	want := []engine.CongratulationEntry{
		{Name: "Charlie", CongratulationDate: "2024.01.22"},
		{Name: "John", CongratulationDate: "2024.01.23"},
		{Name: "Jane", CongratulationDate: "2024.01.29"},
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := engine.FilterUpcoming(users, day(2024, 1, 22), 7)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}
