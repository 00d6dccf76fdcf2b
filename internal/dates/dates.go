// Package dates holds small calendar helpers shared by the CLI commands.
package dates

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-congrats/internal/config"
)

// DaysSince returns the number of calendar days from value (YYYY-MM-DD) to today.
// The result is positive for past dates, negative for future dates and zero for today.
func DaysSince(value string, today time.Time) (int, error) {
	target, err := time.Parse(config.DateFormatISO, value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", config.ErrDateParse, err)
	}

	y, m, d := today.Date()
	todayDate := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	// Both values are UTC midnights. Unix seconds avoid the ~292 year time.Duration limit.
	return int((todayDate.Unix() - target.Unix()) / config.SecondsPerDay), nil
}
