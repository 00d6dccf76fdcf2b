package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-congrats/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"BinaryName", config.BinaryName},
		{"Version", config.Version},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"FallbackName", config.FallbackName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestDefaults_Sanity checks that default values make sense logically.
func TestDefaults_Sanity(t *testing.T) {
	assert.Equal(t, 7, config.DefaultWindowDays)
	assert.Equal(t, 2000, config.DefaultLeapYear, "Default leap year must be 2000 for consistency")
	assert.Less(t, config.LotteryMinNumber, config.LotteryMaxNumber)
	assert.Equal(t, 2, config.ShiftSaturday)
	assert.Equal(t, 1, config.ShiftSunday)
}

// TestDateLayouts verifies the roster layout round-trips and stays strict.
func TestDateLayouts(t *testing.T) {
	d := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024.01.05", d.Format(config.DateFormatRoster))
	assert.Equal(t, "2024-01-05", d.Format(config.DateFormatISO))

	_, err := time.Parse(config.DateFormatRoster, "2024.1.5")
	assert.Error(t, err, "Single-digit month/day must be rejected")
}

// TestStubVCalendar ensures the empty calendar carries our PRODID.
func TestStubVCalendar(t *testing.T) {
	assert.Contains(t, config.StubVCalendar, "PRODID:"+config.ICalProdid)
	assert.Contains(t, config.StubVCalendar, "BEGIN:VCALENDAR")
	assert.Contains(t, config.StubVCalendar, "END:VCALENDAR")
}
