// Package phone normalizes Ukrainian phone numbers to the +38 international form.
package phone

import (
	"regexp"
	"strings"

	"github.com/tartampluch/go-congrats/internal/config"
	"golang.org/x/text/width"
)

var (
	// sanitizer drops everything except digits and the plus sign.
	sanitizer = regexp.MustCompile(`[^+\d]`)

	// international matches an optional (+)38 prefix followed by the subscriber digits.
	international = regexp.MustCompile(`^(\+?38)?(\d+)$`)
)

// Normalize converts numbers such as "(050)123-32-34", "38050 111 22 11" or
// "+38(050)123-32-34" into "+380501233234".
// Full-width digits and plus signs are folded to ASCII first. Input that still
// does not look like a phone number after sanitizing is returned sanitized.
func Normalize(raw string) string {
	narrow := width.Narrow.String(raw)
	sanitized := sanitizer.ReplaceAllString(narrow, "")
	return international.ReplaceAllString(sanitized, config.PhoneCountryPrefix+"${2}")
}

// NormalizeAll normalizes each number, skipping blank entries.
func NormalizeAll(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		out = append(out, Normalize(r))
	}
	return out
}
