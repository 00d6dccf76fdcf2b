// Package roster loads user records from JSON, YAML and vCard files.
package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/engine"
	"gopkg.in/yaml.v3"
)

// Format identifies a roster encoding.
type Format string

const (
	FormatJSON  Format = config.FormatJSON
	FormatYAML  Format = config.FormatYAML
	FormatVCard Format = config.FormatVCard
)

// ErrUnsupportedFormat is returned for unknown extensions or format names.
var ErrUnsupportedFormat = errors.New(config.ErrRosterFormat)

// yamlDocument accepts a top-level "users" key in YAML rosters.
type yamlDocument struct {
	Users []engine.UserRecord `yaml:"users"`
}

// FormatFromPath infers the roster format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case config.ExtJSON:
		return FormatJSON, nil
	case config.ExtYAML, config.ExtYML:
		return FormatYAML, nil
	case config.ExtVCF, config.ExtVCard:
		return FormatVCard, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ParseFormat validates a user supplied format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatJSON, FormatYAML, FormatVCard:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Load reads the roster stored at path.
func Load(path string) ([]engine.UserRecord, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRosterOpen, err)
	}
	// Best effort close. Errors in Close() for read-only files are rarely actionable here.
	defer func() { _ = f.Close() }()

	users, err := Decode(f, format)
	if err != nil {
		return nil, err
	}

	slog.Debug(config.MsgRosterLoaded,
		config.LogKeyComponent, config.CompRoster,
		config.LogKeyFile, path,
		config.LogKeyFormat, string(format),
		config.LogKeyCount, len(users))
	return users, nil
}

// Decode reads a roster of the given format from r.
func Decode(r io.Reader, format Format) ([]engine.UserRecord, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(r)
	case FormatYAML:
		return decodeYAML(r)
	case FormatVCard:
		return decodeVCard(r), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
}

func decodeJSON(r io.Reader) ([]engine.UserRecord, error) {
	var users []engine.UserRecord
	if err := json.NewDecoder(r).Decode(&users); err != nil {
		if errors.Is(err, io.EOF) {
			return []engine.UserRecord{}, nil
		}
		return nil, fmt.Errorf("%s: %w", config.ErrRosterDecode, err)
	}
	return users, nil
}

func decodeYAML(r io.Reader) ([]engine.UserRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRosterDecode, err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRosterDecode, err)
	}
	// Empty document
	if len(node.Content) == 0 {
		return []engine.UserRecord{}, nil
	}

	if node.Content[0].Kind == yaml.MappingNode {
		var doc yamlDocument
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrRosterDecode, err)
		}
		return doc.Users, nil
	}

	var users []engine.UserRecord
	if err := node.Decode(&users); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRosterDecode, err)
	}
	return users, nil
}

// decodeVCard converts every card carrying a BDAY into a user record.
// Malformed cards are skipped to maximize data recovery.
func decodeVCard(r io.Reader) []engine.UserRecord {
	decoder := vcard.NewDecoder(r)
	users := []engine.UserRecord{}

	for {
		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompRoster,
				config.LogKeyError, err)
			continue
		}

		// Name Strategy: FN (Formatted) > N (Structured) > Fallback
		name := config.FallbackName
		if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
			name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil && n.Value != "" {
			name = structuredName(n.Value)
		}

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			slog.Debug(config.MsgSkippedNoBday,
				config.LogKeyComponent, config.CompRoster,
				config.LogKeyName, name)
			continue
		}

		users = append(users, engine.UserRecord{
			Name:     name,
			Birthday: rosterDate(bday.Value),
		})
	}

	return users
}

// structuredName turns "Family;Given;Additional;Prefix;Suffix" into "Given Family".
func structuredName(value string) string {
	parts := strings.Split(value, ";")
	var words []string
	if len(parts) > 1 && parts[1] != "" {
		words = append(words, parts[1])
	}
	if parts[0] != "" {
		words = append(words, parts[0])
	}
	if len(words) == 0 {
		return config.FallbackName
	}
	return strings.Join(words, " ")
}

// rosterDate rewrites a vCard BDAY value as YYYY.MM.DD.
// Unknown values are returned verbatim so the filter can report them.
func rosterDate(value string) string {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t.Format(config.DateFormatRoster)
		}
	}

	// Truncated dates (Year unknown) - vCard specific
	// Safe leap year fallback
	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			safeDate := time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return safeDate.Format(config.DateFormatRoster)
		}
	}

	return value
}
