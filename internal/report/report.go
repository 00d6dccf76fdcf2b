// Package report renders congratulation lists as text, JSON, YAML or iCalendar.
package report

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/engine"
	"gopkg.in/yaml.v3"
)

// Format identifies an output encoding.
type Format string

const (
	FormatTable Format = config.FormatTable
	FormatJSON  Format = config.FormatJSON
	FormatYAML  Format = config.FormatYAML
	FormatICS   Format = config.FormatICS
)

// ErrUnsupportedFormat is returned for unknown output formats.
var ErrUnsupportedFormat = errors.New(config.ErrOutputFormat)

// ParseFormat validates a user supplied format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatTable, FormatJSON, FormatYAML, FormatICS:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Write renders entries to w. now is only used to stamp iCalendar events.
func Write(w io.Writer, format Format, entries []engine.CongratulationEntry, now time.Time) error {
	var err error
	switch format {
	case FormatTable:
		err = writeTable(w, entries)
	case FormatJSON:
		err = writeJSON(w, entries)
	case FormatYAML:
		err = writeYAML(w, entries)
	case FormatICS:
		err = writeICS(w, entries, now)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
	if err != nil {
		return err
	}

	slog.Debug(config.MsgReportWritten,
		config.LogKeyComponent, config.CompReport,
		config.LogKeyFormat, string(format),
		config.LogKeyCount, len(entries))
	return nil
}

func writeTable(w io.Writer, entries []engine.CongratulationEntry) error {
	if len(entries) == 0 {
		if _, err := fmt.Fprintln(w, config.MsgNoUpcoming); err != nil {
			return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, config.TableMinWidth, config.TableTabWidth, config.TablePadding, config.TablePadChar, 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n", config.ColDate, config.ColWeekday, config.ColName)
	for _, e := range entries {
		weekday := ""
		if d, err := time.Parse(config.DateFormatRoster, e.CongratulationDate); err == nil {
			weekday = d.Weekday().String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.CongratulationDate, weekday, e.Name)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
	}
	return nil
}

func writeJSON(w io.Writer, entries []engine.CongratulationEntry) error {
	if entries == nil {
		entries = []engine.CongratulationEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
	}
	return nil
}

func writeYAML(w io.Writer, entries []engine.CongratulationEntry) error {
	if entries == nil {
		entries = []engine.CongratulationEntry{}
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
	}
	return nil
}

// writeICS emits one all-day event per congratulation.
func writeICS(w io.Writer, entries []engine.CongratulationEntry, now time.Time) error {
	cal := ical.NewCalendar()

	// Set standard iCalendar headers
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	for _, e := range entries {
		d, err := time.Parse(config.DateFormatRoster, e.CongratulationDate)
		if err != nil {
			return fmt.Errorf("%s: %w", config.ErrICalEncode, err)
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, eventUID(e), config.ICalDomain))
		event.Props.SetText(config.PropSummary, fmt.Sprintf(config.FallbackSummary, e.Name))

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(d)
		event.Props.Set(dtStartProp)
		event.Props.Set(dtStampProp)

		cal.Children = append(cal.Children, event.Component)
	}

	// An empty VCALENDAR is rejected by the encoder; use the stub so clients
	// still receive a valid feed.
	if len(cal.Children) == 0 {
		if _, err := io.WriteString(w, config.StubVCalendar); err != nil {
			return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
		}
		return nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
	}
	return nil
}

// eventUID is deterministic so re-imports update events instead of duplicating them.
func eventUID(e engine.CongratulationEntry) string {
	input := fmt.Sprintf(config.FormatHashInput, e.Name, e.CongratulationDate, config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}
