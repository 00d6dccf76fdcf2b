package config

import "time"

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName    = "Go Congrats"
	BinaryName = "go-congrats"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
	ExitCodeUsage   = 2
)

// -----------------------------------------------------------------------------
// CLI Commands, Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	CmdUpcoming = "upcoming"
	CmdDays     = "days"
	CmdLottery  = "lottery"
	CmdPhone    = "phone"

	FlagVersion     = "version"
	FlagDebug       = "debug"
	FlagLogFormat   = "log-format"
	FlagUsers       = "users"
	FlagDate        = "date"
	FlagDays        = "days"
	FlagFormat      = "format"
	FlagInputFormat = "input-format"
	FlagMin         = "min"
	FlagMax         = "max"
	FlagQuantity    = "quantity"

	FlagDescVersion     = "Show application version and exit"
	FlagDescDebug       = "Enable debug logging"
	FlagDescLogFormat   = "Log output format: json or console"
	FlagDescUsers       = "Roster file (.json, .yaml, .yml, .vcf, .vcard) or - for stdin"
	FlagDescDate        = "Reference date (YYYY.MM.DD), defaults to today"
	FlagDescDays        = "Number of days to look ahead (inclusive)"
	FlagDescFormat      = "Output format: table, json, yaml or ics"
	FlagDescInputFormat = "Roster format when reading stdin: json, yaml or vcf"
	FlagDescMin         = "Smallest ticket number (>= 1)"
	FlagDescMax         = "Largest ticket number (<= 1000)"
	FlagDescQuantity    = "How many numbers to draw"

	StdinPath        = "-"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
	MsgUsage         = "usage: %s [-version] [-debug] [-log-format json|console] <upcoming|days|lottery|phone> [flags]\n"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultWindowDays = 7
	DefaultLeapYear   = 2000 // Leap year fallback for year-less vCard dates like --02-29
	DefaultLogFormat  = LogFormatJSON

	// Weekend shift (days to add to reach Monday).
	ShiftSaturday = 2
	ShiftSunday   = 1

	// Lottery bounds.
	LotteryMinNumber = 1
	LotteryMaxNumber = 1000

	// Phone normalization.
	PhoneCountryPrefix = "+38"

	UIDSalt = "go-congrats-v1-" // Salt for deterministic UID generation
)

// -----------------------------------------------------------------------------
// Formats
// -----------------------------------------------------------------------------

const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"

	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatICS   = "ics"
	FormatVCard = "vcf"

	// File Extensions
	ExtJSON  = ".json"
	ExtYAML  = ".yaml"
	ExtYML   = ".yml"
	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
)

// -----------------------------------------------------------------------------
// Date Layouts
// -----------------------------------------------------------------------------

const (
	// DateFormatRoster is the only layout accepted for roster birthdays and
	// produced for congratulation dates.
	DateFormatRoster = "2006.01.02"

	// DateFormatISO is used by the days command.
	DateFormatISO = time.DateOnly

	// Layouts used for parsing vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	SecondsPerDay = 24 * 60 * 60
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go Congrats//Engine//EN"
	ICalCalName = "Congratulations"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "gocongrats"

	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTStamp    = "DTSTAMP"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s@%s"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Report Layout
// -----------------------------------------------------------------------------

const (
	ColDate    = "DATE"
	ColWeekday = "WEEKDAY"
	ColName    = "NAME"

	TableMinWidth = 0
	TableTabWidth = 8
	TablePadding  = 2
	TablePadChar  = ' '

	MsgNoUpcoming = "No upcoming birthdays."
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrNegativeWindow  = "window days must not be negative"
	ErrDateParse       = "unable to parse date"
	ErrRefDateParse    = "invalid reference date (expected YYYY.MM.DD)"
	ErrRosterOpen      = "failed to open roster"
	ErrRosterDecode    = "failed to decode roster"
	ErrRosterFormat    = "unsupported roster format"
	ErrOutputFormat    = "unsupported output format"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrWriteOutput     = "failed to write output"
	ErrLotteryRange    = "min must be between 1 and max, and max must not exceed 1000"
	ErrLotteryQuantity = "quantity must be between 0 and the size of the range"
	ErrRandom          = "failed to read random source"
	ErrUnknownCommand  = "unknown command"
	ErrMissingCommand  = "missing command"
	ErrMissingUsers    = "roster path is required"
	ErrMissingArgs     = "at least one argument is required"
	ErrLogFormat       = "unsupported log format"
	ErrAppFailed       = "application failed unexpectedly"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackName    = "Unknown"
	FallbackSummary = "Congratulate %s"

	MsgSkippedUser    = "Skipping user with invalid birthday"
	MsgSkippedName    = "Skipping user without name"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedNoBday  = "Skipping vCard without birthday"
	MsgFilterDone     = "Upcoming birthdays computed"
	MsgRosterLoaded   = "Roster loaded"
	MsgReportWritten  = "Report written"
	MsgDaysFailed     = "Skipping invalid date"
	MsgAppStarting    = "Starting application"
	MsgAppStop        = "Application finished"
	MsgFormatDaysLine = "%s\t%d\n"
	MsgFormatPhone    = "%s\n"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyFile      = "file"
	LogKeyFormat    = "format"
	LogKeyName      = "name"
	LogKeyValue     = "value"
	LogKeyIndex     = "index"
	LogKeyStats     = "stats"
	LogKeyTotal     = "total_users"
	LogKeyKept      = "upcoming"
	LogKeySkipped   = "skipped"
	LogKeyRefDate   = "reference_date"
	LogKeyWindow    = "window_days"
	LogKeyCount     = "count"
	LogKeyCommand   = "command"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyBuilt   = "built"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompEngine = "engine"
	CompRoster = "roster"
	CompReport = "report"
	CompMain   = "main"
)
