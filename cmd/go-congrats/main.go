package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/dates"
	"github.com/tartampluch/go-congrats/internal/engine"
	"github.com/tartampluch/go-congrats/internal/lottery"
	"github.com/tartampluch/go-congrats/internal/phone"
	"github.com/tartampluch/go-congrats/internal/report"
	"github.com/tartampluch/go-congrats/internal/roster"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// main is the application entry point.
// os.Exit() does not run defers, so runMain returns the exit code first.
func main() {
	os.Exit(runMain(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, engine.RealClock{}))
}

// usageError marks failures caused by bad invocation (exit code 2).
type usageError struct {
	err error
}

func (u usageError) Error() string { return u.err.Error() }
func (u usageError) Unwrap() error { return u.err }

func usagef(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

// streams groups the process I/O so commands can be driven from tests.
type streams struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	clock  engine.Clock
}

// runMain manages argument parsing, logging and exit codes.
func runMain(args []string, stdin io.Reader, stdout, stderr io.Writer, clock engine.Clock) int {
	// -------------------------------------------------------------------------
	// 1. Global Flags
	// -------------------------------------------------------------------------
	fs := flag.NewFlagSet(config.BinaryName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, config.MsgUsage, config.BinaryName)
		fs.PrintDefaults()
	}
	showVersion := fs.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := fs.Bool(config.FlagDebug, false, config.FlagDescDebug)
	logFormat := fs.String(config.FlagLogFormat, config.DefaultLogFormat, config.FlagDescLogFormat)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return config.ExitCodeSuccess
		}
		return config.ExitCodeUsage
	}

	if *showVersion {
		printVersion(stdout)
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	// Logs go to stderr so stdout stays machine readable.
	logger, err := setupLogging(stderr, *logFormat, *debugMode)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return config.ExitCodeUsage
	}
	slog.SetDefault(logger)

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Command Dispatch
	// -------------------------------------------------------------------------
	s := streams{stdin: stdin, stdout: stdout, stderr: stderr, clock: clock}
	start := time.Now()
	if err := run(ctx, fs.Args(), s); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return config.ExitCodeSuccess
		}
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprintln(stderr, err)
			fs.Usage()
			return config.ExitCodeUsage
		}
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Debug(config.MsgAppStop,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyCommand, fs.Arg(0),
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return config.ExitCodeSuccess
}

// run dispatches to the sub-command named by args[0].
func run(ctx context.Context, args []string, s streams) error {
	if len(args) == 0 {
		return usagef("%s", config.ErrMissingCommand)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case config.CmdUpcoming:
		return runUpcoming(ctx, rest, s)
	case config.CmdDays:
		return runDays(rest, s)
	case config.CmdLottery:
		return runLottery(rest, s)
	case config.CmdPhone:
		return runPhone(rest, s)
	default:
		return usagef("%s: %q", config.ErrUnknownCommand, cmd)
	}
}

// runUpcoming loads a roster and prints the congratulations due in the window.
func runUpcoming(ctx context.Context, args []string, s streams) error {
	fs := flag.NewFlagSet(config.CmdUpcoming, flag.ContinueOnError)
	fs.SetOutput(s.stderr)
	usersPath := fs.String(config.FlagUsers, "", config.FlagDescUsers)
	refDate := fs.String(config.FlagDate, "", config.FlagDescDate)
	windowDays := fs.Int(config.FlagDays, config.DefaultWindowDays, config.FlagDescDays)
	outFormat := fs.String(config.FlagFormat, config.FormatTable, config.FlagDescFormat)
	inFormat := fs.String(config.FlagInputFormat, config.FormatJSON, config.FlagDescInputFormat)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageError{err: err}
	}

	if *usersPath == "" {
		return usagef("%s", config.ErrMissingUsers)
	}
	if *windowDays < 0 {
		return usageError{err: engine.ErrNegativeWindow}
	}
	format, err := report.ParseFormat(*outFormat)
	if err != nil {
		return usageError{err: err}
	}

	var ref time.Time
	if *refDate != "" {
		ref, err = time.Parse(config.DateFormatRoster, *refDate)
		if err != nil {
			return usagef("%s: %w", config.ErrRefDateParse, err)
		}
	}

	users, err := loadRoster(*usersPath, *inFormat, s.stdin)
	if err != nil {
		return err
	}

	planner := engine.NewPlanner(s.clock)
	planner.WindowDays = *windowDays

	var entries []engine.CongratulationEntry
	if *refDate == "" {
		entries, err = planner.Upcoming(users)
	} else {
		entries, err = planner.UpcomingFrom(users, ref)
	}
	if err != nil {
		return err
	}

	// Interrupted while loading: don't emit a partial report.
	if err := ctx.Err(); err != nil {
		return err
	}
	return report.Write(s.stdout, format, entries, s.clock.Now())
}

// loadRoster reads from stdin when path is "-", otherwise from the named file.
func loadRoster(path, inputFormat string, stdin io.Reader) ([]engine.UserRecord, error) {
	if path != config.StdinPath {
		return roster.Load(path)
	}
	format, err := roster.ParseFormat(inputFormat)
	if err != nil {
		return nil, usageError{err: err}
	}
	return roster.Decode(stdin, format)
}

// runDays prints the number of days elapsed since each YYYY-MM-DD argument.
// Invalid dates are logged and skipped.
func runDays(args []string, s streams) error {
	if len(args) == 0 {
		return usagef("%s", config.ErrMissingArgs)
	}

	today := s.clock.Now()
	for _, arg := range args {
		n, err := dates.DaysSince(arg, today)
		if err != nil {
			slog.Warn(config.MsgDaysFailed,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyValue, arg,
				config.LogKeyError, err)
			continue
		}
		if _, err := fmt.Fprintf(s.stdout, config.MsgFormatDaysLine, arg, n); err != nil {
			return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
		}
	}
	return nil
}

// runLottery draws unique ticket numbers and prints them on one line.
func runLottery(args []string, s streams) error {
	fs := flag.NewFlagSet(config.CmdLottery, flag.ContinueOnError)
	fs.SetOutput(s.stderr)
	minNum := fs.Int(config.FlagMin, config.LotteryMinNumber, config.FlagDescMin)
	maxNum := fs.Int(config.FlagMax, config.LotteryMaxNumber, config.FlagDescMax)
	quantity := fs.Int(config.FlagQuantity, 0, config.FlagDescQuantity)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageError{err: err}
	}

	numbers, err := lottery.Draw(*minNum, *maxNum, *quantity)
	if err != nil {
		if errors.Is(err, lottery.ErrInvalidRange) || errors.Is(err, lottery.ErrInvalidQuantity) {
			return usageError{err: err}
		}
		return err
	}

	words := make([]string, len(numbers))
	for i, n := range numbers {
		words[i] = strconv.Itoa(n)
	}
	if _, err := fmt.Fprintln(s.stdout, strings.Join(words, " ")); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
	}
	return nil
}

// runPhone prints each argument in the normalized +38 form.
func runPhone(args []string, s streams) error {
	if len(args) == 0 {
		return usagef("%s", config.ErrMissingArgs)
	}
	for _, n := range phone.NormalizeAll(args) {
		if _, err := fmt.Fprintf(s.stdout, config.MsgFormatPhone, n); err != nil {
			return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
		}
	}
	return nil
}

// printVersion outputs the build information.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Debug(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyBuilt, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging builds the process logger. The JSON handler is the default;
// "console" routes slog records through a zap console encoder.
func setupLogging(w io.Writer, format string, debugMode bool) (*slog.Logger, error) {
	switch format {
	case config.LogFormatJSON:
		level := slog.LevelInfo
		if debugMode {
			level = slog.LevelDebug
		}
		opts := &slog.HandlerOptions{
			Level:     level,
			AddSource: debugMode,
		}
		return slog.New(slog.NewJSONHandler(w, opts)), nil

	case config.LogFormatConsole:
		level := zapcore.InfoLevel
		if debugMode {
			level = zapcore.DebugLevel
		}
		encCfg := zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			MessageKey:     "msg",
			NameKey:        "logger",
			CallerKey:      "caller",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
		return slog.New(zapslog.NewHandler(core, zapslog.WithCaller(debugMode))), nil

	default:
		return nil, fmt.Errorf("%s: %q", config.ErrLogFormat, format)
	}
}
