// Package logger configures the process-wide zerolog logger: warnings and
// above to the console, info and above to a daily log file under the log
// directory. Files older than the retention window are pruned at startup.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// RetentionDays is how long daily log files are kept.
const RetentionDays = 30

const fileTimeFormat = "2006-01-02 15:04:05"

// Options controls logger construction.
type Options struct {
	// Dir is the log directory, created if missing.
	Dir string
	// Console is the console writer. Defaults to os.Stderr.
	Console io.Writer
	// Verbose lowers the console threshold from warn to debug.
	Verbose bool
	// Now supplies the current time; tests override it.
	Now func() time.Time
}

// New builds the logger and returns it together with a close function for
// the underlying log file. Failure to open the file is not fatal: the tool
// still runs with console-only logging and reports the problem there.
func New(opts Options) (zerolog.Logger, func(), error) {
	if opts.Console == nil {
		opts.Console = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	consoleLevel := zerolog.WarnLevel
	if opts.Verbose {
		consoleLevel = zerolog.DebugLevel
	}
	console := &zerolog.FilteredLevelWriter{
		Writer: zerolog.LevelWriterAdapter{Writer: zerolog.ConsoleWriter{
			Out:        opts.Console,
			TimeFormat: fileTimeFormat,
			NoColor:    !isTerminal(opts.Console),
		}},
		Level: consoleLevel,
	}

	writers := []io.Writer{console}
	closeFn := func() {}

	file, err := openDailyFile(opts.Dir, opts.Now())
	if err == nil {
		writers = append(writers, &zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: file},
			Level:  zerolog.InfoLevel,
		})
		closeFn = func() { _ = file.Close() }
	}

	log := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().
		Timestamp().
		Logger()

	if err != nil {
		log.Warn().Err(err).Str("dir", opts.Dir).Msg("log file unavailable, console only")
		return log, closeFn, nil
	}

	if pruneErr := Prune(opts.Dir, opts.Now()); pruneErr != nil {
		log.Warn().Err(pruneErr).Msg("pruning old log files failed")
	}

	return log, closeFn, nil
}

// openDailyFile opens (appending) today's log file, creating the directory
// if needed.
func openDailyFile(dir string, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	path := filepath.Join(dir, now.Format(time.DateOnly)+".log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// Prune deletes daily log files older than RetentionDays. Files whose
// names do not carry a date are left alone.
func Prune(dir string, now time.Time) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	cutoff := now.AddDate(0, 0, -RetentionDays)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		stamp := strings.TrimSuffix(entry.Name(), ".log")
		day, err := time.Parse(time.DateOnly, stamp)
		if err != nil {
			continue
		}
		if day.Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
