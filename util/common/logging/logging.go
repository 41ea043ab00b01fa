// Package logging builds the process logger: an optional console writer
// plus rotating info and error files.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/juju/lumberjack/v2"
	"github.com/rs/zerolog"
)

const (
	InfoFile  = "nxm_info.log"
	ErrorFile = "nxm_error.log"
)

type Options struct {
	// Verbose enables debug output on Console.
	Verbose bool
	NoColor bool
	// Dir receives the log files. No files are written when empty.
	Dir     string
	Console io.Writer
	// Hook is attached when the console is silent.
	Hook zerolog.Hook

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Logger is a configured zerolog.Logger plus the files it writes to.
type Logger struct {
	zerolog.Logger
	closers []io.Closer
}

// Close flushes and closes the log files.
func (l *Logger) Close() error {
	var errs []error
	for _, c := range l.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func New(opts Options) (*Logger, error) {
	if opts.Console == nil {
		opts.Console = os.Stderr
	}
	if opts.MaxSizeMB == 0 {
		opts.MaxSizeMB = 100
	}
	if opts.MaxBackups == 0 {
		opts.MaxBackups = 7
	}

	l := &Logger{}
	var writers []io.Writer

	if opts.Verbose {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        opts.Console,
			TimeFormat: time.RFC3339,
			NoColor:    opts.NoColor,
		})
	}

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		info := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, InfoFile),
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			LocalTime:  true,
		}
		errFile := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, ErrorFile),
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			LocalTime:  true,
		}
		l.closers = append(l.closers, info, errFile)
		writers = append(writers,
			&zerolog.FilteredLevelWriter{Writer: zerolog.LevelWriterAdapter{Writer: info}, Level: zerolog.InfoLevel},
			&zerolog.FilteredLevelWriter{Writer: zerolog.LevelWriterAdapter{Writer: errFile}, Level: zerolog.ErrorLevel},
		)
	}

	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	if len(writers) == 0 {
		l.Logger = zerolog.New(io.Discard).Level(zerolog.ErrorLevel)
	} else {
		l.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
			Level(level).
			With().
			Timestamp().
			Logger()
	}
	if !opts.Verbose && opts.Hook != nil {
		l.Logger = l.Logger.Hook(opts.Hook)
	}
	return l, nil
}
