package types

import (
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// ErrorHook is a zerolog hook that echoes error events with pterm while the
// console writer is off.
type ErrorHook struct{}

// Run implements the zerolog.Hook interface
func (h ErrorHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if level >= zerolog.ErrorLevel && level < zerolog.NoLevel {
		pterm.Error.Println(msg)
	}
}
