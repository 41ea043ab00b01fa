package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingHook struct {
	levels []zerolog.Level
}

func (h *countingHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	h.levels = append(h.levels, level)
}

func TestNew_Files(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l, err := New(Options{Dir: dir})
	require.NoError(t, err)

	l.Debug().Msg("debug line")
	l.Info().Msg("info line")
	l.Error().Msg("error line")
	require.NoError(t, l.Close())

	info, err := os.ReadFile(filepath.Join(dir, InfoFile))
	require.NoError(t, err)
	assert.Contains(t, string(info), "info line")
	assert.Contains(t, string(info), "error line")
	assert.NotContains(t, string(info), "debug line")

	errs, err := os.ReadFile(filepath.Join(dir, ErrorFile))
	require.NoError(t, err)
	assert.Contains(t, string(errs), "error line")
	assert.NotContains(t, string(errs), "info line")
}

func TestNew_VerboseConsole(t *testing.T) {
	var console bytes.Buffer
	hook := &countingHook{}
	l, err := New(Options{Verbose: true, NoColor: true, Console: &console, Hook: hook})
	require.NoError(t, err)

	l.Debug().Str("component", "g:a:1").Msg("staging")
	assert.Contains(t, console.String(), "staging")
	assert.Contains(t, console.String(), "component=g:a:1")
	assert.Empty(t, hook.levels)
}

func TestNew_QuietUsesHook(t *testing.T) {
	var console bytes.Buffer
	hook := &countingHook{}
	l, err := New(Options{Console: &console, Hook: hook})
	require.NoError(t, err)

	l.Info().Msg("hidden")
	l.Error().Msg("shown")
	assert.Empty(t, console.String())
	assert.Equal(t, []zerolog.Level{zerolog.ErrorLevel}, hook.levels)
}
