package command

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/harness/nexus-migrate/cmd/cmdutils"
	"github.com/harness/nexus-migrate/config"
	"github.com/harness/nexus-migrate/internal/nexustest"
	"github.com/harness/nexus-migrate/internal/style"
	"github.com/harness/nexus-migrate/module/maven/migrate/types"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *nexustest.Server {
	t.Helper()
	style.Init(false)
	srv := nexustest.NewServer(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "source:\n  endpoint: " + srv.URL + "\n  credentials: {username: admin, password: admin123}\n" +
		"destination:\n  endpoint: " + srv.URL + "\n  credentials: {token: secret}\n" +
		"mappings:\n  - {sourceRepository: releases, destinationRepository: releases}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	saved := config.Global
	config.Global.ConfigPath = path
	t.Cleanup(func() {
		config.Global = saved
		style.Init(true)
	})
	return srv
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListRepositories(t *testing.T) {
	srv := setup(t)
	srv.AddRepository("releases", types.FormatMaven2, types.TypeHosted, types.PolicyRelease)
	srv.AddRepository("npm-local", "npm", types.TypeHosted, "")

	out, err := run(t, NewListRepositoryCmd(cmdutils.NewFactory()))
	require.NoError(t, err)
	assert.Contains(t, out, "releases")
	assert.Contains(t, out, "npm-local")
	assert.Contains(t, out, "Total: 2")

	out, err = run(t, NewListRepositoryCmd(cmdutils.NewFactory()), "--format", "maven2")
	require.NoError(t, err)
	assert.NotContains(t, out, "npm-local")
	assert.Contains(t, out, "Total: 1")
}

func TestGetRepository(t *testing.T) {
	srv := setup(t)
	srv.AddRepository("snapshots", types.FormatMaven2, types.TypeHosted, types.PolicySnapshot)

	out, err := run(t, NewGetRepositoryCmd(cmdutils.NewFactory()), "snapshots")
	require.NoError(t, err)
	assert.Contains(t, out, "Version policy")
	assert.Contains(t, out, "SNAPSHOT")
	assert.Contains(t, out, "default")
}

func TestGetRepository_NotFound(t *testing.T) {
	setup(t)

	_, err := run(t, NewGetRepositoryCmd(cmdutils.NewFactory()), "missing")
	assert.ErrorIs(t, err, types.ErrRepositoryNotFound)
}
