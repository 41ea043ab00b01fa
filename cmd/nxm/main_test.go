package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/harness/nexus-migrate/cmd/cmdutils"
	"github.com/harness/nexus-migrate/config"
	"github.com/harness/nexus-migrate/internal/nexustest"
	"github.com/harness/nexus-migrate/module/maven/migrate/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	saved := config.Global
	t.Cleanup(func() { config.Global = saved })

	cmd := newRootCmd(cmdutils.NewFactory())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "nxm version dev")
}

func TestMigrate(t *testing.T) {
	srv := nexustest.NewServer(t)
	srv.AddRepository("releases", types.FormatMaven2, types.TypeHosted, types.PolicyRelease)
	srv.AddRepository("releases2", types.FormatMaven2, types.TypeHosted, types.PolicyRelease)
	srv.AddComponent("releases", "org.acme", "lib", "1.0", map[string]string{
		"org/acme/lib/1.0/lib-1.0.jar": "jar",
		"org/acme/lib/1.0/lib-1.0.pom": "<project><url>http://old</url></project>",
	})

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
source:
  endpoint: http://unused:8081
  credentials: {username: admin, password: admin123}
destination:
  endpoint: `+srv.URL+`
  credentials: {username: admin, password: admin123}
mappings:
  - sourceRepository: releases
    destinationRepository: releases2
maven:
  excludes: [sha1]
  tmp_dir: `+filepath.Join(dir, "stage")+`
  pom_url_mapping: {"http://old": "http://new"}
`), 0o644))

	logDir := filepath.Join(dir, "logs")
	out, err := execute(t, "repository", "migrate", "-c", cfgPath, "-s", srv.URL, "--no-color", "--log-dir", logDir)
	require.NoError(t, err)
	assert.Contains(t, out, "org.acme:lib:1.0")
	assert.Contains(t, out, "1 components migrated")

	uploads := srv.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, "releases2", uploads[0].Repository)

	info, err := os.ReadFile(filepath.Join(logDir, "nxm_info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "Migration process completed")
}

func TestMigrate_BadConfig(t *testing.T) {
	_, err := execute(t, "repository", "migrate", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to load configuration")
}
