package migratable

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harness/nexus-migrate/internal/nexustest"
	"github.com/harness/nexus-migrate/module/maven/migrate/adapter"
	_ "github.com/harness/nexus-migrate/module/maven/migrate/adapter/nexus"
	"github.com/harness/nexus-migrate/module/maven/migrate/maven"
	"github.com/harness/nexus-migrate/module/maven/migrate/remote"
	"github.com/harness/nexus-migrate/module/maven/migrate/staging"
	"github.com/harness/nexus-migrate/module/maven/migrate/types"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pomTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <groupId>org.acme</groupId>
  <artifactId>lib</artifactId>
  <version>1.0</version>
  <distributionManagement>
    <repository>
      <url>http://old/repo</url>
    </repository>
  </distributionManagement>
</project>
`

type fixture struct {
	srv   *nexustest.Server
	src   *remote.Repository
	opts  Options
	stats *types.TransferStats
}

func newFixture(t *testing.T, policy types.VersionPolicy) *fixture {
	t.Helper()
	srv := nexustest.NewServer(t)
	srv.AddRepository("source", types.FormatMaven2, types.TypeHosted, policy)
	srv.AddRepository("target", types.FormatMaven2, types.TypeHosted, policy)

	a, err := adapter.GetAdapter(context.Background(), types.RegistryConfig{
		Endpoint:    srv.URL,
		Type:        types.NEXUS,
		Credentials: types.CredentialsConfig{Username: "admin", Password: "admin123"},
	}, zerolog.Nop())
	require.NoError(t, err)
	r := remote.New(a, zerolog.Nop())

	src, err := r.Repository(context.Background(), "source")
	require.NoError(t, err)
	dst, err := r.Repository(context.Background(), "target")
	require.NoError(t, err)

	area, err := staging.NewArea(afero.NewMemMapFs(), "/stage")
	require.NoError(t, err)

	stats := &types.TransferStats{}
	return &fixture{
		srv: srv,
		src: src,
		opts: Options{
			Destination: dst,
			URLMapping:  map[string]string{"http://old/repo": "http://new/repo"},
			Excludes:    map[string]struct{}{"sha1": {}, "md5": {}},
			Area:        area,
			Stats:       stats,
			Logger:      zerolog.Nop(),
		},
		stats: stats,
	}
}

func (f *fixture) component(t *testing.T) *remote.Component {
	t.Helper()
	page, err := f.src.Components().Next(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, page.Components())
	return page.Components()[0]
}

func runJob(ctx context.Context, job Job) error {
	err := job.Pre(ctx)
	if err == nil {
		err = job.Migrate(ctx)
	}
	if postErr := job.Post(ctx); err == nil {
		err = postErr
	}
	return err
}

func assertStageEmpty(t *testing.T, area *staging.Area) {
	t.Helper()
	entries, err := afero.ReadDir(area.Fs(), area.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReleaseComponent_Upload(t *testing.T) {
	f := newFixture(t, types.PolicyRelease)
	f.srv.AddComponent("source", "org.acme", "lib", "1.0", map[string]string{
		"org/acme/lib/1.0/lib-1.0.jar":         "jar-bytes",
		"org/acme/lib/1.0/lib-1.0.jar.sha1":    "sha",
		"org/acme/lib/1.0/lib-1.0-sources.jar": "src-bytes",
		"org/acme/lib/1.0/lib-1.0.pom":         pomTemplate,
	})

	job := NewReleaseComponent(f.component(t), f.opts)
	assert.Equal(t, "release org.acme:lib:1.0", job.Info())
	require.NoError(t, runJob(context.Background(), job))

	uploads := f.srv.Uploads()
	require.Len(t, uploads, 1)
	up := uploads[0]
	assert.Equal(t, "target", up.Repository)
	assert.Equal(t, "org.acme", up.Fields["maven2.groupId"])
	assert.Equal(t, "lib", up.Fields["maven2.artifactId"])
	assert.Equal(t, "1.0", up.Fields["maven2.version"])

	// sorted asset order: sources jar, jar, pom
	assert.Len(t, up.Files, 3)
	assert.Equal(t, "src-bytes", string(up.Files["maven2.asset1"]))
	assert.Equal(t, "jar", up.Fields["maven2.asset1.extension"])
	assert.Equal(t, "sources", up.Fields["maven2.asset1.classifier"])
	assert.Equal(t, "jar-bytes", string(up.Files["maven2.asset2"]))
	assert.NotContains(t, up.Fields, "maven2.asset2.classifier")
	assert.Equal(t, "pom", up.Fields["maven2.asset3.extension"])
	assert.Equal(t, "lib-1.0.pom", up.FileNames["maven2.asset3"])

	classifiers := 0
	for name := range up.Fields {
		if strings.HasSuffix(name, ".classifier") {
			classifiers++
		}
	}
	assert.Equal(t, 1, classifiers)

	pomBody := string(up.Files["maven2.asset3"])
	assert.Contains(t, pomBody, "<url>http://new/repo</url>")
	assert.NotContains(t, pomBody, "http://old/repo")

	assertStageEmpty(t, f.opts.Area)
	stats := f.stats.Snapshot()
	require.Len(t, stats, 1)
	assert.Equal(t, types.StatusSuccess, stats[0].Status)
	assert.Equal(t, 3, stats[0].Assets)
}

func TestReleaseComponent_AssetLimit(t *testing.T) {
	tests := []struct {
		name    string
		assets  map[string]string
		wantErr bool
	}{
		{
			name: "three assets",
			assets: map[string]string{
				"g/a/1/a-1.jar": "a", "g/a/1/a-1.pom": "<project/>", "g/a/1/a-1-sources.jar": "s",
				"g/a/1/a-1.jar.md5": "m",
			},
		},
		{
			name: "four assets",
			assets: map[string]string{
				"g/a/1/a-1.jar": "a", "g/a/1/a-1.pom": "<project/>", "g/a/1/a-1-sources.jar": "s",
				"g/a/1/a-1-javadoc.jar": "d",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, types.PolicyRelease)
			f.srv.AddComponent("source", "g", "a", "1", tt.assets)

			err := runJob(context.Background(), NewReleaseComponent(f.component(t), f.opts))
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Len(t, f.srv.Uploads(), 1)
				return
			}

			var limitErr *types.AssetLimitExceededError
			require.True(t, errors.As(err, &limitErr))
			assert.Equal(t, 4, limitErr.Count)
			assert.Empty(t, f.srv.Uploads())
			assert.Equal(t, types.StatusFail, f.stats.Snapshot()[0].Status)
		})
	}
}

func TestReleaseComponent_UploadRejected(t *testing.T) {
	f := newFixture(t, types.PolicyRelease)
	f.srv.UploadStatus = 400
	f.srv.AddComponent("source", "g", "a", "1", map[string]string{"g/a/1/a-1.jar": "a"})

	err := runJob(context.Background(), NewReleaseComponent(f.component(t), f.opts))
	var uploadErr *types.UploadError
	require.True(t, errors.As(err, &uploadErr))
	assert.Equal(t, 400, uploadErr.Status)
}

type recordingRunner struct {
	calls []maven.Command
	files map[string]string
	fs    afero.Fs
}

func (r *recordingRunner) Run(_ context.Context, cmd maven.Command) (maven.Result, error) {
	r.calls = append(r.calls, cmd)
	// capture the pom as mvn would read it
	for _, arg := range cmd.Args {
		if strings.HasPrefix(arg, "-DpomFile=") {
			data, _ := afero.ReadFile(r.fs, strings.TrimPrefix(arg, "-DpomFile="))
			r.files["pom"] = string(data)
		}
	}
	return maven.Result{Stdout: "BUILD SUCCESS"}, nil
}

func TestSnapshotComponent_Deploy(t *testing.T) {
	f := newFixture(t, types.PolicySnapshot)
	f.srv.AddComponent("source", "org.acme", "lib", "1.0-SNAPSHOT", map[string]string{
		"org/acme/lib/1.0-SNAPSHOT/lib-1.0-20240101.120000-1.jar":         "jar",
		"org/acme/lib/1.0-SNAPSHOT/lib-1.0-20240101.120000-1-sources.jar": "src",
		"org/acme/lib/1.0-SNAPSHOT/lib-1.0-20240101.120000-1.pom":         pomTemplate,
		"org/acme/lib/1.0-SNAPSHOT/lib-1.0-20240101.120000-1.pom.sha1":    "sha",
	})

	runner := &recordingRunner{files: map[string]string{}, fs: f.opts.Area.Fs()}
	client := maven.NewClient("mvn", "/conf/settings.xml", runner, zerolog.Nop())

	job := NewSnapshotComponent(f.component(t), f.opts, client, "nexus-snapshots")
	require.NoError(t, runJob(context.Background(), job))

	require.Len(t, runner.calls, 1)
	args := strings.Join(runner.calls[0].Args, " ")
	assert.True(t, strings.HasPrefix(args, "--settings /conf/settings.xml deploy:deploy-file -DgroupId=org.acme -DartifactId=lib -Dversion=1.0-SNAPSHOT -Dpackaging=jar"))
	assert.Contains(t, args, "lib-1.0-20240101.120000-1.jar")
	assert.Contains(t, args, "-Dsources=")
	assert.Contains(t, args, "-Durl="+f.srv.URL+"/repository/target")
	assert.Contains(t, args, "-DrepositoryId=nexus-snapshots")
	assert.NotContains(t, args, ".sha1")
	assert.Contains(t, runner.files["pom"], "http://new/repo")

	assertStageEmpty(t, f.opts.Area)
	assert.Equal(t, types.StatusSuccess, f.stats.Snapshot()[0].Status)
}

func TestSnapshotComponent_NoJarIsSkipped(t *testing.T) {
	f := newFixture(t, types.PolicySnapshot)
	f.srv.AddComponent("source", "org.acme", "parent", "1.0-SNAPSHOT", map[string]string{
		"org/acme/parent/1.0-SNAPSHOT/parent-1.0-20240101.120000-1.pom": pomTemplate,
	})

	runner := &recordingRunner{files: map[string]string{}, fs: f.opts.Area.Fs()}
	client := maven.NewClient("mvn", "/conf/settings.xml", runner, zerolog.Nop())

	require.NoError(t, runJob(context.Background(), NewSnapshotComponent(f.component(t), f.opts, client, "nexus")))
	assert.Empty(t, runner.calls)
	assert.Equal(t, types.StatusSkip, f.stats.Snapshot()[0].Status)
	assertStageEmpty(t, f.opts.Area)
}
