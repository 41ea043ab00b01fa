package migratable

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/harness/nexus-migrate/module/maven/migrate/remote"
	"github.com/harness/nexus-migrate/module/maven/migrate/types"
	"github.com/harness/nexus-migrate/util/common/errors"
)

const mavenFieldPrefix = "maven2."

// ReleaseComponent moves one component of a RELEASE repository with a single
// multipart upload. POMs are staged and rewritten first, every other asset
// is streamed from the source while the request is written.
type ReleaseComponent struct {
	componentJob
}

func NewReleaseComponent(c *remote.Component, opts Options) Job {
	return &ReleaseComponent{componentJob: newComponentJob(c, opts, "release")}
}

func (r *ReleaseComponent) Info() string {
	return "release " + r.component.String()
}

func (r *ReleaseComponent) Pre(ctx context.Context) error {
	return r.resolve(ctx)
}

func (r *ReleaseComponent) Migrate(ctx context.Context) error {
	startTime := time.Now()

	form, err := r.buildForm(ctx)
	if err != nil {
		return r.fail(errors.NewComponentError("upload", r.coords.Group+":"+r.coords.Artifact, r.coords.Version, err))
	}

	if err := r.opts.Destination.UploadComponent(ctx, form); err != nil {
		return r.fail(errors.NewComponentError("upload", r.coords.Group+":"+r.coords.Artifact, r.coords.Version, err))
	}

	r.logger.Info().
		Int("assets", r.assets).
		Dur("duration", time.Since(startTime)).
		Msgf("Uploaded %s to %s", r.coords, r.opts.Destination.Name())
	return nil
}

func (r *ReleaseComponent) Post(ctx context.Context) error {
	return r.cleanup()
}

// buildForm assembles the upload: coordinates, then one numbered group of
// fields per eligible asset.
func (r *ReleaseComponent) buildForm(ctx context.Context) (*types.UploadForm, error) {
	assets, err := r.component.Assets(ctx)
	if err != nil {
		return nil, err
	}

	eligible := make([]*remote.Asset, 0, len(assets))
	for _, asset := range assets {
		if !asset.Excluded(r.opts.Excludes) {
			eligible = append(eligible, asset)
		}
	}
	if len(eligible) > types.MaxUploadAssets {
		return nil, &types.AssetLimitExceededError{Component: r.coords.String(), Count: len(eligible)}
	}

	form := &types.UploadForm{}
	form.AddField(mavenFieldPrefix+"groupId", r.coords.Group)
	form.AddField(mavenFieldPrefix+"artifactId", r.coords.Artifact)
	form.AddField(mavenFieldPrefix+"version", r.coords.Version)

	for i, asset := range eligible {
		field := fmt.Sprintf("%sasset%d", mavenFieldPrefix, i+1)
		ext := asset.Extension()

		if ext == "pom" {
			local, err := r.stagePom(ctx, asset)
			if err != nil {
				return nil, err
			}
			fs := r.opts.Area.Fs()
			form.AddFile(field, asset.Name(), func() (io.ReadCloser, error) {
				return fs.Open(local)
			})
		} else {
			asset := asset
			form.AddFile(field, asset.Name(), func() (io.ReadCloser, error) {
				return asset.Open(ctx)
			})
		}

		form.AddField(field+".extension", ext)
		if ext == "jar" && isSources(asset.Name()) {
			form.AddField(field+".classifier", "sources")
		}

		r.assets++
		r.size += asset.Record.FileSize
	}
	return form, nil
}

func (r *ReleaseComponent) stagePom(ctx context.Context, asset *remote.Asset) (string, error) {
	if r.dir == "" {
		dir, err := r.opts.Area.NewDir(r.coords.Artifact)
		if err != nil {
			return "", err
		}
		r.dir = dir
	}
	local, _, err := asset.Download(ctx, r.opts.Area.Fs(), r.dir)
	if err != nil {
		return "", err
	}
	if err := r.rewritePom(local); err != nil {
		return "", err
	}
	return local, nil
}
