package migratable

import (
	"context"
	"path/filepath"
	"time"

	"github.com/harness/nexus-migrate/module/maven/migrate/maven"
	"github.com/harness/nexus-migrate/module/maven/migrate/remote"
	"github.com/harness/nexus-migrate/util/common/errors"
)

// SnapshotComponent moves one component of a SNAPSHOT repository by staging
// its files and handing them to mvn deploy:deploy-file.
type SnapshotComponent struct {
	componentJob
	maven        *maven.Client
	repositoryID string
}

func NewSnapshotComponent(c *remote.Component, opts Options, client *maven.Client, repositoryID string) Job {
	return &SnapshotComponent{
		componentJob: newComponentJob(c, opts, "snapshot"),
		maven:        client,
		repositoryID: repositoryID,
	}
}

func (s *SnapshotComponent) Info() string {
	return "snapshot " + s.component.String()
}

func (s *SnapshotComponent) Pre(ctx context.Context) error {
	return s.resolve(ctx)
}

func (s *SnapshotComponent) Migrate(ctx context.Context) error {
	startTime := time.Now()
	name := s.coords.Group + ":" + s.coords.Artifact

	dir, files, err := s.component.Download(ctx, s.opts.Area, s.opts.Excludes)
	s.dir = dir
	if err != nil {
		return s.fail(errors.NewComponentError("download", name, s.coords.Version, err))
	}

	if assets, err := s.component.Assets(ctx); err == nil {
		for _, asset := range assets {
			if !asset.Excluded(s.opts.Excludes) {
				s.size += asset.Record.FileSize
			}
		}
	}

	url, err := s.opts.Destination.URL(ctx)
	if err != nil {
		return s.fail(err)
	}

	args := maven.DeployArgs{
		GroupID:      s.coords.Group,
		ArtifactID:   s.coords.Artifact,
		Version:      s.coords.Version,
		Packaging:    "jar",
		URL:          url,
		RepositoryID: s.repositoryID,
	}
	for _, file := range files {
		base := filepath.Base(file)
		switch remote.Extension(base) {
		case "jar":
			if isSources(base) {
				args.Sources = file
			} else {
				args.File = file
			}
		case "pom":
			if err := s.rewritePom(file); err != nil {
				return s.fail(errors.NewComponentError("rewrite", name, s.coords.Version, err))
			}
			args.PomFile = file
		}
	}

	if args.File == "" {
		s.skipped = true
		s.logger.Debug().Msg("No jar to deploy, skipping component")
		return nil
	}

	s.assets = len(files)
	if err := s.maven.DeployFile(ctx, args); err != nil {
		return s.fail(errors.NewComponentError("deploy", name, s.coords.Version, err))
	}

	s.logger.Info().
		Dur("duration", time.Since(startTime)).
		Msgf("Deployed %s to %s", s.coords, s.opts.Destination.Name())
	return nil
}

func (s *SnapshotComponent) Post(ctx context.Context) error {
	return s.cleanup()
}
