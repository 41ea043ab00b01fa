// Package remote models the repositories, components and assets of a nexus
// instance on top of an adapter. Details are fetched on first use and kept.
package remote

import (
	"context"
	"fmt"

	"github.com/harness/nexus-migrate/module/maven/migrate/adapter"
	"github.com/harness/nexus-migrate/module/maven/migrate/types"

	"github.com/rs/zerolog"
)

// Remote is a nexus instance.
type Remote struct {
	adapter adapter.Adapter
	logger  zerolog.Logger
	repos   lazy[[]types.RepositoryInfo]
}

func New(a adapter.Adapter, logger zerolog.Logger) *Remote {
	return &Remote{adapter: a, logger: logger}
}

func (r *Remote) Adapter() adapter.Adapter {
	return r.adapter
}

// ListRepositories returns the repository listing, fetched once.
func (r *Remote) ListRepositories(ctx context.Context) ([]types.RepositoryInfo, error) {
	return r.repos.get(func() ([]types.RepositoryInfo, error) {
		return r.adapter.ListRepositories(ctx)
	})
}

// Repository finds a repository by name.
func (r *Remote) Repository(ctx context.Context, name string) (*Repository, error) {
	infos, err := r.ListRepositories(ctx)
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		if info.Name == name {
			return &Repository{remote: r, info: info}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", types.ErrRepositoryNotFound, name)
}

// Repository is one repository of a Remote.
type Repository struct {
	remote *Remote
	info   types.RepositoryInfo
	detail lazy[*types.RepositoryDetail]
}

func (r *Repository) Info() types.RepositoryInfo {
	return r.info
}

func (r *Repository) Name() string {
	return r.info.Name
}

func (r *Repository) Format() string {
	return r.info.Format
}

func (r *Repository) Type() string {
	return r.info.Type
}

// Detail returns the full repository configuration.
func (r *Repository) Detail(ctx context.Context) (*types.RepositoryDetail, error) {
	return r.detail.get(func() (*types.RepositoryDetail, error) {
		return r.remote.adapter.GetRepositoryDetail(ctx, r.info)
	})
}

// URL is the repository's public address.
func (r *Repository) URL(ctx context.Context) (string, error) {
	if r.info.URL != "" {
		return r.info.URL, nil
	}
	detail, err := r.Detail(ctx)
	if err != nil {
		return "", err
	}
	return detail.URL, nil
}

// VersionPolicy is only defined for maven2 repositories that are not
// groups. Other repositories report an empty policy.
func (r *Repository) VersionPolicy(ctx context.Context) (types.VersionPolicy, error) {
	if r.info.Format != types.FormatMaven2 || r.info.Type == types.TypeGroup {
		return "", nil
	}
	detail, err := r.Detail(ctx)
	if err != nil {
		return "", err
	}
	if detail.Maven == nil {
		return "", nil
	}
	return detail.Maven.VersionPolicy, nil
}

// Components starts a new listing of the repository.
func (r *Repository) Components() *Pager {
	return &Pager{repo: r}
}

func (r *Repository) UploadComponent(ctx context.Context, form *types.UploadForm) error {
	return r.remote.adapter.UploadComponent(ctx, r.info.Name, form)
}
