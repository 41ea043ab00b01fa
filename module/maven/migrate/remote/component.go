package remote

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/harness/nexus-migrate/module/maven/migrate/staging"
	"github.com/harness/nexus-migrate/module/maven/migrate/types"

	"github.com/spf13/afero"
)

// Component is a listed component. Summary is the record from the listing
// and never changes; the detail record is fetched only when the summary
// lacks something.
type Component struct {
	repo    *Repository
	Summary types.ComponentRecord

	detail lazy[*types.ComponentRecord]
	assets lazy[[]*Asset]
}

func (c *Component) Repository() *Repository {
	return c.repo
}

func (c *Component) ID() string {
	return c.Summary.ID
}

func (c *Component) String() string {
	return fmt.Sprintf("%s:%s:%s", c.Summary.Group, c.Summary.Name, c.Summary.Version)
}

// Detail fetches the full component record.
func (c *Component) Detail(ctx context.Context) (*types.ComponentRecord, error) {
	return c.detail.get(func() (*types.ComponentRecord, error) {
		return c.repo.remote.adapter.GetComponent(ctx, c.Summary.ID)
	})
}

// Coordinates returns group, artifact and version, consulting the detail
// record only for values missing from the summary.
func (c *Component) Coordinates(ctx context.Context) (types.Coordinates, error) {
	coords := types.Coordinates{Group: c.Summary.Group, Artifact: c.Summary.Name, Version: c.Summary.Version}
	if coords.Group != "" && coords.Artifact != "" && coords.Version != "" {
		return coords, nil
	}
	detail, err := c.Detail(ctx)
	if err != nil {
		return types.Coordinates{}, err
	}
	if coords.Group == "" {
		coords.Group = detail.Group
	}
	if coords.Artifact == "" {
		coords.Artifact = detail.Name
	}
	if coords.Version == "" {
		coords.Version = detail.Version
	}
	return coords, nil
}

// Assets returns the component's assets. Incomplete asset records are
// resolved through the asset endpoint.
func (c *Component) Assets(ctx context.Context) ([]*Asset, error) {
	return c.assets.get(func() ([]*Asset, error) {
		records := c.Summary.Assets
		if len(records) == 0 {
			detail, err := c.Detail(ctx)
			if err != nil {
				return nil, err
			}
			records = detail.Assets
		}

		assets := make([]*Asset, 0, len(records))
		for _, rec := range records {
			if !rec.Complete() {
				full, err := c.repo.remote.adapter.GetAsset(ctx, rec.ID)
				if err != nil {
					return nil, err
				}
				rec = *full
			}
			assets = append(assets, &Asset{component: c, Record: rec})
		}
		return assets, nil
	})
}

// Download stages every non-excluded asset into a new directory of area
// and returns the directory and the staged file paths.
func (c *Component) Download(ctx context.Context, area *staging.Area, excludes map[string]struct{}) (string, []string, error) {
	assets, err := c.Assets(ctx)
	if err != nil {
		return "", nil, err
	}
	dir, err := area.NewDir(c.Summary.Name)
	if err != nil {
		return "", nil, err
	}

	files := make([]string, 0, len(assets))
	for _, asset := range assets {
		if asset.Excluded(excludes) {
			continue
		}
		local, _, err := asset.Download(ctx, area.Fs(), dir)
		if err != nil {
			return dir, files, err
		}
		files = append(files, local)
	}
	return dir, files, nil
}

// Asset is a single file of a component.
type Asset struct {
	component *Component
	Record    types.AssetRecord
}

// Name is the last segment of the asset path.
func (a *Asset) Name() string {
	return path.Base(a.Record.Path)
}

// Extension is the text after the last dot of the name.
func (a *Asset) Extension() string {
	return Extension(a.Name())
}

// Extension returns the text after the last dot of a file name, so
// "lib.jar.sha1" yields "sha1".
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return name[i+1:]
}

func (a *Asset) Excluded(excludes map[string]struct{}) bool {
	_, ok := excludes[a.Extension()]
	return ok
}

// Open streams the asset from the repository.
func (a *Asset) Open(ctx context.Context) (io.ReadCloser, error) {
	return a.component.repo.remote.adapter.OpenAsset(ctx, a.Record.DownloadURL)
}

// Download writes the asset into dir unless an identical copy is already
// there. It returns the local path and whether bytes were transferred.
func (a *Asset) Download(ctx context.Context, fs afero.Fs, dir string) (string, bool, error) {
	local := filepath.Join(dir, a.Name())
	fetched, err := staging.Fetch(ctx, fs, local, a.Record.Checksum.MD5, a.Open)
	if err != nil {
		return "", false, fmt.Errorf("failed to download %s: %w", a.Record.Path, err)
	}
	return local, fetched, nil
}
