package nexus

import (
	"context"
	"fmt"
	"io"

	adp "github.com/harness/nexus-migrate/module/maven/migrate/adapter"
	"github.com/harness/nexus-migrate/module/maven/migrate/types"

	"github.com/rs/zerolog"
)

func init() {
	adapterType := types.NEXUS
	if err := adp.RegisterFactory(adapterType, new(factory)); err != nil {
		return
	}
}

// factory section
type factory struct {
}

// Create an adapter section
func (f factory) Create(ctx context.Context, config types.RegistryConfig, logger zerolog.Logger) (adp.Adapter, error) {
	return newAdapter(config, logger)
}

// adapter section
type adapter struct {
	client *client
	reg    types.RegistryConfig
}

func newAdapter(config types.RegistryConfig, logger zerolog.Logger) (adp.Adapter, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("nexus endpoint cannot be empty")
	}
	return &adapter{
		client: newClient(&config, logger.With().Str("endpoint", config.Endpoint).Logger()),
		reg:    config,
	}, nil
}

func (a *adapter) GetConfig() types.RegistryConfig {
	return a.reg
}

func (a *adapter) ValidateCredentials(ctx context.Context) (bool, error) {
	// Listing repositories requires an authenticated user
	_, err := a.client.getRepositories(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: %v", types.ErrInvalidCredentials, err)
	}
	return true, nil
}

func (a *adapter) ListRepositories(ctx context.Context) ([]types.RepositoryInfo, error) {
	return a.client.getRepositories(ctx)
}

func (a *adapter) GetRepositoryDetail(ctx context.Context, info types.RepositoryInfo) (*types.RepositoryDetail, error) {
	return a.client.getRepositoryDetails(ctx, info)
}

func (a *adapter) ListComponents(ctx context.Context, repository, continuationToken string) (*types.ComponentPage, error) {
	return a.client.listComponents(ctx, repository, continuationToken)
}

func (a *adapter) GetComponent(ctx context.Context, id string) (*types.ComponentRecord, error) {
	return a.client.getComponent(ctx, id)
}

func (a *adapter) GetAsset(ctx context.Context, id string) (*types.AssetRecord, error) {
	return a.client.getAsset(ctx, id)
}

func (a *adapter) OpenAsset(ctx context.Context, downloadURL string) (io.ReadCloser, error) {
	return a.client.openAsset(ctx, downloadURL)
}

func (a *adapter) UploadComponent(ctx context.Context, repository string, form *types.UploadForm) error {
	return a.client.uploadComponent(ctx, repository, form)
}
