package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/harness/nexus-migrate/module/maven/migrate/types"

	"github.com/rs/zerolog"
)

// Adapter is the repository manager contract used by the migration.
type Adapter interface {
	GetConfig() types.RegistryConfig
	ValidateCredentials(ctx context.Context) (bool, error)
	ListRepositories(ctx context.Context) ([]types.RepositoryInfo, error)
	GetRepositoryDetail(ctx context.Context, info types.RepositoryInfo) (*types.RepositoryDetail, error)
	ListComponents(ctx context.Context, repository, continuationToken string) (*types.ComponentPage, error)
	GetComponent(ctx context.Context, id string) (*types.ComponentRecord, error)
	GetAsset(ctx context.Context, id string) (*types.AssetRecord, error)
	OpenAsset(ctx context.Context, downloadURL string) (io.ReadCloser, error)
	UploadComponent(ctx context.Context, repository string, form *types.UploadForm) error
}

var (
	mu       sync.RWMutex
	registry = map[types.RegistryType]Factory{}
)

type Factory interface {
	Create(ctx context.Context, config types.RegistryConfig, logger zerolog.Logger) (Adapter, error)
}

// RegisterFactory registers one adapter factory to the registry.
func RegisterFactory(t types.RegistryType, factory Factory) error {
	if len(t) == 0 {
		return errors.New("invalid type")
	}
	if factory == nil {
		return errors.New("empty adapter factory")
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exist := registry[t]; exist {
		return fmt.Errorf("adapter factory for %s already exists", t)
	}
	registry[t] = factory
	return nil
}

// GetFactory gets the adapter factory by the specified name.
func GetFactory(t types.RegistryType) (Factory, error) {
	mu.RLock()
	defer mu.RUnlock()
	factory, exist := registry[t]
	if !exist {
		return nil, fmt.Errorf("adapter factory for %s not found", t)
	}
	return factory, nil
}

func GetAdapter(ctx context.Context, cfg types.RegistryConfig, logger zerolog.Logger) (Adapter, error) {
	factory, err := GetFactory(cfg.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to get adapter factory: %w", err)
	}
	adapter, err := factory.Create(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create adapter: %w", err)
	}
	return adapter, nil
}
