package cmd

import (
	"fmt"

	"github.com/Rana718/Forge/internal/config"
	"github.com/Rana718/Forge/internal/metadata"
)

// catalogFlag overrides the configured catalog path for one invocation.
var catalogFlag string

func catalogPath(cfg *config.Config) string {
	if catalogFlag != "" {
		return catalogFlag
	}
	return cfg.CatalogPath
}

// loadCatalog loads the config and the catalog it points at, validating
// both. Every command that reads table definitions starts here.
func loadCatalog() (*config.Config, *metadata.Catalog, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	catalog, err := metadata.LoadFile(catalogPath(cfg))
	if err != nil {
		return nil, nil, err
	}
	if err := catalog.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, catalog, nil
}
