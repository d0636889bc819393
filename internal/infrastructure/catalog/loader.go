// Package catalog loads the externally supplied menu catalog.
package catalog

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/platewise/v1/internal/domain/menu"
	"github.com/platewise/v1/internal/infrastructure/config"
)

// catalogFile is the YAML shape of an external menu file.
type catalogFile struct {
	Items []menu.Item `yaml:"items"`
}

// Load reads the configured catalog file, falling back to the built-in
// card when no file is configured.
func Load(cfg *config.MenuConfig, logger *zap.Logger) (*menu.Catalog, error) {
	if cfg.CatalogFile == "" {
		logger.Info("No catalog file configured, using built-in menu")
		return menu.NewCatalog(menu.DefaultCard()), nil
	}

	data, err := os.ReadFile(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", cfg.CatalogFile, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", cfg.CatalogFile, err)
	}
	if len(file.Items) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no items", cfg.CatalogFile)
	}

	logger.Info("Menu catalog loaded",
		zap.String("file", cfg.CatalogFile),
		zap.Int("items", len(file.Items)),
	)
	return menu.NewCatalog(file.Items), nil
}
