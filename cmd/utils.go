package cmd

import (
	"fmt"

	"github.com/mvolkova/plateful/pkg/catalog"
	"github.com/mvolkova/plateful/pkg/config"
	"github.com/mvolkova/plateful/pkg/storage"
)

// catalogFromConfig builds the tag catalog from the configured quick and
// extra tag lists.
func catalogFromConfig(cfg *config.Config) *catalog.Catalog {
	return catalog.New(configTags(cfg.Tags.Quick), configTags(cfg.Tags.Extra))
}

func configTags(infos []config.TagInfo) []catalog.Tag {
	tags := make([]catalog.Tag, 0, len(infos))
	for _, info := range infos {
		tags = append(tags, catalog.Tag{Value: info.Value, Label: info.Label})
	}
	return tags
}

// openStore loads the configuration and opens the recipe database it points
// at, running any pending migrations.
func openStore(configPath string) (*config.Config, *storage.Store, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	store, err := storage.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database %s: %w", cfg.Database, err)
	}

	return cfg, store, nil
}

func closeStore(store *storage.Store) {
	if err := store.Close(); err != nil {
		fmt.Printf("Warning: failed to close database: %v\n", err)
	}
}
