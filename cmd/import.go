package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mvolkova/plateful/pkg/catalog"
	"github.com/urfave/cli/v3"
)

// ImportCommand creates the import command
func ImportCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import recipes from a JSON file",
		ArgsUsage: "<file.json>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Validate the file without writing to the database",
				Value: false,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one file argument")
			}
			return importRecipes(c.String("config"), c.Args().First(), c.Bool("dry-run"))
		},
	}
}

// importRecipes reads a JSON array of recipes, validates each one and saves
// the batch in a single transaction.
func importRecipes(configPath, filePath string, dryRun bool) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filePath, err)
	}

	var recipes []catalog.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return fmt.Errorf("parsing %s: %w", filePath, err)
	}

	if len(recipes) == 0 {
		fmt.Println("No recipes found in file")
		return nil
	}

	cfg, store, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer closeStore(store)

	cat := catalogFromConfig(cfg)

	for i := range recipes {
		if err := recipes[i].Validate(); err != nil {
			return fmt.Errorf("recipe %d (%q): %w", i+1, recipes[i].Title, err)
		}
		if recipes[i].ID == "" {
			recipes[i].ID = uuid.NewString()
		}
		if recipes[i].CreatedAt.IsZero() {
			recipes[i].CreatedAt = time.Now().UTC()
		}
		recipes[i].Tags = cat.Normalize(recipes[i].Tags)
	}

	if dryRun {
		fmt.Printf("Validated %d recipes (dry run, nothing written)\n", len(recipes))
		return nil
	}

	if err := store.SaveRecipes(recipes); err != nil {
		return fmt.Errorf("saving recipes: %w", err)
	}

	fmt.Printf("Imported %d recipes\n", len(recipes))
	return nil
}
