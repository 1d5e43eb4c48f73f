package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// OptimizeCommand creates the optimize command
func OptimizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "optimize",
		Usage: "Database optimization and maintenance commands",
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "Run ANALYZE to update query planner statistics",
				Action: func(ctx context.Context, c *cli.Command) error {
					return runMaintenance(c.String("config"), "ANALYZE", func(s dbMaintainer) error {
						return s.Analyze()
					})
				},
			},
			{
				Name:  "vacuum",
				Usage: "Run VACUUM to defragment the database",
				Action: func(ctx context.Context, c *cli.Command) error {
					fmt.Println("This may take a while for large databases...")
					return runMaintenance(c.String("config"), "VACUUM", func(s dbMaintainer) error {
						return s.Vacuum()
					})
				},
			},
			{
				Name:  "checkpoint",
				Usage: "Run WAL checkpoint to flush changes",
				Action: func(ctx context.Context, c *cli.Command) error {
					return runMaintenance(c.String("config"), "WAL checkpoint", func(s dbMaintainer) error {
						return s.WALCheckpoint()
					})
				},
			},
			{
				Name:  "all",
				Usage: "Run all optimization operations (optimize, analyze, checkpoint)",
				Action: func(ctx context.Context, c *cli.Command) error {
					return optimizeAll(c.String("config"))
				},
			},
		},
	}
}

type dbMaintainer interface {
	Optimize() error
	Analyze() error
	Vacuum() error
	WALCheckpoint() error
}

func runMaintenance(configPath, name string, op func(dbMaintainer) error) error {
	_, store, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer closeStore(store)

	fmt.Printf("Running %s...\n", name)
	if err := op(store); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}

	fmt.Printf("✓ %s completed successfully\n", name)
	return nil
}

// optimizeAll runs all optimization operations
func optimizeAll(configPath string) error {
	_, store, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer closeStore(store)

	fmt.Println("Running all optimization operations...")
	fmt.Println()

	fmt.Println("Running PRAGMA optimize...")
	if err := store.Optimize(); err != nil {
		return fmt.Errorf("optimizing: %w", err)
	}
	fmt.Println("✓ PRAGMA optimize completed")
	fmt.Println()

	fmt.Println("Running ANALYZE...")
	if err := store.Analyze(); err != nil {
		return fmt.Errorf("analyzing: %w", err)
	}
	fmt.Println("✓ ANALYZE completed")
	fmt.Println()

	fmt.Println("Running WAL checkpoint...")
	if err := store.WALCheckpoint(); err != nil {
		return fmt.Errorf("checkpointing: %w", err)
	}
	fmt.Println("✓ WAL checkpoint completed")

	fmt.Println()
	fmt.Println("All optimization operations completed successfully")
	return nil
}
