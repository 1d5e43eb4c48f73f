package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mvolkova/plateful/pkg/render"
	"github.com/mvolkova/plateful/pkg/search"
	"github.com/urfave/cli/v3"
)

// Define styles using lipgloss
var (
	searchTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("86"))

	searchMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	searchTagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	searchCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	noResultsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search recipes from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "query",
				Usage: "Full-text search query",
			},
			&cli.StringSliceFlag{
				Name:  "tag",
				Usage: "Filter by tag. Can be used multiple times (all must match)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results",
				Value: 10,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return searchRecipes(c.String("config"), c.String("query"), c.StringSlice("tag"), c.Int("limit"))
		},
	}
}

// searchRecipes searches the recipe database and prints matching cards
func searchRecipes(configPath, query string, tags []string, limit int) error {
	cfg, store, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer closeStore(store)

	cat := catalogFromConfig(cfg)
	svc := search.NewService(store, cat)

	recipes, err := svc.Search(search.Params{Query: query, Tags: tags, Limit: limit})
	if err != nil {
		return fmt.Errorf("searching recipes: %w", err)
	}

	if len(recipes) == 0 {
		fmt.Println(noResultsStyle.Render("No recipes found"))
		return nil
	}

	for _, recipe := range recipes {
		var b strings.Builder
		b.WriteString(searchTitleStyle.Render(recipe.Title))
		b.WriteString("\n")

		meta := render.FormatTime(recipe.CreatedAt)
		if recipe.Author != "" {
			meta = recipe.Author + " · " + meta
		}
		b.WriteString(searchMetaStyle.Render(meta))

		if len(recipe.Tags) > 0 {
			labels := make([]string, len(recipe.Tags))
			for i, tag := range recipe.Tags {
				labels[i] = cat.LabelFor(tag)
			}
			b.WriteString("\n")
			b.WriteString(searchTagStyle.Render(strings.Join(labels, ", ")))
		}

		if recipe.Description != "" {
			b.WriteString("\n")
			b.WriteString(recipe.Description)
		}

		fmt.Println(searchCardStyle.Render(b.String()))
	}

	fmt.Printf("Total: %d recipes\n", len(recipes))
	return nil
}
