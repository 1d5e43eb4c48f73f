// Package storage persists the recipe catalog in a single SQLite database
// with an FTS5 index over title, description and ingredient names. All
// reads and writes go through a Store, which applies performance pragmas
// on open and runs any pending schema migrations.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/mvolkova/plateful/pkg/catalog"
	"github.com/mvolkova/plateful/pkg/db"
	"github.com/mvolkova/plateful/pkg/log"
)

// ErrNotFound is returned when a recipe with the requested ID does not exist.
var ErrNotFound = errors.New("recipe not found")

var logger = log.ForComponent("storage")

// Store wraps the SQLite database holding the recipe catalog.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dbPath, applies the performance
// pragmas and runs pending migrations.
func Open(dbPath string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA cache_size = -64000", // 64MB cache
		"PRAGMA temp_store = memory",
		"PRAGMA mmap_size = 268435456", // 256MB mmap
		"PRAGMA optimize",
	}

	for _, pragma := range pragmas {
		if _, err := sqlDB.Exec(pragma); err != nil {
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	if err := db.NewMigrationManager(sqlDB).ApplyPendingMigrations(); err != nil {
		return nil, fmt.Errorf("applying migrations: %w", err)
	}

	return &Store{db: sqlDB}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for migrations
func (s *Store) DB() *sql.DB {
	return s.db
}

// SaveRecipe stores a single recipe, replacing any existing recipe with
// the same ID.
func (s *Store) SaveRecipe(recipe catalog.Recipe) error {
	return s.SaveRecipes([]catalog.Recipe{recipe})
}

// SaveRecipes stores recipes in a single transaction, keeping the tag
// table and the FTS index in step with the main table.
func (s *Store) SaveRecipes(recipes []catalog.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				logger.Warnf("failed to rollback transaction: %v", err)
			}
		}
	}()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO recipes (id, title, description, image_path, author, tags, ingredients, steps, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			logger.Warnf("failed to close statement: %v", err)
		}
	}()

	ftsStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO recipes_fts (rowid, title, description, ingredients)
		VALUES ((SELECT rowid FROM recipes WHERE id = ?), ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing FTS statement: %w", err)
	}
	defer func() {
		if err := ftsStmt.Close(); err != nil {
			logger.Warnf("failed to close FTS statement: %v", err)
		}
	}()

	tagStmt, err := tx.Prepare(`INSERT OR IGNORE INTO recipe_tags (recipe_id, tag) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing tag statement: %w", err)
	}
	defer func() {
		if err := tagStmt.Close(); err != nil {
			logger.Warnf("failed to close tag statement: %v", err)
		}
	}()

	for _, recipe := range recipes {
		tagsJSON, err := json.Marshal(recipe.Tags)
		if err != nil {
			return fmt.Errorf("marshaling tags for recipe %s: %w", recipe.ID, err)
		}
		ingredientsJSON, err := json.Marshal(recipe.Ingredients)
		if err != nil {
			return fmt.Errorf("marshaling ingredients for recipe %s: %w", recipe.ID, err)
		}
		stepsJSON, err := json.Marshal(recipe.Steps)
		if err != nil {
			return fmt.Errorf("marshaling steps for recipe %s: %w", recipe.ID, err)
		}

		createdAt := recipe.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		_, err = stmt.Exec(
			recipe.ID,
			recipe.Title,
			recipe.Description,
			recipe.ImagePath,
			recipe.Author,
			string(tagsJSON),
			string(ingredientsJSON),
			string(stepsJSON),
			createdAt,
		)
		if err != nil {
			return fmt.Errorf("inserting recipe %s: %w", recipe.ID, err)
		}

		// Replaced rows keep their rowid, so stale tag links must go first
		if _, err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ? ", recipe.ID); err != nil {
			return fmt.Errorf("clearing tags for recipe %s: %w", recipe.ID, err)
		}
		for _, tag := range recipe.Tags {
			if _, err := tagStmt.Exec(recipe.ID, tag); err != nil {
				return fmt.Errorf("inserting tag %s for recipe %s: %w", tag, recipe.ID, err)
			}
		}

		ingredientNames := make([]string, 0, len(recipe.Ingredients))
		for _, ing := range recipe.Ingredients {
			ingredientNames = append(ingredientNames, ing.Name)
		}

		_, err = ftsStmt.Exec(
			recipe.ID,
			recipe.Title,
			recipe.Description,
			strings.Join(ingredientNames, " "),
		)
		if err != nil {
			return fmt.Errorf("indexing recipe %s: %w", recipe.ID, err)
		}
	}

	err = tx.Commit()
	if err == nil {
		committed = true
	}
	return err
}

// GetRecipe fetches a single recipe by ID. Returns ErrNotFound when the
// ID is unknown.
func (s *Store) GetRecipe(id string) (*catalog.Recipe, error) {
	row := s.db.QueryRow(`
		SELECT id, title, description, image_path, author, tags, ingredients, steps, created_at
		FROM recipes
		WHERE id = ?
	`, id)

	recipe, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// DeleteRecipe removes a recipe, its tag links and its FTS entry.
func (s *Store) DeleteRecipe(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				logger.Warnf("failed to rollback transaction: %v", err)
			}
		}
	}()

	if _, err := tx.Exec("DELETE FROM recipes_fts WHERE rowid = (SELECT rowid FROM recipes WHERE id = ?)", id); err != nil {
		return fmt.Errorf("removing recipe %s from FTS: %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id); err != nil {
		return fmt.Errorf("removing tags for recipe %s: %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM recipes WHERE id = ?", id); err != nil {
		return fmt.Errorf("removing recipe %s: %w", id, err)
	}

	err = tx.Commit()
	if err == nil {
		committed = true
	}
	return err
}

// ListRecipes returns recipes ordered by creation time (newest first).
func (s *Store) ListRecipes(limit int) ([]catalog.Recipe, error) {
	return s.SearchRecipes("", nil, limit)
}

// SearchRecipes returns recipes matching every tag in tags and, when query
// is non-empty, the FTS5 match for it. Results are ordered by creation
// time (newest first).
func (s *Store) SearchRecipes(query string, tags []string, limit int) ([]catalog.Recipe, error) {
	var conditions []string
	var args []interface{}

	if query != "" {
		escapedQuery := escapeFTS5Query(query)
		args = append(args, escapedQuery)
	}
	for _, tag := range tags {
		conditions = append(conditions, "EXISTS (SELECT 1 FROM recipe_tags rt WHERE rt.recipe_id = r.id AND rt.tag = ?)")
		args = append(args, tag)
	}
	args = append(args, limit)

	var sqlQuery string
	if query != "" {
		whereClause := ""
		if len(conditions) > 0 {
			whereClause = " AND " + strings.Join(conditions, " AND ")
		}
		sqlQuery = `
			SELECT r.id, r.title, r.description, r.image_path, r.author, r.tags, r.ingredients, r.steps, r.created_at
			FROM recipes r
			JOIN recipes_fts ON recipes_fts.rowid = r.rowid
			WHERE recipes_fts MATCH ?` + whereClause + `
			ORDER BY r.created_at DESC
			LIMIT ?`
	} else {
		whereClause := ""
		if len(conditions) > 0 {
			whereClause = " WHERE " + strings.Join(conditions, " AND ")
		}
		sqlQuery = `
			SELECT r.id, r.title, r.description, r.image_path, r.author, r.tags, r.ingredients, r.steps, r.created_at
			FROM recipes r` + whereClause + `
			ORDER BY r.created_at DESC
			LIMIT ?`
	}

	rows, err := s.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying recipes: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Warnf("failed to close rows: %v", err)
		}
	}()

	var recipes []catalog.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, *recipe)
	}

	return recipes, rows.Err()
}

// RecipeCount returns the total number of stored recipes.
func (s *Store) RecipeCount() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM recipes").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting recipes: %w", err)
	}
	return count, nil
}

// TagCounts returns how many recipes carry each tag.
func (s *Store) TagCounts() (map[string]int, error) {
	rows, err := s.db.Query("SELECT tag, COUNT(*) FROM recipe_tags GROUP BY tag")
	if err != nil {
		return nil, fmt.Errorf("counting tags: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Warnf("failed to close rows: %v", err)
		}
	}()

	counts := make(map[string]int)
	for rows.Next() {
		var tag string
		var count int
		if err := rows.Scan(&tag, &count); err != nil {
			return nil, fmt.Errorf("scanning tag count: %w", err)
		}
		counts[tag] = count
	}
	return counts, rows.Err()
}

func (s *Store) Optimize() error {
	_, err := s.db.Exec("PRAGMA optimize")
	return err
}

func (s *Store) Analyze() error {
	_, err := s.db.Exec("ANALYZE")
	return err
}

func (s *Store) Vacuum() error {
	_, err := s.db.Exec("VACUUM")
	return err
}

func (s *Store) WALCheckpoint() error {
	_, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}

// Maintain runs periodic database maintenance until ctx is cancelled.
func (s *Store) Maintain(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Optimize(); err != nil {
				logger.Warnf("optimize failed: %v", err)
			}
			if err := s.WALCheckpoint(); err != nil {
				logger.Warnf("WAL checkpoint failed: %v", err)
			}
		}
	}
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecipe(row scanner) (*catalog.Recipe, error) {
	var id, title, description, imagePath, author string
	var tagsStr, ingredientsStr, stepsStr string
	var createdAt time.Time

	err := row.Scan(&id, &title, &description, &imagePath, &author, &tagsStr, &ingredientsStr, &stepsStr, &createdAt)
	if err != nil {
		return nil, err
	}

	recipe := catalog.Recipe{
		ID:          id,
		Title:       title,
		Description: description,
		ImagePath:   imagePath,
		Author:      author,
		CreatedAt:   createdAt,
	}
	if err := json.Unmarshal([]byte(tagsStr), &recipe.Tags); err != nil {
		return nil, fmt.Errorf("unmarshaling tags for recipe %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(ingredientsStr), &recipe.Ingredients); err != nil {
		return nil, fmt.Errorf("unmarshaling ingredients for recipe %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(stepsStr), &recipe.Steps); err != nil {
		return nil, fmt.Errorf("unmarshaling steps for recipe %s: %w", id, err)
	}

	return &recipe, nil
}

// escapeFTS5Query prevents SQL injection while allowing all FTS5 syntax
func escapeFTS5Query(query string) string {
	// The query is used in a parameterized query with MATCH ?,
	// so SQL injection is already prevented by SQLite's parameter binding.
	// We just need to return the query as-is to allow full FTS5 syntax.
	return query
}
