// Package ingredients provides the ingredient catalog backing the recipe
// form's autocomplete. Names are normalized so that "Tomatoes (canned)" and
// "tomatoes, chopped" both resolve to the same canonical entry.
package ingredients

import (
	"regexp"
	"sort"
	"strings"
)

// Entry is a canonical ingredient with its customary measuring unit.
type Entry struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// Catalog answers autocomplete queries over a fixed set of canonical
// ingredients plus an alias table mapping common variants to canonicals.
type Catalog struct {
	entries []Entry
	byName  map[string]Entry
	aliases map[string]string
}

var (
	parenRe    = regexp.MustCompile(`\([^)]*\)`)
	nonWordRe  = regexp.MustCompile(`[^0-9a-z\s-]`)
	multiSpace = regexp.MustCompile(`\s+`)
)

// Normalize lowercases an ingredient name, strips parentheticals, cuts at the
// first separator and collapses whitespace. Returns "" for unusable input.
func Normalize(value string) string {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	cleaned = parenRe.ReplaceAllString(cleaned, " ")
	for _, separator := range []string{",", ";", "/"} {
		if idx := strings.Index(cleaned, separator); idx >= 0 {
			cleaned = cleaned[:idx]
		}
	}
	cleaned = nonWordRe.ReplaceAllString(cleaned, " ")
	cleaned = multiSpace.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// New builds a catalog from canonical entries and an alias table. Alias keys
// and entry names are normalized on the way in.
func New(entries []Entry, aliases map[string]string) *Catalog {
	c := &Catalog{
		byName:  make(map[string]Entry, len(entries)),
		aliases: make(map[string]string, len(aliases)),
	}
	for _, e := range entries {
		name := Normalize(e.Name)
		if name == "" {
			continue
		}
		if _, dup := c.byName[name]; dup {
			continue
		}
		e.Name = name
		c.entries = append(c.entries, e)
		c.byName[name] = e
	}
	sort.Slice(c.entries, func(i, j int) bool { return c.entries[i].Name < c.entries[j].Name })
	for alias, canonical := range aliases {
		alias = Normalize(alias)
		canonical = Normalize(canonical)
		if alias == "" || canonical == "" {
			continue
		}
		c.aliases[alias] = canonical
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(defaultEntries, defaultAliases)
}

// Len returns the number of canonical entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Resolve maps a raw ingredient name to its canonical entry, following the
// alias table. The second result is false when the name is not in the catalog.
func (c *Catalog) Resolve(raw string) (Entry, bool) {
	name := Normalize(raw)
	if name == "" {
		return Entry{}, false
	}
	if canonical, ok := c.aliases[name]; ok {
		name = canonical
	}
	e, ok := c.byName[name]
	return e, ok
}

// Suggest returns up to limit entries matching the query: prefix matches
// first, then substring matches, each group alphabetical. An empty query
// returns nothing.
func (c *Catalog) Suggest(query string, limit int) []Entry {
	query = Normalize(query)
	if query == "" || limit <= 0 {
		return nil
	}

	var prefix, substring []Entry
	for _, e := range c.entries {
		switch {
		case strings.HasPrefix(e.Name, query):
			prefix = append(prefix, e)
		case strings.Contains(e.Name, query):
			substring = append(substring, e)
		}
	}

	out := append(prefix, substring...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
