// Package browse implements the faceted search engine behind the recipe
// listing page: tag filters derived from the address bar, a debounced
// free-text search with at-most-one-in-flight request semantics, and a
// dropdown of extra tag filters that commits only on apply.
//
// The engine is single-owner and event-driven. All state mutation happens
// on the caller's event context; timer and network completions are
// marshalled back onto it through the configured post hook.
package browse

import (
	"net/url"
	"sort"
)

// FilterSet is an unordered, deduplicated set of tag identifiers.
// Operations returning a FilterSet never mutate the receiver.
type FilterSet map[string]struct{}

// NewFilterSet builds a set from the given tag identifiers.
func NewFilterSet(tags ...string) FilterSet {
	s := make(FilterSet, len(tags))
	for _, t := range tags {
		if t != "" {
			s[t] = struct{}{}
		}
	}
	return s
}

// ReadFilters extracts the active filter set from address query values:
// every value of the repeated "tags" parameter.
func ReadFilters(query url.Values) FilterSet {
	return NewFilterSet(query["tags"]...)
}

// Has reports membership.
func (s FilterSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

func (s FilterSet) Len() int { return len(s) }

// Toggle returns a copy of the set with tag added if absent, removed if
// present. Applying it twice with the same tag yields the original set.
func (s FilterSet) Toggle(tag string) FilterSet {
	next := s.clone()
	if next.Has(tag) {
		delete(next, tag)
	} else if tag != "" {
		next[tag] = struct{}{}
	}
	return next
}

// Without returns a copy of the set with every given tag removed.
func (s FilterSet) Without(tags ...string) FilterSet {
	next := s.clone()
	for _, t := range tags {
		delete(next, t)
	}
	return next
}

// With returns a copy of the set with every given tag added.
func (s FilterSet) With(tags ...string) FilterSet {
	next := s.clone()
	for _, t := range tags {
		if t != "" {
			next[t] = struct{}{}
		}
	}
	return next
}

// Values returns the members in sorted order so serialized forms are
// deterministic.
func (s FilterSet) Values() []string {
	values := make([]string, 0, len(s))
	for t := range s {
		values = append(values, t)
	}
	sort.Strings(values)
	return values
}

func (s FilterSet) clone() FilterSet {
	next := make(FilterSet, len(s)+1)
	for t := range s {
		next[t] = struct{}{}
	}
	return next
}
