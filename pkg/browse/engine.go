package browse

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ResultsRegion receives rendered result fragments. SetContent replaces
// the region's entire content verbatim; the server is trusted to emit
// sanitized markup.
type ResultsRegion interface {
	SetContent(html string)
}

// TextField is the free-text query input.
type TextField interface {
	Value() string
	SetValue(value string)
}

// Config wires an Engine to its platform binding. Every anchor is
// optional: a missing capability degrades that part of the engine
// silently instead of failing.
type Config struct {
	// SearchURL is the search endpoint, taken from the form's
	// configuration data.
	SearchURL string

	// Address is the page address at construction time; the initial
	// filter set is read from its query.
	Address *url.URL

	Navigator Navigator
	Results   ResultsRegion
	Text      TextField
	Panel     TagPanel

	// Client issues search requests. Nil falls back to http.DefaultClient.
	Client *http.Client

	// Debounce overrides the text-input delay. Zero means DefaultDebounce.
	Debounce time.Duration

	// Post marshals timer and network completions onto the engine
	// owner's event context. Nil runs them inline, which is only safe
	// when the owner tolerates calls from other goroutines.
	Post func(func())
}

// Engine orchestrates the listing page: tag filters, the extra-tags
// dropdown, the debounced text search and the address bar. One instance
// owns one page's anchors and one in-flight-request slot.
type Engine struct {
	filters  FilterSet
	nav      Navigator
	results  ResultsRegion
	text     TextField
	dropdown *Dropdown
	debounce *Debouncer
	searcher *Searcher
}

// New constructs an engine, deriving the initial filter set from the
// address query.
func New(cfg Config) *Engine {
	filters := NewFilterSet()
	if cfg.Address != nil {
		filters = ReadFilters(cfg.Address.Query())
	}

	return &Engine{
		filters:  filters,
		nav:      cfg.Navigator,
		results:  cfg.Results,
		text:     cfg.Text,
		dropdown: NewDropdown(cfg.Panel),
		debounce: NewDebouncer(cfg.Debounce, cfg.Post),
		searcher: NewSearcher(cfg.SearchURL, cfg.Client, cfg.Post),
	}
}

// Filters returns the committed filter set.
func (e *Engine) Filters() FilterSet {
	return e.filters
}

// ToggleTag handles a quick tag-button click: flip the tag and navigate.
// No debounce on this path.
func (e *Engine) ToggleTag(tag string) {
	e.filters = e.filters.Toggle(tag)
	e.navigate()
}

// ResetFilters handles the reset-all control: drop every tag and
// navigate.
func (e *Engine) ResetFilters() {
	e.filters = NewFilterSet()
	e.navigate()
}

// PanelToggle handles the extra-tags toggle button.
func (e *Engine) PanelToggle() {
	e.dropdown.Toggle()
}

// PanelDismiss handles outside-click or escape while the panel is open.
// The pending selection is not committed and no navigation happens.
func (e *Engine) PanelDismiss() {
	e.dropdown.Dismiss()
}

// PanelChanged handles a checkbox change inside the panel.
func (e *Engine) PanelChanged() {
	e.dropdown.Changed()
}

// PanelApply commits the panel's checkbox state into the filter set and
// navigates.
func (e *Engine) PanelApply() {
	e.filters = e.dropdown.Apply(e.filters)
	e.navigate()
}

// PanelClear empties the panel's selection, commits and navigates.
func (e *Engine) PanelClear() {
	e.filters = e.dropdown.Clear(e.filters)
	e.navigate()
}

// TextChanged handles a text-input event by scheduling a debounced
// search with whatever value the field holds when the delay elapses.
func (e *Engine) TextChanged() {
	e.debounce.Schedule(e.dispatchSearch)
}

// Submit handles the search form submit: trim the text and dispatch
// immediately, dropping any pending debounced dispatch so it does not
// also fire afterwards.
func (e *Engine) Submit() {
	if e.text != nil {
		e.text.SetValue(strings.TrimSpace(e.text.Value()))
	}
	e.debounce.Cancel()
	e.dispatchSearch()
}

// ClearSearch handles the clear-search control: empty the field, rewrite
// the address in place and re-dispatch immediately. Text-only clears
// never force a full reload.
func (e *Engine) ClearSearch() {
	if e.text != nil {
		e.text.SetValue("")
	}
	e.debounce.Cancel()
	e.dispatchSearch()
}

// dispatchSearch builds the descriptor from current state, mirrors it
// into the address and issues the request. The address rewrite and the
// request URL share one serialization.
func (e *Engine) dispatchSearch() {
	d := NewDescriptor(e.filters, e.textValue())
	if e.nav != nil {
		e.nav.Replace(d.Encode())
	}
	e.searcher.Dispatch(d, func(html string) {
		if e.results != nil {
			e.results.SetContent(html)
		}
	})
}

// navigate performs the full-reload path used by filter commits. Only
// the filter set travels; the server re-renders the page furniture.
func (e *Engine) navigate() {
	e.debounce.Cancel()
	e.searcher.CancelOutstanding()
	if e.nav != nil {
		e.nav.Navigate(NewDescriptor(e.filters, "").Encode())
	}
}

func (e *Engine) textValue() string {
	if e.text == nil {
		return ""
	}
	return e.text.Value()
}
