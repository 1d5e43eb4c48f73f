package browse

// TagPanel is the extra-tags panel surface the dropdown controller
// drives. Implementations hold the checkbox widgets; the controller owns
// only the open/closed state and the commit rules.
type TagPanel interface {
	// SetOpen shows or hides the panel.
	SetOpen(open bool)

	// Checked returns the option values currently ticked.
	Checked() []string

	// SetChecked replaces the ticked options.
	SetChecked(values []string)

	// Governed returns every option value the panel owns. Commits touch
	// only these; tags outside the list belong to the quick filters.
	Governed() []string

	// SetBadge updates the live selection-count badge.
	SetBadge(count int)
}

// Dropdown is the open/closed state machine for the extra-tags panel.
// Checkbox changes while open are a pending selection: they reach the
// filter set only through Apply or Clear, never through dismissal.
type Dropdown struct {
	panel TagPanel
	open  bool
}

// NewDropdown creates a closed dropdown over the panel. A nil panel
// yields an inert controller.
func NewDropdown(panel TagPanel) *Dropdown {
	return &Dropdown{panel: panel}
}

func (d *Dropdown) IsOpen() bool { return d.open }

// Toggle flips between open and closed.
func (d *Dropdown) Toggle() {
	if d.panel == nil {
		return
	}
	d.open = !d.open
	d.panel.SetOpen(d.open)
}

// Dismiss closes the panel without committing the pending selection.
// Checkbox visuals are left as they are; a later Apply uses whatever
// state is showing then.
func (d *Dropdown) Dismiss() {
	if d.panel == nil || !d.open {
		return
	}
	d.open = false
	d.panel.SetOpen(false)
}

// Changed refreshes the badge from the live checkbox tally. Called on
// every checkbox change, open or closed.
func (d *Dropdown) Changed() {
	if d.panel == nil {
		return
	}
	d.panel.SetBadge(len(d.panel.Checked()))
}

// Apply closes the panel and commits the pending selection: the governed
// values are removed from current and the checked ones re-added. Tags the
// panel does not govern pass through untouched.
func (d *Dropdown) Apply(current FilterSet) FilterSet {
	if d.panel == nil {
		return current
	}
	d.close()
	return current.Without(d.panel.Governed()...).With(d.panel.Checked()...)
}

// Clear closes the panel, unticks every option and commits the empty
// selection, removing all governed values from current.
func (d *Dropdown) Clear(current FilterSet) FilterSet {
	if d.panel == nil {
		return current
	}
	d.close()
	d.panel.SetChecked(nil)
	d.panel.SetBadge(0)
	return current.Without(d.panel.Governed()...)
}

func (d *Dropdown) close() {
	if d.open {
		d.open = false
		d.panel.SetOpen(false)
	}
}
