package browse

import (
	"reflect"
	"testing"
)

// fakePanel is a TagPanel backed by plain fields.
type fakePanel struct {
	open     bool
	checked  []string
	governed []string
	badge    int
}

func (p *fakePanel) SetOpen(open bool)          { p.open = open }
func (p *fakePanel) Checked() []string          { return p.checked }
func (p *fakePanel) SetChecked(values []string) { p.checked = values }
func (p *fakePanel) Governed() []string         { return p.governed }
func (p *fakePanel) SetBadge(count int)         { p.badge = count }

func TestToggleFlipsOpenState(t *testing.T) {
	panel := &fakePanel{}
	d := NewDropdown(panel)

	if d.IsOpen() {
		t.Fatal("dropdown starts open, want closed")
	}
	d.Toggle()
	if !d.IsOpen() || !panel.open {
		t.Error("dropdown not open after Toggle")
	}
	d.Toggle()
	if d.IsOpen() || panel.open {
		t.Error("dropdown not closed after second Toggle")
	}
}

func TestDismissClosesWithoutTouchingCheckboxes(t *testing.T) {
	panel := &fakePanel{governed: []string{"gluten-free", "spicy"}}
	d := NewDropdown(panel)

	d.Toggle()
	panel.checked = []string{"gluten-free"}
	d.Dismiss()

	if d.IsOpen() || panel.open {
		t.Error("dropdown still open after Dismiss")
	}
	if !reflect.DeepEqual(panel.checked, []string{"gluten-free"}) {
		t.Errorf("checkboxes changed by Dismiss: %v", panel.checked)
	}
}

func TestApplyCommitsCheckedPreservingQuickTags(t *testing.T) {
	panel := &fakePanel{governed: []string{"gluten-free", "spicy", "vegetarian"}}
	d := NewDropdown(panel)

	d.Toggle()
	panel.checked = []string{"spicy"}

	// "vegan" is a quick tag, "gluten-free" a previously committed extra.
	current := NewFilterSet("vegan", "gluten-free")
	got := d.Apply(current)

	want := []string{"spicy", "vegan"}
	if !reflect.DeepEqual(got.Values(), want) {
		t.Errorf("committed set = %v, want %v", got.Values(), want)
	}
	if d.IsOpen() {
		t.Error("dropdown still open after Apply")
	}
}

func TestClearRemovesGovernedAndUnticks(t *testing.T) {
	panel := &fakePanel{
		governed: []string{"gluten-free", "spicy"},
		checked:  []string{"gluten-free", "spicy"},
		badge:    2,
	}
	d := NewDropdown(panel)
	d.Toggle()

	got := d.Clear(NewFilterSet("vegan", "gluten-free", "spicy"))

	if !reflect.DeepEqual(got.Values(), []string{"vegan"}) {
		t.Errorf("committed set = %v, want [vegan]", got.Values())
	}
	if len(panel.checked) != 0 {
		t.Errorf("checkboxes still ticked after Clear: %v", panel.checked)
	}
	if panel.badge != 0 {
		t.Errorf("badge = %d, want 0", panel.badge)
	}
}

func TestChangedUpdatesBadge(t *testing.T) {
	panel := &fakePanel{checked: []string{"gluten-free", "spicy"}}
	d := NewDropdown(panel)

	// Badge tracks the live tally even while closed.
	d.Changed()
	if panel.badge != 2 {
		t.Errorf("badge = %d, want 2", panel.badge)
	}

	panel.checked = nil
	d.Changed()
	if panel.badge != 0 {
		t.Errorf("badge = %d, want 0", panel.badge)
	}
}

func TestNilPanelIsInert(t *testing.T) {
	d := NewDropdown(nil)

	d.Toggle()
	d.Changed()
	d.Dismiss()

	current := NewFilterSet("vegan")
	if got := d.Apply(current); !reflect.DeepEqual(got.Values(), current.Values()) {
		t.Errorf("Apply changed set without a panel: %v", got.Values())
	}
	if got := d.Clear(current); !reflect.DeepEqual(got.Values(), current.Values()) {
		t.Errorf("Clear changed set without a panel: %v", got.Values())
	}
}
