package browse

import "net/url"

// Descriptor identifies one search: the active tag filters plus the
// free-text term. It is the single serialized form shared by the address
// bar and the outgoing request URL; the two must never diverge, since the
// address is the replayable form of the request.
type Descriptor struct {
	Tags FilterSet
	Text string
}

// NewDescriptor builds a descriptor from the current filters and text.
func NewDescriptor(tags FilterSet, text string) Descriptor {
	return Descriptor{Tags: tags, Text: text}
}

// Values serializes the descriptor into query values: one repeated "tags"
// entry per filter in sorted order, plus "q" when text is non-empty.
func (d Descriptor) Values() url.Values {
	values := url.Values{}
	for _, tag := range d.Tags.Values() {
		values.Add("tags", tag)
	}
	if d.Text != "" {
		values.Set("q", d.Text)
	}
	return values
}

// Encode returns the canonical query-string form of the descriptor.
func (d Descriptor) Encode() string {
	return d.Values().Encode()
}
