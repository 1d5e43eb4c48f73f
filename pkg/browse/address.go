package browse

// Navigator reflects engine state into the navigable address. The engine
// only produces query strings; ownership of the address itself stays with
// the platform binding.
type Navigator interface {
	// Replace rewrites the current address's query portion in place,
	// without creating a history entry. Used on every keystroke-driven
	// search so back-navigation does not step through searches.
	Replace(query string)

	// Navigate performs a full navigation to the listing page with the
	// given query, creating a history entry and re-rendering from the
	// server. Used when a filter commit must also refresh server-rendered
	// furniture the fragment path does not touch.
	Navigate(query string)
}
