package shared

// Filter represents query filter options.
// Filters holds raw query parameter values keyed by their external name;
// each resource decides which of them it understands.
type Filter struct {
	Limit   int
	Search  string
	Filters map[string]string
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Filters: make(map[string]string),
	}
}

// Get returns a filter value and whether it was set to a non-empty value
func (f Filter) Get(key string) (string, bool) {
	if f.Filters == nil {
		return "", false
	}
	v, ok := f.Filters[key]
	return v, ok && v != ""
}
