package domain

// FilterCriteria is a per-frame value: which capabilities are required and which
// name substring to look for.
type FilterCriteria struct {
	RequiredCapabilities CapabilitySet
	Search               string
}

// IsEmpty reports whether the criteria let everything through.
func (c FilterCriteria) IsEmpty() bool {
	return len(c.RequiredCapabilities) == 0 && c.Search == ""
}
