package mapping

import "sort"

// OverrideTable maps an exact module directory name or test file base name to
// the explicit prefixes it should select. Keys are matched exactly.
type OverrideTable struct {
	entries map[string][]string
}

// NewOverrideTable copies entries into a read-only table.
func NewOverrideTable(entries map[string][]string) OverrideTable {
	copied := make(map[string][]string, len(entries))
	for k, v := range entries {
		prefixes := make([]string, len(v))
		copy(prefixes, v)
		copied[k] = prefixes
	}
	return OverrideTable{entries: copied}
}

// Lookup returns the prefixes configured for key.
func (t OverrideTable) Lookup(key string) ([]string, bool) {
	v, ok := t.entries[key]
	if !ok {
		return nil, false
	}
	out := make([]string, len(v))
	copy(out, v)
	return out, true
}

// Keys returns the configured keys in lexical order.
func (t OverrideTable) Keys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries.
func (t OverrideTable) Len() int {
	return len(t.entries)
}
