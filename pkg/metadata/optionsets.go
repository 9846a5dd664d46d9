package metadata

import "sort"

// OptionSetEntry is one selectable answer inside a named option set. Order is
// nil when the source cell was empty or not numeric; such entries sort after
// every ordered entry.
type OptionSetEntry struct {
	OptionSet  string
	Answer     string
	Order      *float64
	ExternalID string
}

// OptionSetTable holds the option-set sheet loaded once per metadata source.
// It is read-only after construction and safe to share across concurrent
// form generations.
type OptionSetTable struct {
	entries []OptionSetEntry
}

// NewOptionSetTable builds a table over the supplied entries. The slice is
// copied; callers may reuse theirs.
func NewOptionSetTable(entries []OptionSetEntry) *OptionSetTable {
	return &OptionSetTable{entries: append([]OptionSetEntry(nil), entries...)}
}

// Len returns the number of entries across all option sets.
func (t *OptionSetTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Resolve returns the entries of the named option set sorted ascending by
// their numeric order, with unordered entries last and ties kept in source
// order. The bool reports whether the set exists at all.
func (t *OptionSetTable) Resolve(name string) ([]OptionSetEntry, bool) {
	if t == nil {
		return nil, false
	}
	var matched []OptionSetEntry
	for _, entry := range t.entries {
		if entry.OptionSet == name {
			matched = append(matched, entry)
		}
	}
	if len(matched) == 0 {
		return nil, false
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i].Order, matched[j].Order
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
	return matched, true
}
