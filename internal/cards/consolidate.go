package cards

import "strings"

// groupKey identifies a logical deck entry: two physical cards with the same
// name, kind, and cost signature collapse into one consolidated entry.
type groupKey struct {
	name    string
	kind    Kind
	generic int
	pips    string
}

func keyOf(e Entry) groupKey {
	return groupKey{
		name:    e.Name,
		kind:    e.Kind,
		generic: e.Generic,
		pips:    strings.Join(e.Pips, ","),
	}
}

// Consolidate merges duplicate logical entries into a single entry per
// group key. Counts always accumulate; all other fields are taken from the
// last-seen entry for the key. Output preserves the insertion order of each
// key's first occurrence, which keeps consolidation deterministic.
func Consolidate(entries []Entry) []Entry {
	counts := make(map[groupKey]int, len(entries))
	meta := make(map[groupKey]Entry, len(entries))
	order := make([]groupKey, 0, len(entries))

	for _, e := range entries {
		k := keyOf(e)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k] += e.Count
		meta[k] = e
	}

	out := make([]Entry, 0, len(order))
	for _, k := range order {
		e := meta[k].Clone()
		e.Count = counts[k]
		out = append(out, e)
	}
	return out
}
