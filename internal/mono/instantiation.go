package mono

import (
	"slices"

	"tao/internal/mir"
	"tao/internal/source"
)

// UseSite records a location where an instance is referenced.
type UseSite struct {
	Span   source.Span
	Caller mir.DefID
}

// InstEntry captures every reference to one instance.
type InstEntry struct {
	Def      mir.DefID
	UseSites []UseSite
}

// InstantiationMap tracks where each instance of a lowering run is used.
type InstantiationMap struct {
	Entries map[mir.DefID]*InstEntry
}

// NewInstantiationMap creates a new empty InstantiationMap.
func NewInstantiationMap() *InstantiationMap {
	return &InstantiationMap{Entries: make(map[mir.DefID]*InstEntry)}
}

// Record registers a reference to def from caller at site. Duplicate sites
// are kept once.
func (m *InstantiationMap) Record(def mir.DefID, site source.Span, caller mir.DefID) {
	if m == nil || def == mir.NoDefID {
		return
	}
	if m.Entries == nil {
		m.Entries = make(map[mir.DefID]*InstEntry)
	}
	entry := m.Entries[def]
	if entry == nil {
		entry = &InstEntry{Def: def}
		m.Entries[def] = entry
	}
	us := UseSite{Span: site, Caller: caller}
	if slices.Contains(entry.UseSites, us) {
		return
	}
	entry.UseSites = append(entry.UseSites, us)
}

// Sorted returns the entries ordered by DefID.
func (m *InstantiationMap) Sorted() []*InstEntry {
	if m == nil {
		return nil
	}
	out := make([]*InstEntry, 0, len(m.Entries))
	for _, e := range m.Entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, c *InstEntry) int {
		return int(a.Def) - int(c.Def)
	})
	return out
}
