package plan

import (
	language "github.com/seamgraph/seamgraph/internal/language"
)

// Insertion-ordered grouping containers. The ordering contract of the
// merged output depends on first-appearance order at every grouping
// level, so these pair a key slice with a lookup index instead of
// relying on map iteration order.

type fieldGroup struct {
	key    string
	fields []*Field
}

type fieldGroups struct {
	groups []fieldGroup
	index  map[string]int
}

func newFieldGroups() *fieldGroups {
	return &fieldGroups{index: make(map[string]int)}
}

func (g *fieldGroups) add(key string, f *Field) {
	if i, ok := g.index[key]; ok {
		g.groups[i].fields = append(g.groups[i].fields, f)
		return
	}
	g.index[key] = len(g.groups)
	g.groups = append(g.groups, fieldGroup{key: key, fields: []*Field{f}})
}

func (g *fieldGroups) ordered() []fieldGroup { return g.groups }

type selectionGroup struct {
	key   string
	items []language.Selection
}

type selectionGroups struct {
	groups []selectionGroup
	index  map[string]int
}

func newSelectionGroups() *selectionGroups {
	return &selectionGroups{index: make(map[string]int)}
}

func (g *selectionGroups) add(key string, sel language.Selection) {
	if i, ok := g.index[key]; ok {
		g.groups[i].items = append(g.groups[i].items, sel)
		return
	}
	g.index[key] = len(g.groups)
	g.groups = append(g.groups, selectionGroup{key: key, items: []language.Selection{sel}})
}

func (g *selectionGroups) ordered() []selectionGroup { return g.groups }

// selectionList keeps at most one selection per key, first occurrence
// winning. The make function runs only when the key is new, so
// duplicates cost no allocation.
type selectionList struct {
	items []language.Selection
	seen  map[string]bool
}

func newSelectionList() *selectionList {
	return &selectionList{seen: make(map[string]bool)}
}

func (l *selectionList) add(key string, make func() language.Selection) {
	if l.seen[key] {
		return
	}
	l.seen[key] = true
	l.items = append(l.items, make())
}

func (l *selectionList) ordered() language.SelectionSet { return l.items }
