package plan

import (
	language "github.com/seamgraph/seamgraph/internal/language"
)

// BuildSelectionSet folds a set of fields collected from overlapping
// requirement sets into a single deduplicated selection tree, grouped
// by declaring type and then by response name. Groups whose declaring
// type differs from parentScope are wrapped in a type-conditioned
// inline fragment so the result stays valid against a supertype.
//
// Output is deterministic for a given input order: both grouping levels
// preserve first-appearance order, with scalar fields emitted before
// composite ones inside each declaring-type group, same as the nested
// merge. Fields sharing a response name must already be safe to treat
// as one request; reconciling conflicting arguments is the caller's
// job, not performed here.
func BuildSelectionSet(fields FieldSet, parentScope *Scope) language.SelectionSet {
	byType := newFieldGroups()
	for _, f := range fields {
		byType.add(f.Scope.ParentType.Name, f)
	}

	var out language.SelectionSet
	for _, tg := range byType.ordered() {
		byName := newFieldGroups()
		for _, f := range tg.fields {
			byName.add(f.ResponseName(), f)
		}
		var leaves, branches language.SelectionSet
		for _, ng := range byName.ordered() {
			if returnsComposite(ng.fields[0]) {
				branches = append(branches, combineFields(ng.fields))
			} else {
				leaves = append(leaves, combineFields(ng.fields))
			}
		}
		combined := append(leaves, branches...)
		if parentScope == nil || tg.key == parentScope.ParentType.Name {
			out = append(out, combined...)
			continue
		}
		out = append(out, &language.InlineFragment{
			TypeCondition: tg.key,
			SelectionSet:  combined,
		})
	}
	return out
}

// combineFields merges fields sharing a response name into one. The
// first field is the structural template; composite return types get
// the recursive merge of every member's nested selection, scalars take
// the first occurrence as is.
func combineFields(fields []*Field) *language.Field {
	base := fields[0]
	node := copyFieldNode(base.Node)
	if !returnsComposite(base) {
		return node
	}
	sets := make([]language.SelectionSet, 0, len(fields))
	for _, f := range fields {
		sets = append(sets, f.Node.SelectionSet)
	}
	node.SelectionSet = mergeSelectionSets(sets)
	return node
}

// returnsComposite reports whether the field's result carries its own
// selection. The resolved return type decides; when the schema did not
// resolve one, the presence of a sub-selection does.
func returnsComposite(f *Field) bool {
	if f.ReturnType != nil {
		k := f.ReturnType.Kind
		return k == language.Object || k == language.Interface || k == language.Union
	}
	return len(f.Node.SelectionSet) > 0
}

// mergeSelectionSets merges the child selections of several occurrences
// of one field. Leaf items (fields without sub-selections, fragment
// spreads) are deduplicated by key and emitted first in
// first-appearance order; branching items (fields with sub-selections,
// type-conditioned fragments) follow, grouped by key, each group's
// first item serving as template for the recursive merge. Leaf-first
// ordering is an observable contract of the merged output.
func mergeSelectionSets(sets []language.SelectionSet) language.SelectionSet {
	leaves := newSelectionList()
	branches := newSelectionGroups()

	for _, set := range sets {
		for _, sel := range set {
			switch s := sel.(type) {
			case *language.Field:
				if len(s.SelectionSet) == 0 {
					leaves.add("field:"+fieldResponseName(s), func() language.Selection { return copyFieldNode(s) })
				} else {
					branches.add("field:"+fieldResponseName(s), sel)
				}
			case *language.FragmentSpread:
				leaves.add("spread:"+s.Name, func() language.Selection { return copySpreadNode(s) })
			case *language.InlineFragment:
				branches.add("fragment:"+s.TypeCondition, sel)
			}
		}
	}

	out := leaves.ordered()
	for _, g := range branches.ordered() {
		switch first := g.items[0].(type) {
		case *language.Field:
			node := copyFieldNode(first)
			node.SelectionSet = mergeSelectionSets(childSets(g.items))
			out = append(out, node)
		case *language.InlineFragment:
			out = append(out, &language.InlineFragment{
				TypeCondition:    first.TypeCondition,
				Directives:       language.CopyDirectiveList(first.Directives),
				ObjectDefinition: first.ObjectDefinition,
				SelectionSet:     mergeSelectionSets(childSets(g.items)),
			})
		}
	}
	return out
}

func childSets(items []language.Selection) []language.SelectionSet {
	sets := make([]language.SelectionSet, 0, len(items))
	for _, it := range items {
		switch s := it.(type) {
		case *language.Field:
			sets = append(sets, s.SelectionSet)
		case *language.InlineFragment:
			sets = append(sets, s.SelectionSet)
		}
	}
	return sets
}

func fieldResponseName(f *language.Field) string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// copyFieldNode clones the request node without its sub-selection.
// Resolved metadata pointers are shared; they are read-only.
func copyFieldNode(f *language.Field) *language.Field {
	return &language.Field{
		Alias:            f.Alias,
		Name:             f.Name,
		Arguments:        language.CopyArgumentList(f.Arguments),
		Directives:       language.CopyDirectiveList(f.Directives),
		Position:         f.Position,
		Definition:       f.Definition,
		ObjectDefinition: f.ObjectDefinition,
	}
}

func copySpreadNode(s *language.FragmentSpread) *language.FragmentSpread {
	return &language.FragmentSpread{
		Name:             s.Name,
		Directives:       language.CopyDirectiveList(s.Directives),
		ObjectDefinition: s.ObjectDefinition,
		Definition:       s.Definition,
		Position:         s.Position,
	}
}
