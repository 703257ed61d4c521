package language

// UsedVariables returns the names of all variables referenced anywhere
// in sel, in first-appearance order. Used to derive the variable
// definitions an outbound operation needs to carry.
func UsedVariables(sel SelectionSet) []string {
	var names []string
	seen := map[string]bool{}
	collectSelectionVariables(sel, &names, seen)
	return names
}

func collectSelectionVariables(sel SelectionSet, names *[]string, seen map[string]bool) {
	for _, s := range sel {
		switch sel := s.(type) {
		case *Field:
			for _, arg := range sel.Arguments {
				collectValueVariables(arg.Value, names, seen)
			}
			collectDirectiveVariables(sel.Directives, names, seen)
			collectSelectionVariables(sel.SelectionSet, names, seen)
		case *InlineFragment:
			collectDirectiveVariables(sel.Directives, names, seen)
			collectSelectionVariables(sel.SelectionSet, names, seen)
		case *FragmentSpread:
			collectDirectiveVariables(sel.Directives, names, seen)
			if sel.Definition != nil {
				collectSelectionVariables(sel.Definition.SelectionSet, names, seen)
			}
		}
	}
}

// UsedFragments returns the fragment definitions spread anywhere in
// sel, in first-appearance order. Spreads must have been resolved by
// LoadQuery; unresolved spreads are skipped.
func UsedFragments(sel SelectionSet) []*FragmentDefinition {
	var frags []*FragmentDefinition
	seen := map[string]bool{}
	collectFragments(sel, &frags, seen)
	return frags
}

func collectFragments(sel SelectionSet, frags *[]*FragmentDefinition, seen map[string]bool) {
	for _, s := range sel {
		switch sel := s.(type) {
		case *Field:
			collectFragments(sel.SelectionSet, frags, seen)
		case *InlineFragment:
			collectFragments(sel.SelectionSet, frags, seen)
		case *FragmentSpread:
			if sel.Definition == nil || seen[sel.Name] {
				continue
			}
			seen[sel.Name] = true
			*frags = append(*frags, sel.Definition)
			collectFragments(sel.Definition.SelectionSet, frags, seen)
		}
	}
}

func collectDirectiveVariables(list DirectiveList, names *[]string, seen map[string]bool) {
	for _, d := range list {
		for _, arg := range d.Arguments {
			collectValueVariables(arg.Value, names, seen)
		}
	}
}

func collectValueVariables(v *Value, names *[]string, seen map[string]bool) {
	if v == nil {
		return
	}
	if v.Kind == Variable {
		if !seen[v.Raw] {
			seen[v.Raw] = true
			*names = append(*names, v.Raw)
		}
		return
	}
	for _, c := range v.Children {
		collectValueVariables(c.Value, names, seen)
	}
}
