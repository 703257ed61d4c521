package plan

import (
	language "github.com/seamgraph/seamgraph/internal/language"
)

// typenameDefinition backs the meta field every composite type answers.
var typenameDefinition = &language.FieldDefinition{
	Name: "__typename",
	Type: language.NamedType("String"),
}

// CollectFields flattens one level of an operation's selections into
// scope-tagged fields, expanding inline fragments and named spreads
// whose type condition can apply in scope. Fields reached through a
// fragment carry the condition's scope, with the original scope kept on
// the backward chain. @skip and @include are not evaluated here; the
// nodes keep their directives and the subgraph applies them.
func CollectFields(schema *language.Schema, doc *language.QueryDocument, scope *Scope, sel language.SelectionSet) FieldSet {
	var fields FieldSet
	visited := make(map[string]bool)
	collectFields(schema, doc, scope, sel, &fields, visited)
	return fields
}

func collectFields(schema *language.Schema, doc *language.QueryDocument, scope *Scope, sel language.SelectionSet, fields *FieldSet, visited map[string]bool) {
	for _, selection := range sel {
		switch s := selection.(type) {
		case *language.Field:
			def := s.Definition
			if def == nil {
				def = scope.ParentType.Fields.ForName(s.Name)
			}
			if def == nil {
				if s.Name != "__typename" {
					continue
				}
				def = typenameDefinition
			}
			*fields = append(*fields, &Field{
				Scope:      scope,
				Node:       s,
				Definition: def,
				ReturnType: schema.Types[def.Type.Name()],
			})

		case *language.InlineFragment:
			if !scope.resolvesTo(schema, s.TypeCondition) {
				continue
			}
			collectFields(schema, doc, conditionScope(schema, scope, s.TypeCondition), s.SelectionSet, fields, visited)

		case *language.FragmentSpread:
			if visited[s.Name] {
				continue
			}
			visited[s.Name] = true
			def := s.Definition
			if def == nil && doc != nil {
				def = doc.Fragments.ForName(s.Name)
			}
			if def == nil {
				continue
			}
			if !scope.resolvesTo(schema, def.TypeCondition) {
				continue
			}
			collectFields(schema, doc, conditionScope(schema, scope, def.TypeCondition), def.SelectionSet, fields, visited)
		}
	}
}

// conditionScope returns the scope a type condition narrows to, or the
// current scope when the condition restates it.
func conditionScope(schema *language.Schema, scope *Scope, cond string) *Scope {
	if cond == "" || cond == scope.ParentType.Name {
		return scope
	}
	if child := scope.Child(schema, cond); child != nil {
		return child
	}
	return scope
}
