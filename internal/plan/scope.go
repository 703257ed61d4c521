package plan

import (
	language "github.com/seamgraph/seamgraph/internal/language"
)

// Scope identifies the type context a field was selected against: the
// declaring composite type, the concrete object types a value there can
// resolve to, and the scope it was reached through. Enclosing is a
// read-only backward link; traversal never goes back down through it.
type Scope struct {
	ParentType    *language.Definition
	PossibleTypes []*language.Definition
	Enclosing     *Scope
}

// ScopeFor builds the scope for typeName in schema. It returns nil when
// the schema has no such type.
func ScopeFor(schema *language.Schema, typeName string) *Scope {
	def := schema.Types[typeName]
	if def == nil {
		return nil
	}
	return &Scope{
		ParentType:    def,
		PossibleTypes: schema.GetPossibleTypes(def),
	}
}

// Child builds the scope for typeName reached from s, preserving the
// backward chain.
func (s *Scope) Child(schema *language.Schema, typeName string) *Scope {
	child := ScopeFor(schema, typeName)
	if child == nil {
		return nil
	}
	child.Enclosing = s
	return child
}

// resolvesTo reports whether a value in scope s can be of the type
// named cond, so a type condition on cond is worth descending into.
func (s *Scope) resolvesTo(schema *language.Schema, cond string) bool {
	if cond == "" || cond == s.ParentType.Name {
		return true
	}
	condDef := schema.Types[cond]
	if condDef == nil {
		return false
	}
	possible := schema.GetPossibleTypes(condDef)
	if len(possible) == 0 {
		possible = []*language.Definition{condDef}
	}
	mine := s.PossibleTypes
	if len(mine) == 0 {
		mine = []*language.Definition{s.ParentType}
	}
	for _, p := range possible {
		for _, m := range mine {
			if p.Name == m.Name {
				return true
			}
		}
	}
	return false
}

// Field is a single selected field: the scope it was requested in, the
// requested node, and its resolved definition. Fields are immutable
// value records; merging allocates new nodes instead of touching them.
type Field struct {
	Scope      *Scope
	Node       *language.Field
	Definition *language.FieldDefinition

	// ReturnType is the schema definition of the field's named return
	// type, nil for built-in scalars.
	ReturnType *language.Definition
}

// ResponseName is the key the field's result appears under: the alias
// when one was given, the field name otherwise.
func (f *Field) ResponseName() string {
	if f.Node.Alias != "" {
		return f.Node.Alias
	}
	return f.Node.Name
}

// FieldSet is an ordered collection of selected fields. Order is
// request order; grouping during merge is keyed by identity, never by
// position.
type FieldSet []*Field
