package federation

import (
	language "github.com/seamgraph/seamgraph/internal/language"
)

// defaultRootTypeName maps each operation kind to its canonical root
// type name.
var defaultRootTypeName = map[language.Operation]string{
	language.Query:        "Query",
	language.Mutation:     "Mutation",
	language.Subscription: "Subscription",
}

func isDefaultRootName(name string) bool {
	return name == "Query" || name == "Mutation" || name == "Subscription"
}

// NormalizeRootTypes rewrites a subgraph document so its root operation
// types are expressed as extensions of the canonical root type names.
//
// Given a schema declaration such as `schema { query: RootQuery }`, the
// definition of RootQuery becomes `extend type Query` carrying the same
// field list, and both the declaration and the original definition are
// removed. A definition that reuses a canonical root name without being
// bound to it by the declaration is leftover scaffolding and is dropped,
// along with any field whose declared return type names the dropped
// definition. The check on those fields is deliberately one hop deep;
// transitive references through an intermediate type are left alone.
//
// Without a schema declaration the document is already canonical and is
// returned as an unchanged deep copy. The input is never mutated.
func NormalizeRootTypes(doc *language.SchemaDocument) (*language.SchemaDocument, error) {
	if len(doc.Schema) == 0 {
		return language.CopySchemaDocument(doc), nil
	}
	decl := doc.Schema[0]

	// boundTo maps a declared root type name to its canonical name.
	boundTo := map[string]string{}
	for _, ot := range decl.OperationTypes {
		if doc.Definitions.ForName(ot.Type) == nil {
			return nil, &MissingRootTypeError{Operation: string(ot.Operation), TypeName: ot.Type}
		}
		boundTo[ot.Type] = defaultRootTypeName[ot.Operation]
	}

	// Definitions that collide with a canonical root name without being
	// the designated root type are dropped outright.
	dropped := map[string]bool{}
	for _, def := range doc.Definitions {
		if isDefaultRootName(def.Name) {
			if _, designated := boundTo[def.Name]; !designated {
				dropped[def.Name] = true
			}
		}
	}

	out := &language.SchemaDocument{Position: doc.Position}
	for _, dd := range doc.Directives {
		out.Directives = append(out.Directives, language.CopyDirectiveDefinition(dd))
	}
	for _, def := range doc.Definitions {
		if canonical, ok := boundTo[def.Name]; ok {
			ext := language.CopyDefinition(def)
			ext.Name = canonical
			out.Extensions = append(out.Extensions, ext)
			continue
		}
		if dropped[def.Name] {
			continue
		}
		out.Definitions = append(out.Definitions, language.CopyDefinition(def))
	}
	for _, def := range doc.Extensions {
		if dropped[def.Name] {
			continue
		}
		out.Extensions = append(out.Extensions, language.CopyDefinition(def))
	}

	if len(dropped) > 0 {
		for _, def := range out.Definitions {
			def.Fields = withoutFieldsReturning(def.Fields, dropped)
		}
		for _, def := range out.Extensions {
			def.Fields = withoutFieldsReturning(def.Fields, dropped)
		}
	}
	return out, nil
}

// withoutFieldsReturning filters out fields whose declared return type
// name is one of the dropped type names.
func withoutFieldsReturning(fields language.FieldList, dropped map[string]bool) language.FieldList {
	kept := make(language.FieldList, 0, len(fields))
	for _, f := range fields {
		if dropped[f.Type.Name()] {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}
