package federation

import (
	language "github.com/seamgraph/seamgraph/internal/language"
)

// StrippedField records a field removed from a subgraph document
// because another subgraph owns its data. Composition consumes these
// records to reconcile field ownership across the graph; they are
// never silently discarded.
type StrippedField struct {
	Field          *language.FieldDefinition
	ParentTypeName string
	ServiceName    string
}

// StripExternalFields removes every @external field from the document
// and reports what was removed, in document order. Types and extensions
// that end up field-less stay in the document so their remaining
// annotations (entity keys in particular) survive composition.
//
// The returned document is a fresh copy; the input can be reused or
// snapshotted for diagnostics afterwards.
func StripExternalFields(doc *language.SchemaDocument, serviceName string) (*language.SchemaDocument, []StrippedField) {
	out := language.CopySchemaDocument(doc)
	var stripped []StrippedField
	for _, def := range out.Definitions {
		def.Fields = stripExternal(def, serviceName, &stripped)
	}
	for _, def := range out.Extensions {
		def.Fields = stripExternal(def, serviceName, &stripped)
	}
	return out, stripped
}

func stripExternal(def *language.Definition, serviceName string, stripped *[]StrippedField) language.FieldList {
	kept := make(language.FieldList, 0, len(def.Fields))
	for _, f := range def.Fields {
		if f.Directives.ForName(DirectiveExternal) != nil {
			*stripped = append(*stripped, StrippedField{
				Field:          f,
				ParentTypeName: def.Name,
				ServiceName:    serviceName,
			})
			continue
		}
		kept = append(kept, f)
	}
	return kept
}
