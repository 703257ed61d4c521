package language

import (
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

func ParseQuery(source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func ParseSchema(name, source string) (*SchemaDocument, error) {
	doc, err := parser.ParseSchema(&ast.Source{Name: name, Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadSchema parses and validates the given SDL sources into an
// executable schema.
func LoadSchema(sources ...*Source) (*Schema, error) {
	schema, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, err
	}
	return schema, nil
}

// LoadQuery parses and validates query against schema, resolving field
// definitions and fragment spreads on the returned document.
func LoadQuery(schema *Schema, query string) (*QueryDocument, error) {
	doc, errs := gqlparser.LoadQuery(schema, query)
	if len(errs) > 0 {
		return nil, errs
	}
	return doc, nil
}

// FormatSchemaDocument renders doc back to SDL text.
func FormatSchemaDocument(doc *SchemaDocument) string {
	var sb strings.Builder
	formatter.NewFormatter(&sb).FormatSchemaDocument(doc)
	return sb.String()
}

// FormatQueryDocument renders doc to executable query text.
func FormatQueryDocument(doc *QueryDocument) string {
	var sb strings.Builder
	formatter.NewFormatter(&sb).FormatQueryDocument(doc)
	return sb.String()
}

// FormatSelectionSet renders sel as the body of an anonymous query
// operation. Useful in tests and diagnostics.
func FormatSelectionSet(sel SelectionSet) string {
	doc := &QueryDocument{
		Operations: []*OperationDefinition{{Operation: Query, SelectionSet: sel}},
	}
	return FormatQueryDocument(doc)
}
