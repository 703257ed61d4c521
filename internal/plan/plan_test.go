package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	language "github.com/seamgraph/seamgraph/internal/language"
)

const testSDL = `
type Query {
        a: String
        c: String
        b: Obj
        node: Node
        items(first: Int): [Obj]
}

type Obj {
        x: String
        y: String
        z: Obj
}

interface Node {
        id: ID
}

type User implements Node {
        id: ID
        name: String
}

type Product implements Node {
        id: ID
        sku: String
}
`

func buildSchema(t *testing.T) *language.Schema {
	t.Helper()
	schema, err := language.LoadSchema(&language.Source{Name: "test", Input: testSDL})
	require.NoError(t, err)
	return schema
}

func loadQuery(t *testing.T, schema *language.Schema, query string) *language.QueryDocument {
	t.Helper()
	doc, err := language.LoadQuery(schema, query)
	require.NoError(t, err)
	return doc
}

// collectRoot flattens the document's single operation at Query scope.
func collectRoot(t *testing.T, schema *language.Schema, doc *language.QueryDocument) FieldSet {
	t.Helper()
	scope := ScopeFor(schema, "Query")
	require.NotNil(t, scope)
	return CollectFields(schema, doc, scope, doc.Operations[0].SelectionSet)
}

// requireSameSelection compares selection sets through the formatter.
func requireSameSelection(t *testing.T, schema *language.Schema, wantQuery string, got language.SelectionSet) {
	t.Helper()
	want := loadQuery(t, schema, wantQuery)
	require.Equal(t,
		language.FormatSelectionSet(want.Operations[0].SelectionSet),
		language.FormatSelectionSet(got),
	)
}
