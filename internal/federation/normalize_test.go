package federation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	language "github.com/seamgraph/seamgraph/internal/language"
)

func mustParseSchema(t *testing.T, sdl string) *language.SchemaDocument {
	t.Helper()
	doc, err := language.ParseSchema("test", sdl)
	require.NoError(t, err)
	return doc
}

// requireSameSDL compares two documents through the formatter so
// structural equality does not depend on source positions.
func requireSameSDL(t *testing.T, want, got *language.SchemaDocument) {
	t.Helper()
	if diff := cmp.Diff(language.FormatSchemaDocument(want), language.FormatSchemaDocument(got)); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeRootTypes_RewritesDeclaredRoot(t *testing.T) {
	doc := mustParseSchema(t, `
                schema { query: RootQuery }
                type RootQuery { product: Product }
                type Product { sku: String }
        `)
	got, err := NormalizeRootTypes(doc)
	require.NoError(t, err)

	want := mustParseSchema(t, `
                type Product { sku: String }
                extend type Query { product: Product }
        `)
	requireSameSDL(t, want, got)
	require.Empty(t, got.Schema, "schema declaration must be removed")
}

func TestNormalizeRootTypes_RewritesAllRootKinds(t *testing.T) {
	doc := mustParseSchema(t, `
                schema { query: QueryRoot mutation: MutationRoot }
                type QueryRoot { hero: String }
                type MutationRoot { save: Boolean }
        `)
	got, err := NormalizeRootTypes(doc)
	require.NoError(t, err)

	want := mustParseSchema(t, `
                extend type Query { hero: String }
                extend type Mutation { save: Boolean }
        `)
	requireSameSDL(t, want, got)
}

func TestNormalizeRootTypes_DesignatedCanonicalName(t *testing.T) {
	// A root type already named Query is the designated root, not a
	// collision; it still becomes an extension.
	doc := mustParseSchema(t, `
                schema { query: Query }
                type Query { hero: String }
        `)
	got, err := NormalizeRootTypes(doc)
	require.NoError(t, err)

	want := mustParseSchema(t, `
                extend type Query { hero: String }
        `)
	requireSameSDL(t, want, got)
}

func TestNormalizeRootTypes_DropsCollidingRootName(t *testing.T) {
	doc := mustParseSchema(t, `
                schema { query: RootQuery }
                type RootQuery { viewer: Viewer }
                type Query { unrelatedField: String }
                type Viewer { leftover: Query name: String }
        `)
	got, err := NormalizeRootTypes(doc)
	require.NoError(t, err)

	// The unbound Query definition is dropped, and so is any field
	// whose return type names it.
	want := mustParseSchema(t, `
                type Viewer { name: String }
                extend type Query { viewer: Viewer }
        `)
	requireSameSDL(t, want, got)
}

func TestNormalizeRootTypes_NoDeclarationPassesThrough(t *testing.T) {
	doc := mustParseSchema(t, `
                type Query { product: Product }
                type Product { sku: String }
        `)
	once, err := NormalizeRootTypes(doc)
	require.NoError(t, err)
	twice, err := NormalizeRootTypes(once)
	require.NoError(t, err)

	requireSameSDL(t, doc, once)
	requireSameSDL(t, once, twice)
}

func TestNormalizeRootTypes_MissingBinding(t *testing.T) {
	doc := mustParseSchema(t, `
                schema { query: RootQuery }
                type Product { sku: String }
        `)
	_, err := NormalizeRootTypes(doc)
	var missing *MissingRootTypeError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "query", missing.Operation)
	require.Equal(t, "RootQuery", missing.TypeName)
}

func TestNormalizeRootTypes_DoesNotMutateInput(t *testing.T) {
	doc := mustParseSchema(t, `
                schema { query: RootQuery }
                type RootQuery { product: Product }
                type Query { unrelatedField: String }
                type Product { sku: String }
        `)
	before := language.FormatSchemaDocument(doc)
	_, err := NormalizeRootTypes(doc)
	require.NoError(t, err)
	require.Equal(t, before, language.FormatSchemaDocument(doc))
}
