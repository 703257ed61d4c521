package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	language "github.com/seamgraph/seamgraph/internal/language"
)

func responseNames(fields FieldSet) []string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.ResponseName())
	}
	return names
}

func TestCollectFieldsFlattensOneLevel(t *testing.T) {
	schema := buildSchema(t)
	doc := loadQuery(t, schema, `
		{ a ...Rest a }
		fragment Rest on Query { c }
	`)

	fields := collectRoot(t, schema, doc)

	require.Equal(t, []string{"a", "c", "a"}, responseNames(fields))
	for _, f := range fields {
		require.Equal(t, "Query", f.Scope.ParentType.Name)
		require.NotNil(t, f.Definition)
	}
}

func TestCollectFieldsNarrowsTypeConditions(t *testing.T) {
	schema := buildSchema(t)
	doc := loadQuery(t, schema, `{ node { id ... on User { name } ... on Product { sku } } }`)

	nodeSel := doc.Operations[0].SelectionSet[0].(*language.Field).SelectionSet
	fields := CollectFields(schema, doc, ScopeFor(schema, "User"), nodeSel)

	require.Equal(t, []string{"id", "name"}, responseNames(fields))
	require.Equal(t, "User", fields[0].Scope.ParentType.Name)
	require.Equal(t, "User", fields[1].Scope.ParentType.Name)
}

func TestCollectFieldsKeepsConditionScope(t *testing.T) {
	schema := buildSchema(t)
	doc := loadQuery(t, schema, `{ node { id ... on User { name } } }`)

	nodeSel := doc.Operations[0].SelectionSet[0].(*language.Field).SelectionSet
	scope := ScopeFor(schema, "Node")
	fields := CollectFields(schema, doc, scope, nodeSel)

	require.Equal(t, []string{"id", "name"}, responseNames(fields))
	require.Equal(t, "Node", fields[0].Scope.ParentType.Name)
	require.Equal(t, "User", fields[1].Scope.ParentType.Name)
	require.Same(t, scope, fields[1].Scope.Enclosing)
}

func TestCollectFieldsVisitsSpreadsOnce(t *testing.T) {
	schema := buildSchema(t)
	doc := loadQuery(t, schema, `
		{ ...Rest a ...Rest }
		fragment Rest on Query { c }
	`)

	fields := collectRoot(t, schema, doc)

	require.Equal(t, []string{"c", "a"}, responseNames(fields))
}

func TestCollectFieldsResolvesTypename(t *testing.T) {
	schema := buildSchema(t)
	doc := loadQuery(t, schema, `{ node { __typename id } }`)

	nodeSel := doc.Operations[0].SelectionSet[0].(*language.Field).SelectionSet
	fields := CollectFields(schema, doc, ScopeFor(schema, "Node"), nodeSel)

	require.Equal(t, []string{"__typename", "id"}, responseNames(fields))
	require.NotNil(t, fields[0].Definition)
	require.Equal(t, "String", fields[0].Definition.Type.Name())
}

func TestCollectFieldsResolvesReturnTypes(t *testing.T) {
	schema := buildSchema(t)
	doc := loadQuery(t, schema, `{ a b { x } }`)

	fields := collectRoot(t, schema, doc)

	require.Equal(t, language.Scalar, fields[0].ReturnType.Kind)
	require.Equal(t, language.Object, fields[1].ReturnType.Kind)
	require.Equal(t, "Obj", fields[1].ReturnType.Name)
}
