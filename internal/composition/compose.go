package composition

import (
	"fmt"

	federation "github.com/seamgraph/seamgraph/internal/federation"
	language "github.com/seamgraph/seamgraph/internal/language"
)

// Subgraph is one constituent service of the composed graph.
type Subgraph struct {
	Name string
	URL  string
	SDL  string
}

// FieldKey identifies a field in the cross-service ownership map.
type FieldKey struct {
	TypeName  string
	FieldName string
}

// Result is the composed supergraph: the validated executable schema,
// its public document, and the ownership and routing tables the query
// planner consults.
type Result struct {
	Schema   *language.Schema
	Document *language.SchemaDocument

	// Owners maps every composed field to the subgraph that resolves it.
	Owners map[FieldKey]string

	// Routes maps each root operation field to its owning subgraph.
	Routes map[string]string

	// URLs maps subgraph names to their endpoints.
	URLs map[string]string
}

// OwnerOf returns the subgraph owning typeName.fieldName.
func (r *Result) OwnerOf(typeName, fieldName string) (string, bool) {
	owner, ok := r.Owners[FieldKey{TypeName: typeName, FieldName: fieldName}]
	return owner, ok
}

// Compose normalizes every subgraph document and merges them into one
// supergraph. Each document goes through root-type normalization and
// external-field stripping first; merging then folds the surviving
// definitions together, first declaration winning, and records which
// subgraph owns each field. Every stripped external field must be
// declared by some other subgraph or composition fails.
func Compose(subgraphs []Subgraph) (*Result, error) {
	c := &composer{
		index:  make(map[string]*language.Definition),
		result: &Result{Owners: map[FieldKey]string{}, Routes: map[string]string{}, URLs: map[string]string{}},
	}
	var externals []federation.StrippedField

	for _, sg := range subgraphs {
		c.result.URLs[sg.Name] = sg.URL

		doc, err := language.ParseSchema(sg.Name, sg.SDL)
		if err != nil {
			return nil, fmt.Errorf("subgraph %q: %w", sg.Name, err)
		}
		normalized, err := federation.NormalizeRootTypes(doc)
		if err != nil {
			return nil, fmt.Errorf("subgraph %q: %w", sg.Name, err)
		}
		stripped, records := federation.StripExternalFields(normalized, sg.Name)
		externals = append(externals, records...)

		for _, def := range stripped.Definitions {
			if err := c.merge(sg.Name, def); err != nil {
				return nil, err
			}
		}
		for _, def := range stripped.Extensions {
			if err := c.merge(sg.Name, def); err != nil {
				return nil, err
			}
		}
		for _, dd := range stripped.Directives {
			c.mergeDirective(dd)
		}
	}

	for _, rec := range externals {
		owner, ok := c.result.Owners[FieldKey{TypeName: rec.ParentTypeName, FieldName: rec.Field.Name}]
		if !ok || owner == rec.ServiceName {
			return nil, &UnresolvedExternalError{
				TypeName:    rec.ParentTypeName,
				FieldName:   rec.Field.Name,
				ServiceName: rec.ServiceName,
			}
		}
	}

	doc := c.document()
	schema, err := language.LoadSchema(
		&language.Source{Name: "supergraph", Input: language.FormatSchemaDocument(doc)},
	)
	if err != nil {
		return nil, fmt.Errorf("composed schema invalid: %w", err)
	}
	c.result.Document = doc
	c.result.Schema = schema
	return c.result, nil
}

var rootTypeNames = map[string]bool{"Query": true, "Mutation": true, "Subscription": true}

type composer struct {
	order      []string
	index      map[string]*language.Definition
	directives language.DirectiveDefinitionList
	result     *Result
}

// merge folds def into the supergraph under the given subgraph's name.
// The documents fed in here are freshly built by the normalizer, so the
// composer owns their nodes outright.
func (c *composer) merge(subgraph string, def *language.Definition) error {
	if def.Name == "_FieldSet" {
		return nil
	}
	def.Directives = withoutFederationDirectives(def.Directives)
	for _, f := range def.Fields {
		f.Directives = withoutFederationDirectives(f.Directives)
	}

	existing := c.index[def.Name]
	if existing == nil {
		base := &language.Definition{
			Kind:        def.Kind,
			Description: def.Description,
			Name:        def.Name,
			Directives:  def.Directives,
			Interfaces:  def.Interfaces,
			Types:       def.Types,
			EnumValues:  def.EnumValues,
		}
		c.index[def.Name] = base
		c.order = append(c.order, def.Name)
		return c.mergeFields(subgraph, base, def.Fields)
	}

	existing.Interfaces = unionStrings(existing.Interfaces, def.Interfaces)
	existing.Types = unionStrings(existing.Types, def.Types)
	for _, ev := range def.EnumValues {
		if existing.EnumValues.ForName(ev.Name) == nil {
			existing.EnumValues = append(existing.EnumValues, ev)
		}
	}
	return c.mergeFields(subgraph, existing, def.Fields)
}

func (c *composer) mergeFields(subgraph string, into *language.Definition, fields language.FieldList) error {
	for _, f := range fields {
		key := FieldKey{TypeName: into.Name, FieldName: f.Name}
		if prev := into.Fields.ForName(f.Name); prev != nil {
			if prev.Type.String() != f.Type.String() {
				return &FieldConflictError{
					TypeName:  into.Name,
					FieldName: f.Name,
					First:     c.result.Owners[key],
					Second:    subgraph,
					FirstType: prev.Type.String(),
					OtherType: f.Type.String(),
				}
			}
			continue
		}
		into.Fields = append(into.Fields, f)
		c.result.Owners[key] = subgraph
		if rootTypeNames[into.Name] {
			c.result.Routes[f.Name] = subgraph
		}
	}
	return nil
}

func (c *composer) mergeDirective(dd *language.DirectiveDefinition) {
	if federation.IsFederationDirective(dd.Name) {
		return
	}
	for _, have := range c.directives {
		if have.Name == dd.Name {
			return
		}
	}
	c.directives = append(c.directives, dd)
}

// document assembles the public supergraph document in first-appearance
// order, skipping types that composed to nothing.
func (c *composer) document() *language.SchemaDocument {
	doc := &language.SchemaDocument{Directives: c.directives}
	for _, name := range c.order {
		def := c.index[name]
		if len(def.Fields) == 0 && len(def.EnumValues) == 0 && len(def.Types) == 0 && def.Kind != language.Scalar {
			continue
		}
		doc.Definitions = append(doc.Definitions, def)
	}
	return doc
}

func withoutFederationDirectives(list language.DirectiveList) language.DirectiveList {
	kept := make(language.DirectiveList, 0, len(list))
	for _, d := range list {
		if federation.IsFederationDirective(d.Name) {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

func unionStrings(a, b []string) []string {
	out := a
	for _, s := range b {
		found := false
		for _, have := range out {
			if have == s {
				found = true
				break
			}
		}
		if !found {
			out = append(out, s)
		}
	}
	return out
}
