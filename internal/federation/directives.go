package federation

// Directive names a subgraph uses to annotate ownership and entity keys.
const (
	DirectiveKey      = "key"
	DirectiveExternal = "external"
	DirectiveRequires = "requires"
	DirectiveProvides = "provides"
	DirectiveExtends  = "extends"
)

// DirectiveSDL declares the federation directives so subgraph documents
// validate against an executable schema. Composition strips these from
// the public supergraph schema.
const DirectiveSDL = `
scalar _FieldSet

directive @key(fields: _FieldSet!) repeatable on OBJECT | INTERFACE
directive @external on FIELD_DEFINITION | OBJECT
directive @requires(fields: _FieldSet!) on FIELD_DEFINITION
directive @provides(fields: _FieldSet!) on FIELD_DEFINITION
directive @extends on OBJECT | INTERFACE
`

// federationDirectives lists the directive names removed from the
// composed public schema.
var federationDirectives = map[string]bool{
	DirectiveKey:      true,
	DirectiveExternal: true,
	DirectiveRequires: true,
	DirectiveProvides: true,
	DirectiveExtends:  true,
}

// IsFederationDirective reports whether name is one of the composition
// directives rather than part of the public schema surface.
func IsFederationDirective(name string) bool { return federationDirectives[name] }
