package language

// Deep-copy helpers for type-system documents. Schema transformations
// construct fresh documents from these so their inputs stay untouched;
// nothing in a copied document aliases a node of the source.

// CopySchemaDocument returns a deep copy of doc.
func CopySchemaDocument(doc *SchemaDocument) *SchemaDocument {
	if doc == nil {
		return nil
	}
	out := &SchemaDocument{Position: doc.Position}
	for _, sd := range doc.Schema {
		out.Schema = append(out.Schema, CopySchemaDefinition(sd))
	}
	for _, sd := range doc.SchemaExtension {
		out.SchemaExtension = append(out.SchemaExtension, CopySchemaDefinition(sd))
	}
	for _, dd := range doc.Directives {
		out.Directives = append(out.Directives, CopyDirectiveDefinition(dd))
	}
	for _, def := range doc.Definitions {
		out.Definitions = append(out.Definitions, CopyDefinition(def))
	}
	for _, def := range doc.Extensions {
		out.Extensions = append(out.Extensions, CopyDefinition(def))
	}
	return out
}

// CopySchemaDefinition returns a deep copy of a schema { ... } block.
func CopySchemaDefinition(sd *SchemaDefinition) *SchemaDefinition {
	if sd == nil {
		return nil
	}
	out := &SchemaDefinition{
		Description: sd.Description,
		Directives:  CopyDirectiveList(sd.Directives),
		Position:    sd.Position,
	}
	for _, ot := range sd.OperationTypes {
		out.OperationTypes = append(out.OperationTypes, &OperationTypeDefinition{
			Operation: ot.Operation,
			Type:      ot.Type,
			Position:  ot.Position,
		})
	}
	return out
}

// CopyDefinition returns a deep copy of a type-system definition.
func CopyDefinition(def *Definition) *Definition {
	if def == nil {
		return nil
	}
	out := &Definition{
		Kind:        def.Kind,
		Description: def.Description,
		Name:        def.Name,
		Directives:  CopyDirectiveList(def.Directives),
		Position:    def.Position,
		BuiltIn:     def.BuiltIn,
	}
	out.Interfaces = append([]string(nil), def.Interfaces...)
	out.Types = append([]string(nil), def.Types...)
	for _, f := range def.Fields {
		out.Fields = append(out.Fields, CopyFieldDefinition(f))
	}
	for _, ev := range def.EnumValues {
		out.EnumValues = append(out.EnumValues, &EnumValueDefinition{
			Description: ev.Description,
			Name:        ev.Name,
			Directives:  CopyDirectiveList(ev.Directives),
			Position:    ev.Position,
		})
	}
	return out
}

// CopyFieldDefinition returns a deep copy of a field definition.
func CopyFieldDefinition(f *FieldDefinition) *FieldDefinition {
	if f == nil {
		return nil
	}
	out := &FieldDefinition{
		Description:  f.Description,
		Name:         f.Name,
		DefaultValue: CopyValue(f.DefaultValue),
		Type:         CopyType(f.Type),
		Directives:   CopyDirectiveList(f.Directives),
		Position:     f.Position,
	}
	for _, a := range f.Arguments {
		out.Arguments = append(out.Arguments, copyArgumentDefinition(a))
	}
	return out
}

func copyArgumentDefinition(a *ArgumentDefinition) *ArgumentDefinition {
	return &ArgumentDefinition{
		Description:  a.Description,
		Name:         a.Name,
		DefaultValue: CopyValue(a.DefaultValue),
		Type:         CopyType(a.Type),
		Directives:   CopyDirectiveList(a.Directives),
		Position:     a.Position,
	}
}

// CopyDirectiveDefinition returns a deep copy of a directive definition.
func CopyDirectiveDefinition(dd *DirectiveDefinition) *DirectiveDefinition {
	if dd == nil {
		return nil
	}
	out := &DirectiveDefinition{
		Description:  dd.Description,
		Name:         dd.Name,
		IsRepeatable: dd.IsRepeatable,
		Position:     dd.Position,
	}
	out.Locations = append([]DirectiveLocation(nil), dd.Locations...)
	for _, a := range dd.Arguments {
		out.Arguments = append(out.Arguments, copyArgumentDefinition(a))
	}
	return out
}

// CopyDirectiveList returns a deep copy of an applied-directive list.
func CopyDirectiveList(list DirectiveList) DirectiveList {
	if list == nil {
		return nil
	}
	out := make(DirectiveList, 0, len(list))
	for _, d := range list {
		out = append(out, &Directive{
			Name:      d.Name,
			Arguments: CopyArgumentList(d.Arguments),
			Position:  d.Position,
		})
	}
	return out
}

// CopyArgumentList returns a deep copy of an argument list.
func CopyArgumentList(list ArgumentList) ArgumentList {
	if list == nil {
		return nil
	}
	out := make(ArgumentList, 0, len(list))
	for _, a := range list {
		out = append(out, &Argument{Name: a.Name, Value: CopyValue(a.Value), Position: a.Position})
	}
	return out
}

// CopyValue returns a deep copy of a literal value tree.
func CopyValue(v *Value) *Value {
	if v == nil {
		return nil
	}
	out := &Value{Raw: v.Raw, Kind: v.Kind, Position: v.Position}
	for _, c := range v.Children {
		out.Children = append(out.Children, &ChildValue{
			Name:     c.Name,
			Value:    CopyValue(c.Value),
			Position: c.Position,
		})
	}
	return out
}

// CopyType returns a deep copy of a type reference.
func CopyType(t *Type) *Type {
	if t == nil {
		return nil
	}
	return &Type{
		NamedType: t.NamedType,
		Elem:      CopyType(t.Elem),
		NonNull:   t.NonNull,
		Position:  t.Position,
	}
}
