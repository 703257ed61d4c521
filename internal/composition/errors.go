package composition

import "fmt"

// FieldConflictError reports two subgraphs declaring the same field
// with incompatible types.
type FieldConflictError struct {
	TypeName  string
	FieldName string
	First     string // subgraph that declared the field first
	Second    string // subgraph with the conflicting declaration
	FirstType string
	OtherType string
}

func (e *FieldConflictError) Error() string {
	return fmt.Sprintf("field %s.%s declared as %s by %q but as %s by %q",
		e.TypeName, e.FieldName, e.FirstType, e.First, e.OtherType, e.Second)
}

// UnresolvedExternalError reports a field marked @external in one
// subgraph that no other subgraph declares, leaving its data unowned.
type UnresolvedExternalError struct {
	TypeName    string
	FieldName   string
	ServiceName string
}

func (e *UnresolvedExternalError) Error() string {
	return fmt.Sprintf("field %s.%s is external in %q but no other subgraph declares it",
		e.TypeName, e.FieldName, e.ServiceName)
}
