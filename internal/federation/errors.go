package federation

import "fmt"

// MissingRootTypeError reports a schema declaration binding a root
// operation to a type the document does not define. Composition fails
// fast for the subgraph instead of proceeding with a dangling binding.
type MissingRootTypeError struct {
	Operation string
	TypeName  string
}

func (e *MissingRootTypeError) Error() string {
	return fmt.Sprintf("schema declares %s root type %q but the document does not define it", e.Operation, e.TypeName)
}
