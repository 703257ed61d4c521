package gateway

import (
	"fmt"

	composition "github.com/seamgraph/seamgraph/internal/composition"
	language "github.com/seamgraph/seamgraph/internal/language"
	plan "github.com/seamgraph/seamgraph/internal/plan"
	plancache "github.com/seamgraph/seamgraph/internal/plancache"
)

// Plan is the fan-out for one incoming operation: one fetch per
// subgraph owning any of the requested root fields, plus the order the
// root response keys must come back in.
type Plan struct {
	OperationType language.Operation
	Fetches       []*Fetch

	// RootFields lists the root response names in request order, each
	// with the subgraph that produces it.
	RootFields []RootField
}

// Fetch is one outbound subgraph request.
type Fetch struct {
	Subgraph string
	Query    string

	// Variables lists the variable names this fetch carries.
	Variables []string
}

// RootField pairs a root response name with its producing subgraph.
type RootField struct {
	ResponseName string
	Subgraph     string
}

// UnroutableFieldError reports a requested root field no subgraph owns.
type UnroutableFieldError struct {
	FieldName string
}

func (e *UnroutableFieldError) Error() string {
	return fmt.Sprintf("no subgraph resolves root field %q", e.FieldName)
}

// Planner turns incoming operations into per-subgraph fetch plans.
// Planning is deterministic given identical input, so plans are safe to
// cache and share across concurrent requests.
type Planner struct {
	graph *composition.Result
	cache *plancache.Cache[*Plan]
}

func NewPlanner(graph *composition.Result, cacheSize int) (*Planner, error) {
	cache, err := plancache.New[*Plan](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Planner{graph: graph, cache: cache}, nil
}

// Plan validates the query, partitions its root fields by owning
// subgraph, and folds each partition into a minimal selection tree
// serialized as one outbound operation.
func (p *Planner) Plan(query, operationName string) (*Plan, error) {
	key := plancache.Key(query, operationName)
	if cached, ok := p.cache.Get(key); ok {
		return cached, nil
	}

	doc, err := language.LoadQuery(p.graph.Schema, query)
	if err != nil {
		return nil, err
	}
	op := doc.Operations.ForName(operationName)
	if op == nil && operationName == "" && len(doc.Operations) == 1 {
		op = doc.Operations[0]
	}
	if op == nil {
		return nil, fmt.Errorf("operation %q not found", operationName)
	}

	rootType := p.rootType(op.Operation)
	if rootType == nil {
		return nil, fmt.Errorf("schema has no %s root type", op.Operation)
	}
	scope := plan.ScopeFor(p.graph.Schema, rootType.Name)
	fields := plan.CollectFields(p.graph.Schema, doc, scope, op.SelectionSet)

	built := &Plan{OperationType: op.Operation}
	order := make([]string, 0, 2)
	partitions := make(map[string]plan.FieldSet)
	seenRoot := make(map[string]bool)
	for _, f := range fields {
		subgraph, ok := p.graph.Routes[f.Node.Name]
		if !ok {
			if f.Node.Name == "__typename" {
				continue
			}
			return nil, &UnroutableFieldError{FieldName: f.Node.Name}
		}
		if _, seen := partitions[subgraph]; !seen {
			order = append(order, subgraph)
		}
		partitions[subgraph] = append(partitions[subgraph], f)
		if !seenRoot[f.ResponseName()] {
			seenRoot[f.ResponseName()] = true
			built.RootFields = append(built.RootFields, RootField{
				ResponseName: f.ResponseName(),
				Subgraph:     subgraph,
			})
		}
	}

	for _, subgraph := range order {
		sel := plan.BuildSelectionSet(partitions[subgraph], scope)
		built.Fetches = append(built.Fetches, &Fetch{
			Subgraph:  subgraph,
			Query:     formatOutbound(op, sel),
			Variables: language.UsedVariables(sel),
		})
	}

	p.cache.Add(key, built)
	return built, nil
}

func (p *Planner) rootType(op language.Operation) *language.Definition {
	switch op {
	case language.Query:
		return p.graph.Schema.Query
	case language.Mutation:
		return p.graph.Schema.Mutation
	case language.Subscription:
		return p.graph.Schema.Subscription
	}
	return nil
}

// formatOutbound serializes sel as a standalone operation carrying only
// the variable definitions and fragments it uses.
func formatOutbound(op *language.OperationDefinition, sel language.SelectionSet) string {
	out := &language.OperationDefinition{
		Operation:    op.Operation,
		Name:         op.Name,
		SelectionSet: sel,
	}
	used := language.UsedVariables(sel)
	for _, vd := range op.VariableDefinitions {
		for _, name := range used {
			if vd.Variable == name {
				out.VariableDefinitions = append(out.VariableDefinitions, vd)
				break
			}
		}
	}
	doc := &language.QueryDocument{Operations: []*language.OperationDefinition{out}}
	doc.Fragments = append(doc.Fragments, language.UsedFragments(sel)...)
	return language.FormatQueryDocument(doc)
}
