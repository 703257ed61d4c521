package events

import "time"

// GraphQLStart is emitted before the gateway plans and executes an
// incoming operation.
type GraphQLStart struct {
	Query         string
	OperationName string
	OperationType string
}

// GraphQLFinish is emitted after the operation's subgraph fetches have
// completed and their results were merged.
type GraphQLFinish struct {
	Query         string
	OperationName string
	OperationType string

	// Subgraphs lists the services the planner fanned out to.
	Subgraphs []string
	Errors    []error
	Duration  time.Duration
}
