package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	httptp "github.com/seamgraph/seamgraph/internal/httptp"
	language "github.com/seamgraph/seamgraph/internal/language"
)

// Fetcher sends one GraphQL request to a named subgraph.
type Fetcher interface {
	Fetch(ctx context.Context, subgraph string, req httptp.Request) (*httptp.Response, error)
}

// Error is a GraphQL error in the gateway's response.
type Error struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// Result is the merged outcome of one operation.
type Result struct {
	Data   json.RawMessage `json:"data"`
	Errors []*Error        `json:"errors,omitempty"`

	// Subgraphs lists the services the plan fanned out to. Not part of
	// the response body; the handler reports it on events.
	Subgraphs []string `json:"-"`
}

// Executor plans incoming operations and fans them out to subgraphs,
// merging the per-subgraph responses back into one result. Fetches for
// one operation run in parallel; each invocation only reads shared
// state, so executors are safe for concurrent use.
type Executor struct {
	planner *Planner
	fetcher Fetcher
}

func NewExecutor(planner *Planner, fetcher Fetcher) *Executor {
	return &Executor{planner: planner, fetcher: fetcher}
}

// Request is one incoming GraphQL request.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
	Extensions    map[string]any `json:"extensions,omitempty"`
}

// Execute runs req end to end. Planning or validation failures come
// back as a Result with errors and null data; subgraph-level errors are
// annotated with the originating subgraph and partial data is kept.
func (e *Executor) Execute(ctx context.Context, req Request) *Result {
	built, err := e.planner.Plan(req.Query, req.OperationName)
	if err != nil {
		return &Result{Data: nullJSON, Errors: []*Error{{Message: err.Error()}}}
	}
	if built.OperationType == language.Subscription {
		return &Result{Data: nullJSON, Errors: []*Error{{Message: "subscriptions are not supported"}}}
	}

	type outcome struct {
		fetch *Fetch
		resp  *httptp.Response
		err   error
	}
	outcomes := make([]outcome, len(built.Fetches))
	var wg sync.WaitGroup
	for i, f := range built.Fetches {
		wg.Add(1)
		go func(i int, f *Fetch) {
			defer wg.Done()
			resp, err := e.fetcher.Fetch(ctx, f.Subgraph, httptp.Request{
				Query:         f.Query,
				OperationName: req.OperationName,
				Variables:     filterVariables(req.Variables, f.Variables),
			})
			outcomes[i] = outcome{fetch: f, resp: resp, err: err}
		}(i, f)
	}
	wg.Wait()

	result := &Result{}
	for _, f := range built.Fetches {
		result.Subgraphs = append(result.Subgraphs, f.Subgraph)
	}
	parts := make(map[string]map[string]json.RawMessage, len(outcomes))
	for _, oc := range outcomes {
		if oc.err != nil {
			result.Errors = append(result.Errors, &Error{
				Message:    oc.err.Error(),
				Extensions: map[string]any{"subgraph": oc.fetch.Subgraph},
			})
			continue
		}
		for _, re := range oc.resp.Errors {
			ext := map[string]any{"subgraph": oc.fetch.Subgraph}
			for k, v := range re.Extensions {
				ext[k] = v
			}
			result.Errors = append(result.Errors, &Error{Message: re.Message, Path: re.Path, Extensions: ext})
		}
		if len(oc.resp.Data) > 0 && !bytes.Equal(oc.resp.Data, nullJSON) {
			var fields map[string]json.RawMessage
			if err := json.Unmarshal(oc.resp.Data, &fields); err == nil {
				parts[oc.fetch.Subgraph] = fields
			}
		}
	}

	result.Data = assembleData(built.RootFields, parts)
	return result
}

var nullJSON = json.RawMessage("null")

// assembleData writes the merged data object with root keys in request
// order, which the per-subgraph partitioning would otherwise scramble.
func assembleData(rootFields []RootField, parts map[string]map[string]json.RawMessage) json.RawMessage {
	if len(rootFields) == 0 {
		return nullJSON
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rf := range rootFields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(rf.ResponseName)
		buf.Write(key)
		buf.WriteByte(':')
		if value, ok := parts[rf.Subgraph][rf.ResponseName]; ok {
			buf.Write(value)
		} else {
			buf.Write(nullJSON)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

func filterVariables(all map[string]any, names []string) map[string]any {
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]any, len(names))
	for _, name := range names {
		if v, ok := all[name]; ok {
			out[name] = v
		}
	}
	return out
}
