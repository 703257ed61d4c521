package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	httptp "github.com/seamgraph/seamgraph/internal/httptp"
)

// stubFetcher answers fetches from canned per-subgraph responses and
// records what was sent.
type stubFetcher struct {
	mu        sync.Mutex
	responses map[string]*httptp.Response
	errs      map[string]error
	requests  map[string]httptp.Request
}

func (s *stubFetcher) Fetch(ctx context.Context, subgraph string, req httptp.Request) (*httptp.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requests == nil {
		s.requests = map[string]httptp.Request{}
	}
	s.requests[subgraph] = req
	if err := s.errs[subgraph]; err != nil {
		return nil, err
	}
	return s.responses[subgraph], nil
}

func newTestExecutor(t *testing.T, fetcher Fetcher) *Executor {
	t.Helper()
	return NewExecutor(newTestPlanner(t), fetcher)
}

func TestExecuteMergesInRequestOrder(t *testing.T) {
	fetcher := &stubFetcher{responses: map[string]*httptp.Response{
		"products": {Data: json.RawMessage(`{"topProducts":[{"sku":"a-1"}]}`)},
		"reviews":  {Data: json.RawMessage(`{"reviews":[{"body":"great"}]}`)},
	}}
	exec := newTestExecutor(t, fetcher)

	result := exec.Execute(context.Background(), Request{
		Query: `{ reviews { body } topProducts { sku } }`,
	})

	require.Empty(t, result.Errors)
	// Root keys come back in request order, not fetch order.
	require.Equal(t, `{"reviews":[{"body":"great"}],"topProducts":[{"sku":"a-1"}]}`, string(result.Data))
	require.ElementsMatch(t, []string{"products", "reviews"}, result.Subgraphs)
}

func TestExecuteForwardsOnlyUsedVariables(t *testing.T) {
	fetcher := &stubFetcher{responses: map[string]*httptp.Response{
		"products": {Data: json.RawMessage(`{"topProducts":[]}`)},
		"reviews":  {Data: json.RawMessage(`{"review":null}`)},
	}}
	exec := newTestExecutor(t, fetcher)

	result := exec.Execute(context.Background(), Request{
		Query:         `query Fetch($first: Int, $id: ID!) { topProducts(first: $first) { sku } review(id: $id) { body } }`,
		OperationName: "Fetch",
		Variables:     map[string]any{"first": 3, "id": "r-1"},
	})

	require.Empty(t, result.Errors)
	require.Equal(t, map[string]any{"first": 3}, fetcher.requests["products"].Variables)
	require.Equal(t, map[string]any{"id": "r-1"}, fetcher.requests["reviews"].Variables)
}

func TestExecuteNullsFailedPartitions(t *testing.T) {
	fetcher := &stubFetcher{
		responses: map[string]*httptp.Response{
			"products": {Data: json.RawMessage(`{"topProducts":[{"sku":"a-1"}]}`)},
		},
		errs: map[string]error{"reviews": errors.New("connection refused")},
	}
	exec := newTestExecutor(t, fetcher)

	result := exec.Execute(context.Background(), Request{
		Query: `{ topProducts { sku } reviews { body } }`,
	})

	require.Equal(t, `{"topProducts":[{"sku":"a-1"}],"reviews":null}`, string(result.Data))
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0].Message, "connection refused")
	require.Equal(t, "reviews", result.Errors[0].Extensions["subgraph"])
}

func TestExecuteAnnotatesSubgraphErrors(t *testing.T) {
	fetcher := &stubFetcher{responses: map[string]*httptp.Response{
		"reviews": {
			Data: json.RawMessage(`{"reviews":null}`),
			Errors: []*httptp.ResponseError{{
				Message:    "review store unavailable",
				Path:       []any{"reviews"},
				Extensions: map[string]any{"code": "UNAVAILABLE"},
			}},
		},
	}}
	exec := newTestExecutor(t, fetcher)

	result := exec.Execute(context.Background(), Request{Query: `{ reviews { body } }`})

	require.Len(t, result.Errors, 1)
	require.Equal(t, "review store unavailable", result.Errors[0].Message)
	require.Equal(t, []any{"reviews"}, result.Errors[0].Path)
	require.Equal(t, "reviews", result.Errors[0].Extensions["subgraph"])
	require.Equal(t, "UNAVAILABLE", result.Errors[0].Extensions["code"])
}

func TestExecuteReportsPlanFailures(t *testing.T) {
	fetcher := &stubFetcher{}
	exec := newTestExecutor(t, fetcher)

	result := exec.Execute(context.Background(), Request{Query: `{ nonexistent }`})

	require.Equal(t, string(nullJSON), string(result.Data))
	require.NotEmpty(t, result.Errors)
	require.Empty(t, fetcher.requests)
}

func TestExecuteRejectsSubscriptions(t *testing.T) {
	fetcher := &stubFetcher{}
	exec := newTestExecutor(t, fetcher)

	result := exec.Execute(context.Background(), Request{Query: `subscription { reviewAdded { id } }`})

	require.Equal(t, string(nullJSON), string(result.Data))
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0].Message, "subscriptions")
	require.Empty(t, fetcher.requests)
}
