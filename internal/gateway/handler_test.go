package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	httptp "github.com/seamgraph/seamgraph/internal/httptp"
)

func newTestHandler(t *testing.T, opts ...Option) *Handler {
	t.Helper()
	fetcher := &stubFetcher{responses: map[string]*httptp.Response{
		"products": {Data: json.RawMessage(`{"topProducts":[{"sku":"a-1"}]}`)},
		"reviews":  {Data: json.RawMessage(`{"reviews":[]}`)},
	}}
	return New(newTestExecutor(t, fetcher), opts...)
}

func postGraphQL(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestHandlerServesQuery(t *testing.T) {
	h := newTestHandler(t)

	w := postGraphQL(t, h, `{"query":"{ topProducts { sku } }"}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var result Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Empty(t, result.Errors)
	require.JSONEq(t, `{"topProducts":[{"sku":"a-1"}]}`, string(result.Data))
}

func TestHandlerServesGet(t *testing.T) {
	h := newTestHandler(t)

	r := httptest.NewRequest(http.MethodGet, "/graphql?query="+
		"%7B%20topProducts%20%7B%20sku%20%7D%20%7D", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var result Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Empty(t, result.Errors)
}

func TestHandlerServesBatch(t *testing.T) {
	h := newTestHandler(t)

	w := postGraphQL(t, h,
		`[{"query":"{ topProducts { sku } }"},{"query":"{ reviews { body } }"}]`)

	require.Equal(t, http.StatusOK, w.Code)

	var results []Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 2)
	require.JSONEq(t, `{"topProducts":[{"sku":"a-1"}]}`, string(results[0].Data))
	require.JSONEq(t, `{"reviews":[]}`, string(results[1].Data))
}

func TestHandlerRejectsMethod(t *testing.T) {
	h := newTestHandler(t)

	r := httptest.NewRequest(http.MethodDelete, "/graphql", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandlerRejectsMissingQuery(t *testing.T) {
	h := newTestHandler(t)

	w := postGraphQL(t, h, `{"variables":{}}`)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var result Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0].Message, "query")
}

func TestHandlerRejectsInvalidJSON(t *testing.T) {
	h := newTestHandler(t)

	w := postGraphQL(t, h, `{"query":`)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerLimitsBodySize(t *testing.T) {
	h := newTestHandler(t, WithMaxBodyBytes(16))

	w := postGraphQL(t, h, `{"query":"{ topProducts { sku } }"}`)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestHandlerCORSPreflight(t *testing.T) {
	h := newTestHandler(t, WithCORS("https://app.example.com"))

	r := httptest.NewRequest(http.MethodOptions, "/graphql", nil)
	r.Header.Set("Origin", "https://app.example.com")
	r.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "Authorization", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestHandlerCORSRejectsUnknownOrigin(t *testing.T) {
	h := newTestHandler(t, WithCORS("https://app.example.com"))

	r := httptest.NewRequest(http.MethodOptions, "/graphql", nil)
	r.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
