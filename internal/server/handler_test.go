package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/aqx/internal/catalog"
	"github.com/oakwood-commons/aqx/internal/history"
	"github.com/oakwood-commons/aqx/internal/query"
)

func newTestDeps(t *testing.T) Deps {
	t.Helper()
	assets := catalog.MustNew("assets", []catalog.Field{
		{Key: "host", Label: "Host"},
		{Key: "status", Label: "Status"},
	}, []catalog.Example{{Expression: `host="api"`}})
	vulns := catalog.MustNew("vulnerabilities", []catalog.Field{
		{Key: "severity", Label: "Severity"},
	}, nil)
	set, err := catalog.NewSet(assets, vulns)
	require.NoError(t, err)
	return Deps{Catalogs: set, History: history.New(nil)}
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestHealth(t *testing.T) {
	rec, body := do(t, NewHandler(newTestDeps(t)), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestParse(t *testing.T) {
	h := NewHandler(newTestDeps(t))
	q := url.QueryEscape(`host="api" && status=="200"`)
	rec, body := do(t, h, http.MethodGet, "/api/parse?q="+q, "")
	require.Equal(t, http.StatusOK, rec.Code)

	conds := body["conditions"].([]any)
	require.Len(t, conds, 2)
	first := conds[0].(map[string]any)
	assert.Equal(t, "host", first["field"])
	assert.Equal(t, "=", first["operator"])
	assert.Equal(t, "api", first["value"])
	assert.Equal(t, `host="api"`, first["raw"])
}

func TestParseBlankQuery(t *testing.T) {
	h := NewHandler(newTestDeps(t))
	for _, target := range []string{"/api/parse", "/api/parse?q=", "/api/parse?q=%20%20"} {
		rec, body := do(t, h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, query.ErrEmptyQuery.Error(), body["error"], target)
	}
}

func TestParseWithoutConditions(t *testing.T) {
	rec, body := do(t, NewHandler(newTestDeps(t)), http.MethodGet, "/api/parse?q=broken%3D", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["conditions"])
}

func TestSuggest(t *testing.T) {
	deps := newTestDeps(t)
	deps.History.Record("host", "admin")
	deps.History.Record("host", "api")
	h := NewHandler(deps)

	tests := []struct {
		target string
		want   string
		rule   string
	}{
		{"/api/suggest?q=ho", `st="`, "field_name"},
		{"/api/suggest?q=" + url.QueryEscape(`host="a`), `pi"`, "history_value"},
		{"/api/suggest?q=sev&catalog=vulnerabilities", `erity="`, "field_name"},
		{"/api/suggest?q=ho&caret=1", "", "none"},
		{"/api/suggest?q=ho&caret=2", `st="`, "field_name"},
	}
	for _, tt := range tests {
		rec, body := do(t, h, http.MethodGet, tt.target, "")
		require.Equal(t, http.StatusOK, rec.Code, tt.target)
		assert.Equal(t, tt.want, body["suggestion"], tt.target)
		assert.Equal(t, tt.rule, body["rule"], tt.target)
	}
}

func TestSuggestErrors(t *testing.T) {
	h := NewHandler(newTestDeps(t))
	rec, _ := do(t, h, http.MethodGet, "/api/suggest?q=ho&catalog=nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	for _, caret := range []string{"x", "-1", "3"} {
		rec, body := do(t, h, http.MethodGet, "/api/suggest?q=ho&caret="+caret, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, caret)
		assert.Contains(t, body["error"], "caret")
	}
}

func TestSubmitRecordsHistory(t *testing.T) {
	deps := newTestDeps(t)
	var got []Submission
	deps.OnSubmit = func(s Submission) { got = append(got, s) }
	h := NewHandler(deps)

	rec, body := do(t, h, http.MethodPost, "/api/submit", `{"q":"host=\"api\" || host=\"www\""}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "assets", body["catalog"])
	assert.Equal(t, `host="api" || host="www"`, body["raw"])
	require.Len(t, got, 1)
	assert.Equal(t, query.Or, got[0].Conditions[1].Join)

	assert.Equal(t, []string{"www", "api"}, deps.History.Lookup("host"))

	rec, body = do(t, h, http.MethodGet, "/api/history/host", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"www", "api"}, body["values"])

	rec, body = do(t, h, http.MethodGet, "/api/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "host")

	rec, body = do(t, h, http.MethodGet, "/api/history/unknown", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, body["values"])
}

func TestSubmitValidation(t *testing.T) {
	deps := newTestDeps(t)
	h := NewHandler(deps)

	tests := []struct {
		body string
		code int
	}{
		{`{`, http.StatusBadRequest},
		{`{"q":""}`, http.StatusBadRequest},
		{`{"q":"no quotes here"}`, http.StatusBadRequest},
		{`{"q":"host=\"a\"","catalog":"nope"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		rec, body := do(t, h, http.MethodPost, "/api/submit", tt.body)
		assert.Equal(t, tt.code, rec.Code, tt.body)
		assert.NotEmpty(t, body["error"], tt.body)
	}
	assert.Empty(t, deps.History.Snapshot())
}

func TestCatalogs(t *testing.T) {
	h := NewHandler(newTestDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/api/catalogs", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []catalogSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, []catalogSummary{
		{Name: "assets", Default: true, Fields: 2},
		{Name: "vulnerabilities", Default: false, Fields: 1},
	}, list)

	rec, body := do(t, h, http.MethodGet, "/api/catalogs/vulnerabilities", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["fields"], 1)
	assert.Equal(t, []any{}, body["examples"])

	rec, _ = do(t, h, http.MethodGet, "/api/catalogs/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNoCatalogs(t *testing.T) {
	h := NewHandler(Deps{})
	rec, body := do(t, h, http.MethodGet, "/api/suggest?q=ho", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no catalogs configured", body["error"])
}

func TestServerRunAndShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	srv := &Server{
		Addr:            "127.0.0.1:0",
		Handler:         NewHandler(newTestDeps(t)),
		ShutdownTimeout: time.Second,
		Ready:           func(addr string) { ready <- addr },
	}
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/health", addr))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServerListenError(t *testing.T) {
	srv := &Server{Addr: "256.0.0.1:bad", Handler: http.NotFoundHandler()}
	assert.Error(t, srv.Run(context.Background()))
}
