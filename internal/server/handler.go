// Package server exposes the query core over HTTP for browser front ends:
// parsing, suggestions, catalogs and submission history.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/oakwood-commons/aqx/internal/catalog"
	"github.com/oakwood-commons/aqx/internal/completion"
	"github.com/oakwood-commons/aqx/internal/history"
	"github.com/oakwood-commons/aqx/internal/query"
	"github.com/oakwood-commons/aqx/pkg/settings"
)

const maxSubmitBodySize = 1 << 20

// Deps are the collaborators shared by all requests.
type Deps struct {
	Catalogs *catalog.Set
	History  *history.Store
	Engine   *completion.Engine
	Logger   logr.Logger
	// OnSubmit, when set, receives every accepted submission.
	OnSubmit func(Submission)
}

// Submission is the response to POST /api/submit.
type Submission struct {
	ID         string            `json:"id"`
	Catalog    string            `json:"catalog"`
	Raw        string            `json:"raw"`
	Conditions []query.Condition `json:"conditions"`
}

type submitRequest struct {
	Catalog string `json:"catalog"`
	Query   string `json:"q"`
}

type parseResponse struct {
	Raw        string            `json:"raw"`
	Conditions []query.Condition `json:"conditions"`
}

type catalogSummary struct {
	Name    string `json:"name"`
	Default bool   `json:"default"`
	Fields  int    `json:"fields"`
}

type catalogDetail struct {
	Name     string            `json:"name"`
	Fields   []catalog.Field   `json:"fields"`
	Examples []catalog.Example `json:"examples"`
}

// NewHandler builds the router.
func NewHandler(deps Deps) http.Handler {
	if deps.Engine == nil {
		deps.Engine = completion.NewEngine()
	}
	if deps.History == nil {
		deps.History = history.New(nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(deps.Logger))

	r.Get("/health", handleHealth())
	r.Route("/api", func(r chi.Router) {
		r.Get("/catalogs", handleListCatalogs(deps))
		r.Get("/catalogs/{name}", handleGetCatalog(deps))
		r.Get("/parse", handleParse())
		r.Get("/suggest", handleSuggest(deps))
		r.Post("/submit", handleSubmit(deps))
		r.Get("/history", handleHistory(deps))
		r.Get("/history/{field}", handleFieldHistory(deps))
	})
	return r
}

func handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": settings.VersionInformation.BuildVersion,
		})
	}
}

func handleListCatalogs(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		out := make([]catalogSummary, 0)
		if deps.Catalogs != nil {
			for _, name := range deps.Catalogs.Names() {
				cat, err := deps.Catalogs.Get(name)
				if err != nil {
					continue
				}
				out = append(out, catalogSummary{
					Name:    name,
					Default: name == deps.Catalogs.Default(),
					Fields:  cat.Len(),
				})
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleGetCatalog(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat, err := lookupCatalog(deps, chi.URLParam(r, "name"))
		if err != nil {
			httpError(w, http.StatusNotFound, "%v", err)
			return
		}
		writeJSON(w, http.StatusOK, catalogDetail{
			Name:     cat.Name(),
			Fields:   nonNil(cat.Fields()),
			Examples: nonNil(cat.Examples()),
		})
	}
}

func handleParse() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("q")
		if err := query.Validate(raw); errors.Is(err, query.ErrEmptyQuery) {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}
		writeJSON(w, http.StatusOK, parseResponse{Raw: raw, Conditions: query.Scan(raw)})
	}
}

func handleSuggest(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		input := params.Get("q")
		cat, err := lookupCatalog(deps, params.Get("catalog"))
		if err != nil {
			httpError(w, http.StatusNotFound, "%v", err)
			return
		}

		end := utf8.RuneCountInString(input)
		caret := end
		if s := params.Get("caret"); s != "" {
			caret, err = strconv.Atoi(s)
			if err != nil || caret < 0 || caret > end {
				httpError(w, http.StatusBadRequest, "caret must be an integer between 0 and %d", end)
				return
			}
		}

		writeJSON(w, http.StatusOK, deps.Engine.Explain(input, caret == end, cat.Fields(), deps.History))
	}
}

func handleSubmit(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxSubmitBodySize)
		defer r.Body.Close()

		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
			return
		}
		cat, err := lookupCatalog(deps, req.Catalog)
		if err != nil {
			httpError(w, http.StatusNotFound, "%v", err)
			return
		}
		if err := query.Validate(req.Query); err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}

		conds := query.Scan(req.Query)
		deps.History.RecordConditions(conds)

		sub := Submission{
			ID:         uuid.New().String(),
			Catalog:    cat.Name(),
			Raw:        req.Query,
			Conditions: conds,
		}
		deps.Logger.V(1).Info("query submitted", "id", sub.ID, "catalog", sub.Catalog, "conditions", len(conds))
		if deps.OnSubmit != nil {
			deps.OnSubmit(sub)
		}
		writeJSON(w, http.StatusOK, sub)
	}
}

func handleHistory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, deps.History.Snapshot())
	}
}

func handleFieldHistory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		field := chi.URLParam(r, "field")
		writeJSON(w, http.StatusOK, map[string]any{
			"field":  field,
			"values": nonNil(deps.History.Lookup(field)),
		})
	}
}

func lookupCatalog(deps Deps, name string) (*catalog.Catalog, error) {
	if deps.Catalogs == nil {
		return nil, fmt.Errorf("no catalogs configured")
	}
	return deps.Catalogs.Get(name)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, format string, args ...any) {
	writeJSON(w, code, map[string]string{"error": fmt.Sprintf(format, args...)})
}

func requestLogger(lgr logr.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			lgr.V(1).Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
