package web

import (
	"net/http"
	"strconv"

	"github.com/keystash/keystash/internal/config"
	"github.com/keystash/keystash/internal/db"
	"github.com/keystash/keystash/internal/errors"
	"github.com/keystash/keystash/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	store    *db.Store
	cfg      *config.Config
	renderer *Renderer
}

// HandleList handles GET /captures — recent captures, optionally filtered to
// one application via ?app=.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	app := r.URL.Query().Get("app")
	limit := parseIntParam(r, "limit", 0)

	data := ListPageData{
		PageData: PageData{
			Title:   "Captures",
			Version: h.renderer.version,
			Nav:     "captures",
		},
		App: app,
	}

	if app != "" {
		result, err := ops.ByApp(r.Context(), h.store, h.cfg, ops.ByAppInput{
			AppName: app,
			Limit:   limit,
		})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		data.Captures = result.Captures
	} else {
		result, err := ops.Recent(r.Context(), h.store, h.cfg, ops.RecentInput{Limit: limit})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		data.Captures = result.Captures
	}

	appsResult, err := ops.Apps(r.Context(), h.store, h.cfg)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	data.Apps = appsResult.Apps

	h.renderer.renderPage(w, r, "list", data)
}

// HandleSearch handles GET /captures/search — hybrid search.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	app := r.URL.Query().Get("app")

	data := SearchPageData{
		PageData: PageData{
			Title:   "Search",
			Version: h.renderer.version,
			Nav:     "search",
		},
		Query:    query,
		App:      app,
		HasQuery: query != "",
	}

	if query == "" {
		h.renderer.renderPage(w, r, "search", data)
		return
	}

	result, err := ops.Search(r.Context(), h.store, h.cfg, ops.SearchInput{
		Query:   query,
		AppName: ptrString(app),
		Limit:   parseIntParam(r, "limit", 0),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	data.Results = result.Results
	h.renderer.renderPage(w, r, "search", data)
}

// HandleStats handles GET /captures/stats — the aggregate snapshot.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Stats(r.Context(), h.store, h.cfg)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "stats", StatsPageData{
		PageData: PageData{
			Title:   "Stats",
			Version: h.renderer.version,
			Nav:     "stats",
		},
		Stats: result.Stats,
	})
}

// HandleDetail handles GET /captures/{id} — view a single capture.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("capture id must be an integer"))
		return
	}

	result, err := ops.Get(r.Context(), h.store, h.cfg, ops.GetInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData: PageData{
			Title:   result.Capture.AppName,
			Version: h.renderer.version,
			Nav:     "captures",
		},
		Capture:      result.Capture,
		RenderedHTML: renderMarkdown(result.Capture.Content),
	})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// ptrString returns a pointer to s if non-empty, nil otherwise.
func ptrString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
