package web

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hpungsan/quorum/internal/config"
	"github.com/hpungsan/quorum/internal/errors"
	"github.com/hpungsan/quorum/internal/ops"
	"github.com/hpungsan/quorum/internal/roster"
)

// Handlers contains HTTP route handlers for the JSON API.
type Handlers struct {
	db      *sql.DB
	cfg     *config.Config
	deps    ops.Deps
	version string
}

// consultRequest is the POST /consult body.
type consultRequest struct {
	Question    string              `json:"question"`
	Context     string              `json:"context,omitempty"`
	Preset      string              `json:"preset,omitempty"`
	Roles       []roster.RoleWeight `json:"roles,omitempty"`
	PackSlug    string              `json:"pack_slug,omitempty"`
	Locale      string              `json:"locale,omitempty"`
	PackVersion int                 `json:"pack_version,omitempty"`
	Mock        bool                `json:"mock,omitempty"`
	MockV2      bool                `json:"mock_v2,omitempty"`
}

// HandleConsult handles POST /consult: run one full deliberation.
func (h *Handlers) HandleConsult(w http.ResponseWriter, r *http.Request) {
	var req consultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, errors.NewInvalidRequest("request body must be a JSON object"))
		return
	}

	out, err := ops.Consult(r.Context(), h.db, h.cfg, h.deps, ops.ConsultInput{
		Question:    req.Question,
		Context:     req.Context,
		Preset:      req.Preset,
		Roles:       req.Roles,
		PackSlug:    req.PackSlug,
		Locale:      req.Locale,
		PackVersion: req.PackVersion,
		Mock:        req.Mock,
		MockV2:      req.MockV2,
	})
	if err != nil {
		renderError(w, err)
		return
	}

	// Reproducibility headers mirror the repro envelope in the body
	w.Header().Set("X-Quorum-Pack", out.Repro.PackSlug)
	w.Header().Set("X-Quorum-Pack-Locale", out.Repro.PackLocale)
	w.Header().Set("X-Quorum-Pack-Version", strconv.Itoa(out.Repro.PackVersion))
	w.Header().Set("X-Quorum-Pack-Hash", out.Repro.PackHash)
	w.Header().Set("X-Quorum-Model", out.Repro.Model)

	renderJSON(w, http.StatusOK, map[string]any{
		"ok":              true,
		"id":              out.ID,
		"consensus":       out.Consensus,
		"advisor_bullets": out.AdvisorBullets,
		"validated":       out.Validated,
		"fallback":        out.Fallback,
		"repro":           out.Repro,
	})
}

// HandleList handles GET /minutes: paginated session summaries.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	result, err := ops.List(h.db, ops.ListInput{
		Limit:  parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"items":      result.Items,
		"pagination": result.Pagination,
		"sort":       result.Sort,
	})
}

// HandleFetch handles GET /minutes/{id}: one full record.
func (h *Handlers) HandleFetch(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Fetch(h.db, ops.FetchInput{ID: r.PathValue("id")})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"minutes": result.Minutes,
	})
}

// HandleLatest handles GET /minutes/latest.
func (h *Handlers) HandleLatest(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Latest(h.db)
	if err != nil {
		renderError(w, err)
		return
	}
	if result.Item == nil {
		renderJSON(w, http.StatusOK, map[string]any{"ok": true, "minutes": nil})
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"minutes": result.Item,
	})
}

// HandlePackInfo handles GET /pack: the pack a consultation would use.
func (h *Handlers) HandlePackInfo(w http.ResponseWriter, r *http.Request) {
	result, err := ops.PackInfo(h.deps.Cache, h.cfg, ops.PackInfoInput{
		Slug:    r.URL.Query().Get("slug"),
		Locale:  r.URL.Query().Get("locale"),
		Version: parseIntParam(r, "version", 0),
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{"ok": true, "pack": result})
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(); err != nil {
		renderJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "status": "db unreachable"})
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"ok": true, "status": "healthy", "version": h.version})
}

// renderJSON writes a JSON response with the given status code.
func renderJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// renderError maps a coded error to its HTTP status and JSON envelope.
func renderError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := string(errors.ErrInternal)
	message := "an internal error occurred"

	var qerr *errors.QuorumError
	if errors.As(err, &qerr) {
		status = qerr.Status
		code = string(qerr.Code)
		message = qerr.Message
	}

	renderJSON(w, status, map[string]any{
		"ok":    false,
		"error": map[string]any{"code": code, "message": message},
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
