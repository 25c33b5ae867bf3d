// Package handler exposes the evaluation lifecycle over HTTP: evaluation
// reads and saves, changelog queries, and project statistics.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"conforma/internal/changelog"
	"conforma/internal/evaluation"
	"conforma/internal/stats"
	id "conforma/pkg/domain"
	dErrors "conforma/pkg/domain-errors"
	"conforma/pkg/platform/httputil"
	"conforma/pkg/requestcontext"
)

// Service defines the evaluation operations the handler needs.
type Service interface {
	GetEvaluation(ctx context.Context, projectID id.ProjectID, requirementID id.RequirementID) (evaluation.Evaluation, error)
	SaveEvaluation(ctx context.Context, projectID id.ProjectID, requirementID id.RequirementID, incoming evaluation.Evaluation) (evaluation.Evaluation, error)
	ProjectChangelog(ctx context.Context, projectID id.ProjectID, limit, offset int) ([]changelog.Entry, int, error)
	RequirementChangelog(ctx context.Context, projectID id.ProjectID, requirementID id.RequirementID) ([]changelog.Entry, error)
	Stats(ctx context.Context, projectID id.ProjectID) (*stats.ProjectStats, error)
}

// Handler handles evaluation, changelog, and stats endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a new evaluation Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the evaluation routes with the chi router. The caller
// mounts the shared middleware chain (request id, logging, auth) around it.
func (h *Handler) Register(r chi.Router) {
	r.Get("/projects/{projectID}/requirements/{requirementID}/evaluation", h.handleGetEvaluation)
	r.Put("/projects/{projectID}/requirements/{requirementID}/evaluation", h.handleSaveEvaluation)
	r.Get("/projects/{projectID}/changelog", h.handleProjectChangelog)
	r.Get("/projects/{projectID}/requirements/{requirementID}/changelog", h.handleRequirementChangelog)
	r.Get("/projects/{projectID}/stats", h.handleStats)
}

// changelogPage is the paginated changelog response envelope.
type changelogPage struct {
	Entries []changelog.Entry `json:"entries"`
	Total   int               `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

func (h *Handler) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID, requirementID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}

	eval, err := h.service.GetEvaluation(ctx, projectID, requirementID)
	if err != nil {
		h.writeServiceError(w, r, "get evaluation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, eval)
}

func (h *Handler) handleSaveEvaluation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID, requirementID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}

	incoming, ok := httputil.DecodeJSON[evaluation.Evaluation](w, r, h.logger, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	saved, err := h.service.SaveEvaluation(ctx, projectID, requirementID, incoming)
	if err != nil {
		h.writeServiceError(w, r, "save evaluation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, saved)
}

func (h *Handler) handleProjectChangelog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID, ok := h.projectID(w, r)
	if !ok {
		return
	}
	limit, ok := h.queryInt(w, r, "limit")
	if !ok {
		return
	}
	offset, ok := h.queryInt(w, r, "offset")
	if !ok {
		return
	}

	entries, total, err := h.service.ProjectChangelog(ctx, projectID, limit, offset)
	if err != nil {
		h.writeServiceError(w, r, "list project changelog", err)
		return
	}
	if entries == nil {
		entries = []changelog.Entry{}
	}
	httputil.WriteJSON(w, http.StatusOK, changelogPage{
		Entries: entries,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	})
}

func (h *Handler) handleRequirementChangelog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID, requirementID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}

	entries, err := h.service.RequirementChangelog(ctx, projectID, requirementID)
	if err != nil {
		h.writeServiceError(w, r, "list requirement changelog", err)
		return
	}
	if entries == nil {
		entries = []changelog.Entry{}
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID, ok := h.projectID(w, r)
	if !ok {
		return
	}

	result, err := h.service.Stats(ctx, projectID)
	if err != nil {
		h.writeServiceError(w, r, "compute stats", err)
		return
	}
	if result == nil {
		// Empty catalog: no statistics exist, which is not zero compliance.
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "statistics are not available for this certification"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) projectID(w http.ResponseWriter, r *http.Request) (id.ProjectID, bool) {
	projectID, err := id.ParseProjectID(chi.URLParam(r, "projectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.ProjectID{}, false
	}
	return projectID, true
}

func (h *Handler) pathIDs(w http.ResponseWriter, r *http.Request) (id.ProjectID, id.RequirementID, bool) {
	projectID, ok := h.projectID(w, r)
	if !ok {
		return id.ProjectID{}, "", false
	}
	requirementID := chi.URLParam(r, "requirementID")
	if requirementID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "requirement id is required"))
		return id.ProjectID{}, "", false
	}
	return projectID, id.RequirementID(requirementID), true
}

// queryInt parses an optional non-negative integer query parameter; absent
// means zero, which the service replaces with its defaults.
func (h *Handler) queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeInvalidInput, "%s must be a non-negative integer", name))
		return 0, false
	}
	return v, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal:
		h.logger.ErrorContext(ctx, "operation failed",
			slog.String("op", op),
			slog.String("request_id", requestcontext.RequestID(ctx)),
			slog.String("error", err.Error()),
		)
	default:
		h.logger.WarnContext(ctx, "request rejected",
			slog.String("op", op),
			slog.String("request_id", requestcontext.RequestID(ctx)),
			slog.String("error", err.Error()),
		)
	}
	httputil.WriteError(w, err)
}
