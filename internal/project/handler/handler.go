// Package handler exposes project lifecycle endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"conforma/internal/project"
	id "conforma/pkg/domain"
	dErrors "conforma/pkg/domain-errors"
	"conforma/pkg/platform/httputil"
	"conforma/pkg/requestcontext"
)

// Service defines the project operations the handler needs.
type Service interface {
	Create(ctx context.Context, name string, certID id.CertificationID) (*project.Project, error)
	Get(ctx context.Context, projectID id.ProjectID) (*project.Project, error)
	List(ctx context.Context) ([]*project.Project, error)
}

// Handler handles project endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a new project Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the project routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/projects", h.handleCreate)
	r.Get("/projects", h.handleList)
	r.Get("/projects/{projectID}", h.handleGet)
}

type createRequest struct {
	Name          string `json:"name"`
	Certification string `json:"certification"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	payload, ok := httputil.DecodeJSON[createRequest](w, r, h.logger, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	p, err := h.service.Create(ctx, payload.Name, id.CertificationID(payload.Certification))
	if err != nil {
		h.writeServiceError(w, r, "create project", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID, err := id.ParseProjectID(chi.URLParam(r, "projectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	p, err := h.service.Get(ctx, projectID)
	if err != nil {
		h.writeServiceError(w, r, "get project", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projects, err := h.service.List(ctx)
	if err != nil {
		h.writeServiceError(w, r, "list projects", err)
		return
	}
	if projects == nil {
		projects = []*project.Project{}
	}
	httputil.WriteJSON(w, http.StatusOK, projects)
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
