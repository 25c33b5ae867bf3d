// Package handler exposes the read-only certification catalog over HTTP.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"conforma/internal/catalog"
	id "conforma/pkg/domain"
	dErrors "conforma/pkg/domain-errors"
	"conforma/pkg/platform/httputil"
)

// Handler serves the certification catalog. The library is immutable after
// load, so handlers read it without synchronization.
type Handler struct {
	logger  *slog.Logger
	library *catalog.Library
}

// New creates a new catalog Handler.
func New(library *catalog.Library, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, library: library}
}

// Register registers the catalog routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/catalog/certifications", h.handleListCertifications)
	r.Get("/catalog/{certificationID}/requirements", h.handleListRequirements)
}

// certificationSummary lists a certification without its full clause tree.
type certificationSummary struct {
	ID        id.CertificationID `json:"id"`
	Name      string             `json:"name"`
	Version   string             `json:"version"`
	Available bool               `json:"available"`
}

func (h *Handler) handleListCertifications(w http.ResponseWriter, r *http.Request) {
	certs := h.library.Certifications()
	summaries := make([]certificationSummary, 0, len(certs))
	for _, cert := range certs {
		summaries = append(summaries, certificationSummary{
			ID:        cert.ID,
			Name:      cert.Name,
			Version:   cert.Version,
			Available: cert.Available(),
		})
	}
	httputil.WriteJSON(w, http.StatusOK, summaries)
}

func (h *Handler) handleListRequirements(w http.ResponseWriter, r *http.Request) {
	certID := id.CertificationID(chi.URLParam(r, "certificationID"))
	cert, ok := h.library.Certification(certID)
	if !ok {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeNotFound, "unknown certification %q", certID))
		return
	}
	flattened := catalog.Flatten(cert)
	if flattened == nil {
		flattened = []catalog.FlattenedRequirement{}
	}
	httputil.WriteJSON(w, http.StatusOK, flattened)
}
