package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FeatureHandler handles storefront banner images.
type FeatureHandler struct {
	service service.FeatureService
	logger  zerolog.Logger
}

// NewFeatureHandler creates a new feature image handler.
func NewFeatureHandler(service service.FeatureService, logger zerolog.Logger) *FeatureHandler {
	return &FeatureHandler{
		service: service,
		logger:  logger.With().Str("handler", "feature").Logger(),
	}
}

func (h *FeatureHandler) List(w http.ResponseWriter, r *http.Request) {
	features, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, features)
}

func (h *FeatureHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req model.FeatureImageRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	feature, err := h.service.Add(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, feature)
}

func (h *FeatureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "Feature image not found", h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
