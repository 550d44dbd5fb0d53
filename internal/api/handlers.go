package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/slamfeed/carousel/internal/models"
	"github.com/slamfeed/carousel/internal/worker"
)

type Handler struct {
	engine *worker.Engine
}

func NewHandler(engine *worker.Engine) *Handler {
	return &Handler{engine: engine}
}

// Render handles POST /v1/render: decode a carousel event, render it
// synchronously, and return the result document.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	var event models.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(event.Slides) == 0 {
		respondError(w, http.StatusBadRequest, "At least one slide is required")
		return
	}

	result, err := h.engine.Run(r.Context(), &event)
	if err != nil {
		log.Error().Err(err).Msg("render job failed")
		respondJSON(w, http.StatusInternalServerError, models.ErrorResult(err))
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
