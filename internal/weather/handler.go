package weather

import (
	"log/slog"
	"net/http"

	"github.com/nimbus-assistant/nimbus/internal/api"
)

// Handler handles the weather HTTP endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Current returns the snapshot for ?city=, or the default city.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	if !h.svc.Configured() {
		api.HandleError(w, api.ErrNoWeatherKey)
		return
	}

	city := r.URL.Query().Get("city")
	snap, err := h.svc.Current(r.Context(), city)
	if err != nil {
		slog.Error("weather lookup failed", "city", city, "error", err)
		api.HandleError(w, api.ErrWeatherUpstream)
		return
	}

	api.JSON(w, http.StatusOK, snap)
}
