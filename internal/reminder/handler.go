package reminder

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nimbus-assistant/nimbus/internal/api"
	"github.com/nimbus-assistant/nimbus/internal/llm"
)

// Handler handles the reminder extraction endpoint.
type Handler struct {
	extractor *Extractor
	validate  *validator.Validate
}

func NewHandler(extractor *Extractor) *Handler {
	return &Handler{
		extractor: extractor,
		validate:  validator.New(),
	}
}

// Parse handles POST /api/parse-reminder. The intent record is returned
// to the caller, who owns scheduling; nothing is stored here.
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil || strings.TrimSpace(req.Message) == "" {
		api.HandleError(w, api.NewValidationError("message is required"))
		return
	}

	intent, err := h.extractor.Extract(r.Context(), req.Message)
	if err != nil {
		switch llm.KindOf(err) {
		case llm.KindRateLimited:
			api.HandleError(w, api.ErrRateLimited)
		case llm.KindAuth, llm.KindUnavailable:
			api.HandleError(w, api.ErrAIUnavailable)
		default:
			slog.Error("reminder extraction failed", "error", err)
			api.HandleError(w, api.ErrInternalServer)
		}
		return
	}

	api.JSON(w, http.StatusOK, intent)
}
