package chat

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nimbus-assistant/nimbus/internal/api"
	"github.com/nimbus-assistant/nimbus/internal/llm"
)

const defaultSession = "default"

// Handler handles the chat HTTP endpoints.
type Handler struct {
	svc      *Service
	validate *validator.Validate
}

func NewHandler(svc *Service) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// Send handles POST /api/chat. An empty or missing message is rejected
// before the model is ever invoked.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError("message is required"))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		api.HandleError(w, api.NewValidationError("message is required"))
		return
	}

	session := req.Session
	if session == "" {
		session = defaultSession
	}

	reply, err := h.svc.Respond(r.Context(), session, req.Message, req.ClientTime)
	if err != nil {
		h.writeChatError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, SendResponse{Response: reply})
}

// Clear handles POST /api/chat/clear.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	var req ClearRequest
	// Body is optional; a missing or invalid one clears the default session.
	_ = json.NewDecoder(r.Body).Decode(&req)

	session := req.Session
	if session == "" {
		session = defaultSession
	}

	if err := h.svc.Reset(r.Context(), session); err != nil {
		slog.Error("clearing history failed", "session", session, "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// writeChatError maps the model failure kind onto the HTTP contract.
// Service-unavailable responses still carry an in-character line.
func (h *Handler) writeChatError(w http.ResponseWriter, err error) {
	switch llm.KindOf(err) {
	case llm.KindRateLimited:
		api.JSON(w, http.StatusTooManyRequests, ErrorResponse{
			Error: api.ErrRateLimited.Message,
		})
	case llm.KindAuth, llm.KindUnavailable:
		api.JSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error:    api.ErrAIUnavailable.Message,
			Response: FallbackLine,
		})
	default:
		slog.Error("chat request failed", "error", err)
		api.JSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: api.ErrInternalServer.Message,
		})
	}
}
