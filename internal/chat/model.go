package chat

import "time"

// Turn is a single message in the conversation history.
type Turn struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SendRequest is the body of POST /api/chat.
type SendRequest struct {
	Message    string `json:"message" validate:"required,min=1"`
	Session    string `json:"session,omitempty"`
	ClientTime string `json:"clientTime,omitempty"`
}

// ClearRequest is the body of POST /api/chat/clear.
type ClearRequest struct {
	Session string `json:"session,omitempty"`
}

// SendResponse carries the model's reply text.
type SendResponse struct {
	Response string `json:"response"`
}

// ErrorResponse carries a failure, optionally with a soft in-character
// line the front-end can still display.
type ErrorResponse struct {
	Error    string `json:"error"`
	Response string `json:"response,omitempty"`
}
