package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message is the envelope for all messages exchanged with a browser surface.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a host-originated message with the current timestamp.
func NewMessage(msgType string, payload interface{}) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return &Message{
		Type:      msgType,
		Payload:   data,
		Timestamp: time.Now().UTC(),
	}, nil
}

// Host → page message types.
const (
	TypeScriptEval = "script.eval"
	TypePageReload = "page.reload"
	TypeError      = "error"
)

// Page → host message types.
const (
	TypeFormSubmit   = "form.submit"
	TypeScriptResult = "script.result"
)

// Error codes.
const (
	ErrInvalidMessage = "INVALID_MESSAGE"
)

// Host → page payloads.

type ScriptEvalPayload struct {
	Script string `json:"script"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Page → host payloads.

// FormSubmitPayload carries the raw separator-joined submission.
type FormSubmitPayload struct {
	Values *string `json:"values"`
}

type ScriptResultPayload struct {
	Result string `json:"result"`
}
