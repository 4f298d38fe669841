package protocol

import (
	"encoding/json"
	"fmt"
)

// validClientTypes is the set of allowed page→host message types.
var validClientTypes = map[string]bool{
	TypeFormSubmit:   true,
	TypeScriptResult: true,
}

// ValidateClientMessage validates a raw JSON message from a page.
// Returns the parsed Message and any validation error.
func ValidateClientMessage(raw []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if msg.Type == "" {
		return nil, fmt.Errorf("missing 'type' field")
	}

	if !validClientTypes[msg.Type] {
		return nil, fmt.Errorf("unknown message type: %s", msg.Type)
	}

	if msg.Payload == nil {
		return nil, fmt.Errorf("missing 'payload' field")
	}

	switch msg.Type {
	case TypeFormSubmit:
		var p FormSubmitPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return nil, fmt.Errorf("invalid payload for %s: %w", msg.Type, err)
		}
		// An empty string is a valid submission for a form without inputs.
		if p.Values == nil {
			return nil, fmt.Errorf("missing required field 'values' in %s payload", msg.Type)
		}

	case TypeScriptResult:
		var p ScriptResultPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return nil, fmt.Errorf("invalid payload for %s: %w", msg.Type, err)
		}
	}

	return &msg, nil
}

// NewErrorMessage creates an error message ready to send to the page.
func NewErrorMessage(code, message string) (*Message, error) {
	return NewMessage(TypeError, ErrorPayload{
		Code:    code,
		Message: message,
	})
}
