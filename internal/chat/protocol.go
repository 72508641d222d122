package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"RocketClient/internal/backend"
)

// TypeReaction marks reaction frames in both directions
const TypeReaction = "reaction"

var (
	ErrMalformedFrame = errors.New("malformed chat frame")
	ErrMissingFields  = errors.New("chat frame missing required fields")
)

// OutgoingMessage is the frame sent for a new chat message
type OutgoingMessage struct {
	Message string `json:"message"`
}

// OutgoingReaction is the frame sent to react to a message
type OutgoingReaction struct {
	Type      string `json:"type"`
	MessageID string `json:"messageId"`
}

// FrameError describes an inbound frame that was not delivered
type FrameError struct {
	Err     error    // ErrMalformedFrame or ErrMissingFields
	Missing []string // required fields that were absent
	Cause   error    // decoder error, if any
	Raw     []byte
}

func (e *FrameError) Error() string {
	switch {
	case len(e.Missing) > 0:
		return fmt.Sprintf("%v: %s", e.Err, strings.Join(e.Missing, ", "))
	case e.Cause != nil:
		return fmt.Sprintf("%v: %v", e.Err, e.Cause)
	}
	return e.Err.Error()
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

var (
	messageFields  = []string{"username", "message", "timestamp"}
	reactionFields = []string{"messageId"}
)

// ParseFrame decodes and validates one inbound text frame. Chat messages
// need username, message and timestamp; reaction events need messageId.
// A field that is present but null counts as missing.
func ParseFrame(data []byte) (backend.ChatMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return backend.ChatMessage{}, &FrameError{Err: ErrMalformedFrame, Cause: err, Raw: data}
	}

	var msg backend.ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return backend.ChatMessage{}, &FrameError{Err: ErrMalformedFrame, Cause: err, Raw: data}
	}

	required := messageFields
	if msg.IsReaction() {
		required = reactionFields
	}

	var missing []string
	for _, name := range required {
		raw, ok := fields[name]
		if !ok || string(raw) == "null" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return backend.ChatMessage{}, &FrameError{Err: ErrMissingFields, Missing: missing, Raw: data}
	}

	return msg, nil
}
