package backend

// ChatMessage is both the chat history entry and the inbound WebSocket frame.
// Reaction events carry Type "reaction" and MessageID instead of text.
type ChatMessage struct {
	ID         string `json:"id,omitempty"`
	Username   string `json:"username"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
	Reactions  *int   `json:"reactions,omitempty"`
	HasReacted *bool  `json:"hasReacted,omitempty"`
	Type       string `json:"type,omitempty"`
	MessageID  string `json:"messageId,omitempty"`
}

// ChatHistory is returned by GET /chat/history
type ChatHistory struct {
	Messages []ChatMessage `json:"messages"`
}

// IsReaction reports whether the frame is a reaction event
func (m ChatMessage) IsReaction() bool {
	return m.Type == "reaction"
}
