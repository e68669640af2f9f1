package entities

import "time"

// Chat roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleFunction  = "function"
)

// ChatMessage is one line of a chat transcript
type ChatMessage struct {
	ID        string    `json:"id,omitempty"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"-"`
}

// ChatTurn is a history entry sent back to the chat endpoint
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body posted to the chat endpoint
type ChatRequest struct {
	Message string     `json:"message"`
	History []ChatTurn `json:"history"`
}

// ChatReply is the body returned by the chat endpoint
type ChatReply struct {
	Success   bool          `json:"success"`
	Messages  []ChatMessage `json:"messages"`
	OutputLog []string      `json:"output_log,omitempty"`
	Error     string        `json:"error,omitempty"`
}
