package models

// ChatRole identifies who wrote a chat turn
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatTurn is one message of a conversation. The transcript is owned by the
// client and sent back with every request.
type ChatTurn struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
	Source  string   `json:"source,omitempty"`
}
