package domain

// Message roles within a conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation session.
type Message struct {
	// Role is RoleUser or RoleAssistant.
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}
