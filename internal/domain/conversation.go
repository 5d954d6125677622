package domain

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single message within a conversation.
type Turn struct {
	Role Role
	Text string
}

// Conversation is the ordered dialogue history for one user. The first
// turn is always the single system turn seeded at creation; turns are
// append-only for the lifetime of the conversation.
type Conversation struct {
	UserID string
	Turns  []Turn
}
