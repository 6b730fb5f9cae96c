package parley

import "time"

// NewConversation is the sentinel id for a conversation that has not been
// saved on the server. Opening it yields an empty timeline and no network
// call; the first successful send creates the server-side conversation.
const NewConversation = "new"

// DefaultTitle is the display title of an unsaved conversation.
const DefaultTitle = "New Chat"

// Conversation is a conversation summary or detail. Messages is populated
// only by [Client.Conversation]; list responses carry MessageCount instead.
type Conversation struct {
	ID           string
	Title        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	MessageCount int
	Messages     []Message
}
