package parley

import (
	"context"
	"time"
)

// User is an authenticated account's profile record.
type User struct {
	ID        string
	Username  string
	Email     string
	FirstName string
	LastName  string
	JoinedAt  time.Time
}

// Credentials is a successful login or registration response.
type Credentials struct {
	Token string
	User  User
}

// Registration carries the register form fields.
type Registration struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Password        string
	PasswordConfirm string
}

/// Reply is the server's response to a sent chat message: the stored user
// message and the assistant's answer. ConversationID is set when the send
// created a new conversation.
type Reply struct {
	ConversationID   string
	UserMessage      Message
	AssistantMessage Message
}

// Client is the chat service API consumed by the core state machines.
// Implementations authenticate requests with the ambient persisted token.
type Client interface {
	Login(ctx context.Context, username, password string) (Credentials, error)
	Register(ctx context.Context, reg Registration) (Credentials, error)
	Profile(ctx context.Context) (User, error)
	Logout(ctx context.Context) error
	Conversations(ctx context.Context) ([]Conversation, error)
	Conversation(ctx context.Context, id string) (Conversation, error)
	DeleteConversation(ctx context.Context, id string) error
	Send(ctx context.Context, text, conversationID string) (Reply, error)
}

// TokenStore persists the opaque credential token. Save and Clear are each a
// single atomic replace-or-clear; a missing token reads as ("", nil).
type TokenStore interface {
	Token() (string, error)
	Save(token string) error
	Clear() error
}
