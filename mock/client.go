// Package mock provides test doubles for parley interfaces using function
// fields.
package mock

import (
	"context"

	"github.com/mjaros/parley"
)

// Interface compliance checks.
var (
	_ parley.Client     = (*Client)(nil)
	_ parley.TokenStore = (*TokenStore)(nil)
)

// Client is a test double for parley.Client.
// Set the function fields for the methods you need.
type Client struct {
	LoginFn              func(ctx context.Context, username, password string) (parley.Credentials, error)
	RegisterFn           func(ctx context.Context, reg parley.Registration) (parley.Credentials, error)
	ProfileFn            func(ctx context.Context) (parley.User, error)
	LogoutFn             func(ctx context.Context) error
	ConversationsFn      func(ctx context.Context) ([]parley.Conversation, error)
	ConversationFn       func(ctx context.Context, id string) (parley.Conversation, error)
	DeleteConversationFn func(ctx context.Context, id string) error
	SendFn               func(ctx context.Context, text, conversationID string) (parley.Reply, error)
}

// Login delegates to LoginFn.
func (c *Client) Login(ctx context.Context, username, password string) (parley.Credentials, error) {
	return c.LoginFn(ctx, username, password)
}

// Register delegates to RegisterFn.
func (c *Client) Register(ctx context.Context, reg parley.Registration) (parley.Credentials, error) {
	return c.RegisterFn(ctx, reg)
}

// Profile delegates to ProfileFn.
func (c *Client) Profile(ctx context.Context) (parley.User, error) {
	return c.ProfileFn(ctx)
}

// Logout delegates to LogoutFn.
func (c *Client) Logout(ctx context.Context) error {
	return c.LogoutFn(ctx)
}

// Conversations delegates to ConversationsFn.
func (c *Client) Conversations(ctx context.Context) ([]parley.Conversation, error) {
	return c.ConversationsFn(ctx)
}

// Conversation delegates to ConversationFn.
func (c *Client) Conversation(ctx context.Context, id string) (parley.Conversation, error) {
	return c.ConversationFn(ctx, id)
}

// DeleteConversation delegates to DeleteConversationFn.
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	return c.DeleteConversationFn(ctx, id)
}

// Send delegates to SendFn.
func (c *Client) Send(ctx context.Context, text, conversationID string) (parley.Reply, error) {
	return c.SendFn(ctx, text, conversationID)
}
