package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/mjaros/parley"
)

// Interface compliance check.
var _ parley.Client = (*Client)(nil)

// Client talks to the chat service. The token store is read on every request
// so auth transitions take effect without rebuilding the client.
type Client struct {
	baseURL    string
	store      parley.TokenStore
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new [Client] reading its token from store.
func New(store parley.TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		store:      store,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Login implements [parley.Client].
func (c *Client) Login(ctx context.Context, username, password string) (parley.Credentials, error) {
	var out credentialsDTO
	err := c.do(ctx, http.MethodPost, loginPath, loginRequest{Username: username, Password: password}, &out)
	if err != nil {
		var he *httpError
		if errors.As(err, &he) && he.status < http.StatusInternalServerError {
			return parley.Credentials{}, authError(he, "Login failed")
		}
		return parley.Credentials{}, err
	}
	return parley.Credentials{Token: out.Token, User: out.User.user()}, nil
}

// Register implements [parley.Client].
func (c *Client) Register(ctx context.Context, reg parley.Registration) (parley.Credentials, error) {
	body := registerRequest{
		Username:        reg.Username,
		Email:           reg.Email,
		FirstName:       reg.FirstName,
		LastName:        reg.LastName,
		Password:        reg.Password,
		PasswordConfirm: reg.PasswordConfirm,
	}
	var out credentialsDTO
	err := c.do(ctx, http.MethodPost, registerPath, body, &out)
	if err != nil {
		var he *httpError
		if errors.As(err, &he) && he.status < http.StatusInternalServerError {
			return parley.Credentials{}, authError(he, "Registration failed")
		}
		return parley.Credentials{}, err
	}
	return parley.Credentials{Token: out.Token, User: out.User.user()}, nil
}

// Profile implements [parley.Client].
func (c *Client) Profile(ctx context.Context) (parley.User, error) {
	var out userDTO
	if err := c.do(ctx, http.MethodGet, profilePath, nil, &out); err != nil {
		return parley.User{}, mapError(err)
	}
	return out.user(), nil
}

// Logout implements [parley.Client].
func (c *Client) Logout(ctx context.Context) error {
	return mapError(c.do(ctx, http.MethodPost, logoutPath, nil, nil))
}

// Conversations implements [parley.Client].
func (c *Client) Conversations(ctx context.Context) ([]parley.Conversation, error) {
	var out conversationListDTO
	if err := c.do(ctx, http.MethodGet, conversationsPath, nil, &out); err != nil {
		return nil, mapError(err)
	}
	conversations := make([]parley.Conversation, len(out.Results))
	for i, dto := range out.Results {
		conversations[i] = dto.conversation()
	}
	return conversations, nil
}

// Conversation implements [parley.Client]. Both the wrapped and flat detail
// shapes normalize to the same [parley.Conversation].
func (c *Client) Conversation(ctx context.Context, id string) (parley.Conversation, error) {
	var out conversationDetailDTO
	if err := c.do(ctx, http.MethodGet, conversationsPath+id+"/", nil, &out); err != nil {
		return parley.Conversation{}, mapError(err)
	}
	return out.conversation(), nil
}

// DeleteConversation implements [parley.Client].
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	return mapError(c.do(ctx, http.MethodDelete, conversationsPath+id+"/delete/", nil, nil))
}

// Send implements [parley.Client]. An empty conversationID creates a new
// conversation server-side.
func (c *Client) Send(ctx context.Context, text, conversationID string) (parley.Reply, error) {
	body := chatRequest{
		Message:        text,
		ConversationID: json.Number(conversationID),
	}
	var out replyDTO
	if err := c.do(ctx, http.MethodPost, chatPath, body, &out); err != nil {
		return parley.Reply{}, mapError(err)
	}
	return out.reply(), nil
}

// do issues one request and decodes a 2xx response into out (when non-nil).
// Non-2xx responses come back as *httpError for the caller to map.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token, err := c.store.Token(); err == nil && token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("api: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return &httpError{status: resp.StatusCode, body: raw}
	}

	if out == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

// mapError translates an *httpError from an authenticated endpoint into the
// domain taxonomy. Other errors pass through unchanged.
func mapError(err error) error {
	var he *httpError
	if !errors.As(err, &he) {
		return err
	}
	switch he.status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", parley.ErrInvalidToken, he.body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", parley.ErrNotFound, he.body)
	default:
		return he
	}
}
