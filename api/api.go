// Package api implements [parley.Client] over the chat service's HTTP JSON
// API. Requests carry the ambient persisted token; responses use numeric ids
// which are surfaced to the domain as opaque strings.
package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mjaros/parley"
)

const (
	defaultBaseURL = "http://localhost:8000"

	loginPath         = "/api/auth/login/"
	registerPath      = "/api/auth/register/"
	profilePath       = "/api/auth/profile/"
	logoutPath        = "/api/auth/logout/"
	conversationsPath = "/api/conversations/"
	chatPath          = "/api/chat/"
)

// httpError is a non-2xx response with its raw body, kept for endpoint-
// specific mapping into the domain error taxonomy.
type httpError struct {
	status int
	body   []byte
}

func (e *httpError) Error() string {
	return fmt.Sprintf("api: HTTP %d: %s", e.status, e.body)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type chatRequest struct {
	Message        string      `json:"message"`
	ConversationID json.Number `json:"conversation_id,omitempty"`
}

type userDTO struct {
	ID         json.Number `json:"id"`
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	DateJoined time.Time   `json:"date_joined"`
}

func (d userDTO) user() parley.User {
	return parley.User{
		ID:        d.ID.String(),
		Username:  d.Username,
		Email:     d.Email,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		JoinedAt:  d.DateJoined,
	}
}

type credentialsDTO struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

type messageDTO struct {
	ID        json.Number `json:"id"`
	Content   string      `json:"content"`
	IsUser    bool        `json:"is_user"`
	Timestamp time.Time   `json:"timestamp"`
}

func (d messageDTO) message() parley.Message {
	author := parley.AuthorAssistant
	if d.IsUser {
		author = parley.AuthorUser
	}
	return parley.Message{
		ID:        d.ID.String(),
		Content:   d.Content,
		Author:    author,
		Timestamp: d.Timestamp,
	}
}

type conversationDTO struct {
	ID           json.Number  `json:"id"`
	Title        string       `json:"title"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	MessageCount int          `json:"message_count"`
	Messages     []messageDTO `json:"messages"`
}

func (d conversationDTO) conversation() parley.Conversation {
	conv := parley.Conversation{
		ID:           d.ID.String(),
		Title:        d.Title,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		MessageCount: d.MessageCount,
	}
	for _, m := range d.Messages {
		conv.Messages = append(conv.Messages, m.message())
	}
	return conv
}

// conversationDetailDTO accepts both detail shapes the service is known to
// serve: wrapped `{"conversation": {...}}` and flat `{...}`.
type conversationDetailDTO struct {
	Wrapped *conversationDTO `json:"conversation"`
	conversationDTO
}

func (d conversationDetailDTO) conversation() parley.Conversation {
	if d.Wrapped != nil {
		return d.Wrapped.conversation()
	}
	return d.conversationDTO.conversation()
}

type conversationListDTO struct {
	Count   int               `json:"count"`
	Results []conversationDTO `json:"results"`
}

type replyDTO struct {
	ConversationID    json.Number `json:"conversation_id"`
	UserMessage       messageDTO  `json:"user_message"`
	AIMessage         messageDTO  `json:"ai_message"`
	ConversationTitle string      `json:"conversation_title"`
}

func (d replyDTO) reply() parley.Reply {
	return parley.Reply{
		ConversationID:   d.ConversationID.String(),
		UserMessage:      d.UserMessage.message(),
		AssistantMessage: d.AIMessage.message(),
	}
}

// authError converts a 4xx response from an auth endpoint into a
// [parley.AuthError]. The payload is either {"message": "..."} or a
// field-error map like {"username": ["A user with that username exists."]};
// both may appear together. An unparseable body falls back to the generic
// message.
func authError(he *httpError, fallback string) *parley.AuthError {
	ae := &parley.AuthError{Message: fallback}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(he.body, &payload); err != nil {
		return ae
	}

	for _, key := range []string{"message", "error", "detail"} {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		var msg string
		if json.Unmarshal(raw, &msg) == nil && msg != "" {
			ae.Message = msg
		}
		delete(payload, key)
	}

	fields := make(map[string][]string)
	for name, raw := range payload {
		var list []string
		if json.Unmarshal(raw, &list) == nil {
			fields[name] = list
			continue
		}
		var single string
		if json.Unmarshal(raw, &single) == nil {
			fields[name] = []string{single}
		}
	}
	if len(fields) > 0 {
		ae.Fields = fields
	}
	return ae
}
