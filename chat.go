package parley

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Timeline is a read-only snapshot of a chat session for rendering.
type Timeline struct {
	ConversationID string
	Title          string
	Messages       []Message
	// PendingID is the id of the optimistic message awaiting reconciliation,
	// or empty.
	PendingID string
	// Sending reports whether a send is in flight.
	Sending bool
}

// SendResult reports the outcome of a resolved send.
type SendResult struct {
	// Created is set when the send created a new conversation. The caller
	// should activate ConversationID with a fresh Open; the session does not
	// carry state across that transition.
	Created        bool
	ConversationID string
	// Stale is set when the session was re-opened while the request was in
	// flight and the result was discarded.
	Stale bool
}

// ChatSession owns one conversation's message timeline and in-flight send
// state. Message order is insertion order and is never rearranged. Methods
// block on network calls and are safe for concurrent use; at most one send
// is in flight at a time.
type ChatSession struct {
	client Client
	log    zerolog.Logger

	mu      sync.Mutex
	conv    string
	epoch   int // bumped by every Open; completions from older epochs are discarded
	title   string
	msgs    []Message
	pending string
	sending bool
}

// ChatOption configures a [ChatSession].
type ChatOption func(*ChatSession)

// WithChatLogger sets the logger for discarded stale responses.
func WithChatLogger(log zerolog.Logger) ChatOption {
	return func(s *ChatSession) { s.log = log }
}

// NewChatSession creates a chat session over the given client. The session
// starts on the unsaved conversation; call [ChatSession.Open] to load one.
func NewChatSession(client Client, opts ...ChatOption) *ChatSession {
	s := &ChatSession{
		client: client,
		log:    zerolog.Nop(),
		conv:   NewConversation,
		title:  DefaultTitle,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Timeline returns a snapshot of the session. The message slice is a copy;
// the caller may retain it across subsequent mutations.
func (s *ChatSession) Timeline() Timeline {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]Message, len(s.msgs))
	copy(msgs, s.msgs)
	return Timeline{
		ConversationID: s.conv,
		Title:          s.title,
		Messages:       msgs,
		PendingID:      s.pending,
		Sending:        s.sending,
	}
}

// Open loads conversation id into the session. The sentinel
// [NewConversation] initializes an empty unsaved timeline without a network
// call. Opening invalidates interest in any send still in flight: its
// result, if it arrives later, is discarded rather than applied to the new
// timeline. On fetch failure the session is left on the empty timeline and
// the caller is expected to navigate back to the conversation list.
func (s *ChatSession) Open(ctx context.Context, id string) error {
	s.mu.Lock()
	s.epoch++
	s.conv = id
	s.title = DefaultTitle
	s.msgs = nil
	s.pending = ""
	s.sending = false
	s.mu.Unlock()

	if id == NewConversation {
		return nil
	}

	conv, err := s.client.Conversation(ctx, id)
	if err != nil {
		return fmt.Errorf("open conversation %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conv != id {
		// Re-opened elsewhere while fetching; this result is stale.
		return nil
	}
	s.title = conv.Title
	if s.title == "" {
		s.title = "Chat"
	}
	s.msgs = conv.Messages
	return nil
}

// Send submits draft to the conversation using an optimistic-send protocol.
// Empty or whitespace-only drafts are a silent no-op. For a saved
// conversation a local user message is appended immediately and reconciled
// against the server's authoritative pair on success, or removed on failure.
// For the unsaved conversation no optimistic entry is made; success returns
// the newly assigned conversation id via SendResult.Created.
//
// On failure the caller still holds the submitted draft and should restore
// it to the input. A second Send while one is in flight fails with
// [ErrSendInFlight] and has no side effects.
func (s *ChatSession) Send(ctx context.Context, draft string) (SendResult, error) {
	if strings.TrimSpace(draft) == "" {
		return SendResult{}, nil
	}

	s.mu.Lock()
	if s.sending {
		s.mu.Unlock()
		return SendResult{}, ErrSendInFlight
	}
	s.sending = true
	epoch := s.epoch
	conv := s.conv
	var localID string
	if conv != NewConversation {
		localID = NewLocalID()
		s.msgs = append(s.msgs, Message{
			ID:        localID,
			Content:   draft,
			Author:    AuthorUser,
			Timestamp: time.Now(),
		})
		s.pending = localID
	}
	s.mu.Unlock()

	// The sending flag drops no matter how the attempt resolves, so the UI
	// is never stuck on a pending indicator. The epoch guard keeps a stale
	// completion from stomping a send started after a re-open.
	defer func() {
		s.mu.Lock()
		if s.epoch == epoch {
			s.sending = false
		}
		s.mu.Unlock()
	}()

	target := conv
	if target == NewConversation {
		target = ""
	}
	reply, err := s.client.Send(ctx, draft, target)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		s.log.Debug().Str("conversation", conv).Err(err).
			Msg("discarding send result for a timeline that is no longer active")
		return SendResult{Stale: true}, nil
	}

	if err != nil {
		if localID != "" {
			s.remove(localID)
			s.pending = ""
		}
		return SendResult{}, fmt.Errorf("send: %w", err)
	}

	if conv == NewConversation {
		return SendResult{Created: true, ConversationID: reply.ConversationID}, nil
	}

	// Reconcile: drop the optimistic entry by exact id (never by content)
	// and append the authoritative pair in server order.
	s.remove(localID)
	s.pending = ""
	s.msgs = append(s.msgs, reply.UserMessage, reply.AssistantMessage)
	return SendResult{}, nil
}

// remove deletes the message with the given id, preserving order.
// Callers hold s.mu.
func (s *ChatSession) remove(id string) {
	for i, m := range s.msgs {
		if m.ID == id {
			s.msgs = append(s.msgs[:i], s.msgs[i+1:]...)
			return
		}
	}
}
