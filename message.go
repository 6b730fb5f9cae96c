// Package parley is a terminal client for a token-authenticated chat
// service. The root package holds the domain model and the two core state
// machines: [Auth] for the account session and [ChatSession] for a single
// conversation's timeline.
package parley

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Author identifies who wrote a message.
type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

// Message is a single entry in a conversation timeline. IDs are opaque
// strings: server-assigned for persisted messages, locally synthesized for
// optimistic entries awaiting reconciliation. Assistant content may carry a
// small markup subset (see the markup package); user content is always
// literal text.
type Message struct {
	ID        string
	Content   string
	Author    Author
	Timestamp time.Time
}

const localIDPrefix = "local-"

// NewLocalID returns an id for an optimistic message. The prefix keeps local
// ids disjoint from the server's numeric ids, so an optimistic entry can
// never collide with an authoritative one.
func NewLocalID() string {
	return localIDPrefix + uuid.NewString()
}

// IsLocalID reports whether id was synthesized by [NewLocalID].
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, localIDPrefix)
}
