package parley

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for common failure modes.
var (
	// ErrNotFound indicates the requested conversation does not exist.
	ErrNotFound = errors.New("conversation not found")

	// ErrInvalidToken indicates the server rejected the persisted token.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrSendInFlight indicates Send was called while a previous send on the
	// same session had not yet resolved.
	ErrSendInFlight = errors.New("send already in flight")
)

// AuthError is a login or registration rejected by the server. Message is a
// user-displayable summary; Fields maps form field names to their error
// messages for per-field rendering by the register form.
type AuthError struct {
	Message string
	Fields  map[string][]string
}

func (e *AuthError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(names, ", "))
}
