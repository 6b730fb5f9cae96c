package parley

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Status is the account session's lifecycle state.
type Status int

const (
	StatusUnauthenticated Status = iota // no usable credential
	StatusLoading                       // persisted token found, profile fetch in flight
	StatusAuthenticated                 // token verified, profile loaded
	StatusError                         // token store failed during a transition
)

// AuthState is a read-only snapshot of the account session. User is the zero
// value unless Status is StatusAuthenticated.
type AuthState struct {
	Status Status
	User   User
}

// Auth owns credential state: token presence, the current profile, and the
// loading status. It is the only writer of the token store. Methods block on
// network calls and are safe for concurrent use; consumers read snapshots
// via [Auth.State] or the notify callback.
type Auth struct {
	client Client
	store  TokenStore
	notify func(AuthState)
	log    zerolog.Logger

	mu     sync.Mutex
	status Status
	user   User
}

// AuthOption configures an [Auth].
type AuthOption func(*Auth)

// WithNotify sets a callback invoked with a snapshot after every state
// change. The callback runs synchronously on the mutating goroutine.
func WithNotify(fn func(AuthState)) AuthOption {
	return func(a *Auth) { a.notify = fn }
}

// WithAuthLogger sets the logger for failures that are handled internally
// rather than surfaced, such as a failed server-side logout.
func WithAuthLogger(log zerolog.Logger) AuthOption {
	return func(a *Auth) { a.log = log }
}

// NewAuth creates an account session over the given client and token store.
func NewAuth(client Client, store TokenStore, opts ...AuthOption) *Auth {
	a := &Auth{
		client: client,
		store:  store,
		log:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// State returns a snapshot of the current session state.
func (a *Auth) State() AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AuthState{Status: a.status, User: a.user}
}

// Bootstrap reads the persisted token and, when one is present, verifies it
// by fetching the profile. Any fetch failure is treated as an invalid
// credential and performs the same cleanup as [Auth.Logout]: the client must
// never claim authentication without profile data. The swallowed failure is
// logged; Bootstrap returns an error only when the token store itself fails.
func (a *Auth) Bootstrap(ctx context.Context) error {
	token, err := a.store.Token()
	if err != nil {
		a.set(StatusError, User{})
		return fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		a.set(StatusUnauthenticated, User{})
		return nil
	}

	a.set(StatusLoading, User{})
	user, err := a.client.Profile(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("profile fetch failed; clearing stored credentials")
		return a.clearLocal()
	}
	a.set(StatusAuthenticated, user)
	return nil
}

// Login exchanges credentials for a token, persists it, and loads the
// profile from the response. On failure the session state is untouched and
// the error is an [*AuthError] when the server rejected the credentials.
// Calling Login while already authenticated simply re-authenticates.
func (a *Auth) Login(ctx context.Context, username, password string) error {
	creds, err := a.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	return a.establish(creds)
}

// Register creates an account and authenticates in one step. On failure the
// session state is untouched; a server rejection is an [*AuthError] whose
// Fields carry per-field messages.
func (a *Auth) Register(ctx context.Context, reg Registration) error {
	creds, err := a.client.Register(ctx, reg)
	if err != nil {
		return err
	}
	return a.establish(creds)
}

// Logout invalidates the session server-side on a best-effort basis and
// always clears local state: the user's intent to leave must succeed even
// when the network call does not. Logout is idempotent.
func (a *Auth) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		a.log.Warn().Err(err).Msg("server-side logout failed; clearing local session anyway")
	}
	return a.clearLocal()
}

func (a *Auth) establish(creds Credentials) error {
	if err := a.store.Save(creds.Token); err != nil {
		a.set(StatusError, User{})
		return fmt.Errorf("persist token: %w", err)
	}
	a.set(StatusAuthenticated, creds.User)
	return nil
}

func (a *Auth) clearLocal() error {
	if err := a.store.Clear(); err != nil {
		a.set(StatusError, User{})
		return fmt.Errorf("clear token: %w", err)
	}
	a.set(StatusUnauthenticated, User{})
	return nil
}

func (a *Auth) set(status Status, user User) {
	a.mu.Lock()
	a.status = status
	a.user = user
	snapshot := AuthState{Status: status, User: user}
	a.mu.Unlock()

	if a.notify != nil {
		a.notify(snapshot)
	}
}
