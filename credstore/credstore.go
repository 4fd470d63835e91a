// Package credstore persists the authenticated session (token + user)
// across process restarts. The session store is the only writer; reads
// happen at startup and on each outgoing request via the TokenSource hook.
package credstore

import (
	"github.com/insightsphere/insight-go/client"
)

// Session is the persisted token/user pair. The two fields live and die
// together: Save writes both, Clear removes both.
type Session struct {
	Token string       `json:"token"`
	User  *client.User `json:"user,omitempty"`
}

// Empty reports whether no session is persisted.
func (s Session) Empty() bool { return s.Token == "" && s.User == nil }

// Store is the durable storage contract.
type Store interface {
	// Load returns the persisted session, or a zero Session when none exists.
	Load() (Session, error)
	// Save replaces the persisted session atomically.
	Save(Session) error
	// Clear removes the persisted session. Clearing an empty store succeeds.
	Clear() error
	// Token implements client.TokenSource against the persisted session.
	Token() string
}
