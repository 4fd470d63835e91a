package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/insightsphere/insight-go/client"
	"github.com/insightsphere/insight-go/credstore"
)

// Fallback notification messages, used when the server supplies no detail.
const (
	msgLoginOK      = "Successfully logged in"
	msgLoginFail    = "Failed to login"
	msgRegisterOK   = "Successfully registered"
	msgRegisterFail = "Failed to register"
	msgLogoutOK     = "Successfully logged out"
	msgProfileOK    = "Profile updated successfully"
	msgProfileFail  = "Failed to update profile"
	msgPasswordOK   = "Password changed successfully"
	msgPasswordFail = "Failed to change password"
	msgViewOK       = "News added to your history!"
	msgViewRefused  = "Login to view the news!"
	msgSaveRefused  = "Login to save posts!"
	msgSaveFail     = "Failed to save the post, try again!"
	msgFeedOK       = "Articles based on your preferences fetched successfully!"
	msgFeedFail     = "Failed to fetch news, try again!"
)

// SessionStore owns the authenticated identity and session token. The token
// and user are set together on login/register and cleared together on
// logout; durable storage mirrors the in-memory pair. Failures never escape
// an operation: they become a boolean result plus a notification.
type SessionStore struct {
	api    *client.Client
	creds  credstore.Store
	notify Notifier
	opener Opener

	mu           sync.Mutex
	user         *client.User
	token        string
	personalized []client.Article

	authenticating bool
	viewing        bool
	saving         bool
	fetching       bool
}

// NewSessionStore builds the store and restores a previously persisted
// session if one exists. A failed restore leaves the session empty.
func NewSessionStore(api *client.Client, creds credstore.Store, notify Notifier, opener Opener) *SessionStore {
	if notify == nil {
		notify = LogNotifier{}
	}
	if opener == nil {
		opener = NopOpener{}
	}
	s := &SessionStore{api: api, creds: creds, notify: notify, opener: opener}

	sess, err := creds.Load()
	if err != nil {
		log.Warn().Err(err).Msg("session restore failed; starting unauthenticated")
		return s
	}
	if sess.Token != "" && sess.User != nil {
		s.token = sess.Token
		s.user = sess.User
	}
	return s
}

// ------------------------------
// State accessors
// ------------------------------

// User returns the current identity, nil when unauthenticated.
func (s *SessionStore) User() *client.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Token returns the current session token, "" when unauthenticated.
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// IsAuthenticated reports whether a session is active.
func (s *SessionStore) IsAuthenticated() bool { return s.Token() != "" }

// Personalized returns the last fetched personalized article list.
func (s *SessionStore) Personalized() []client.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.personalized
}

func (s *SessionStore) IsAuthenticating() bool { return s.flag(&s.authenticating) }
func (s *SessionStore) IsViewing() bool        { return s.flag(&s.viewing) }
func (s *SessionStore) IsSaving() bool         { return s.flag(&s.saving) }
func (s *SessionStore) IsFetching() bool       { return s.flag(&s.fetching) }

func (s *SessionStore) flag(f *bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *f
}

func (s *SessionStore) setFlag(f *bool, v bool) {
	s.mu.Lock()
	*f = v
	s.mu.Unlock()
}

// ------------------------------
// Operations
// ------------------------------

// Login exchanges credentials for a session. On success the token and user
// are set together in memory and in durable storage.
func (s *SessionStore) Login(ctx context.Context, username, password string) bool {
	s.setFlag(&s.authenticating, true)
	defer s.setFlag(&s.authenticating, false)

	res, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.notify.Error(detailOr(err, msgLoginFail))
		return false
	}
	s.adopt(res)
	s.notify.Success(msgLoginOK)
	return true
}

// Register creates an account and starts a session, same contract as Login.
func (s *SessionStore) Register(ctx context.Context, req client.RegisterRequest) bool {
	s.setFlag(&s.authenticating, true)
	defer s.setFlag(&s.authenticating, false)

	res, err := s.api.Register(ctx, req)
	if err != nil {
		s.notify.Error(detailOr(err, msgRegisterFail))
		return false
	}
	s.adopt(res)
	s.notify.Success(msgRegisterOK)
	return true
}

// adopt installs a fresh session in memory and durable storage as one
// transition: no observable state where only one of token/user is set.
func (s *SessionStore) adopt(res *client.AuthResult) {
	user := res.User
	s.mu.Lock()
	s.user = &user
	s.token = res.Token
	s.mu.Unlock()

	if err := s.creds.Save(credstore.Session{Token: res.Token, User: &user}); err != nil {
		log.Warn().Err(err).Msg("session persist failed; session is memory-only")
	}
}

// Logout clears the session from memory and durable storage
// unconditionally. It cannot fail.
func (s *SessionStore) Logout() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.personalized = nil
	s.mu.Unlock()

	if err := s.creds.Clear(); err != nil {
		log.Warn().Err(err).Msg("session clear failed")
	}
	s.notify.Success(msgLogoutOK)
}

// UpdateProfile sends the changed fields and, on success, replaces the
// stored user wholesale with the server response. On failure no state
// changes.
func (s *SessionStore) UpdateProfile(ctx context.Context, upd client.ProfileUpdate) bool {
	s.setFlag(&s.authenticating, true)
	defer s.setFlag(&s.authenticating, false)

	updated, err := s.api.UpdateProfile(ctx, upd)
	if err != nil {
		s.notify.Error(detailOr(err, msgProfileFail))
		return false
	}

	s.mu.Lock()
	s.user = updated
	token := s.token
	s.mu.Unlock()

	if err := s.creds.Save(credstore.Session{Token: token, User: updated}); err != nil {
		log.Warn().Err(err).Msg("session persist failed after profile update")
	}
	s.notify.Success(msgProfileOK)
	return true
}

// ChangePassword rotates the credential. No local state changes on success.
func (s *SessionStore) ChangePassword(ctx context.Context, current, next string) bool {
	s.setFlag(&s.authenticating, true)
	defer s.setFlag(&s.authenticating, false)

	if err := s.api.ChangePassword(ctx, current, next); err != nil {
		s.notify.Error(detailOr(err, msgPasswordFail))
		return false
	}
	s.notify.Success(msgPasswordOK)
	return true
}

// Refresh re-reads the authenticated profile from the server and replaces
// the stored user. A 401 clears the session: the token is invalid.
func (s *SessionStore) Refresh(ctx context.Context) bool {
	if !s.IsAuthenticated() {
		return false
	}
	user, err := s.api.Me(ctx)
	if err != nil {
		if client.IsUnauthorized(err) {
			s.expire()
		}
		return false
	}

	s.mu.Lock()
	s.user = user
	token := s.token
	s.mu.Unlock()

	if err := s.creds.Save(credstore.Session{Token: token, User: user}); err != nil {
		log.Warn().Err(err).Msg("session persist failed after refresh")
	}
	return true
}

// expire silently discards an invalid session, memory and storage both.
func (s *SessionStore) expire() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()
	if err := s.creds.Clear(); err != nil {
		log.Warn().Err(err).Msg("session clear failed")
	}
}

// ViewNews records an article view and opens the article externally.
// Without an identity the operation is refused locally: no request is made.
func (s *SessionStore) ViewNews(ctx context.Context, ref client.ArticleRef) bool {
	s.setFlag(&s.viewing, true)
	defer s.setFlag(&s.viewing, false)

	user := s.User()
	if user == nil {
		s.notify.Error(msgViewRefused)
		return false
	}

	res, err := s.api.ViewNews(ctx, user.ID, ref)
	if err != nil {
		s.notify.Error(detailOr(err, msgViewRefused))
		return false
	}
	if !res.Success {
		s.notify.Error(orElse(res.Message, msgViewRefused))
		return false
	}

	target := orElse(res.NewsURL, ref.URL)
	if err := s.opener.Open(target); err != nil {
		log.Warn().Err(err).Str("url", target).Msg("open article failed")
	}
	s.notify.Success(msgViewOK)
	return true
}

// SavePost persists an article to the user's saved list. Without an
// identity the operation is refused locally: no request is made.
func (s *SessionStore) SavePost(ctx context.Context, ref client.ArticleRef) bool {
	s.setFlag(&s.saving, true)
	defer s.setFlag(&s.saving, false)

	user := s.User()
	if user == nil {
		s.notify.Error(msgSaveRefused)
		return false
	}

	res, err := s.api.SavePost(ctx, user.ID, ref)
	if err != nil {
		s.notify.Error(detailOr(err, msgSaveFail))
		return false
	}
	if !res.Success {
		s.notify.Error(orElse(res.Message, msgSaveFail))
		return false
	}
	s.notify.Success(orElse(res.Message, "Post saved successfully, visit profile to view."))
	return true
}

// FetchPersonalized replaces the personalized article list with the
// server's feed for the current identity.
func (s *SessionStore) FetchPersonalized(ctx context.Context) bool {
	s.setFlag(&s.fetching, true)
	defer s.setFlag(&s.fetching, false)

	res, err := s.api.WorldNews(ctx)
	if err != nil {
		s.notify.Error(detailOr(err, msgFeedFail))
		return false
	}
	if !res.Success {
		s.notify.Error(orElse(res.Message, msgFeedFail))
		return false
	}

	s.mu.Lock()
	s.personalized = res.Articles
	s.mu.Unlock()

	s.notify.Success(orElse(res.Message, msgFeedOK))
	return true
}

// Reset discards all session state, memory and storage, without emitting
// notifications. Intended for test isolation and app teardown.
func (s *SessionStore) Reset() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.personalized = nil
	s.authenticating = false
	s.viewing = false
	s.saving = false
	s.fetching = false
	s.mu.Unlock()
	_ = s.creds.Clear()
}

func detailOr(err error, fallback string) string {
	if d := client.ErrorDetail(err); d != "" {
		return d
	}
	return fallback
}

func orElse(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
