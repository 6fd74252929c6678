package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/binary"
	"net/http"
	"slices"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/contacts/internal/config"
)

// Session data keys
const (
	SessionKeyUserID      = "user_id"
	SessionKeyGuestID     = "guest_id"
	SessionKeySelected    = "selected_contacts"
	SessionKeyPendingTask = "pending_import_task"
	sessionKeyTokenPrefix = "token_"
	sessionKeyStatePrefix = "oauth_state_"
	sessionKeyPKCEPrefix  = "oauth_verifier_"
	sessionKeyFlashPrefix = "flash_"
)

// DefaultSessionLifetime applies when no lifetime is configured.
const DefaultSessionLifetime = 24 * time.Hour

// FlashLevel is the severity of a one-time message shown on the next page.
type FlashLevel string

const (
	FlashSuccess FlashLevel = "success"
	FlashInfo    FlashLevel = "info"
	FlashError   FlashLevel = "error"
)

var flashLevels = []FlashLevel{FlashSuccess, FlashInfo, FlashError}

// Flashes groups pending flash messages by level.
type Flashes struct {
	Success []string
	Info    []string
	Error   []string
}

// Empty reports whether there is nothing to show.
func (f Flashes) Empty() bool {
	return len(f.Success) == 0 && len(f.Info) == 0 && len(f.Error) == 0
}

// SessionManager wraps scs.SessionManager with the typed values the import
// screens keep between requests.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a session manager backed by the sessions table of
// sqlDB. The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewSessionManager(sqlDB *sql.DB, cfg config.Session) (*SessionManager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	lifetime := cfg.Lifetime
	if lifetime <= 0 {
		lifetime = DefaultSessionLifetime
	}
	sm.Lifetime = lifetime
	sm.IdleTimeout = lifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	// Lax so the session survives the redirect back from an OAuth2 provider.
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// GetUserID retrieves the user ID from the session. Returns 0 if absent.
func (sm *SessionManager) GetUserID(ctx context.Context) uint {
	return uint(sm.GetInt(ctx, SessionKeyUserID))
}

// SetUserID binds the session to a user. Hosts call this after their own login.
func (sm *SessionManager) SetUserID(ctx context.Context, userID uint) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, SessionKeyUserID, int(userID))
	sm.touch(ctx)
	return nil
}

// guestIDBase keeps guest owner IDs clear of host user IDs. IDs stay below
// 1<<63 so they fit a signed SQLite integer.
const guestIDBase = uint64(1) << 62

// GuestID returns the owner ID of an anonymous session, creating it on first
// use. Every session gets its own ID so visitors never share imported contacts.
func (sm *SessionManager) GuestID(ctx context.Context) uint {
	if id := sm.GetInt64(ctx, SessionKeyGuestID); id != 0 {
		return uint(id)
	}

	var buf [8]byte
	_, _ = rand.Read(buf[:]) // never fails, see crypto/rand.Read
	id := guestIDBase | binary.BigEndian.Uint64(buf[:])&(guestIDBase-1)
	sm.Put(ctx, SessionKeyGuestID, int64(id))
	sm.touch(ctx)
	return uint(id)
}

// SelectedIDs returns the contact IDs the user has ticked so far.
func (sm *SessionManager) SelectedIDs(ctx context.Context) []string {
	ids, _ := sm.Get(ctx, SessionKeySelected).([]string)
	return ids
}

// SetSelectedIDs replaces the selection. The IDs are stored sorted.
func (sm *SessionManager) SetSelectedIDs(ctx context.Context, ids []string) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sm.Put(ctx, SessionKeySelected, sorted)
	sm.touch(ctx)
}

// ClearSelection forgets the selection.
func (sm *SessionManager) ClearSelection(ctx context.Context) {
	sm.Remove(ctx, SessionKeySelected)
	sm.touch(ctx)
}

// PutToken stores an access token for a provider.
func (sm *SessionManager) PutToken(ctx context.Context, provider, token string) {
	sm.Put(ctx, sessionKeyTokenPrefix+provider, token)
	sm.touch(ctx)
}

// HasToken reports whether a token is stored for a provider.
func (sm *SessionManager) HasToken(ctx context.Context, provider string) bool {
	return sm.GetString(ctx, sessionKeyTokenPrefix+provider) != ""
}

// PopToken returns the provider token and removes it from the session.
// Tokens are single use: each import asks the user to authorize again.
func (sm *SessionManager) PopToken(ctx context.Context, provider string) string {
	token := sm.PopString(ctx, sessionKeyTokenPrefix+provider)
	if token != "" {
		sm.touch(ctx)
	}
	return token
}

// PutOAuthState remembers the state and PKCE verifier of an authorization
// request until the provider redirects back.
func (sm *SessionManager) PutOAuthState(ctx context.Context, provider, state, verifier string) {
	sm.Put(ctx, sessionKeyStatePrefix+provider, state)
	sm.Put(ctx, sessionKeyPKCEPrefix+provider, verifier)
	sm.touch(ctx)
}

// PopOAuthState returns and forgets the stored state and verifier of a provider.
func (sm *SessionManager) PopOAuthState(ctx context.Context, provider string) (state, verifier string) {
	state, verifier = sm.PopString(ctx, sessionKeyStatePrefix+provider), sm.PopString(ctx, sessionKeyPKCEPrefix+provider)
	if state != "" || verifier != "" {
		sm.touch(ctx)
	}
	return state, verifier
}

// SetPendingTask remembers an import that had not finished when the request
// returned.
func (sm *SessionManager) SetPendingTask(ctx context.Context, taskID string) {
	sm.Put(ctx, SessionKeyPendingTask, taskID)
	sm.touch(ctx)
}

// PopPendingTask returns and forgets the pending import task ID.
func (sm *SessionManager) PopPendingTask(ctx context.Context) string {
	taskID := sm.PopString(ctx, SessionKeyPendingTask)
	if taskID != "" {
		sm.touch(ctx)
	}
	return taskID
}

// AddFlash queues a message for the next rendered page.
func (sm *SessionManager) AddFlash(ctx context.Context, level FlashLevel, message string) {
	key := sessionKeyFlashPrefix + string(level)
	messages, _ := sm.Get(ctx, key).([]string)
	sm.Put(ctx, key, append(messages, message))
	sm.touch(ctx)
}

// PopFlashes returns all queued messages and clears them.
func (sm *SessionManager) PopFlashes(ctx context.Context) Flashes {
	var f Flashes
	for _, level := range flashLevels {
		messages, _ := sm.Pop(ctx, sessionKeyFlashPrefix+string(level)).([]string)
		switch level {
		case FlashSuccess:
			f.Success = messages
		case FlashInfo:
			f.Info = messages
		case FlashError:
			f.Error = messages
		}
	}
	if !f.Empty() {
		sm.touch(ctx)
	}
	return f
}
