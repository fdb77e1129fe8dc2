package auth

import (
	"sync"
	"time"

	"vjudge/internal/cli/state"
	pkgerrors "vjudge/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

// Roles known to the platform.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

// User is the auth service's view of an account.
type User struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	CreatedAt string   `json:"createdAt,omitempty"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// tokenClaims is what the auth service encodes into its JWTs. The client
// holds no signing secret, so claims are decoded unverified and only used
// for local role gating; the backends authorize for real.
type tokenClaims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// Session is the explicit session context: the restored token, the user
// identity, and role checks. It replaces ambient global auth state; every
// client that needs credentials is handed a Session.
type Session struct {
	mu        sync.Mutex
	statePath string
	st        state.SessionState
	user      *User
}

// NewSession restores a session from the state file, minting a pseudo
// identity when none is stored yet.
func NewSession(statePath string) (*Session, error) {
	st, err := state.Load(statePath)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.SessionLoadFailed)
	}
	s := &Session{statePath: statePath, st: st}
	if s.st.EnsureIdentity() {
		if err := state.Save(statePath, s.st); err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.SessionSaveFailed)
		}
	}
	return s, nil
}

// Token returns the stored auth token, empty when anonymous.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Token
}

// SetToken stores a fresh token and persists the session.
func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Token = token
	if err := state.Save(s.statePath, s.st); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.SessionSaveFailed)
	}
	return nil
}

// Clear drops the token and verified user but keeps the pseudo identity, so
// anonymous submission history stays reachable after logout.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Token = ""
	s.user = nil
	if err := state.Save(s.statePath, s.st); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.SessionSaveFailed)
	}
	return nil
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// UserID returns the verified account id when signed in, otherwise the
// pseudo identity.
func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil && s.user.ID != "" {
		return s.user.ID
	}
	return s.st.UserID
}

// SetUser records the verified user returned by the auth service.
func (s *Session) SetUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// User returns the verified user, nil when anonymous or unverified.
func (s *Session) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Roles returns the effective roles: the verified user's when present,
// otherwise whatever the token claims carry (expired tokens claim nothing).
func (s *Session) Roles() []string {
	s.mu.Lock()
	user := s.user
	token := s.st.Token
	s.mu.Unlock()

	if user != nil {
		return user.Roles
	}
	claims, err := parseClaims(token)
	if err != nil {
		return nil
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil
	}
	return claims.Roles
}

// HasRole reports whether the session's effective roles include role.
func (s *Session) HasRole(role string) bool {
	for _, r := range s.Roles() {
		if r == role {
			return true
		}
	}
	return false
}

func (s *Session) IsAdmin() bool {
	return s.HasRole(RoleAdmin)
}

func (s *Session) IsModerator() bool {
	return s.HasRole(RoleModerator)
}

func parseClaims(raw string) (*tokenClaims, error) {
	if raw == "" {
		return nil, pkgerrors.New(pkgerrors.TokenMissing)
	}
	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.TokenInvalid)
	}
	return &claims, nil
}
