package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// SessionState stores the persisted client session: the auth token and the
// user identity. UserID may be a backend-issued id or a locally minted
// pseudo identity for anonymous submissions.
type SessionState struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// Authenticated reports whether a token is stored.
func (st SessionState) Authenticated() bool {
	return st.Token != ""
}

// EnsureIdentity mints a pseudo identity when none is present, so anonymous
// submissions still carry a stable user id. Reports whether a new identity
// was created.
func (st *SessionState) EnsureIdentity() bool {
	if st.UserID != "" {
		return false
	}
	st.UserID = "temp_" + uuid.NewString()
	return true
}

func Load(path string) (SessionState, error) {
	var st SessionState
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, fmt.Errorf("read session state failed: %w", err)
	}
	if len(data) == 0 {
		return st, nil
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("parse session state failed: %w", err)
	}
	return st, nil
}

func Save(path string, st SessionState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create session state dir failed: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session state failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write session state failed: %w", err)
	}
	return nil
}

func Clear(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session state failed: %w", err)
	}
	return nil
}
