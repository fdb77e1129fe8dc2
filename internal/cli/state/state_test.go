package state

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileYieldsZeroState(t *testing.T) {
	st, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if st.Token != "" || st.UserID != "" {
		t.Fatalf("expected zero state, got %+v", st)
	}
}

func TestEnsureIdentityMintsOnce(t *testing.T) {
	var st SessionState
	if !st.EnsureIdentity() {
		t.Fatalf("expected a new identity to be minted")
	}
	if !strings.HasPrefix(st.UserID, "temp_") {
		t.Fatalf("pseudo identity must carry the temp_ prefix, got %q", st.UserID)
	}
	first := st.UserID
	if st.EnsureIdentity() {
		t.Fatalf("existing identity must not be replaced")
	}
	if st.UserID != first {
		t.Fatalf("identity changed: %q -> %q", first, st.UserID)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	want := SessionState{Token: "tok", UserID: "temp_abc"}
	if err := Save(path, want); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("state file must be private, got %v", info.Mode().Perm())
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, want)
	}
}

func TestClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := Save(path, SessionState{UserID: "temp_x"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := Clear(path); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file to be gone, got %v", err)
	}
	if err := Clear(path); err != nil {
		t.Fatalf("clearing again must be a no-op: %v", err)
	}
}
