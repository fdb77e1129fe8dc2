package command

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRegistryKeys(t *testing.T) {
	registry := Registry()
	for _, key := range []string{
		"user signin",
		"user signup",
		"user whoami",
		"problem list",
		"language list",
		"submission create",
		"submission get",
		"submission watch",
		"submission list",
		"profile stats",
		"pqrs create",
		"pqrs status",
		"admin user-list",
		"admin user-update",
		"admin user-role",
		"admin submission-delete",
	} {
		if _, ok := registry[key]; !ok {
			t.Errorf("registry missing %q", key)
		}
	}
	for key, cmd := range registry {
		if cmd.Key() != key {
			t.Errorf("command %q registered under wrong key %q", cmd.Key(), key)
		}
	}
}

func TestAdminCommandsRequireRole(t *testing.T) {
	registry := Registry()
	for key, cmd := range registry {
		if cmd.Service == "admin" && cmd.RequiresRole == "" {
			t.Errorf("admin command %q must require a role", key)
		}
	}
}

func TestParamsCanonicalize(t *testing.T) {
	fields := []Field{
		{Name: "problem_id", Aliases: []string{"problem", "pid"}},
		{Name: "source_code", Aliases: []string{"source"}},
	}
	params := Params{}
	params.Set("pid", "7")
	params.Set("source", "print(1)")
	params.Canonicalize(fields)

	if params.Get("problem_id") != "7" {
		t.Fatalf("alias not folded: %+v", params)
	}
	if params.Has("pid") {
		t.Fatalf("alias key must be removed after folding")
	}
	if params.Get("source_code") != "print(1)" {
		t.Fatalf("source alias not folded: %+v", params)
	}
}

func TestParamsCaseInsensitive(t *testing.T) {
	params := Params{}
	params.Set("Problem_ID", "3")
	if params.Get("problem_id") != "3" {
		t.Fatalf("keys must be case insensitive")
	}
}

func TestParamsInt64(t *testing.T) {
	params := Params{}
	params.Set("id", " 42 ")
	n, err := params.Int64("id")
	if err != nil || n != 42 {
		t.Fatalf("expected 42, got %d, %v", n, err)
	}
	if n, err := params.Int64("absent"); err != nil || n != 0 {
		t.Fatalf("absent param must be 0, got %d, %v", n, err)
	}
	params.Set("bad", "abc")
	if _, err := params.Int64("bad"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.py")
	if err := os.WriteFile(path, []byte("print(1)"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	content, err := ReadFile(path)
	if err != nil || content != "print(1)" {
		t.Fatalf("read failed: %q, %v", content, err)
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
