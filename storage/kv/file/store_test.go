package filekv

import (
	"path/filepath"
	"testing"
)

func TestStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore(): %v", err)
	}

	if _, ok := s.Get("tokenData"); ok {
		t.Error("Get on empty store returned a value")
	}

	if err := s.Set("tokenData", `{"access_token":"T0"}`); err != nil {
		t.Fatalf("Set(): %v", err)
	}
	if val, ok := s.Get("tokenData"); !ok || val != `{"access_token":"T0"}` {
		t.Errorf("Get() = %q, %v", val, ok)
	}

	// last writer wins
	if err := s.Set("tokenData", `{"access_token":"T1"}`); err != nil {
		t.Fatalf("Set(): %v", err)
	}
	if val, _ := s.Get("tokenData"); val != `{"access_token":"T1"}` {
		t.Errorf("Get() after overwrite = %q", val)
	}

	// values survive a "reload"
	s2, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore(): %v", err)
	}
	if val, ok := s2.Get("tokenData"); !ok || val != `{"access_token":"T1"}` {
		t.Errorf("reopened Get() = %q, %v", val, ok)
	}

	if err := s.Delete("tokenData"); err != nil {
		t.Fatalf("Delete(): %v", err)
	}
	if _, ok := s.Get("tokenData"); ok {
		t.Error("Get after Delete returned a value")
	}

	// deleting an absent key is fine
	if err := s.Delete("tokenData"); err != nil {
		t.Errorf("Delete(absent) = %v", err)
	}
}

func TestNewStore_createsDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	if _, err := NewStore(dir); err != nil {
		t.Fatalf("NewStore(%s): %v", dir, err)
	}
}
