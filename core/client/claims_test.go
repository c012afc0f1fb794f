package client

import (
	"testing"
	"time"

	testutil "github.com/trezcool/academia/tests"
)

func TestParseClaims(t *testing.T) {
	backend := testutil.NewBackend()
	token := backend.GenerateToken(backend.Professor, 3600)

	claims, err := ParseClaims(token)
	if err != nil {
		t.Fatalf("ParseClaims(): %v", err)
	}
	if claims.Username != backend.Professor.Username {
		t.Errorf("Username = %q; want %q", claims.Username, backend.Professor.Username)
	}
	if claims.Email != backend.Professor.Email {
		t.Errorf("Email = %q; want %q", claims.Email, backend.Professor.Email)
	}
	if !claims.IsAdmin {
		t.Error("IsAdmin = false; want true")
	}
	if exp := time.Unix(claims.ExpiresAt, 0); time.Until(exp) <= 0 {
		t.Errorf("ExpiresAt = %v; want in the future", exp)
	}
}

func TestParseClaims_invalid(t *testing.T) {
	if _, err := ParseClaims("not.a.token"); err == nil {
		t.Error("ParseClaims(garbage) = nil error")
	}
}
