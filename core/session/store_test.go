package session

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/storage/kv"
	inmemkv "github.com/trezcool/academia/storage/kv/inmem"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// spyKV counts mutations; used to assert logout idempotence.
type spyKV struct {
	kv.Store
	sets, deletes int
}

func (s *spyKV) Set(key, value string) error {
	s.sets++
	return s.Store.Set(key, value)
}

func (s *spyKV) Delete(key string) error {
	s.deletes++
	return s.Store.Delete(key)
}

var (
	testIdentity = Identity{
		ID:       1,
		Name:     "Ana Maleka",
		Username: "ana",
		Email:    "ana@academia.test",
		IsAdmin:  true,
		Roles:    []string{"principal"},
	}
	testIssuance = TokenIssuance{AccessToken: "T0", ExpiresIn: 3600}
)

func mockNow(t *testing.T, at time.Time) {
	t.Helper()
	NowFunc = func() time.Time { return at }
	t.Cleanup(func() { NowFunc = time.Now })
}

func newTestStore(store kv.Store, opts Options) *Store {
	return NewStore(store, nopLogger{}, opts)
}

func Test_Store_Login(t *testing.T) {
	at := time.Unix(1000, 0)
	mockNow(t, at)

	db := inmemkv.NewStore()
	s := newTestStore(db, Options{})
	s.Login(testIdentity, testIssuance)

	if got := s.Token(); got != "T0" {
		t.Errorf("Token() = %q; want %q", got, "T0")
	}
	if got := s.ExpiresAt(); got != 1000+3600 {
		t.Errorf("ExpiresAt() = %d; want %d", got, 1000+3600)
	}
	if ident, ok := s.Current(); !ok || ident.Username != "ana" {
		t.Errorf("Current() = %+v, %v; want ana, true", ident, ok)
	}
	if _, ok := db.Get("tokenData"); !ok {
		t.Error("tokenData not persisted")
	}
	if _, ok := db.Get("professorData"); !ok {
		t.Error("professorData not persisted")
	}
}

// A restored session is expired iff now > issuedAt+expiresIn, regardless of
// how much later restore happens.
func Test_Store_Restore_expiry(t *testing.T) {
	tests := []struct {
		name    string
		now     int64
		wantErr error
		// at the exact expiry second the session is still valid but its
		// timer arms at 0 and may fire immediately; skip the state check
		skipStateCheck bool
	}{
		{name: "well before expiry", now: 1001},
		{name: "one second before expiry", now: 1000 + 3599},
		{name: "exactly at expiry", now: 1000 + 3600, skipStateCheck: true},
		{name: "one second after expiry", now: 1000 + 3601, wantErr: ErrSessionExpired},
		{name: "long after expiry", now: 1000 + 86400, wantErr: ErrSessionExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := inmemkv.NewStore()
			mockNow(t, time.Unix(1000, 0))
			newTestStore(db, Options{}).Login(testIdentity, testIssuance)

			mockNow(t, time.Unix(tt.now, 0))
			s := newTestStore(db, Options{})
			err := s.Restore()
			if errors.Cause(err) != tt.wantErr {
				t.Fatalf("Restore() = %v; want %v", err, tt.wantErr)
			}
			if !tt.skipStateCheck {
				if want := tt.wantErr == nil; s.Authenticated() != want {
					t.Errorf("Authenticated() = %v; want %v", !want, want)
				}
			}
			if tt.wantErr != nil {
				if _, ok := db.Get("tokenData"); ok {
					t.Error("expired session left tokenData behind")
				}
			}
		})
	}
}

// login then restore on a fresh store yields the same identity and token.
func Test_Store_Restore_roundTrip(t *testing.T) {
	mockNow(t, time.Unix(1000, 0))
	db := inmemkv.NewStore()
	newTestStore(db, Options{}).Login(testIdentity, testIssuance)

	s := newTestStore(db, Options{})
	if err := s.Restore(); err != nil {
		t.Fatalf("Restore() = %v", err)
	}
	if got := s.Token(); got != "T0" {
		t.Errorf("Token() = %q; want %q", got, "T0")
	}
	ident, ok := s.Current()
	if !ok {
		t.Fatal("Current() not ok")
	}
	if ident.ID != testIdentity.ID || ident.Username != testIdentity.Username ||
		ident.Email != testIdentity.Email || ident.IsAdmin != testIdentity.IsAdmin {
		t.Errorf("Current() = %+v; want %+v", ident, testIdentity)
	}
}

func Test_Store_Restore_invalidRecords(t *testing.T) {
	tests := []struct {
		name       string
		tokenData  string
		identData  string
		skipToken  bool
		skipIdent  bool
		wantStored bool
	}{
		{name: "no records", skipToken: true, skipIdent: true},
		{name: "token record only", tokenData: `{"access_token":"T0","issued_at":1000,"expires_in":60}`, skipIdent: true},
		{name: "identity record only", skipToken: true, identData: `{"id":1}`},
		{name: "malformed token record", tokenData: `{nope`, identData: `{"id":1}`},
		{name: "empty token", tokenData: `{"access_token":"","issued_at":1000,"expires_in":60}`, identData: `{"id":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockNow(t, time.Unix(1001, 0))
			db := inmemkv.NewStore()
			if !tt.skipToken {
				_ = db.Set("tokenData", tt.tokenData)
			}
			if !tt.skipIdent {
				_ = db.Set("professorData", tt.identData)
			}

			s := newTestStore(db, Options{})
			if err := s.Restore(); err != nil {
				t.Fatalf("Restore() = %v; want nil", err)
			}
			if s.Authenticated() {
				t.Error("Authenticated() = true; want false")
			}
			if _, ok := db.Get("tokenData"); ok {
				t.Error("invalid tokenData not cleared")
			}
		})
	}
}

// rotation replaces the token in place and preserves the identity.
func Test_Store_RotateToken(t *testing.T) {
	mockNow(t, time.Unix(1000, 0))
	db := inmemkv.NewStore()
	s := newTestStore(db, Options{})
	s.Login(testIdentity, testIssuance)

	s.RotateToken("T2")

	if got := s.Token(); got != "T2" {
		t.Errorf("Token() = %q; want %q", got, "T2")
	}
	if ident, _ := s.Current(); ident.ID != testIdentity.ID || ident.Username != testIdentity.Username {
		t.Errorf("Current() changed: %+v", ident)
	}
	// fixed-lifetime policy: expiry stays anchored at login
	if got := s.ExpiresAt(); got != 1000+3600 {
		t.Errorf("ExpiresAt() = %d; want %d", got, 1000+3600)
	}

	// rotated token is what a fresh restore sees
	s2 := newTestStore(db, Options{})
	if err := s2.Restore(); err != nil {
		t.Fatalf("Restore() = %v", err)
	}
	if got := s2.Token(); got != "T2" {
		t.Errorf("restored Token() = %q; want %q", got, "T2")
	}
}

func Test_Store_RotateToken_slidingPolicy(t *testing.T) {
	mockNow(t, time.Unix(1000, 0))
	db := inmemkv.NewStore()
	s := newTestStore(db, Options{RotationExtendsExpiry: true})
	s.Login(testIdentity, testIssuance)

	mockNow(t, time.Unix(3000, 0))
	s.RotateToken("T2")

	if got := s.ExpiresAt(); got != 3000+3600 {
		t.Errorf("ExpiresAt() = %d; want %d (window restarted at rotation)", got, 3000+3600)
	}
}

func Test_Store_RotateToken_anonymous(t *testing.T) {
	s := newTestStore(inmemkv.NewStore(), Options{})
	s.RotateToken("T2") // no-op, no panic
	if s.Authenticated() {
		t.Error("rotation must not activate a session")
	}
}

// logout while anonymous performs no storage mutation and does not panic.
func Test_Store_Logout_idempotent(t *testing.T) {
	db := &spyKV{Store: inmemkv.NewStore()}
	var revoked int
	s := newTestStore(db, Options{})
	s.SetRevoker(func(context.Context, string) error {
		revoked++
		return nil
	})

	s.Logout(context.Background())
	s.Logout(context.Background())

	if db.sets != 0 || db.deletes != 0 {
		t.Errorf("storage mutated: %d sets, %d deletes; want none", db.sets, db.deletes)
	}
	if revoked != 0 {
		t.Errorf("revoker called %d times; want 0", revoked)
	}
}

func Test_Store_Logout(t *testing.T) {
	mockNow(t, time.Unix(1000, 0))
	db := inmemkv.NewStore()
	var gotToken string
	var loggedOut bool
	s := newTestStore(db, Options{OnLogout: func(expired bool) { loggedOut = !expired }})
	s.SetRevoker(func(_ context.Context, token string) error {
		gotToken = token
		return nil
	})
	s.Login(testIdentity, testIssuance)

	s.Logout(context.Background())

	if s.Authenticated() {
		t.Error("still authenticated after logout")
	}
	if gotToken != "T0" {
		t.Errorf("revoked token = %q; want %q", gotToken, "T0")
	}
	if !loggedOut {
		t.Error("OnLogout(expired=false) not signaled")
	}
	if _, ok := db.Get("tokenData"); ok {
		t.Error("tokenData not cleared")
	}
	if _, ok := db.Get("professorData"); ok {
		t.Error("professorData not cleared")
	}
}

// local cleanup proceeds even when the backend notification fails.
func Test_Store_Logout_revokerFails(t *testing.T) {
	mockNow(t, time.Unix(1000, 0))
	db := inmemkv.NewStore()
	s := newTestStore(db, Options{})
	s.SetRevoker(func(context.Context, string) error {
		return errors.New("backend unreachable")
	})
	s.Login(testIdentity, testIssuance)

	s.Logout(context.Background()) // must not panic or propagate

	if s.Authenticated() {
		t.Error("still authenticated after failed revocation")
	}
	if _, ok := db.Get("tokenData"); ok {
		t.Error("tokenData not cleared")
	}
}

// two sequential logins leave exactly one session, the second one's.
func Test_Store_sequentialLogins(t *testing.T) {
	mockNow(t, time.Unix(1000, 0))
	db := inmemkv.NewStore()
	s := newTestStore(db, Options{})
	s.Login(testIdentity, testIssuance)
	second := Identity{ID: 2, Name: "Joe Kasongo", Username: "joe", Email: "joe@academia.test"}
	s.Login(second, TokenIssuance{AccessToken: "T9", ExpiresIn: 60})

	if got := s.Token(); got != "T9" {
		t.Errorf("Token() = %q; want %q", got, "T9")
	}
	if ident, _ := s.Current(); ident.Username != "joe" {
		t.Errorf("Current().Username = %q; want %q", ident.Username, "joe")
	}

	// no residue of the first session in storage
	s2 := newTestStore(db, Options{})
	if err := s2.Restore(); err != nil {
		t.Fatalf("Restore() = %v", err)
	}
	if ident, _ := s2.Current(); ident.ID != 2 {
		t.Errorf("restored identity ID = %d; want 2", ident.ID)
	}
}

func Test_Store_timerFires(t *testing.T) {
	db := inmemkv.NewStore()
	expired := make(chan bool, 1)
	// 1s validity minus a 950ms grace window arms the timer for ~50ms
	s := newTestStore(db, Options{
		GraceWindow: 950 * time.Millisecond,
		OnLogout:    func(exp bool) { expired <- exp },
	})
	s.Login(testIdentity, TokenIssuance{AccessToken: "T0", ExpiresIn: 1})

	select {
	case exp := <-expired:
		if !exp {
			t.Error("OnLogout(expired) = false; want true")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expiry timer never fired")
	}
	if s.Authenticated() {
		t.Error("still authenticated after timer fired")
	}
	if _, ok := db.Get("tokenData"); ok {
		t.Error("tokenData not cleared by expiry")
	}
}

// a timer armed for a previous session must not log out a newer one.
func Test_Store_staleTimerIgnored(t *testing.T) {
	db := inmemkv.NewStore()
	expired := make(chan bool, 1)
	s := newTestStore(db, Options{
		GraceWindow: 950 * time.Millisecond,
		OnLogout:    func(exp bool) { expired <- exp },
	})
	s.Login(testIdentity, TokenIssuance{AccessToken: "T0", ExpiresIn: 1})
	// immediately replaced by a long-lived session; the first timer is stale
	s.Login(testIdentity, testIssuance)

	select {
	case <-expired:
		t.Fatal("stale timer logged out the new session")
	case <-time.After(300 * time.Millisecond):
	}
	if !s.Authenticated() {
		t.Error("new session gone")
	}
	if got := s.Token(); got != "T0" {
		t.Errorf("Token() = %q; want %q", got, "T0")
	}
}

func Test_Store_expire_staleGeneration(t *testing.T) {
	mockNow(t, time.Unix(1000, 0))
	s := newTestStore(inmemkv.NewStore(), Options{})
	s.Login(testIdentity, testIssuance)
	gen := s.gen

	s.Login(testIdentity, TokenIssuance{AccessToken: "T1", ExpiresIn: 3600})
	s.expire(gen) // stale generation: must be a no-op

	if !s.Authenticated() {
		t.Error("stale expire destroyed the current session")
	}
}
