package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/storage/kv"
)

// persisted record keys
const (
	tokenDataKey    = "tokenData"
	identityDataKey = "professorData"
)

var (
	NowFunc = time.Now // mockable

	// ErrSessionExpired is returned by Restore when the persisted session's
	// expiry has passed; the caller must surface a visible notice before
	// treating the user as anonymous.
	ErrSessionExpired = errors.New("session expired")
)

// tokenRecord is the persisted form of the credential and its expiry metadata.
type tokenRecord struct {
	AccessToken string `json:"access_token"`
	IssuedAt    int64  `json:"issued_at"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Revoker best-effort notifies the backend that a token is invalidated.
type Revoker func(ctx context.Context, token string) error

type Options struct {
	// GraceWindow is subtracted from the remaining validity before arming
	// the logout timer.
	GraceWindow time.Duration
	// RotationExtendsExpiry restarts the validity window on token rotation.
	// The default (false) keeps the session's lifetime anchored at login.
	RotationExtendsExpiry bool
	// OnLogout, if set, is called after the session has been destroyed;
	// expired is true when destruction was timer- or restore-driven.
	OnLogout func(expired bool)
}

// Store is the single source of truth for the authenticated session: one
// mutable slot, mirrored to a kv.Store on every change, invalidated
// automatically at expiry. All mutation goes through its methods.
type Store struct {
	mu     sync.Mutex
	sess   *Session
	gen    uint64 // bumped on login/restore/logout; stale timers check it
	timer  *time.Timer
	kv     kv.Store
	logger core.Logger
	opts   Options
	revoke Revoker
}

func NewStore(store kv.Store, logger core.Logger, opts Options) *Store {
	return &Store{kv: store, logger: logger, opts: opts}
}

// SetRevoker registers the backend call made on Logout. Its error is logged
// and swallowed: local cleanup proceeds unconditionally.
func (s *Store) SetRevoker(r Revoker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoke = r
}

// Login activates a new session from the server-issued identity and token
// issuance, stamping IssuedAt with the current time. Any previous session is
// replaced wholesale.
func (s *Store) Login(identity Identity, issuance TokenIssuance) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess = &Session{
		Identity:  identity,
		Token:     issuance.AccessToken,
		IssuedAt:  NowFunc().Unix(),
		ExpiresIn: issuance.ExpiresIn,
	}
	s.persistLocked()
	s.armTimerLocked()
}

// Restore reactivates a persisted session, once at startup. Absent records
// leave the store anonymous. An expired or malformed record destroys the
// session before it is surfaced; expired restoration returns
// ErrSessionExpired so the caller can show a notice.
func (s *Store) Restore() error {
	s.mu.Lock()

	tokenData, tokOK := s.kv.Get(tokenDataKey)
	identityData, idOK := s.kv.Get(identityDataKey)
	if !tokOK && !idOK {
		s.mu.Unlock()
		return nil
	}

	var rec tokenRecord
	var identity Identity
	valid := tokOK && idOK &&
		json.Unmarshal([]byte(tokenData), &rec) == nil &&
		json.Unmarshal([]byte(identityData), &identity) == nil &&
		rec.AccessToken != ""
	if !valid {
		s.destroyLocked()
		s.mu.Unlock()
		return nil
	}

	sess := &Session{
		Identity:  identity,
		Token:     rec.AccessToken,
		IssuedAt:  rec.IssuedAt,
		ExpiresIn: rec.ExpiresIn,
	}
	if sess.Expired(NowFunc()) {
		s.destroyLocked()
		s.mu.Unlock()
		s.notifyLogout(true)
		return ErrSessionExpired
	}

	s.sess = sess
	s.armTimerLocked()
	s.mu.Unlock()
	return nil
}

// Logout destroys the session and best-effort notifies the backend. Calling
// it while anonymous is a no-op: no storage mutation, no revocation call.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	if s.sess == nil {
		s.mu.Unlock()
		return
	}
	token := s.sess.Token
	revoke := s.revoke
	s.destroyLocked()
	s.mu.Unlock()

	if revoke != nil {
		if err := revoke(ctx, token); err != nil {
			s.logger.Warn("logout: token revocation failed", err)
		}
	}
	s.notifyLogout(false)
}

// RotateToken replaces the active session's token in place, preserving the
// identity, and re-persists the records. Whether the expiry window restarts
// depends on Options.RotationExtendsExpiry. Rotation while anonymous, or to
// an empty token, is ignored.
func (s *Store) RotateToken(newToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess == nil || newToken == "" {
		return
	}
	s.sess.Token = newToken
	if s.opts.RotationExtendsExpiry {
		s.sess.IssuedAt = NowFunc().Unix()
		s.armTimerLocked()
	}
	s.persistLocked()
}

// Token returns the current bearer token, or "" while anonymous.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return ""
	}
	return s.sess.Token
}

// Current returns a copy of the authenticated identity.
func (s *Store) Current() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return Identity{}, false
	}
	return s.sess.Identity, true
}

func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess != nil
}

// ExpiresAt returns the active session's expiry in UNIX seconds, or 0.
func (s *Store) ExpiresAt() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return 0
	}
	return s.sess.ExpiresAt()
}

func (s *Store) persistLocked() {
	rec := tokenRecord{
		AccessToken: s.sess.Token,
		IssuedAt:    s.sess.IssuedAt,
		ExpiresIn:   s.sess.ExpiresIn,
	}
	tokenData, _ := json.Marshal(rec)
	identityData, _ := json.Marshal(s.sess.Identity)
	if err := s.kv.Set(tokenDataKey, string(tokenData)); err != nil {
		s.logger.Warn("session: persisting token record", err)
	}
	if err := s.kv.Set(identityDataKey, string(identityData)); err != nil {
		s.logger.Warn("session: persisting identity record", err)
	}
}

// armTimerLocked schedules invalidation at expiry minus the grace window.
// The generation captured here is checked when the timer fires, so a timer
// armed for a previous session can never log a newer one out.
func (s *Store) armTimerLocked() {
	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}
	d := s.sess.Remaining(NowFunc()) - s.opts.GraceWindow
	if d < 0 {
		d = 0
	}
	s.timer = time.AfterFunc(d, func() { s.expire(gen) })
}

func (s *Store) expire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.sess == nil {
		s.mu.Unlock()
		return
	}
	s.destroyLocked()
	s.mu.Unlock()
	s.notifyLogout(true)
}

// destroyLocked clears the slot and the persisted mirror, and invalidates
// any armed timer.
func (s *Store) destroyLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.sess = nil
	if err := s.kv.Delete(tokenDataKey); err != nil {
		s.logger.Warn("session: clearing token record", err)
	}
	if err := s.kv.Delete(identityDataKey); err != nil {
		s.logger.Warn("session: clearing identity record", err)
	}
}

func (s *Store) notifyLogout(expired bool) {
	if s.opts.OnLogout != nil {
		s.opts.OnLogout(expired)
	}
}
