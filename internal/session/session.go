// Package session replaces ambient signed-in-user globals with an explicit
// object: handlers receive it through the request context, and anything that
// cares about sign-in changes registers a subscriber instead of polling
// module-level state.
package session

import (
	"context"
	"sync"

	"github.com/baharkarakas/pocketmoney-backend/internal/auth"
	"github.com/baharkarakas/pocketmoney-backend/internal/models"
)

// Snapshot is the immutable view handed to subscribers on every change.
type Snapshot struct {
	User    *auth.Claims
	Profile *models.Profile
}

type Session struct {
	mu      sync.RWMutex
	user    *auth.Claims
	profile *models.Profile
	subs    map[int]func(Snapshot)
	nextSub int
}

func New() *Session {
	return &Session{subs: make(map[int]func(Snapshot))}
}

// Set replaces the signed-in user and profile and notifies subscribers.
func (s *Session) Set(user *auth.Claims, profile *models.Profile) {
	s.mu.Lock()
	s.user = user
	s.profile = profile
	snap := Snapshot{User: user, Profile: profile}
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	// notify outside the lock so a subscriber may read the session
	for _, fn := range subs {
		fn(snap)
	}
}

// Clear signs the session out.
func (s *Session) Clear() { s.Set(nil, nil) }

// Subscribe registers fn for change notifications and returns a cancel func.
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) User() *auth.Claims {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Profile() *models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *Session) IsAuthenticated() bool { return s.User() != nil }

// Role prefers the profile row; the token role claim is only a fallback for
// users whose profile row has not been created yet.
func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile != nil {
		return s.profile.Role
	}
	if s.user != nil {
		return s.user.Role
	}
	return ""
}

func (s *Session) IsParent() bool { return s.Role() == models.RoleParent }

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok
}
