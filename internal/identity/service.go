package identity

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cognisance/atelier/internal/domain"
)

// SlotKey is the durable storage key holding the signed-in member's email.
// A missing key means "no session".
const SlotKey = "auth_user"

// ErrSlotEmpty indicates the durable slot holds no value.
var ErrSlotEmpty = errors.New("slot is empty")

// Slot is durable key-value storage for the identity record.
type Slot interface {
	Put(ctx context.Context, key, value string) error
	// Get returns ErrSlotEmpty when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	// Delete is a no-op for an absent key.
	Delete(ctx context.Context, key string) error
}

// Session is the in-memory identity of the signed-in member.
type Session struct {
	Email           string    `json:"email"`
	AuthenticatedAt time.Time `json:"authenticated_at"`
}

// Service owns the member session. Authentication is intentionally a mock:
// any non-empty email and password pair is accepted, and only the email is
// persisted. There is exactly one logical identity at a time; a repeat
// login overwrites the previous one.
type Service struct {
	slot Slot

	mu      sync.RWMutex
	current *Session
}

// NewService creates an identity service over the given durable slot.
func NewService(slot Slot) *Service {
	return &Service{slot: slot}
}

// Login establishes the member session and persists the identity.
// Empty email or password fails with ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.slot.Put(ctx, SlotKey, email); err != nil {
		return nil, err
	}

	session := &Session{Email: email, AuthenticatedAt: time.Now()}

	s.mu.Lock()
	s.current = session
	s.mu.Unlock()

	slog.Info("member logged in", "email", email)
	return session, nil
}

// Logout clears the session and erases the durable record. It always
// succeeds; a failed slot erase is logged and the in-memory session is
// cleared regardless.
func (s *Service) Logout(ctx context.Context) {
	if err := s.slot.Delete(ctx, SlotKey); err != nil {
		slog.Warn("failed to erase identity slot", "error", err)
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// Restore reads the durable slot once at startup. A persisted identity is
// trusted as-is; the credential is not re-validated.
func (s *Service) Restore(ctx context.Context) error {
	email, err := s.slot.Get(ctx, SlotKey)
	if err != nil {
		if errors.Is(err, ErrSlotEmpty) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	s.current = &Session{Email: email, AuthenticatedAt: time.Now()}
	s.mu.Unlock()

	slog.Info("restored member session", "email", email)
	return nil
}

// Current returns the active session, if any.
func (s *Service) Current() (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	session := *s.current
	return &session, true
}

// IsAuthenticated reports whether a member is signed in. It is true iff an
// identity is set.
func (s *Service) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}
