package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/cognisance/atelier/internal/domain"
)

func newTestService(t *testing.T) (*Service, *LocalSlot) {
	t.Helper()

	slot, err := NewLocalSlot(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalSlot() error = %v", err)
	}
	return NewService(slot), slot
}

func TestService_Login(t *testing.T) {
	svc, slot := newTestService(t)
	ctx := context.Background()

	session, err := svc.Login(ctx, "demo@user.com", "password")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if session.Email != "demo@user.com" {
		t.Errorf("Email = %q; want demo@user.com", session.Email)
	}
	if !svc.IsAuthenticated() {
		t.Error("IsAuthenticated() = false after login")
	}

	// The durable slot now holds the identity.
	value, err := slot.Get(ctx, SlotKey)
	if err != nil {
		t.Fatalf("slot Get() error = %v", err)
	}
	if value != "demo@user.com" {
		t.Errorf("slot value = %q; want demo@user.com", value)
	}
}

func TestService_Login_EmptyCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "", "password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Login(empty email) error = %v; want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "demo@user.com", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Login(empty password) error = %v; want ErrInvalidCredentials", err)
	}
	if svc.IsAuthenticated() {
		t.Error("failed login must not authenticate")
	}
}

func TestService_Login_LastWriteWins(t *testing.T) {
	svc, slot := newTestService(t)
	ctx := context.Background()

	svc.Login(ctx, "first@user.com", "pw")
	svc.Login(ctx, "second@user.com", "pw")

	session, ok := svc.Current()
	if !ok || session.Email != "second@user.com" {
		t.Errorf("Current() = %+v; want second@user.com", session)
	}
	if value, _ := slot.Get(ctx, SlotKey); value != "second@user.com" {
		t.Errorf("slot value = %q; want second@user.com", value)
	}
}

func TestService_Logout(t *testing.T) {
	svc, slot := newTestService(t)
	ctx := context.Background()

	svc.Login(ctx, "demo@user.com", "password")
	svc.Logout(ctx)

	if svc.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after logout")
	}
	if _, ok := svc.Current(); ok {
		t.Error("Current() should be empty after logout")
	}
	if _, err := slot.Get(ctx, SlotKey); !errors.Is(err, ErrSlotEmpty) {
		t.Errorf("slot Get() error = %v; want ErrSlotEmpty", err)
	}

	// Logging out twice is harmless.
	svc.Logout(ctx)
}

func TestService_Restore(t *testing.T) {
	slot, err := NewLocalSlot(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalSlot() error = %v", err)
	}
	ctx := context.Background()

	// First process: login persists the identity.
	first := NewService(slot)
	first.Login(ctx, "demo@user.com", "password")

	// Fresh process over the same slot: restore trusts the stored record.
	second := NewService(slot)
	if err := second.Restore(ctx); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	session, ok := second.Current()
	if !ok || session.Email != "demo@user.com" {
		t.Errorf("Current() = %+v; want demo@user.com", session)
	}
}

func TestService_Restore_AfterLogout(t *testing.T) {
	slot, _ := NewLocalSlot(t.TempDir())
	ctx := context.Background()

	first := NewService(slot)
	first.Login(ctx, "demo@user.com", "password")
	first.Logout(ctx)

	second := NewService(slot)
	if err := second.Restore(ctx); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if second.IsAuthenticated() {
		t.Error("IsAuthenticated() = true; logout must survive restart")
	}
}

func TestService_Restore_EmptySlot(t *testing.T) {
	svc, _ := newTestService(t)

	if err := svc.Restore(context.Background()); err != nil {
		t.Fatalf("Restore() on empty slot error = %v", err)
	}
	if svc.IsAuthenticated() {
		t.Error("empty slot must not authenticate")
	}
}
