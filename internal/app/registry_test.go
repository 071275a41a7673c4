package app

import (
	"strings"
	"testing"

	"github.com/dkeye/Arena/internal/domain"
)

func TestUnbindCancelsConnectionContext(t *testing.T) {
	r := NewRegistry()
	sess, _ := newTestSession("a", "A")

	canceled := false
	r.Bind("conn-a", sess, func() { canceled = true })
	r.Unbind("conn-a")

	if !canceled {
		t.Fatal("unbind must cancel the connection context")
	}
	if _, ok := r.GetSession("conn-a"); ok {
		t.Fatal("unbound session must be gone")
	}
	r.Unbind("conn-a") // idempotent
}

func TestSetIdentityClampsDisplayName(t *testing.T) {
	r := NewRegistry()
	sess, _ := newTestSession("", "")
	r.Bind("conn-a", sess, nil)

	long := strings.Repeat("x", domain.MaxDisplayNameLen+5)
	r.SetIdentity("conn-a", "a", long)
	if got := len(sess.Meta().DisplayName); got != domain.MaxDisplayNameLen {
		t.Fatalf("name must be clamped to %d, got %d", domain.MaxDisplayNameLen, got)
	}

	// an empty name keeps what the session already has
	r.SetIdentity("conn-a", "a", "")
	if sess.Meta().DisplayName == "" {
		t.Fatal("empty name must not clear the existing one")
	}
	if sess.Meta().SessionID != "a" {
		t.Fatalf("session id must be recorded, got %q", sess.Meta().SessionID)
	}
}
