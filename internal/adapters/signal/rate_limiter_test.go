package signal

import (
	"testing"
	"time"

	"github.com/dkeye/Arena/internal/domain"
	"github.com/dkeye/Arena/internal/protocol"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !rl.Allow("conn-a") {
			t.Fatalf("attempt %d must be allowed", i+1)
		}
	}
	if rl.Allow("conn-a") {
		t.Fatal("attempt over the limit must be rejected")
	}
	// other connections are tracked separately
	if !rl.Allow("conn-b") {
		t.Fatal("independent connection must be allowed")
	}
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)
	if !rl.Allow("conn-a") {
		t.Fatal("first attempt must be allowed")
	}
	if rl.Allow("conn-a") {
		t.Fatal("second attempt within window must be rejected")
	}
	time.Sleep(15 * time.Millisecond)
	if !rl.Allow("conn-a") {
		t.Fatal("attempt after the window must be allowed again")
	}
}

func TestReasonForMapsEngineErrors(t *testing.T) {
	cases := []struct {
		err    error
		reason string
	}{
		{domain.ErrNotFound, protocol.ReasonNotFound},
		{domain.ErrNotParticipant, protocol.ReasonNotParticipant},
		{domain.ErrNotAuthorized, protocol.ReasonNotAuthorized},
		{domain.ErrParticipantVote, protocol.ReasonNotAuthorized},
		{domain.ErrInvalidState, protocol.ReasonInvalidState},
		{domain.ErrStoreUnavailable, protocol.ReasonStoreUnavailable},
		{domain.ErrEmptyTopic, protocol.ReasonValidation},
		{domain.ErrArgumentTooLong, protocol.ReasonValidation},
	}
	for _, tc := range cases {
		if got := reasonFor(tc.err); got != tc.reason {
			t.Errorf("reasonFor(%v) = %s, want %s", tc.err, got, tc.reason)
		}
	}
}
