package app

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/domain"
	"github.com/dkeye/Arena/internal/protocol"
)

func newRelayRoom(t *testing.T) (*SignalRelay, *fakeConn, *fakeConn, *fakeConn) {
	t.Helper()
	rooms := core.NewRoomManager()
	relay := NewSignalRelay(rooms)

	room := rooms.Create("d1")
	sessA, connA := newTestSession("alice", "Alice")
	sessB, connB := newTestSession("bob", "Bob")
	sessS, connS := newTestSession("spec", "Spec")
	room.AddParticipant("conn-a", sessA)
	room.AddParticipant("conn-b", sessB)
	room.AddSpectator("conn-s", sessS)
	return relay, connA, connB, connS
}

func TestRelayForwardsToOtherParticipantOnly(t *testing.T) {
	relay, connA, connB, connS := newRelayRoom(t)

	payload := json.RawMessage(`{"sdp":"v=0"}`)
	if err := relay.Relay("d1", "conn-a", "alice", protocol.TypeRelayOffer, payload); err != nil {
		t.Fatalf("relay: %v", err)
	}

	evt := connB.lastOf(t, protocol.TypeRelayOffer)
	if evt == nil {
		t.Fatal("other participant never received the offer")
	}
	if evt["fromSessionId"] != "alice" {
		t.Fatalf("want fromSessionId alice, got %v", evt["fromSessionId"])
	}
	if evt["payload"].(map[string]any)["sdp"] != "v=0" {
		t.Fatalf("payload must pass through untouched, got %v", evt["payload"])
	}

	if connA.countOf(t, protocol.TypeRelayOffer) != 0 {
		t.Fatal("sender must not receive its own signal")
	}
	if len(connS.events(t)) != 0 {
		t.Fatal("spectators must never receive signaling traffic")
	}
}

func TestRelayUnknownRoom(t *testing.T) {
	relay, _, _, _ := newRelayRoom(t)
	err := relay.Relay("nope", "conn-a", "alice", protocol.TypeRelayICE, nil)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestRelaySwallowsDeadPeer(t *testing.T) {
	relay, _, connB, _ := newRelayRoom(t)
	connB.Close()
	if err := relay.Relay("d1", "conn-a", "alice", protocol.TypeRelayAnswer, json.RawMessage(`{}`)); err != nil {
		t.Fatalf("a dead peer must not surface as an error, got %v", err)
	}
}
