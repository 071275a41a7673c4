package app

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/domain"
)

// fakeConn captures sent frames instead of writing to a socket.
type fakeConn struct {
	mu       sync.Mutex
	frames   [][]byte
	alive    bool
	failSend bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{alive: true}
}

func (f *fakeConn) TrySend(data core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.alive || f.failSend {
		return errors.New("connection closed")
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	f.frames = append(f.frames, cp)
	return nil
}

func (f *fakeConn) Alive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.alive
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alive = false
}

func (f *fakeConn) setAlive(alive bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alive = alive
}

// events decodes every captured frame into a generic map.
func (f *fakeConn) events(t *testing.T) []map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, 0, len(f.frames))
	for _, frame := range f.frames {
		var m map[string]any
		if err := json.Unmarshal(frame, &m); err != nil {
			t.Fatalf("bad frame %q: %v", frame, err)
		}
		out = append(out, m)
	}
	return out
}

// lastOf returns the most recent event of the given type, or nil.
func (f *fakeConn) lastOf(t *testing.T, eventType string) map[string]any {
	t.Helper()
	var found map[string]any
	for _, evt := range f.events(t) {
		if evt["type"] == eventType {
			found = evt
		}
	}
	return found
}

func (f *fakeConn) countOf(t *testing.T, eventType string) int {
	t.Helper()
	n := 0
	for _, evt := range f.events(t) {
		if evt["type"] == eventType {
			n++
		}
	}
	return n
}

func newTestSession(selfID domain.SessionID, name string) (core.MemberSession, *fakeConn) {
	conn := newFakeConn()
	return core.NewMemberSession(domain.NewMember(selfID, name), conn), conn
}
