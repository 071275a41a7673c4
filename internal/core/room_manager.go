package core

import (
	"sync"

	"github.com/dkeye/Arena/internal/domain"
)

type roomManager struct {
	mu    sync.RWMutex
	rooms map[domain.DebateID]DebateRoom
}

func NewRoomManager() RoomManager {
	return &roomManager{rooms: make(map[domain.DebateID]DebateRoom)}
}

func (m *roomManager) Create(id domain.DebateID) DebateRoom {
	m.mu.Lock()
	defer m.mu.Unlock()
	room := NewDebateRoom(id)
	m.rooms[id] = room
	return room
}

func (m *roomManager) GetOrCreate(id domain.DebateID) DebateRoom {
	m.mu.RLock()
	room, ok := m.rooms[id]
	m.mu.RUnlock()
	if ok {
		return room
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if room, ok = m.rooms[id]; ok {
		return room
	}
	room = NewDebateRoom(id)
	m.rooms[id] = room
	return room
}

func (m *roomManager) Get(id domain.DebateID) (DebateRoom, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[id]
	return room, ok
}

func (m *roomManager) Stop(id domain.DebateID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, id)
}

func (m *roomManager) List() []RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RoomInfo, 0, len(m.rooms))
	for id, r := range m.rooms {
		out = append(out, RoomInfo{ID: id, Participants: r.ParticipantCount(), Spectators: r.SpectatorCount()})
	}
	return out
}
