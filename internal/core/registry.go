package core

import "sync"

// Registry is the process-wide mapping from room name to Room. Entries
// are created lazily on first reference and never removed.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// FindOrCreateRoom returns the unique Room for name, creating it if this
// is the first reference. Concurrent callers always observe the same
// instance.
func (reg *Registry) FindOrCreateRoom(name string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[name]
	if !ok {
		room = NewRoom(name)
		reg.rooms[name] = room
	}
	return room
}

// RoomInfo is a point-in-time view of one room, used by the status API.
type RoomInfo struct {
	Name    string `json:"name"`
	Members int    `json:"members"`
}

// Snapshot lists every room with its current member count.
func (reg *Registry) Snapshot() []RoomInfo {
	reg.mu.Lock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	reg.mu.Unlock()

	// Member counts are read outside the registry lock; each room has
	// its own lock and a session never holds two at once.
	infos := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		infos = append(infos, RoomInfo{Name: r.Name(), Members: r.MemberCount()})
	}
	return infos
}
