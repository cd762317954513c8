package core

import (
	"sync"

	"github.com/hjang25/roomchat/internal/proto"
)

// Room groups users subscribed to the same named channel. One mutex
// guards membership changes and broadcasts as a unit, so a broadcast
// always sees a consistent member set.
type Room struct {
	name string

	mu      sync.Mutex
	members map[*User]struct{}
}

// NewRoom constructs a room with no members.
func NewRoom(name string) *Room {
	return &Room{
		name:    name,
		members: make(map[*User]struct{}),
	}
}

// Name returns the room's immutable name.
func (r *Room) Name() string {
	return r.name
}

// AddMember inserts a user into the room. Re-adding a member is a no-op.
func (r *Room) AddMember(u *User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[u] = struct{}{}
}

// RemoveMember erases a user from the room. Removing a non-member is a
// no-op.
func (r *Room) RemoveMember(u *User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, u)
}

// Broadcast enqueues a delivery message onto the queue of every member
// whose username differs from sender. Enqueue never blocks, so holding
// the room lock across the fan-out cannot deadlock against a slow
// consumer.
func (r *Room) Broadcast(sender, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for u := range r.members {
		if u.Username == sender {
			continue
		}
		u.Queue.Enqueue(proto.Message{
			Tag:     proto.TagDelivery,
			Payload: proto.DeliveryPayload(r.name, sender, text),
		})
	}
}

// MemberCount reports how many users are currently in the room.
func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}
