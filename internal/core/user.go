package core

import "time"

// User is a chat participant: a username plus exclusive ownership of one
// delivery queue. A User is created at login and dropped when its
// session ends; usernames are not required to be unique across sessions.
type User struct {
	Username string
	Queue    *DeliveryQueue
}

// NewUser constructs a user with a fresh delivery queue.
func NewUser(username string, dequeueWait time.Duration) *User {
	return &User{
		Username: username,
		Queue:    NewDeliveryQueue(dequeueWait),
	}
}
