package tcp

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hjang25/roomchat/internal/core"
	"github.com/hjang25/roomchat/internal/proto"
	"github.com/hjang25/roomchat/internal/wire"
)

// Reply payloads. Clients echo these to the operator verbatim.
const (
	replyInvalidLogin   = "given message is invalid"
	replyRecvFailed     = "failed to receive message"
	replyMustLogin      = "must login first"
	replyInvalidMessage = "received invalid message"
	replyInvalidTag     = "received invalid tag"
	replyNotInRoom      = "not in a room"
	replyTooLong        = "message is too long"
	replyPeerError      = "received error message"
	replyLeftRoom       = "left room"
	replyMessageSent    = "message sent"
	replyBye            = "bye"
)

// session is the state machine for one accepted connection, driven by a
// single goroutine: unauthenticated, then role-selected (sender or
// receiver), optionally in a room, then terminated. Termination always
// releases room membership and closes the connection.
type session struct {
	id       string
	conn     *wire.Conn
	registry *core.Registry
	log      *zerolog.Logger
	wait     time.Duration
}

func (s *session) run(ctx context.Context) {
	defer s.conn.Close()

	login, err := s.conn.Receive()
	if err != nil {
		// Farewell replies are best effort: the session is ending
		// either way.
		if s.conn.LastResult() == wire.InvalidMsg {
			_ = s.sendErr(replyInvalidLogin)
		} else {
			_ = s.sendErr(replyRecvFailed)
		}
		return
	}
	if login.Tag != proto.TagRLogin && login.Tag != proto.TagSLogin {
		s.log.Debug().Str("tag", login.Tag).Msg("rejected pre-login command")
		_ = s.sendErr(replyMustLogin)
		return
	}

	username := login.Payload
	if err := s.sendOK("logged in as " + username); err != nil {
		return
	}

	user := core.NewUser(username, s.wait)
	if login.Tag == proto.TagRLogin {
		s.log.Info().Str("user", username).Msg("receiver logged in")
		s.receiverLoop(ctx, user)
	} else {
		s.log.Info().Str("user", username).Msg("sender logged in")
		s.senderLoop(user)
	}
	s.log.Info().Str("user", username).Msg("session ended")
}

// receiverLoop joins one room and then only drains the user's delivery
// queue, forwarding each message to the peer. It never reads from the
// socket again; the loop ends when a send fails or the server shuts
// down.
func (s *session) receiverLoop(ctx context.Context, user *core.User) {
	join, err := s.conn.Receive()
	if err != nil {
		if s.conn.LastResult() == wire.InvalidMsg {
			_ = s.sendErr(replyInvalidMessage)
		} else {
			_ = s.sendErr(replyRecvFailed)
		}
		return
	}
	if join.Tag != proto.TagJoin {
		_ = s.sendErr(replyNotInRoom)
		return
	}

	room := s.registry.FindOrCreateRoom(join.Payload)
	room.AddMember(user)
	defer room.RemoveMember(user)

	if err := s.sendOK("joined room " + room.Name()); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// The bounded dequeue wait is what brings control back here
		// to observe ctx between deliveries.
		msg, ok := user.Queue.Dequeue()
		if !ok {
			continue
		}
		if err := s.conn.Send(msg); err != nil {
			return
		}
	}
}

// senderLoop dispatches interactive commands until the peer quits, sends
// an error tag, or the connection fails.
func (s *session) senderLoop(user *core.User) {
	var room *core.Room
	defer func() {
		if room != nil {
			room.RemoveMember(user)
		}
	}()

	for {
		msg, err := s.conn.Receive()
		if err != nil {
			_ = s.sendErr(replyInvalidMessage)
			return
		}
		if len(msg.Payload) >= proto.MaxLineLen {
			if err := s.sendErr(replyTooLong); err != nil {
				return
			}
			continue
		}

		switch msg.Tag {
		case proto.TagErr:
			s.log.Warn().Str("payload", msg.Payload).Msg("peer reported an error")
			_ = s.sendErr(replyPeerError)
			return

		case proto.TagQuit:
			_ = s.sendOK(replyBye)
			return

		case proto.TagJoin:
			if room != nil {
				room.RemoveMember(user)
				room = nil
			}
			room = s.registry.FindOrCreateRoom(msg.Payload)
			room.AddMember(user)
			if err := s.sendOK("joined room " + room.Name()); err != nil {
				return
			}

		case proto.TagLeave:
			if room == nil {
				if err := s.sendErr(replyNotInRoom); err != nil {
					return
				}
				continue
			}
			room.RemoveMember(user)
			room = nil
			if err := s.sendOK(replyLeftRoom); err != nil {
				return
			}

		case proto.TagSendAll:
			if room == nil {
				if err := s.sendErr(replyNotInRoom); err != nil {
					return
				}
				continue
			}
			room.Broadcast(user.Username, msg.Payload)
			if err := s.sendOK(replyMessageSent); err != nil {
				return
			}

		default:
			if err := s.sendErr(replyInvalidTag); err != nil {
				return
			}
		}
	}
}

func (s *session) sendOK(payload string) error {
	return s.conn.Send(proto.Message{Tag: proto.TagOK, Payload: payload})
}

func (s *session) sendErr(payload string) error {
	return s.conn.Send(proto.Message{Tag: proto.TagErr, Payload: payload})
}
