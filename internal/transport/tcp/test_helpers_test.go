package tcp

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hjang25/roomchat/internal/config"
	"github.com/hjang25/roomchat/internal/core"
	"github.com/hjang25/roomchat/internal/proto"
	"github.com/hjang25/roomchat/internal/wire"
)

// startServer runs a chat server on an ephemeral loopback port and tears
// it down with the test.
func startServer(t *testing.T) *Server {
	return startServerWith(t, nil)
}

// startServerWith lets a test adjust the config before the server binds.
func startServerWith(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()

	cfg := config.Default()
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.DequeueWait = 100 * time.Millisecond
	if mutate != nil {
		mutate(&cfg)
	}

	nop := zerolog.Nop()
	srv := NewServer(core.NewRegistry(), &cfg, &nop)
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return srv
}

func dialServer(t *testing.T, srv *Server) *wire.Conn {
	t.Helper()
	conn, err := wire.Dial(srv.Addr())
	if err != nil {
		t.Fatalf("dial server: %v", err)
	}
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	t.Cleanup(func() { conn.Close() })
	return conn
}

func mustReceive(t *testing.T, conn *wire.Conn) proto.Message {
	t.Helper()
	msg, err := conn.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	return msg
}

// sendExpect sends msg and asserts the server's reply tag and payload.
func sendExpect(t *testing.T, conn *wire.Conn, msg proto.Message, wantTag, wantPayload string) {
	t.Helper()
	if err := conn.Send(msg); err != nil {
		t.Fatalf("Send(%+v): %v", msg, err)
	}
	reply := mustReceive(t, conn)
	if reply.Tag != wantTag || reply.Payload != wantPayload {
		t.Fatalf("reply to %+v = %s:%s, want %s:%s", msg, reply.Tag, reply.Payload, wantTag, wantPayload)
	}
}

// loginSender logs a sender-role session in.
func loginSender(t *testing.T, srv *Server, username string) *wire.Conn {
	t.Helper()
	conn := dialServer(t, srv)
	sendExpect(t, conn, proto.Message{Tag: proto.TagSLogin, Payload: username}, proto.TagOK, "logged in as "+username)
	return conn
}

// loginReceiver logs a receiver-role session in and joins room.
func loginReceiver(t *testing.T, srv *Server, username, room string) *wire.Conn {
	t.Helper()
	conn := dialServer(t, srv)
	sendExpect(t, conn, proto.Message{Tag: proto.TagRLogin, Payload: username}, proto.TagOK, "logged in as "+username)
	sendExpect(t, conn, proto.Message{Tag: proto.TagJoin, Payload: room}, proto.TagOK, "joined room "+room)
	return conn
}
