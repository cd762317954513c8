package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hjang25/roomchat/internal/config"
	"github.com/hjang25/roomchat/internal/core"
)

func newTestServer(t *testing.T, registry *core.Registry) *httptest.Server {
	t.Helper()
	nop := zerolog.Nop()
	cfg := config.Default()
	srv := NewServer(registry, &cfg, &nop)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, core.NewRegistry())

	resp, err := stdhttp.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" {
		t.Fatalf("status body = %+v", body)
	}
}

func TestRooms(t *testing.T) {
	registry := core.NewRegistry()
	general := registry.FindOrCreateRoom("general")
	registry.FindOrCreateRoom("random")
	general.AddMember(core.NewUser("alice", 100*time.Millisecond))
	general.AddMember(core.NewUser("bob", 100*time.Millisecond))

	ts := newTestServer(t, registry)

	resp, err := stdhttp.Get(ts.URL + "/api/rooms")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body RoomsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Rooms) != 2 {
		t.Fatalf("rooms = %+v, want 2 entries", body.Rooms)
	}
	if body.Rooms[0].Name != "general" || body.Rooms[0].Members != 2 {
		t.Fatalf("general = %+v, want 2 members", body.Rooms[0])
	}
	if body.Rooms[1].Name != "random" || body.Rooms[1].Members != 0 {
		t.Fatalf("random = %+v, want 0 members", body.Rooms[1])
	}
}
