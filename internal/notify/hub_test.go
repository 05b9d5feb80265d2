package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestHubPublish(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("user-1")
	defer hub.Unregister(client)

	hub.Publish(context.Background(), "user-1", Event{Type: "booking_confirmed", BookingID: "b-1", Status: "confirmed"})

	select {
	case msg := <-client.Send:
		var event Event
		if err := json.Unmarshal(msg, &event); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if event.BookingID != "b-1" || event.Status != "confirmed" {
			t.Fatalf("unexpected event: %+v", event)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for event")
	}
}

func TestHubDoesNotCrossUsers(t *testing.T) {
	hub := NewHub(nil)
	mine := hub.Register("user-1")
	theirs := hub.Register("user-2")
	defer hub.Unregister(mine)
	defer hub.Unregister(theirs)

	hub.Publish(context.Background(), "user-1", Event{Type: "booking_confirmed"})

	select {
	case <-theirs.Send:
		t.Fatalf("event leaked to another user")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubHelpers(t *testing.T) {
	ch := redisChannel("abc")
	if userIDFromChannel(ch) != "abc" {
		t.Fatalf("unexpected user id")
	}
	if userIDFromChannel("bad") != "" {
		t.Fatalf("expected empty user id")
	}
}

func TestUnregisterCloses(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("user-2")
	hub.Unregister(client)
	if _, ok := <-client.Send; ok {
		t.Fatalf("expected channel closed")
	}
}

func TestHubRedisDeliversExactlyOnce(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	hub := NewHub(client)
	ws := hub.Register("user-redis")
	defer hub.Unregister(ws)

	// let the pattern subscription settle before publishing
	time.Sleep(50 * time.Millisecond)
	hub.Publish(context.Background(), "user-redis", Event{Type: "booking_confirmed", BookingID: "b-9"})

	select {
	case msg := <-ws.Send:
		if len(msg) == 0 {
			t.Fatalf("empty payload")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for event")
	}

	select {
	case <-ws.Send:
		t.Fatalf("one publish delivered a second copy to the same connection")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestHubRedisPublishError(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	server.Close()
	defer client.Close()

	hub := NewHub(client)
	node := hub.Register("user-bad")
	defer hub.Unregister(node)

	hub.Publish(context.Background(), "user-bad", Event{Type: "booking_confirmed"})
}
