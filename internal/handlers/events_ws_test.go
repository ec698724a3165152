package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/services"
	"github.com/gorilla/websocket"
)

func TestPumpEventsForwardsAndUnblocksReader(t *testing.T) {
	eventsCh := make(chan services.UserEvent, 1)
	readerDone := make(chan error, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := eventsUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		done := make(chan struct{})
		go pumpEvents(conn, eventsCh, done)

		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		_, _, err = conn.ReadMessage()
		readerDone <- err
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	eventsCh <- services.UserEvent{Type: services.EventPredicting, UserID: "u1"}
	var evt services.UserEvent
	if err := client.ReadJSON(&evt); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if evt.Type != services.EventPredicting {
		t.Errorf("event type = %s, want %s", evt.Type, services.EventPredicting)
	}

	// When the subscription ends, the server-side reader must unblock
	// right away, not sit out its 90s read deadline.
	close(eventsCh)
	select {
	case err := <-readerDone:
		if err == nil {
			t.Error("reader should return an error once the connection is closed")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server reader stayed parked after the event stream ended")
	}
}
