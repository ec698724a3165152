package handlers

import (
	"net/http"
	"time"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/services"
	"github.com/gorilla/websocket"
)

var eventsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer already.
		return true
	},
}

// EventsWebSocket streams the user's event feed: session changes and
// diagnosis pipeline stages. Authentication uses the session token, via
// the Authorization header or a token query parameter for browser clients.
func EventsWebSocket(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing session token", http.StatusUnauthorized)
			return
		}
	}

	userID, ok, err := services.ValidateSession(token)
	if err != nil || !ok {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	conn, err := eventsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	eventsCh, unsubscribe := services.SubscribeUserEvents(userID)
	defer unsubscribe()

	// Writer: forward hub events to this connection.
	done := make(chan struct{})
	go pumpEvents(conn, eventsCh, done)

	// Reader: only pings keep the connection alive; anything else is ignored.
	conn.SetReadLimit(4 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	conn.SetPongHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		select {
		case <-done:
			return
		default:
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))

		// Activity on the socket keeps the session fresh too.
		_ = services.RefreshSession(token)
	}
}

// pumpEvents forwards hub events to the socket until the channel closes or
// a write fails, then closes the connection so a reader parked in
// ReadMessage unblocks immediately instead of waiting out its deadline.
func pumpEvents(conn *websocket.Conn, events <-chan services.UserEvent, done chan struct{}) {
	defer close(done)
	defer conn.Close()
	for evt := range events {
		if err := conn.WriteJSON(evt); err != nil {
			return
		}
	}
}
