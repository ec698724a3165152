package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/database"
	"github.com/google/uuid"
)

// Event types streamed to clients over /ws/events.
const (
	EventSignedIn       = "signed_in"
	EventSignedOut      = "signed_out"
	EventProfileUpdated = "profile_updated"

	// Diagnosis pipeline stages. These are real transitions reported by the
	// submission flow, not a simulated percentage.
	EventImageStored = "image_stored"
	EventPredicting  = "predicting"
	EventSaving      = "saving"
	EventSaved       = "saved"
	EventFailed      = "failed"
)

// UserEvent is the payload broadcast over Redis and WebSocket. One channel
// per user carries both session-change and diagnosis-progress events.
type UserEvent struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message,omitempty"`
	RecordID  string    `json:"record_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// eventHub tracks local subscribers per user for fan-out.
type eventHub struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID][]chan UserEvent
}

var (
	hub             = &eventHub{subscribers: make(map[uuid.UUID][]chan UserEvent)}
	subscriberStart sync.Once
)

const userEventChannelPrefix = "events:user:"

// SubscribeUserEvents registers a local subscriber for one user's events.
// The returned cancel func must be called when the consumer goes away.
func SubscribeUserEvents(userID uuid.UUID) (<-chan UserEvent, func()) {
	ch := make(chan UserEvent, 16)

	hub.mu.Lock()
	hub.subscribers[userID] = append(hub.subscribers[userID], ch)
	hub.mu.Unlock()

	cancel := func() {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		subs := hub.subscribers[userID]
		for i, c := range subs {
			if c == ch {
				hub.subscribers[userID] = append(subs[:i], subs[i+1:]...)
				close(c)
				break
			}
		}
		if len(hub.subscribers[userID]) == 0 {
			delete(hub.subscribers, userID)
		}
	}
	return ch, cancel
}

// fanOutUserEvent delivers an event to all local subscribers of its user.
// Slow consumers are skipped rather than blocking the hub.
func fanOutUserEvent(event UserEvent) {
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return
	}

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	for _, ch := range hub.subscribers[userID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// PublishUserEvent publishes an event to Redis so every instance fans it
// out to its local WebSocket connections.
func PublishUserEvent(ctx context.Context, event UserEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return database.RedisClient.Publish(ctx, userEventChannelPrefix+event.UserID, data).Err()
}

// StartEventSubscriber ensures a single shared Redis listener per instance.
func StartEventSubscriber(ctx context.Context) {
	subscriberStart.Do(func() {
		go runEventSubscriber(ctx)
	})
}

func runEventSubscriber(ctx context.Context) {
	client := database.RedisClient
	if client == nil {
		log.Println("Redis client not initialized; event subscriber not started")
		return
	}

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := client.PSubscribe(ctx, userEventChannelPrefix+"*")
			defer pubsub.Close()

			log.Println("✅ User event subscriber started (pattern: events:user:*)")

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					log.Printf("Redis event subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var event UserEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("failed to unmarshal user event: %v", err)
					continue
				}

				fanOutUserEvent(event)
			}
		}()
	}
}
