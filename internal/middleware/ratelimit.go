package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/database"
	"github.com/coffeeguard-rw/coffeeguard-backend/pkg/clientip"
)

const (
	// RateLimitWindow is the sliding window for the per-IP counter.
	RateLimitWindow = 60 * time.Second
	// RateLimitMaxRequests is the request budget per window. Diagnosis
	// calls are slow, so the ceiling stays generous for normal app use.
	RateLimitMaxRequests = 60
	// RateLimitKeyPrefix is the Redis key prefix for the counters.
	RateLimitKeyPrefix = "ratelimit:"
	// BlockedIPKeyPrefix is the Redis key prefix for blocked IPs.
	BlockedIPKeyPrefix = "blocked_ip:"
	// BlockedIPDuration is how long an abusive IP stays blocked.
	BlockedIPDuration = time.Hour
)

// RateLimit is per-IP rate limiting backed by Redis, with temporary
// blocking for IPs that blow far past the budget. Fails open when Redis
// is unreachable.
func RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ipAddress := clientip.FromRequest(r)
		ctx := context.Background()

		blockedKey := BlockedIPKeyPrefix + ipAddress
		if blocked, err := database.RedisClient.Exists(ctx, blockedKey).Result(); err == nil && blocked > 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"message":"Your IP has been temporarily blocked due to excessive requests. Please try again later."}`))
			return
		}

		rateLimitKey := RateLimitKeyPrefix + ipAddress

		count, err := database.RedisClient.Incr(ctx, rateLimitKey).Result()
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			database.RedisClient.Expire(ctx, rateLimitKey, RateLimitWindow)
		}

		if count > RateLimitMaxRequests {
			if count > 2*RateLimitMaxRequests {
				database.RedisClient.Set(ctx, blockedKey, "1", BlockedIPDuration)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(fmt.Sprintf(`{"success":false,"message":"Rate limit exceeded. Please try again later.","retry_after":%d}`, int(RateLimitWindow.Seconds()))))
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(RateLimitMaxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(RateLimitMaxRequests-count, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(RateLimitWindow).Unix(), 10))

		next.ServeHTTP(w, r)
	})
}

// UnblockIP removes an IP from the blocked list.
func UnblockIP(ipAddress string) error {
	return database.RedisClient.Del(context.Background(), BlockedIPKeyPrefix+ipAddress).Err()
}

// IsIPBlocked reports whether an IP is currently blocked.
func IsIPBlocked(ipAddress string) (bool, error) {
	count, err := database.RedisClient.Exists(context.Background(), BlockedIPKeyPrefix+ipAddress).Result()
	return count > 0, err
}
