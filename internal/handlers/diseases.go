package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/database"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/services"
)

const (
	diseasesCacheKey = "diseases:catalog"
	diseasesCacheTTL = time.Hour
)

// GetDiseases handles GET /api/diseases: the bilingual reference catalog.
// The catalog changes only on reseed, so responses are cached in Redis.
func GetDiseases(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, err := database.RedisClient.Get(ctx, diseasesCacheKey).Result(); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cached))
		return
	}

	diseases, err := services.ListDiseases()
	if err != nil {
		writeError(w, err)
		return
	}

	payload, err := json.Marshal(APIResponse{Success: true, Data: diseases})
	if err != nil {
		writeError(w, err)
		return
	}

	if err := database.RedisClient.Set(context.Background(), diseasesCacheKey, payload, diseasesCacheTTL).Err(); err != nil {
		log.Printf("failed to cache disease catalog: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}
