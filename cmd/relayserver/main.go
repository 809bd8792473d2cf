// Command relayserver hosts the peer relay's WebSocket endpoint and a
// small chi-routed HTTP surface for health checks and archived-match
// lookups, wired the way the teacher's main.go loads .env and brings up
// storage before serving (spec §4.7).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/pongfair/pongcore/relay"
	"github.com/pongfair/pongcore/store"
	"github.com/pongfair/pongcore/validator"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables")
	}

	ctx := context.Background()

	pg, err := store.OpenPostgres(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Printf("⚠️  Warning: PostgreSQL initialization failed: %v", err)
		log.Println("   Match archiving will be disabled")
		pg = nil
	} else {
		defer pg.Close()
	}

	rdb, err := store.OpenRedis(ctx, os.Getenv("REDIS_URL"))
	if err != nil {
		log.Printf("⚠️  Warning: Redis initialization failed: %v", err)
		log.Println("   Session resumption will be disabled")
		rdb = nil
	} else {
		defer rdb.Close()
	}

	relaySrv := relay.NewServer()
	if rdb != nil {
		relaySrv.SetSnapshotFunc(func(key string, snap relay.Snapshot) {
			state := store.SessionState{
				GameID:      snap.GameID,
				Events:      snap.Events,
				Commitments: snap.Commitments,
				LeftSeed:    snap.LeftSeed,
				RightSeed:   snap.RightSeed,
			}
			if err := rdb.SaveSession(ctx, key, state); err != nil {
				log.Printf("⚠️  Failed to snapshot session %s: %v", key, err)
			}
		})
	}
	relaySrv.SetFinishFunc(func(key string, end relay.GameEnd) {
		result := validator.ValidateLog(end.Log)
		if !result.Fair {
			log.Printf("⚠️  Session %s produced an unfair log: %s", key, result.Reason)
		}
		if pg != nil {
			rec := store.MatchRecord{
				GameID:     end.Log.GameID,
				Log:        end.Log,
				Fair:       result.Fair,
				Reason:     result.Reason,
				LeftScore:  result.LeftScore,
				RightScore: result.RightScore,
			}
			if err := pg.ArchiveMatch(ctx, rec); err != nil {
				log.Printf("⚠️  Failed to archive match %d: %v", end.Log.GameID, err)
			}
		}
		if rdb != nil {
			if err := rdb.DeleteSession(ctx, key); err != nil {
				log.Printf("⚠️  Failed to delete session %s: %v", key, err)
			}
		}
	})

	r := chi.NewRouter()
	r.Get("/ws", relaySrv.HandleWS)
	r.Get("/api/health", healthHandler(pg, rdb))
	r.Get("/api/matches/{gameID}", matchHandler(pg))

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8080"
	}
	log.Printf("🚀 Relay server starting on %s", addr)
	log.Println("📡 WebSocket endpoint: /ws?session=<key>")
	log.Println("🔌 API: GET /api/health, GET /api/matches/{gameID}")
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("relayserver: %v", err)
	}
}

func healthHandler(pg *store.Postgres, rdb *store.Redis) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := map[string]string{"postgres": "disabled", "redis": "disabled"}
		ok := true
		if pg != nil {
			if err := pg.HealthCheck(ctx); err != nil {
				status["postgres"] = "down"
				ok = false
			} else {
				status["postgres"] = "up"
			}
		}
		if rdb != nil {
			if err := rdb.HealthCheck(ctx); err != nil {
				status["redis"] = "down"
				ok = false
			} else {
				status["redis"] = "up"
			}
		}
		if !ok {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(status)
	}
}

func matchHandler(pg *store.Postgres) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pg == nil {
			http.Error(w, "match archive unavailable", http.StatusServiceUnavailable)
			return
		}
		gameID := chi.URLParam(r, "gameID")
		var id uint32
		if _, err := fmt.Sscan(gameID, &id); err != nil {
			http.Error(w, "invalid gameID", http.StatusBadRequest)
			return
		}
		rec, err := pg.GetMatch(r.Context(), id)
		if err != nil {
			http.Error(w, "match not found", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(rec)
	}
}
