package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pongfair/pongcore/pongconfig"
)

// Redis wraps a client holding in-flight relay session state, keyed and
// TTL'd the way the teacher's db package keys its own session hashes.
type Redis struct {
	client *redis.Client
}

// SessionState is the serialisable snapshot of a relay session while it
// is still in progress — enough for a restarted relay process to resume
// assembling events without losing what a peer already reported.
type SessionState struct {
	GameID      uint32   `json:"gameId"`
	Events      []string `json:"events"`
	Commitments []string `json:"commitments"`
	LeftSeed    string   `json:"leftSeed,omitempty"`
	RightSeed   string   `json:"rightSeed,omitempty"`
}

// OpenRedis connects to addr (falling back to the REDIS_URL environment
// variable, then localhost:6379).
func OpenRedis(ctx context.Context, addr string) (*Redis, error) {
	if addr == "" {
		addr = os.Getenv("REDIS_URL")
	}
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("store: connecting to Redis: %w", err)
	}
	log.Println("✅ Redis connected")
	return &Redis{client: client}, nil
}

// Close releases the client.
func (r *Redis) Close() error { return r.client.Close() }

func sessionKey(sessionID string) string {
	return fmt.Sprintf(pongconfig.RedisSessionKey, sessionID)
}

// SaveSession upserts sessionID's state with RelaySessionTTL.
func (r *Redis) SaveSession(ctx context.Context, sessionID string, state SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("store: marshaling session state: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(sessionID), data, pongconfig.RelaySessionTTL).Err(); err != nil {
		return fmt.Errorf("store: saving session %s: %w", sessionID, err)
	}
	return nil
}

// LoadSession fetches sessionID's last saved state, or (nil, nil) if the
// key has expired or never existed.
func (r *Redis) LoadSession(ctx context.Context, sessionID string) (*SessionState, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: loading session %s: %w", sessionID, err)
	}
	var state SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("store: decoding session %s: %w", sessionID, err)
	}
	return &state, nil
}

// DeleteSession removes sessionID's state, e.g. once the match finishes
// and the log has been archived to Postgres.
func (r *Redis) DeleteSession(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("store: deleting session %s: %w", sessionID, err)
	}
	return nil
}

// HealthCheck pings the client.
func (r *Redis) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
