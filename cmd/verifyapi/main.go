// Command verifyapi exposes validator.ValidateLog as a thin chi-routed
// HTTP wrapper (spec §6 "HTTP API for prove/verify... considered
// external"). It holds no game state of its own; every request is
// independently validated against the posted CompactLog.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/pongfair/pongcore/pongconfig"
	"github.com/pongfair/pongcore/validator"
	"github.com/pongfair/pongcore/wire"
)

func main() {
	r := chi.NewRouter()
	r.Post("/verify", handleVerify)
	r.Get("/healthz", handleHealth)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8081"
	}
	log.Printf("🚀 Verify API starting on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("verifyapi: %v", err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func handleVerify(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, pongconfig.MaxLogFileBytes)

	var l wire.CompactLog
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	result := validator.ValidateLog(l)

	w.Header().Set("Content-Type", "application/json")
	if !result.Fair {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	json.NewEncoder(w).Encode(result)
}
