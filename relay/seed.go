package relay

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/pongfair/pongcore/commitment"
)

// DeriveSeed stretches a relay-supplied per-session secret into a
// peer's commitment seed via HKDF-SHA256, keyed by role so both peers
// derive distinct, deterministic seeds from one shared secret instead of
// each calling crypto/rand independently (spec §4.7 session setup).
func DeriveSeed(sessionSecret []byte, role Role) (commitment.Seed, error) {
	h := hkdf.New(sha256.New, sessionSecret, nil, []byte("pongfair-relay-seed:"+string(role)))
	var seed commitment.Seed
	if _, err := io.ReadFull(h, seed[:]); err != nil {
		return commitment.Seed{}, fmt.Errorf("relay: deriving seed for role %s: %w", role, err)
	}
	return seed, nil
}
