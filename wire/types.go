// Package wire defines the on-disk/on-wire CompactLog format (spec §3, §6)
// and the Q16.16-decimal-string <-> int64 conversions it requires.
package wire

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CompactLog is the canonical on-disk JSON log of a completed match.
// Keys should be written in the order v, game_id, events, commitments,
// player_left_seed, player_right_seed, though any order parses.
type CompactLog struct {
	V               int      `json:"v"`
	GameID          uint32   `json:"game_id"`
	Events          []string `json:"events"`
	Commitments     []string `json:"commitments"`
	PlayerLeftSeed  string   `json:"player_left_seed"`
	PlayerRightSeed string   `json:"player_right_seed"`
}

// EncodeEvent renders a Q16.16 paddle-Y value as the exact-integer decimal
// string the log format requires — never a floating-point rendering.
func EncodeEvent(qval int64) string {
	return decimal.NewFromInt(qval).String()
}

// DecodeEvent parses a logged decimal string back to its signed Q16.16
// integer value. It rejects any string carrying a fractional component:
// every legitimate logged value is an exact integer in Q16.16 units.
func DecodeEvent(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("wire: invalid event value %q: %w", s, err)
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("wire: event value %q is not an integer", s)
	}
	return d.IntPart(), nil
}

// DecodeEvents parses every entry of log.Events to int64, in order.
func DecodeEvents(events []string) ([]int64, error) {
	out := make([]int64, len(events))
	for i, s := range events {
		v, err := DecodeEvent(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// EncodeEvents renders a slice of Q16.16 integers as decimal strings.
func EncodeEvents(values []int64) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = EncodeEvent(v)
	}
	return out
}
