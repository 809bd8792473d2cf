package validator

import (
	"strings"
	"testing"

	"github.com/pongfair/pongcore/commitment"
	"github.com/pongfair/pongcore/producer"
	"github.com/pongfair/pongcore/wire"
)

func zeroSeedHex() string { return strings.Repeat("00", 32) }
func ffSeedHex() string   { return strings.Repeat("ff", 32) }

func TestValidateEmptyLogRejected(t *testing.T) {
	log := wire.CompactLog{
		V: 1, GameID: 0,
		Events:          []string{},
		Commitments:     []string{},
		PlayerLeftSeed:  zeroSeedHex(),
		PlayerRightSeed: ffSeedHex(),
	}
	r := ValidateLog(log)
	if r.Fair {
		t.Fatal("expected rejection for empty log")
	}
	if !strings.Contains(r.Reason, "No events provided") {
		t.Errorf("reason = %q, want to contain %q", r.Reason, "No events provided")
	}
}

func TestValidateOddEventsRejected(t *testing.T) {
	log := wire.CompactLog{
		V: 1, GameID: 0,
		Events:          []string{"1030792151040"},
		Commitments:     []string{"00"},
		PlayerLeftSeed:  zeroSeedHex(),
		PlayerRightSeed: ffSeedHex(),
	}
	r := ValidateLog(log)
	if r.Fair {
		t.Fatal("expected rejection for odd-length events")
	}
	if !strings.Contains(r.Reason, "Malformed") {
		t.Errorf("reason = %q, want to contain %q", r.Reason, "Malformed")
	}
}

func TestValidateDuplicateSeedsRejected(t *testing.T) {
	left, err := commitment.GenerateSeed()
	if err != nil {
		t.Fatalf("GenerateSeed: %v", err)
	}
	m := producer.NewMatchWithSeeds(1, left, left)
	if err := m.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	log := m.Log()
	r := ValidateLog(log)
	if r.Fair {
		t.Fatal("expected rejection for duplicate seeds")
	}
	if !strings.Contains(r.Reason, "unique commitment seeds") {
		t.Errorf("reason = %q", r.Reason)
	}
}

func TestValidateLowEntropySeedRejected(t *testing.T) {
	right, err := commitment.GenerateSeed()
	if err != nil {
		t.Fatalf("GenerateSeed: %v", err)
	}
	log := wire.CompactLog{
		V: 1, GameID: 1,
		Events:          []string{"0", "0"},
		Commitments:     []string{"00", "00"},
		PlayerLeftSeed:  zeroSeedHex(),
		PlayerRightSeed: right.Hex(),
	}
	r := ValidateLog(log)
	if r.Fair {
		t.Fatal("expected rejection for an all-zero seed")
	}
	if !strings.Contains(r.Reason, "entropy") {
		t.Errorf("reason = %q", r.Reason)
	}
}

func TestValidateSpeedViolationRejected(t *testing.T) {
	left, err := commitment.GenerateSeed()
	if err != nil {
		t.Fatalf("GenerateSeed: %v", err)
	}
	right, err := commitment.GenerateSeed()
	if err != nil {
		t.Fatalf("GenerateSeed: %v", err)
	}
	events := []string{"1030792151040", "1030792151040", "1030792151040", "2000000000000"}
	commits := make([]string, len(events))
	for i, e := range events {
		v, err := wire.DecodeEvent(e)
		if err != nil {
			t.Fatalf("DecodeEvent: %v", err)
		}
		seed := left
		if i%2 == 1 {
			seed = right
		}
		commits[i] = commitment.Hex(commitment.Compute(seed, uint32(i), v))
	}
	log := wire.CompactLog{
		V: 1, GameID: 1,
		Events:          events,
		Commitments:     commits,
		PlayerLeftSeed:  left.Hex(),
		PlayerRightSeed: right.Hex(),
	}
	r := ValidateLog(log)
	if r.Fair {
		t.Fatal("expected rejection for a too-fast paddle")
	}
	if !strings.Contains(r.Reason, "too fast") {
		t.Errorf("reason = %q, want to contain %q", r.Reason, "too fast")
	}
}

func TestValidateWinningGameIsFair(t *testing.T) {
	left, err := commitment.GenerateSeed()
	if err != nil {
		t.Fatalf("GenerateSeed: %v", err)
	}
	right, err := commitment.GenerateSeed()
	if err != nil {
		t.Fatalf("GenerateSeed: %v", err)
	}
	m := producer.NewMatchWithSeeds(7, left, right)
	if err := m.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	log := m.Log()
	r := ValidateLog(log)
	if !r.Fair {
		t.Fatalf("expected fair=true, got reason %q", r.Reason)
	}
	if r.LeftScore+r.RightScore < 2 {
		t.Errorf("expected a multi-rally match, got left=%d right=%d", r.LeftScore, r.RightScore)
	}
	if r.LeftScore != 3 && r.RightScore != 3 {
		t.Errorf("expected a winner with exactly 3 points, got left=%d right=%d", r.LeftScore, r.RightScore)
	}
}

func TestValidateLogDeterministic(t *testing.T) {
	left, err := commitment.GenerateSeed()
	if err != nil {
		t.Fatalf("GenerateSeed: %v", err)
	}
	right, err := commitment.GenerateSeed()
	if err != nil {
		t.Fatalf("GenerateSeed: %v", err)
	}
	m := producer.NewMatchWithSeeds(5, left, right)
	if err := m.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	log := m.Log()
	first := ValidateLog(log)
	for i := 0; i < 3; i++ {
		if got := ValidateLog(log); got != first {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestValidateTamperedCommitmentRejected(t *testing.T) {
	left, err := commitment.GenerateSeed()
	if err != nil {
		t.Fatalf("GenerateSeed: %v", err)
	}
	right, err := commitment.GenerateSeed()
	if err != nil {
		t.Fatalf("GenerateSeed: %v", err)
	}
	m := producer.NewMatchWithSeeds(9, left, right)
	if err := m.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	log := m.Log()
	if len(log.Commitments) < 2 {
		t.Skip("match too short to tamper index 1")
	}
	tampered := []rune(log.Commitments[1])
	if tampered[0] == '0' {
		tampered[0] = '1'
	} else {
		tampered[0] = '0'
	}
	log.Commitments[1] = string(tampered)

	r := ValidateLog(log)
	if r.Fair {
		t.Fatal("expected rejection for a tampered commitment")
	}
	if !strings.Contains(r.Reason, "Commitment verification failed at index 1") {
		t.Errorf("reason = %q", r.Reason)
	}
}
