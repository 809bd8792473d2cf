package relay

import (
	"testing"

	"github.com/pongfair/pongcore/validator"
	"github.com/pongfair/pongcore/wire"
)

func peersForGame(t *testing.T, gameID uint32) (*Peer, *Peer) {
	t.Helper()
	secret := []byte("peer-test-session-secret")
	leftSeed, err := DeriveSeed(secret, RoleLeft)
	if err != nil {
		t.Fatalf("DeriveSeed left: %v", err)
	}
	rightSeed, err := DeriveSeed(secret, RoleRight)
	if err != nil {
		t.Fatalf("DeriveSeed right: %v", err)
	}
	left, err := NewPeer(RoleLeft, gameID, leftSeed)
	if err != nil {
		t.Fatalf("NewPeer left: %v", err)
	}
	right, err := NewPeer(RoleRight, gameID, rightSeed)
	if err != nil {
		t.Fatalf("NewPeer right: %v", err)
	}
	return left, right
}

func TestPeersPredictIdenticalStreams(t *testing.T) {
	left, right := peersForGame(t, 77)
	if left.Pairs() != right.Pairs() {
		t.Fatalf("peers simulated different lengths: %d vs %d", left.Pairs(), right.Pairs())
	}
	for i := range left.events {
		if left.events[i] != right.events[i] {
			t.Fatalf("local predictions diverge at index %d: %d vs %d", i, left.events[i], right.events[i])
		}
	}
}

func TestTwoPeersAssembleValidatableLog(t *testing.T) {
	const gameID = 77
	left, right := peersForGame(t, gameID)

	s := NewSession(gameID)
	if _, err := s.Join(); err != nil {
		t.Fatalf("Join left: %v", err)
	}
	if _, err := s.Join(); err != nil {
		t.Fatalf("Join right: %v", err)
	}

	for i := 0; i < left.Pairs(); i++ {
		lm := left.PaddleMessage(i)
		if _, _, ok, err := s.ReportPaddle(RoleLeft, lm); err != nil {
			t.Fatalf("left report %d: %v", i, err)
		} else if ok {
			t.Fatalf("pair %d completed after only the left half", i)
		}
		rm := right.PaddleMessage(i)
		leftY, rightY, ok, err := s.ReportPaddle(RoleRight, rm)
		if err != nil {
			t.Fatalf("right report %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("pair %d did not complete after both halves", i)
		}

		// Each peer verifies the forwarded authoritative value against the
		// prediction it already consumed.
		if !left.CheckOpponent(OpponentPaddle{EventIndex: uint32(i), PaddleY: rightY}) {
			t.Fatalf("left peer desynced at pair %d", i)
		}
		if !right.CheckOpponent(OpponentPaddle{EventIndex: uint32(i), PaddleY: leftY}) {
			t.Fatalf("right peer desynced at pair %d", i)
		}
	}

	s.SetSeed(RoleLeft, left.Seal().Seed)
	s.SetSeed(RoleRight, right.Seal().Seed)
	log, err := s.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	// The relay-assembled stream must equal each peer's local prediction.
	want := wire.EncodeEvents(left.events)
	if len(log.Events) != len(want) {
		t.Fatalf("assembled %d events, peers predicted %d", len(log.Events), len(want))
	}
	for i := range want {
		if log.Events[i] != want[i] {
			t.Fatalf("assembled event %d = %q, predicted %q", i, log.Events[i], want[i])
		}
	}

	r := validator.ValidateLog(log)
	if !r.Fair {
		t.Fatalf("relay-assembled log rejected: %s", r.Reason)
	}
	if r.LeftScore != 3 && r.RightScore != 3 {
		t.Errorf("expected a winner with 3 points, got %d-%d", r.LeftScore, r.RightScore)
	}
}

func TestCheckOpponentRecordsDesync(t *testing.T) {
	left, _ := peersForGame(t, 42)
	if left.CheckOpponent(OpponentPaddle{EventIndex: 0, PaddleY: "99999999"}) {
		t.Fatal("expected a fabricated opponent value to be flagged")
	}
	desyncs := left.Desyncs()
	if len(desyncs) != 1 || desyncs[0] != 0 {
		t.Errorf("Desyncs() = %v, want [0]", desyncs)
	}
}
