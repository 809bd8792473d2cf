package guest

import (
	"testing"

	"github.com/pongfair/pongcore/commitment"
	"github.com/pongfair/pongcore/producer"
	"github.com/pongfair/pongcore/wire"
)

func playedLog(t *testing.T, gameID uint32) wire.CompactLog {
	t.Helper()
	left, err := commitment.GenerateSeed()
	if err != nil {
		t.Fatalf("GenerateSeed: %v", err)
	}
	right, err := commitment.GenerateSeed()
	if err != nil {
		t.Fatalf("GenerateSeed: %v", err)
	}
	m := producer.NewMatchWithSeeds(gameID, left, right)
	if err := m.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	return m.Log()
}

func TestLogHashIsFunctionOfGameIDAndEventsOnly(t *testing.T) {
	log := playedLog(t, 11)
	events, err := wire.DecodeEvents(log.Events)
	if err != nil {
		t.Fatalf("DecodeEvents: %v", err)
	}
	in := ValidateLogInput{GameID: log.GameID, Events: events}
	h1 := LogHash(in)
	h2 := LogHash(in)
	if h1 != h2 {
		t.Fatal("LogHash is not deterministic")
	}

	otherGame := ValidateLogInput{GameID: log.GameID + 1, Events: events}
	if LogHash(otherGame) == h1 {
		t.Fatal("LogHash did not change with game_id")
	}
}

func TestValidateAgreesWithValidator(t *testing.T) {
	log := playedLog(t, 22)
	events, err := wire.DecodeEvents(log.Events)
	if err != nil {
		t.Fatalf("DecodeEvents: %v", err)
	}
	out := Validate(ValidateLogInput{GameID: log.GameID, Events: events})
	if !out.Fair {
		t.Fatalf("expected fair output, got reason %v", out.Reason)
	}
	if out.LeftScore != 3 && out.RightScore != 3 {
		t.Errorf("expected a winner with 3 points: left=%d right=%d", out.LeftScore, out.RightScore)
	}
	if out.GameID != log.GameID {
		t.Errorf("GameID = %d, want %d", out.GameID, log.GameID)
	}
	if out.Verdict() != VerdictFair {
		t.Errorf("Verdict() = %v, want VerdictFair", out.Verdict())
	}
}

func TestParseReceiptKind(t *testing.T) {
	cases := map[string]ReceiptKind{
		"composite": ReceiptComposite,
		"Succinct":  ReceiptSuccinct,
		"GROTH16":   ReceiptGroth16,
	}
	for in, want := range cases {
		got, err := ParseReceiptKind(in)
		if err != nil {
			t.Errorf("ParseReceiptKind(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseReceiptKind(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseReceiptKind("stark"); err == nil {
		t.Error("expected an error for an unknown receipt kind")
	}
}

func TestValidateRejectsMalformedEvents(t *testing.T) {
	out := Validate(ValidateLogInput{GameID: 1, Events: []int64{1}})
	if out.Fair {
		t.Fatal("expected rejection for odd-length events")
	}
	if out.Reason == nil || *out.Reason == "" {
		t.Fatal("expected a reason for the rejection")
	}
	if out.Verdict() != VerdictUnfair {
		t.Errorf("Verdict() = %v, want VerdictUnfair", out.Verdict())
	}
}
