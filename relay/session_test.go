package relay

import "testing"

func TestJoinAssignsLeftThenRight(t *testing.T) {
	s := NewSession(1)
	r1, err := s.Join()
	if err != nil {
		t.Fatalf("first Join: %v", err)
	}
	if r1 != RoleLeft {
		t.Errorf("first joiner = %v, want left", r1)
	}
	r2, err := s.Join()
	if err != nil {
		t.Fatalf("second Join: %v", err)
	}
	if r2 != RoleRight {
		t.Errorf("second joiner = %v, want right", r2)
	}
	if _, err := s.Join(); err != ErrSessionFull {
		t.Errorf("third Join error = %v, want ErrSessionFull", err)
	}
}

func TestSetReadyRequiresBothSides(t *testing.T) {
	s := NewSession(1)
	if s.SetReady(RoleLeft) {
		t.Fatal("expected not ready with only one side")
	}
	if !s.SetReady(RoleRight) {
		t.Fatal("expected ready once both sides signal")
	}
}

func TestReportPaddleAssemblesPairInOrder(t *testing.T) {
	s := NewSession(1)
	_, _, ok, err := s.ReportPaddle(RoleLeft, PaddlePosition{EventIndex: 0, PaddleY: "100", Commitment: "aa"})
	if err != nil {
		t.Fatalf("left report: %v", err)
	}
	if ok {
		t.Fatal("expected pair incomplete after only left reports")
	}

	leftY, rightY, ok, err := s.ReportPaddle(RoleRight, PaddlePosition{EventIndex: 0, PaddleY: "200", Commitment: "bb"})
	if err != nil {
		t.Fatalf("right report: %v", err)
	}
	if !ok {
		t.Fatal("expected pair complete after both report")
	}
	if leftY != "100" || rightY != "200" {
		t.Errorf("assembled pair = (%q, %q), want (100, 200)", leftY, rightY)
	}

	events := s.Events()
	if len(events) != 2 || events[0] != "100" || events[1] != "200" {
		t.Errorf("Events() = %v, want [100 200]", events)
	}
}

func TestReportPaddleDesyncDetected(t *testing.T) {
	s := NewSession(1)
	if _, _, _, err := s.ReportPaddle(RoleLeft, PaddlePosition{EventIndex: 0, PaddleY: "1"}); err != nil {
		t.Fatalf("left report: %v", err)
	}
	_, _, _, err := s.ReportPaddle(RoleRight, PaddlePosition{EventIndex: 5, PaddleY: "2"})
	if err == nil {
		t.Fatal("expected desync error for mismatched eventIndex")
	}
}

func TestFinishRequiresBothSeeds(t *testing.T) {
	s := NewSession(1)
	if _, err := s.Finish(); err == nil {
		t.Fatal("expected Finish to fail before either seed is reported")
	}
	left := "11" + repeatHex("00", 31)
	right := "22" + repeatHex("00", 31)
	s.SetSeed(RoleLeft, left)
	if _, err := s.Finish(); err == nil {
		t.Fatal("expected Finish to fail with only one seed reported")
	}
	s.SetSeed(RoleRight, right)
	log, err := s.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if log.PlayerLeftSeed != left || log.PlayerRightSeed != right {
		t.Errorf("Finish did not record both seeds correctly")
	}
	if !s.Done() {
		t.Error("expected Done() to be true after Finish")
	}
}

func repeatHex(pair string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += pair
	}
	return out
}
