package wire

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestCompactLogJSONRoundTrip(t *testing.T) {
	log := CompactLog{
		V:               1,
		GameID:          4000000000, // near the top of the u32 range
		Events:          []string{"15728640", "15728640"},
		Commitments:     []string{strings.Repeat("ab", 32), strings.Repeat("cd", 32)},
		PlayerLeftSeed:  strings.Repeat("11", 32),
		PlayerRightSeed: strings.Repeat("22", 32),
	}
	data, err := json.Marshal(log)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back CompactLog
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(log, back) {
		t.Errorf("round trip changed the log: %+v vs %+v", log, back)
	}
}

func TestEventRoundTrip(t *testing.T) {
	vals := []int64{0, 1030792151040, -1030792151040, 42}
	for _, v := range vals {
		s := EncodeEvent(v)
		got, err := DecodeEvent(s)
		if err != nil {
			t.Fatalf("DecodeEvent(%q): %v", s, err)
		}
		if got != v {
			t.Errorf("round trip %d -> %q -> %d", v, s, got)
		}
	}
}

func TestDecodeEventRejectsFraction(t *testing.T) {
	if _, err := DecodeEvent("1.5"); err == nil {
		t.Error("expected error decoding a fractional event string")
	}
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	if _, err := DecodeEvent("not-a-number"); err == nil {
		t.Error("expected error decoding a non-numeric event string")
	}
}

func TestDecodeEventsLength(t *testing.T) {
	out, err := DecodeEvents([]string{"1", "2", "3"})
	if err != nil {
		t.Fatalf("DecodeEvents: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 values, got %d", len(out))
	}
}
