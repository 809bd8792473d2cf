package store

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestSessionStateRoundTrip(t *testing.T) {
	state := SessionState{
		GameID:      9,
		Events:      []string{"15728640", "15728640"},
		Commitments: []string{"aa", "bb"},
		LeftSeed:    "11",
	}
	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back SessionState
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(state, back) {
		t.Errorf("round trip changed state: %+v vs %+v", state, back)
	}
}

func TestSessionKeyPattern(t *testing.T) {
	if got := sessionKey("abc"); got != "relay:session:abc" {
		t.Errorf("sessionKey = %q", got)
	}
}
