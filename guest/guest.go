// Package guest is the data-contract boundary shared with an external
// zero-knowledge proving environment (spec §4.8). It delegates the actual
// judgement to validator and adds the SHA-256 log-hash commitment a guest
// circuit would bind into its proof; it does not implement, and never
// imports, any proving machinery itself.
package guest

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/pongfair/pongcore/validator"
)

// logHashPrefix tags the hashed byte sequence's format so a future wire
// revision cannot be silently confused with this one.
var logHashPrefix = []byte("PONGLOGv1")

// ValidateLogInput is the guest-bound reduction of a CompactLog: raw
// signed Q16.16 integers, no decimal strings, no commitments or seeds —
// those are verified by the host before the guest ever sees the events.
type ValidateLogInput struct {
	GameID uint32
	Events []int64
}

// Verdict distinguishes what a guest run's receipt attests to, for
// callers that archive both accepted and rejected receipts.
type Verdict int

const (
	VerdictFair Verdict = iota
	VerdictUnfair
)

// ReceiptKind selects the proof format an external prover should emit.
// This module validates the choice but never produces a proof itself.
type ReceiptKind string

const (
	// ReceiptComposite is fastest to generate and largest (multiple MB).
	ReceiptComposite ReceiptKind = "composite"
	// ReceiptSuccinct is a STARK proof of medium size (~200 KB).
	ReceiptSuccinct ReceiptKind = "succinct"
	// ReceiptGroth16 is a SNARK proof of a few hundred bytes.
	ReceiptGroth16 ReceiptKind = "groth16"
)

// ParseReceiptKind validates a user-supplied proof format string.
func ParseReceiptKind(s string) (ReceiptKind, error) {
	switch ReceiptKind(strings.ToLower(s)) {
	case ReceiptComposite:
		return ReceiptComposite, nil
	case ReceiptSuccinct:
		return ReceiptSuccinct, nil
	case ReceiptGroth16:
		return ReceiptGroth16, nil
	}
	return "", fmt.Errorf("invalid receipt kind %q: must be composite, succinct or groth16", s)
}

func (k ReceiptKind) String() string { return string(k) }

// ValidateLogOutput is the guest's public output, committed by an
// external prover. GameID rides along so a verifier cannot replay one
// match's accepted receipt as evidence for another (spec supplement).
type ValidateLogOutput struct {
	Fair          bool
	Reason        *string
	LeftScore     uint32
	RightScore    uint32
	EventsLen     uint32
	LogHashSHA256 [32]byte
	GameID        uint32
}

// LogHash computes SHA-256(b"PONGLOGv1" || LE32(game_id) || LE64(y)...)
// over the input's raw event values (spec §4.8). It is a pure function of
// (game_id, events) only — property P6.
func LogHash(in ValidateLogInput) [32]byte {
	buf := make([]byte, len(logHashPrefix)+4+8*len(in.Events))
	n := copy(buf, logHashPrefix)
	binary.LittleEndian.PutUint32(buf[n:], in.GameID)
	n += 4
	for _, y := range in.Events {
		binary.LittleEndian.PutUint64(buf[n:], uint64(y))
		n += 8
	}
	return sha256.Sum256(buf)
}

// Validate re-derives the judgement validator.ValidateLog would reach on
// the equivalent CompactLog — minus seed/commitment checks, which the
// host has already performed before constructing in — and attaches the
// log hash the proof will commit to.
//
// Because the guest never sees seeds or commitments, Validate trusts the
// host to have verified them; it independently re-derives only the
// physics judgement (score, reachability, bounds, termination), which is
// the part the guest circuit must itself prove.
func Validate(in ValidateLogInput) ValidateLogOutput {
	r := validator.ReplayOnly(in.GameID, in.Events)
	out := ValidateLogOutput{
		Fair:          r.Fair,
		LeftScore:     r.LeftScore,
		RightScore:    r.RightScore,
		EventsLen:     uint32(len(in.Events)),
		LogHashSHA256: LogHash(in),
		GameID:        in.GameID,
	}
	if !r.Fair {
		reason := r.Reason
		out.Reason = &reason
	}
	return out
}

// Verdict reports whether out attests a fair or unfair match.
func (out ValidateLogOutput) Verdict() Verdict {
	if out.Fair {
		return VerdictFair
	}
	return VerdictUnfair
}

// Summary is a compact human-readable rendering of a guest receipt, for
// logs and CLI output — never fed back into any validated path.
type Summary struct {
	GameID     uint32
	Fair       bool
	LeftScore  uint32
	RightScore uint32
	LogHashHex string
}

// NewSummary renders out for display.
func NewSummary(out ValidateLogOutput) Summary {
	return Summary{
		GameID:     out.GameID,
		Fair:       out.Fair,
		LeftScore:  out.LeftScore,
		RightScore: out.RightScore,
		LogHashHex: hexOf(out.LogHashSHA256),
	}
}

func hexOf(b [32]byte) string {
	const hextable = "0123456789abcdef"
	out := make([]byte, 64)
	for i, c := range b {
		out[i*2] = hextable[c>>4]
		out[i*2+1] = hextable[c&0x0f]
	}
	return string(out)
}
