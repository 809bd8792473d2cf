// Package commitment implements the SHA-256 binding between a logged
// paddle position and the player seed that committed to it, adapted from
// the teacher's crypto/seed.go provably-fair seed primitive.
package commitment

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Seed is a 32-byte player commitment seed.
type Seed [32]byte

// GenerateSeed returns a fresh cryptographically random 32-byte seed.
func GenerateSeed() (Seed, error) {
	var s Seed
	if _, err := rand.Read(s[:]); err != nil {
		return Seed{}, err
	}
	return s, nil
}

// Hex returns the lowercase 64-character hex encoding of the seed.
func (s Seed) Hex() string {
	return hexutil.Encode(s[:])[2:]
}

// SeedFromHex decodes a 64-character lowercase hex string into a Seed.
func SeedFromHex(s string) (Seed, error) {
	b, err := hexutil.Decode("0x" + s)
	if err != nil {
		return Seed{}, err
	}
	if len(b) != 32 {
		return Seed{}, errInvalidSeedLength(len(b))
	}
	var seed Seed
	copy(seed[:], b)
	return seed, nil
}

type errInvalidSeedLength int

func (e errInvalidSeedLength) Error() string {
	return "commitment: seed must decode to exactly 32 bytes"
}

// NonzeroBytes counts the seed's non-zero bytes — used by the weak-seed
// guard (a seed with too many zero bytes carries too little entropy).
func (s Seed) NonzeroBytes() int {
	n := 0
	for _, b := range s {
		if b != 0 {
			n++
		}
	}
	return n
}

// Compute returns SHA-256(seed || LE32(index) || LE64(paddleY)), the
// commitment binding a single logged paddle position to its side's seed.
func Compute(seed Seed, index uint32, paddleY int64) [32]byte {
	var buf [32 + 4 + 8]byte
	copy(buf[:32], seed[:])
	binary.LittleEndian.PutUint32(buf[32:36], index)
	binary.LittleEndian.PutUint64(buf[36:44], uint64(paddleY))
	return sha256.Sum256(buf[:])
}

// Hex returns the lowercase 64-character hex encoding of a commitment.
func Hex(commitment [32]byte) string {
	return hexutil.Encode(commitment[:])[2:]
}

// Equal reports whether a hex-encoded commitment matches the recomputed one.
func Equal(hex string, commitment [32]byte) bool {
	return hex == Hex(commitment)
}
