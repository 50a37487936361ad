// Package id generates execution IDs: ULID strings assigned to trades and
// performance samples when the producer does not supply its own correlation
// identifier.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	// Seed a PRNG from crypto/rand so ULID entropy is unpredictable, and use
	// ulid.Monotonic so IDs minted within the same millisecond still sort in
	// generation order.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a fresh execution ID.
//
// ULIDs sort lexicographically by generation time, matching the
// timestamp-keyed ordering of the rows they end up stored in.
func New() string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), mono)
	if err != nil {
		// Only reachable if time goes backwards or entropy fails.
		panic(err)
	}
	return id.String()
}
