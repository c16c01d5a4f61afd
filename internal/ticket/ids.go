package ticket

import (
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"
)

// ID format: a two-letter prefix, six digits from a monotonic time-seeded
// sequence, and three random uppercase letters. The sequence guarantees
// process-lifetime uniqueness even under bursts; the random suffix keeps IDs
// distinct across restarts within the same second.

var idSequence atomic.Uint64

func init() {
	idSequence.Store(uint64(time.Now().Unix()))
}

// NewTicketID generates a unique ticket identifier, e.g. "TK482910QRZ".
func NewTicketID() string {
	return newID("TK")
}

// NewComplaintID generates a unique complaint identifier in the CP space.
func NewComplaintID() string {
	return newID("CP")
}

func newID(prefix string) string {
	seq := idSequence.Add(1)
	return fmt.Sprintf("%s%06d%s", prefix, seq%1000000, randomLetters(3))
}

func randomLetters(n int) string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(b)
}
