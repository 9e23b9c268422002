package id

import (
	"encoding/binary"
	"math"
	"sync"
	"time"
)

// ID is a time-ordered identifier: 8 bytes of millisecond timestamp
// followed by 8 bytes of sequence, both big-endian, so byte-wise order is
// generation order.
type ID [16]byte

// Bytes returns a copy of the raw 16 bytes, suitable as a storage key
// suffix.
func (i ID) Bytes() []byte { b := make([]byte, 16); copy(b, i[:]); return b }

// String returns the 32-character lowercase hex form used in envelope ids.
func (i ID) String() string { return hexEncode(i[:]) }

// IsZero reports whether i is the zero value, i.e. no id was assigned.
func (i ID) IsZero() bool { return i == ID{} }

// FromBytes reconstructs an ID from the 16 bytes Bytes produced.
func FromBytes(b []byte) (ID, bool) {
	var id ID
	if len(b) != 16 {
		return id, false
	}
	copy(id[:], b)
	return id, true
}

// Compare returns -1, 0, or 1 ordering i against other.
func (i ID) Compare(other ID) int {
	for idx := 0; idx < 16; idx++ {
		if i[idx] < other[idx] {
			return -1
		}
		if i[idx] > other[idx] {
			return 1
		}
	}
	return 0
}

// Generator hands out strictly increasing ids for one process. Safe for
// concurrent use.
type Generator struct {
	mu     sync.Mutex
	lastMs int64
	seq    uint64
}

func NewGenerator() *Generator { return &Generator{} }

// NowMs is the clock source, replaceable in tests.
var NowMs = func() int64 { return time.Now().UnixMilli() }

// Next returns the next id. A clock regression pins the timestamp to the
// last observed millisecond; sequence exhaustion inside one millisecond
// waits for the clock to advance.
func (g *Generator) Next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := NowMs()
	if ms < g.lastMs {
		ms = g.lastMs
	}

	switch {
	case ms > g.lastMs:
		g.seq = 0
	case g.seq == math.MaxUint64:
		for ms <= g.lastMs {
			time.Sleep(time.Millisecond / 8)
			ms = NowMs()
		}
		g.seq = 0
	default:
		g.seq++
	}

	g.lastMs = ms

	var id ID
	binary.BigEndian.PutUint64(id[0:8], uint64(ms))
	binary.BigEndian.PutUint64(id[8:16], g.seq)
	return id
}

func hexEncode(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = digits[v>>4]
		out[i*2+1] = digits[v&0x0f]
	}
	return string(out)
}
