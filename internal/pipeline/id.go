package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// newJobID produces a sortable, collision-resistant job identifier: a second
// timestamp prefix followed by 8 random bytes.
func newJobID() string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[:4], uint32(time.Now().Unix()))
	rand.Read(b[4:])
	return hex.EncodeToString(b[:])
}
