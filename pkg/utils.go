package pkg

import (
	"crypto/rand"
	"math/big"
)

const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RandString returns a random room code of length n. Look-alike characters are left out.
func RandString(n int) string {
	max := big.NewInt(int64(len(roomCodeAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b[i] = roomCodeAlphabet[idx.Int64()]
	}
	return string(b)
}
