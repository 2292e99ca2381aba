package id

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strings"
)

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewApplicationID returns "APP-" followed by 8 uppercase base-36 characters.
func NewApplicationID() string {
	var sb strings.Builder
	sb.Grow(12)
	sb.WriteString("APP-")
	max := big.NewInt(int64(len(base36)))
	for i := 0; i < 8; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			sb.WriteByte('0')
			continue
		}
		sb.WriteByte(base36[n.Int64()])
	}
	return sb.String()
}
