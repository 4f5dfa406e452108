package utils

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strings"
)

const passwordChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func GenerateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "rndfallback"
	}

	s := hex.EncodeToString(bytes)
	s = strings.ToLower(s)
	if len(s) > n {
		s = s[:n]
	}
	return s
}

// GenerateMemberPassword produces the 8-character credential handed to a trip
// member when an admin adds them.
func GenerateMemberPassword() string {
	var sb strings.Builder
	limit := big.NewInt(int64(len(passwordChars)))
	for i := 0; i < 8; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return GenerateRandomString(8)
		}
		sb.WriteByte(passwordChars[idx.Int64()])
	}
	return sb.String()
}
