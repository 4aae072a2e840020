package test

import (
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

const loginAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789._-"

// RandomASCIIString returns a login-safe string with length in [minLen, maxLen].
func RandomASCIIString(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	buf := make([]byte, minLen+rand.IntN(maxLen-minLen+1))
	for i := range buf {
		buf[i] = loginAlphabet[rand.IntN(len(loginAlphabet))]
	}
	return string(buf)
}

// RandomAmount returns a positive two-decimal amount strictly below limit.
func RandomAmount(limit int64) decimal.Decimal {
	cents := limit * 100
	if cents <= 1 {
		return decimal.New(1, -2)
	}
	return decimal.New(rand.Int64N(cents-1)+1, -2)
}
