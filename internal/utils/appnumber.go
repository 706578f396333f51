package utils

import (
	"math/rand"
	"time"
)

const appNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewApplicationNumber returns "USA-YYYYMMDD-XXXX" for the UTC date of now.
func NewApplicationNumber(now time.Time) string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = appNumberAlphabet[rand.Intn(len(appNumberAlphabet))]
	}
	return "USA-" + now.UTC().Format("20060102") + "-" + string(suffix)
}
