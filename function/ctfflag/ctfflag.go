// Package ctfflag computes the flags players submit to the score server.
//
// A flag is the hex encoded HMAC-SHA1 of the challenge name keyed with the
// ctf.key secret. Score servers store and compare these verbatim, so the
// algorithm must not change.
package ctfflag

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
)

func Generate(secretKey string, challengeName string) string {
	mac := hmac.New(sha1.New, []byte(secretKey))
	mac.Write([]byte(challengeName))
	return hex.EncodeToString(mac.Sum(nil))
}

// GenerateAll returns one flag per key, in key order.
func GenerateAll(keys []string, challengeName string) []string {
	flags := make([]string, 0, len(keys))
	for _, key := range keys {
		flags = append(flags, Generate(key, challengeName))
	}
	return flags
}
