package utils

import (
	"math/rand"
)

// GenerateRandomToken returns an opaque alphanumeric token, used for
// single-use websocket connect tickets. The top-level rand functions are
// safe for concurrent handlers.
func GenerateRandomToken(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	token := make([]byte, length)
	for i := range token {
		token[i] = charset[rand.Intn(len(charset))]
	}
	return string(token)
}
