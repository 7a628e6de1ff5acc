package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateRandomToken(t *testing.T) {
	token := GenerateRandomToken(32)
	require.Len(t, token, 32)
	for _, ch := range token {
		require.True(t,
			(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9'),
			"unexpected character %q", ch)
	}
}

// Tokens are minted from concurrent handlers; run with -race.
func TestGenerateRandomTokenConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	tokens := make([]string, 8)
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i] = GenerateRandomToken(16)
		}(i)
	}
	wg.Wait()

	for _, token := range tokens {
		require.Len(t, token, 16)
	}
}
