// Package keygen produces activation keys for the desktop app. Keys act as
// bearer credentials once delivered, so symbols are drawn from crypto/rand.
package keygen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

const (
	// Prefix identifies commercial keys in support conversations.
	Prefix = "PRO"

	alphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	groupCount = 3
	groupLen   = 4
)

var keyPattern = regexp.MustCompile(`^PRO-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

// NewKey returns a key of the form PRO-XXXX-XXXX-XXXX with each X drawn
// independently and uniformly from A-Z0-9. The 36^12 keyspace makes
// collisions negligible; uniqueness is still enforced by the store's
// constraint, never here.
func NewKey() (string, error) {
	symbols := big.NewInt(int64(len(alphabet)))

	var b strings.Builder
	b.WriteString(Prefix)
	for g := 0; g < groupCount; g++ {
		b.WriteByte('-')
		for i := 0; i < groupLen; i++ {
			n, err := rand.Int(rand.Reader, symbols)
			if err != nil {
				return "", fmt.Errorf("draw key symbol: %w", err)
			}
			b.WriteByte(alphabet[n.Int64()])
		}
	}
	return b.String(), nil
}

// ValidFormat reports whether the value looks like a key this package issued.
func ValidFormat(key string) bool {
	return keyPattern.MatchString(key)
}
