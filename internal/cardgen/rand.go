package cardgen

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
)

// DigitSource yields uniformly distributed integers in [0, n).
// *math/rand.Rand satisfies it, which is how tests get reproducible output.
type DigitSource interface {
	Intn(n int) int
}

// CryptoSource draws from crypto/rand using rejection sampling so that
// every value in [0, n) is equally likely. Safe for concurrent use.
type CryptoSource struct {
	mu  sync.Mutex
	buf [64]byte
	pos int
}

// NewCryptoSource returns a DigitSource backed by crypto/rand.
func NewCryptoSource() *CryptoSource {
	return &CryptoSource{pos: 64}
}

// Intn panics if n is not in [1, 256] or the system entropy source fails.
func (s *CryptoSource) Intn(n int) int {
	if n <= 0 || n > 256 {
		panic(fmt.Sprintf("cardgen: Intn argument %d out of range", n))
	}
	threshold := 256 - (256 % n)
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		if s.pos >= len(s.buf) {
			// read a batch at a time to keep syscalls down
			if _, err := rand.Read(s.buf[:]); err != nil {
				panic(fmt.Sprintf("cardgen: reading entropy: %v", err))
			}
			s.pos = 0
		}
		b := int(s.buf[s.pos])
		s.pos++
		if b < threshold {
			return b % n
		}
	}
}

// RandomDigits returns count independent random decimal digits.
func RandomDigits(src DigitSource, count int) string {
	if count <= 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(count)
	for i := 0; i < count; i++ {
		sb.WriteByte('0' + byte(src.Intn(10)))
	}
	return sb.String()
}
