// Package generator produces candidate mailbox names and passwords. The
// values only need to be unlikely to collide; they are not secrets of
// cryptographic strength.
package generator

import (
	"math/rand/v2"
	"strings"
)

const (
	lower        = "abcdefghijklmnopqrstuvwxyz"
	alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	MinLocalLength = 6
	MaxLocalLength = 10
	PasswordLength = 8
)

// Random draws from a math/rand/v2 source. It is safe for concurrent use
// when built with New; a seeded source (NewSeeded) is not.
type Random struct {
	intN func(n int) int
}

// New uses the runtime's global generator.
func New() *Random {
	return &Random{intN: rand.IntN}
}

// NewSeeded returns a reproducible generator, for tests.
func NewSeeded(seed uint64) *Random {
	r := rand.New(rand.NewPCG(seed, seed))
	return &Random{intN: r.IntN}
}

// Address returns "<6-10 lowercase letters>@domain".
func (g *Random) Address(domain string) string {
	n := MinLocalLength + g.intN(MaxLocalLength-MinLocalLength+1)
	return g.pick(lower, n) + "@" + domain
}

// Password returns 8 characters drawn uniformly from [A-Za-z0-9].
func (g *Random) Password() string {
	return g.pick(alphanumeric, PasswordLength)
}

func (g *Random) pick(alphabet string, n int) string {
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(alphabet[g.intN(len(alphabet))])
	}
	return b.String()
}
