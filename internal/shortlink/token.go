// Package shortlink produces the short permalink tokens assigned to recipes.
package shortlink

import (
	"math/rand/v2"
	"strings"
)

const (
	// TokenLength is the fixed length of every recipe token
	TokenLength = 4
	// MaxAttempts bounds how many fresh draws are tried before giving up on a collision streak
	MaxAttempts = 10

	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// TokenSource draws a candidate token
type TokenSource interface {
	Generate() string
}

// Generator draws tokens uniformly from [A-Za-z0-9]
type Generator struct {
	intn func(n int) int
}

// NewGenerator returns a generator backed by the global math/rand/v2 source
func NewGenerator() *Generator {
	return &Generator{intn: rand.IntN}
}

// NewSeededGenerator returns a reproducible generator, for tests and fixtures
func NewSeededGenerator(seed uint64) *Generator {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return &Generator{intn: r.IntN}
}

// Generate returns a fresh token
func (g *Generator) Generate() string {
	var b strings.Builder
	b.Grow(TokenLength)
	for i := 0; i < TokenLength; i++ {
		b.WriteByte(alphabet[g.intn(len(alphabet))])
	}
	return b.String()
}

// Valid reports whether token has the exact token shape
func Valid(token string) bool {
	if len(token) != TokenLength {
		return false
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

// Sequence replays fixed tokens in order and then repeats the last one.
// Used to force collisions deterministically.
type Sequence struct {
	tokens []string
	next   int
	draws  int
}

// NewSequence returns a Sequence over tokens
func NewSequence(tokens ...string) *Sequence {
	return &Sequence{tokens: tokens}
}

// Generate returns the next fixed token, or "" when the sequence is empty
func (s *Sequence) Generate() string {
	s.draws++
	if len(s.tokens) == 0 {
		return ""
	}
	if s.next >= len(s.tokens) {
		return s.tokens[len(s.tokens)-1]
	}
	t := s.tokens[s.next]
	s.next++
	return t
}

// Draws reports how many tokens have been handed out so far
func (s *Sequence) Draws() int {
	return s.draws
}
