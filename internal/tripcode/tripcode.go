// Package tripcode generates the short, human-readable codes printed on trip
// records, e.g. "TRP-202601-7QK2M".
//
// Codes are labels, not security tokens. The generator does not guarantee
// uniqueness: with a five character base-36 suffix there are
// Combinations distinct codes per prefix per month, and the trip store
// rejects duplicates with a unique constraint so the caller can retry.
package tripcode

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultPrefix is used when no prefix option is given.
	DefaultPrefix = "TRP"

	// Alphabet is the base-36 suffix alphabet, uppercase.
	Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// SuffixLength is the number of random characters in a code.
	SuffixLength = 5

	// Combinations is len(Alphabet)^SuffixLength.
	Combinations = 36 * 36 * 36 * 36 * 36
)

var prefixPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,9}$`)

// ValidPrefix reports whether p can be used as a code prefix: one to ten
// uppercase letters or digits, starting with a letter.
func ValidPrefix(p string) bool {
	return prefixPattern.MatchString(p)
}

// Source supplies random indices in [0, n). *rand.Rand from math/rand/v2
// satisfies it; such a value is not safe for concurrent use, so share it
// between goroutines only behind a lock.
type Source interface {
	IntN(n int) int
}

// globalSource draws from the process-wide math/rand/v2 generator, which is
// safe for concurrent use.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Generator builds trip codes. A Generator is immutable after New and safe
// for concurrent use provided its Source is.
type Generator struct {
	prefix  string
	src     Source
	pattern *regexp.Regexp
}

// Option configures a Generator.
type Option func(*Generator)

// WithPrefix sets the code prefix. Invalid prefixes are ignored.
func WithPrefix(p string) Option {
	return func(g *Generator) {
		if ValidPrefix(p) {
			g.prefix = p
		}
	}
}

// WithSource injects the randomness source, typically a seeded
// rand.New(rand.NewPCG(a, b)) in tests.
func WithSource(src Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.src = src
		}
	}
}

// New returns a Generator with DefaultPrefix and the global random source
// unless overridden by opts.
func New(opts ...Option) *Generator {
	g := &Generator{prefix: DefaultPrefix, src: globalSource{}}
	for _, opt := range opts {
		opt(g)
	}
	g.pattern = regexp.MustCompile(`^` + regexp.QuoteMeta(g.prefix) + `-\d{6}-[0-9A-Z]{5}$`)
	return g
}

// Prefix returns the configured prefix.
func (g *Generator) Prefix() string { return g.prefix }

// Year range that fits the four-digit YYYY field. Generate clamps to it.
const (
	MinYear = 0
	MaxYear = 9999
)

// Generate returns a code for a trip created at now: PREFIX-YYYYMM-XXXXX,
// where YYYYMM is now's year and zero-padded month. Years outside
// [MinYear, MaxYear] are clamped so every generated code passes Valid.
func (g *Generator) Generate(now time.Time) string {
	var b strings.Builder
	b.Grow(len(g.prefix) + 1 + 6 + 1 + SuffixLength)

	b.WriteString(g.prefix)
	b.WriteByte('-')
	fmt.Fprintf(&b, "%04d%02d", min(max(now.Year(), MinYear), MaxYear), int(now.Month()))
	b.WriteByte('-')
	for range SuffixLength {
		b.WriteByte(Alphabet[g.src.IntN(len(Alphabet))])
	}
	return b.String()
}

// Valid reports whether code has this generator's shape.
func (g *Generator) Valid(code string) bool {
	return g.pattern.MatchString(code)
}
