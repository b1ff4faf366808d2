// Package generator builds typing word sequences.
package generator

import (
	"math/rand"
	"time"
	"unicode"
)

// TimeModePoolSize is the number of words generated for time-limited tests,
// where duration rather than count bounds the session.
const TimeModePoolSize = 100

// Options decorate sampled words. The zero value leaves words untouched.
type Options struct {
	CapsPct  float64
	PunctPct float64
	PunctSet []rune
}

// Generator produces randomized word sequences.
type Generator struct {
	rnd  *rand.Rand
	opts Options
}

// New returns a Generator seeded with the current time.
func New(opts Options) *Generator {
	return NewWithSeed(time.Now().UnixNano(), opts)
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64, opts Options) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed)), opts: opts}
}

// Generate draws count words uniformly with replacement from pool.
// An empty pool yields an empty sequence.
func (g *Generator) Generate(pool []string, count int) []string {
	if len(pool) == 0 || count <= 0 {
		return []string{}
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		word := pool[g.rnd.Intn(len(pool))]
		word = applyCaps(g.rnd, word, g.opts.CapsPct)
		word = applyPunct(g.rnd, word, g.opts.PunctPct, g.opts.PunctSet)
		result = append(result, word)
	}
	return result
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 || rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 || rnd.Float64() > punctPct {
		return word
	}
	return word + string(punctSet[rnd.Intn(len(punctSet))])
}
