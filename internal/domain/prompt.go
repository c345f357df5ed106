package domain

import (
	"math/rand"
	"strings"
	"time"
)

// BlankMarker is the placeholder players complete
const BlankMarker = "____"

// Random is the subset of *rand.Rand used to pick stems
type Random interface {
	Intn(n int) int
	Float64() float64
}

// PromptGenerator builds stems from a prefix list and a suffix list
type PromptGenerator struct {
	prefixes []string
	suffixes []string
	rng      Random
}

// NewPromptGenerator creates a generator over copies of the given lists.
// A nil rng gets a time-seeded source.
func NewPromptGenerator(prefixes, suffixes []string, rng Random) *PromptGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &PromptGenerator{
		prefixes: append([]string(nil), prefixes...),
		suffixes: append([]string(nil), suffixes...),
		rng:      rng,
	}
}

// Next returns a new stem. blankIsSuffix is true when the blank comes before
// a suffix word, so the player has to supply a prefix.
//
// If the chosen list is empty the other one is used; with both empty the
// stem is the bare marker.
func (g *PromptGenerator) Next() (stem string, blankIsSuffix bool) {
	if len(g.prefixes) == 0 && len(g.suffixes) == 0 {
		return BlankMarker, true
	}

	useSuffix := g.rng.Float64() < 0.5

	switch {
	case useSuffix && len(g.suffixes) == 0:
		useSuffix = false
	case !useSuffix && len(g.prefixes) == 0:
		useSuffix = true
	}

	if useSuffix {
		return BlankMarker + g.pick(g.suffixes), true
	}
	return g.pick(g.prefixes) + BlankMarker, false
}

func (g *PromptGenerator) pick(words []string) string {
	return words[g.rng.Intn(len(words))]
}

// StripBlank removes the blank marker from a stem
func StripBlank(stem string) string {
	return strings.ReplaceAll(stem, BlankMarker, "")
}
