package game

import "math/rand"

// Scrambler produces random permutations of a word's letters. The random
// source is injected so callers can seed it for deterministic output.
type Scrambler struct {
	rng *rand.Rand
}

// NewScrambler creates a scrambler backed by rng.
func NewScrambler(rng *rand.Rand) *Scrambler {
	return &Scrambler{rng: rng}
}

// Scramble returns a permutation of word's runes that differs from word.
// Words with fewer than two runes, or with a single distinct rune, only
// have one visible arrangement and are returned unchanged.
func (s *Scrambler) Scramble(word string) string {
	letters := []rune(word)
	if len(letters) < 2 || allSameRune(letters) {
		return word
	}
	out := make([]rune, len(letters))
	for {
		copy(out, letters)
		// Fisher-Yates, last index to first.
		for i := len(out) - 1; i > 0; i-- {
			j := s.rng.Intn(i + 1)
			out[i], out[j] = out[j], out[i]
		}
		if scrambled := string(out); scrambled != word {
			return scrambled
		}
	}
}

func allSameRune(letters []rune) bool {
	for _, r := range letters[1:] {
		if r != letters[0] {
			return false
		}
	}
	return true
}
