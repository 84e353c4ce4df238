package game

import (
	"errors"
	"math/rand"

	"kelime/internal/wordbank"
)

// ErrEmptyBank signals a configuration error: a picker was given a bank
// with no puzzles. Sessions surface it instead of showing a partial puzzle.
var ErrEmptyBank = errors.New("word bank is empty")

// Picker draws puzzles uniformly at random from a bank. Selection is
// memoryless: immediate repeats are possible and accepted.
type Picker struct {
	bank *wordbank.Bank
	rng  *rand.Rand
}

// NewPicker creates a picker over bank backed by rng.
func NewPicker(bank *wordbank.Bank, rng *rand.Rand) *Picker {
	return &Picker{bank: bank, rng: rng}
}

// Pick returns one puzzle chosen uniformly from the bank.
func (p *Picker) Pick() (wordbank.Puzzle, error) {
	if p.bank == nil || p.bank.Len() == 0 {
		return wordbank.Puzzle{}, ErrEmptyBank
	}
	return p.bank.At(p.rng.Intn(p.bank.Len())), nil
}
