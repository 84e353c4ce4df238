package wordbank

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode"
)

//go:embed words/*.json
var wordsFS embed.FS

// DefaultLang is the bank used when the requested language has no file.
const DefaultLang = "tr"

// WordsFileEnv names an external JSON file that replaces the embedded bank
// for every language when set.
const WordsFileEnv = "KELIME_WORDS_FILE"

// Puzzle is one playable entry: the canonical uppercase word, a free-text
// hint shown on request, and a category label.
type Puzzle struct {
	Word     string `json:"word"`
	Hint     string `json:"hint"`
	Category string `json:"category"`
}

// Bank is an immutable, non-empty ordered collection of puzzles.
type Bank struct {
	puzzles []Puzzle
}

// ErrNoPuzzles is returned when a bank file exists but yields no usable entries.
var ErrNoPuzzles = errors.New("word bank has no usable puzzles")

// SupportedLanguages returns language codes that have an embedded bank.
func SupportedLanguages() []string {
	return []string{"tr", "en"}
}

// Load builds the bank for lang. Falls back to DefaultLang when the
// requested language has no embedded file. KELIME_WORDS_FILE overrides
// the embedded data entirely.
func Load(lang string) (*Bank, error) {
	if path := strings.TrimSpace(os.Getenv(WordsFileEnv)); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", WordsFileEnv, err)
		}
		return parse(b)
	}
	code := strings.TrimSpace(strings.ToLower(lang))
	if code == "" {
		code = DefaultLang
	}
	b, err := fs.ReadFile(wordsFS, "words/"+code+".json")
	if err != nil && code != DefaultLang {
		b, err = fs.ReadFile(wordsFS, "words/"+DefaultLang+".json")
	}
	if err != nil {
		return nil, err
	}
	return parse(b)
}

// New builds a bank from explicit puzzles, applying the same normalization
// as Load. Useful for tests and fixed single-word banks.
func New(puzzles []Puzzle) (*Bank, error) {
	out := make([]Puzzle, 0, len(puzzles))
	for _, p := range puzzles {
		if norm, ok := normalize(p); ok {
			out = append(out, norm)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoPuzzles
	}
	return &Bank{puzzles: out}, nil
}

func parse(data []byte) (*Bank, error) {
	var raw []Puzzle
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse word bank: %w", err)
	}
	return New(raw)
}

// normalize uppercases the word and drops data-quality defects: blank or
// single-letter words, and words with non-letter runes.
func normalize(p Puzzle) (Puzzle, bool) {
	word := strings.ToUpper(strings.TrimSpace(p.Word))
	if len([]rune(word)) < 2 {
		return Puzzle{}, false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return Puzzle{}, false
		}
	}
	p.Word = word
	p.Hint = strings.TrimSpace(p.Hint)
	p.Category = strings.TrimSpace(p.Category)
	return p, true
}

// Len reports the number of puzzles.
func (b *Bank) Len() int {
	return len(b.puzzles)
}

// At returns the puzzle at index i.
func (b *Bank) At(i int) Puzzle {
	return b.puzzles[i]
}

// Puzzles returns a copy of the full puzzle list.
func (b *Bank) Puzzles() []Puzzle {
	out := make([]Puzzle, len(b.puzzles))
	copy(out, b.puzzles)
	return out
}

// Categories returns the distinct category labels in first-seen order.
func (b *Bank) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range b.puzzles {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// ForCategory returns the sub-bank of puzzles with the given category
// label, or an error if none match.
func (b *Bank) ForCategory(name string) (*Bank, error) {
	var out []Puzzle
	for _, p := range b.puzzles {
		if strings.EqualFold(p.Category, name) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: category %q", ErrNoPuzzles, name)
	}
	return &Bank{puzzles: out}, nil
}
