package game

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"kelime/internal/wordbank"
)

// Difficulty scales the award per correct answer. It never influences
// which puzzle is selected.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ErrBadDifficulty is returned for difficulty values outside easy/medium/hard.
var ErrBadDifficulty = errors.New("unknown difficulty")

// ParseDifficulty validates a difficulty label. Empty means medium.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DifficultyMedium, nil
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyMedium:
		return DifficultyMedium, nil
	case DifficultyHard:
		return DifficultyHard, nil
	}
	return "", ErrBadDifficulty
}

// Award returns the score increment for a correct answer at this difficulty.
func (d Difficulty) Award() int {
	switch d {
	case DifficultyEasy:
		return 10
	case DifficultyHard:
		return 30
	default:
		return 20
	}
}

// Feedback is the transient result signal after a submission.
type Feedback string

const (
	FeedbackNone    Feedback = "none"
	FeedbackSuccess Feedback = "success"
	FeedbackError   Feedback = "error"
)

// Session status values. A session is "loading" until its first puzzle
// resolves, "ready" while playable, and "failed" when the bank could not
// supply a puzzle (recoverable by requesting a new one).
const (
	StatusLoading = "loading"
	StatusReady   = "ready"
	StatusFailed  = "failed"
)

// Default auto-reset delays: a solved puzzle is shown for two seconds
// before the next one loads; a wrong-answer flash clears after one.
const (
	DefaultSuccessDelay = 2 * time.Second
	DefaultErrorDelay   = 1 * time.Second
)

// ErrNoPuzzle is returned when a submit arrives while no puzzle is loaded.
var ErrNoPuzzle = errors.New("no puzzle loaded")

// Options configures a session.
type Options struct {
	Bank       *wordbank.Bank
	Rng        *rand.Rand // seeded by tests; nil means time-seeded
	Difficulty Difficulty

	SuccessDelay time.Duration // 0 means DefaultSuccessDelay
	ErrorDelay   time.Duration // 0 means DefaultErrorDelay
}

// Session holds the state for one player's run: the current puzzle, its
// scrambled form, the typed input, cumulative score, and the transient
// feedback signal. All transitions take an explicit now so the feedback
// timers are driven by the store loop and testable without sleeping.
type Session struct {
	mu        sync.Mutex
	ID        string
	CreatedAt time.Time

	picker       *Picker
	scrambler    *Scrambler
	successDelay time.Duration
	errorDelay   time.Duration

	status      string
	loadErr     error
	puzzle      wordbank.Puzzle
	hasPuzzle   bool
	scrambled   string
	input       string
	score       int
	feedback    Feedback
	hintVisible bool
	difficulty  Difficulty

	// generation counts puzzle loads; a pending feedback deadline records
	// the generation it was scheduled for so a stale timer firing after a
	// new puzzle has loaded cannot touch the newer state.
	generation uint64
	pendingAt  time.Time
	pendingGen uint64
}

// NewSession creates a session over the given bank. Call LoadPuzzle to
// start the first round.
func NewSession(id string, opts Options) *Session {
	rng := opts.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	difficulty := opts.Difficulty
	if difficulty == "" {
		difficulty = DifficultyMedium
	}
	successDelay := opts.SuccessDelay
	if successDelay <= 0 {
		successDelay = DefaultSuccessDelay
	}
	errorDelay := opts.ErrorDelay
	if errorDelay <= 0 {
		errorDelay = DefaultErrorDelay
	}
	return &Session{
		ID:           id,
		CreatedAt:    time.Now().UTC(),
		picker:       NewPicker(opts.Bank, rng),
		scrambler:    NewScrambler(rng),
		successDelay: successDelay,
		errorDelay:   errorDelay,
		status:       StatusLoading,
		feedback:     FeedbackNone,
		difficulty:   difficulty,
	}
}

// LoadPuzzle starts a new round: picks a puzzle, scrambles it, clears
// input, feedback, and hint visibility, and cancels any pending feedback
// deadline. On a picker error the session enters the failed status with
// no puzzle shown; a later LoadPuzzle retries.
func (s *Session) LoadPuzzle(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadPuzzleLocked(now)
}

func (s *Session) loadPuzzleLocked(_ time.Time) error {
	s.generation++
	s.pendingAt = time.Time{}
	s.input = ""
	s.feedback = FeedbackNone
	s.hintVisible = false

	puzzle, err := s.picker.Pick()
	if err != nil {
		s.status = StatusFailed
		s.loadErr = err
		s.hasPuzzle = false
		s.puzzle = wordbank.Puzzle{}
		s.scrambled = ""
		return err
	}
	s.status = StatusReady
	s.loadErr = nil
	s.puzzle = puzzle
	s.hasPuzzle = true
	s.scrambled = s.scrambler.Scramble(puzzle.Word)
	return nil
}

// SetInput replaces the player's typed text. Ignored while no puzzle is
// loaded.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasPuzzle {
		return
	}
	s.input = text
}

// ToggleHint flips hint visibility and reports the new value.
func (s *Session) ToggleHint() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hintVisible = !s.hintVisible
	return s.hintVisible
}

// SetDifficulty changes the difficulty. Permitted in any state; it only
// affects the award on the next correct submission.
func (s *Session) SetDifficulty(d Difficulty) error {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return ErrBadDifficulty
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.difficulty = d
	return nil
}

// Submit evaluates the current input against the puzzle word, comparing
// case-insensitively and ignoring surrounding whitespace. A correct answer
// awards points and schedules the auto-advance to the next puzzle; a wrong
// answer keeps the input and schedules the error flash to clear.
func (s *Session) Submit(now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasPuzzle {
		return false, ErrNoPuzzle
	}
	if s.feedback == FeedbackSuccess {
		// Already solved; waiting for the auto-advance.
		return false, nil
	}
	normalized := strings.ToUpper(strings.TrimSpace(s.input))
	if normalized == s.puzzle.Word {
		s.score += s.difficulty.Award()
		s.feedback = FeedbackSuccess
		s.pendingAt = now.Add(s.successDelay)
		s.pendingGen = s.generation
		return true, nil
	}
	s.feedback = FeedbackError
	s.pendingAt = now.Add(s.errorDelay)
	s.pendingGen = s.generation
	return false, nil
}

// AdvanceIfNeeded resolves the pending feedback deadline if it is due:
// success loads the next puzzle, error reverts feedback to none on the
// same puzzle. Deadlines scheduled for an earlier puzzle generation are
// discarded without touching state.
func (s *Session) AdvanceIfNeeded(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advanceIfNeededLocked(now)
}

func (s *Session) advanceIfNeededLocked(now time.Time) bool {
	if s.pendingAt.IsZero() {
		return false
	}
	if s.pendingGen != s.generation {
		s.pendingAt = time.Time{}
		return false
	}
	if now.Before(s.pendingAt) {
		return false
	}
	s.pendingAt = time.Time{}
	switch s.feedback {
	case FeedbackSuccess:
		_ = s.loadPuzzleLocked(now)
		return true
	case FeedbackError:
		s.feedback = FeedbackNone
		return true
	}
	return false
}

// NextTimer returns the next time the session needs AdvanceIfNeeded, and
// whether such a deadline exists.
func (s *Session) NextTimer(time.Time) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingAt.IsZero() || s.pendingGen != s.generation {
		return time.Time{}, false
	}
	return s.pendingAt, true
}

// Snapshot is the read surface exposed to the presentation layer. The
// answer word itself is never included.
type Snapshot struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
	Scrambled   string     `json:"scrambled"`
	WordLength  int        `json:"wordLength"`
	Hint        string     `json:"hint"`
	Category    string     `json:"category"`
	Input       string     `json:"input"`
	Score       int        `json:"score"`
	Feedback    Feedback   `json:"feedback"`
	HintVisible bool       `json:"hintVisible"`
	Difficulty  Difficulty `json:"difficulty"`
	Generation  uint64     `json:"generation"`
}

// Snapshot returns a consistent view of the session, resolving any due
// feedback deadline first.
func (s *Session) Snapshot(now time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advanceIfNeededLocked(now)
	snap := Snapshot{
		ID:          s.ID,
		Status:      s.status,
		Scrambled:   s.scrambled,
		Input:       s.input,
		Score:       s.score,
		Feedback:    s.feedback,
		HintVisible: s.hintVisible,
		Difficulty:  s.difficulty,
		Generation:  s.generation,
	}
	if s.hasPuzzle {
		snap.WordLength = len([]rune(s.puzzle.Word))
		snap.Hint = s.puzzle.Hint
		snap.Category = s.puzzle.Category
	}
	if s.loadErr != nil {
		snap.Error = s.loadErr.Error()
	}
	return snap
}

// Score returns the cumulative score.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}
