// Package guess implements the word-guessing minigame. The engine is pure;
// callers persist State between rounds (the web layer keeps it in the session).
package guess

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

var (
	ErrNotStarted = errors.New("game not started")
	ErrGameOver   = errors.New("game is over")
)

type Status string

const (
	NotStarted Status = "not_started"
	InProgress Status = "in_progress"
	Won        Status = "won"
	Lost       Status = "lost"
)

// Terminal reports whether no more guesses are accepted.
func (s Status) Terminal() bool {
	return s == Won || s == Lost
}

const (
	WonMessage       = "Congratulations! You guessed the word."
	IncorrectMessage = "Incorrect guess. Try again."
	lostMessageFmt   = "Sorry, you have used all your attempts. The word was %q."
)

// State is the per-visitor game record. The zero value is NotStarted.
type State struct {
	Word        string
	Attempts    []string
	MaxAttempts int
}

// Status derives the game state from the recorded attempts.
func (s *State) Status() Status {
	if s == nil || s.Word == "" {
		return NotStarted
	}
	for _, a := range s.Attempts {
		if a == s.Word {
			return Won
		}
	}
	if len(s.Attempts) >= s.MaxAttempts {
		return Lost
	}
	return InProgress
}

// AttemptsLeft never goes below zero.
func (s *State) AttemptsLeft() int {
	if s == nil {
		return 0
	}
	return max(s.MaxAttempts-len(s.Attempts), 0)
}

// Reset returns the state to NotStarted.
func (s *State) Reset() {
	s.Word = ""
	s.Attempts = nil
	s.MaxAttempts = 0
}

// Result is the outcome of one guess.
type Result struct {
	Status   Status
	Feedback []LetterFeedback
	Message  string
}

// Engine picks target words and scores guesses.
type Engine struct {
	words       []string
	maxAttempts int
	pick        func(n int) int
}

func NewEngine(words []string, maxAttempts int) *Engine {
	lowered := make([]string, len(words))
	for i, w := range words {
		lowered[i] = strings.ToLower(w)
	}
	return &Engine{words: lowered, maxAttempts: maxAttempts, pick: rand.Intn}
}

// WithPicker replaces the uniform random word picker, for tests.
func (e *Engine) WithPicker(pick func(n int) int) *Engine {
	e.pick = pick
	return e
}

// Start begins a new game with a uniformly chosen word.
func (e *Engine) Start() *State {
	return &State{
		Word:        e.words[e.pick(len(e.words))],
		Attempts:    []string{},
		MaxAttempts: e.maxAttempts,
	}
}

// Guess records a lower-cased guess and returns the resulting transition.
// Guesses are not validated for length or alphabet.
func (e *Engine) Guess(state *State, guess string) (Result, error) {
	switch state.Status() {
	case NotStarted:
		return Result{}, ErrNotStarted
	case Won, Lost:
		return Result{}, ErrGameOver
	}

	guess = strings.ToLower(guess)
	state.Attempts = append(state.Attempts, guess)

	switch state.Status() {
	case Won:
		return Result{Status: Won, Message: WonMessage}, nil
	case Lost:
		return Result{Status: Lost, Message: LostMessage(state.Word)}, nil
	}
	return Result{
		Status:   InProgress,
		Feedback: Feedback(guess, state.Word),
		Message:  IncorrectMessage,
	}, nil
}

// LostMessage reveals the target word.
func LostMessage(word string) string {
	return fmt.Sprintf(lostMessageFmt, word)
}

// EndMessage is the summary text for a finished game.
func EndMessage(state *State) string {
	switch state.Status() {
	case Won:
		return WonMessage
	case Lost:
		return LostMessage(state.Word)
	}
	return ""
}
