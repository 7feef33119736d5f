// Package rps resolves rock-paper-scissors rounds.
package rps

import (
	"errors"
	"math/rand"
	"strings"
)

var ErrInvalidChoice = errors.New("invalid choice")

type Choice string

const (
	Rock     Choice = "rock"
	Paper    Choice = "paper"
	Scissors Choice = "scissors"
)

// Choices in display order.
var Choices = []Choice{Rock, Paper, Scissors}

type Outcome string

const (
	Tie          Outcome = "tie"
	UserWins     Outcome = "user_wins"
	ComputerWins Outcome = "computer_wins"
)

// Message is the line shown to the player.
func (o Outcome) Message() string {
	switch o {
	case Tie:
		return "It's a tie!"
	case UserWins:
		return "You win!"
	default:
		return "Computer wins!"
	}
}

// beats maps each choice to the one it defeats.
var beats = map[Choice]Choice{
	Rock:     Scissors,
	Scissors: Paper,
	Paper:    Rock,
}

// ParseChoice accepts a choice name in any case.
func ParseChoice(s string) (Choice, error) {
	c := Choice(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := beats[c]; !ok {
		return "", ErrInvalidChoice
	}
	return c, nil
}

// Resolve decides a round from the user's point of view.
func Resolve(user, computer Choice) Outcome {
	switch {
	case user == computer:
		return Tie
	case beats[user] == computer:
		return UserWins
	default:
		return ComputerWins
	}
}

// Round is one played game.
type Round struct {
	User     Choice
	Computer Choice
	Outcome  Outcome
}

// Game draws the computer's choice.
type Game struct {
	pick func(n int) int
}

func NewGame() *Game {
	return &Game{pick: rand.Intn}
}

// WithPicker replaces the uniform random picker, for tests.
func (g *Game) WithPicker(pick func(n int) int) *Game {
	g.pick = pick
	return g
}

// Play resolves user against a uniformly random computer choice.
func (g *Game) Play(user Choice) (Round, error) {
	if _, ok := beats[user]; !ok {
		return Round{}, ErrInvalidChoice
	}
	computer := Choices[g.pick(len(Choices))]
	return Round{User: user, Computer: computer, Outcome: Resolve(user, computer)}, nil
}
