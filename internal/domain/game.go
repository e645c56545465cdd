package domain

import (
	"errors"
	"fmt"
)

// ErrStepOutOfRange is returned by JumpTo for a step that is not in history.
var ErrStepOutOfRange = errors.New("step out of range")

// Step is one history entry: a board snapshot and whether X moves next.
type Step struct {
	Squares Board
	XIsNext bool
}

// Next returns the mark due to move after this step.
func (s Step) Next() Cell {
	if s.XIsNext {
		return X
	}
	return O
}

// Status describes the current step for display.
type Status struct {
	Winner Cell
	Next   Cell
}

func (s Status) String() string {
	if s.Winner != Empty {
		return "Winner: " + s.Winner.String()
	}
	return "Next player: " + s.Next.String()
}

// Move is one entry of the history list offered to the player.
type Move struct {
	Step    int
	Label   string
	Current bool
}

// Game is a single-player session: the ordered history of snapshots and the
// step currently shown. It is not safe for concurrent use.
type Game struct {
	history    []Step
	stepNumber int
}

// New returns a game with an empty board and X to move.
func New() *Game {
	return &Game{history: []Step{{XIsNext: true}}}
}

// Current returns the step the step pointer refers to.
func (g *Game) Current() Step {
	return g.history[g.stepNumber]
}

// StepNumber returns the index of the current step.
func (g *Game) StepNumber() int {
	return g.stepNumber
}

// Len returns the number of steps in history.
func (g *Game) Len() int {
	return len(g.history)
}

// History returns a copy of all steps.
func (g *Game) History() []Step {
	return append([]Step(nil), g.history...)
}

// Status is derived from the current step on every call.
func (g *Game) Status() Status {
	cur := g.Current()
	return Status{Winner: Winner(cur.Squares), Next: cur.Next()}
}

// Play marks cell i for the player to move and makes the result the latest
// step. Steps after the current one are discarded first. A move on a won board
// or a taken cell leaves the game unchanged and returns false.
func (g *Game) Play(i int) bool {
	cur := g.Current()
	if Winner(cur.Squares) != Empty {
		return false
	}
	if !ValidIndex(i) || cur.Squares[i] != Empty {
		return false
	}

	next := Step{
		Squares: cur.Squares.With(i, cur.Next()),
		XIsNext: !cur.XIsNext,
	}
	g.history = append(g.history[:g.stepNumber+1], next)
	g.stepNumber = len(g.history) - 1
	return true
}

// JumpTo moves the step pointer. History is kept until the next Play.
func (g *Game) JumpTo(step int) error {
	if step < 0 || step >= len(g.history) {
		return fmt.Errorf("%w: %d (have %d)", ErrStepOutOfRange, step, len(g.history))
	}
	g.stepNumber = step
	return nil
}

// Moves lists every step that can be jumped to.
func (g *Game) Moves() []Move {
	out := make([]Move, len(g.history))
	for i := range g.history {
		label := "Go to game start"
		if i > 0 {
			label = fmt.Sprintf("Go to move #%d", i)
		}
		out[i] = Move{Step: i, Label: label, Current: i == g.stepNumber}
	}
	return out
}

// Clone returns a deep copy of g.
func (g *Game) Clone() *Game {
	return &Game{history: g.History(), stepNumber: g.stepNumber}
}
