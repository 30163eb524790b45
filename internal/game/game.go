package game

import (
	"context"
	"fmt"
	"go-ttt/internal/apperror"
	"go-ttt/internal/scoring"
	"go-ttt/internal/state"
	"strings"
)

// Engine encapsulates the core game logic, independent of the UI.
//
// Engine is not safe for concurrent use. All calls must come from one
// goroutine, or be serialized by the caller.
type Engine struct {
	State *state.State

	// OnError receives transitions the state machine refused from
	// operations that have no error return.
	OnError func(error)
}

// Snapshot is everything the display layer needs to draw one frame.
type Snapshot struct {
	Phase         string
	Board         state.Board
	Players       [2]state.Player
	Turn          string
	TurnMark      state.Mark
	TimeRemaining int
	TimeLimit     int
	PlayerOneWins int
	PlayerTwoWins int
	Draws         int
	Round         int
	Match         int
	LastOutcome   state.Outcome
}

// NewEngine creates an engine waiting for player names.
func NewEngine(score scoring.Scoring, opts state.Options) *Engine {
	return &Engine{
		State: state.NewState(score, opts),
	}
}

// Subscribe registers fn for every engine event.
func (g *Engine) Subscribe(fn func(state.Event)) {
	g.State.Subscribe(fn)
}

// StartMatch assigns X to name1 and O to name2 and starts the first round.
func (g *Engine) StartMatch(name1, name2 string) error {
	if !g.State.IsAwaitingNames() {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidConfiguration, apperror.ErrMatchStarted)
	}

	name1, name2 = strings.TrimSpace(name1), strings.TrimSpace(name2)
	if name1 == "" || name2 == "" {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidConfiguration, apperror.ErrBlankPlayerName)
	}

	return g.State.FSM.Event(context.Background(), "startMatch", name1, name2)
}

// ApplyMove places the current player's mark at (row, col). A rejected move
// leaves the board, turn and timer untouched.
func (g *Engine) ApplyMove(row, col int) (state.Outcome, error) {
	if !g.State.IsInRound() {
		return state.Outcome{}, fmt.Errorf("%w: %w", apperror.ErrIllegalMove, apperror.ErrNotInRound)
	}

	if !state.InBounds(row, col) {
		return state.Outcome{}, fmt.Errorf("%w: %w (%d, %d)", apperror.ErrIllegalMove, apperror.ErrInvalidCell, row, col)
	}

	if g.State.Board[row][col] != state.Empty {
		return state.Outcome{}, fmt.Errorf("%w: %w (%d, %d)", apperror.ErrIllegalMove, apperror.ErrCellOccupied, row, col)
	}

	if err := g.State.FSM.Event(context.Background(), "move", row, col); err != nil {
		return state.Outcome{}, fmt.Errorf("move rejected: %w", err)
	}

	return g.State.LastOutcome, nil
}

// Tick counts down one second of the current turn. Outside a round it does
// nothing and reports Continue.
func (g *Engine) Tick() state.Outcome {
	if !g.State.IsInRound() {
		return state.Outcome{Kind: state.Continue}
	}

	g.fire("tick")
	if out := g.State.LastOutcome; out.Kind == state.TimeExpired {
		return out
	}
	return state.Outcome{Kind: state.Continue}
}

// ResetBoard clears the board and restarts the countdown for the other
// player. Scores are kept.
func (g *Engine) ResetBoard() error {
	if !g.State.IsInRound() {
		return fmt.Errorf("%w: %w", apperror.ErrIllegalMove, apperror.ErrNotInRound)
	}

	return g.State.FSM.Event(context.Background(), "clearBoard")
}

// ResetMatch zeroes the scores and starts over with player one.
func (g *Engine) ResetMatch() {
	if g.State.IsAwaitingNames() {
		// Nothing has been played yet: the counters are already zero.
		g.State.Current = 0
		g.State.LastOutcome = state.Outcome{Kind: state.Continue}
		g.State.ClearBoard()
		return
	}

	g.fire("resetMatch")
}

func (g *Engine) fire(event string) {
	err := g.State.FSM.Event(context.Background(), event)
	if err != nil && g.OnError != nil {
		g.OnError(fmt.Errorf("%s: %w", event, err))
	}
}

// Snapshot returns a copy of the current state.
func (g *Engine) Snapshot() Snapshot {
	s := g.State
	snap := Snapshot{
		Phase:         s.FSM.Current(),
		Board:         s.Board,
		Players:       s.Players,
		TimeRemaining: s.TimeRemaining,
		TimeLimit:     s.TimeLimit,
		PlayerOneWins: s.Score.PlayerOneWins,
		PlayerTwoWins: s.Score.PlayerTwoWins,
		Draws:         s.Score.Draws,
		Round:         s.Round,
		Match:         s.Score.Match,
		LastOutcome:   s.LastOutcome,
	}

	if !s.IsAwaitingNames() {
		current := s.CurrentPlayer()
		snap.Turn = current.Name
		snap.TurnMark = current.Mark
	}

	return snap
}
