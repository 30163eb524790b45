package state

import (
	"context"
	"go-ttt/internal/scoring"
	"time"

	"github.com/looplab/fsm"
)

// FSM states. Only AwaitingNames and InRound are observable between calls;
// the others are passed through inside a single event.
const (
	StateAwaitingNames = "awaitingNames"
	StateInRound       = "inRound"
	StateEvaluating    = "evaluating"
	StateTimeCheck     = "timeCheck"
	StateRoundOver     = "roundOver"
	StateClearing      = "clearing"
)

// DefaultTurnSeconds is the countdown each player gets per turn.
const DefaultTurnSeconds = 30

type Options struct {
	TurnSeconds int // 0 means DefaultTurnSeconds
}

type State struct {
	Board         Board
	Players       [2]Player
	Current       int // index into Players of the turn holder
	TimeLimit     int
	TimeRemaining int
	Round         int
	Moves         int
	RoundStarted  time.Time
	LastOutcome   Outcome
	Score         scoring.Scoring
	FSM           *fsm.FSM

	listeners []func(Event)
}

func NewState(score scoring.Scoring, opts Options) *State {
	limit := opts.TurnSeconds
	if limit <= 0 {
		limit = DefaultTurnSeconds
	}

	s := &State{
		Score:         score,
		TimeLimit:     limit,
		TimeRemaining: limit,
	}

	s.FSM = fsm.NewFSM(
		StateAwaitingNames,
		getStateTransitions(),
		getStateCallbacks(s),
	)

	return s
}

// Subscribe registers fn to receive every event the state machine emits.
func (s *State) Subscribe(fn func(Event)) {
	s.listeners = append(s.listeners, fn)
}

func (s *State) notify(ev Event) {
	ev.Round = s.Round
	for _, fn := range s.listeners {
		fn(ev)
	}
}

func getStateTransitions() []fsm.EventDesc {
	return fsm.Events{
		{Name: "startMatch", Src: []string{StateAwaitingNames}, Dst: StateInRound},

		// Moves
		{Name: "move", Src: []string{StateInRound}, Dst: StateEvaluating},
		{Name: "nextTurn", Src: []string{StateEvaluating}, Dst: StateInRound},
		{Name: "roundEnd", Src: []string{StateEvaluating}, Dst: StateRoundOver},

		// Clearing the board
		{Name: "clearBoard", Src: []string{StateRoundOver, StateInRound}, Dst: StateClearing},
		{Name: "resetMatch", Src: []string{StateRoundOver, StateInRound}, Dst: StateClearing},
		{Name: "cleared", Src: []string{StateClearing}, Dst: StateInRound},

		// Countdown
		{Name: "tick", Src: []string{StateInRound}, Dst: StateTimeCheck},
		{Name: "timePassed", Src: []string{StateTimeCheck}, Dst: StateInRound},
		{Name: "timeExpired", Src: []string{StateTimeCheck}, Dst: StateInRound},
	}
}

func getStateCallbacks(s *State) map[string]fsm.Callback {
	return fsm.Callbacks{
		"after_startMatch": func(ctx context.Context, e *fsm.Event) {
			s.Players[0] = Player{Name: e.Args[0].(string), Mark: X}
			s.Players[1] = Player{Name: e.Args[1].(string), Mark: O}
			s.Current = 0
			s.Round = 1
			s.ClearBoard()
		},
		"enter_evaluating": func(ctx context.Context, e *fsm.Event) {
			row, col := e.Args[0].(int), e.Args[1].(int)
			mover := s.CurrentPlayer()
			s.Board[row][col] = mover.Mark
			s.Moves++

			if s.Board.Winner() != Empty {
				s.LastOutcome = Outcome{Kind: Won, Player: mover.Name}
				e.FSM.Event(ctx, "roundEnd")
				return
			}

			if s.Board.IsFull() {
				s.LastOutcome = Outcome{Kind: Draw}
				e.FSM.Event(ctx, "roundEnd")
				return
			}

			s.LastOutcome = Outcome{Kind: Continue}
			e.FSM.Event(ctx, "nextTurn")
		},
		"after_nextTurn": func(ctx context.Context, e *fsm.Event) {
			s.SwitchTurn()
			s.notify(Event{Kind: TurnSwitched, Player: s.CurrentPlayer().Name})
		},
		"enter_roundOver": func(ctx context.Context, e *fsm.Event) {
			entry := scoring.RoundEntry{
				Round: s.Round,
				Moves: s.Moves,
			}

			if s.LastOutcome.Kind == Won {
				if s.Current == 0 {
					s.Score.ScoreEvent("playerOneWin")
				} else {
					s.Score.ScoreEvent("playerTwoWin")
				}
				entry.Result = scoring.ResultWin
				entry.Winner = s.LastOutcome.Player
			} else {
				s.Score.ScoreEvent("draw")
				entry.Result = scoring.ResultDraw
			}
			entry.Duration = time.Since(s.RoundStarted).Round(time.Second).String()
			s.Score.RecordRound(entry)

			s.notify(Event{Kind: RoundEnded, Outcome: s.LastOutcome})
			e.FSM.Event(ctx, "clearBoard")
		},
		"enter_clearing": func(ctx context.Context, e *fsm.Event) {
			// A finished round keeps its result on display; a manual reset drops it.
			if e.Src == StateInRound {
				s.LastOutcome = Outcome{Kind: Continue}
			}

			if e.Event == "resetMatch" {
				s.Score.Reset()
				s.Current = 0
				s.Round = 1
				s.ClearBoard()
				s.notify(Event{Kind: MatchReset, Player: s.CurrentPlayer().Name})
			} else {
				s.Round++
				s.ClearBoard()
				s.SwitchTurn()
			}

			s.notify(Event{Kind: BoardCleared, Player: s.CurrentPlayer().Name})
			e.FSM.Event(ctx, "cleared")
		},
		"enter_timeCheck": func(ctx context.Context, e *fsm.Event) {
			s.TimeRemaining--
			if s.TimeRemaining <= 0 {
				s.LastOutcome = Outcome{Kind: TimeExpired, Player: s.CurrentPlayer().Name}
				e.FSM.Event(ctx, "timeExpired")
				return
			}
			s.LastOutcome = Outcome{Kind: Continue}
			e.FSM.Event(ctx, "timePassed")
		},
		"after_timeExpired": func(ctx context.Context, e *fsm.Event) {
			s.notify(Event{Kind: TimeUp, Outcome: s.LastOutcome})
			s.SwitchTurn()
			s.notify(Event{Kind: TurnSwitched, Player: s.CurrentPlayer().Name})
		},
	}
}
