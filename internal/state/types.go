package state

import "fmt"

// Mark is the symbol a player places on a cell.
type Mark int

const (
	Empty Mark = iota
	X
	O
)

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return " "
	}
}

const BoardSize = 3

// Board is the 3x3 grid, indexed [row][col].
type Board [BoardSize][BoardSize]Mark

type Player struct {
	Name string
	Mark Mark
}

type OutcomeKind int

const (
	Continue OutcomeKind = iota
	Won
	Draw
	TimeExpired
)

// Outcome classifies the result of a move or a tick. Player is set for Won
// and TimeExpired.
type Outcome struct {
	Kind   OutcomeKind
	Player string
}

func (o Outcome) String() string {
	switch o.Kind {
	case Won:
		return fmt.Sprintf("%s wins!", o.Player)
	case Draw:
		return "It's a draw!"
	case TimeExpired:
		return fmt.Sprintf("%s's time is up! Switching turn.", o.Player)
	default:
		return "continue"
	}
}

// IsRoundEnd reports whether the outcome finished a round.
func (o Outcome) IsRoundEnd() bool {
	return o.Kind == Won || o.Kind == Draw
}

type EventKind int

const (
	TurnSwitched EventKind = iota
	TimeUp
	RoundEnded
	BoardCleared
	MatchReset
)

func (k EventKind) String() string {
	switch k {
	case TurnSwitched:
		return "turnSwitched"
	case TimeUp:
		return "timeUp"
	case RoundEnded:
		return "roundEnded"
	case BoardCleared:
		return "boardCleared"
	case MatchReset:
		return "matchReset"
	default:
		return "unknown"
	}
}

// Event is emitted to subscribers as the state machine moves. Outcome is set
// for RoundEnded and TimeUp; Player names the turn holder afterwards for the
// other kinds.
type Event struct {
	Kind    EventKind
	Outcome Outcome
	Player  string
	Round   int
}
