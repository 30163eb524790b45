package game

import (
	"fmt"
	"go-ttt/internal/scoring"
	"go-ttt/internal/state"
	"log/slog"

	"github.com/google/uuid"
)

// Session is one run of the program: an engine, its logger and the
// optional round report.
type Session struct {
	ID     string
	Engine *Engine
	log    *slog.Logger
}

// Result is what one script command did. Outcomes lists the notable
// outcomes only; it is empty when play simply continued.
type Result struct {
	Command  Command
	Outcomes []state.Outcome
	Err      error
}

func NewSession(opts state.Options, storage scoring.ReportStorage, logger *slog.Logger) *Session {
	id := uuid.NewString()
	sc := scoring.InitScoring(id, storage)

	s := &Session{
		ID:     id,
		Engine: NewEngine(*sc, opts),
		log:    logger.With("component", "session", "session", id),
	}
	s.Engine.Subscribe(s.logEvent)
	s.Engine.OnError = func(err error) {
		s.log.Error("state transition failed", "error", err)
	}

	return s
}

func (s *Session) logEvent(ev state.Event) {
	attrs := []any{"event", ev.Kind.String(), "round", ev.Round}
	switch ev.Kind {
	case state.RoundEnded, state.TimeUp:
		attrs = append(attrs, "outcome", ev.Outcome.String())
	default:
		attrs = append(attrs, "turn", ev.Player)
	}
	s.log.Debug("engine event", attrs...)

	if ev.Kind == state.RoundEnded {
		snap := s.Engine.Snapshot()
		s.log.Info("round finished",
			"round", ev.Round,
			"outcome", ev.Outcome.String(),
			"player_one_wins", snap.PlayerOneWins,
			"player_two_wins", snap.PlayerTwoWins,
			"draws", snap.Draws,
		)
	}
}

func (s *Session) Start(name1, name2 string) error {
	if err := s.Engine.StartMatch(name1, name2); err != nil {
		s.log.Warn("could not start match", "error", err)
		return err
	}

	s.log.Info("match started", "player_one", name1, "player_two", name2, "turn_seconds", s.Engine.State.TimeLimit)
	return nil
}

func (s *Session) Move(row, col int) (state.Outcome, error) {
	out, err := s.Engine.ApplyMove(row, col)
	if err != nil {
		s.log.Warn("move rejected", "row", row, "col", col, "error", err)
		return out, err
	}

	return out, nil
}

func (s *Session) Tick() state.Outcome {
	return s.Engine.Tick()
}

func (s *Session) ResetBoard() error {
	if err := s.Engine.ResetBoard(); err != nil {
		s.log.Warn("board reset rejected", "error", err)
		return err
	}

	return nil
}

func (s *Session) ResetMatch() {
	s.Engine.ResetMatch()
	s.log.Info("match reset", "match", s.Engine.State.Score.Match)
}

func (s *Session) Snapshot() Snapshot {
	return s.Engine.Snapshot()
}

func (s *Session) History(n int) []scoring.RoundEntry {
	return s.Engine.State.Score.GetNRoundEntries(n)
}

// Run plays a script. Rejected commands are recorded in their Result and
// do not stop the run.
func (s *Session) Run(cmds []Command) []Result {
	results := make([]Result, 0, len(cmds))

	for _, cmd := range cmds {
		res := Result{Command: cmd}

		switch cmd.Kind {
		case CmdStart:
			res.Err = s.Start(cmd.Names[0], cmd.Names[1])
		case CmdMove:
			out, err := s.Move(cmd.Row, cmd.Col)
			res.Err = err
			if err == nil && out.Kind != state.Continue {
				res.Outcomes = append(res.Outcomes, out)
			}
		case CmdTick:
			for i := 0; i < cmd.Count; i++ {
				if out := s.Tick(); out.Kind != state.Continue {
					res.Outcomes = append(res.Outcomes, out)
				}
			}
		case CmdResetBoard:
			res.Err = s.ResetBoard()
		case CmdResetMatch:
			s.ResetMatch()
		default:
			res.Err = fmt.Errorf("unknown command kind %d", cmd.Kind)
		}

		results = append(results, res)
	}

	return results
}

// Finish writes the round report, if one was configured.
func (s *Session) Finish() error {
	if err := s.Engine.State.Score.SaveEntries(); err != nil {
		s.log.Error("could not write report", "error", err)
		return err
	}

	s.log.Info("session finished", "rounds", s.Engine.State.Score.RoundsPlayed())
	return nil
}
