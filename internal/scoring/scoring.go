package scoring

import (
	"fmt"
	"time"
)

// Scoring keeps the match counters and the log of finished rounds.
type Scoring struct {
	// public
	PlayerOneWins int
	PlayerTwoWins int
	Draws         int
	Match         int
	// private
	storage   ReportStorage // nil disables the report
	history   RoundHistory
	sessionID string
}

// InitScoring creates a Scoring for one session. The report is written
// through storage by SaveEntries; pass nil to keep everything in memory.
func InitScoring(sessionID string, storage ReportStorage) *Scoring {
	return &Scoring{
		Match:     1,
		storage:   storage,
		sessionID: sessionID,
	}
}

// ScoreEvent updates the counters for a finished round.
func (s *Scoring) ScoreEvent(event string) {
	switch event {
	case "playerOneWin":
		s.PlayerOneWins++
	case "playerTwoWin":
		s.PlayerTwoWins++
	case "draw":
		s.Draws++
	}
}

// Reset zeroes the counters and starts a new match. The round history is
// kept; later entries carry the new match number.
func (s *Scoring) Reset() {
	s.PlayerOneWins = 0
	s.PlayerTwoWins = 0
	s.Draws = 0
	s.Match++
}

// RecordRound stamps entry with the session, match and time and appends it.
func (s *Scoring) RecordRound(entry RoundEntry) {
	entry.Session = s.sessionID
	entry.Match = s.Match
	entry.Timestamp = time.Now().Format(time.RFC3339)
	s.history.Entries = append(s.history.Entries, entry)
}

// SaveEntries writes every recorded round through the storage.
func (s *Scoring) SaveEntries() error {
	if s.storage == nil {
		return nil
	}

	if err := s.storage.SaveAll(s.history.Entries); err != nil {
		return fmt.Errorf("could not save match report: %w", err)
	}

	return nil
}

func (s *Scoring) RoundsPlayed() int {
	return len(s.history.Entries)
}

func (s *Scoring) GetNRoundEntries(n int) []RoundEntry {
	return s.history.GetNRoundEntries(n)
}

func (s *Scoring) Streak() (string, int) {
	return s.history.Streak()
}
