package scoring

const (
	ResultWin  = "win"
	ResultDraw = "draw"
)

// RoundHistory holds every finished round of a session in play order.
type RoundHistory struct {
	Entries []RoundEntry
}

// RoundEntry represents a single finished round.
type RoundEntry struct {
	Session   string `json:"session"`
	Match     int    `json:"match"`
	Round     int    `json:"round"`
	Result    string `json:"result"`
	Winner    string `json:"winner,omitempty"`
	Moves     int    `json:"moves"`
	Duration  string `json:"duration"`
	Timestamp string `json:"timestamp"`
}

// GetNRoundEntries returns up to n entries, most recent first.
func (rh RoundHistory) GetNRoundEntries(n int) []RoundEntry {
	if n > len(rh.Entries) {
		n = len(rh.Entries)
	}

	out := make([]RoundEntry, 0, n)
	for i := len(rh.Entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, rh.Entries[i])
	}
	return out
}

// Streak returns the player who won the latest rounds of the current match
// and how many in a row. A draw or a new match ends a streak.
func (rh RoundHistory) Streak() (string, int) {
	if len(rh.Entries) == 0 {
		return "", 0
	}

	last := rh.Entries[len(rh.Entries)-1]
	if last.Result != ResultWin {
		return "", 0
	}

	count := 0
	for i := len(rh.Entries) - 1; i >= 0; i-- {
		e := rh.Entries[i]
		if e.Match != last.Match || e.Result != ResultWin || e.Winner != last.Winner {
			break
		}
		count++
	}
	return last.Winner, count
}
