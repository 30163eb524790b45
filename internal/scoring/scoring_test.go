package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockReportStorage keeps the saved report in memory.
type MockReportStorage struct {
	Entries   []RoundEntry
	SaveCalls int
	err       error // To simulate errors from the storage layer.
}

func (m *MockReportStorage) SaveAll(entries []RoundEntry) error {
	if m.err != nil {
		return m.err
	}
	m.Entries = entries
	m.SaveCalls++
	return nil
}

func TestInitScoring(t *testing.T) {
	sc := InitScoring("session-1", nil)

	assert.Equal(t, 0, sc.PlayerOneWins)
	assert.Equal(t, 0, sc.PlayerTwoWins)
	assert.Equal(t, 0, sc.Draws)
	assert.Equal(t, 1, sc.Match)
	assert.Equal(t, 0, sc.RoundsPlayed())
}

func TestScoreEvent(t *testing.T) {
	tests := []struct {
		event           string
		one, two, draws int
	}{
		{"playerOneWin", 1, 0, 0},
		{"playerTwoWin", 0, 1, 0},
		{"draw", 0, 0, 1},
		{"unknown", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			sc := InitScoring("s", nil)

			sc.ScoreEvent(tt.event)

			assert.Equal(t, tt.one, sc.PlayerOneWins)
			assert.Equal(t, tt.two, sc.PlayerTwoWins)
			assert.Equal(t, tt.draws, sc.Draws)
		})
	}
}

func TestReset(t *testing.T) {
	// Given: a match with some results
	sc := InitScoring("s", nil)
	sc.ScoreEvent("playerOneWin")
	sc.ScoreEvent("playerTwoWin")
	sc.ScoreEvent("draw")
	sc.RecordRound(RoundEntry{Round: 1, Result: ResultDraw})

	// When: the match is reset
	sc.Reset()

	// Then: counters are zero, the history survives under the old match number
	assert.Equal(t, 0, sc.PlayerOneWins)
	assert.Equal(t, 0, sc.PlayerTwoWins)
	assert.Equal(t, 0, sc.Draws)
	assert.Equal(t, 2, sc.Match)
	require.Equal(t, 1, sc.RoundsPlayed())
	assert.Equal(t, 1, sc.GetNRoundEntries(1)[0].Match)
}

func TestRecordRound_Stamps(t *testing.T) {
	sc := InitScoring("abc", nil)

	sc.RecordRound(RoundEntry{Round: 3, Result: ResultWin, Winner: "Alice", Moves: 5})

	entries := sc.GetNRoundEntries(1)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0].Session)
	assert.Equal(t, 1, entries[0].Match)
	assert.Equal(t, 3, entries[0].Round)
	assert.NotEmpty(t, entries[0].Timestamp)
}

func TestSaveEntries(t *testing.T) {
	t.Run("writes every round through the storage", func(t *testing.T) {
		store := &MockReportStorage{}
		sc := InitScoring("s", store)
		sc.RecordRound(RoundEntry{Round: 1, Result: ResultWin, Winner: "Alice"})
		sc.RecordRound(RoundEntry{Round: 2, Result: ResultDraw})

		require.NoError(t, sc.SaveEntries())

		assert.Equal(t, 1, store.SaveCalls)
		require.Len(t, store.Entries, 2)
		assert.Equal(t, "Alice", store.Entries[0].Winner)
		assert.Equal(t, ResultDraw, store.Entries[1].Result)
	})

	t.Run("nil storage is a no-op", func(t *testing.T) {
		sc := InitScoring("s", nil)
		sc.RecordRound(RoundEntry{Round: 1, Result: ResultDraw})

		assert.NoError(t, sc.SaveEntries())
	})

	t.Run("storage errors are wrapped", func(t *testing.T) {
		boom := errors.New("disk full")
		sc := InitScoring("s", &MockReportStorage{err: boom})

		err := sc.SaveEntries()

		assert.ErrorIs(t, err, boom)
	})
}

func TestGetNRoundEntries_MostRecentFirst(t *testing.T) {
	sc := InitScoring("s", nil)
	for i := 1; i <= 4; i++ {
		sc.RecordRound(RoundEntry{Round: i, Result: ResultDraw})
	}

	entries := sc.GetNRoundEntries(3)

	require.Len(t, entries, 3)
	assert.Equal(t, 4, entries[0].Round)
	assert.Equal(t, 3, entries[1].Round)
	assert.Equal(t, 2, entries[2].Round)
	assert.Len(t, sc.GetNRoundEntries(10), 4)
}

func TestStreak(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		name, n := RoundHistory{}.Streak()
		assert.Equal(t, "", name)
		assert.Equal(t, 0, n)
	})

	t.Run("consecutive wins by the same player", func(t *testing.T) {
		h := RoundHistory{Entries: []RoundEntry{
			{Match: 1, Result: ResultWin, Winner: "Bob"},
			{Match: 1, Result: ResultWin, Winner: "Alice"},
			{Match: 1, Result: ResultWin, Winner: "Alice"},
		}}

		name, n := h.Streak()

		assert.Equal(t, "Alice", name)
		assert.Equal(t, 2, n)
	})

	t.Run("a draw ends the streak", func(t *testing.T) {
		h := RoundHistory{Entries: []RoundEntry{
			{Match: 1, Result: ResultWin, Winner: "Alice"},
			{Match: 1, Result: ResultDraw},
		}}

		_, n := h.Streak()

		assert.Equal(t, 0, n)
	})

	t.Run("a new match ends the streak", func(t *testing.T) {
		h := RoundHistory{Entries: []RoundEntry{
			{Match: 1, Result: ResultWin, Winner: "Alice"},
			{Match: 2, Result: ResultWin, Winner: "Alice"},
		}}

		name, n := h.Streak()

		assert.Equal(t, "Alice", name)
		assert.Equal(t, 1, n)
	})
}
