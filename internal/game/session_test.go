package game

import (
	"go-ttt/internal/apperror"
	"go-ttt/internal/scoring"
	"go-ttt/internal/state"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockStorage implements scoring.ReportStorage for testing
type MockStorage struct {
	Entries    []scoring.RoundEntry
	SaveCalled bool
}

func (m *MockStorage) SaveAll(entries []scoring.RoundEntry) error {
	m.Entries = entries
	m.SaveCalled = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewSession(t *testing.T) {
	sess := NewSession(state.Options{}, nil, discardLogger())

	_, err := uuid.Parse(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, state.StateAwaitingNames, sess.Snapshot().Phase)
}

func TestSession_Run(t *testing.T) {
	// Given: a script with a win, a rejected move and a timeout
	script := `
start Alice Bob
0,0
1,0
0,1
1,1
0,2
# Bob opens round two
move 2 2
move 2 2
tick 30
`
	cmds, err := ParseScript(strings.NewReader(script), "inline")
	require.NoError(t, err)

	store := &MockStorage{}
	sess := NewSession(state.Options{}, store, discardLogger())

	// When: the script is played
	results := sess.Run(cmds)

	// Then: every command has a result
	require.Len(t, results, len(cmds))

	assert.NoError(t, results[0].Err)
	assert.Equal(t, []state.Outcome{{Kind: state.Won, Player: "Alice"}}, results[5].Outcomes)

	assert.NoError(t, results[6].Err)
	assert.ErrorIs(t, results[7].Err, apperror.ErrCellOccupied)

	assert.Equal(t, []state.Outcome{{Kind: state.TimeExpired, Player: "Alice"}}, results[8].Outcomes)

	snap := sess.Snapshot()
	assert.Equal(t, 1, snap.PlayerOneWins)
	assert.Equal(t, "Bob", snap.Turn)

	// And: the report holds the finished round
	require.NoError(t, sess.Finish())
	assert.True(t, store.SaveCalled)
	require.Len(t, store.Entries, 1)
	assert.Equal(t, sess.ID, store.Entries[0].Session)
	assert.Equal(t, scoring.ResultWin, store.Entries[0].Result)
	assert.Equal(t, "Alice", store.Entries[0].Winner)
	assert.Equal(t, 5, store.Entries[0].Moves)
}

func TestSession_TicksAfterWinReportNothing(t *testing.T) {
	cmds, err := ParseScript(strings.NewReader(`
start Alice Bob
0,0
1,0
0,1
1,1
0,2
tick
tick 5
reset
tick 3
`), "inline")
	require.NoError(t, err)

	sess := NewSession(state.Options{}, nil, discardLogger())
	results := sess.Run(cmds)

	require.Len(t, results, len(cmds))
	assert.Equal(t, state.Won, results[5].Outcomes[0].Kind)
	for _, res := range results[6:] {
		assert.NoError(t, res.Err, res.Command.String())
		assert.Empty(t, res.Outcomes, res.Command.String())
	}
}

func TestSession_RunBeforeStart(t *testing.T) {
	sess := NewSession(state.Options{}, nil, discardLogger())

	results := sess.Run([]Command{
		{Kind: CmdMove, Row: 0, Col: 0},
		{Kind: CmdResetBoard},
		{Kind: CmdTick, Count: 5},
	})

	assert.ErrorIs(t, results[0].Err, apperror.ErrNotInRound)
	assert.ErrorIs(t, results[1].Err, apperror.ErrIllegalMove)
	assert.NoError(t, results[2].Err)
	assert.Empty(t, results[2].Outcomes)
}

func TestSession_StartRejected(t *testing.T) {
	sess := NewSession(state.Options{}, nil, discardLogger())

	err := sess.Start("Alice", " ")

	assert.ErrorIs(t, err, apperror.ErrInvalidConfiguration)
}

func TestSession_ResetMatchKeepsHistory(t *testing.T) {
	store := &MockStorage{}
	sess := NewSession(state.Options{}, store, discardLogger())
	require.NoError(t, sess.Start("Alice", "Bob"))

	for _, m := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}} {
		_, err := sess.Move(m[0], m[1])
		require.NoError(t, err)
	}
	sess.ResetMatch()

	assert.Equal(t, 0, sess.Snapshot().PlayerOneWins)
	history := sess.History(5)
	require.Len(t, history, 1)
	assert.Equal(t, 1, history[0].Match)

	require.NoError(t, sess.Finish())
	assert.Len(t, store.Entries, 1)
}
