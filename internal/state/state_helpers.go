package state

import "time"

// winLines lists the eight rows, columns and diagonals as (row, col) triples.
var winLines = [8][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Winner returns the mark holding the first complete line, or Empty.
func (b Board) Winner() Mark {
	for _, line := range winLines {
		a := b[line[0][0]][line[0][1]]
		if a != Empty && a == b[line[1][0]][line[1][1]] && a == b[line[2][0]][line[2][1]] {
			return a
		}
	}
	return Empty
}

func (b Board) IsFull() bool {
	for _, row := range b {
		for _, cell := range row {
			if cell == Empty {
				return false
			}
		}
	}
	return true
}

func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

func (s *State) CurrentPlayer() Player {
	return s.Players[s.Current]
}

func (s *State) IsInRound() bool {
	return s.FSM.Current() == StateInRound
}

func (s *State) IsAwaitingNames() bool {
	return s.FSM.Current() == StateAwaitingNames
}

// SwitchTurn hands the turn to the other player with a fresh countdown.
func (s *State) SwitchTurn() {
	s.Current = 1 - s.Current
	s.TimeRemaining = s.TimeLimit
}

// ClearBoard empties every cell and restarts the countdown for a new round.
func (s *State) ClearBoard() {
	s.Board = Board{}
	s.Moves = 0
	s.TimeRemaining = s.TimeLimit
	s.RoundStarted = time.Now()
}
