package tictactoe

import (
	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
)

// WinLines are the eight cell triples that decide a lap: three rows, three
// columns and both diagonals, addressed as row*BoardSize+column.
var WinLines = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Outcome is the verdict over one lap's moves.
type Outcome struct {
	WinnerID string
	IsDraw   bool
}

// Evaluate inspects the moves of a single lap and reports the owner of the
// first satisfied line, or a draw when all nine cells are taken without one.
// Icons are unique per player within a room, so a line of one player's moves
// is a line of one icon. The function is pure; callers decide what a winner
// or draw means for the match.
func Evaluate(moves []entity.Move) Outcome {
	var board [entity.BoardSize * entity.BoardSize]string

	occupied := 0
	for _, move := range moves {
		cell := move.Row*entity.BoardSize + move.Column
		if cell < 0 || cell >= len(board) {
			continue
		}
		if board[cell] == "" {
			occupied++
		}
		board[cell] = move.PlayerID
	}

	for _, line := range WinLines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != "" && a == b && b == c {
			return Outcome{WinnerID: a}
		}
	}

	if occupied == len(board) {
		return Outcome{IsDraw: true}
	}

	return Outcome{}
}

// CellOccupied reports whether any of the given moves already claims the
// cell at row, column.
func CellOccupied(moves []entity.Move, row, column int) bool {
	for _, move := range moves {
		if move.Row == row && move.Column == column {
			return true
		}
	}

	return false
}
