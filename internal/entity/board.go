package entity

import (
	"fmt"
	"io"
	"strings"
)

// BoardSize is the number of rows and columns of the board.
const BoardSize = 3

const rowSeparator = "-----"

var (
	// WinLines holds every row, column and diagonal as (row, col) pairs.
	WinLines = [8][BoardSize][2]int{
		{{0, 0}, {0, 1}, {0, 2}},
		{{1, 0}, {1, 1}, {1, 2}},
		{{2, 0}, {2, 1}, {2, 2}},
		{{0, 0}, {1, 0}, {2, 0}},
		{{0, 1}, {1, 1}, {2, 1}},
		{{0, 2}, {1, 2}, {2, 2}},
		{{0, 0}, {1, 1}, {2, 2}},
		{{0, 2}, {1, 1}, {2, 0}},
	}
)

// Board is a value type: copying it yields an independent snapshot.
type Board struct {
	Cells [BoardSize][BoardSize]Mark `json:"cells"`
}

func NewBoard() Board {
	return Board{}
}

// InBounds - reports whether (row, col) addresses a cell of the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// Cell - returns the mark at (row, col). The caller checks InBounds first.
func (that Board) Cell(row, col int) Mark {
	return that.Cells[row][col]
}

func (that Board) IsEmptyCell(row, col int) bool {
	return that.Cells[row][col] == EmptyCell
}

// IsFull - true when no cell is empty.
func (that Board) IsFull() bool {
	for _, row := range that.Cells {
		for _, cell := range row {
			if cell == EmptyCell {
				return false
			}
		}
	}

	return true
}

// IsWinner - true when any row, column or diagonal is entirely taken by mark.
func (that Board) IsWinner(mark Mark) bool {
	if !mark.IsPlayer() {
		return false
	}

	for _, line := range WinLines {
		a, b, c := line[0], line[1], line[2]
		if that.Cells[a[0]][a[1]] == mark && that.Cells[b[0]][b[1]] == mark && that.Cells[c[0]][c[1]] == mark {
			return true
		}
	}

	return false
}

// Display - writes the grid as rows of "c|c|c" separated by "-----".
func (that Board) Display(w io.Writer) error {
	if _, err := io.WriteString(w, that.String()); err != nil {
		return fmt.Errorf("failed to display board: %w", err)
	}

	return nil
}

func (that Board) String() string {
	var sb strings.Builder

	for i, row := range that.Cells {
		for j, cell := range row {
			if cell == EmptyCell {
				sb.WriteByte(' ')
			} else {
				sb.WriteString(string(cell))
			}

			if j < BoardSize-1 {
				sb.WriteByte('|')
			}
		}
		sb.WriteByte('\n')

		if i < BoardSize-1 {
			sb.WriteString(rowSeparator)
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}
