package repository

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
)

type memoryGame struct {
	board entity.Board
}

// NewMemoryRepository - keeps the board in process memory for the lifetime of the repository.
func NewMemoryRepository() GameRepository {
	return &memoryGame{
		board: entity.NewBoard(),
	}
}

func (that *memoryGame) SaveMove(_ context.Context, row, col int, mark entity.Mark) error {
	that.board.Cells[row][col] = mark
	return nil
}

func (that *memoryGame) GetBoard(_ context.Context) (entity.Board, error) {
	return that.board, nil
}

func (that *memoryGame) ResetBoard(_ context.Context) error {
	that.board = entity.NewBoard()
	return nil
}
