package tictactoe

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
)

type gameService interface {
	MakeMove(ctx context.Context, row, col int, mark entity.Mark) error
	CheckWinner(ctx context.Context, mark entity.Mark) (bool, error)
	IsBoardFull(ctx context.Context) (bool, error)
	ResetGame(ctx context.Context) error
	GetBoard(ctx context.Context) (entity.Board, error)
}

// GameController is the seam between the console and the game service. It adds
// no behavior of its own.
type GameController struct {
	service gameService
}

func NewGameController(service gameService) *GameController {
	return &GameController{
		service: service,
	}
}

func (that *GameController) MakeMove(ctx context.Context, row, col int, mark entity.Mark) error {
	return that.service.MakeMove(ctx, row, col, mark)
}

func (that *GameController) CheckWinner(ctx context.Context, mark entity.Mark) (bool, error) {
	return that.service.CheckWinner(ctx, mark)
}

func (that *GameController) IsBoardFull(ctx context.Context) (bool, error) {
	return that.service.IsBoardFull(ctx)
}

func (that *GameController) ResetGame(ctx context.Context) error {
	return that.service.ResetGame(ctx)
}

func (that *GameController) GetBoard(ctx context.Context) (entity.Board, error) {
	return that.service.GetBoard(ctx)
}
