package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-console/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
)

// GameService is the single place where moves are checked against the rules.
type GameService interface {
	MakeMove(ctx context.Context, row, col int, mark entity.Mark) error
	CheckWinner(ctx context.Context, mark entity.Mark) (bool, error)
	IsBoardFull(ctx context.Context) (bool, error)
	ResetGame(ctx context.Context) error
	GetBoard(ctx context.Context) (entity.Board, error)
}

type gameRepo interface {
	SaveMove(ctx context.Context, row, col int, mark entity.Mark) error
	GetBoard(ctx context.Context) (entity.Board, error)
	ResetBoard(ctx context.Context) error
}

type gameService struct {
	logger   *slog.Logger
	gameRepo gameRepo
}

func NewGameService(logger *slog.Logger, gameRepo gameRepo) GameService {
	return &gameService{
		logger:   logger.With("component", "game-service"),
		gameRepo: gameRepo,
	}
}

// MakeMove - rejects out of range and occupied cells with an error wrapping
// apperror.ErrInvalidMove and leaves the board untouched. Any other error comes
// from storage.
func (that *gameService) MakeMove(ctx context.Context, row, col int, mark entity.Mark) error {
	log := that.logger.With("method", "MakeMove", "row", row, "col", col, "mark", mark)

	if !mark.IsPlayer() {
		log.Debug("move rejected", "reason", apperror.ErrInvalidMark)
		return fmt.Errorf("%w: %w %q", apperror.ErrInvalidMove, apperror.ErrInvalidMark, mark)
	}

	if !entity.InBounds(row, col) {
		log.Debug("move rejected", "reason", apperror.ErrCellOutOfRange)
		return fmt.Errorf("%w: %w (%d, %d)", apperror.ErrInvalidMove, apperror.ErrCellOutOfRange, row, col)
	}

	board, err := that.gameRepo.GetBoard(ctx)
	if err != nil {
		return fmt.Errorf("failed to get board: %w", err)
	}

	if !board.IsEmptyCell(row, col) {
		log.Debug("move rejected", "reason", apperror.ErrCellOccupied, "occupant", board.Cell(row, col))
		return fmt.Errorf("%w: %w (%d, %d)", apperror.ErrInvalidMove, apperror.ErrCellOccupied, row, col)
	}

	if err = that.gameRepo.SaveMove(ctx, row, col, mark); err != nil {
		return fmt.Errorf("failed to save move: %w", err)
	}

	log.Debug("move accepted")

	return nil
}

func (that *gameService) CheckWinner(ctx context.Context, mark entity.Mark) (bool, error) {
	board, err := that.gameRepo.GetBoard(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get board: %w", err)
	}

	return board.IsWinner(mark), nil
}

func (that *gameService) IsBoardFull(ctx context.Context) (bool, error) {
	board, err := that.gameRepo.GetBoard(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get board: %w", err)
	}

	return board.IsFull(), nil
}

func (that *gameService) ResetGame(ctx context.Context) error {
	if err := that.gameRepo.ResetBoard(ctx); err != nil {
		return fmt.Errorf("failed to reset board: %w", err)
	}

	that.logger.Debug("game reset")

	return nil
}

func (that *gameService) GetBoard(ctx context.Context) (entity.Board, error) {
	board, err := that.gameRepo.GetBoard(ctx)
	if err != nil {
		return entity.Board{}, fmt.Errorf("failed to get board: %w", err)
	}

	return board, nil
}
