package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
)

// GameRepository owns the single live board. It stores what it is given; move
// validation happens in the service layer.
type GameRepository interface {
	SaveMove(ctx context.Context, row, col int, mark entity.Mark) error
	GetBoard(ctx context.Context) (entity.Board, error)
	ResetBoard(ctx context.Context) error
}

type dbGame struct {
	client   *redis.Client
	boardKey string
	ttl      time.Duration
}

// NewRedisRepository - keeps the board under "board:<sessionID>" with the given TTL.
func NewRedisRepository(client *redis.Client, sessionID string, ttl time.Duration) GameRepository {
	return &dbGame{
		client:   client,
		boardKey: "board:" + sessionID,
		ttl:      ttl,
	}
}

func (that *dbGame) SaveMove(ctx context.Context, row, col int, mark entity.Mark) error {
	board, err := that.GetBoard(ctx)
	if err != nil {
		return fmt.Errorf("failed to load board before move: %w", err)
	}

	board.Cells[row][col] = mark

	return that.store(ctx, board)
}

// GetBoard - a missing key reads as a fresh empty board.
func (that *dbGame) GetBoard(ctx context.Context) (entity.Board, error) {
	response, err := that.client.Get(ctx, that.boardKey).Result()
	if errors.Is(err, redis.Nil) {
		return entity.NewBoard(), nil
	}

	if err != nil {
		return entity.Board{}, fmt.Errorf("failed to get board: %w", err)
	}

	var board entity.Board
	if err = json.Unmarshal([]byte(response), &board); err != nil {
		return entity.Board{}, fmt.Errorf("failed to unmarshal board: %w", err)
	}

	return board, nil
}

func (that *dbGame) ResetBoard(ctx context.Context) error {
	return that.store(ctx, entity.NewBoard())
}

func (that *dbGame) store(ctx context.Context, board entity.Board) error {
	boardJSON, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("could not marshal board: %w", err)
	}

	if err = that.client.Set(ctx, that.boardKey, boardJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set board: %w", err)
	}

	return nil
}
