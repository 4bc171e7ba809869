package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-console/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
)

const (
	welcomeMessage     = "Welcome to Tic-Tac-Toe!"
	movePrompt         = "Player %s, enter your move (row and column, e.g., 1 2): "
	invalidMoveMessage = "Invalid move. Try again."
	winMessage         = "Player %s wins!"
	drawMessage        = "It's a draw!"
)

type gameController interface {
	MakeMove(ctx context.Context, row, col int, mark entity.Mark) error
	CheckWinner(ctx context.Context, mark entity.Mark) (bool, error)
	IsBoardFull(ctx context.Context) (bool, error)
	ResetGame(ctx context.Context) error
	GetBoard(ctx context.Context) (entity.Board, error)
}

type Options struct {
	FirstPlayer   entity.Mark
	OneBasedInput bool
}

// Presenter drives one game on the console: prompt, validate through the
// controller, display, announce the outcome.
type Presenter struct {
	logger     *slog.Logger
	controller gameController
	reader     LineReader
	output     io.Writer
	options    Options

	currentPlayer entity.Mark
}

func NewPresenter(logger *slog.Logger, controller gameController, reader LineReader, output io.Writer, options Options) *Presenter {
	if !options.FirstPlayer.IsPlayer() {
		options.FirstPlayer = entity.PlayerX
	}

	return &Presenter{
		logger:        logger.With("component", "console"),
		controller:    controller,
		reader:        reader,
		output:        output,
		options:       options,
		currentPlayer: options.FirstPlayer,
	}
}

// StartGame - plays until a win or a draw, both of which return nil. It returns
// apperror.ErrInputClosed or apperror.ErrInterrupted when input stops first.
func (that *Presenter) StartGame(ctx context.Context) error {
	log := that.logger.With("method", "StartGame")

	fmt.Fprintln(that.output, welcomeMessage)

	if err := that.controller.ResetGame(ctx); err != nil {
		return fmt.Errorf("failed to reset game: %w", err)
	}

	that.currentPlayer = that.options.FirstPlayer
	log.Info("game started", "first_player", that.currentPlayer)

	for {
		if err := that.displayBoard(ctx); err != nil {
			return err
		}

		if err := that.awaitMove(ctx); err != nil {
			return err
		}

		finished, err := that.checkEnd(ctx)
		if err != nil {
			return err
		}

		if finished {
			return nil
		}

		that.switchPlayer()
	}
}

// awaitMove - re-prompts until the controller accepts a move.
func (that *Presenter) awaitMove(ctx context.Context) error {
	log := that.logger.With("method", "awaitMove", "player", that.currentPlayer)

	for {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", apperror.ErrInterrupted, ctx.Err())
		}

		line, err := that.reader.ReadLine(ctx, fmt.Sprintf(movePrompt, that.currentPlayer))
		if errors.Is(err, apperror.ErrInvalidInput) {
			log.Debug("unreadable move", "error", err)
			fmt.Fprintln(that.output, invalidMoveMessage)
			continue
		}

		if err != nil {
			return fmt.Errorf("failed to read move: %w", err)
		}

		row, col, err := parseMove(line, that.options.OneBasedInput)
		if err != nil {
			log.Debug("unparsable move", "error", err)
			fmt.Fprintln(that.output, invalidMoveMessage)
			continue
		}

		err = that.controller.MakeMove(ctx, row, col, that.currentPlayer)
		if errors.Is(err, apperror.ErrInvalidMove) {
			log.Debug("move rejected", "error", err)
			fmt.Fprintln(that.output, invalidMoveMessage)
			continue
		}

		if err != nil {
			return fmt.Errorf("failed to make move: %w", err)
		}

		return nil
	}
}

func (that *Presenter) checkEnd(ctx context.Context) (bool, error) {
	won, err := that.controller.CheckWinner(ctx, that.currentPlayer)
	if err != nil {
		return false, fmt.Errorf("failed to check winner: %w", err)
	}

	if won {
		if err = that.displayBoard(ctx); err != nil {
			return false, err
		}

		fmt.Fprintf(that.output, winMessage+"\n", that.currentPlayer)
		that.logger.Info("game over", "result", "win", "winner", that.currentPlayer)

		return true, nil
	}

	full, err := that.controller.IsBoardFull(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check board: %w", err)
	}

	if full {
		if err = that.displayBoard(ctx); err != nil {
			return false, err
		}

		fmt.Fprintln(that.output, drawMessage)
		that.logger.Info("game over", "result", "draw")

		return true, nil
	}

	return false, nil
}

func (that *Presenter) switchPlayer() {
	that.currentPlayer = that.currentPlayer.Opponent()
}

// displayBoard - blank line, grid, blank line.
func (that *Presenter) displayBoard(ctx context.Context) error {
	board, err := that.controller.GetBoard(ctx)
	if err != nil {
		return fmt.Errorf("failed to get board: %w", err)
	}

	fmt.Fprintln(that.output)
	if err = board.Display(that.output); err != nil {
		return err
	}
	fmt.Fprintln(that.output)

	return nil
}
