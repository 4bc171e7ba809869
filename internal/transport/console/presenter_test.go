package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-console/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
	"github.com/rocketscienceinc/tictactoe-console/internal/repository"
	"github.com/rocketscienceinc/tictactoe-console/internal/service"
	"github.com/rocketscienceinc/tictactoe-console/internal/tictactoe"
)

var errRedisDown = errors.New("redis down")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPresenter(input string, options Options) (*Presenter, *bytes.Buffer) {
	logger := discardLogger()
	out := &bytes.Buffer{}

	gameService := service.NewGameService(logger, repository.NewMemoryRepository())
	controller := tictactoe.NewGameController(gameService)
	reader := NewScannerReader(strings.NewReader(input), out)

	return NewPresenter(logger, controller, reader, out, options), out
}

func TestPresenter_StartGame(t *testing.T) {
	ctx := context.Background()

	t.Run("X wins on the top row", func(t *testing.T) {
		// Given: X takes the whole top row
		presenter, out := newPresenter("0 0\n1 1\n0 1\n2 2\n0 2\n", Options{})

		// When: the game is played
		err := presenter.StartGame(ctx)

		// Then: the final board is shown and X is announced
		require.NoError(t, err)

		output := out.String()
		assert.True(t, strings.HasPrefix(output, "Welcome to Tic-Tac-Toe!\n\n | | \n-----\n | | \n-----\n | | \n\n"))
		assert.True(t, strings.HasSuffix(output, "\nX|X|X\n-----\n |O| \n-----\n | |O\n\nPlayer X wins!\n"))
		assert.Equal(t, 3, strings.Count(output, "Player X, enter your move (row and column, e.g., 1 2): "))
		assert.Equal(t, 2, strings.Count(output, "Player O, enter your move (row and column, e.g., 1 2): "))
		assert.NotContains(t, output, "Invalid move")
	})

	t.Run("Full board without a line is a draw", func(t *testing.T) {
		// Given: nine moves with no three in a row
		presenter, out := newPresenter("0 0\n0 1\n0 2\n1 1\n1 0\n1 2\n2 1\n2 0\n2 2\n", Options{})

		// When: the game is played
		err := presenter.StartGame(ctx)

		// Then: a draw is announced
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(out.String(), "\nX|O|X\n-----\nX|O|O\n-----\nO|X|X\n\nIt's a draw!\n"))
		assert.NotContains(t, out.String(), "wins!")
	})

	t.Run("Invalid input re-prompts the same player", func(t *testing.T) {
		// Given: garbage, an out of range move and a taken cell mixed into a win for X
		input := strings.Join([]string{
			"0 0",   // X
			"hello", // O: not numbers
			"0 0",   // O: occupied
			"3 0",   // O: out of range
			"1",     // O: one number only
			"1 1",   // O
			"0 1",   // X
			"2 2",   // O
			"-1 -1", // X: out of range
			"0 2",   // X wins
		}, "\n") + "\n"
		presenter, out := newPresenter(input, Options{})

		// When: the game is played
		err := presenter.StartGame(ctx)

		// Then: every bad attempt is reported and X still wins
		require.NoError(t, err)
		output := out.String()
		assert.Equal(t, 5, strings.Count(output, "Invalid move. Try again.\n"))
		assert.Equal(t, 6, strings.Count(output, "Player O, enter your move"))
		assert.True(t, strings.HasSuffix(output, "Player X wins!\n"))
	})

	t.Run("O can start and win", func(t *testing.T) {
		// Given: O moves first and fills the left column
		presenter, out := newPresenter("0 0\n0 1\n1 0\n1 1\n2 0\n", Options{FirstPlayer: entity.PlayerO})

		// When: the game is played
		err := presenter.StartGame(ctx)

		// Then: O is the first to be prompted and the winner
		require.NoError(t, err)
		output := out.String()
		assert.Less(t, strings.Index(output, "Player O, enter"), strings.Index(output, "Player X, enter"))
		assert.True(t, strings.HasSuffix(output, "Player O wins!\n"))
	})

	t.Run("One based input", func(t *testing.T) {
		// Given: coordinates counted from one
		presenter, out := newPresenter("1 1\n2 2\n1 2\n3 3\n1 3\n", Options{OneBasedInput: true})

		// When: the game is played
		err := presenter.StartGame(ctx)

		// Then: X completes the top row
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(out.String(), "\nX|X|X\n-----\n |O| \n-----\n | |O\n\nPlayer X wins!\n"))
	})

	t.Run("One based input rejects zero", func(t *testing.T) {
		presenter, out := newPresenter("0 0\n1 1\n2 2\n1 2\n3 3\n1 3\n", Options{OneBasedInput: true})

		err := presenter.StartGame(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(out.String(), "Invalid move. Try again.\n"))
		assert.True(t, strings.HasSuffix(out.String(), "Player X wins!\n"))
	})

	t.Run("Input closed before the end", func(t *testing.T) {
		// Given: input that stops after two moves
		presenter, _ := newPresenter("0 0\n1 1\n", Options{})

		// When: the game is played
		err := presenter.StartGame(ctx)

		// Then: the closed input is reported
		require.ErrorIs(t, err, apperror.ErrInputClosed)
	})

	t.Run("Cancelled context stops the loop", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		presenter, _ := newPresenter("0 0\n", Options{})

		err := presenter.StartGame(cancelled)

		require.ErrorIs(t, err, apperror.ErrInterrupted)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("A new game starts from an empty board", func(t *testing.T) {
		// Given: a presenter that already finished one game
		logger := discardLogger()
		out := &bytes.Buffer{}
		controller := tictactoe.NewGameController(service.NewGameService(logger, repository.NewMemoryRepository()))
		input := "0 0\n1 1\n0 1\n2 2\n0 2\n" + "2 0\n0 0\n2 1\n0 1\n2 2\n"
		presenter := NewPresenter(logger, controller, NewScannerReader(strings.NewReader(input), out), out, Options{})

		require.NoError(t, presenter.StartGame(ctx))

		// When: a second game is played
		out.Reset()
		err := presenter.StartGame(ctx)

		// Then: X starts again and wins on the bottom row
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(out.String(), "\nO|O| \n-----\n | | \n-----\nX|X|X\n\nPlayer X wins!\n"))
	})
}

type failingController struct {
	gameController
}

func (failingController) ResetGame(context.Context) error {
	return errRedisDown
}

func TestPresenter_StorageFailure(t *testing.T) {
	// Given: a controller whose storage is down
	out := &bytes.Buffer{}
	presenter := NewPresenter(discardLogger(), failingController{}, NewScannerReader(strings.NewReader(""), out), out, Options{})

	// When: a game is started
	err := presenter.StartGame(context.Background())

	// Then: the error is returned rather than retried
	require.ErrorIs(t, err, errRedisDown)
}

func TestPresenter_InterruptWhileWaitingForInput(t *testing.T) {
	// Given: input that never delivers a line
	pr, pw := io.Pipe()
	t.Cleanup(func() {
		_ = pw.Close()
	})

	logger := discardLogger()
	out := &bytes.Buffer{}
	controller := tictactoe.NewGameController(service.NewGameService(logger, repository.NewMemoryRepository()))
	presenter := NewPresenter(logger, controller, NewScannerReader(pr, out), out, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	timer := time.AfterFunc(50*time.Millisecond, cancel)
	t.Cleanup(func() {
		timer.Stop()
		cancel()
	})

	// When: the context is cancelled while the game waits for X
	err := presenter.StartGame(ctx)

	// Then: the game stops with ErrInterrupted instead of blocking
	require.ErrorIs(t, err, apperror.ErrInterrupted)
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, out.String(), "Player X, enter your move")
}

func TestPresenter_OverlongLineIsInvalidMove(t *testing.T) {
	// Given: a line far beyond the limit, followed by a win for X
	input := strings.Repeat("7", 70000) + "\n" + "0 0\n1 1\n0 1\n2 2\n0 2\n"
	presenter, out := newPresenter(input, Options{})

	// When: the game is played
	err := presenter.StartGame(context.Background())

	// Then: the long line is rejected like any bad input and the game continues
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out.String(), "Invalid move. Try again.\n"))
	assert.True(t, strings.HasSuffix(out.String(), "Player X wins!\n"))
}

func TestScannerReader(t *testing.T) {
	ctx := context.Background()

	t.Run("Lines come back in order", func(t *testing.T) {
		// Given: two lines of input, the last without a newline
		out := &bytes.Buffer{}
		reader := NewScannerReader(strings.NewReader("first\n\nsecond"), out)

		// When/Then: lines come back in order and the prompt is written each time
		line, err := reader.ReadLine(ctx, "> ")
		require.NoError(t, err)
		assert.Equal(t, "first", line)

		line, err = reader.ReadLine(ctx, "> ")
		require.NoError(t, err)
		assert.Empty(t, line)

		line, err = reader.ReadLine(ctx, "> ")
		require.NoError(t, err)
		assert.Equal(t, "second", line)

		_, err = reader.ReadLine(ctx, "> ")
		require.ErrorIs(t, err, apperror.ErrInputClosed)

		assert.Equal(t, "> > > > ", out.String())
		require.NoError(t, reader.Close())
	})

	t.Run("Line at the limit is kept, longer is invalid", func(t *testing.T) {
		exact := strings.Repeat("a", MaxLineLength)
		reader := NewScannerReader(strings.NewReader(exact+"\n"+exact+"b\nnext\n"), io.Discard)

		line, err := reader.ReadLine(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, exact, line)

		_, err = reader.ReadLine(ctx, "")
		require.ErrorIs(t, err, apperror.ErrInvalidInput)

		line, err = reader.ReadLine(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "next", line)
	})

	t.Run("Cancelled context returns ErrInterrupted", func(t *testing.T) {
		pr, pw := io.Pipe()
		t.Cleanup(func() {
			_ = pw.Close()
		})
		reader := NewScannerReader(pr, io.Discard)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := reader.ReadLine(cancelled, "> ")

		require.ErrorIs(t, err, apperror.ErrInterrupted)
	})

	t.Run("Close closes the underlying input", func(t *testing.T) {
		// Given: a reader over a pipe
		pr, pw := io.Pipe()
		reader := NewScannerReader(pr, io.Discard)

		// When: the reader is closed
		require.NoError(t, reader.Close())

		// Then: the writing end sees the pipe closed
		_, err := pw.Write([]byte("0 0\n"))
		require.ErrorIs(t, err, io.ErrClosedPipe)
	})
}
