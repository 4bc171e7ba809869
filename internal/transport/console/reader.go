package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/rocketscienceinc/tictactoe-console/internal/apperror"
)

// MaxLineLength bounds a single input line. Longer lines are discarded and
// reported as apperror.ErrInvalidInput.
const MaxLineLength = 4096

// LineReader prompts for and returns one line of user input. ReadLine returns
// apperror.ErrInterrupted as soon as ctx is done, even while waiting for input.
type LineReader interface {
	ReadLine(ctx context.Context, prompt string) (string, error)
	Close() error
}

type lineResult struct {
	line string
	err  error
}

type scannerReader struct {
	input  *bufio.Reader
	closer io.Closer
	output io.Writer

	once  sync.Once
	lines chan lineResult
}

// NewScannerReader - reads lines from input and writes prompts to output. Used for
// pipes, redirected files and tests. Close closes input when it is an io.Closer.
func NewScannerReader(input io.Reader, output io.Writer) LineReader {
	reader := &scannerReader{
		input:  bufio.NewReader(input),
		output: output,
		lines:  make(chan lineResult),
	}

	if closer, ok := input.(io.Closer); ok {
		reader.closer = closer
	}

	return reader
}

func (that *scannerReader) ReadLine(ctx context.Context, prompt string) (string, error) {
	if ctx.Err() != nil {
		return "", fmt.Errorf("%w: %w", apperror.ErrInterrupted, ctx.Err())
	}

	fmt.Fprint(that.output, prompt)

	that.once.Do(func() {
		go that.readLines()
	})

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", apperror.ErrInterrupted, ctx.Err())
	case result, ok := <-that.lines:
		if !ok {
			return "", apperror.ErrInputClosed
		}
		return result.line, result.err
	}
}

// readLines - the only goroutine touching input. The channel is unbuffered, so it
// reads at most one line ahead of the caller.
func (that *scannerReader) readLines() {
	defer close(that.lines)

	for {
		line, err := that.readLine()
		if errors.Is(err, io.EOF) {
			return
		}

		if err != nil && !errors.Is(err, apperror.ErrInvalidInput) {
			that.lines <- lineResult{err: fmt.Errorf("failed to read input: %w", err)}
			return
		}

		that.lines <- lineResult{line: line, err: err}
	}
}

// readLine - one line without its terminator. A final line without a newline
// is still returned.
func (that *scannerReader) readLine() (string, error) {
	var (
		buf     []byte
		tooLong bool
	)

	for {
		chunk, isPrefix, err := that.input.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) && (len(buf) > 0 || tooLong) {
				break
			}
			return "", err
		}

		if !tooLong {
			if len(buf)+len(chunk) > MaxLineLength {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}

		if !isPrefix {
			break
		}
	}

	if tooLong {
		return "", fmt.Errorf("%w: line longer than %d bytes", apperror.ErrInvalidInput, MaxLineLength)
	}

	return string(buf), nil
}

func (that *scannerReader) Close() error {
	if that.closer == nil {
		return nil
	}

	if err := that.closer.Close(); err != nil {
		return fmt.Errorf("failed to close input: %w", err)
	}

	return nil
}

type readlineReader struct {
	instance *readline.Instance
}

// NewReadlineReader - line editing for interactive terminals. No history file is
// kept, nothing outlives the process.
func NewReadlineReader(output io.Writer) (LineReader, error) {
	instance, err := readline.NewEx(&readline.Config{
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          output,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize readline: %w", err)
	}

	return &readlineReader{instance: instance}, nil
}

// ReadLine - closing the instance unblocks a pending Readline, which is how a
// cancelled context ends the wait.
func (that *readlineReader) ReadLine(ctx context.Context, prompt string) (string, error) {
	if ctx.Err() != nil {
		return "", fmt.Errorf("%w: %w", apperror.ErrInterrupted, ctx.Err())
	}

	that.instance.SetPrompt(prompt)

	done := make(chan lineResult, 1)
	go func() {
		line, err := that.instance.Readline()
		done <- lineResult{line: line, err: err}
	}()

	var result lineResult
	select {
	case <-ctx.Done():
		_ = that.instance.Close()
		return "", fmt.Errorf("%w: %w", apperror.ErrInterrupted, ctx.Err())
	case result = <-done:
	}

	switch {
	case errors.Is(result.err, readline.ErrInterrupt):
		return "", apperror.ErrInterrupted
	case errors.Is(result.err, io.EOF):
		return "", apperror.ErrInputClosed
	case result.err != nil:
		return "", fmt.Errorf("failed to read input: %w", result.err)
	}

	return result.line, nil
}

func (that *readlineReader) Close() error {
	return that.instance.Close()
}

// NewStdinReader - readline when stdin is a terminal, a plain line reader otherwise.
func NewStdinReader(output io.Writer) (LineReader, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return NewReadlineReader(output)
	}

	return NewScannerReader(os.Stdin, output), nil
}
