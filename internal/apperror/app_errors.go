package apperror

import "errors"

var (
	ErrInvalidMove    = errors.New("invalid move")
	ErrCellOccupied   = errors.New("cell is already occupied")
	ErrCellOutOfRange = errors.New("cell is out of range")
	ErrInvalidMark    = errors.New("invalid player mark")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInputClosed    = errors.New("input closed before the game finished")
	ErrInterrupted    = errors.New("game interrupted")
)
