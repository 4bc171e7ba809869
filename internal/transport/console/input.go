package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-console/internal/apperror"
)

// parseMove - expects two whitespace separated integers. With oneBased set, both
// are shifted down by one before use.
func parseMove(line string, oneBased bool) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: want row and column, got %q", apperror.ErrInvalidInput, line)
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: row %q is not a number", apperror.ErrInvalidInput, fields[0])
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: column %q is not a number", apperror.ErrInvalidInput, fields[1])
	}

	if oneBased {
		row--
		col--
	}

	return row, col, nil
}
