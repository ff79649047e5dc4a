package application

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bbpr/internal/domain/model"
)

// ErrInvalidInput marks malformed command arguments: non-numeric or
// non-positive ids, unknown enum values, empty required text. It is always
// detected before any network call.
var ErrInvalidInput = errors.New("invalid arguments")

// ParseID parses a positive integer identifier from a raw argument string.
// kind names the entity for the error message ("PR", "comment", "task").
func ParseID(kind, raw string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s id %q must be a positive integer", ErrInvalidInput, kind, raw)
	}
	return n, nil
}

// ParsePRState normalizes and validates a pull request state filter.
func ParsePRState(raw string) (model.PRState, error) {
	state := model.PRState(strings.ToUpper(strings.TrimSpace(raw)))
	if !model.ValidPRState(state) {
		return "", fmt.Errorf("%w: state %q must be one of OPEN, MERGED, DECLINED, SUPERSEDED", ErrInvalidInput, raw)
	}
	return state, nil
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidInput, field)
	}
	return nil
}

func requirePositive(kind string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s id %d must be a positive integer", ErrInvalidInput, kind, id)
	}
	return nil
}
