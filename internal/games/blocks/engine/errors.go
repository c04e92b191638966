package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPieceTable is returned when no piece kinds are configured.
	ErrEmptyPieceTable = errors.New("engine: piece table is empty")

	// ErrHolderFull is returned by Catch when a kind is already held.
	ErrHolderFull = errors.New("engine: holder already has a piece")
	// ErrHolderEmpty is returned by Release when nothing is held.
	ErrHolderEmpty = errors.New("engine: holder is empty")
	// ErrReleaseLocked is returned by Release before the next lock opens the gate.
	ErrReleaseLocked = errors.New("engine: hold is locked until the piece lands")
)

// ConfigError describes an invalid engine configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("engine: invalid %s: %s", e.Field, e.Message)
}
