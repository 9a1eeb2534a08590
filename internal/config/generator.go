package config

import (
	"fmt"

	"github.com/vancomm/enigmind-server/internal/enigmind"
)

// Generator bounds the games the server agrees to build.
type Generator struct {
	MaxBase     int
	MaxColumns  int
	MaxAttempts int
}

func NewGenerator() (*Generator, error) {
	var (
		g   Generator
		err error
	)
	if g.MaxBase, err = envInt("ENIGMIND_MAX_BASE", 6); err != nil {
		return nil, err
	}
	if g.MaxColumns, err = envInt("ENIGMIND_MAX_COLUMNS", 5); err != nil {
		return nil, err
	}
	if g.MaxAttempts, err = envInt("ENIGMIND_MAX_ATTEMPTS", enigmind.DefaultMaxAttempts); err != nil {
		return nil, err
	}
	if g.MaxBase < 1 || g.MaxBase > enigmind.MaxBase {
		return nil, fmt.Errorf("ENIGMIND_MAX_BASE must be within 1..%d", enigmind.MaxBase)
	}
	if g.MaxColumns < 1 || g.MaxColumns > enigmind.MaxColumns {
		return nil, fmt.Errorf("ENIGMIND_MAX_COLUMNS must be within 1..%d", enigmind.MaxColumns)
	}
	if g.MaxAttempts < 1 {
		return nil, fmt.Errorf("ENIGMIND_MAX_ATTEMPTS must be positive")
	}
	return &g, nil
}

// Allow rejects configurations above the server limits.
func (g Generator) Allow(gc enigmind.GameConfiguration) error {
	if gc.Base > g.MaxBase || gc.ColumnCount > g.MaxColumns {
		return fmt.Errorf(
			"%w: server accepts base up to %d and up to %d columns",
			enigmind.ErrInvalidConfiguration, g.MaxBase, g.MaxColumns,
		)
	}
	return nil
}
