package enigmind

import "errors"

var (
	ErrColumnIndexOutOfBounds  = errors.New("column index out of bounds")
	ErrInvalidConfiguration    = errors.New("invalid game configuration")
	ErrTooManyColumns          = errors.New("too many columns")
	ErrSolutionSpaceTooLarge   = errors.New("solution space too large")
	ErrGenerationFailed        = errors.New("could not generate a game")
	ErrInvalidCode             = errors.New("invalid code")
	ErrCriteriaIndexOutOfRange = errors.New("criteria index out of range")
)
