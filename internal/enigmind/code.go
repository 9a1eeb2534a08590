package enigmind

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// CodeSeparator splits the digits of a code once one of them is 10 or more.
const CodeSeparator = "."

// Code is a candidate solution: one digit per column, each below the
// configured base.
type Code []uint8

// ParseCode reads a code. Digits below 10 may be packed ("401"); any digit
// may be written with dot separators ("10.0.3").
func ParseCode(s string) (Code, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidCode)
	}
	if strings.Contains(s, CodeSeparator) {
		fields := strings.Split(s, CodeSeparator)
		code := make(Code, 0, len(fields))
		for _, f := range fields {
			d, err := strconv.ParseUint(f, 10, 8)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a digit below %d", ErrInvalidCode, f, MaxBase)
			}
			code = append(code, uint8(d))
		}
		return code, nil
	}
	code := make(Code, 0, len(s))
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("%w: %q is not a digit", ErrInvalidCode, r)
		}
		code = append(code, uint8(r-'0'))
	}
	return code, nil
}

func (c Code) Get(col Column) (uint8, error) {
	if int(col) >= len(c) {
		return 0, fmt.Errorf(
			"%w: column %s of a %d-digit code", ErrColumnIndexOutOfBounds, col, len(c),
		)
	}
	return c[col], nil
}

// Shift encodes c as an integer in base gc.Base, most significant digit
// first.
func (c Code) Shift(gc GameConfiguration) int {
	shift := 0
	for _, d := range c {
		shift = shift*gc.Base + int(d)
	}
	return shift
}

// CodeFromShift is the inverse of [Code.Shift].
func CodeFromShift(shift int, gc GameConfiguration) Code {
	code := make(Code, gc.ColumnCount)
	for i := gc.ColumnCount - 1; i >= 0; i-- {
		code[i] = uint8(shift % gc.Base)
		shift /= gc.Base
	}
	return code
}

func (c Code) Equal(other Code) bool {
	return slices.Equal(c, other)
}

// Code implements [fmt.Stringer]. Digits are packed unless one of them
// needs two characters; then they are joined with [CodeSeparator].
func (c Code) String() string {
	sep := ""
	if slices.ContainsFunc(c, func(d uint8) bool { return d > 9 }) {
		sep = CodeSeparator
	}
	parts := make([]string, len(c))
	for i, d := range c {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, sep)
}

// MarshalJSON writes the digits as a number array rather than base64.
func (c Code) MarshalJSON() ([]byte, error) {
	digits := make([]int, len(c))
	for i, d := range c {
		digits[i] = int(d)
	}
	return json.Marshal(digits)
}

func (c *Code) UnmarshalJSON(data []byte) error {
	var digits []int
	if err := json.Unmarshal(data, &digits); err != nil {
		return err
	}
	code := make(Code, len(digits))
	for i, d := range digits {
		if d < 0 || d >= MaxBase {
			return fmt.Errorf("%w: digit %d", ErrInvalidCode, d)
		}
		code[i] = uint8(d)
	}
	*c = code
	return nil
}
