// Package bitmask is a fixed-length bit vector over the solution space of a
// game. Every operation refuses to grow the vector: indices past the end and
// operands of different lengths are errors.
package bitmask

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// MaxBits bounds the length of a mask. A 6^9 solution space is ~10M bits.
const MaxBits = 1 << 24

var (
	ErrIndexOutOfRange = errors.New("bitmask: index out of range")
	ErrLengthMismatch  = errors.New("bitmask: length mismatch")
	ErrTooLarge        = fmt.Errorf("bitmask: length exceeds %d bits", MaxBits)
)

type Mask struct {
	set *bitset.BitSet
}

func checkLen(n int) error {
	if n < 0 || n > MaxBits {
		return fmt.Errorf("%w (requested %d)", ErrTooLarge, n)
	}
	return nil
}

// Zeros returns an n-bit mask with every bit cleared.
func Zeros(n int) (Mask, error) {
	if err := checkLen(n); err != nil {
		return Mask{}, err
	}
	return Mask{bitset.New(uint(n))}, nil
}

// Ones returns an n-bit mask with every bit set.
func Ones(n int) (Mask, error) {
	m, err := Zeros(n)
	if err != nil {
		return Mask{}, err
	}
	if n > 0 {
		m.set.FlipRange(0, uint(n))
	}
	return m, nil
}

func (m Mask) Len() int {
	if m.set == nil {
		return 0
	}
	return int(m.set.Len())
}

func (m Mask) Set(i int, v bool) error {
	if i < 0 || i >= m.Len() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, m.Len())
	}
	m.set.SetTo(uint(i), v)
	return nil
}

func (m Mask) Test(i int) bool {
	if i < 0 || i >= m.Len() {
		return false
	}
	return m.set.Test(uint(i))
}

func (m Mask) sameLen(o Mask) error {
	if m.Len() != o.Len() {
		return fmt.Errorf("%w: %d != %d", ErrLengthMismatch, m.Len(), o.Len())
	}
	return nil
}

// And returns a new mask holding m & o.
func (m Mask) And(o Mask) (Mask, error) {
	if err := m.sameLen(o); err != nil {
		return Mask{}, err
	}
	if m.set == nil {
		return Mask{}, nil
	}
	return Mask{m.set.Intersection(o.set)}, nil
}

// Or returns a new mask holding m | o.
func (m Mask) Or(o Mask) (Mask, error) {
	if err := m.sameLen(o); err != nil {
		return Mask{}, err
	}
	if m.set == nil {
		return Mask{}, nil
	}
	return Mask{m.set.Union(o.set)}, nil
}

// InPlaceAnd stores m & o into m.
func (m Mask) InPlaceAnd(o Mask) error {
	if err := m.sameLen(o); err != nil {
		return err
	}
	if m.set != nil {
		m.set.InPlaceIntersection(o.set)
	}
	return nil
}

func (m Mask) CountOnes() int {
	if m.set == nil {
		return 0
	}
	return int(m.set.Count())
}

// TrailingZeros returns the index of the lowest set bit, or Len() when no bit
// is set.
func (m Mask) TrailingZeros() int {
	if m.set == nil {
		return 0
	}
	i, ok := m.set.NextSet(0)
	if !ok {
		return m.Len()
	}
	return int(i)
}

func (m Mask) Equal(o Mask) bool {
	if m.Len() != o.Len() {
		return false
	}
	if m.set == nil {
		return true
	}
	return m.set.Equal(o.set)
}

func (m Mask) Clone() Mask {
	if m.set == nil {
		return Mask{}
	}
	return Mask{m.set.Clone()}
}

// Mask implements [fmt.Stringer]; bit 0 is printed first.
func (m Mask) String() string {
	var b strings.Builder
	b.Grow(m.Len())
	for i := range m.Len() {
		if m.set.Test(uint(i)) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func (m Mask) MarshalBinary() ([]byte, error) {
	if m.set == nil {
		return bitset.New(0).MarshalBinary()
	}
	return m.set.MarshalBinary()
}

func (m *Mask) UnmarshalBinary(data []byte) error {
	set := new(bitset.BitSet)
	if err := set.UnmarshalBinary(data); err != nil {
		return err
	}
	if err := checkLen(int(set.Len())); err != nil {
		return err
	}
	m.set = set
	return nil
}

func (m Mask) MarshalJSON() ([]byte, error) {
	if m.set == nil {
		return bitset.New(0).MarshalJSON()
	}
	return m.set.MarshalJSON()
}

func (m *Mask) UnmarshalJSON(data []byte) error {
	set := new(bitset.BitSet)
	if err := set.UnmarshalJSON(data); err != nil {
		return err
	}
	if err := checkLen(int(set.Len())); err != nil {
		return err
	}
	m.set = set
	return nil
}
