// Package board holds the letter grid and its generator.
package board

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Size is the side length of every board.
const Size = 5

// Position is a grid coordinate. On the wire it is [row, col].
type Position struct {
	Row int
	Col int
}

// InBounds reports whether p lies on a Size×Size grid.
func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// MarshalJSON encodes p as [row, col].
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.Row, p.Col})
}

// UnmarshalJSON decodes [row, col].
func (p *Position) UnmarshalJSON(data []byte) error {
	var rc [2]int
	if err := json.Unmarshal(data, &rc); err != nil {
		return err
	}
	p.Row, p.Col = rc[0], rc[1]
	return nil
}

// Board is a grid of uppercase ASCII letters. It is a value type; assignment copies.
type Board [Size][Size]byte

// At returns the letter at p. p must be in bounds.
func (b *Board) At(p Position) byte {
	return b[p.Row][p.Col]
}

// Set writes letter at p, upper-cased.
func (b *Board) Set(p Position, letter byte) {
	b[p.Row][p.Col] = upper(letter)
}

// Rows renders the board as rows of one-letter strings.
func (b *Board) Rows() [][]string {
	rows := make([][]string, Size)
	for r := range Size {
		rows[r] = make([]string, Size)
		for c := range Size {
			rows[r][c] = string(b[r][c])
		}
	}
	return rows
}

func (b *Board) String() string {
	var sb strings.Builder
	for r := range Size {
		sb.Write(b[r][:])
		if r < Size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Parse builds a board from Size strings of Size letters each.
func Parse(rows ...string) (Board, error) {
	var b Board
	if len(rows) != Size {
		return b, fmt.Errorf("board: want %d rows, got %d", Size, len(rows))
	}
	for r, row := range rows {
		if len(row) != Size {
			return b, fmt.Errorf("board: row %d has %d letters", r, len(row))
		}
		for c := range Size {
			ch := upper(row[c])
			if ch < 'A' || ch > 'Z' {
				return b, fmt.Errorf("board: invalid letter %q at (%d,%d)", row[c], r, c)
			}
			b[r][c] = ch
		}
	}
	return b, nil
}

// MustParse is Parse that panics; for tests and fixtures.
func MustParse(rows ...string) Board {
	b, err := Parse(rows...)
	if err != nil {
		panic(err)
	}
	return b
}

// FromRows is the inverse of Rows. Empty cells are rejected.
func FromRows(rows [][]string) (Board, error) {
	flat := make([]string, len(rows))
	for i, row := range rows {
		flat[i] = strings.Join(row, "")
	}
	return Parse(flat...)
}

func upper(ch byte) byte {
	if ch >= 'a' && ch <= 'z' {
		return ch - 'a' + 'A'
	}
	return ch
}
