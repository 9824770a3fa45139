// Package rule validates tile paths and scores words.
package rule

import (
	"fmt"

	"github.com/palemoky/spellcast/internal/game/board"
)

// Adjacency decides whether two consecutive path coordinates may be linked.
type Adjacency func(a, b board.Position) bool

// Orthogonal links coordinates at Manhattan distance exactly 1.
func Orthogonal(a, b board.Position) bool {
	return abs(a.Row-b.Row)+abs(a.Col-b.Col) == 1
}

// King links coordinates at Chebyshev distance exactly 1, diagonals included.
func King(a, b board.Position) bool {
	dr, dc := abs(a.Row-b.Row), abs(a.Col-b.Col)
	return max(dr, dc) == 1
}

// IsAdjacent reports whether every consecutive pair in path is orthogonally adjacent.
// Diagonal steps and gaps are rejected. This is the multiplayer rule.
func IsAdjacent(path []board.Position) bool {
	return connected(path, Orthogonal)
}

// IsAdjacentKing is the single-player rule: 8-directional steps. Rooms never use it.
func IsAdjacentKing(path []board.Position) bool {
	return connected(path, King)
}

func connected(path []board.Position, adj Adjacency) bool {
	for i := 1; i < len(path); i++ {
		if !adj(path[i-1], path[i]) {
			return false
		}
	}
	return true
}

// NoRevisits reports whether no coordinate repeats within path.
func NoRevisits(path []board.Position) bool {
	seen := make(map[board.Position]struct{}, len(path))
	for _, p := range path {
		if _, dup := seen[p]; dup {
			return false
		}
		seen[p] = struct{}{}
	}
	return true
}

// MatchesBoard checks that path spells word on b, case-insensitively.
// On failure the reason names the first offending coordinate.
func MatchesBoard(word string, path []board.Position, b *board.Board) (bool, string) {
	if len(path) != len(word) {
		return false, "Length mismatch"
	}
	for i, p := range path {
		if !p.InBounds() {
			return false, "Out of bounds"
		}
		want := upper(word[i])
		got := b.At(p)
		if want != got {
			return false, fmt.Sprintf("Board mismatch at (%d,%d): expected %c, got %c", p.Row, p.Col, want, got)
		}
	}
	return true, ""
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func upper(ch byte) byte {
	if ch >= 'a' && ch <= 'z' {
		return ch - 'a' + 'A'
	}
	return ch
}
