package board

import (
	"hash/fnv"
	"math/rand/v2"
)

// English letter weights. Every letter has nonzero weight.
var frequencies = [26]int{
	'A' - 'A': 82, 'B' - 'A': 15, 'C' - 'A': 28, 'D' - 'A': 43, 'E' - 'A': 127,
	'F' - 'A': 22, 'G' - 'A': 20, 'H' - 'A': 61, 'I' - 'A': 70, 'J' - 'A': 2,
	'K' - 'A': 8, 'L' - 'A': 40, 'M' - 'A': 24, 'N' - 'A': 67, 'O' - 'A': 75,
	'P' - 'A': 19, 'Q' - 'A': 1, 'R' - 'A': 60, 'S' - 'A': 63, 'T' - 'A': 91,
	'U' - 'A': 28, 'V' - 'A': 10, 'W' - 'A': 24, 'X' - 'A': 2, 'Y' - 'A': 20,
	'Z' - 'A': 1,
}

var totalWeight = func() int {
	sum := 0
	for _, w := range frequencies {
		sum += w
	}
	return sum
}()

// Weight returns the draw weight of letter, 0 for non-letters.
func Weight(letter byte) int {
	letter = upper(letter)
	if letter < 'A' || letter > 'Z' {
		return 0
	}
	return frequencies[letter-'A']
}

// SeedFor derives a board seed from a room code and the room's game epoch.
func SeedFor(code string, epoch uint64) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(code))
	return h.Sum64() ^ (epoch * 0x9E3779B97F4A7C15)
}

// Generator draws letters from the weighted distribution.
// It is not safe for concurrent use; each room owns one.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator whose output depends only on seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0xD1B54A32D192ED03))}
}

// Letter draws one letter.
func (g *Generator) Letter() byte {
	n := g.rng.IntN(totalWeight)
	for i, w := range frequencies {
		if n < w {
			return byte('A' + i)
		}
		n -= w
	}
	return 'E'
}

// Generate draws a full board, 25 letters independently with replacement.
func (g *Generator) Generate() Board {
	var b Board
	for r := range Size {
		for c := range Size {
			b[r][c] = g.Letter()
		}
	}
	return b
}

// Reroll replaces the tile at p and returns the old and new letters.
// The new letter may equal the old one.
func (g *Generator) Reroll(b *Board, p Position) (old, fresh byte) {
	old = b.At(p)
	fresh = g.Letter()
	b.Set(p, fresh)
	return old, fresh
}

// Refresh rerolls exactly the given positions.
func (g *Generator) Refresh(b *Board, ps []Position) {
	for _, p := range ps {
		g.Reroll(b, p)
	}
}

// Generate is shorthand for NewGenerator(seed).Generate().
func Generate(seed uint64) Board {
	return NewGenerator(seed).Generate()
}
