package rule

import "github.com/palemoky/spellcast/internal/game/board"

// Mode selects a scoring and adjacency scheme.
type Mode int

const (
	// ModeMultiplayer: letter values × length band, 4-directional paths.
	ModeMultiplayer Mode = iota
	// ModeClassic: per-tile premiums, +10 for long words, 8-directional paths.
	ModeClassic
)

func (m Mode) String() string {
	if m == ModeClassic {
		return "classic"
	}
	return "multiplayer"
}

// Adjacency returns the path rule for m.
func (m Mode) Adjacency() Adjacency {
	if m == ModeClassic {
		return King
	}
	return Orthogonal
}

// ValidPath reports whether path steps by m's adjacency without revisiting a tile.
func (m Mode) ValidPath(path []board.Position) bool {
	return connected(path, m.Adjacency()) && NoRevisits(path)
}

// FindPath searches b for word under m's adjacency.
func (m Mode) FindPath(b *board.Board, word string) ([]board.Position, bool) {
	return FindPath(b, word, m.Adjacency())
}

// Scrabble-style letter values
var letterValues = [26]int{
	1, 4, 5, 3, 1, 5, 3, 4, 1, 7, 6, 3, 4, // A-M
	2, 1, 4, 8, 2, 2, 2, 4, 5, 5, 7, 4, 8, // N-Z
}

// LetterValue returns the point value of ch, 0 for non-letters.
func LetterValue(ch byte) int {
	ch = upper(ch)
	if ch < 'A' || ch > 'Z' {
		return 0
	}
	return letterValues[ch-'A']
}

// lengthMultiplier in tenths
func lengthMultiplier(n int) int {
	switch {
	case n <= 3:
		return 10
	case n <= 5:
		return 12
	case n <= 7:
		return 15
	default:
		return 20
	}
}

// LengthMultiplier returns the multiplayer length band for a word of n letters,
// for display.
func LengthMultiplier(n int) float64 {
	return float64(lengthMultiplier(n)) / 10
}

// Score is the authoritative multiplayer score: letter sum × length band, truncated.
func Score(word string) int {
	base := 0
	for i := 0; i < len(word); i++ {
		base += LetterValue(word[i])
	}
	return base * lengthMultiplier(len(word)) / 10
}

// Premium marks a classic-mode bonus tile.
type Premium uint8

const (
	PremiumNone Premium = iota
	DoubleLetter
	TripleLetter
	DoubleWord
)

// Tile is one path step for classic scoring.
type Tile struct {
	Letter  byte
	Premium Premium
}

// ClassicBonusLength is the word length that earns the flat bonus.
const (
	ClassicBonusLength = 6
	ClassicBonus       = 10
)

// ClassicScore is the single-player scoring; rooms always use Score.
// It applies letter premiums, doubles per double-word tile,
// then adds the long-word bonus.
func ClassicScore(tiles []Tile) int {
	base, wordMul := 0, 1
	for _, t := range tiles {
		letterMul := 1
		switch t.Premium {
		case DoubleLetter:
			letterMul = 2
		case TripleLetter:
			letterMul = 3
		case DoubleWord:
			wordMul *= 2
		}
		base += LetterValue(t.Letter) * letterMul
	}
	total := base * wordMul
	if len(tiles) >= ClassicBonusLength {
		total += ClassicBonus
	}
	return total
}

// TilesOf feeds ClassicScore. It pairs a path with the letters under it and the given premium layout.
func TilesOf(b *board.Board, path []board.Position, premiums map[board.Position]Premium) []Tile {
	tiles := make([]Tile, len(path))
	for i, p := range path {
		tiles[i] = Tile{Letter: b.At(p), Premium: premiums[p]}
	}
	return tiles
}
