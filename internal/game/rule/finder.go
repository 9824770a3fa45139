package rule

import "github.com/palemoky/spellcast/internal/game/board"

// FindPath searches b for a non-revisiting path spelling word under adj.
// It returns the first path found in row-major start order.
func FindPath(b *board.Board, word string, adj Adjacency) ([]board.Position, bool) {
	if len(word) == 0 {
		return nil, false
	}
	path := make([]board.Position, 0, len(word))
	used := make(map[board.Position]bool, len(word))

	var walk func(i int, at board.Position) bool
	walk = func(i int, at board.Position) bool {
		if b.At(at) != upper(word[i]) || used[at] {
			return false
		}
		path = append(path, at)
		used[at] = true
		if i == len(word)-1 {
			return true
		}
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				next := board.Position{Row: at.Row + dr, Col: at.Col + dc}
				if next == at || !next.InBounds() || !adj(at, next) {
					continue
				}
				if walk(i+1, next) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		used[at] = false
		return false
	}

	for r := range board.Size {
		for c := range board.Size {
			if walk(0, board.Position{Row: r, Col: c}) {
				return path, true
			}
		}
	}
	return nil, false
}
