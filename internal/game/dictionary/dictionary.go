// Package dictionary provides the set of playable words.
package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Lookup answers word membership. Implementations must be safe for concurrent reads.
type Lookup interface {
	Contains(word string) bool
}

// Set is an immutable in-memory word set keyed by lower-case word.
type Set struct {
	words map[string]struct{}
}

// New builds a set from words.
func New(words ...string) *Set {
	s := &Set{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		s.add(w)
	}
	return s
}

func (s *Set) add(w string) {
	w = strings.ToLower(strings.TrimSpace(w))
	if w != "" {
		s.words[w] = struct{}{}
	}
}

// Contains reports whether word is playable, ignoring case.
func (s *Set) Contains(word string) bool {
	_, ok := s.words[strings.ToLower(word)]
	return ok
}

// Len returns the number of words.
func (s *Set) Len() int {
	return len(s.words)
}

// Read builds a set from whitespace-separated words.
func Read(r io.Reader) (*Set, error) {
	s := &Set{words: make(map[string]struct{}, 1<<16)}
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		s.add(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return s, nil
}

// Load reads a word list file such as words_alpha.txt.
func Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}
