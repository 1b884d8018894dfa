package overseer

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"laptudirm.com/x/overseer/pkg/game"
)

// Book is an opening book: a file with one FEN record per line from
// which games draw their starting position. Blank lines and lines
// starting with # are skipped.
type Book struct {
	entries []string
	order   string

	current int
}

// Book orders.
const (
	OrderSequential = "sequential"
	OrderRandom     = "random"
)

// NewBook loads an opening book. Every entry is validated up front so a
// broken book fails the run before any game starts.
func NewBook(path string, order string) (*Book, error) {
	if order != OrderSequential && order != OrderRandom {
		return nil, fmt.Errorf("openings: unknown book order %q", order)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var book Book
	book.order = order
	book.current = -1

	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if _, err := game.NewPosition(line); err != nil {
			return nil, fmt.Errorf("openings: %w", err)
		}

		book.entries = append(book.entries, line)
	}

	if len(book.entries) == 0 {
		return nil, errors.New("openings: book has no positions")
	}

	return &book, nil
}

// Pick advances the book and returns the next starting FEN.
func (book *Book) Pick() string {
	switch book.order {
	case OrderRandom:
		book.current = rand.Intn(len(book.entries))
	default:
		book.current = (book.current + 1) % len(book.entries)
	}

	return book.entries[book.current]
}
