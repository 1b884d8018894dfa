package overseer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laptudirm.com/x/overseer/pkg/game"
)

func writeBook(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "book.fen")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

const sicilianFEN = "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2"

func TestBookSequential(t *testing.T) {
	path := writeBook(t, "# two openings\n"+game.StartFEN+"\n\n"+sicilianFEN+"\n")

	book, err := NewBook(path, OrderSequential)
	require.NoError(t, err)

	assert.Equal(t, game.StartFEN, book.Pick())
	assert.Equal(t, sicilianFEN, book.Pick())
	assert.Equal(t, game.StartFEN, book.Pick(), "sequential order wraps around")
}

func TestBookRandom(t *testing.T) {
	path := writeBook(t, game.StartFEN+"\n"+sicilianFEN+"\n")

	book, err := NewBook(path, OrderRandom)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		assert.Contains(t, []string{game.StartFEN, sicilianFEN}, book.Pick())
	}
}

func TestBookValidatesEntries(t *testing.T) {
	path := writeBook(t, game.StartFEN+"\nnot a fen\n")

	_, err := NewBook(path, OrderSequential)
	assert.ErrorIs(t, err, game.ErrBadFEN)
}

func TestBookRejectsEmpty(t *testing.T) {
	path := writeBook(t, "# nothing here\n\n")

	_, err := NewBook(path, OrderSequential)
	assert.Error(t, err)
}

func TestBookRejectsUnknownOrder(t *testing.T) {
	path := writeBook(t, game.StartFEN+"\n")

	_, err := NewBook(path, "shuffled")
	assert.Error(t, err)
}
