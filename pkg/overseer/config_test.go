package overseer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laptudirm.com/x/overseer/pkg/provider"
)

func TestLoadGameFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
white:
  url: http://localhost:9001
black:
  url: http://localhost:9002
retries: 3
move-budget: 45s
book:
  file: openings.fen
  order: random
`), 0644))

	file, err := LoadGameFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9001", file.White.URL)
	assert.Equal(t, "http://localhost:9002", file.Black.URL)
	assert.Equal(t, 3, file.Retries)
	assert.Equal(t, "openings.fen", file.Book.File)
	assert.Equal(t, "random", file.Book.Order)

	budget, err := file.Budget()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, budget)
}

func TestGameFileBudgetDefaults(t *testing.T) {
	var file GameFile
	budget, err := file.Budget()
	require.NoError(t, err)
	assert.Equal(t, provider.DefaultBudget, budget)

	file.MoveBudget = "soonish"
	_, err = file.Budget()
	assert.Error(t, err)
}

func TestLoadGameFileMissing(t *testing.T) {
	_, err := LoadGameFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
