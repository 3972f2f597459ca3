package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/arcade-be/internal/auth"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd("1.2.3", "abc123")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "arcade-be 1.2.3 (abc123)\n", out)
}

func TestGamesSeedWithMemoryStore(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-test")
	t.Setenv("DATABASE_DRIVER", "memory")

	out, err := run(t, "games", "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "snake")
	assert.Contains(t, out, "tetris")
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- id: chess
  title: Chess
  category: Board
- id: pong
  title: Pong
  inactive: true
`), 0o600))

	games, err := loadCatalog(path)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "chess", games[0].Slug)
	assert.True(t, games[0].IsActive)
	assert.False(t, games[1].IsActive)

	_, err = loadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestOpenStoreRejectsUnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-test")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	_, err := run(t, "games", "seed")
	assert.Error(t, err)
}

func TestRootRunsServeByDefault(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-test")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	// An invalid driver fails while serve loads config, before anything listens.
	_, err := run(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_DRIVER")
}

func TestAdminCreateRejectsUnhashablePassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-test")
	t.Setenv("DATABASE_DRIVER", "memory")

	_, err := run(t, "admin", "create", "--username", "ops", "--password", strings.Repeat("p", 73))
	require.ErrorIs(t, err, auth.ErrPasswordTooLong)
}
