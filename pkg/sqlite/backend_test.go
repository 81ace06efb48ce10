package sqlite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tinyj/pkg/sqlite"
	"github.com/mesh-intelligence/tinyj/pkg/types"
)

func TestOpen(t *testing.T) {
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
	store, err := sqlite.Open(cfg)
	require.NoError(t, err)

	id, err := store.Insert(&types.Goal{
		Alias:      "garden",
		Goal:       "plant a garden",
		Priority:   4,
		Importance: 6,
		Difficulty: 3,
		Status:     types.NewStatus(types.GoalTypeBinary),
		GoalType:   types.GoalTypeBinary,
	})
	require.NoError(t, err)
	require.NoError(t, store.Detach())

	// A fresh backend over the same directory sees the goal.
	store = sqlite.NewBackend()
	require.NoError(t, store.Attach(cfg))
	defer store.Detach()
	found, err := store.Select(types.ByID(id))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "garden", found[0].Label())
}

func TestOpenInvalidConfig(t *testing.T) {
	_, err := sqlite.Open(types.Config{DataDir: t.TempDir()})
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
}
