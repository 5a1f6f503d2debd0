package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/concert-seat-reservation/internal/app"
	"github.com/iliyamo/concert-seat-reservation/internal/config"
	"github.com/iliyamo/concert-seat-reservation/internal/reservation"
)

func memoryOptions(t *testing.T) *RootOptions {
	t.Helper()
	t.Setenv("REDIS_ADDR", "127.0.0.1:1")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	return &RootOptions{
		open: func(ctx context.Context) (*app.App, error) {
			return app.New(ctx, config.Config{
				StoreBackend: config.StoreMemory,
				JWTSecret:    "s",
				AccessTTLMin: 5,
				BcryptCost:   4,
			})
		},
	}
}

func run(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCountsText(t *testing.T) {
	out, err := run(t, memoryOptions(t), "counts", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "event 1:")
	assert.Contains(t, out, "reserved")
}

func TestCountsJSON(t *testing.T) {
	out, err := run(t, memoryOptions(t), "counts", "1", "--json")
	require.NoError(t, err)

	var c reservation.Counts
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, c.Total, c.Reserved+c.Available)
	assert.Equal(t, c.Rows*c.Columns, c.Total)
}

func TestCountsRejectsBadArgs(t *testing.T) {
	_, err := run(t, memoryOptions(t), "counts")
	assert.Error(t, err)

	_, err = run(t, memoryOptions(t), "counts", "abc")
	assert.ErrorContains(t, err, "invalid event id")

	_, err = run(t, memoryOptions(t), "counts", "999")
	assert.ErrorIs(t, err, reservation.ErrNotFound)
}

func TestEventsListsSeededConcerts(t *testing.T) {
	out, err := run(t, memoryOptions(t), "events")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Oasis")
}

func TestMigrateNeedsMySQL(t *testing.T) {
	_, err := run(t, memoryOptions(t), "migrate")
	assert.ErrorContains(t, err, "STORE_BACKEND=mysql")
}

func TestSeedIsIdempotent(t *testing.T) {
	_, err := run(t, memoryOptions(t), "seed")
	assert.NoError(t, err)
}
