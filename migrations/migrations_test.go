package migrations

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(files, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	raw, err := fs.ReadFile(files, names[0])
	require.NoError(t, err)
	sql := string(raw)
	assert.Contains(t, sql, "-- +goose Up")
	assert.Contains(t, sql, "-- +goose Down")
	assert.Contains(t, sql, "original_size        BIGINT")
	assert.True(t, strings.Contains(sql, "idx_videos_public_id"))
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	err := Run(context.Background(), nil, Command("sideways"))
	assert.EqualError(t, err, `unknown migration command "sideways"`)
}
