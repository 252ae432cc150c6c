package filesource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "acme-news.json"), []byte(`{"ads": []}`), 0o644))
	src := New(dir)

	body, err := src.Fetch(context.Background(), "Acme News")
	require.NoError(t, err)
	assert.Equal(t, `{"ads": []}`, string(body))

	_, err = src.Fetch(context.Background(), "missing keyword")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = src.Fetch(context.Background(), "!!!")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetch_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(t.TempDir()).Fetch(ctx, "acme")
	assert.ErrorIs(t, err, context.Canceled)
}
