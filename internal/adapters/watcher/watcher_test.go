package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ontoenv/internal/adapters/watcher"
	"go.trai.ch/ontoenv/internal/core/ports"
)

func TestInSkippedDirectory(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/onto/a.ttl", want: false},
		{path: "/onto/sub/a.ttl", want: false},
		{path: "/onto/.ontoenv", want: true},
		{path: "/onto/.ontoenv/index.json", want: true},
		{path: "/onto/.git/HEAD", want: true},
		{path: "/onto/node_modules/pkg/a.ttl", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, watcher.InSkippedDirectory(tt.path))
		})
	}
}

func TestWatcher_ReportsWrites(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".ontoenv"), 0o750))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	w := watcher.NewWatcher(nil)
	require.NoError(t, w.Start(ctx, root))
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(filepath.Join(root, ".ontoenv", "index.json"), []byte("{}"), 0o600))
	target := filepath.Join(root, "sub", "a.ttl")
	require.NoError(t, os.WriteFile(target, []byte("<urn:a> <urn:p> <urn:o> ."), 0o600))

	for event := range w.Events() {
		assert.NotContains(t, event.Path, ".ontoenv")
		if event.Path == target {
			assert.Contains(t, []ports.WatchOp{ports.OpCreate, ports.OpWrite}, event.Operation)
			return
		}
	}
	t.Fatal("event stream ended before the write was observed")
}

func TestWatcher_StopBeforeStart(t *testing.T) {
	w := watcher.NewWatcher(nil)
	assert.NoError(t, w.Stop())
}
