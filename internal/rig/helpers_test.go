package rig

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/ikrig/internal/scene"
)

// newTestLogger returns a debug logger writing into buf.
func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// sceneSize returns the node count and journal length, used to prove a
// failed call left the scene untouched.
func sceneSize(t *testing.T, m *scene.Memory) (int, int) {
	t.Helper()
	ctx := context.Background()
	nodes, err := m.ListNodes(ctx, "")
	require.NoError(t, err)
	journal, err := m.Journal(ctx)
	require.NoError(t, err)
	return len(nodes), len(journal)
}

func mustLookup(t *testing.T, s scene.Scene, name string) scene.NodeID {
	t.Helper()
	id, ok, err := s.Lookup(context.Background(), name)
	require.NoError(t, err)
	require.True(t, ok, "node %q not found", name)
	return id
}

// incoming returns the source plug connected into dst, if any.
func incoming(t *testing.T, s scene.Scene, dst scene.Plug) (scene.Plug, bool) {
	t.Helper()
	conns, err := s.Connections(context.Background(), dst.Node)
	require.NoError(t, err)
	for _, c := range conns {
		if c.Dst == dst {
			return c.Src, true
		}
	}
	return scene.Plug{}, false
}
