package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/ikrig/internal/scene"
)

// createTestStore creates a new store in a temporary directory with
// sequential node ids.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithIDGenerator(scene.NewSequentialGenerator("n")))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestJoint creates a joint and fails the test on error.
func createTestJoint(t *testing.T, s *Store, name string, parent scene.NodeID) scene.NodeID {
	t.Helper()
	id, err := s.CreateNode(context.Background(), scene.TypeJoint, name, parent)
	if err != nil {
		t.Fatalf("CreateNode(%q) failed: %v", name, err)
	}
	return id
}
