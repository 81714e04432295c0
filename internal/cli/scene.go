package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/roach88/ikrig/internal/rig"
	"github.com/roach88/ikrig/internal/scene"
	"github.com/roach88/ikrig/internal/store"
)

// openScene opens the configured scene database. Unless create is set the
// file must already exist.
func openScene(opts *RootOptions, create bool) (*store.Store, error) {
	path := opts.Config.Database
	if path == "" {
		return nil, NewExitError(ExitCommandError, "no scene database configured: use --db or IKRIG_DB")
	}
	if !create {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("scene database not found: %s", path))
		}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open scene database", err)
	}
	return st, nil
}

// resolveNames maps node names to ids.
func resolveNames(ctx context.Context, s scene.Scene, names ...string) ([]scene.NodeID, error) {
	ids := make([]scene.NodeID, len(names))
	for i, name := range names {
		id, ok, err := s.Lookup(ctx, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, rig.NewMissingNodeError(name)
		}
		ids[i] = id
	}
	return ids, nil
}

// nodeNames maps ids back to names for output.
func nodeNames(ctx context.Context, s scene.Scene, ids []scene.NodeID) ([]string, error) {
	names := make([]string, len(ids))
	for i, id := range ids {
		name, err := s.Name(ctx, id)
		if err != nil {
			return nil, err
		}
		names[i] = name
	}
	return names, nil
}

// failRig reports a rig or scene error. RigErrors keep their code.
func failRig(f *OutputFormatter, err error) error {
	if code, ok := rig.CodeOf(err); ok {
		return f.Fail(ExitFailure, string(code), err.Error(), nil)
	}
	return f.Fail(ExitFailure, ErrCodeSceneFailed, err.Error(), nil)
}

// parseVec3 parses "x,y,z".
func parseVec3(s string) (mgl64.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("vector %q: want x,y,z", s)
	}
	var v mgl64.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return mgl64.Vec3{}, fmt.Errorf("vector %q: %w", s, err)
		}
		v[i] = f
	}
	return v, nil
}
