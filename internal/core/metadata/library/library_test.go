package library

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/simmeta/internal/core/events/bus"
	"github.com/zeusync/simmeta/internal/core/observability/log"
)

func writeFile(t *testing.T, root, rel, body string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func seedDataset(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "physics/default.physics_config.json",
		`{"physics_simulator": "bullet", "gravity": [0, -3.7, 0], "friction_coefficient": 0.8}`)
	writeFile(t, root, "stages/mars.stage_config.json", `{"render_asset": "mars.glb"}`)
	writeFile(t, root, "objects/rock.object_config.json", `{"mass": 12.5, "render_asset": "rock.glb"}`)
	writeFile(t, root, "objects/pebble.object_config.json", `{"mass": 0.2}`)
	writeFile(t, root, "lighting/sun.lighting_config.json",
		`{"lights": {"sun": {"type": "directional", "direction": [0, -1, 0]}}}`)
	writeFile(t, root, "scenes/crater.scene_instance.json",
		`{"stage_instance": {"template_name": "mars"}, "object_instances": [{"template_name": "rock"}]}`)
	writeFile(t, root, "README.md", "not a template")
	return root
}

func TestLoadDataset(t *testing.T) {
	root := seedDataset(t)
	events := bus.New()
	var loaded atomic.Int32
	_, err := events.SubscribeTopic("dataset", bus.DatasetLoaded, func(bus.Event) error {
		loaded.Add(1)
		return nil
	})
	require.NoError(t, err)

	lib := New(root, log.Nop(), events)
	summary, err := lib.LoadDataset(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]int{
		"physics":  1,
		"stages":   1,
		"objects":  2,
		"lighting": 1,
		"scenes":   1,
	}, summary.Loaded)
	assert.Empty(t, summary.Failed)
	assert.Equal(t, int32(1), loaded.Load())

	assert.ElementsMatch(t,
		[]string{"objects/pebble.object_config.json", "objects/rock.object_config.json"},
		lib.Objects.Handles(""))

	stage, ok := lib.Stages.GetObjectByHandle("stages/mars.stage_config.json")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0, -3.7, 0}, stage.Gravity())
	assert.InDelta(t, 0.8, stage.FrictionCoefficient(), 1e-6)
}

func TestLoadDatasetSkipsUnchanged(t *testing.T) {
	root := seedDataset(t)
	lib := New(root, log.Nop(), nil)

	_, err := lib.LoadDataset(context.Background())
	require.NoError(t, err)
	rockID, ok := lib.Objects.GetObjectIDByHandle("objects/rock.object_config.json")
	require.True(t, ok)

	writeFile(t, root, "objects/rock.object_config.json", `{"mass": 40}`)
	require.NoError(t, os.Remove(filepath.Join(root, "objects", "pebble.object_config.json")))

	summary, err := lib.LoadDataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"objects": 1}, summary.Loaded)
	assert.Equal(t, 4, summary.Unchanged)
	assert.Equal(t, 1, summary.Removed)

	rock, ok := lib.Objects.GetObjectByHandle("objects/rock.object_config.json")
	require.True(t, ok)
	assert.InDelta(t, 40, rock.Mass(), 1e-9)
	assert.Equal(t, rockID, rock.ID())
	assert.False(t, lib.Objects.HasHandle("objects/pebble.object_config.json"))
}

func TestLoadDatasetRebuildsStagesWhenPhysicsChanges(t *testing.T) {
	root := seedDataset(t)
	lib := New(root, log.Nop(), nil)
	_, err := lib.LoadDataset(context.Background())
	require.NoError(t, err)
	const stageHandle = "stages/mars.stage_config.json"
	stageID, ok := lib.Stages.GetObjectIDByHandle(stageHandle)
	require.True(t, ok)

	writeFile(t, root, "physics/default.physics_config.json",
		`{"physics_simulator": "bullet", "gravity": [0, -1.6, 0], "friction_coefficient": 0.3}`)
	summary, err := lib.LoadDataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"physics": 1, "stages": 1}, summary.Loaded)
	assert.Equal(t, 4, summary.Unchanged)

	stage, ok := lib.Stages.GetObjectByHandle(stageHandle)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0, -1.6, 0}, stage.Gravity())
	assert.InDelta(t, 0.3, stage.FrictionCoefficient(), 1e-6)
	assert.Equal(t, stageID, stage.ID())

	require.NoError(t, os.Remove(filepath.Join(root, "physics", "default.physics_config.json")))
	summary, err = lib.LoadDataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Removed)
	assert.Equal(t, map[string]int{"stages": 1}, summary.Loaded)

	stage, ok = lib.Stages.GetObjectByHandle(stageHandle)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0, -9.8, 0}, stage.Gravity())
}

func TestLoadDatasetReportsFailures(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "objects/good.object_config.json", `{"mass": 1}`)
	writeFile(t, root, "objects/bad.object_config.json", `{"mass": `)

	lib := New(root, log.Nop(), nil)
	summary, err := lib.LoadDataset(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{filepath.Join(root, "objects", "bad.object_config.json")}, summary.Failed)
	assert.Equal(t, 1, summary.Loaded["objects"])
	assert.True(t, lib.Objects.HasHandle("objects/good.object_config.json"))
}

func TestFamilies(t *testing.T) {
	lib := New(t.TempDir(), nil, nil)

	names := make([]string, 0)
	for _, f := range lib.Families() {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"physics", "stages", "objects", "primitives", "lighting", "pbr", "scenes"}, names)

	prims, ok := lib.Family("primitives")
	require.True(t, ok)
	assert.Equal(t, 12, prims.NumObjects())

	handle := prims.Handles("uvSphereSolid")[0]
	tmpl, ok := prims.Lookup(handle)
	require.True(t, ok)
	desc := Describe(tmpl)
	assert.Equal(t, handle, desc["handle"])

	_, ok = lib.Family("nope")
	assert.False(t, ok)
}
