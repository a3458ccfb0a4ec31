package managers

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/simmeta/internal/core/events/bus"
	"github.com/zeusync/simmeta/internal/core/metadata/attributes"
)

func TestRegisterAssignsFreshIDs(t *testing.T) {
	om := NewObjectManager()

	id0, err := om.RegisterObject(attributes.NewObjectAttributes("a"), "a", false)
	require.NoError(t, err)
	id1, err := om.RegisterObject(attributes.NewObjectAttributes("b"), "b", false)
	require.NoError(t, err)
	assert.NotEqual(t, id0, id1)

	obj, ok := om.GetObjectByID(id1)
	require.True(t, ok)
	assert.Equal(t, "b", obj.Handle())
	assert.Equal(t, id1, obj.ID())
}

func TestReRegisterReusesIDAndClearsDirty(t *testing.T) {
	om := NewObjectManager()
	obj := attributes.NewObjectAttributes("chair")
	id, err := om.RegisterObject(obj, "chair", false)
	require.NoError(t, err)

	cp, err := om.GetObjectCopyByHandle("chair")
	require.NoError(t, err)
	cp.SetMass(12)
	assert.True(t, cp.IsDirty())
	assert.Equal(t, 1.0, obj.Mass())

	id2, err := om.RegisterObject(cp, "chair", false)
	require.NoError(t, err)
	assert.Equal(t, id, id2)
	assert.False(t, cp.IsDirty())

	dirty, err := om.IsDirty("chair")
	require.NoError(t, err)
	assert.False(t, dirty)

	got, _ := om.GetObjectByHandle("chair")
	assert.Equal(t, 12.0, got.Mass())
	assert.Equal(t, 1, om.NumObjects())
}

func TestIDsAreNeverReused(t *testing.T) {
	om := NewObjectManager()
	idA, _ := om.RegisterObject(attributes.NewObjectAttributes("a"), "", false)
	_, err := om.RemoveObjectByHandle("a")
	require.NoError(t, err)

	idB, err := om.RegisterObject(attributes.NewObjectAttributes("b"), "", false)
	require.NoError(t, err)
	assert.NotEqual(t, idA, idB)

	_, ok := om.GetObjectByID(idA)
	assert.False(t, ok)
	_, ok = om.GetObjectIDByHandle("a")
	assert.False(t, ok)
}

func TestConcurrentRegistrationGetsDistinctIDs(t *testing.T) {
	om := NewObjectManager()
	const n = 64
	ids := make([]int, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h := filepath.Join("obj", string(rune('A'+i%26)), string(rune('a'+i/26)))
			ids[i], _ = om.RegisterObject(attributes.NewObjectAttributes(h), h, false)
		}()
	}
	wg.Wait()

	seen := make(map[int]bool, n)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Equal(t, n, om.NumObjects())
}

func TestLockedHandles(t *testing.T) {
	om := NewObjectManager()
	_, err := om.RegisterObject(attributes.NewObjectAttributes("chair"), "chair", false)
	require.NoError(t, err)
	require.NoError(t, om.SetLock("chair", true))

	_, err = om.RegisterObject(attributes.NewObjectAttributes("chair"), "chair", false)
	assert.ErrorIs(t, err, ErrHandleLocked)
	_, err = om.RemoveObjectByHandle("chair")
	assert.ErrorIs(t, err, ErrHandleLocked)

	_, err = om.RegisterObject(attributes.NewObjectAttributes("chair"), "chair", true)
	assert.NoError(t, err)

	require.NoError(t, om.SetLock("chair", false))
	_, err = om.RemoveObjectByHandle("chair")
	assert.NoError(t, err)
	assert.ErrorIs(t, om.SetLock("chair", true), ErrNotFound)
}

func TestCreateObjectFallsBackToDefaults(t *testing.T) {
	logger, logs := observedLogger(t)
	om := NewObjectManager(WithRoot("testdata/objects"), WithLogger(logger))

	obj, report, err := om.CreateObject("stool", true)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 1.0, obj.Mass())
	assert.Empty(t, obj.FileDirectory())
	assert.Equal(t, 1, logs.FilterMessage("no config file found, using defaults").Len())
	assert.True(t, om.HasHandle("stool"))
}

func TestCreateObjectStaysUnderRoot(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "root")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.object_config.json"), []byte(`{"mass": 99}`), 0o644))

	om := NewObjectManager(WithRoot(root))
	obj, _, err := om.CreateObject("../secret", false)
	require.NoError(t, err)
	assert.Equal(t, 1.0, obj.Mass())
}

func TestCreateObjectReadsFile(t *testing.T) {
	om := NewObjectManager(WithRoot("testdata/objects"))
	obj, report, err := om.CreateObject("chair", false)
	require.NoError(t, err)
	assert.True(t, report.OK(), report.String())
	assert.Equal(t, 4.5, obj.Mass())
	assert.Equal(t, attributes.IDUnset, obj.ID())
	assert.Equal(t, "objects", filepath.Base(obj.FileDirectory()))
	assert.False(t, om.HasHandle("chair"))
}

func TestCreateObjectFromInvalidJSON(t *testing.T) {
	om := NewObjectManager()
	_, _, err := om.CreateObjectFromJSON("bad", []byte(`{"mass": `), false)
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, _, err = om.CreateObjectFromJSON("list", []byte(`[1, 2]`), false)
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, _, err = om.CreateObjectFromJSON("", []byte(`{}`), false)
	assert.ErrorIs(t, err, ErrEmptyHandle)
}

func TestDefaultObjectSeedsNewTemplates(t *testing.T) {
	om := NewObjectManager()
	def := attributes.NewObjectAttributes("heavy")
	def.SetMass(50)
	om.SetDefaultObject(def)

	obj, _, err := om.CreateObjectFromJSON("crate", []byte(`{"friction_coefficient": 0.9}`), false)
	require.NoError(t, err)
	assert.Equal(t, 50.0, obj.Mass())
	assert.Equal(t, 0.9, obj.FrictionCoefficient())
	assert.Equal(t, "crate", obj.Handle())

	om.ClearDefaultObject()
	obj, err = om.CreateDefaultObject("crate")
	require.NoError(t, err)
	assert.Equal(t, 1.0, obj.Mass())
	assert.False(t, obj.IsDirty())
}

func TestRegistryEvents(t *testing.T) {
	events := bus.New()
	var got []bus.Event
	_, err := events.Subscribe(bus.AnyType, func(e bus.Event) error {
		got = append(got, e)
		return nil
	})
	require.NoError(t, err)

	om := NewObjectManager(WithEventBus(events))
	_, err = om.RegisterObject(attributes.NewObjectAttributes("chair"), "chair", false)
	require.NoError(t, err)
	_, err = om.RemoveObjectByHandle("chair")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, bus.TemplateRegistered, got[0].Type)
	assert.Equal(t, bus.TemplateRemoved, got[1].Type)
	assert.Equal(t, "objects", got[0].Topic)
	assert.Equal(t, attributes.ClassObject, got[0].ClassKey)
}

func TestHandlesAndUserConfigCount(t *testing.T) {
	om := NewObjectManager(WithRoot("testdata/objects"))
	_, _, err := om.CreateObject("chair", true)
	require.NoError(t, err)
	_, _, err = om.CreateObject("ball", true)
	require.NoError(t, err)

	assert.Equal(t, []string{"ball", "chair"}, om.Handles(""))
	assert.Equal(t, []string{"chair"}, om.Handles("ch"))

	n, err := om.NumUserDefinedConfigurations("chair")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = om.NumUserDefinedConfigurations("sofa")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadFiles(t *testing.T) {
	logger, _ := observedLogger(t)
	sm := NewSceneInstanceManager(WithRoot("testdata"), WithLogger(logger))
	paths := []string{
		filepath.Join("testdata", "scenes", "apt_1.scene_instance.json"),
		filepath.Join("testdata", "default_attributes.scene_instance.json"),
		filepath.Join("testdata", "missing.scene_instance.json"),
	}

	results, err := sm.LoadFiles(context.Background(), paths)
	require.Error(t, err)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, "scenes/apt_1.scene_instance.json", results[0].Handle)
	assert.NoError(t, results[1].Err)
	assert.Error(t, results[2].Err)

	assert.Less(t, results[0].ID, results[1].ID)
	assert.Equal(t, 2, sm.NumObjects())
	scene, ok := sm.GetObjectByHandle("scenes/apt_1.scene_instance.json")
	require.True(t, ok)
	assert.Equal(t, "apt_1", scene.SimplifiedHandle())
}

func TestRegisterSameObjectUnderSecondHandleStoresCopy(t *testing.T) {
	om := NewObjectManager()
	obj := attributes.NewObjectAttributes("a")
	idA, err := om.RegisterObject(obj, "a", false)
	require.NoError(t, err)

	idB, err := om.RegisterObject(obj, "b", false)
	require.NoError(t, err)
	assert.NotEqual(t, idA, idB)
	assert.Equal(t, idA, obj.ID())
	assert.Equal(t, "a", obj.Handle())

	a, ok := om.GetObjectByHandle("a")
	require.True(t, ok)
	assert.Same(t, obj, a)

	b, ok := om.GetObjectByHandle("b")
	require.True(t, ok)
	assert.NotSame(t, obj, b)
	assert.Equal(t, "b", b.Handle())
	assert.Equal(t, idB, b.ID())
}

func TestRegisterRenamedObjectMovesEntry(t *testing.T) {
	events := bus.New()
	var removed []string
	_, err := events.Subscribe(bus.TemplateRemoved, func(ev bus.Event) error {
		removed = append(removed, ev.Handle)
		return nil
	})
	require.NoError(t, err)

	om := NewObjectManager(WithEventBus(events))
	obj := attributes.NewObjectAttributes("chair")
	oldID, err := om.RegisterObject(obj, "chair", false)
	require.NoError(t, err)

	obj.SetHandle("stool")
	newID, err := om.RegisterObject(obj, "", false)
	require.NoError(t, err)
	assert.NotEqual(t, oldID, newID)
	assert.False(t, om.HasHandle("chair"))
	assert.Equal(t, []string{"chair"}, removed)

	got, ok := om.GetObjectByID(newID)
	require.True(t, ok)
	assert.Same(t, obj, got)
	_, ok = om.GetObjectByID(oldID)
	assert.False(t, ok)

	require.NoError(t, om.SetLock("stool", true))
	obj.SetHandle("bench")
	_, err = om.RegisterObject(obj, "", false)
	assert.ErrorIs(t, err, ErrHandleLocked)
	assert.True(t, om.HasHandle("stool"))
	assert.False(t, om.HasHandle("bench"))
}
