package managers

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/simmeta/internal/core/metadata/attributes"
)

func TestObjectConfig(t *testing.T) {
	om := NewObjectManager(WithRoot("testdata/objects"))
	chair, _, err := om.CreateObject("chair", true)
	require.NoError(t, err)

	assert.Equal(t, "chair.glb", chair.RenderAssetHandle())
	assert.Equal(t, "chair.glb", chair.CollisionAssetHandle())
	assert.False(t, chair.ComputeCOMFromShape())
	assert.Equal(t, mgl32.Vec3{0, 0.25, 0}, chair.COM())
	assert.Equal(t, 0.8, chair.FrictionCoefficient())
	assert.Equal(t, attributes.ShaderPhong, chair.ShaderType())
	assert.True(t, chair.BoundingBoxCollisions())
	assert.Equal(t, 7, chair.SemanticID())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, chair.Scale())
	material, _ := chair.UserConfig().GetString("material")
	assert.Equal(t, "oak", material)
}

func TestObjectWithPrimitiveAssets(t *testing.T) {
	logger, logs := observedLogger(t)
	om := NewObjectManager(WithRoot("testdata/objects"), WithLogger(logger))
	ball, report, err := om.CreateObject("ball", false)
	require.NoError(t, err)

	assert.True(t, ball.RenderAssetIsPrimitive())
	assert.True(t, ball.CollisionAssetIsPrimitive())
	assert.Equal(t, attributes.AssetPrimitive, ball.RenderAssetType())
	assert.Equal(t, attributes.ShaderMaterial, ball.ShaderType())
	assert.Len(t, report.Warnings, 1)
	assert.Equal(t, 1, warnings(logs))
}

func TestWrongJSONTypeWarns(t *testing.T) {
	om := NewObjectManager()
	obj, report, err := om.CreateObjectFromJSON("o", []byte(`{"mass": "heavy", "scale": [1, 2], "semantic_id": 1.5, "is_visible": 0}`), false)
	require.NoError(t, err)
	assert.Len(t, report.Warnings, 4)
	assert.Equal(t, 1.0, obj.Mass())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, obj.Scale())
	assert.True(t, obj.IsVisible())
}

func TestStageConfig(t *testing.T) {
	sm := NewStageManager(WithRoot("testdata/stages"))
	physics := attributes.NewPhysicsManagerAttributes("p")
	physics.SetFrictionCoefficient(0.7)
	sm.SetPhysicsDefaults(physics)

	room, _, err := sm.CreateObject("room", true)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{0, -3.7, 0}, room.Gravity())
	assert.Equal(t, 0.7, room.FrictionCoefficient())
	assert.Equal(t, "room.navmesh", room.NavmeshAssetHandle())
	assert.Equal(t, "room.house", room.SemanticDescriptorFilename())
	assert.False(t, room.FrustumCulling())
	assert.Equal(t, 0.03, room.Margin())

	empty, err := sm.CreateDefaultObject("void")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{0, -9.8, 0}, empty.Gravity())
	assert.False(t, empty.IsDirty())
}

func TestAssetManagerDefaults(t *testing.T) {
	am := NewAssetManager()
	assert.Equal(t, 12, am.NumObjects())

	h := am.DefaultPrimitiveHandle(attributes.PrimCapsule, false)
	prim, ok := am.GetObjectByHandle(h)
	require.True(t, ok)
	assert.Equal(t, "capsule3DSolid", prim.PrimObjClassName())

	_, err := am.RemoveObjectByHandle(h)
	assert.ErrorIs(t, err, ErrHandleLocked)
}

func TestAssetManagerRegistersByBuiltHandle(t *testing.T) {
	am := NewAssetManager()
	prim, _, err := am.CreateObjectFromJSON("uvSphereSolid", []byte(`{"num_rings": 12, "num_segments": 24}`), false)
	require.NoError(t, err)

	id, err := am.RegisterObject(prim, "anything", false)
	require.NoError(t, err)
	assert.Equal(t, "uvSphereSolid_rings_12_segments_24_useTexCoords_false_useTangents_false", prim.Handle())

	again, err := am.RegisterObject(prim.Clone(), "", false)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	bad := attributes.NewUVSpherePrimitiveAttributes(true)
	bad.SetNumRings(7)
	_, err = am.RegisterObject(bad, "", false)
	assert.ErrorIs(t, err, ErrInvalidTemplate)

	_, _, err = am.CreateObject("torusSolid", false)
	assert.ErrorIs(t, err, ErrUnknownClass)

	cp, _, err := am.CreateObject(prim.Handle(), false)
	require.NoError(t, err)
	assert.Equal(t, "uvSphereSolid", cp.PrimObjClassName())
}

func TestLightLayoutConfig(t *testing.T) {
	lm := NewLightLayoutManager(WithRoot("testdata/lighting"))
	layout, report, err := lm.CreateObject("studio", true)
	require.NoError(t, err)

	assert.Equal(t, []string{"key", "sun", "spot", "odd"}, layout.LightInstanceNames())
	assert.Len(t, report.Warnings, 2)
	assert.Equal(t, 1.5, layout.PositiveIntensityScale())

	key, _ := layout.LightInstance("key")
	assert.Equal(t, 4.0, key.Intensity())
	sun, _ := layout.LightInstance("sun")
	assert.Equal(t, attributes.LightDirectional, sun.Type())
	spot, _ := layout.LightInstance("spot")
	inner, outer, ok := spot.SpotCone()
	require.True(t, ok)
	assert.InDelta(t, 15*math.Pi/180, inner, 1e-9)
	assert.InDelta(t, 30*math.Pi/180, outer, 1e-9)
	odd, _ := layout.LightInstance("odd")
	assert.Equal(t, attributes.LightPoint, odd.Type())
}

func TestPbrShaderConfig(t *testing.T) {
	pm := NewPbrShaderManager(WithRoot("testdata/pbr"))
	pbr, report, err := pm.CreateObject("default", true)
	require.NoError(t, err)
	assert.True(t, report.OK())

	assert.True(t, pbr.EnableIBL())
	assert.True(t, pbr.UseLambertian())
	assert.False(t, pbr.UseDirectTonemap())
	assert.Equal(t, 2.5, pbr.DirectLightIntensity())
	assert.True(t, pbr.SkipClearcoatCalc())
	assert.Equal(t, 3.0, pbr.TonemapExposure())
	assert.Equal(t, 2.2, pbr.Gamma())
}

func TestPhysicsConfig(t *testing.T) {
	pm := NewPhysicsManager(WithRoot("testdata/physics"))
	phys, _, err := pm.CreateObject("default", true)
	require.NoError(t, err)

	assert.Equal(t, "bullet", phys.Simulator())
	assert.Equal(t, 0.004, phys.Timestep())
	assert.Equal(t, 4, phys.MaxSubsteps())
	assert.InDelta(t, -9.81, phys.Gravity()[1], 1e-6)
	assert.ErrorIs(t, phys.SetSimulator("none"), attributes.ErrReadOnly)
}

func TestUnknownEnumWarnsWithAcceptedNames(t *testing.T) {
	om := NewObjectManager()
	obj, report, err := om.CreateObjectFromJSON("o", []byte(`{"shader_type": "toon"}`), false)
	require.NoError(t, err)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "shader_type", report.Warnings[0].Path)
	assert.Contains(t, report.Warnings[0].Message, `"toon"`)
	for _, name := range attributes.ShaderTypeNames() {
		assert.Contains(t, report.Warnings[0].Message, name)
	}
	assert.Equal(t, attributes.ShaderMaterial, obj.ShaderType())
}

func TestStagePhysicsDefaultsLogged(t *testing.T) {
	logger, logs := observedLogger(t)
	sm := NewStageManager(WithLogger(logger))
	physics := attributes.NewPhysicsManagerAttributes("mars")
	physics.SetGravity(mgl32.Vec3{0, -3.7, 0})
	physics.SetFrictionCoefficient(0.4)
	sm.SetPhysicsDefaults(physics)

	entries := logs.FilterMessage("stage physics defaults updated").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "mars", fields["source"])
	assert.Equal(t, 0.4, fields["friction"])
	assert.Equal(t, mgl32.Vec3{0, -3.7, 0}, fields["gravity"])
}
