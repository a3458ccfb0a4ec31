package attributes

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetRejectsTypedValues(t *testing.T) {
	obj := NewObjectAttributes("chair")
	values := []any{"mesh.glb", 3, int64(3), 2.5, float32(2.5), true, mgl32.Vec3{1, 2, 3}, mgl32.QuatIdent()}

	for _, v := range values {
		err := obj.Set("mass", v)
		require.ErrorIs(t, err, ErrSchemaIntegrity, "value %v", v)
		err = obj.Set("render_asset", v)
		require.ErrorIs(t, err, ErrSchemaIntegrity, "value %v", v)
		err = obj.Set("not_a_field", v)
		require.ErrorIs(t, err, ErrSchemaIntegrity, "value %v", v)
	}

	assert.Equal(t, 1.0, obj.Mass())
	assert.Empty(t, obj.RenderAssetHandle())
	assert.False(t, obj.IsDirty())
	assert.Equal(t, 0, obj.NumUserDefinedConfigurations())
}

func TestSetRejectedOnEveryFamily(t *testing.T) {
	all := []Attributes{
		NewObjectAttributes("o"),
		NewStageAttributes("s"),
		NewCapsulePrimitiveAttributes(false),
		NewLightInstanceAttributes("l"),
		NewLightLayoutAttributes("ll"),
		NewPbrShaderAttributes("p"),
		NewPhysicsManagerAttributes("ph"),
		NewSceneInstanceAttributes("scene"),
		NewSceneObjectInstanceAttributes("inst"),
		NewSceneAOInstanceAttributes("ao"),
	}
	for _, a := range all {
		for _, key := range a.Values().Keys() {
			assert.ErrorIs(t, a.Set(key, 1), ErrSchemaIntegrity, "%s.%s", a.ClassKey(), key)
		}
		assert.False(t, a.IsDirty(), a.ClassKey())
	}
}

func TestDirtyTracking(t *testing.T) {
	obj := NewObjectAttributes("chair")
	assert.False(t, obj.IsDirty())
	assert.Equal(t, IDUnset, obj.ID())

	obj.SetMass(4)
	assert.True(t, obj.IsDirty())
	obj.MarkClean()
	assert.False(t, obj.IsDirty())

	require.NoError(t, obj.UserConfig().SetString("note", "blue"))
	assert.True(t, obj.IsDirty())
	assert.Equal(t, 1, obj.NumUserDefinedConfigurations())

	obj.MarkClean()
	sub := obj.UserConfig().EditSubconfig("extra")
	obj.MarkClean()
	require.NoError(t, sub.SetInt("n", 2))
	assert.True(t, obj.IsDirty())
}

func TestCloneIsIndependent(t *testing.T) {
	obj := NewObjectAttributes("chair")
	require.NoError(t, obj.UserConfig().SetString("color", "red"))
	obj.MarkClean()

	c := obj.Clone()
	c.SetMass(9)
	require.NoError(t, c.UserConfig().SetString("color", "green"))

	assert.Equal(t, 1.0, obj.Mass())
	color, _ := obj.UserConfig().GetString("color")
	assert.Equal(t, "red", color)
	assert.False(t, obj.IsDirty())
	assert.True(t, c.IsDirty())
}

func TestComputeCOMFromShape(t *testing.T) {
	obj := NewObjectAttributes("o")
	assert.True(t, obj.ComputeCOMFromShape())
	obj.SetCOM(mgl32.Vec3{0, 0.1, 0})
	assert.False(t, obj.ComputeCOMFromShape())
}

func TestAssetIsPrimitive(t *testing.T) {
	obj := NewObjectAttributes("o")
	assert.False(t, obj.RenderAssetIsPrimitive())

	obj.SetRenderAssetHandle(NewCapsulePrimitiveAttributes(false).BuildHandle())
	obj.SetCollisionAssetHandle("meshes/chair.glb")
	assert.True(t, obj.RenderAssetIsPrimitive())
	assert.False(t, obj.CollisionAssetIsPrimitive())

	for _, name := range PrimitiveClassNames() {
		assert.True(t, IsPrimitiveAssetHandle(name), name)
	}
	assert.False(t, IsPrimitiveAssetHandle("cubes.glb"))
	assert.NotContains(t, obj.Values().Keys(), "render_asset_is_primitive")
}

func TestSimplifyHandle(t *testing.T) {
	cases := map[string]string{
		"scenes/apt_1.scene_instance.json":    "apt_1",
		"objects/chair.object_config.json":    "chair",
		"/data/stages/room.stage_config.json": "room",
		"plain":                               "plain",
		"dir/v1.2_mesh.json":                  "v1.2_mesh",
	}
	for in, want := range cases {
		assert.Equal(t, want, SimplifyHandle(in), in)
	}
	assert.Equal(t, "apt_1", NewSceneInstanceAttributes("scenes/apt_1.scene_instance.json").SimplifiedHandle())
}

func TestObjectInfo(t *testing.T) {
	obj := NewObjectAttributes("chair")
	obj.SetID(3)

	header := obj.ObjectInfoHeader()
	info := obj.ObjectInfo()
	assert.Contains(t, header, "Class,Handle,ID,scale,")
	assert.Contains(t, info, "ObjectAttributes,chair,3,[1 1 1],")
}

func TestPhysicsSimulatorReadOnlyAfterRegistration(t *testing.T) {
	p := NewPhysicsManagerAttributes("default")
	require.NoError(t, p.SetSimulator("bullet"))

	p.SetID(0)
	require.ErrorIs(t, p.SetSimulator("none"), ErrReadOnly)
	assert.Equal(t, "bullet", p.Simulator())
	assert.Equal(t, 10, p.MaxSubsteps())
}

func TestSpotCone(t *testing.T) {
	l := NewLightInstanceAttributes("0")
	_, _, ok := l.SpotCone()
	assert.False(t, ok)
	assert.False(t, l.Values().HasSubconfig("spot"))

	l.SetType(LightSpot)
	inner, outer, ok := l.SpotCone()
	require.True(t, ok)
	assert.Equal(t, 0.0, inner)
	assert.InDelta(t, 0.785398, outer, 1e-6)
	assert.True(t, l.Values().HasSubconfig("spot"))
}

func TestLightLayoutOwnsInstances(t *testing.T) {
	layout := NewLightLayoutAttributes("lights")
	l := NewLightInstanceAttributes("key")
	layout.AddLightInstance(l)
	layout.AddLightInstance(NewLightInstanceAttributes("fill"))
	layout.MarkClean()

	l.SetIntensity(2)
	assert.True(t, layout.IsDirty())
	assert.Equal(t, []string{"key", "fill"}, layout.LightInstanceNames())

	c := layout.Clone()
	cl, _ := c.LightInstance("key")
	cl.SetIntensity(5)
	assert.Equal(t, 2.0, l.Intensity())

	assert.True(t, layout.RemoveLightInstance("key"))
	assert.Equal(t, 1, layout.NumLightInstances())
	assert.Equal(t, 2, c.NumLightInstances())
}

func TestEnumParsing(t *testing.T) {
	m, ok := ParseMotionType("DYNAMIC")
	require.True(t, ok)
	assert.Equal(t, MotionTypeDynamic, m)

	_, ok = ParseMotionType("floating")
	assert.False(t, ok)

	o, ok := ParseTranslationOrigin("Asset_Local")
	require.True(t, ok)
	assert.Equal(t, TranslationOriginAssetLocal, o)
	assert.Equal(t, "com", TranslationOriginCOM.String())

	s, ok := ParseShaderType("pbr")
	require.True(t, ok)
	assert.Equal(t, ShaderPBR, s)
	assert.Equal(t, "material", ShaderMaterial.String())
}
