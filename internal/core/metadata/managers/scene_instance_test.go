package managers

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/simmeta/internal/core/metadata/attributes"
)

func TestSceneInstanceFromFile(t *testing.T) {
	logger, logs := observedLogger(t)
	sm := NewSceneInstanceManager(WithRoot("testdata/scenes"), WithLogger(logger))

	scene, report, err := sm.CreateObject("apt_1", true)
	require.NoError(t, err)
	assert.True(t, report.OK(), report.String())
	assert.Zero(t, warnings(logs))

	assert.Equal(t, attributes.TranslationOriginAssetLocal, scene.TranslationOrigin())
	require.NotNil(t, scene.StageInstance())
	assert.Equal(t, "stages/room", scene.StageInstance().Handle())
	assert.Equal(t, attributes.ShaderPBR, scene.StageInstance().ShaderType())

	objs := scene.ObjectInstances()
	require.Len(t, objs, 2)
	chair, lamp := objs[0], objs[1]
	assert.Equal(t, "chair", chair.Handle())
	assert.Equal(t, attributes.MotionTypeDynamic, chair.MotionType())
	assert.Equal(t, mgl32.Vec3{1.5, 0, -2}, chair.Translation())
	assert.InDelta(t, 0.7071, chair.Rotation().W, 1e-6)
	assert.InDelta(t, 0.7071, chair.Rotation().V[1], 1e-6)
	assert.Equal(t, mgl32.Vec3{1, 2, 1}, chair.NonUniformScale())
	assert.Equal(t, 1.0, chair.UniformScale())
	owner, ok := chair.UserConfig().GetString("owner")
	require.True(t, ok)
	assert.Equal(t, "kitchen", owner)

	assert.False(t, lamp.IsInstanceVisible())
	assert.Equal(t, 2.5, lamp.MassScale())
	assert.Equal(t, attributes.MotionTypeUndefined, lamp.MotionType())
	assert.Equal(t, attributes.TranslationOriginCOM, scene.EffectiveTranslationOrigin(lamp))
	assert.Equal(t, attributes.TranslationOriginAssetLocal, scene.EffectiveTranslationOrigin(chair))

	aos := scene.ArticulatedObjectInstances()
	require.Len(t, aos, 1)
	fridge := aos[0]
	assert.True(t, fridge.FixedBase())
	assert.True(t, fridge.AutoClampJointLimits())
	vel := fridge.InitJointVelocities()
	assert.Equal(t, []string{"door", "drawer"}, vel.Keys())
	v, _ := vel.Get("drawer")
	assert.Equal(t, -1.0, v)

	assert.Equal(t, "studio", scene.LightingHandle())
	assert.Equal(t, "apt_1_nav", scene.NavmeshHandle())
	assert.Equal(t, "apt_1_semantic", scene.SemanticSceneHandle())

	user := scene.UserConfig()
	author, _ := user.GetString("author")
	rev, _ := user.GetInt("rev")
	notes, _ := user.GetString("notes")
	assert.Equal(t, "dataset-team", author)
	assert.Equal(t, 3, rev)
	assert.Equal(t, "kept for the user config", notes)
	assert.Equal(t, 3, scene.NumUserDefinedConfigurations())

	assert.False(t, scene.IsDirty())
	assert.Contains(t, scene.FileDirectory(), "scenes")
}

func TestMalformedObjectInstanceIsSkipped(t *testing.T) {
	logger, logs := observedLogger(t)
	sm := NewSceneInstanceManager(WithLogger(logger))
	doc := `{
		"stage_instance": {"template_name": "room"},
		"object_instances": [{"template_name": "chair"}, 42]
	}`

	scene, report, err := sm.CreateObjectFromJSON("apt", []byte(doc), false)
	require.NoError(t, err)
	assert.Equal(t, 1, scene.NumObjectInstances())
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "object_instances[1]", report.Warnings[0].Path)
	assert.Equal(t, 1, warnings(logs))
}

func TestMalformedArticulatedInstanceIsSkipped(t *testing.T) {
	sm := NewSceneInstanceManager()
	doc := `{
		"stage_instance": {"template_name": "room"},
		"articulated_object_instances": ["fridge", {"template_name": "fridge"}, null]
	}`

	scene, report, err := sm.CreateObjectFromJSON("apt", []byte(doc), false)
	require.NoError(t, err)
	assert.Equal(t, 1, scene.NumArticulatedObjectInstances())
	assert.Len(t, report.Warnings, 2)
}

func TestInstanceArraysOfWrongShape(t *testing.T) {
	sm := NewSceneInstanceManager()
	doc := `{
		"stage_instance": {"template_name": "room"},
		"object_instances": {"template_name": "chair"},
		"articulated_object_instances": "fridge"
	}`

	scene, report, err := sm.CreateObjectFromJSON("apt", []byte(doc), false)
	require.NoError(t, err)
	assert.Zero(t, scene.NumObjectInstances())
	assert.Zero(t, scene.NumArticulatedObjectInstances())
	assert.Len(t, report.Warnings, 2)
}

func TestJointPoseArrayKeys(t *testing.T) {
	sm := NewSceneInstanceManager()
	doc := `{
		"stage_instance": {"template_name": "room"},
		"articulated_object_instances": [
			{"template_name": "cabinet", "initial_joint_pose": [0.1, 0.2, 0.3]}
		]
	}`

	scene, _, err := sm.CreateObjectFromJSON("apt", []byte(doc), false)
	require.NoError(t, err)
	pose := scene.ArticulatedObjectInstances()[0].InitJointPose()
	assert.Equal(t, []string{"joint_00", "joint_01", "joint_02"}, pose.Keys())
	for key, want := range map[string]float64{"joint_00": 0.1, "joint_01": 0.2, "joint_02": 0.3} {
		got, ok := pose.Get(key)
		require.True(t, ok, key)
		assert.InDelta(t, want, got, 1e-9, key)
	}
}

func TestJointPoseOfWrongShape(t *testing.T) {
	sm := NewSceneInstanceManager()
	doc := `{
		"stage_instance": {"template_name": "room"},
		"articulated_object_instances": [
			{"template_name": "cabinet", "initial_joint_pose": 0.5, "fixed_base": true}
		]
	}`

	scene, report, err := sm.CreateObjectFromJSON("apt", []byte(doc), false)
	require.NoError(t, err)
	ao := scene.ArticulatedObjectInstances()[0]
	assert.Zero(t, ao.InitJointPose().Len())
	assert.True(t, ao.FixedBase())
	assert.Len(t, report.Warnings, 1)
}

func TestDefaultSceneGetsNoneStage(t *testing.T) {
	sm := NewSceneInstanceManager(WithRoot("testdata"))

	scene, report, err := sm.CreateObject("default_attributes", true)
	require.NoError(t, err)
	assert.True(t, report.OK())
	require.NotNil(t, scene.StageInstance())
	assert.Equal(t, attributes.NoStageHandle, scene.StageInstance().Handle())
	assert.Equal(t, attributes.TranslationOriginCOM, scene.TranslationOrigin())
}

func TestMissingStageIsFatal(t *testing.T) {
	sm := NewSceneInstanceManager()

	_, _, err := sm.CreateObjectFromJSON("apt", []byte(`{"object_instances": []}`), true)
	require.ErrorIs(t, err, ErrMissingStageInstance)
	assert.Zero(t, sm.NumObjects())

	_, _, err = sm.CreateObjectFromJSON("scenes/default_attributes.scene_instance.json", []byte(`{}`), false)
	assert.NoError(t, err)
}

func TestStageInstanceNotAnObject(t *testing.T) {
	sm := NewSceneInstanceManager()
	scene, report, err := sm.CreateObjectFromJSON("apt", []byte(`{"stage_instance": "room"}`), false)
	require.NoError(t, err)
	assert.Nil(t, scene.StageInstance())
	assert.Len(t, report.Warnings, 1)
}

func TestUnknownMotionTypeLeavesItUnset(t *testing.T) {
	logger, logs := observedLogger(t)
	sm := NewSceneInstanceManager(WithLogger(logger))
	doc := `{
		"stage_instance": {"template_name": "room"},
		"object_instances": [
			{"template_name": "chair", "motion_type": "floating", "mass_scale": 3, "translation": [1, 2, 3]}
		]
	}`

	scene, report, err := sm.CreateObjectFromJSON("apt", []byte(doc), false)
	require.NoError(t, err)
	inst := scene.ObjectInstances()[0]
	assert.Equal(t, attributes.MotionTypeUndefined, inst.MotionType())
	assert.Equal(t, 3.0, inst.MassScale())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, inst.Translation())
	assert.Len(t, report.Warnings, 1)
	assert.Equal(t, 1, warnings(logs))
}

func TestUnknownTranslationOriginDefersToUnknown(t *testing.T) {
	sm := NewSceneInstanceManager()
	doc := `{
		"translation_origin": "middle",
		"stage_instance": {"template_name": "room", "shader_type": "cel"}
	}`

	scene, report, err := sm.CreateObjectFromJSON("apt", []byte(doc), false)
	require.NoError(t, err)
	assert.Equal(t, attributes.TranslationOriginUnknown, scene.TranslationOrigin())
	assert.Equal(t, attributes.ShaderUnspecified, scene.StageInstance().ShaderType())
	assert.Len(t, report.Warnings, 2)
}

func TestSparseOverrideKeepsDefaults(t *testing.T) {
	sm := NewSceneInstanceManager()
	doc := `{"stage_instance": {"template_name": "room", "uniform_scale": 2}}`

	scene, _, err := sm.CreateObjectFromJSON("apt", []byte(doc), false)
	require.NoError(t, err)
	stage := scene.StageInstance()
	assert.Equal(t, 2.0, stage.UniformScale())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, stage.NonUniformScale())
	assert.Equal(t, mgl32.QuatIdent(), stage.Rotation())
	assert.True(t, stage.IsInstanceVisible())
	assert.Equal(t, 1.0, stage.MassScale())
}
