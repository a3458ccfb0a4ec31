package attributes

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/zeusync/simmeta/internal/core/metadata/config"
)

const (
	ClassSceneInstance         = "SceneInstanceAttributes"
	ClassSceneObjectInstance   = "SceneObjectInstanceAttributes"
	ClassSceneAOInstance       = "SceneAOInstanceAttributes"
	DefaultSceneInstanceHandle = "default_attributes"
	// NoStageHandle is the stage template of the implicit dataset-root scene.
	NoStageHandle = "NONE"
)

// SceneObjectInstanceAttributes places one template in a scene. Its handle is
// the referenced template's handle.
type SceneObjectInstanceAttributes struct {
	Base

	translation       mgl32.Vec3
	translationOrigin TranslationOrigin
	rotation          mgl32.Quat
	motionType        MotionType
	shaderType        ShaderType
	uniformScale      float64
	nonUniformScale   mgl32.Vec3
	isInstanceVisible bool
	massScale         float64
}

func (a *SceneObjectInstanceAttributes) initInstance() {
	a.rotation = mgl32.QuatIdent()
	a.uniformScale = 1
	a.nonUniformScale = mgl32.Vec3{1, 1, 1}
	a.isInstanceVisible = true
	a.massScale = 1
}

func NewSceneObjectInstanceAttributes(handle string) *SceneObjectInstanceAttributes {
	a := &SceneObjectInstanceAttributes{}
	a.initInstance()
	a.bind(ClassSceneObjectInstance, handle, a.Values)
	return a
}

func (a *SceneObjectInstanceAttributes) Clone() *SceneObjectInstanceAttributes {
	c := *a
	c.rebind(c.Values)
	return &c
}

func (a *SceneObjectInstanceAttributes) Translation() mgl32.Vec3 { return a.translation }

// TranslationOrigin is the instance's own setting; see
// SceneInstanceAttributes.EffectiveTranslationOrigin for the resolved frame.
func (a *SceneObjectInstanceAttributes) TranslationOrigin() TranslationOrigin {
	return a.translationOrigin
}
func (a *SceneObjectInstanceAttributes) Rotation() mgl32.Quat        { return a.rotation }
func (a *SceneObjectInstanceAttributes) MotionType() MotionType      { return a.motionType }
func (a *SceneObjectInstanceAttributes) ShaderType() ShaderType      { return a.shaderType }
func (a *SceneObjectInstanceAttributes) UniformScale() float64       { return a.uniformScale }
func (a *SceneObjectInstanceAttributes) NonUniformScale() mgl32.Vec3 { return a.nonUniformScale }
func (a *SceneObjectInstanceAttributes) IsInstanceVisible() bool     { return a.isInstanceVisible }
func (a *SceneObjectInstanceAttributes) MassScale() float64          { return a.massScale }

func (a *SceneObjectInstanceAttributes) SetTranslation(v mgl32.Vec3) {
	a.translation = v
	a.markDirty()
}

func (a *SceneObjectInstanceAttributes) SetTranslationOrigin(o TranslationOrigin) {
	a.translationOrigin = o
	a.markDirty()
}

func (a *SceneObjectInstanceAttributes) SetRotation(q mgl32.Quat) {
	a.rotation = q
	a.markDirty()
}

func (a *SceneObjectInstanceAttributes) SetMotionType(m MotionType) {
	a.motionType = m
	a.markDirty()
}

func (a *SceneObjectInstanceAttributes) SetShaderType(s ShaderType) {
	a.shaderType = s
	a.markDirty()
}

func (a *SceneObjectInstanceAttributes) SetUniformScale(s float64) {
	a.uniformScale = s
	a.markDirty()
}

func (a *SceneObjectInstanceAttributes) SetNonUniformScale(v mgl32.Vec3) {
	a.nonUniformScale = v
	a.markDirty()
}

func (a *SceneObjectInstanceAttributes) SetIsInstanceVisible(b bool) {
	a.isInstanceVisible = b
	a.markDirty()
}

func (a *SceneObjectInstanceAttributes) SetMassScale(s float64) {
	a.massScale = s
	a.markDirty()
}

func (a *SceneObjectInstanceAttributes) writeInstanceValues(c *config.Configuration) {
	put(c, "template_name", a.handle)
	put(c, "translation_origin", a.translationOrigin.String())
	put(c, "shader_type", a.shaderType.String())
	put(c, "motion_type", a.motionType.String())
	put(c, "translation", a.translation)
	put(c, "rotation", a.rotation)
	put(c, "uniform_scale", a.uniformScale)
	put(c, "non_uniform_scale", a.nonUniformScale)
	put(c, "is_instance_visible", a.isInstanceVisible)
	put(c, "mass_scale", a.massScale)
}

func (a *SceneObjectInstanceAttributes) Values() *config.Configuration {
	c := config.New()
	a.writeInstanceValues(c)
	return c
}

// JointMap is an insertion-ordered joint name to value map.
type JointMap struct {
	keys []string
	vals map[string]float64
}

func (m *JointMap) set(key string, v float64) {
	if m.vals == nil {
		m.vals = make(map[string]float64)
	}
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

func (m JointMap) clone() JointMap {
	out := JointMap{keys: append([]string(nil), m.keys...), vals: make(map[string]float64, len(m.vals))}
	for k, v := range m.vals {
		out.vals[k] = v
	}
	return out
}

func (m JointMap) Get(key string) (float64, bool) {
	v, ok := m.vals[key]
	return v, ok
}

func (m JointMap) Keys() []string { return append([]string(nil), m.keys...) }
func (m JointMap) Len() int       { return len(m.keys) }

func (m JointMap) write(c *config.Configuration) {
	for _, k := range m.keys {
		put(c, k, m.vals[k])
	}
}

// SceneAOInstanceAttributes places an articulated object in a scene.
type SceneAOInstanceAttributes struct {
	SceneObjectInstanceAttributes

	fixedBase            bool
	autoClampJointLimits bool
	initJointPose        JointMap
	initJointVelocities  JointMap
}

func NewSceneAOInstanceAttributes(handle string) *SceneAOInstanceAttributes {
	a := &SceneAOInstanceAttributes{}
	a.initInstance()
	a.bind(ClassSceneAOInstance, handle, a.Values)
	return a
}

func (a *SceneAOInstanceAttributes) Clone() *SceneAOInstanceAttributes {
	c := *a
	c.rebind(c.Values)
	c.initJointPose = a.initJointPose.clone()
	c.initJointVelocities = a.initJointVelocities.clone()
	return &c
}

func (a *SceneAOInstanceAttributes) FixedBase() bool            { return a.fixedBase }
func (a *SceneAOInstanceAttributes) AutoClampJointLimits() bool { return a.autoClampJointLimits }

// InitJointPose returns a snapshot of the initial joint positions.
func (a *SceneAOInstanceAttributes) InitJointPose() JointMap { return a.initJointPose.clone() }

// InitJointVelocities returns a snapshot of the initial joint velocities.
func (a *SceneAOInstanceAttributes) InitJointVelocities() JointMap {
	return a.initJointVelocities.clone()
}

func (a *SceneAOInstanceAttributes) SetFixedBase(b bool) {
	a.fixedBase = b
	a.markDirty()
}

func (a *SceneAOInstanceAttributes) SetAutoClampJointLimits(b bool) {
	a.autoClampJointLimits = b
	a.markDirty()
}

func (a *SceneAOInstanceAttributes) AddInitJointPose(joint string, v float64) {
	a.initJointPose.set(joint, v)
	a.markDirty()
}

func (a *SceneAOInstanceAttributes) AddInitJointVelocity(joint string, v float64) {
	a.initJointVelocities.set(joint, v)
	a.markDirty()
}

func (a *SceneAOInstanceAttributes) Values() *config.Configuration {
	c := config.New()
	a.writeInstanceValues(c)
	put(c, "fixed_base", a.fixedBase)
	put(c, "auto_clamp_joint_limits", a.autoClampJointLimits)
	if a.initJointPose.Len() > 0 {
		a.initJointPose.write(c.EditSubconfig("initial_joint_pose"))
	}
	if a.initJointVelocities.Len() > 0 {
		a.initJointVelocities.write(c.EditSubconfig("initial_joint_velocities"))
	}
	return c
}

// SceneInstanceAttributes describes a complete scene: one stage placement,
// object and articulated object placements, and references to the lighting,
// navmesh and semantic descriptors to load with it.
type SceneInstanceAttributes struct {
	Base

	translationOrigin   TranslationOrigin
	stage               *SceneObjectInstanceAttributes
	objects             []*SceneObjectInstanceAttributes
	articulatedObjects  []*SceneAOInstanceAttributes
	lightingHandle      string
	navmeshHandle       string
	semanticSceneHandle string
}

func NewSceneInstanceAttributes(handle string) *SceneInstanceAttributes {
	a := &SceneInstanceAttributes{}
	a.bind(ClassSceneInstance, handle, a.Values)
	return a
}

func (a *SceneInstanceAttributes) Clone() *SceneInstanceAttributes {
	c := *a
	c.rebind(c.Values)
	if a.stage != nil {
		c.stage = a.stage.Clone()
		c.stage.setOwner(c.markDirty)
	}
	c.objects = make([]*SceneObjectInstanceAttributes, len(a.objects))
	for i, o := range a.objects {
		c.objects[i] = o.Clone()
		c.objects[i].setOwner(c.markDirty)
	}
	c.articulatedObjects = make([]*SceneAOInstanceAttributes, len(a.articulatedObjects))
	for i, ao := range a.articulatedObjects {
		c.articulatedObjects[i] = ao.Clone()
		c.articulatedObjects[i].setOwner(c.markDirty)
	}
	return &c
}

func (a *SceneInstanceAttributes) TranslationOrigin() TranslationOrigin { return a.translationOrigin }
func (a *SceneInstanceAttributes) LightingHandle() string               { return a.lightingHandle }
func (a *SceneInstanceAttributes) NavmeshHandle() string                { return a.navmeshHandle }
func (a *SceneInstanceAttributes) SemanticSceneHandle() string          { return a.semanticSceneHandle }

// StageInstance is nil until one has been set.
func (a *SceneInstanceAttributes) StageInstance() *SceneObjectInstanceAttributes { return a.stage }

func (a *SceneInstanceAttributes) ObjectInstances() []*SceneObjectInstanceAttributes {
	return append([]*SceneObjectInstanceAttributes(nil), a.objects...)
}

func (a *SceneInstanceAttributes) ArticulatedObjectInstances() []*SceneAOInstanceAttributes {
	return append([]*SceneAOInstanceAttributes(nil), a.articulatedObjects...)
}

func (a *SceneInstanceAttributes) NumObjectInstances() int { return len(a.objects) }
func (a *SceneInstanceAttributes) NumArticulatedObjectInstances() int {
	return len(a.articulatedObjects)
}

func (a *SceneInstanceAttributes) SetTranslationOrigin(o TranslationOrigin) {
	a.translationOrigin = o
	a.markDirty()
}

func (a *SceneInstanceAttributes) SetLightingHandle(h string) {
	a.lightingHandle = h
	a.markDirty()
}

func (a *SceneInstanceAttributes) SetNavmeshHandle(h string) {
	a.navmeshHandle = h
	a.markDirty()
}

func (a *SceneInstanceAttributes) SetSemanticSceneHandle(h string) {
	a.semanticSceneHandle = h
	a.markDirty()
}

// SetStageInstance replaces the stage placement. The scene takes ownership
// of stage; nil clears the placement.
func (a *SceneInstanceAttributes) SetStageInstance(stage *SceneObjectInstanceAttributes) {
	if a.stage != nil && a.stage != stage {
		a.stage.setOwner(nil)
	}
	if stage != nil {
		stage.setOwner(a.markDirty)
	}
	a.stage = stage
	a.markDirty()
}

// AddObjectInstance appends an object placement; the scene takes ownership.
func (a *SceneInstanceAttributes) AddObjectInstance(inst *SceneObjectInstanceAttributes) {
	inst.setOwner(a.markDirty)
	a.objects = append(a.objects, inst)
	a.markDirty()
}

// AddArticulatedObjectInstance appends an articulated object placement; the
// scene takes ownership.
func (a *SceneInstanceAttributes) AddArticulatedObjectInstance(inst *SceneAOInstanceAttributes) {
	inst.setOwner(a.markDirty)
	a.articulatedObjects = append(a.articulatedObjects, inst)
	a.markDirty()
}

// EffectiveTranslationOrigin resolves the frame of inst: its own setting,
// else this scene's, else TranslationOriginUnknown.
func (a *SceneInstanceAttributes) EffectiveTranslationOrigin(inst *SceneObjectInstanceAttributes) TranslationOrigin {
	if inst != nil && inst.translationOrigin != TranslationOriginUnknown {
		return inst.translationOrigin
	}
	return a.translationOrigin
}

func (a *SceneInstanceAttributes) Values() *config.Configuration {
	c := config.New()
	put(c, "translation_origin", a.translationOrigin.String())
	put(c, "default_lighting", a.lightingHandle)
	put(c, "navmesh_instance", a.navmeshHandle)
	put(c, "semantic_scene_instance", a.semanticSceneHandle)
	if a.stage != nil {
		_ = c.SetSubconfig("stage_instance", a.stage.Values())
	}
	if len(a.objects) > 0 {
		objs := c.EditSubconfig("object_instances")
		for i, o := range a.objects {
			_ = objs.SetSubconfig(indexKey(i), o.Values())
		}
	}
	if len(a.articulatedObjects) > 0 {
		aos := c.EditSubconfig("articulated_object_instances")
		for i, ao := range a.articulatedObjects {
			_ = aos.SetSubconfig(indexKey(i), ao.Values())
		}
	}
	return c
}

func indexKey(i int) string { return fmt.Sprintf("%03d", i) }
