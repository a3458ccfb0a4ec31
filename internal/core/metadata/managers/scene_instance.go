package managers

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/zeusync/simmeta/internal/core/metadata/attributes"
	"github.com/zeusync/simmeta/internal/core/observability/log"
)

// SceneInstanceManager registers scene instances read from
// *.scene_instance.json files.
type SceneInstanceManager struct {
	*Manager[*attributes.SceneInstanceAttributes]
}

func NewSceneInstanceManager(opts ...ManagerOption) *SceneInstanceManager {
	sm := &SceneInstanceManager{}
	sm.Manager = newManager[*attributes.SceneInstanceAttributes]("scenes", ".scene_instance.json", sm, opts...)
	return sm
}

func (sm *SceneInstanceManager) initNewObject(handle string) (*attributes.SceneInstanceAttributes, error) {
	return attributes.NewSceneInstanceAttributes(handle), nil
}

func (sm *SceneInstanceManager) preRegister(scene *attributes.SceneInstanceAttributes, handle string) (string, error) {
	return basePreRegister(scene, handle)
}

func (sm *SceneInstanceManager) setValsFromJSONDoc(scene *attributes.SceneInstanceAttributes, r *jsonReader) error {
	name := scene.SimplifiedHandle()

	scene.SetTranslationOrigin(translationOriginVal(r))

	if cell, ok := r.get("stage_instance"); ok {
		if cell.IsObject() {
			scene.SetStageInstance(sm.createInstanceAttributesFromJSON(cell, r.at("stage_instance"), r.report))
		} else {
			r.warn("stage_instance", "scene instance %q: stage_instance is not a JSON object", name)
		}
	} else if name == attributes.DefaultSceneInstanceHandle {
		r.report.Debug("no stage instance in default scene instance, using NONE stage")
		stage := attributes.NewSceneObjectInstanceAttributes(attributes.NoStageHandle)
		scene.SetStageInstance(stage)
	} else {
		return fmt.Errorf("%w: scene instance %q", ErrMissingStageInstance, name)
	}

	if cell, ok := r.get("object_instances"); ok {
		if cell.IsArray() {
			for i, elem := range cell.Array() {
				path := fmt.Sprintf("%s[%d]", r.at("object_instances"), i)
				if !elem.IsObject() {
					r.report.Warn(path, "scene instance %q: object instance is not a JSON object, skipping", name)
					continue
				}
				scene.AddObjectInstance(sm.createInstanceAttributesFromJSON(elem, path, r.report))
			}
		} else {
			r.warn("object_instances", "scene instance %q: object_instances is not a JSON array, no object instances loaded", name)
		}
	} else {
		r.report.Debug("no object_instances in scene instance")
	}

	if cell, ok := r.get("articulated_object_instances"); ok {
		if cell.IsArray() {
			for i, elem := range cell.Array() {
				path := fmt.Sprintf("%s[%d]", r.at("articulated_object_instances"), i)
				if !elem.IsObject() {
					r.report.Warn(path, "scene instance %q: articulated object instance is not a JSON object, skipping", name)
					continue
				}
				scene.AddArticulatedObjectInstance(sm.createAOInstanceAttributesFromJSON(elem, path, r.report))
			}
		} else {
			r.warn("articulated_object_instances", "scene instance %q: articulated_object_instances is not a JSON array, no articulated object instances loaded", name)
		}
	} else {
		r.report.Debug("no articulated_object_instances in scene instance")
	}

	if !r.String("default_lighting", scene.SetLightingHandle) {
		r.report.Debug("no default_lighting in scene instance")
	}
	if !r.String("navmesh_instance", scene.SetNavmeshHandle) {
		r.report.Debug("no navmesh_instance in scene instance")
	}
	if !r.String("semantic_scene_instance", scene.SetSemanticSceneHandle) {
		r.report.Debug("no semantic_scene_instance in scene instance")
	}

	r.UserDefined(scene.UserConfig())
	return nil
}

// translationOriginVal reads translation_origin, yielding Unknown when it is
// absent or unrecognized.
func translationOriginVal(r *jsonReader) attributes.TranslationOrigin {
	origin := attributes.TranslationOriginUnknown
	readEnum(r, "translation_origin", attributes.ParseTranslationOrigin, attributes.TranslationOriginNames, func(o attributes.TranslationOrigin) {
		origin = o
	})
	return origin
}

func (sm *SceneInstanceManager) createInstanceAttributesFromJSON(cell gjson.Result, path string, report *Report) *attributes.SceneObjectInstanceAttributes {
	inst := attributes.NewSceneObjectInstanceAttributes("")
	r := newJSONReader(cell, path, report)
	setAbstractObjectAttributesFromJSON(inst, r)
	r.UserDefined(inst.UserConfig())
	return inst
}

func (sm *SceneInstanceManager) createAOInstanceAttributesFromJSON(cell gjson.Result, path string, report *Report) *attributes.SceneAOInstanceAttributes {
	inst := attributes.NewSceneAOInstanceAttributes("")
	r := newJSONReader(cell, path, report)
	setAbstractObjectAttributesFromJSON(&inst.SceneObjectInstanceAttributes, r)
	r.Bool("fixed_base", inst.SetFixedBase)
	r.Bool("auto_clamp_joint_limits", inst.SetAutoClampJointLimits)
	readJointValues(r, "initial_joint_pose", inst.AddInitJointPose)
	readJointValues(r, "initial_joint_velocities", inst.AddInitJointVelocity)
	r.UserDefined(inst.UserConfig())
	return inst
}

// setAbstractObjectAttributesFromJSON reads the fields every instance record
// carries. Absent keys leave the current value in place.
func setAbstractObjectAttributesFromJSON(inst *attributes.SceneObjectInstanceAttributes, r *jsonReader) {
	r.String("template_name", inst.SetHandle)
	inst.SetTranslationOrigin(translationOriginVal(r))

	shader := attributes.ShaderUnspecified
	readEnum(r, "shader_type", attributes.ParseShaderType, attributes.ShaderTypeNames, func(s attributes.ShaderType) { shader = s })
	inst.SetShaderType(shader)

	readEnum(r, "motion_type", attributes.ParseMotionType, attributes.MotionTypeNames, inst.SetMotionType)

	r.Vec3("translation", inst.SetTranslation)
	r.Quat("rotation", inst.SetRotation)
	r.Float("uniform_scale", inst.SetUniformScale)
	r.Vec3("non_uniform_scale", inst.SetNonUniformScale)
	r.Bool("is_instance_visible", inst.SetIsInstanceVisible)
	r.Float("mass_scale", inst.SetMassScale)
}

// readJointValues accepts either an array of numbers, stored under joint_00,
// joint_01, ... in order, or an object of named values.
func readJointValues(r *jsonReader, key string, add func(string, float64)) {
	cell, ok := r.get(key)
	if !ok {
		return
	}
	switch {
	case cell.IsArray():
		for i, v := range cell.Array() {
			if v.Type != gjson.Number {
				r.report.Warn(fmt.Sprintf("%s[%d]", r.at(key), i), "joint value is not a number, skipping")
				continue
			}
			add(fmt.Sprintf("joint_%02d", i), v.Float())
		}
	case cell.IsObject():
		cell.ForEach(func(k, v gjson.Result) bool {
			if v.Type != gjson.Number {
				r.report.Warn(r.at(key)+"."+k.String(), "joint value is not a number, skipping")
				return true
			}
			add(k.String(), v.Float())
			return true
		})
	default:
		r.warn(key, "unknown format for %s, expected an array or an object, no values set", key)
	}
}

// LogSummary logs, at debug level, one line per registered scene with its
// instance counts.
func (sm *SceneInstanceManager) LogSummary() {
	for _, h := range sm.Handles("") {
		scene, ok := sm.GetObjectByHandle(h)
		if !ok {
			continue
		}
		stage := ""
		if s := scene.StageInstance(); s != nil {
			stage = s.Handle()
		}
		sm.log.Debug("scene instance",
			log.String("handle", h),
			log.String("stage", stage),
			log.Int("objects", scene.NumObjectInstances()),
			log.Int("articulated_objects", scene.NumArticulatedObjectInstances()),
		)
	}
}
