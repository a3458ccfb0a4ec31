package managers

import (
	"sync"

	"github.com/zeusync/simmeta/internal/core/metadata/attributes"
	"github.com/zeusync/simmeta/internal/core/observability/log"
)

// setAbstractObjectValsFromJSON reads the keys stages and objects share.
func setAbstractObjectValsFromJSON(a *attributes.AbstractObjectAttributes, r *jsonReader) {
	r.Vec3("scale", a.SetScale)
	r.Vec3("collision_asset_size", a.SetCollisionAssetSize)
	r.Float("margin", a.SetMargin)
	r.Vec3("up", a.SetOrientUp)
	r.Vec3("front", a.SetOrientFront)
	r.Float("units_to_meters", a.SetUnitsToMeters)
	r.Float("friction_coefficient", a.SetFrictionCoefficient)
	r.Float("rolling_friction_coefficient", a.SetRollingFrictionCoefficient)
	r.Float("spinning_friction_coefficient", a.SetSpinningFrictionCoefficient)
	r.Float("restitution_coefficient", a.SetRestitutionCoefficient)

	hasRender := r.String("render_asset", a.SetRenderAssetHandle)
	if !r.String("collision_asset", a.SetCollisionAssetHandle) && hasRender {
		a.SetCollisionAssetHandle(a.RenderAssetHandle())
	}
	readEnum(r, "render_asset_type", attributes.ParseAssetType, attributes.AssetTypeNames, a.SetRenderAssetType)
	readEnum(r, "collision_asset_type", attributes.ParseAssetType, attributes.AssetTypeNames, a.SetCollisionAssetType)
	if a.RenderAssetType() == attributes.AssetUnknown && a.RenderAssetIsPrimitive() {
		a.SetRenderAssetType(attributes.AssetPrimitive)
	}
	if a.CollisionAssetType() == attributes.AssetUnknown && a.CollisionAssetIsPrimitive() {
		a.SetCollisionAssetType(attributes.AssetPrimitive)
	}

	readEnum(r, "shader_type", attributes.ParseShaderType, attributes.ShaderTypeNames, a.SetShaderType)
	r.Bool("force_flat_shading", a.SetForceFlatShading)
	r.Bool("is_collidable", a.SetIsCollidable)
}

// ObjectManager registers rigid object templates read from
// *.object_config.json files.
type ObjectManager struct {
	*Manager[*attributes.ObjectAttributes]
}

func NewObjectManager(opts ...ManagerOption) *ObjectManager {
	om := &ObjectManager{}
	om.Manager = newManager[*attributes.ObjectAttributes]("objects", ".object_config.json", om, opts...)
	return om
}

func (om *ObjectManager) initNewObject(handle string) (*attributes.ObjectAttributes, error) {
	return attributes.NewObjectAttributes(handle), nil
}

func (om *ObjectManager) setValsFromJSONDoc(obj *attributes.ObjectAttributes, r *jsonReader) error {
	setAbstractObjectValsFromJSON(&obj.AbstractObjectAttributes, r)
	r.Float("mass", obj.SetMass)
	r.Vec3("COM", obj.SetCOM)
	r.Vec3("inertia", obj.SetInertia)
	r.Float("linear_damping", obj.SetLinearDamping)
	r.Float("angular_damping", obj.SetAngularDamping)
	r.Bool("use_bounding_box_for_collision", obj.SetBoundingBoxCollisions)
	r.Bool("join_collision_meshes", obj.SetJoinCollisionMeshes)
	r.Bool("is_visible", obj.SetIsVisible)
	r.Int("semantic_id", obj.SetSemanticID)
	r.UserDefined(obj.UserConfig())
	return nil
}

func (om *ObjectManager) preRegister(obj *attributes.ObjectAttributes, handle string) (string, error) {
	return basePreRegister(obj, handle)
}

// StageManager registers stage templates read from *.stage_config.json
// files. New stages take their world defaults from the physics template set
// with SetPhysicsDefaults.
type StageManager struct {
	*Manager[*attributes.StageAttributes]

	physMu  sync.RWMutex
	physics *attributes.PhysicsManagerAttributes
}

func NewStageManager(opts ...ManagerOption) *StageManager {
	sm := &StageManager{}
	sm.Manager = newManager[*attributes.StageAttributes]("stages", ".stage_config.json", sm, opts...)
	return sm
}

// SetPhysicsDefaults seeds gravity and contact coefficients of stages built
// afterwards. A nil p reverts to schema defaults.
func (sm *StageManager) SetPhysicsDefaults(p *attributes.PhysicsManagerAttributes) {
	sm.physMu.Lock()
	defer sm.physMu.Unlock()
	if p == nil {
		sm.physics = nil
		return
	}
	sm.physics = p.Clone()
	sm.log.Debug("stage physics defaults updated",
		log.String("source", p.Handle()),
		log.Any("gravity", p.Gravity()),
		log.Float64("friction", p.FrictionCoefficient()),
		log.Float64("restitution", p.RestitutionCoefficient()),
	)
}

func (sm *StageManager) initNewObject(handle string) (*attributes.StageAttributes, error) {
	stage := attributes.NewStageAttributes(handle)
	sm.physMu.RLock()
	p := sm.physics
	sm.physMu.RUnlock()
	if p != nil {
		stage.SetGravity(p.Gravity())
		stage.SetFrictionCoefficient(p.FrictionCoefficient())
		stage.SetRestitutionCoefficient(p.RestitutionCoefficient())
		stage.MarkClean()
	}
	return stage, nil
}

func (sm *StageManager) setValsFromJSONDoc(stage *attributes.StageAttributes, r *jsonReader) error {
	setAbstractObjectValsFromJSON(&stage.AbstractObjectAttributes, r)
	r.Vec3("gravity", stage.SetGravity)
	r.Vec3("origin", stage.SetOrigin)
	r.String("semantic_asset", stage.SetSemanticAssetHandle)
	readEnum(r, "semantic_asset_type", attributes.ParseAssetType, attributes.AssetTypeNames, stage.SetSemanticAssetType)
	r.Vec3("semantic_up", stage.SetSemanticOrientUp)
	r.Vec3("semantic_front", stage.SetSemanticOrientFront)
	r.String("nav_asset", stage.SetNavmeshAssetHandle)
	if !r.String("semantic_descriptor_filename", stage.SetSemanticDescriptorFilename) {
		r.String("house_filename", stage.SetSemanticDescriptorFilename)
	}
	r.Bool("frustum_culling", stage.SetFrustumCulling)
	r.UserDefined(stage.UserConfig())
	return nil
}

func (sm *StageManager) preRegister(stage *attributes.StageAttributes, handle string) (string, error) {
	return basePreRegister(stage, handle)
}
