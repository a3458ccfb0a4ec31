package attributes

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/zeusync/simmeta/internal/core/metadata/config"
)

const (
	ClassObject = "ObjectAttributes"
	ClassStage  = "StageAttributes"
)

// put writes one schema field into a freshly built values view. Only the
// types Configuration accepts are ever passed here.
func put(c *config.Configuration, key string, x any) {
	_ = c.Set(key, x)
}

// AbstractObjectAttributes holds what stages and rigid objects share: asset
// references, frame, scale and contact parameters.
type AbstractObjectAttributes struct {
	Base

	scale              mgl32.Vec3
	collisionAssetSize mgl32.Vec3
	margin             float64
	orientUp           mgl32.Vec3
	orientFront        mgl32.Vec3
	unitsToMeters      float64

	frictionCoefficient         float64
	rollingFrictionCoefficient  float64
	spinningFrictionCoefficient float64
	restitutionCoefficient      float64

	renderAssetHandle    string
	collisionAssetHandle string
	renderAssetType      AssetType
	collisionAssetType   AssetType

	shaderType       ShaderType
	forceFlatShading bool
	isCollidable     bool
}

func (a *AbstractObjectAttributes) initAbstract(margin float64) {
	a.scale = mgl32.Vec3{1, 1, 1}
	a.collisionAssetSize = mgl32.Vec3{1, 1, 1}
	a.margin = margin
	a.orientUp = mgl32.Vec3{0, 1, 0}
	a.orientFront = mgl32.Vec3{0, 0, -1}
	a.unitsToMeters = 1
	a.frictionCoefficient = 0.5
	a.restitutionCoefficient = 0.1
	a.shaderType = ShaderMaterial
	a.isCollidable = true
}

func (a *AbstractObjectAttributes) Scale() mgl32.Vec3              { return a.scale }
func (a *AbstractObjectAttributes) CollisionAssetSize() mgl32.Vec3 { return a.collisionAssetSize }
func (a *AbstractObjectAttributes) Margin() float64                { return a.margin }
func (a *AbstractObjectAttributes) OrientUp() mgl32.Vec3           { return a.orientUp }
func (a *AbstractObjectAttributes) OrientFront() mgl32.Vec3        { return a.orientFront }
func (a *AbstractObjectAttributes) UnitsToMeters() float64         { return a.unitsToMeters }
func (a *AbstractObjectAttributes) FrictionCoefficient() float64   { return a.frictionCoefficient }
func (a *AbstractObjectAttributes) RollingFrictionCoefficient() float64 {
	return a.rollingFrictionCoefficient
}
func (a *AbstractObjectAttributes) SpinningFrictionCoefficient() float64 {
	return a.spinningFrictionCoefficient
}
func (a *AbstractObjectAttributes) RestitutionCoefficient() float64 { return a.restitutionCoefficient }
func (a *AbstractObjectAttributes) RenderAssetHandle() string       { return a.renderAssetHandle }
func (a *AbstractObjectAttributes) CollisionAssetHandle() string    { return a.collisionAssetHandle }
func (a *AbstractObjectAttributes) RenderAssetType() AssetType      { return a.renderAssetType }
func (a *AbstractObjectAttributes) CollisionAssetType() AssetType   { return a.collisionAssetType }
func (a *AbstractObjectAttributes) ShaderType() ShaderType          { return a.shaderType }
func (a *AbstractObjectAttributes) ForceFlatShading() bool          { return a.forceFlatShading }
func (a *AbstractObjectAttributes) IsCollidable() bool              { return a.isCollidable }

// RenderAssetIsPrimitive reports whether the render asset is a generated
// primitive rather than a mesh file.
func (a *AbstractObjectAttributes) RenderAssetIsPrimitive() bool {
	return IsPrimitiveAssetHandle(a.renderAssetHandle)
}

// CollisionAssetIsPrimitive reports whether the collision asset is a
// generated primitive rather than a mesh file.
func (a *AbstractObjectAttributes) CollisionAssetIsPrimitive() bool {
	return IsPrimitiveAssetHandle(a.collisionAssetHandle)
}

func (a *AbstractObjectAttributes) SetScale(v mgl32.Vec3) {
	a.scale = v
	a.markDirty()
}

func (a *AbstractObjectAttributes) SetCollisionAssetSize(v mgl32.Vec3) {
	a.collisionAssetSize = v
	a.markDirty()
}

func (a *AbstractObjectAttributes) SetMargin(m float64) {
	a.margin = m
	a.markDirty()
}

func (a *AbstractObjectAttributes) SetOrientUp(v mgl32.Vec3) {
	a.orientUp = v
	a.markDirty()
}

func (a *AbstractObjectAttributes) SetOrientFront(v mgl32.Vec3) {
	a.orientFront = v
	a.markDirty()
}

func (a *AbstractObjectAttributes) SetUnitsToMeters(u float64) {
	a.unitsToMeters = u
	a.markDirty()
}

func (a *AbstractObjectAttributes) SetFrictionCoefficient(f float64) {
	a.frictionCoefficient = f
	a.markDirty()
}

func (a *AbstractObjectAttributes) SetRollingFrictionCoefficient(f float64) {
	a.rollingFrictionCoefficient = f
	a.markDirty()
}

func (a *AbstractObjectAttributes) SetSpinningFrictionCoefficient(f float64) {
	a.spinningFrictionCoefficient = f
	a.markDirty()
}

func (a *AbstractObjectAttributes) SetRestitutionCoefficient(r float64) {
	a.restitutionCoefficient = r
	a.markDirty()
}

func (a *AbstractObjectAttributes) SetRenderAssetHandle(h string) {
	a.renderAssetHandle = h
	a.markDirty()
}

func (a *AbstractObjectAttributes) SetCollisionAssetHandle(h string) {
	a.collisionAssetHandle = h
	a.markDirty()
}

func (a *AbstractObjectAttributes) SetRenderAssetType(t AssetType) {
	a.renderAssetType = t
	a.markDirty()
}

func (a *AbstractObjectAttributes) SetCollisionAssetType(t AssetType) {
	a.collisionAssetType = t
	a.markDirty()
}

func (a *AbstractObjectAttributes) SetShaderType(t ShaderType) {
	a.shaderType = t
	a.markDirty()
}

func (a *AbstractObjectAttributes) SetForceFlatShading(b bool) {
	a.forceFlatShading = b
	a.markDirty()
}

func (a *AbstractObjectAttributes) SetIsCollidable(b bool) {
	a.isCollidable = b
	a.markDirty()
}

func (a *AbstractObjectAttributes) writeAbstractValues(c *config.Configuration) {
	put(c, "scale", a.scale)
	put(c, "collision_asset_size", a.collisionAssetSize)
	put(c, "margin", a.margin)
	put(c, "up", a.orientUp)
	put(c, "front", a.orientFront)
	put(c, "units_to_meters", a.unitsToMeters)
	put(c, "friction_coefficient", a.frictionCoefficient)
	put(c, "rolling_friction_coefficient", a.rollingFrictionCoefficient)
	put(c, "spinning_friction_coefficient", a.spinningFrictionCoefficient)
	put(c, "restitution_coefficient", a.restitutionCoefficient)
	put(c, "render_asset", a.renderAssetHandle)
	put(c, "collision_asset", a.collisionAssetHandle)
	put(c, "render_asset_type", a.renderAssetType.String())
	put(c, "collision_asset_type", a.collisionAssetType.String())
	put(c, "shader_type", a.shaderType.String())
	put(c, "force_flat_shading", a.forceFlatShading)
	put(c, "is_collidable", a.isCollidable)
}

// ObjectAttributes is the template for a rigid object.
type ObjectAttributes struct {
	AbstractObjectAttributes

	mass                  float64
	com                   mgl32.Vec3
	computeCOMFromShape   bool
	inertia               mgl32.Vec3
	linearDamping         float64
	angularDamping        float64
	boundingBoxCollisions bool
	joinCollisionMeshes   bool
	isVisible             bool
	semanticID            int
}

func NewObjectAttributes(handle string) *ObjectAttributes {
	a := &ObjectAttributes{
		mass:                1,
		computeCOMFromShape: true,
		linearDamping:       0.2,
		angularDamping:      0.2,
		joinCollisionMeshes: true,
		isVisible:           true,
	}
	a.initAbstract(0.04)
	a.bind(ClassObject, handle, a.Values)
	return a
}

func (a *ObjectAttributes) Clone() *ObjectAttributes {
	c := *a
	c.rebind(c.Values)
	return &c
}

func (a *ObjectAttributes) Mass() float64             { return a.mass }
func (a *ObjectAttributes) COM() mgl32.Vec3           { return a.com }
func (a *ObjectAttributes) ComputeCOMFromShape() bool { return a.computeCOMFromShape }
func (a *ObjectAttributes) Inertia() mgl32.Vec3       { return a.inertia }
func (a *ObjectAttributes) LinearDamping() float64    { return a.linearDamping }
func (a *ObjectAttributes) AngularDamping() float64   { return a.angularDamping }
func (a *ObjectAttributes) BoundingBoxCollisions() bool {
	return a.boundingBoxCollisions
}
func (a *ObjectAttributes) JoinCollisionMeshes() bool { return a.joinCollisionMeshes }
func (a *ObjectAttributes) IsVisible() bool           { return a.isVisible }
func (a *ObjectAttributes) SemanticID() int           { return a.semanticID }

func (a *ObjectAttributes) SetMass(m float64) {
	a.mass = m
	a.markDirty()
}

// SetCOM fixes the center of mass; it is no longer derived from the shape.
func (a *ObjectAttributes) SetCOM(v mgl32.Vec3) {
	a.com = v
	a.computeCOMFromShape = false
	a.markDirty()
}

func (a *ObjectAttributes) SetInertia(v mgl32.Vec3) {
	a.inertia = v
	a.markDirty()
}

func (a *ObjectAttributes) SetLinearDamping(d float64) {
	a.linearDamping = d
	a.markDirty()
}

func (a *ObjectAttributes) SetAngularDamping(d float64) {
	a.angularDamping = d
	a.markDirty()
}

func (a *ObjectAttributes) SetBoundingBoxCollisions(b bool) {
	a.boundingBoxCollisions = b
	a.markDirty()
}

func (a *ObjectAttributes) SetJoinCollisionMeshes(b bool) {
	a.joinCollisionMeshes = b
	a.markDirty()
}

func (a *ObjectAttributes) SetIsVisible(b bool) {
	a.isVisible = b
	a.markDirty()
}

func (a *ObjectAttributes) SetSemanticID(id int) {
	a.semanticID = id
	a.markDirty()
}

func (a *ObjectAttributes) Values() *config.Configuration {
	c := config.New()
	a.writeAbstractValues(c)
	put(c, "mass", a.mass)
	put(c, "COM", a.com)
	put(c, "inertia", a.inertia)
	put(c, "linear_damping", a.linearDamping)
	put(c, "angular_damping", a.angularDamping)
	put(c, "use_bounding_box_for_collision", a.boundingBoxCollisions)
	put(c, "join_collision_meshes", a.joinCollisionMeshes)
	put(c, "is_visible", a.isVisible)
	put(c, "semantic_id", a.semanticID)
	return c
}

// StageAttributes is the template for the static environment of a scene.
type StageAttributes struct {
	AbstractObjectAttributes

	gravity                    mgl32.Vec3
	origin                     mgl32.Vec3
	semanticAssetHandle        string
	semanticAssetType          AssetType
	semanticOrientUp           mgl32.Vec3
	semanticOrientFront        mgl32.Vec3
	navmeshAssetHandle         string
	semanticDescriptorFilename string
	frustumCulling             bool
}

func NewStageAttributes(handle string) *StageAttributes {
	a := &StageAttributes{
		gravity:             mgl32.Vec3{0, -9.8, 0},
		semanticOrientUp:    mgl32.Vec3{0, 1, 0},
		semanticOrientFront: mgl32.Vec3{0, 0, -1},
		frustumCulling:      true,
	}
	a.initAbstract(0.03)
	a.bind(ClassStage, handle, a.Values)
	return a
}

func (a *StageAttributes) Clone() *StageAttributes {
	c := *a
	c.rebind(c.Values)
	return &c
}

func (a *StageAttributes) Gravity() mgl32.Vec3                { return a.gravity }
func (a *StageAttributes) Origin() mgl32.Vec3                 { return a.origin }
func (a *StageAttributes) SemanticAssetHandle() string        { return a.semanticAssetHandle }
func (a *StageAttributes) SemanticAssetType() AssetType       { return a.semanticAssetType }
func (a *StageAttributes) SemanticOrientUp() mgl32.Vec3       { return a.semanticOrientUp }
func (a *StageAttributes) SemanticOrientFront() mgl32.Vec3    { return a.semanticOrientFront }
func (a *StageAttributes) NavmeshAssetHandle() string         { return a.navmeshAssetHandle }
func (a *StageAttributes) SemanticDescriptorFilename() string { return a.semanticDescriptorFilename }
func (a *StageAttributes) FrustumCulling() bool               { return a.frustumCulling }

func (a *StageAttributes) SetGravity(v mgl32.Vec3) {
	a.gravity = v
	a.markDirty()
}

func (a *StageAttributes) SetOrigin(v mgl32.Vec3) {
	a.origin = v
	a.markDirty()
}

func (a *StageAttributes) SetSemanticAssetHandle(h string) {
	a.semanticAssetHandle = h
	a.markDirty()
}

func (a *StageAttributes) SetSemanticAssetType(t AssetType) {
	a.semanticAssetType = t
	a.markDirty()
}

func (a *StageAttributes) SetSemanticOrientUp(v mgl32.Vec3) {
	a.semanticOrientUp = v
	a.markDirty()
}

func (a *StageAttributes) SetSemanticOrientFront(v mgl32.Vec3) {
	a.semanticOrientFront = v
	a.markDirty()
}

func (a *StageAttributes) SetNavmeshAssetHandle(h string) {
	a.navmeshAssetHandle = h
	a.markDirty()
}

func (a *StageAttributes) SetSemanticDescriptorFilename(f string) {
	a.semanticDescriptorFilename = f
	a.markDirty()
}

func (a *StageAttributes) SetFrustumCulling(b bool) {
	a.frustumCulling = b
	a.markDirty()
}

func (a *StageAttributes) Values() *config.Configuration {
	c := config.New()
	a.writeAbstractValues(c)
	put(c, "gravity", a.gravity)
	put(c, "origin", a.origin)
	put(c, "semantic_asset", a.semanticAssetHandle)
	put(c, "semantic_asset_type", a.semanticAssetType.String())
	put(c, "semantic_up", a.semanticOrientUp)
	put(c, "semantic_front", a.semanticOrientFront)
	put(c, "nav_asset", a.navmeshAssetHandle)
	put(c, "semantic_descriptor_filename", a.semanticDescriptorFilename)
	put(c, "frustum_culling", a.frustumCulling)
	return c
}
