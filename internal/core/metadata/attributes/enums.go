package attributes

import "strings"

type enumTable[T ~uint8] struct {
	names  []string
	byName map[string]T
}

func newEnumTable[T ~uint8](names ...string) enumTable[T] {
	t := enumTable[T]{names: names, byName: make(map[string]T, len(names))}
	for i, n := range names {
		t.byName[n] = T(i)
	}
	return t
}

// lookup matches s case-insensitively.
func (t enumTable[T]) lookup(s string) (T, bool) {
	v, ok := t.byName[strings.ToLower(s)]
	return v, ok
}

func (t enumTable[T]) name(v T) string {
	if int(v) < len(t.names) {
		return t.names[v]
	}
	return t.names[0]
}

func (t enumTable[T]) all() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// ShaderType selects the shader used to render a construction.
type ShaderType uint8

const (
	// ShaderUnspecified defers to the template (for instances) or the
	// renderer default (for templates).
	ShaderUnspecified ShaderType = iota
	ShaderMaterial
	ShaderFlat
	ShaderPhong
	ShaderPBR
)

var shaderTypes = newEnumTable[ShaderType]("unspecified", "material", "flat", "phong", "pbr")

func ParseShaderType(s string) (ShaderType, bool) { return shaderTypes.lookup(s) }
func ShaderTypeNames() []string                   { return shaderTypes.all() }
func (s ShaderType) String() string               { return shaderTypes.name(s) }

// TranslationOrigin is the frame an instance translation is expressed in.
type TranslationOrigin uint8

const (
	// TranslationOriginUnknown defers to the enclosing scene's setting.
	TranslationOriginUnknown TranslationOrigin = iota
	TranslationOriginAssetLocal
	TranslationOriginCOM
)

var translationOrigins = newEnumTable[TranslationOrigin]("unknown", "asset_local", "com")

func ParseTranslationOrigin(s string) (TranslationOrigin, bool) { return translationOrigins.lookup(s) }
func TranslationOriginNames() []string                          { return translationOrigins.all() }
func (o TranslationOrigin) String() string                      { return translationOrigins.name(o) }

// MotionType is the physics motion model of an instance.
type MotionType uint8

const (
	// MotionTypeUndefined means no override was given.
	MotionTypeUndefined MotionType = iota
	MotionTypeStatic
	MotionTypeKinematic
	MotionTypeDynamic
)

var motionTypes = newEnumTable[MotionType]("undefined", "static", "kinematic", "dynamic")

func ParseMotionType(s string) (MotionType, bool) { return motionTypes.lookup(s) }
func MotionTypeNames() []string                   { return motionTypes.all() }
func (m MotionType) String() string               { return motionTypes.name(m) }

// AssetType classifies render, collision and semantic assets.
type AssetType uint8

const (
	AssetUnknown AssetType = iota
	AssetMP3DMesh
	AssetInstanceMesh
	AssetNavmesh
	AssetPrimitive
)

var assetTypes = newEnumTable[AssetType]("unknown", "mp3d", "instance_mesh", "navmesh", "primitive")

func ParseAssetType(s string) (AssetType, bool) { return assetTypes.lookup(s) }
func AssetTypeNames() []string                  { return assetTypes.all() }
func (a AssetType) String() string              { return assetTypes.name(a) }

// LightType is the kind of a light instance.
type LightType uint8

const (
	LightPoint LightType = iota
	LightDirectional
	LightSpot
)

var lightTypes = newEnumTable[LightType]("point", "directional", "spot")

func ParseLightType(s string) (LightType, bool) { return lightTypes.lookup(s) }
func LightTypeNames() []string                  { return lightTypes.all() }
func (l LightType) String() string              { return lightTypes.name(l) }

// LightPositionModel is the frame a light position is given in.
type LightPositionModel uint8

const (
	LightPositionGlobal LightPositionModel = iota
	LightPositionCamera
	LightPositionObject
)

var lightPositionModels = newEnumTable[LightPositionModel]("global", "camera", "object")

func ParseLightPositionModel(s string) (LightPositionModel, bool) {
	return lightPositionModels.lookup(s)
}
func LightPositionModelNames() []string     { return lightPositionModels.all() }
func (m LightPositionModel) String() string { return lightPositionModels.name(m) }
