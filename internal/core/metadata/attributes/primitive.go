package attributes

import (
	"strconv"
	"strings"

	"github.com/zeusync/simmeta/internal/core/metadata/config"
)

// PrimObjType identifies a generated primitive shape.
type PrimObjType uint8

const (
	PrimCapsule PrimObjType = iota
	PrimCone
	PrimCube
	PrimCylinder
	PrimIcosphere
	PrimUVSphere
)

var primClassNames = [...][2]string{
	PrimCapsule:   {"capsule3DSolid", "capsule3DWireframe"},
	PrimCone:      {"coneSolid", "coneWireframe"},
	PrimCube:      {"cubeSolid", "cubeWireframe"},
	PrimCylinder:  {"cylinderSolid", "cylinderWireframe"},
	PrimIcosphere: {"icosphereSolid", "icosphereWireframe"},
	PrimUVSphere:  {"uvSphereSolid", "uvSphereWireframe"},
}

// PrimitiveClassName is the class name of a shape in its solid or wireframe
// rendition.
func PrimitiveClassName(t PrimObjType, wireframe bool) string {
	if wireframe {
		return primClassNames[t][1]
	}
	return primClassNames[t][0]
}

// PrimitiveClassNames lists every primitive class name, solid before
// wireframe for each shape.
func PrimitiveClassNames() []string {
	out := make([]string, 0, 2*len(primClassNames))
	for _, n := range primClassNames {
		out = append(out, n[0], n[1])
	}
	return out
}

// IsPrimitiveAssetHandle reports whether handle names a generated primitive.
func IsPrimitiveAssetHandle(handle string) bool {
	if handle == "" {
		return false
	}
	for _, n := range primClassNames {
		if strings.HasPrefix(handle, n[0]) || strings.HasPrefix(handle, n[1]) {
			return true
		}
	}
	return false
}

// NewPrimitiveByClassName builds the default template for a primitive class
// name, or reports false if className is not one.
func NewPrimitiveByClassName(className string) (PrimitiveAttributes, bool) {
	for t, n := range primClassNames {
		for i, name := range n {
			if name == className {
				return NewPrimitive(PrimObjType(t), i == 1), true
			}
		}
	}
	return nil, false
}

// NewPrimitive builds the default template for a shape.
func NewPrimitive(t PrimObjType, wireframe bool) PrimitiveAttributes {
	switch t {
	case PrimCapsule:
		return NewCapsulePrimitiveAttributes(wireframe)
	case PrimCone:
		return NewConePrimitiveAttributes(wireframe)
	case PrimCube:
		return NewCubePrimitiveAttributes(wireframe)
	case PrimCylinder:
		return NewCylinderPrimitiveAttributes(wireframe)
	case PrimIcosphere:
		return NewIcospherePrimitiveAttributes(wireframe)
	default:
		return NewUVSpherePrimitiveAttributes(wireframe)
	}
}

// PrimitiveAttributes is implemented by the six shape templates.
type PrimitiveAttributes interface {
	Attributes

	IsWireframe() bool
	PrimObjType() PrimObjType
	PrimObjClassName() string
	// BuildHandle derives a handle from the class name and the shape
	// parameters; equal shapes yield equal handles.
	BuildHandle() string
	IsValidTemplate() bool
	Clone() PrimitiveAttributes

	UseTextureCoords() bool
	SetUseTextureCoords(bool)
	UseTangents() bool
	SetUseTangents(bool)
	NumRings() int
	SetNumRings(int)
	NumSegments() int
	SetNumSegments(int)
	HalfLength() float64
	SetHalfLength(float64)
}

// AbstractPrimitiveAttributes holds the parameters shared by all shapes.
// Not every shape uses every field.
type AbstractPrimitiveAttributes struct {
	Base

	wireframe        bool
	objType          PrimObjType
	useTextureCoords bool
	useTangents      bool
	numRings         int
	numSegments      int
	halfLength       float64

	detail func(*handleBuilder)
}

func (a *AbstractPrimitiveAttributes) initPrimitive(t PrimObjType, wireframe bool, values func() *config.Configuration, detail func(*handleBuilder)) {
	a.objType = t
	a.wireframe = wireframe
	a.detail = detail
	a.bind(PrimitiveClassName(t, wireframe), "", values)
	a.handle = a.BuildHandle()
}

func (a *AbstractPrimitiveAttributes) rebindPrimitive(values func() *config.Configuration, detail func(*handleBuilder)) {
	a.detail = detail
	a.rebind(values)
}

// touch rebuilds the handle after a parameter change.
func (a *AbstractPrimitiveAttributes) touch() {
	a.handle = a.BuildHandle()
	a.markDirty()
}

func (a *AbstractPrimitiveAttributes) IsWireframe() bool        { return a.wireframe }
func (a *AbstractPrimitiveAttributes) PrimObjType() PrimObjType { return a.objType }
func (a *AbstractPrimitiveAttributes) PrimObjClassName() string { return a.classKey }
func (a *AbstractPrimitiveAttributes) UseTextureCoords() bool   { return a.useTextureCoords }
func (a *AbstractPrimitiveAttributes) UseTangents() bool        { return a.useTangents }
func (a *AbstractPrimitiveAttributes) NumRings() int            { return a.numRings }
func (a *AbstractPrimitiveAttributes) NumSegments() int         { return a.numSegments }
func (a *AbstractPrimitiveAttributes) HalfLength() float64      { return a.halfLength }

func (a *AbstractPrimitiveAttributes) SetUseTextureCoords(b bool) {
	a.useTextureCoords = b
	a.touch()
}

func (a *AbstractPrimitiveAttributes) SetUseTangents(b bool) {
	a.useTangents = b
	a.touch()
}

func (a *AbstractPrimitiveAttributes) SetNumRings(n int) {
	a.numRings = n
	a.touch()
}

func (a *AbstractPrimitiveAttributes) SetNumSegments(n int) {
	a.numSegments = n
	a.touch()
}

func (a *AbstractPrimitiveAttributes) SetHalfLength(h float64) {
	a.halfLength = h
	a.touch()
}

func (a *AbstractPrimitiveAttributes) BuildHandle() string {
	hb := &handleBuilder{}
	hb.WriteString(a.classKey)
	if a.detail != nil {
		a.detail(hb)
	}
	return hb.String()
}

// segmentsValid is the segment rule shared by the round shapes.
func (a *AbstractPrimitiveAttributes) segmentsValid() bool {
	if a.wireframe {
		return a.numSegments >= 4 && a.numSegments%4 == 0
	}
	return a.numSegments >= 3
}

func (a *AbstractPrimitiveAttributes) writePrimitiveValues(c *config.Configuration) {
	put(c, "is_wireframe", a.wireframe)
	put(c, "use_texture_coords", a.useTextureCoords)
	put(c, "use_tangents", a.useTangents)
	put(c, "num_rings", a.numRings)
	put(c, "num_segments", a.numSegments)
	put(c, "half_length", a.halfLength)
}

func (a *AbstractPrimitiveAttributes) writeTexFlags(hb *handleBuilder) {
	if a.wireframe {
		return
	}
	hb.pairBool("useTexCoords", a.useTextureCoords)
	hb.pairBool("useTangents", a.useTangents)
}

type handleBuilder struct {
	strings.Builder
}

func (hb *handleBuilder) pair(key, val string) {
	hb.WriteByte('_')
	hb.WriteString(key)
	hb.WriteByte('_')
	hb.WriteString(val)
}

func (hb *handleBuilder) pairInt(key string, v int) { hb.pair(key, strconv.Itoa(v)) }
func (hb *handleBuilder) pairBool(key string, v bool) {
	hb.pair(key, strconv.FormatBool(v))
}
func (hb *handleBuilder) pairFloat(key string, v float64) {
	hb.pair(key, strconv.FormatFloat(v, 'g', -1, 64))
}

// CapsulePrimitiveAttributes describes a capsule: a cylinder capped by two
// hemispheres.
type CapsulePrimitiveAttributes struct {
	AbstractPrimitiveAttributes

	hemisphereRings int
	cylinderRings   int
}

func NewCapsulePrimitiveAttributes(wireframe bool) *CapsulePrimitiveAttributes {
	a := &CapsulePrimitiveAttributes{hemisphereRings: 4, cylinderRings: 2}
	a.numSegments = 12
	if wireframe {
		a.hemisphereRings = 8
		a.numSegments = 16
	}
	a.halfLength = 0.75
	a.initPrimitive(PrimCapsule, wireframe, a.Values, a.buildDetail)
	return a
}

func (a *CapsulePrimitiveAttributes) Clone() PrimitiveAttributes {
	c := *a
	c.rebindPrimitive(c.Values, c.buildDetail)
	return &c
}

func (a *CapsulePrimitiveAttributes) HemisphereRings() int { return a.hemisphereRings }
func (a *CapsulePrimitiveAttributes) CylinderRings() int   { return a.cylinderRings }

func (a *CapsulePrimitiveAttributes) SetHemisphereRings(n int) {
	a.hemisphereRings = n
	a.touch()
}

func (a *CapsulePrimitiveAttributes) SetCylinderRings(n int) {
	a.cylinderRings = n
	a.touch()
}

func (a *CapsulePrimitiveAttributes) IsValidTemplate() bool {
	return a.segmentsValid() && a.hemisphereRings > 1 && a.cylinderRings > 1 && a.halfLength > 0
}

func (a *CapsulePrimitiveAttributes) buildDetail(hb *handleBuilder) {
	hb.pairInt("hemiRings", a.hemisphereRings)
	hb.pairInt("cylRings", a.cylinderRings)
	hb.pairInt("segments", a.numSegments)
	hb.pairFloat("halfLen", a.halfLength)
	a.writeTexFlags(hb)
}

func (a *CapsulePrimitiveAttributes) Values() *config.Configuration {
	c := config.New()
	a.writePrimitiveValues(c)
	put(c, "hemisphere_rings", a.hemisphereRings)
	put(c, "cylinder_rings", a.cylinderRings)
	return c
}

// ConePrimitiveAttributes describes a cone.
type ConePrimitiveAttributes struct {
	AbstractPrimitiveAttributes

	capEnd bool
}

func NewConePrimitiveAttributes(wireframe bool) *ConePrimitiveAttributes {
	a := &ConePrimitiveAttributes{capEnd: true}
	a.numRings = 2
	a.numSegments = 12
	if wireframe {
		a.numSegments = 32
	}
	a.halfLength = 1.25
	a.initPrimitive(PrimCone, wireframe, a.Values, a.buildDetail)
	return a
}

func (a *ConePrimitiveAttributes) Clone() PrimitiveAttributes {
	c := *a
	c.rebindPrimitive(c.Values, c.buildDetail)
	return &c
}

func (a *ConePrimitiveAttributes) CapEnd() bool { return a.capEnd }

func (a *ConePrimitiveAttributes) SetCapEnd(b bool) {
	a.capEnd = b
	a.touch()
}

func (a *ConePrimitiveAttributes) IsValidTemplate() bool {
	if !a.segmentsValid() || a.halfLength <= 0 {
		return false
	}
	return a.wireframe || a.numRings > 1
}

func (a *ConePrimitiveAttributes) buildDetail(hb *handleBuilder) {
	hb.pairInt("segments", a.numSegments)
	hb.pairFloat("halfLen", a.halfLength)
	if a.wireframe {
		return
	}
	hb.pairInt("rings", a.numRings)
	a.writeTexFlags(hb)
	hb.pairBool("capEnd", a.capEnd)
}

func (a *ConePrimitiveAttributes) Values() *config.Configuration {
	c := config.New()
	a.writePrimitiveValues(c)
	put(c, "use_cap_end", a.capEnd)
	return c
}

// CubePrimitiveAttributes describes a unit cube; it has no parameters
// beyond the shared flags.
type CubePrimitiveAttributes struct {
	AbstractPrimitiveAttributes
}

func NewCubePrimitiveAttributes(wireframe bool) *CubePrimitiveAttributes {
	a := &CubePrimitiveAttributes{}
	a.initPrimitive(PrimCube, wireframe, a.Values, a.buildDetail)
	return a
}

func (a *CubePrimitiveAttributes) Clone() PrimitiveAttributes {
	c := *a
	c.rebindPrimitive(c.Values, c.buildDetail)
	return &c
}

func (a *CubePrimitiveAttributes) IsValidTemplate() bool { return true }

func (a *CubePrimitiveAttributes) buildDetail(hb *handleBuilder) {
	a.writeTexFlags(hb)
}

func (a *CubePrimitiveAttributes) Values() *config.Configuration {
	c := config.New()
	a.writePrimitiveValues(c)
	return c
}

// CylinderPrimitiveAttributes describes a cylinder.
type CylinderPrimitiveAttributes struct {
	AbstractPrimitiveAttributes

	capEnds bool
}

func NewCylinderPrimitiveAttributes(wireframe bool) *CylinderPrimitiveAttributes {
	a := &CylinderPrimitiveAttributes{capEnds: true}
	a.numRings = 2
	a.numSegments = 12
	if wireframe {
		a.numSegments = 32
	}
	a.halfLength = 1
	a.initPrimitive(PrimCylinder, wireframe, a.Values, a.buildDetail)
	return a
}

func (a *CylinderPrimitiveAttributes) Clone() PrimitiveAttributes {
	c := *a
	c.rebindPrimitive(c.Values, c.buildDetail)
	return &c
}

func (a *CylinderPrimitiveAttributes) CapEnds() bool { return a.capEnds }

func (a *CylinderPrimitiveAttributes) SetCapEnds(b bool) {
	a.capEnds = b
	a.touch()
}

func (a *CylinderPrimitiveAttributes) IsValidTemplate() bool {
	return a.segmentsValid() && a.numRings > 1 && a.halfLength > 0
}

func (a *CylinderPrimitiveAttributes) buildDetail(hb *handleBuilder) {
	hb.pairInt("rings", a.numRings)
	hb.pairInt("segments", a.numSegments)
	hb.pairFloat("halfLen", a.halfLength)
	if a.wireframe {
		return
	}
	a.writeTexFlags(hb)
	hb.pairBool("capEnds", a.capEnds)
}

func (a *CylinderPrimitiveAttributes) Values() *config.Configuration {
	c := config.New()
	a.writePrimitiveValues(c)
	put(c, "use_cap_ends", a.capEnds)
	return c
}

// IcospherePrimitiveAttributes describes a subdivided icosahedron. The
// wireframe rendition ignores subdivisions.
type IcospherePrimitiveAttributes struct {
	AbstractPrimitiveAttributes

	subdivisions int
}

func NewIcospherePrimitiveAttributes(wireframe bool) *IcospherePrimitiveAttributes {
	a := &IcospherePrimitiveAttributes{subdivisions: 1}
	a.initPrimitive(PrimIcosphere, wireframe, a.Values, a.buildDetail)
	return a
}

func (a *IcospherePrimitiveAttributes) Clone() PrimitiveAttributes {
	c := *a
	c.rebindPrimitive(c.Values, c.buildDetail)
	return &c
}

func (a *IcospherePrimitiveAttributes) Subdivisions() int { return a.subdivisions }

func (a *IcospherePrimitiveAttributes) SetSubdivisions(n int) {
	a.subdivisions = n
	a.touch()
}

func (a *IcospherePrimitiveAttributes) IsValidTemplate() bool {
	return a.wireframe || a.subdivisions >= 0
}

func (a *IcospherePrimitiveAttributes) buildDetail(hb *handleBuilder) {
	if a.wireframe {
		return
	}
	hb.pairInt("subdivs", a.subdivisions)
	a.writeTexFlags(hb)
}

func (a *IcospherePrimitiveAttributes) Values() *config.Configuration {
	c := config.New()
	a.writePrimitiveValues(c)
	put(c, "subdivisions", a.subdivisions)
	return c
}

// UVSpherePrimitiveAttributes describes a latitude/longitude sphere.
type UVSpherePrimitiveAttributes struct {
	AbstractPrimitiveAttributes
}

func NewUVSpherePrimitiveAttributes(wireframe bool) *UVSpherePrimitiveAttributes {
	a := &UVSpherePrimitiveAttributes{}
	a.numRings = 8
	a.numSegments = 16
	if wireframe {
		a.numRings = 16
		a.numSegments = 32
	}
	a.initPrimitive(PrimUVSphere, wireframe, a.Values, a.buildDetail)
	return a
}

func (a *UVSpherePrimitiveAttributes) Clone() PrimitiveAttributes {
	c := *a
	c.rebindPrimitive(c.Values, c.buildDetail)
	return &c
}

func (a *UVSpherePrimitiveAttributes) IsValidTemplate() bool {
	if !a.segmentsValid() || a.numRings <= 2 {
		return false
	}
	return !a.wireframe || a.numRings%2 == 0
}

func (a *UVSpherePrimitiveAttributes) buildDetail(hb *handleBuilder) {
	hb.pairInt("rings", a.numRings)
	hb.pairInt("segments", a.numSegments)
	a.writeTexFlags(hb)
}

func (a *UVSpherePrimitiveAttributes) Values() *config.Configuration {
	c := config.New()
	a.writePrimitiveValues(c)
	return c
}
