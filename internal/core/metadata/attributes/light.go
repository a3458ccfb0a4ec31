package attributes

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/zeusync/simmeta/internal/core/metadata/config"
)

const (
	ClassLightInstance = "LightInstanceAttributes"
	ClassLightLayout   = "LightLayoutAttributes"
)

// LightInstanceAttributes describes one light of a layout.
type LightInstanceAttributes struct {
	Base

	position       mgl32.Vec3
	direction      mgl32.Vec3
	color          mgl32.Vec3
	intensity      float64
	lightType      LightType
	positionModel  LightPositionModel
	innerConeAngle float64
	outerConeAngle float64
}

func NewLightInstanceAttributes(handle string) *LightInstanceAttributes {
	a := &LightInstanceAttributes{
		direction:      mgl32.Vec3{0, 0, -1},
		color:          mgl32.Vec3{1, 1, 1},
		intensity:      1,
		outerConeAngle: math.Pi / 4,
	}
	a.bind(ClassLightInstance, handle, a.Values)
	return a
}

func (a *LightInstanceAttributes) Clone() *LightInstanceAttributes {
	c := *a
	c.rebind(c.Values)
	return &c
}

func (a *LightInstanceAttributes) Position() mgl32.Vec3              { return a.position }
func (a *LightInstanceAttributes) Direction() mgl32.Vec3             { return a.direction }
func (a *LightInstanceAttributes) Color() mgl32.Vec3                 { return a.color }
func (a *LightInstanceAttributes) Intensity() float64                { return a.intensity }
func (a *LightInstanceAttributes) Type() LightType                   { return a.lightType }
func (a *LightInstanceAttributes) PositionModel() LightPositionModel { return a.positionModel }

// InnerConeAngle is in radians and meaningful only for spot lights.
func (a *LightInstanceAttributes) InnerConeAngle() float64 { return a.innerConeAngle }

// OuterConeAngle is in radians and meaningful only for spot lights.
func (a *LightInstanceAttributes) OuterConeAngle() float64 { return a.outerConeAngle }

// SpotCone returns the cone angles when the light is a spot light.
func (a *LightInstanceAttributes) SpotCone() (inner, outer float64, ok bool) {
	if a.lightType != LightSpot {
		return 0, 0, false
	}
	return a.innerConeAngle, a.outerConeAngle, true
}

func (a *LightInstanceAttributes) SetPosition(v mgl32.Vec3) {
	a.position = v
	a.markDirty()
}

func (a *LightInstanceAttributes) SetDirection(v mgl32.Vec3) {
	a.direction = v
	a.markDirty()
}

func (a *LightInstanceAttributes) SetColor(v mgl32.Vec3) {
	a.color = v
	a.markDirty()
}

func (a *LightInstanceAttributes) SetIntensity(i float64) {
	a.intensity = i
	a.markDirty()
}

func (a *LightInstanceAttributes) SetType(t LightType) {
	a.lightType = t
	a.markDirty()
}

func (a *LightInstanceAttributes) SetPositionModel(m LightPositionModel) {
	a.positionModel = m
	a.markDirty()
}

func (a *LightInstanceAttributes) SetInnerConeAngle(rad float64) {
	a.innerConeAngle = rad
	a.markDirty()
}

func (a *LightInstanceAttributes) SetOuterConeAngle(rad float64) {
	a.outerConeAngle = rad
	a.markDirty()
}

func (a *LightInstanceAttributes) Values() *config.Configuration {
	c := config.New()
	put(c, "position", a.position)
	put(c, "direction", a.direction)
	put(c, "color", a.color)
	put(c, "intensity", a.intensity)
	put(c, "type", a.lightType.String())
	put(c, "position_model", a.positionModel.String())
	if a.lightType == LightSpot {
		spot := c.EditSubconfig("spot")
		put(spot, "innerConeAngle", a.innerConeAngle)
		put(spot, "outerConeAngle", a.outerConeAngle)
	}
	return c
}

// LightLayoutAttributes is a named, ordered set of light instances.
type LightLayoutAttributes struct {
	Base

	positiveIntensityScale float64
	negativeIntensityScale float64

	names  []string
	lights map[string]*LightInstanceAttributes
}

func NewLightLayoutAttributes(handle string) *LightLayoutAttributes {
	a := &LightLayoutAttributes{
		positiveIntensityScale: 1,
		negativeIntensityScale: 1,
		lights:                 make(map[string]*LightInstanceAttributes),
	}
	a.bind(ClassLightLayout, handle, a.Values)
	return a
}

func (a *LightLayoutAttributes) Clone() *LightLayoutAttributes {
	c := *a
	c.rebind(c.Values)
	c.names = append([]string(nil), a.names...)
	c.lights = make(map[string]*LightInstanceAttributes, len(a.lights))
	for name, l := range a.lights {
		lc := l.Clone()
		lc.setOwner(c.markDirty)
		c.lights[name] = lc
	}
	return &c
}

func (a *LightLayoutAttributes) PositiveIntensityScale() float64 { return a.positiveIntensityScale }
func (a *LightLayoutAttributes) NegativeIntensityScale() float64 { return a.negativeIntensityScale }

func (a *LightLayoutAttributes) SetPositiveIntensityScale(s float64) {
	a.positiveIntensityScale = s
	a.markDirty()
}

func (a *LightLayoutAttributes) SetNegativeIntensityScale(s float64) {
	a.negativeIntensityScale = s
	a.markDirty()
}

// AddLightInstance adds or replaces the light named by its handle. The
// layout takes ownership of l.
func (a *LightLayoutAttributes) AddLightInstance(l *LightInstanceAttributes) {
	name := l.Handle()
	if _, ok := a.lights[name]; !ok {
		a.names = append(a.names, name)
	}
	l.setOwner(a.markDirty)
	a.lights[name] = l
	a.markDirty()
}

func (a *LightLayoutAttributes) RemoveLightInstance(name string) bool {
	if _, ok := a.lights[name]; !ok {
		return false
	}
	delete(a.lights, name)
	for i, n := range a.names {
		if n == name {
			a.names = append(a.names[:i], a.names[i+1:]...)
			break
		}
	}
	a.markDirty()
	return true
}

func (a *LightLayoutAttributes) LightInstance(name string) (*LightInstanceAttributes, bool) {
	l, ok := a.lights[name]
	return l, ok
}

func (a *LightLayoutAttributes) LightInstanceNames() []string {
	return append([]string(nil), a.names...)
}

func (a *LightLayoutAttributes) NumLightInstances() int { return len(a.names) }

func (a *LightLayoutAttributes) Values() *config.Configuration {
	c := config.New()
	put(c, "positive_intensity_scale", a.positiveIntensityScale)
	put(c, "negative_intensity_scale", a.negativeIntensityScale)
	if len(a.names) > 0 {
		lights := c.EditSubconfig("lights")
		for _, name := range a.names {
			_ = lights.SetSubconfig(name, a.lights[name].Values())
		}
	}
	return c
}
