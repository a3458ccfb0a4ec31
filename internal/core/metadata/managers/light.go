package managers

import (
	"math"

	"github.com/tidwall/gjson"

	"github.com/zeusync/simmeta/internal/core/metadata/attributes"
)

// LightLayoutManager registers lighting layouts read from
// *.lighting_config.json files.
type LightLayoutManager struct {
	*Manager[*attributes.LightLayoutAttributes]
}

func NewLightLayoutManager(opts ...ManagerOption) *LightLayoutManager {
	lm := &LightLayoutManager{}
	lm.Manager = newManager[*attributes.LightLayoutAttributes]("lighting", ".lighting_config.json", lm, opts...)
	return lm
}

func (lm *LightLayoutManager) initNewObject(handle string) (*attributes.LightLayoutAttributes, error) {
	return attributes.NewLightLayoutAttributes(handle), nil
}

func (lm *LightLayoutManager) setValsFromJSONDoc(layout *attributes.LightLayoutAttributes, r *jsonReader) error {
	r.Float("positive_intensity_scale", layout.SetPositiveIntensityScale)
	r.Float("negative_intensity_scale", layout.SetNegativeIntensityScale)
	if cell, ok := r.get("lights"); ok {
		if !cell.IsObject() {
			r.warn("lights", "expected an object of named lights, no lights loaded")
		} else {
			cell.ForEach(func(k, v gjson.Result) bool {
				name := k.String()
				if !v.IsObject() {
					r.warn("lights."+name, "light entry is not an object, skipping")
					return true
				}
				light := attributes.NewLightInstanceAttributes(name)
				setLightInstanceValsFromJSON(light, newJSONReader(v, r.at("lights."+name), r.report))
				layout.AddLightInstance(light)
				return true
			})
		}
	}
	r.UserDefined(layout.UserConfig())
	return nil
}

func (lm *LightLayoutManager) preRegister(layout *attributes.LightLayoutAttributes, handle string) (string, error) {
	return basePreRegister(layout, handle)
}

// setLightInstanceValsFromJSON reads one light. Spot cone angles are given
// in degrees.
func setLightInstanceValsFromJSON(light *attributes.LightInstanceAttributes, r *jsonReader) {
	r.Vec3("position", light.SetPosition)
	r.Vec3("direction", light.SetDirection)
	r.Vec3("color", light.SetColor)
	r.Float("intensity", light.SetIntensity)
	readEnum(r, "type", attributes.ParseLightType, attributes.LightTypeNames, light.SetType)
	readEnum(r, "position_model", attributes.ParseLightPositionModel, attributes.LightPositionModelNames, light.SetPositionModel)
	if cell, ok := r.get("spot"); ok {
		if !cell.IsObject() {
			r.warn("spot", "expected an object, ignoring")
		} else {
			spot := newJSONReader(cell, r.at("spot"), r.report)
			spot.Float("innerConeAngle", func(deg float64) { light.SetInnerConeAngle(deg * math.Pi / 180) })
			spot.Float("outerConeAngle", func(deg float64) { light.SetOuterConeAngle(deg * math.Pi / 180) })
		}
	}
	r.UserDefined(light.UserConfig())
}
