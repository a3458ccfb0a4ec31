package managers

import (
	"fmt"
	"strings"

	"github.com/zeusync/simmeta/internal/core/metadata/attributes"
)

// AssetManager registers primitive shape templates. Templates are always
// registered under their built handle and only valid ones are accepted. A
// default solid and wireframe template of every shape is registered up front
// and cannot be removed. Handles follow template parameters, so the registry
// stores and hands out copies.
type AssetManager struct {
	*Manager[attributes.PrimitiveAttributes]
}

func NewAssetManager(opts ...ManagerOption) *AssetManager {
	am := &AssetManager{}
	am.Manager = newManager[attributes.PrimitiveAttributes]("primitives", "", am, opts...)
	am.copyOnAccess = true
	for _, name := range attributes.PrimitiveClassNames() {
		prim, _ := attributes.NewPrimitiveByClassName(name)
		if _, err := am.RegisterObject(prim, "", false); err == nil {
			am.markUndeletable(prim.Handle())
		}
	}
	return am
}

// DefaultPrimitiveHandle is the handle of the built-in template of a shape.
func (am *AssetManager) DefaultPrimitiveHandle(t attributes.PrimObjType, wireframe bool) string {
	return attributes.NewPrimitive(t, wireframe).BuildHandle()
}

// initNewObject accepts a class name or a built handle and yields the
// default template of that class.
func (am *AssetManager) initNewObject(handle string) (attributes.PrimitiveAttributes, error) {
	if prim, ok := attributes.NewPrimitiveByClassName(handle); ok {
		return prim, nil
	}
	best := ""
	for _, name := range attributes.PrimitiveClassNames() {
		if strings.HasPrefix(handle, name) && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		return nil, fmt.Errorf("%w: %q is not a primitive class", ErrUnknownClass, handle)
	}
	prim, _ := attributes.NewPrimitiveByClassName(best)
	return prim, nil
}

func (am *AssetManager) setValsFromJSONDoc(prim attributes.PrimitiveAttributes, r *jsonReader) error {
	if v, ok := r.get("is_wireframe"); ok && v.Bool() != prim.IsWireframe() {
		r.warn("is_wireframe", "is fixed by the class %s, ignoring", prim.PrimObjClassName())
	}
	r.Bool("use_texture_coords", prim.SetUseTextureCoords)
	r.Bool("use_tangents", prim.SetUseTangents)
	r.Int("num_rings", prim.SetNumRings)
	r.Int("num_segments", prim.SetNumSegments)
	r.Float("half_length", prim.SetHalfLength)
	switch p := prim.(type) {
	case *attributes.CapsulePrimitiveAttributes:
		r.Int("hemisphere_rings", p.SetHemisphereRings)
		r.Int("cylinder_rings", p.SetCylinderRings)
	case *attributes.ConePrimitiveAttributes:
		r.Bool("use_cap_end", p.SetCapEnd)
	case *attributes.CylinderPrimitiveAttributes:
		r.Bool("use_cap_ends", p.SetCapEnds)
	case *attributes.IcospherePrimitiveAttributes:
		r.Int("subdivisions", p.SetSubdivisions)
	}
	r.UserDefined(prim.UserConfig())
	return nil
}

func (am *AssetManager) preRegister(prim attributes.PrimitiveAttributes, _ string) (string, error) {
	if !prim.IsValidTemplate() {
		return "", fmt.Errorf("%w: %s", ErrInvalidTemplate, prim.BuildHandle())
	}
	return prim.BuildHandle(), nil
}
