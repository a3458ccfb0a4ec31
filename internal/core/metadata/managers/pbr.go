package managers

import "github.com/zeusync/simmeta/internal/core/metadata/attributes"

// PbrShaderManager registers PBR shader configurations read from
// *.pbr_config.json files.
type PbrShaderManager struct {
	*Manager[*attributes.PbrShaderAttributes]
}

func NewPbrShaderManager(opts ...ManagerOption) *PbrShaderManager {
	pm := &PbrShaderManager{}
	pm.Manager = newManager[*attributes.PbrShaderAttributes]("pbr", ".pbr_config.json", pm, opts...)
	return pm
}

func (pm *PbrShaderManager) initNewObject(handle string) (*attributes.PbrShaderAttributes, error) {
	return attributes.NewPbrShaderAttributes(handle), nil
}

func (pm *PbrShaderManager) setValsFromJSONDoc(a *attributes.PbrShaderAttributes, r *jsonReader) error {
	r.Bool("enable_direct_lights", a.SetEnableDirectLights)
	r.Float("direct_light_intensity", a.SetDirectLightIntensity)
	r.Bool("skip_missing_tbn_calc", a.SetSkipMissingTBNCalc)
	r.Bool("use_mikkelsen_tbn", a.SetUseMikkelsenTBN)
	r.Bool("use_srgb_remapping", a.SetUseSRGBRemapping)
	r.Bool("use_direct_tonemap", a.SetUseDirectTonemap)
	r.Bool("use_lambertian", a.SetUseLambertian)
	r.Bool("skip_clearcoat_calc", a.SetSkipClearcoatCalc)
	r.Bool("skip_specular_layer_calc", a.SetSkipSpecularLayerCalc)
	r.Bool("skip_anisotropy_layer_calc", a.SetSkipAnisotropyLayerCalc)
	r.Float("direct_diffuse_scale", a.SetDirectDiffuseScale)
	r.Float("direct_specular_scale", a.SetDirectSpecularScale)
	r.Bool("enable_ibl", a.SetEnableIBL)
	r.String("ibl_blut_filename", a.SetIBLBLUTFilename)
	r.String("ibl_envmap_filename", a.SetIBLEnvMapFilename)
	r.Bool("use_ibl_tonemap", a.SetUseIBLTonemap)
	r.Float("ibl_diffuse_scale", a.SetIBLDiffuseScale)
	r.Float("ibl_specular_scale", a.SetIBLSpecularScale)
	r.Float("tonemap_exposure", a.SetTonemapExposure)
	r.Float("gamma", a.SetGamma)
	r.UserDefined(a.UserConfig())
	return nil
}

func (pm *PbrShaderManager) preRegister(a *attributes.PbrShaderAttributes, handle string) (string, error) {
	return basePreRegister(a, handle)
}
