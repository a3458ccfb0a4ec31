package attributes

import "github.com/zeusync/simmeta/internal/core/metadata/config"

const ClassPbrShader = "PbrShaderAttributes"

// PbrShaderAttributes configures the physically based shader.
type PbrShaderAttributes struct {
	Base

	enableDirectLights    bool
	enableIBL             bool
	directLightIntensity  float64
	skipMissingTBNCalc    bool
	useMikkelsenTBN       bool
	useSRGBRemapping      bool
	useDirectTonemap      bool
	useIBLTonemap         bool
	useLambertian         bool
	skipClearcoatCalc     bool
	skipSpecularLayerCalc bool
	skipAnisotropyCalc    bool
	directDiffuseScale    float64
	directSpecularScale   float64
	iblDiffuseScale       float64
	iblSpecularScale      float64
	iblBLUTFilename       string
	iblEnvMapFilename     string
	tonemapExposure       float64
	gamma                 float64
}

func NewPbrShaderAttributes(handle string) *PbrShaderAttributes {
	a := &PbrShaderAttributes{
		enableDirectLights:   true,
		directLightIntensity: 1,
		useIBLTonemap:        true,
		directDiffuseScale:   0.5,
		directSpecularScale:  0.5,
		iblDiffuseScale:      0.5,
		iblSpecularScale:     0.5,
		iblBLUTFilename:      "brdflut_ldr_512x512.png",
		iblEnvMapFilename:    "lythwood_room_1k.hdr",
		tonemapExposure:      4.5,
		gamma:                2.2,
	}
	a.bind(ClassPbrShader, handle, a.Values)
	return a
}

func (a *PbrShaderAttributes) Clone() *PbrShaderAttributes {
	c := *a
	c.rebind(c.Values)
	return &c
}

func (a *PbrShaderAttributes) EnableDirectLights() bool      { return a.enableDirectLights }
func (a *PbrShaderAttributes) EnableIBL() bool               { return a.enableIBL }
func (a *PbrShaderAttributes) DirectLightIntensity() float64 { return a.directLightIntensity }
func (a *PbrShaderAttributes) SkipMissingTBNCalc() bool      { return a.skipMissingTBNCalc }
func (a *PbrShaderAttributes) UseMikkelsenTBN() bool         { return a.useMikkelsenTBN }
func (a *PbrShaderAttributes) UseSRGBRemapping() bool        { return a.useSRGBRemapping }
func (a *PbrShaderAttributes) UseDirectTonemap() bool        { return a.useDirectTonemap }
func (a *PbrShaderAttributes) UseIBLTonemap() bool           { return a.useIBLTonemap }
func (a *PbrShaderAttributes) UseLambertian() bool           { return a.useLambertian }
func (a *PbrShaderAttributes) SkipClearcoatCalc() bool       { return a.skipClearcoatCalc }
func (a *PbrShaderAttributes) SkipSpecularLayerCalc() bool   { return a.skipSpecularLayerCalc }
func (a *PbrShaderAttributes) SkipAnisotropyLayerCalc() bool { return a.skipAnisotropyCalc }
func (a *PbrShaderAttributes) DirectDiffuseScale() float64   { return a.directDiffuseScale }
func (a *PbrShaderAttributes) DirectSpecularScale() float64  { return a.directSpecularScale }
func (a *PbrShaderAttributes) IBLDiffuseScale() float64      { return a.iblDiffuseScale }
func (a *PbrShaderAttributes) IBLSpecularScale() float64     { return a.iblSpecularScale }
func (a *PbrShaderAttributes) IBLBLUTFilename() string       { return a.iblBLUTFilename }
func (a *PbrShaderAttributes) IBLEnvMapFilename() string     { return a.iblEnvMapFilename }
func (a *PbrShaderAttributes) TonemapExposure() float64      { return a.tonemapExposure }
func (a *PbrShaderAttributes) Gamma() float64                { return a.gamma }

func (a *PbrShaderAttributes) SetEnableDirectLights(b bool) {
	a.enableDirectLights = b
	a.markDirty()
}

func (a *PbrShaderAttributes) SetEnableIBL(b bool) {
	a.enableIBL = b
	a.markDirty()
}

func (a *PbrShaderAttributes) SetDirectLightIntensity(f float64) {
	a.directLightIntensity = f
	a.markDirty()
}

func (a *PbrShaderAttributes) SetSkipMissingTBNCalc(b bool) {
	a.skipMissingTBNCalc = b
	a.markDirty()
}

func (a *PbrShaderAttributes) SetUseMikkelsenTBN(b bool) {
	a.useMikkelsenTBN = b
	a.markDirty()
}

func (a *PbrShaderAttributes) SetUseSRGBRemapping(b bool) {
	a.useSRGBRemapping = b
	a.markDirty()
}

func (a *PbrShaderAttributes) SetUseDirectTonemap(b bool) {
	a.useDirectTonemap = b
	a.markDirty()
}

func (a *PbrShaderAttributes) SetUseIBLTonemap(b bool) {
	a.useIBLTonemap = b
	a.markDirty()
}

func (a *PbrShaderAttributes) SetUseLambertian(b bool) {
	a.useLambertian = b
	a.markDirty()
}

func (a *PbrShaderAttributes) SetSkipClearcoatCalc(b bool) {
	a.skipClearcoatCalc = b
	a.markDirty()
}

func (a *PbrShaderAttributes) SetSkipSpecularLayerCalc(b bool) {
	a.skipSpecularLayerCalc = b
	a.markDirty()
}

func (a *PbrShaderAttributes) SetSkipAnisotropyLayerCalc(b bool) {
	a.skipAnisotropyCalc = b
	a.markDirty()
}

func (a *PbrShaderAttributes) SetDirectDiffuseScale(f float64) {
	a.directDiffuseScale = f
	a.markDirty()
}

func (a *PbrShaderAttributes) SetDirectSpecularScale(f float64) {
	a.directSpecularScale = f
	a.markDirty()
}

func (a *PbrShaderAttributes) SetIBLDiffuseScale(f float64) {
	a.iblDiffuseScale = f
	a.markDirty()
}

func (a *PbrShaderAttributes) SetIBLSpecularScale(f float64) {
	a.iblSpecularScale = f
	a.markDirty()
}

func (a *PbrShaderAttributes) SetIBLBLUTFilename(s string) {
	a.iblBLUTFilename = s
	a.markDirty()
}

func (a *PbrShaderAttributes) SetIBLEnvMapFilename(s string) {
	a.iblEnvMapFilename = s
	a.markDirty()
}

func (a *PbrShaderAttributes) SetTonemapExposure(f float64) {
	a.tonemapExposure = f
	a.markDirty()
}

func (a *PbrShaderAttributes) SetGamma(f float64) {
	a.gamma = f
	a.markDirty()
}

func (a *PbrShaderAttributes) Values() *config.Configuration {
	c := config.New()
	put(c, "enable_direct_lights", a.enableDirectLights)
	put(c, "enable_ibl", a.enableIBL)
	put(c, "direct_light_intensity", a.directLightIntensity)
	put(c, "skip_missing_tbn_calc", a.skipMissingTBNCalc)
	put(c, "use_mikkelsen_tbn", a.useMikkelsenTBN)
	put(c, "use_srgb_remapping", a.useSRGBRemapping)
	put(c, "use_direct_tonemap", a.useDirectTonemap)
	put(c, "use_ibl_tonemap", a.useIBLTonemap)
	put(c, "use_lambertian", a.useLambertian)
	put(c, "skip_clearcoat_calc", a.skipClearcoatCalc)
	put(c, "skip_specular_layer_calc", a.skipSpecularLayerCalc)
	put(c, "skip_anisotropy_layer_calc", a.skipAnisotropyCalc)
	put(c, "direct_diffuse_scale", a.directDiffuseScale)
	put(c, "direct_specular_scale", a.directSpecularScale)
	put(c, "ibl_diffuse_scale", a.iblDiffuseScale)
	put(c, "ibl_specular_scale", a.iblSpecularScale)
	put(c, "ibl_blut_filename", a.iblBLUTFilename)
	put(c, "ibl_envmap_filename", a.iblEnvMapFilename)
	put(c, "tonemap_exposure", a.tonemapExposure)
	put(c, "gamma", a.gamma)
	return c
}
