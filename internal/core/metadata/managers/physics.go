package managers

import "github.com/zeusync/simmeta/internal/core/metadata/attributes"

// PhysicsManager registers world physics templates read from
// *.physics_config.json files.
type PhysicsManager struct {
	*Manager[*attributes.PhysicsManagerAttributes]
}

func NewPhysicsManager(opts ...ManagerOption) *PhysicsManager {
	pm := &PhysicsManager{}
	pm.Manager = newManager[*attributes.PhysicsManagerAttributes]("physics", ".physics_config.json", pm, opts...)
	return pm
}

func (pm *PhysicsManager) initNewObject(handle string) (*attributes.PhysicsManagerAttributes, error) {
	return attributes.NewPhysicsManagerAttributes(handle), nil
}

func (pm *PhysicsManager) setValsFromJSONDoc(a *attributes.PhysicsManagerAttributes, r *jsonReader) error {
	r.String("physics_simulator", func(s string) {
		if err := a.SetSimulator(s); err != nil {
			r.warn("physics_simulator", "%v", err)
		}
	})
	r.Float("timestep", a.SetTimestep)
	r.Int("max_substeps", a.SetMaxSubsteps)
	r.Vec3("gravity", a.SetGravity)
	r.Float("friction_coefficient", a.SetFrictionCoefficient)
	r.Float("restitution_coefficient", a.SetRestitutionCoefficient)
	r.UserDefined(a.UserConfig())
	return nil
}

func (pm *PhysicsManager) preRegister(a *attributes.PhysicsManagerAttributes, handle string) (string, error) {
	return basePreRegister(a, handle)
}
