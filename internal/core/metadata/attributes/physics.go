package attributes

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/zeusync/simmeta/internal/core/metadata/config"
)

const (
	ClassPhysicsManager = "PhysicsManagerAttributes"

	// SimulatorNone disables dynamics.
	SimulatorNone = "none"
)

// PhysicsManagerAttributes holds world-level physics defaults.
type PhysicsManagerAttributes struct {
	Base

	simulator              string
	timestep               float64
	maxSubsteps            int
	gravity                mgl32.Vec3
	frictionCoefficient    float64
	restitutionCoefficient float64
}

func NewPhysicsManagerAttributes(handle string) *PhysicsManagerAttributes {
	a := &PhysicsManagerAttributes{
		simulator:              SimulatorNone,
		timestep:               0.008,
		maxSubsteps:            10,
		gravity:                mgl32.Vec3{0, -9.8, 0},
		frictionCoefficient:    0.4,
		restitutionCoefficient: 0.1,
	}
	a.bind(ClassPhysicsManager, handle, a.Values)
	return a
}

func (a *PhysicsManagerAttributes) Clone() *PhysicsManagerAttributes {
	c := *a
	c.rebind(c.Values)
	return &c
}

func (a *PhysicsManagerAttributes) Simulator() string               { return a.simulator }
func (a *PhysicsManagerAttributes) Timestep() float64               { return a.timestep }
func (a *PhysicsManagerAttributes) Gravity() mgl32.Vec3             { return a.gravity }
func (a *PhysicsManagerAttributes) FrictionCoefficient() float64    { return a.frictionCoefficient }
func (a *PhysicsManagerAttributes) RestitutionCoefficient() float64 { return a.restitutionCoefficient }

// MaxSubsteps is recorded for completeness; no consumer reads it.
func (a *PhysicsManagerAttributes) MaxSubsteps() int { return a.maxSubsteps }

// SetSimulator names the physics backend. The backend cannot change once
// the template has been registered.
func (a *PhysicsManagerAttributes) SetSimulator(name string) error {
	if a.id != IDUnset {
		return fmt.Errorf("%w: physics_simulator of registered template %q", ErrReadOnly, a.handle)
	}
	a.simulator = name
	a.markDirty()
	return nil
}

func (a *PhysicsManagerAttributes) SetTimestep(t float64) {
	a.timestep = t
	a.markDirty()
}

func (a *PhysicsManagerAttributes) SetMaxSubsteps(n int) {
	a.maxSubsteps = n
	a.markDirty()
}

func (a *PhysicsManagerAttributes) SetGravity(v mgl32.Vec3) {
	a.gravity = v
	a.markDirty()
}

func (a *PhysicsManagerAttributes) SetFrictionCoefficient(f float64) {
	a.frictionCoefficient = f
	a.markDirty()
}

func (a *PhysicsManagerAttributes) SetRestitutionCoefficient(r float64) {
	a.restitutionCoefficient = r
	a.markDirty()
}

func (a *PhysicsManagerAttributes) Values() *config.Configuration {
	c := config.New()
	put(c, "physics_simulator", a.simulator)
	put(c, "timestep", a.timestep)
	put(c, "max_substeps", a.maxSubsteps)
	put(c, "gravity", a.gravity)
	put(c, "friction_coefficient", a.frictionCoefficient)
	put(c, "restitution_coefficient", a.restitutionCoefficient)
	return c
}
