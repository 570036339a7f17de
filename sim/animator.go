package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadearth/ai"
	"github.com/milk9111/deadearth/ai/zombie"
	"github.com/milk9111/deadearth/common"
)

// Layers and states of the animator.
const (
	BaseLayer = "Base Layer"

	AnimIdle   = "Idle"
	AnimWalk   = "Walk"
	AnimTurn   = "Turn"
	AnimAttack = "Attack"
	AnimFeed   = "Feed"
	AnimDead   = "Dead"

	CinematicEmpty = "Empty"

	// ParamDead is set by the scripted dead state.
	ParamDead = "Dead"
)

const (
	// DefaultTurnRate is the turn-on-spot speed in degrees per second.
	DefaultTurnRate = 90.0
	// eatingDelay is how long the Feeding parameter must hold before the
	// cinematic layer reaches the eating state.
	eatingDelay = 0.5

	walkThreshold = 0.05
)

// Animator is a parameter driven stand-in for an animation controller. The
// base layer picks a locomotion state from the parameters and produces root
// motion for it; root motion configurators run as its states change.
type Animator struct {
	transform *Transform
	machine   *ai.StateMachine
	configs   map[string]*ai.RootMotionConfigurator

	floats map[string]float64
	bools  map[string]bool
	ints   map[string]int

	TurnRate float64

	base       string
	cinematic  string
	feedHeld   float64
	deltaPos   mgl64.Vec3
	rootRot    mgl64.Quat
	lookAt     mgl64.Vec3
	lookWeight float64
}

func NewAnimator(t *Transform) *Animator {
	return &Animator{
		transform: t,
		configs:   map[string]*ai.RootMotionConfigurator{},
		floats:    map[string]float64{},
		bools:     map[string]bool{},
		ints:      map[string]int{},
		TurnRate:  DefaultTurnRate,
		base:      AnimIdle,
		cinematic: CinematicEmpty,
		rootRot:   t.Rotation(),
	}
}

// Bind attaches the machine the root motion configurators report to and
// enters the configurator of the current state.
func (a *Animator) Bind(m *ai.StateMachine) {
	a.machine = m
	a.configs[a.base].OnStateEnter(m)
}

// SetRootMotion replaces the configurators, keyed by base layer state. Each
// value is copied so agents do not share leases.
func (a *Animator) SetRootMotion(configs map[string]ai.RootMotionConfigurator) {
	a.configs[a.base].OnStateExit()
	a.configs = make(map[string]*ai.RootMotionConfigurator, len(configs))
	for state, c := range configs {
		a.configs[state] = &ai.RootMotionConfigurator{RootPosition: c.RootPosition, RootRotation: c.RootRotation}
	}
	a.configs[a.base].OnStateEnter(a.machine)
}

func (a *Animator) SetFloat(name string, v float64) { a.floats[name] = v }
func (a *Animator) SetBool(name string, v bool)     { a.bools[name] = v }
func (a *Animator) SetInteger(name string, v int)   { a.ints[name] = v }
func (a *Animator) Float(name string) float64       { return a.floats[name] }
func (a *Animator) Bool(name string) bool           { return a.bools[name] }
func (a *Animator) Integer(name string) int         { return a.ints[name] }

func (a *Animator) CurrentState(layer string) string {
	switch layer {
	case BaseLayer:
		return a.base
	case zombie.CinematicLayer:
		return a.cinematic
	}
	return ""
}

func (a *Animator) DeltaPosition() mgl64.Vec3      { return a.deltaPos }
func (a *Animator) RootRotation() mgl64.Quat       { return a.rootRot }
func (a *Animator) SetLookAtPosition(p mgl64.Vec3) { a.lookAt = p }
func (a *Animator) SetLookAtWeight(w float64)      { a.lookWeight = common.Clamp01(w) }

// LookAt returns the current look-at point and weight.
func (a *Animator) LookAt() (mgl64.Vec3, float64) { return a.lookAt, a.lookWeight }

func (a *Animator) selectBase() string {
	switch {
	case a.bools[ParamDead]:
		return AnimDead
	case a.ints[zombie.ParamAttack] > 0:
		return AnimAttack
	case a.bools[zombie.ParamFeeding]:
		return AnimFeed
	case a.ints[zombie.ParamSeeking] != 0:
		return AnimTurn
	case a.floats[zombie.ParamSpeed] > walkThreshold:
		return AnimWalk
	}
	return AnimIdle
}

// Evaluate advances the layers by dt and samples root motion.
func (a *Animator) Evaluate(dt float64) {
	if next := a.selectBase(); next != a.base {
		a.configs[a.base].OnStateExit()
		a.base = next
		a.configs[a.base].OnStateEnter(a.machine)
	}

	if a.bools[zombie.ParamFeeding] {
		a.feedHeld += dt
	} else {
		a.feedHeld = 0
	}
	a.cinematic = CinematicEmpty
	if a.feedHeld >= eatingDelay {
		a.cinematic = zombie.EatingState
	}

	rot := a.transform.Rotation()
	a.deltaPos = mgl64.Vec3{}
	a.rootRot = rot
	switch a.base {
	case AnimWalk:
		a.deltaPos = a.transform.Forward().Mul(a.floats[zombie.ParamSpeed] * dt)
	case AnimTurn:
		yaw := float64(a.ints[zombie.ParamSeeking]) * mgl64.DegToRad(a.TurnRate) * dt
		a.rootRot = common.YawRotation(yaw).Mul(rot).Normalize()
	}
}
