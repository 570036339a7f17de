// Package zombie implements the zombie species: its attributes, perception
// rules and behaviour states on top of the ai state machine.
package zombie

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadearth/ai"
	"github.com/milk9111/deadearth/common"
)

// Animator parameter names written every frame.
const (
	ParamSpeed   = "Speed"
	ParamFeeding = "Feeding"
	ParamSeeking = "Seeking"
	ParamAttack  = "Attack"
)

// Attributes are the per species tunables of a zombie.
type Attributes struct {
	FOV           float64 `yaml:"fov"`
	Sight         float64 `yaml:"sight"`
	Hearing       float64 `yaml:"hearing"`
	Aggression    float64 `yaml:"aggression"`
	Health        int     `yaml:"health"`
	Intelligence  float64 `yaml:"intelligence"`
	Satisfaction  float64 `yaml:"satisfaction"`
	ReplenishRate float64 `yaml:"replenish_rate"`
	DepletionRate float64 `yaml:"depletion_rate"`
	Crawling      bool    `yaml:"crawling"`
}

func DefaultAttributes() Attributes {
	return Attributes{
		FOV:           50,
		Sight:         0.5,
		Hearing:       1,
		Aggression:    0.5,
		Health:        100,
		Intelligence:  0.5,
		Satisfaction:  1,
		ReplenishRate: 0.5,
		DepletionRate: 0.1,
	}
}

// Normalized clamps the attributes to their valid ranges.
func (a Attributes) Normalized() Attributes {
	a.FOV = mgl64.Clamp(a.FOV, 10, 360)
	a.Sight = common.Clamp01(a.Sight)
	a.Hearing = common.Clamp01(a.Hearing)
	a.Aggression = common.Clamp01(a.Aggression)
	a.Intelligence = common.Clamp01(a.Intelligence)
	a.Satisfaction = common.Clamp01(a.Satisfaction)
	a.Health = max(0, min(a.Health, 100))
	a.ReplenishRate = math.Max(0, a.ReplenishRate)
	a.DepletionRate = math.Max(0, a.DepletionRate)
	return a
}

// WaypointNetwork is an ordered list of patrol points.
type WaypointNetwork struct {
	Name      string
	Waypoints []mgl64.Vec3
}

func (n *WaypointNetwork) Len() int {
	if n == nil {
		return 0
	}
	return len(n.Waypoints)
}

// Config builds a Machine.
type Config struct {
	ai.Config
	Attributes   Attributes
	Network      *WaypointNetwork
	RandomPatrol bool
}

// Machine is a zombie agent. It embeds the generic state machine and adds
// the species attributes and the animation parameters the states drive.
type Machine struct {
	*ai.StateMachine

	attrs Attributes

	seeking    int
	feeding    bool
	attackType int
	speed      float64

	network         *WaypointNetwork
	randomPatrol    bool
	currentWaypoint int
}

func NewMachine(cfg Config) *Machine {
	m := &Machine{
		StateMachine:    ai.NewStateMachine(cfg.Config),
		attrs:           cfg.Attributes.Normalized(),
		network:         cfg.Network,
		randomPatrol:    cfg.RandomPatrol,
		currentWaypoint: -1,
	}
	m.SetOwner(m)
	return m
}

// Tick runs the current state, writes the animator parameters and depletes
// satisfaction with the cube of the current speed.
func (m *Machine) Tick(dt float64) {
	m.StateMachine.Tick(dt)

	if anim := m.Animator(); anim != nil {
		anim.SetFloat(ParamSpeed, m.speed)
		anim.SetBool(ParamFeeding, m.feeding)
		anim.SetInteger(ParamSeeking, m.seeking)
		anim.SetInteger(ParamAttack, m.attackType)
	}

	m.attrs.Satisfaction = math.Max(0, m.attrs.Satisfaction-(m.attrs.DepletionRate*dt/100)*math.Pow(m.speed, 3))
}

// TakeDamage lowers health and forces the dead state once it reaches zero.
// It reports whether the zombie is dead.
func (m *Machine) TakeDamage(amount int) bool {
	if amount <= 0 || m.attrs.Health <= 0 {
		return m.attrs.Health <= 0
	}
	m.attrs.Health = max(0, m.attrs.Health-amount)
	if m.attrs.Health > 0 {
		return false
	}
	m.Logf("killed")
	m.ForceTransition(ai.StateDead)
	return true
}

// WaypointPosition makes the current waypoint the target and returns its
// position. The first call picks a random or the first waypoint; increment
// advances to the next one. ok is false without waypoints.
func (m *Machine) WaypointPosition(increment bool) (p mgl64.Vec3, ok bool) {
	n := m.network.Len()
	if n == 0 {
		return mgl64.Vec3{}, false
	}

	switch {
	case m.currentWaypoint < 0 || m.currentWaypoint >= n:
		m.currentWaypoint = 0
		if m.randomPatrol {
			m.currentWaypoint = m.RandIntRange(0, n)
		}
	case increment:
		m.advanceWaypoint(n)
	}

	p = m.network.Waypoints[m.currentWaypoint]
	m.SetTarget(ai.TargetWaypoint, nil, p, common.Distance(p, m.Position()))
	return p, true
}

// NextWaypoint advances to the next waypoint and makes it the target.
func (m *Machine) NextWaypoint() (mgl64.Vec3, bool) {
	return m.WaypointPosition(true)
}

func (m *Machine) advanceWaypoint(n int) {
	if m.randomPatrol && n > 1 {
		old := m.currentWaypoint
		for m.currentWaypoint == old {
			m.currentWaypoint = m.RandIntRange(0, n)
		}
		return
	}
	m.currentWaypoint = (m.currentWaypoint + 1) % n
}

func (m *Machine) CurrentWaypoint() int { return m.currentWaypoint }

func (m *Machine) Network() *WaypointNetwork { return m.network }

// SetNetwork swaps the patrol route and restarts waypoint selection.
func (m *Machine) SetNetwork(n *WaypointNetwork, random bool) {
	m.network = n
	m.randomPatrol = random
	m.currentWaypoint = -1
}

func (m *Machine) Attributes() Attributes { return m.attrs }

// ApplyAttributes takes new acuity and rate values while keeping the
// zombie's current health and satisfaction.
func (m *Machine) ApplyAttributes(a Attributes) {
	a = a.Normalized()
	a.Health = m.attrs.Health
	a.Satisfaction = m.attrs.Satisfaction
	m.attrs = a
}

func (m *Machine) FOV() float64           { return m.attrs.FOV }
func (m *Machine) Sight() float64         { return m.attrs.Sight }
func (m *Machine) Hearing() float64       { return m.attrs.Hearing }
func (m *Machine) Intelligence() float64  { return m.attrs.Intelligence }
func (m *Machine) Aggression() float64    { return m.attrs.Aggression }
func (m *Machine) Health() int            { return m.attrs.Health }
func (m *Machine) Crawling() bool         { return m.attrs.Crawling }
func (m *Machine) ReplenishRate() float64 { return m.attrs.ReplenishRate }
func (m *Machine) Satisfaction() float64  { return m.attrs.Satisfaction }

func (m *Machine) SetSatisfaction(v float64) { m.attrs.Satisfaction = v }
func (m *Machine) SetAggression(v float64)   { m.attrs.Aggression = v }
func (m *Machine) SetHealth(v int)           { m.attrs.Health = v }

func (m *Machine) Speed() float64      { return m.speed }
func (m *Machine) SetSpeed(v float64)  { m.speed = v }
func (m *Machine) Seeking() int        { return m.seeking }
func (m *Machine) SetSeeking(v int)    { m.seeking = v }
func (m *Machine) Feeding() bool       { return m.feeding }
func (m *Machine) SetFeeding(v bool)   { m.feeding = v }
func (m *Machine) AttackType() int     { return m.attackType }
func (m *Machine) SetAttackType(v int) { m.attackType = v }

// resetLocomotion applies the parameter set most states start with.
func (m *Machine) resetLocomotion(speed float64) {
	m.NavAgentControl(true, false)
	m.speed = speed
	m.seeking = 0
	m.feeding = false
	m.attackType = 0
}

// faceTowards turns the agent towards p on the horizontal plane, either
// instantly (t >= 1) or by slerping with factor t.
func (m *Machine) faceTowards(p mgl64.Vec3, t float64) {
	tr := m.Transform()
	if tr == nil {
		return
	}
	q, ok := common.LookRotation(p.Sub(tr.Position()))
	if !ok {
		return
	}
	tr.SetRotation(common.Slerp(tr.Rotation(), q, t))
}

// faceDirection slerps the agent towards dir.
func (m *Machine) faceDirection(dir mgl64.Vec3, t float64) {
	tr := m.Transform()
	if tr == nil {
		return
	}
	q, ok := common.LookRotation(dir)
	if !ok {
		return
	}
	tr.SetRotation(common.Slerp(tr.Rotation(), q, t))
}
