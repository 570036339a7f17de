package ai

import (
	"log"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadearth/common"
)

// DefaultStoppingDistance is the target trigger radius used when a config
// leaves it unset.
const DefaultStoppingDistance = 1.0

// Config wires a machine to its host. Only Transform is required; a missing
// animator, navigator or spatial index disables the features that use it.
type Config struct {
	Name      string
	Transform Transform
	Animator  Animator
	Navigator Navigator
	Spatial   Spatial
	Scene     *Scene

	// Collider is the agent's main collider. It and every body part are
	// registered with the scene.
	Collider  Collider
	BodyParts []Collider
	Sensor    SphereCollider

	StoppingDistance float64
	Rand             *rand.Rand
	Logger           *log.Logger
	Debug            bool
}

// TargetTrigger is the sphere placed on the current target. The host tells
// the machine when the agent crosses its boundary.
type TargetTrigger struct {
	Position mgl64.Vec3
	Radius   float64
	Enabled  bool
}

// StateMachine drives a set of states for one agent and owns the agent's
// target and threat slots.
type StateMachine struct {
	name   string
	owner  any
	states map[StateID]State
	order  []StateID

	current   State
	currentID StateID

	target        Target
	visualThreat  Target
	audioThreat   Target
	trigger       TargetTrigger
	targetReached bool
	inMeleeRange  bool

	rootPositionRefs int
	rootRotationRefs int

	stoppingDistance float64
	clock            float64
	despawn          bool

	transform Transform
	animator  Animator
	navigator Navigator
	spatial   Spatial
	scene     *Scene
	collider  Collider
	sensor    *Sensor

	rng    *rand.Rand
	logger *log.Logger
	debug  bool
}

func NewStateMachine(cfg Config) *StateMachine {
	m := &StateMachine{
		name:             cfg.Name,
		states:           map[StateID]State{},
		target:           ClearedTarget(),
		visualThreat:     ClearedTarget(),
		audioThreat:      ClearedTarget(),
		stoppingDistance: cfg.StoppingDistance,
		transform:        cfg.Transform,
		animator:         cfg.Animator,
		navigator:        cfg.Navigator,
		spatial:          cfg.Spatial,
		scene:            cfg.Scene,
		collider:         cfg.Collider,
		rng:              cfg.Rand,
		logger:           cfg.Logger,
		debug:            cfg.Debug,
	}
	if m.stoppingDistance <= 0 {
		m.stoppingDistance = DefaultStoppingDistance
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if m.logger == nil {
		m.logger = log.Default()
	}
	m.owner = m

	if cfg.Sensor != nil {
		m.sensor = NewSensor(cfg.Sensor)
		m.sensor.Attach(m)
	}

	if cfg.Collider != nil {
		m.scene.RegisterStateMachine(cfg.Collider.ID(), m)
	}
	if cfg.Sensor != nil {
		m.scene.RegisterStateMachine(cfg.Sensor.ID(), m)
	}
	for _, part := range cfg.BodyParts {
		if part != nil {
			m.scene.RegisterStateMachine(part.ID(), m)
		}
	}

	return m
}

// RegisterStates adds states keyed by their id. The first state registered
// for an id wins. Each accepted state is bound to the machine.
func (m *StateMachine) RegisterStates(states ...State) {
	for _, s := range states {
		if s == nil {
			continue
		}
		id := s.ID()
		if _, exists := m.states[id]; exists {
			m.debugf("duplicate state %s ignored", id)
			continue
		}
		m.states[id] = s
		m.order = append(m.order, id)
		s.Bind(m)
	}
}

// EnterInitialState makes id current and enters it. When id is not
// registered the machine stays inert and false is returned.
func (m *StateMachine) EnterInitialState(id StateID) bool {
	s, ok := m.states[id]
	if !ok {
		m.current = nil
		m.currentID = StateNone
		m.logger.Printf("ai: agent=%s initial state %q not registered", m.name, id)
		return false
	}
	m.current = s
	m.currentID = id
	m.debugf("enter %s", id)
	s.OnEnter()
	return true
}

// Tick advances the machine clock and runs the current state. A requested
// id that is not registered falls back to Idle, or keeps the current state
// when Idle is missing too.
func (m *StateMachine) Tick(dt float64) {
	m.clock += dt
	if m.current == nil {
		return
	}

	next := m.current.OnUpdate(dt)
	if next == m.currentID {
		return
	}

	s, ok := m.states[next]
	if !ok {
		m.debugf("state %s not registered, falling back to %s", next, StateIdle)
		s, ok = m.states[StateIdle]
		if !ok || s == m.current {
			return
		}
	}
	m.switchTo(s)
}

// ForceTransition switches to id outside of a state update. It reports
// whether id is registered.
func (m *StateMachine) ForceTransition(id StateID) bool {
	s, ok := m.states[id]
	if !ok {
		return false
	}
	if s == m.current {
		return true
	}
	m.switchTo(s)
	return true
}

func (m *StateMachine) switchTo(s State) {
	prev := m.currentID
	if m.current != nil {
		m.current.OnExit()
	}
	m.current = s
	m.currentID = s.ID()
	m.debugf("%s -> %s", prev, m.currentID)
	s.OnEnter()
}

// FixedTick clears both threat slots and refreshes the target distance. It
// must run before the sensor events of the same physics step.
func (m *StateMachine) FixedTick(dt float64) {
	m.visualThreat = ClearedTarget()
	m.audioThreat = ClearedTarget()

	if m.target.Type != TargetNone && m.transform != nil {
		m.target = m.target.WithDistance(common.Distance(m.transform.Position(), m.target.Position))
	}
}

// SetTarget replaces the target and places the target trigger on it with
// the stopping distance as radius.
func (m *StateMachine) SetTarget(t TargetType, c Collider, p mgl64.Vec3, d float64) {
	m.SetTargetWithRadius(t, c, p, d, m.stoppingDistance)
}

// SetTargetWithRadius is SetTarget with an explicit trigger radius.
// A TargetNone target clears the target instead.
func (m *StateMachine) SetTargetWithRadius(t TargetType, c Collider, p mgl64.Vec3, d, radius float64) {
	if t == TargetNone {
		m.ClearTarget()
		return
	}
	m.target = NewTarget(t, c, p, d, m.clock)
	m.trigger = TargetTrigger{Position: p, Radius: radius, Enabled: true}
}

// SetTargetFrom copies t, usually one of the threat slots, into the target.
func (m *StateMachine) SetTargetFrom(t Target) {
	if t.Type == TargetNone {
		m.ClearTarget()
		return
	}
	m.target = t
	m.trigger = TargetTrigger{Position: t.Position, Radius: m.stoppingDistance, Enabled: true}
}

// ClearTarget drops the target and disables the target trigger.
func (m *StateMachine) ClearTarget() {
	m.target = ClearedTarget()
	m.trigger.Enabled = false
	m.targetReached = false
}

// OnDestinationReached is called by the host when the agent enters (true)
// or leaves (false) the target trigger.
func (m *StateMachine) OnDestinationReached(reached bool) {
	m.targetReached = reached
	if m.current != nil {
		m.current.OnDestinationReached(reached)
	}
}

// OnSensorEvent forwards a sensor overlap to the current state.
func (m *StateMachine) OnSensorEvent(kind TriggerEventType, other Collider) {
	if m.current != nil {
		m.current.OnSensorEvent(kind, other)
	}
}

// OnRootMotionSample runs once per animation step after the animator has
// sampled root motion.
func (m *StateMachine) OnRootMotionSample(dt float64) {
	if m.current != nil {
		m.current.OnAnimatorMove(dt)
	}
}

func (m *StateMachine) OnAnimatorIK(dt float64) {
	if m.current != nil {
		m.current.OnAnimatorIK(dt)
	}
}

// NavAgentControl sets whether the navigator moves and turns the agent.
func (m *StateMachine) NavAgentControl(position, rotation bool) {
	if m.navigator == nil {
		return
	}
	m.navigator.SetUpdatePosition(position)
	m.navigator.SetUpdateRotation(rotation)
}

// AddRootMotionRequest adjusts the root motion reference counts.
func (m *StateMachine) AddRootMotionRequest(position, rotation int) {
	m.rootPositionRefs += position
	m.rootRotationRefs += rotation
}

func (m *StateMachine) UseRootPosition() bool { return m.rootPositionRefs > 0 }
func (m *StateMachine) UseRootRotation() bool { return m.rootRotationRefs > 0 }

func (m *StateMachine) VisualThreat() Target     { return m.visualThreat }
func (m *StateMachine) AudioThreat() Target      { return m.audioThreat }
func (m *StateMachine) SetVisualThreat(t Target) { m.visualThreat = t }
func (m *StateMachine) SetAudioThreat(t Target)  { m.audioThreat = t }

func (m *StateMachine) Target() Target               { return m.target }
func (m *StateMachine) TargetType() TargetType       { return m.target.Type }
func (m *StateMachine) TargetPosition() mgl64.Vec3   { return m.target.Position }
func (m *StateMachine) TargetColliderID() ColliderID { return m.target.ColliderID() }
func (m *StateMachine) TargetTrigger() TargetTrigger { return m.trigger }
func (m *StateMachine) IsTargetReached() bool        { return m.targetReached }
func (m *StateMachine) InMeleeRange() bool           { return m.inMeleeRange }
func (m *StateMachine) SetInMeleeRange(in bool)      { m.inMeleeRange = in }
func (m *StateMachine) StoppingDistance() float64    { return m.stoppingDistance }
func (m *StateMachine) CurrentStateID() StateID      { return m.currentID }

// RequestDespawn asks the host to remove the agent after the current step.
func (m *StateMachine) RequestDespawn() { m.despawn = true }

func (m *StateMachine) DespawnRequested() bool { return m.despawn }

// State returns the registered state for id.
func (m *StateMachine) State(id StateID) (State, bool) {
	s, ok := m.states[id]
	return s, ok
}

// StateIDs returns the registered ids in registration order.
func (m *StateMachine) StateIDs() []StateID {
	out := make([]StateID, len(m.order))
	copy(out, m.order)
	return out
}

// Time is the machine clock in seconds, advanced by Tick.
func (m *StateMachine) Time() float64 { return m.clock }

func (m *StateMachine) Name() string         { return m.name }
func (m *StateMachine) Transform() Transform { return m.transform }
func (m *StateMachine) Animator() Animator   { return m.animator }
func (m *StateMachine) Navigator() Navigator { return m.navigator }
func (m *StateMachine) Spatial() Spatial     { return m.spatial }
func (m *StateMachine) Scene() *Scene        { return m.scene }
func (m *StateMachine) Collider() Collider   { return m.collider }
func (m *StateMachine) Sensor() *Sensor      { return m.sensor }
func (m *StateMachine) Rand() *rand.Rand     { return m.rng }
func (m *StateMachine) Logger() *log.Logger  { return m.logger }
func (m *StateMachine) Debug() bool          { return m.debug }
func (m *StateMachine) SetDebug(debug bool)  { m.debug = debug }
func (m *StateMachine) Owner() any           { return m.owner }

// SetOwner records the agent type embedding this machine so that states can
// reach species specific data from Bind.
func (m *StateMachine) SetOwner(o any) {
	if o == nil {
		o = m
	}
	m.owner = o
}

// Position returns the agent position, or the origin without a transform.
func (m *StateMachine) Position() mgl64.Vec3 {
	if m.transform == nil {
		return mgl64.Vec3{}
	}
	return m.transform.Position()
}

// Forward returns the agent's facing, or +Z without a transform.
func (m *StateMachine) Forward() mgl64.Vec3 {
	if m.transform == nil {
		return common.ForwardAxis
	}
	return common.Forward(m.transform.Rotation())
}

// SensorPosition is the world centre of the sensor sphere.
func (m *StateMachine) SensorPosition() mgl64.Vec3 {
	if m.sensor == nil {
		return mgl64.Vec3{}
	}
	c, _ := SphereToWorld(m.sensor.Collider())
	return c
}

// SensorRadius is the world radius of the sensor sphere.
func (m *StateMachine) SensorRadius() float64 {
	if m.sensor == nil {
		return 0
	}
	_, r := SphereToWorld(m.sensor.Collider())
	return r
}

// RandRange returns a float in [lo, hi).
func (m *StateMachine) RandRange(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + m.rng.Float64()*(hi-lo)
}

// RandIntRange returns an int in [lo, hi).
func (m *StateMachine) RandIntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + m.rng.Intn(hi-lo)
}

func (m *StateMachine) debugf(format string, args ...any) {
	if !m.debug {
		return
	}
	m.logger.Printf("ai: agent=%s "+format, append([]any{m.name}, args...)...)
}

// Logf writes a machine scoped line when debug logging is on.
func (m *StateMachine) Logf(format string, args ...any) {
	m.debugf(format, args...)
}
