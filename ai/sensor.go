package ai

// Sensor forwards overlap events of an agent's sensor volume to its machine.
type Sensor struct {
	collider SphereCollider
	machine  *StateMachine
}

func NewSensor(c SphereCollider) *Sensor {
	return &Sensor{collider: c}
}

// Attach makes m the receiver of this sensor's events.
func (s *Sensor) Attach(m *StateMachine) {
	if s == nil {
		return
	}
	s.machine = m
}

func (s *Sensor) Collider() SphereCollider {
	if s == nil {
		return nil
	}
	return s.collider
}

func (s *Sensor) Machine() *StateMachine {
	if s == nil {
		return nil
	}
	return s.machine
}

func (s *Sensor) OnTriggerEnter(other Collider) { s.dispatch(TriggerEnter, other) }
func (s *Sensor) OnTriggerStay(other Collider)  { s.dispatch(TriggerStay, other) }
func (s *Sensor) OnTriggerExit(other Collider)  { s.dispatch(TriggerExit, other) }

// OnTrigger routes an event of any kind.
func (s *Sensor) OnTrigger(kind TriggerEventType, other Collider) {
	s.dispatch(kind, other)
}

func (s *Sensor) dispatch(kind TriggerEventType, other Collider) {
	if s == nil || s.machine == nil || other == nil {
		return
	}
	s.machine.OnSensorEvent(kind, other)
}

// MeleeZone is a trigger around a player. Agent colliders entering it are
// resolved through the scene and flagged as in melee range.
type MeleeZone struct {
	Scene *Scene
}

func (z MeleeZone) OnTriggerEnter(other Collider) {
	z.set(other, true)
}

func (z MeleeZone) OnTriggerExit(other Collider) {
	z.set(other, false)
}

func (z MeleeZone) set(other Collider, in bool) {
	if other == nil {
		return
	}
	if m := z.Scene.StateMachine(other.ID()); m != nil {
		m.SetInMeleeRange(in)
	}
}
