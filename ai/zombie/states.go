package zombie

import (
	"github.com/milk9111/deadearth/ai"
)

// stateBase is embedded by every zombie state. It resolves the zombie
// machine when bound and routes sensor events to zombie perception.
type stateBase struct {
	ai.BaseState
	m *Machine
}

// Bind keeps the base binding and resolves the zombie machine. Binding to a
// machine of another species leaves the state inert.
func (s *stateBase) Bind(sm *ai.StateMachine) {
	s.BaseState.Bind(sm)
	s.m, _ = sm.Owner().(*Machine)
}

func (s *stateBase) OnSensorEvent(kind ai.TriggerEventType, other ai.Collider) {
	if s.m == nil {
		return
	}
	s.m.Perceive(kind, other)
}

// Tuning holds the per state constants of a species.
type Tuning struct {
	Idle    IdleTuning    `yaml:"idle"`
	Alerted AlertedTuning `yaml:"alerted"`
	Patrol  PatrolTuning  `yaml:"patrol"`
	Pursuit PursuitTuning `yaml:"pursuit"`
	Attack  AttackTuning  `yaml:"attack"`
	Feeding FeedingTuning `yaml:"feeding"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Idle:    DefaultIdleTuning(),
		Alerted: DefaultAlertedTuning(),
		Patrol:  DefaultPatrolTuning(),
		Pursuit: DefaultPursuitTuning(),
		Attack:  DefaultAttackTuning(),
		Feeding: DefaultFeedingTuning(),
	}
}

// NewStates returns the six behaviour states configured with t.
func NewStates(t Tuning) []ai.State {
	return []ai.State{
		NewIdle(t.Idle),
		NewAlerted(t.Alerted),
		NewPatrol(t.Patrol),
		NewPursuit(t.Pursuit),
		NewAttack(t.Attack),
		NewFeeding(t.Feeding),
	}
}

// New builds a zombie with the standard states registered and initial
// entered. An unknown initial state leaves the zombie inert.
func New(cfg Config, t Tuning, initial ai.StateID, extra ...ai.State) *Machine {
	m := NewMachine(cfg)
	m.RegisterStates(NewStates(t)...)
	m.RegisterStates(extra...)
	if initial == ai.StateNone {
		initial = ai.StateIdle
	}
	m.EnterInitialState(initial)
	return m
}

// ApplyTuning hands new constants to the registered zombie states. State
// progress such as timers is kept.
func (m *Machine) ApplyTuning(t Tuning) {
	for _, id := range m.StateIDs() {
		s, _ := m.State(id)
		switch st := s.(type) {
		case *Idle:
			st.Tuning = t.Idle
		case *Alerted:
			st.Tuning = t.Alerted
		case *Patrol:
			st.Tuning = t.Patrol
		case *Pursuit:
			st.Tuning = t.Pursuit
		case *Attack:
			st.Tuning = t.Attack
		case *Feeding:
			st.Tuning = t.Feeding
		}
	}
}
