package ai

// State is one behaviour of an agent. The machine owns the registry and
// calls these hooks; a state never switches itself, it returns the id it
// wants from OnUpdate instead.
type State interface {
	ID() StateID
	Bind(m *StateMachine)
	OnEnter()
	OnExit()
	// OnUpdate runs once per frame and returns the next state id. Returning
	// the state's own id keeps it current.
	OnUpdate(dt float64) StateID
	OnSensorEvent(kind TriggerEventType, other Collider)
	OnDestinationReached(reached bool)
	// OnAnimatorMove runs after the animator sampled root motion and before
	// the pose is applied.
	OnAnimatorMove(dt float64)
	OnAnimatorIK(dt float64)
}

// BaseState provides the default hooks. Concrete states embed it and
// override what they need.
type BaseState struct {
	Machine *StateMachine
}

func (b *BaseState) Bind(m *StateMachine) {
	b.Machine = m
}

func (b *BaseState) OnEnter()                                 {}
func (b *BaseState) OnExit()                                  {}
func (b *BaseState) OnSensorEvent(TriggerEventType, Collider) {}
func (b *BaseState) OnDestinationReached(bool)                {}
func (b *BaseState) OnAnimatorIK(float64)                     {}

// OnAnimatorMove hands root motion to the agent. With root position in use
// the navigator velocity becomes the sampled displacement over dt; with root
// rotation in use the transform takes the animator's root rotation.
func (b *BaseState) OnAnimatorMove(dt float64) {
	m := b.Machine
	if m == nil {
		return
	}

	anim := m.Animator()
	if anim == nil {
		return
	}

	if m.UseRootPosition() && dt > 0 {
		if nav := m.Navigator(); nav != nil {
			nav.SetVelocity(anim.DeltaPosition().Mul(1 / dt))
		}
	}

	if m.UseRootRotation() {
		if tr := m.Transform(); tr != nil {
			tr.SetRotation(anim.RootRotation())
		}
	}
}
