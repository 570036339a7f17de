package ai

// RootMotionLease is one outstanding root motion request. The machine uses
// root position while any lease holds a position count and root rotation
// while any holds a rotation count.
type RootMotionLease struct {
	m        *StateMachine
	position int
	rotation int
	released bool
}

// AcquireRootMotion adds a root motion request and returns the lease that
// takes it back.
func (m *StateMachine) AcquireRootMotion(position, rotation int) *RootMotionLease {
	m.AddRootMotionRequest(position, rotation)
	return &RootMotionLease{m: m, position: position, rotation: rotation}
}

// Release returns the lease's counts. Releasing twice is a no-op.
func (l *RootMotionLease) Release() {
	if l == nil || l.released || l.m == nil {
		return
	}
	l.released = true
	l.m.AddRootMotionRequest(-l.position, -l.rotation)
}

// RootMotionConfigurator is attached to an animation state. Entering the
// animation state takes a lease, leaving it gives the lease back.
type RootMotionConfigurator struct {
	RootPosition int `yaml:"root_position"`
	RootRotation int `yaml:"root_rotation"`

	lease *RootMotionLease
}

func (c *RootMotionConfigurator) OnStateEnter(m *StateMachine) {
	if c == nil || m == nil {
		return
	}
	c.lease.Release()
	c.lease = m.AcquireRootMotion(c.RootPosition, c.RootRotation)
}

func (c *RootMotionConfigurator) OnStateExit() {
	if c == nil {
		return
	}
	c.lease.Release()
	c.lease = nil
}
