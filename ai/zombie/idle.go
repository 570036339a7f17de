package zombie

import (
	"github.com/milk9111/deadearth/ai"
)

type IdleTuning struct {
	MinTime float64 `yaml:"min_time"`
	MaxTime float64 `yaml:"max_time"`
}

func DefaultIdleTuning() IdleTuning {
	return IdleTuning{MinTime: 10, MaxTime: 60}
}

// Idle stands still for a random dwell time, then patrols. Any threat ends
// the wait early.
type Idle struct {
	stateBase
	Tuning IdleTuning

	idleTime float64
	timer    float64
}

func NewIdle(t IdleTuning) *Idle {
	return &Idle{Tuning: t}
}

func (s *Idle) ID() ai.StateID { return ai.StateIdle }

func (s *Idle) OnEnter() {
	if s.m == nil {
		return
	}
	s.idleTime = s.m.RandRange(s.Tuning.MinTime, s.Tuning.MaxTime)
	s.timer = 0

	s.m.resetLocomotion(0)
	s.m.ClearTarget()
}

func (s *Idle) OnUpdate(dt float64) ai.StateID {
	m := s.m
	if m == nil {
		return ai.StateIdle
	}

	visual := m.VisualThreat()
	switch {
	case visual.Type == ai.TargetVisualPlayer:
		m.SetTargetFrom(visual)
		return ai.StatePursuit
	case visual.Type == ai.TargetVisualLight:
		m.SetTargetFrom(visual)
		return ai.StateAlerted
	case m.AudioThreat().Type == ai.TargetAudio:
		m.SetTargetFrom(m.AudioThreat())
		return ai.StateAlerted
	case visual.Type == ai.TargetVisualFood:
		m.SetTargetFrom(visual)
		return ai.StatePursuit
	}

	s.timer += dt
	if s.timer > s.idleTime {
		return ai.StatePatrol
	}
	return ai.StateIdle
}
