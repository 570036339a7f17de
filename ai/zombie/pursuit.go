package zombie

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadearth/ai"
)

type PursuitTuning struct {
	Speed                    float64 `yaml:"speed"`
	SlerpSpeed               float64 `yaml:"slerp_speed"`
	RepathDistanceMultiplier float64 `yaml:"repath_distance_multiplier"`
	RepathVisualMin          float64 `yaml:"repath_visual_min"`
	RepathVisualMax          float64 `yaml:"repath_visual_max"`
	RepathAudioMin           float64 `yaml:"repath_audio_min"`
	RepathAudioMax           float64 `yaml:"repath_audio_max"`
	MaxDuration              float64 `yaml:"max_duration"`
}

func DefaultPursuitTuning() PursuitTuning {
	return PursuitTuning{
		Speed:                    3,
		SlerpSpeed:               5,
		RepathDistanceMultiplier: 0.035,
		RepathVisualMin:          0.05,
		RepathVisualMax:          5,
		RepathAudioMin:           0.25,
		RepathAudioMax:           5,
		MaxDuration:              40,
	}
}

// Pursuit chases the current target, re-planning more often the closer a
// moving target gets.
type Pursuit struct {
	stateBase
	Tuning PursuitTuning

	timer       float64
	repathTimer float64
}

func NewPursuit(t PursuitTuning) *Pursuit {
	return &Pursuit{Tuning: t}
}

func (s *Pursuit) ID() ai.StateID { return ai.StatePursuit }

func (s *Pursuit) OnEnter() {
	m := s.m
	if m == nil {
		return
	}
	m.resetLocomotion(s.Tuning.Speed)
	s.timer = 0
	s.repathTimer = 0

	if nav := m.Navigator(); nav != nil {
		nav.SetDestination(m.TargetPosition())
		nav.SetStopped(false)
	}
}

// RepathDelay is how long the state waits before re-planning towards a
// threat d metres away.
func (s *Pursuit) RepathDelay(d float64, audio bool) float64 {
	lo, hi := s.Tuning.RepathVisualMin, s.Tuning.RepathVisualMax
	if audio {
		lo, hi = s.Tuning.RepathAudioMin, s.Tuning.RepathAudioMax
	}
	return mgl64.Clamp(d*s.Tuning.RepathDistanceMultiplier, lo, hi)
}

func (s *Pursuit) repath(threat ai.Target, audio bool) {
	if s.m.TargetPosition() == threat.Position {
		return
	}
	if s.RepathDelay(threat.Distance, audio) >= s.repathTimer {
		return
	}
	if nav := s.m.Navigator(); nav != nil {
		nav.SetDestination(threat.Position)
	}
	s.repathTimer = 0
}

func (s *Pursuit) OnUpdate(dt float64) ai.StateID {
	m := s.m
	if m == nil {
		return ai.StatePursuit
	}

	s.timer += dt
	s.repathTimer += dt

	if s.timer > s.Tuning.MaxDuration {
		return ai.StatePatrol
	}

	if m.TargetType() == ai.TargetVisualPlayer && m.InMeleeRange() {
		return ai.StateAttack
	}

	if m.IsTargetReached() {
		switch m.TargetType() {
		case ai.TargetAudio, ai.TargetVisualLight:
			m.ClearTarget()
			return ai.StateAlerted
		case ai.TargetVisualFood:
			return ai.StateFeeding
		}
	}

	nav := m.Navigator()
	if nav != nil && !nav.PathPending() {
		if nav.IsPathStale() || !nav.HasPath() || nav.PathStatus() != ai.PathComplete {
			return ai.StateAlerted
		}
	}

	visual := m.VisualThreat()
	audio := m.AudioThreat()

	switch {
	case !m.UseRootRotation() && m.TargetType() == ai.TargetVisualPlayer &&
		visual.Type == ai.TargetVisualPlayer && m.IsTargetReached():
		m.faceTowards(m.TargetPosition(), 1)
	case !m.UseRootRotation() && !m.IsTargetReached():
		if nav != nil {
			m.faceDirection(nav.DesiredVelocity(), dt*s.Tuning.SlerpSpeed)
		}
	case m.IsTargetReached():
		return ai.StateAlerted
	}

	if visual.Type == ai.TargetVisualPlayer {
		s.repath(visual, false)
		m.SetTargetFrom(visual)
		return ai.StatePursuit
	}

	// A last sighting of the player outranks lights and sounds.
	if m.TargetType() == ai.TargetVisualPlayer {
		return ai.StatePursuit
	}

	switch {
	case visual.Type == ai.TargetVisualLight:
		switch m.TargetType() {
		case ai.TargetAudio, ai.TargetVisualFood:
			m.SetTargetFrom(visual)
			return ai.StateAlerted
		case ai.TargetVisualLight:
			if m.TargetColliderID() == visual.ColliderID() {
				s.repath(visual, false)
				m.SetTargetFrom(visual)
				return ai.StatePursuit
			}
			m.SetTargetFrom(visual)
			return ai.StateAlerted
		}

	case audio.Type == ai.TargetAudio:
		switch m.TargetType() {
		case ai.TargetVisualFood:
			m.SetTargetFrom(audio)
			return ai.StateAlerted
		case ai.TargetAudio:
			if m.TargetColliderID() == audio.ColliderID() {
				s.repath(audio, true)
				m.SetTargetFrom(audio)
				return ai.StatePursuit
			}
			m.SetTargetFrom(audio)
			return ai.StateAlerted
		}
	}

	return ai.StatePursuit
}
