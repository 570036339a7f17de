package zombie

import (
	"math"

	"github.com/milk9111/deadearth/ai"
	"github.com/milk9111/deadearth/common"
)

type AlertedTuning struct {
	MaxDuration           float64 `yaml:"max_duration"`
	WaypointAngle         float64 `yaml:"waypoint_angle"`
	ThreatAngle           float64 `yaml:"threat_angle"`
	DirectionChangePeriod float64 `yaml:"direction_change_period"`
}

func DefaultAlertedTuning() AlertedTuning {
	return AlertedTuning{
		MaxDuration:           10,
		WaypointAngle:         90,
		ThreatAngle:           10,
		DirectionChangePeriod: 1.5,
	}
}

// Alerted turns on the spot looking for the source of a disturbance. Smart
// zombies turn towards it, dumb ones pick a side at random.
type Alerted struct {
	stateBase
	Tuning AlertedTuning

	timer                float64
	directionChangeTimer float64
}

func NewAlerted(t AlertedTuning) *Alerted {
	return &Alerted{Tuning: t}
}

func (s *Alerted) ID() ai.StateID { return ai.StateAlerted }

func (s *Alerted) OnEnter() {
	if s.m == nil {
		return
	}
	s.m.resetLocomotion(0)
	s.timer = s.Tuning.MaxDuration
	s.directionChangeTimer = 0
}

func (s *Alerted) OnUpdate(dt float64) ai.StateID {
	m := s.m
	if m == nil {
		return ai.StateAlerted
	}

	s.timer -= dt
	s.directionChangeTimer += dt

	nav := m.Navigator()
	if s.timer <= 0 {
		if p, ok := m.WaypointPosition(false); ok && nav != nil {
			nav.SetDestination(p)
			nav.SetStopped(false)
		}
		s.timer = s.Tuning.MaxDuration
	}

	visual := m.VisualThreat()
	audio := m.AudioThreat()

	if visual.Type == ai.TargetVisualPlayer {
		m.SetTargetFrom(visual)
		return ai.StatePursuit
	}
	if audio.Type == ai.TargetAudio {
		m.SetTargetFrom(audio)
		s.timer = s.Tuning.MaxDuration
	}
	if visual.Type == ai.TargetVisualLight {
		m.SetTargetFrom(visual)
		s.timer = s.Tuning.MaxDuration
	}
	if audio.Type == ai.TargetNone && visual.Type == ai.TargetVisualFood {
		m.SetTargetFrom(visual)
		return ai.StatePursuit
	}

	pos := m.Position()
	switch target := m.TargetType(); {
	case (target == ai.TargetAudio || target == ai.TargetVisualLight) && !m.IsTargetReached():
		angle := common.SignedAngle(m.Forward(), m.TargetPosition().Sub(pos))
		if target == ai.TargetAudio && math.Abs(angle) < s.Tuning.ThreatAngle {
			return ai.StatePursuit
		}
		if s.directionChangeTimer > s.Tuning.DirectionChangePeriod {
			if m.Rand().Float64() < m.attrs.Intelligence {
				m.seeking = int(common.Sign(angle))
			} else {
				m.seeking = int(common.Sign(m.RandRange(-1, 1)))
			}
			s.directionChangeTimer = 0
		}

	case target == ai.TargetWaypoint && nav != nil && !nav.PathPending():
		angle := common.SignedAngle(m.Forward(), nav.SteeringTarget().Sub(pos))
		if math.Abs(angle) < s.Tuning.WaypointAngle {
			return ai.StatePatrol
		}
		if s.directionChangeTimer > s.Tuning.DirectionChangePeriod {
			m.seeking = int(common.Sign(angle))
			s.directionChangeTimer = 0
		}
	}

	return ai.StateAlerted
}
