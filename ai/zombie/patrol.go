package zombie

import (
	"github.com/milk9111/deadearth/ai"
	"github.com/milk9111/deadearth/common"
)

type PatrolTuning struct {
	TurnOnSpotThreshold float64 `yaml:"turn_on_spot_threshold"`
	SlerpSpeed          float64 `yaml:"slerp_speed"`
	Speed               float64 `yaml:"speed"`
	LookAtWeight        float64 `yaml:"look_at_weight"`
}

func DefaultPatrolTuning() PatrolTuning {
	return PatrolTuning{TurnOnSpotThreshold: 80, SlerpSpeed: 5, Speed: 1, LookAtWeight: 0.55}
}

// Patrol walks the waypoint network.
type Patrol struct {
	stateBase
	Tuning PatrolTuning
}

func NewPatrol(t PatrolTuning) *Patrol {
	return &Patrol{Tuning: t}
}

func (s *Patrol) ID() ai.StateID { return ai.StatePatrol }

func (s *Patrol) OnEnter() {
	m := s.m
	if m == nil {
		return
	}
	m.resetLocomotion(s.Tuning.Speed)

	nav := m.Navigator()
	if m.TargetType() != ai.TargetWaypoint {
		m.ClearTarget()
		if p, ok := m.WaypointPosition(false); ok && nav != nil {
			nav.SetDestination(p)
		}
	}
	if nav != nil {
		nav.SetStopped(false)
	}
}

func (s *Patrol) OnUpdate(dt float64) ai.StateID {
	m := s.m
	if m == nil {
		return ai.StatePatrol
	}

	visual := m.VisualThreat()
	switch visual.Type {
	case ai.TargetVisualPlayer:
		m.SetTargetFrom(visual)
		return ai.StatePursuit
	case ai.TargetVisualLight:
		m.SetTargetFrom(visual)
		return ai.StateAlerted
	}

	if audio := m.AudioThreat(); audio.Type == ai.TargetAudio {
		m.SetTargetFrom(audio)
		return ai.StateAlerted
	}

	// Food only pulls a zombie off its route when it is hungry enough for
	// the detour.
	if visual.Type == ai.TargetVisualFood {
		if r := m.SensorRadius(); r > 0 && 1-m.attrs.Satisfaction > visual.Distance/r {
			m.SetTargetFrom(visual)
			return ai.StatePursuit
		}
	}

	nav := m.Navigator()
	if nav == nil || nav.PathPending() {
		return ai.StatePatrol
	}

	pos := m.Position()
	if common.Angle(m.Forward(), nav.SteeringTarget().Sub(pos)) > s.Tuning.TurnOnSpotThreshold {
		return ai.StateAlerted
	}

	if !m.UseRootRotation() {
		m.faceDirection(nav.DesiredVelocity(), dt*s.Tuning.SlerpSpeed)
	}

	if nav.IsPathStale() || !nav.HasPath() || nav.PathStatus() != ai.PathComplete {
		s.nextWaypoint()
	}

	return ai.StatePatrol
}

func (s *Patrol) nextWaypoint() {
	p, ok := s.m.NextWaypoint()
	if !ok {
		return
	}
	if nav := s.m.Navigator(); nav != nil {
		nav.SetDestination(p)
	}
}

func (s *Patrol) OnDestinationReached(reached bool) {
	if s.m == nil || !reached {
		return
	}
	if s.m.TargetType() == ai.TargetWaypoint {
		s.nextWaypoint()
	}
}

func (s *Patrol) OnAnimatorIK(float64) {
	if s.m == nil {
		return
	}
	anim := s.m.Animator()
	if anim == nil {
		return
	}
	anim.SetLookAtPosition(s.m.TargetPosition().Add(common.Up))
	anim.SetLookAtWeight(s.Tuning.LookAtWeight)
}
