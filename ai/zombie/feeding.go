package zombie

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadearth/ai"
)

// Animator layer and state that mark the eating phase.
const (
	CinematicLayer = "Cinematic"
	EatingState    = "Feeding State"
)

type FeedingTuning struct {
	SlerpSpeed     float64    `yaml:"slerp_speed"`
	BurstInterval  float64    `yaml:"burst_interval"`
	BurstAmount    int        `yaml:"burst_amount"`
	ParticleOffset [3]float64 `yaml:"particle_offset"`
}

func DefaultFeedingTuning() FeedingTuning {
	return FeedingTuning{
		SlerpSpeed:     5,
		BurstInterval:  0.1,
		BurstAmount:    10,
		ParticleOffset: [3]float64{0, 1, 0.5},
	}
}

// Feeding eats at the food target. Satisfaction only grows while the
// animator's cinematic layer is in the eating state.
type Feeding struct {
	stateBase
	Tuning FeedingTuning

	timer float64
}

func NewFeeding(t FeedingTuning) *Feeding {
	return &Feeding{Tuning: t}
}

func (s *Feeding) ID() ai.StateID { return ai.StateFeeding }

func (s *Feeding) OnEnter() {
	m := s.m
	if m == nil {
		return
	}
	s.timer = 0

	m.resetLocomotion(0)
	m.feeding = true
	if nav := m.Navigator(); nav != nil {
		nav.SetStopped(true)
	}
}

func (s *Feeding) OnExit() {
	if s.m == nil {
		return
	}
	s.m.feeding = false
}

func (s *Feeding) OnUpdate(dt float64) ai.StateID {
	m := s.m
	if m == nil {
		return ai.StateFeeding
	}

	s.timer += dt

	if m.attrs.Satisfaction > FoodSatisfactionThreshold {
		if p, ok := m.WaypointPosition(false); ok {
			if nav := m.Navigator(); nav != nil {
				nav.SetDestination(p)
			}
		}
		return ai.StateAlerted
	}

	if visual := m.VisualThreat(); visual.Type != ai.TargetNone && visual.Type != ai.TargetVisualFood {
		m.SetTargetFrom(visual)
		return ai.StateAlerted
	}

	if audio := m.AudioThreat(); audio.Type == ai.TargetAudio {
		m.SetTargetFrom(audio)
		return ai.StateAlerted
	}

	if anim := m.Animator(); anim != nil && anim.CurrentState(CinematicLayer) == EatingState {
		m.attrs.Satisfaction = math.Min(1, m.attrs.Satisfaction+dt*m.attrs.ReplenishRate/100)
		if s.timer > s.Tuning.BurstInterval {
			s.emitBlood()
			s.timer = 0
		}
	}

	if !m.UseRootRotation() {
		m.faceTowards(m.TargetPosition(), dt*s.Tuning.SlerpSpeed)
	}

	return ai.StateFeeding
}

func (s *Feeding) emitBlood() {
	m := s.m
	tr := m.Transform()
	if tr == nil {
		return
	}
	rot := tr.Rotation()
	mount := tr.Position().Add(rot.Rotate(mgl64.Vec3(s.Tuning.ParticleOffset)))
	m.Scene().EmitParticles(mount, rot, s.Tuning.BurstAmount)
}
