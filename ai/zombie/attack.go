package zombie

import (
	"github.com/milk9111/deadearth/ai"
	"github.com/milk9111/deadearth/common"
)

type AttackTuning struct {
	Speed         float64 `yaml:"speed"`
	SlerpSpeed    float64 `yaml:"slerp_speed"`
	LookAtWeight  float64 `yaml:"look_at_weight"`
	LookAtAngle   float64 `yaml:"look_at_angle"`
	MinAttackType int     `yaml:"min_attack_type"`
	MaxAttackType int     `yaml:"max_attack_type"`
}

func DefaultAttackTuning() AttackTuning {
	return AttackTuning{
		Speed:         0,
		SlerpSpeed:    5,
		LookAtWeight:  0.7,
		LookAtAngle:   15,
		MinAttackType: 1,
		MaxAttackType: 100,
	}
}

// Attack keeps facing the player and rolls a new attack animation every
// frame while the player stays in melee range.
type Attack struct {
	stateBase
	Tuning AttackTuning

	lookAtWeight float64
}

func NewAttack(t AttackTuning) *Attack {
	return &Attack{Tuning: t}
}

func (s *Attack) ID() ai.StateID { return ai.StateAttack }

func (s *Attack) OnEnter() {
	m := s.m
	if m == nil {
		return
	}
	m.resetLocomotion(s.Tuning.Speed)
	m.attackType = s.rollAttack()
	s.lookAtWeight = 0
}

func (s *Attack) OnExit() {
	if s.m == nil {
		return
	}
	s.m.attackType = 0
}

func (s *Attack) rollAttack() int {
	return s.m.RandIntRange(s.Tuning.MinAttackType, s.Tuning.MaxAttackType)
}

func (s *Attack) OnUpdate(dt float64) ai.StateID {
	m := s.m
	if m == nil {
		return ai.StateAttack
	}

	if visual := m.VisualThreat(); visual.Type == ai.TargetVisualPlayer {
		m.SetTargetFrom(visual)
		if !m.InMeleeRange() {
			return ai.StateAlerted
		}
		if !m.UseRootRotation() {
			m.faceTowards(m.TargetPosition(), dt*s.Tuning.SlerpSpeed)
		}
		m.attackType = s.rollAttack()
		return ai.StateAttack
	}

	// Lost sight of the player: face the last known position and search.
	if !m.UseRootRotation() {
		m.faceTowards(m.TargetPosition(), 1)
	}
	return ai.StateAlerted
}

func (s *Attack) OnAnimatorIK(dt float64) {
	m := s.m
	if m == nil {
		return
	}
	anim := m.Animator()
	if anim == nil {
		return
	}

	target := m.TargetPosition()
	if common.Angle(m.Forward(), target.Sub(m.Position())) < s.Tuning.LookAtAngle {
		anim.SetLookAtPosition(target.Add(common.Up))
		s.lookAtWeight = common.Lerp(s.lookAtWeight, s.Tuning.LookAtWeight, dt)
	} else {
		s.lookAtWeight = common.Lerp(s.lookAtWeight, 0, dt)
	}
	anim.SetLookAtWeight(s.lookAtWeight)
}

func (s *Attack) LookAtWeight() float64 { return s.lookAtWeight }
