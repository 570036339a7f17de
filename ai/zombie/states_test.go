package zombie

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadearth/ai"
	"github.com/milk9111/deadearth/ai/aitest"
)

type deadStub struct {
	stateBase
	entered bool
}

func (s *deadStub) ID() ai.StateID              { return ai.StateDead }
func (s *deadStub) OnEnter()                    { s.entered = true }
func (s *deadStub) OnUpdate(float64) ai.StateID { return ai.StateDead }

func newTestAgent(t *testing.T, attrs Attributes, network *WaypointNetwork, initial ai.StateID) (*Machine, *aitest.Host) {
	t.Helper()
	h := aitest.NewHost(mgl64.Vec3{}, 10)
	cfg := Config{Config: h.Config("agent"), Attributes: attrs, Network: network}
	cfg.Rand = rand.New(rand.NewSource(7))
	return New(cfg, DefaultTuning(), initial, &deadStub{}), h
}

func stateOf[T ai.State](t *testing.T, m *Machine, id ai.StateID) T {
	t.Helper()
	s, ok := m.State(id)
	if !ok {
		t.Fatalf("state %s not registered", id)
	}
	typed, ok := s.(T)
	if !ok {
		t.Fatalf("state %s has unexpected type %T", id, s)
	}
	return typed
}

func TestNewRegistersAllStates(t *testing.T) {
	m, _ := newTestAgent(t, DefaultAttributes(), nil, ai.StateNone)
	want := []ai.StateID{ai.StateIdle, ai.StateAlerted, ai.StatePatrol, ai.StatePursuit, ai.StateAttack, ai.StateFeeding, ai.StateDead}
	for _, id := range want {
		if _, ok := m.State(id); !ok {
			t.Fatalf("state %s not registered", id)
		}
	}
	if m.CurrentStateID() != ai.StateIdle {
		t.Fatalf("expected idle as default initial state, got %q", m.CurrentStateID())
	}
}

func TestSatisfactionDecay(t *testing.T) {
	cases := []struct {
		name  string
		speed float64
		dt    float64
		start float64
		want  float64
	}{
		{"standing_still", 0, 1, 1, 1},
		{"walking", 2, 1, 1, 1 - 0.1*1/100*8},
		{"never_negative", 10, 1000, 0.01, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			attrs := DefaultAttributes()
			attrs.Satisfaction = c.start
			m, _ := newTestAgent(t, attrs, nil, ai.StateNone)
			m.SetSpeed(c.speed)
			m.Tick(c.dt)
			if got := m.Satisfaction(); math.Abs(got-c.want) > 1e-12 {
				t.Fatalf("expected satisfaction %v, got %v", c.want, got)
			}
		})
	}
}

func TestAnimatorParametersWritten(t *testing.T) {
	m, h := newTestAgent(t, DefaultAttributes(), nil, ai.StateIdle)
	m.SetSpeed(1.5)
	m.SetSeeking(-1)
	m.SetFeeding(true)
	m.SetAttackType(42)
	m.Tick(0.01)

	if h.Animator.Floats[ParamSpeed] != 1.5 || h.Animator.Ints[ParamSeeking] != -1 ||
		!h.Animator.Bools[ParamFeeding] || h.Animator.Ints[ParamAttack] != 42 {
		t.Fatalf("unexpected animator parameters %+v", h.Animator)
	}
}

func TestIdle(t *testing.T) {
	t.Run("timeout_patrols", func(t *testing.T) {
		m, _ := newTestAgent(t, DefaultAttributes(), nil, ai.StateIdle)
		idle := stateOf[*Idle](t, m, ai.StateIdle)
		if idle.idleTime < 10 || idle.idleTime >= 60 {
			t.Fatalf("idle time %v outside [10,60)", idle.idleTime)
		}
		idle.timer = 61
		m.Tick(0.016)
		if m.CurrentStateID() != ai.StatePatrol {
			t.Fatalf("expected patrol, got %q", m.CurrentStateID())
		}
	})

	cases := []struct {
		name  string
		setup func(m *Machine)
		want  ai.StateID
		kind  ai.TargetType
	}{
		{"player", func(m *Machine) {
			m.SetVisualThreat(ai.NewTarget(ai.TargetVisualPlayer, aitest.NewPlayer(100, mgl64.Vec3{0, 0, 3}), mgl64.Vec3{0, 0, 3}, 3, 0))
		}, ai.StatePursuit, ai.TargetVisualPlayer},
		{"light", func(m *Machine) {
			m.SetVisualThreat(ai.NewTarget(ai.TargetVisualLight, nil, mgl64.Vec3{0, 0, 3}, 3, 0))
		}, ai.StateAlerted, ai.TargetVisualLight},
		{"audio", func(m *Machine) {
			m.SetAudioThreat(ai.NewTarget(ai.TargetAudio, nil, mgl64.Vec3{0, 0, 3}, 3, 0))
		}, ai.StateAlerted, ai.TargetAudio},
		{"food", func(m *Machine) {
			m.SetVisualThreat(ai.NewTarget(ai.TargetVisualFood, nil, mgl64.Vec3{0, 0, 3}, 3, 0))
		}, ai.StatePursuit, ai.TargetVisualFood},
		{"light_beats_audio", func(m *Machine) {
			m.SetAudioThreat(ai.NewTarget(ai.TargetAudio, nil, mgl64.Vec3{0, 0, 3}, 3, 0))
			m.SetVisualThreat(ai.NewTarget(ai.TargetVisualLight, nil, mgl64.Vec3{0, 0, 4}, 4, 0))
		}, ai.StateAlerted, ai.TargetVisualLight},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, _ := newTestAgent(t, DefaultAttributes(), nil, ai.StateIdle)
			c.setup(m)
			m.Tick(0.016)
			if m.CurrentStateID() != c.want {
				t.Fatalf("expected %q, got %q", c.want, m.CurrentStateID())
			}
			if m.TargetType() != c.kind {
				t.Fatalf("expected target %v, got %v", c.kind, m.TargetType())
			}
		})
	}
}

func TestPatrolWaypoints(t *testing.T) {
	network := &WaypointNetwork{Waypoints: []mgl64.Vec3{{0, 0, 5}, {5, 0, 5}, {5, 0, 0}}}

	t.Run("sequential", func(t *testing.T) {
		m, h := newTestAgent(t, DefaultAttributes(), network, ai.StatePatrol)
		if m.TargetType() != ai.TargetWaypoint || m.TargetPosition() != network.Waypoints[0] {
			t.Fatalf("expected first waypoint target, got %v at %v", m.TargetType(), m.TargetPosition())
		}
		if m.Speed() != DefaultPatrolTuning().Speed || h.Navigator.Stopped {
			t.Fatalf("patrol should walk")
		}

		for i := 1; i <= 4; i++ {
			m.OnDestinationReached(true)
			want := network.Waypoints[i%3]
			if got, _ := h.Navigator.LastDestination(); got != want {
				t.Fatalf("step %d: expected destination %v, got %v", i, want, got)
			}
		}

		m.OnDestinationReached(false)
		if m.CurrentWaypoint() != 1 {
			t.Fatalf("leaving the trigger must not advance, at %d", m.CurrentWaypoint())
		}
	})

	t.Run("random_never_repeats", func(t *testing.T) {
		h := aitest.NewHost(mgl64.Vec3{}, 10)
		cfg := Config{Config: h.Config("agent"), Attributes: DefaultAttributes(), Network: network, RandomPatrol: true}
		cfg.Rand = rand.New(rand.NewSource(3))
		m := New(cfg, DefaultTuning(), ai.StatePatrol)

		prev := m.CurrentWaypoint()
		for i := 0; i < 30; i++ {
			m.OnDestinationReached(true)
			if m.CurrentWaypoint() == prev {
				t.Fatalf("random patrol repeated waypoint %d", prev)
			}
			prev = m.CurrentWaypoint()
		}
	})

	t.Run("empty_network_is_noop", func(t *testing.T) {
		m, h := newTestAgent(t, DefaultAttributes(), &WaypointNetwork{}, ai.StatePatrol)
		h.Navigator.Path = false
		m.Tick(0.1)
		m.OnDestinationReached(true)
		if m.CurrentStateID() != ai.StatePatrol || m.TargetType() != ai.TargetNone {
			t.Fatalf("empty network changed state %q target %v", m.CurrentStateID(), m.TargetType())
		}
	})

	t.Run("stale_path_advances", func(t *testing.T) {
		m, h := newTestAgent(t, DefaultAttributes(), network, ai.StatePatrol)
		h.Navigator.Stale = true
		m.Tick(0.1)
		if m.CurrentWaypoint() != 1 {
			t.Fatalf("expected stale path to advance to waypoint 1, at %d", m.CurrentWaypoint())
		}
	})

	t.Run("sharp_turn_alerts", func(t *testing.T) {
		m, h := newTestAgent(t, DefaultAttributes(), network, ai.StatePatrol)
		h.Navigator.Steering = mgl64.Vec3{0, 0, -5}
		m.Tick(0.1)
		if m.CurrentStateID() != ai.StateAlerted {
			t.Fatalf("expected alerted for a turn on the spot, got %q", m.CurrentStateID())
		}
	})

	t.Run("audio_alerts", func(t *testing.T) {
		m, _ := newTestAgent(t, DefaultAttributes(), network, ai.StatePatrol)
		m.SetAudioThreat(ai.NewTarget(ai.TargetAudio, nil, mgl64.Vec3{3, 0, 0}, 3, 0))
		m.Tick(0.1)
		if m.CurrentStateID() != ai.StateAlerted || m.TargetType() != ai.TargetAudio {
			t.Fatalf("expected alerted on audio, got %q target %v", m.CurrentStateID(), m.TargetType())
		}
	})

	t.Run("food_detour_depends_on_hunger", func(t *testing.T) {
		for _, c := range []struct {
			satisfaction float64
			want         ai.StateID
		}{{0.2, ai.StatePursuit}, {0.9, ai.StatePatrol}} {
			attrs := DefaultAttributes()
			attrs.Satisfaction = c.satisfaction
			m, _ := newTestAgent(t, attrs, network, ai.StatePatrol)
			m.SetVisualThreat(ai.NewTarget(ai.TargetVisualFood, nil, mgl64.Vec3{0, 0, 3}, 3, 0))
			m.Tick(0.01)
			if m.CurrentStateID() != c.want {
				t.Fatalf("satisfaction %v: expected %q, got %q", c.satisfaction, c.want, m.CurrentStateID())
			}
		}
	})

	t.Run("ik_looks_at_target", func(t *testing.T) {
		m, h := newTestAgent(t, DefaultAttributes(), network, ai.StatePatrol)
		m.OnAnimatorIK(0.1)
		if h.Animator.LookAt != (mgl64.Vec3{0, 1, 5}) || h.Animator.LookAtW != 0.55 {
			t.Fatalf("unexpected look at %v weight %v", h.Animator.LookAt, h.Animator.LookAtW)
		}
	})
}

func TestAlerted(t *testing.T) {
	t.Run("audio_ahead_pursues", func(t *testing.T) {
		m, _ := newTestAgent(t, DefaultAttributes(), nil, ai.StateIdle)
		m.SetTarget(ai.TargetAudio, nil, mgl64.Vec3{0, 0, 5}, 5)
		m.ForceTransition(ai.StateAlerted)
		m.Tick(0.1)
		if m.CurrentStateID() != ai.StatePursuit {
			t.Fatalf("expected pursuit, got %q", m.CurrentStateID())
		}
	})

	t.Run("turns_towards_light", func(t *testing.T) {
		attrs := DefaultAttributes()
		attrs.Intelligence = 1
		m, _ := newTestAgent(t, attrs, nil, ai.StateIdle)
		m.SetTarget(ai.TargetVisualLight, nil, mgl64.Vec3{-5, 0, -1}, 5)
		m.ForceTransition(ai.StateAlerted)
		m.Tick(2)
		if m.CurrentStateID() != ai.StateAlerted {
			t.Fatalf("expected to stay alerted, got %q", m.CurrentStateID())
		}
		if m.Seeking() != -1 {
			t.Fatalf("expected seeking -1, got %d", m.Seeking())
		}
	})

	t.Run("timeout_returns_to_patrol", func(t *testing.T) {
		network := &WaypointNetwork{Waypoints: []mgl64.Vec3{{0, 0, 5}}}
		m, h := newTestAgent(t, DefaultAttributes(), network, ai.StateIdle)
		m.ForceTransition(ai.StateAlerted)
		m.Tick(DefaultAlertedTuning().MaxDuration + 1)
		if got, ok := h.Navigator.LastDestination(); !ok || got != network.Waypoints[0] {
			t.Fatalf("expected destination on the waypoint, got %v", got)
		}
		if m.CurrentStateID() != ai.StatePatrol {
			t.Fatalf("expected patrol, got %q", m.CurrentStateID())
		}
	})

	t.Run("player_pursues", func(t *testing.T) {
		m, _ := newTestAgent(t, DefaultAttributes(), nil, ai.StateIdle)
		m.ForceTransition(ai.StateAlerted)
		m.SetVisualThreat(ai.NewTarget(ai.TargetVisualPlayer, nil, mgl64.Vec3{0, 0, -3}, 3, 0))
		m.Tick(0.1)
		if m.CurrentStateID() != ai.StatePursuit {
			t.Fatalf("expected pursuit, got %q", m.CurrentStateID())
		}
	})
}

func TestPursuit(t *testing.T) {
	player := aitest.NewPlayer(100, mgl64.Vec3{0, 0, 4})
	playerThreat := ai.NewTarget(ai.TargetVisualPlayer, player, player.Pos, 4, 0)

	t.Run("melee_range_attacks", func(t *testing.T) {
		m, _ := newTestAgent(t, DefaultAttributes(), nil, ai.StateIdle)
		m.SetTargetFrom(playerThreat)
		m.ForceTransition(ai.StatePursuit)
		m.Tick(0.1)
		if m.CurrentStateID() != ai.StatePursuit {
			t.Fatalf("expected to keep pursuing, got %q", m.CurrentStateID())
		}

		m.SetInMeleeRange(true)
		m.Tick(0.1)
		if m.CurrentStateID() != ai.StateAttack {
			t.Fatalf("expected attack, got %q", m.CurrentStateID())
		}
		if at := m.AttackType(); at < 1 || at >= 100 {
			t.Fatalf("attack type %d outside [1,100)", at)
		}
	})

	t.Run("food_reached_feeds", func(t *testing.T) {
		m, _ := newTestAgent(t, DefaultAttributes(), nil, ai.StateIdle)
		m.SetTarget(ai.TargetVisualFood, aitest.NewFood(200, mgl64.Vec3{0, 0, 2}), mgl64.Vec3{0, 0, 2}, 2)
		m.ForceTransition(ai.StatePursuit)
		m.OnDestinationReached(true)
		m.Tick(0.1)
		if m.CurrentStateID() != ai.StateFeeding {
			t.Fatalf("expected feeding, got %q", m.CurrentStateID())
		}
	})

	t.Run("audio_reached_alerts_and_clears", func(t *testing.T) {
		m, _ := newTestAgent(t, DefaultAttributes(), nil, ai.StateIdle)
		m.SetTarget(ai.TargetAudio, nil, mgl64.Vec3{0, 0, 2}, 2)
		m.ForceTransition(ai.StatePursuit)
		m.OnDestinationReached(true)
		m.Tick(0.1)
		if m.CurrentStateID() != ai.StateAlerted || m.TargetType() != ai.TargetNone {
			t.Fatalf("expected alerted with no target, got %q %v", m.CurrentStateID(), m.TargetType())
		}
	})

	t.Run("invalid_path_alerts", func(t *testing.T) {
		m, h := newTestAgent(t, DefaultAttributes(), nil, ai.StateIdle)
		m.SetTargetFrom(playerThreat)
		m.ForceTransition(ai.StatePursuit)
		h.Navigator.Status = ai.PathInvalid
		m.Tick(0.1)
		if m.CurrentStateID() != ai.StateAlerted {
			t.Fatalf("expected alerted, got %q", m.CurrentStateID())
		}
	})

	t.Run("times_out", func(t *testing.T) {
		m, _ := newTestAgent(t, DefaultAttributes(), nil, ai.StateIdle)
		m.SetTargetFrom(playerThreat)
		m.ForceTransition(ai.StatePursuit)
		m.Tick(DefaultPursuitTuning().MaxDuration + 1)
		if m.CurrentStateID() != ai.StatePatrol {
			t.Fatalf("expected patrol, got %q", m.CurrentStateID())
		}
	})

	t.Run("repaths_towards_moving_player", func(t *testing.T) {
		m, h := newTestAgent(t, DefaultAttributes(), nil, ai.StateIdle)
		m.SetTargetFrom(playerThreat)
		m.ForceTransition(ai.StatePursuit)
		before := len(h.Navigator.Destinations)

		moved := ai.NewTarget(ai.TargetVisualPlayer, player, mgl64.Vec3{1, 0, 4}, 1, 0)
		m.SetVisualThreat(moved)
		m.Tick(0.1)
		if len(h.Navigator.Destinations) != before+1 {
			t.Fatalf("expected a repath after the delay, got %d destinations", len(h.Navigator.Destinations))
		}
		if m.TargetPosition() != moved.Position {
			t.Fatalf("target not updated to the moved player")
		}

		m.SetVisualThreat(ai.NewTarget(ai.TargetVisualPlayer, player, mgl64.Vec3{2, 0, 4}, 4, 0))
		m.Tick(0.1)
		if len(h.Navigator.Destinations) != before+1 {
			t.Fatalf("repath delay not honoured")
		}
	})

	t.Run("different_sound_alerts", func(t *testing.T) {
		m, _ := newTestAgent(t, DefaultAttributes(), nil, ai.StateIdle)
		m.SetTarget(ai.TargetAudio, aitest.NewSound(401, mgl64.Vec3{0, 0, 6}, 5), mgl64.Vec3{0, 0, 6}, 6)
		m.ForceTransition(ai.StatePursuit)
		m.SetAudioThreat(ai.NewTarget(ai.TargetAudio, aitest.NewSound(402, mgl64.Vec3{3, 0, 3}, 5), mgl64.Vec3{3, 0, 3}, 4, 0))
		m.Tick(0.1)
		if m.CurrentStateID() != ai.StateAlerted || m.TargetColliderID() != 402 {
			t.Fatalf("expected alerted on the new sound, got %q target %d", m.CurrentStateID(), m.TargetColliderID())
		}
	})

	t.Run("repath_delay_clamped", func(t *testing.T) {
		p := NewPursuit(DefaultPursuitTuning())
		if got := p.RepathDelay(0, false); got != 0.05 {
			t.Fatalf("expected visual minimum 0.05, got %v", got)
		}
		if got := p.RepathDelay(0, true); got != 0.25 {
			t.Fatalf("expected audio minimum 0.25, got %v", got)
		}
		if got := p.RepathDelay(1000, false); got != 5 {
			t.Fatalf("expected maximum 5, got %v", got)
		}
	})
}

func TestAttack(t *testing.T) {
	player := aitest.NewPlayer(100, mgl64.Vec3{0, 0, 1})
	threat := ai.NewTarget(ai.TargetVisualPlayer, player, player.Pos, 1, 0)

	m, h := newTestAgent(t, DefaultAttributes(), nil, ai.StateIdle)
	m.SetTargetFrom(threat)
	m.SetInMeleeRange(true)
	m.ForceTransition(ai.StateAttack)

	for i := 0; i < 20; i++ {
		m.SetVisualThreat(threat)
		m.Tick(0.05)
		if m.CurrentStateID() != ai.StateAttack {
			t.Fatalf("tick %d: expected attack, got %q", i, m.CurrentStateID())
		}
		if at := m.AttackType(); at < 1 || at >= 100 {
			t.Fatalf("attack type %d outside [1,100)", at)
		}
	}

	attack := stateOf[*Attack](t, m, ai.StateAttack)
	m.OnAnimatorIK(0.5)
	if attack.LookAtWeight() <= 0 || h.Animator.LookAt != (mgl64.Vec3{0, 1, 1}) {
		t.Fatalf("expected look at weight to grow towards the player, got %v", attack.LookAtWeight())
	}

	m.SetInMeleeRange(false)
	m.SetVisualThreat(threat)
	m.Tick(0.05)
	if m.CurrentStateID() != ai.StateAlerted {
		t.Fatalf("expected alerted out of melee range, got %q", m.CurrentStateID())
	}
	if m.AttackType() != 0 {
		t.Fatalf("leaving attack must reset the attack type, got %d", m.AttackType())
	}
}

func TestFeeding(t *testing.T) {
	food := aitest.NewFood(200, mgl64.Vec3{0, 0, 1})

	t.Run("satisfied_alerts", func(t *testing.T) {
		m, _ := newTestAgent(t, DefaultAttributes(), nil, ai.StateIdle)
		m.SetTarget(ai.TargetVisualFood, food, food.Pos, 1)
		m.ForceTransition(ai.StateFeeding)
		if !m.Feeding() {
			t.Fatalf("feeding flag not set on enter")
		}
		m.SetSatisfaction(0.95)
		m.Tick(0.1)
		if m.CurrentStateID() != ai.StateAlerted {
			t.Fatalf("expected alerted, got %q", m.CurrentStateID())
		}
		if m.Feeding() {
			t.Fatalf("feeding flag not cleared on exit")
		}
	})

	t.Run("eats_only_in_eating_phase", func(t *testing.T) {
		attrs := DefaultAttributes()
		attrs.Satisfaction = 0.5
		m, h := newTestAgent(t, attrs, nil, ai.StateIdle)
		particles := &aitest.Particles{}
		h.Scene.SetParticles(particles)
		m.SetTarget(ai.TargetVisualFood, food, food.Pos, 1)
		m.ForceTransition(ai.StateFeeding)

		m.Tick(0.05)
		if m.Satisfaction() != 0.5 {
			t.Fatalf("satisfaction grew outside the eating phase: %v", m.Satisfaction())
		}

		h.Animator.Layers[CinematicLayer] = EatingState
		for i := 0; i < 3; i++ {
			m.Tick(0.05)
		}
		want := 0.5 + 3*0.05*0.5/100
		if math.Abs(m.Satisfaction()-want) > 1e-12 {
			t.Fatalf("expected satisfaction %v, got %v", want, m.Satisfaction())
		}
		if particles.Bursts != 1 || particles.Total != 10 {
			t.Fatalf("expected one burst of 10 particles, got %d bursts %d total", particles.Bursts, particles.Total)
		}
	})

	t.Run("threat_interrupts", func(t *testing.T) {
		attrs := DefaultAttributes()
		attrs.Satisfaction = 0.5
		m, _ := newTestAgent(t, attrs, nil, ai.StateIdle)
		m.SetTarget(ai.TargetVisualFood, food, food.Pos, 1)
		m.ForceTransition(ai.StateFeeding)
		m.SetAudioThreat(ai.NewTarget(ai.TargetAudio, nil, mgl64.Vec3{4, 0, 0}, 4, 0))
		m.Tick(0.05)
		if m.CurrentStateID() != ai.StateAlerted || m.TargetType() != ai.TargetAudio {
			t.Fatalf("expected alerted on audio, got %q %v", m.CurrentStateID(), m.TargetType())
		}
	})
}

func TestTakeDamage(t *testing.T) {
	m, _ := newTestAgent(t, DefaultAttributes(), nil, ai.StateIdle)
	if m.TakeDamage(40) {
		t.Fatalf("zombie died too early")
	}
	if m.Health() != 60 {
		t.Fatalf("expected health 60, got %d", m.Health())
	}
	if !m.TakeDamage(100) {
		t.Fatalf("expected zombie to die")
	}
	dead := stateOf[*deadStub](t, m, ai.StateDead)
	if !dead.entered || m.CurrentStateID() != ai.StateDead || m.Health() != 0 {
		t.Fatalf("expected dead state, got %q health %d", m.CurrentStateID(), m.Health())
	}
}

func TestApplyAttributesKeepsRuntimeValues(t *testing.T) {
	m, _ := newTestAgent(t, DefaultAttributes(), nil, ai.StateIdle)
	m.TakeDamage(30)
	m.SetSatisfaction(0.4)

	next := DefaultAttributes()
	next.Sight = 0.9
	next.Health = 100
	next.Satisfaction = 1
	m.ApplyAttributes(next)

	if m.Sight() != 0.9 || m.Health() != 70 || m.Satisfaction() != 0.4 {
		t.Fatalf("unexpected attributes %+v", m.Attributes())
	}
}

func TestApplyTuning(t *testing.T) {
	m, _ := newTestAgent(t, DefaultAttributes(), nil, ai.StateIdle)
	next := DefaultTuning()
	next.Patrol.Speed = 3
	next.Feeding.BurstAmount = 2
	m.ApplyTuning(next)

	if got := stateOf[*Patrol](t, m, ai.StatePatrol).Tuning.Speed; got != 3 {
		t.Fatalf("expected patrol speed 3, got %v", got)
	}
	if got := stateOf[*Feeding](t, m, ai.StateFeeding).Tuning.BurstAmount; got != 2 {
		t.Fatalf("expected burst amount 2, got %v", got)
	}
	if m.CurrentStateID() != ai.StateIdle {
		t.Fatalf("retuning must not change state, got %q", m.CurrentStateID())
	}
}
