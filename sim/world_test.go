package sim

import (
	"io"
	"log"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadearth/ai"
	"github.com/milk9111/deadearth/ai/zombie"
	"github.com/milk9111/deadearth/prefabs"
)

const testDT = 0.1

func newTestWorld(t *testing.T) *World {
	t.Helper()
	return NewWorld(Config{Width: 20, Depth: 20, CellSize: 0.5, Seed: 1, Logger: log.New(io.Discard, "", 0)})
}

func spawnTestZombie(t *testing.T, w *World, name string, pos mgl64.Vec3, yaw float64, initial ai.StateID, network *zombie.WaypointNetwork) *Agent {
	t.Helper()
	a, err := w.SpawnZombie(SpawnConfig{
		Name:         name,
		Species:      "test.yaml",
		Position:     pos,
		Yaw:          yaw,
		Initial:      initial,
		Attributes:   zombie.DefaultAttributes(),
		Tuning:       zombie.DefaultTuning(),
		Network:      network,
		SensorRadius: 10,
		RootMotion:   map[string]ai.RootMotionConfigurator{AnimTurn: {RootRotation: 1}},
	})
	if err != nil {
		t.Fatalf("spawn %s: %v", name, err)
	}
	return a
}

func TestSpawnZombie(t *testing.T) {
	w := newTestWorld(t)
	a := spawnTestZombie(t, w, "z", mgl64.Vec3{5, 0, 5}, 0, ai.StateIdle, nil)

	if a.State() != ai.StateIdle || w.Scene().StateMachine(a.Body.ID()) != a.Machine.StateMachine {
		t.Fatalf("agent not registered with the scene")
	}
	if w.Scene().StateMachine(a.Sensor.ID()) != a.Machine.StateMachine {
		t.Fatalf("sensor not registered with the scene")
	}
	if got, ok := w.Agent("z"); !ok || got != a {
		t.Fatalf("lookup by name failed")
	}

	bad := []SpawnConfig{
		{Name: "", SensorRadius: 10},
		{Name: "z", SensorRadius: 10},
		{Name: "y"},
	}
	for _, cfg := range bad {
		if _, err := w.SpawnZombie(cfg); err == nil {
			t.Fatalf("expected an error for %+v", cfg)
		}
	}
}

func TestPerceptionThroughTheWorld(t *testing.T) {
	cases := []struct {
		name   string
		yaw    float64
		player bool
		sound  bool
		state  ai.StateID
		target ai.TargetType
	}{
		{"sees_player_ahead", 0, true, false, ai.StatePursuit, ai.TargetVisualPlayer},
		{"ignores_player_behind", math.Pi, true, false, ai.StateIdle, ai.TargetNone},
		{"hears_sound_behind", math.Pi, false, true, ai.StateAlerted, ai.TargetAudio},
		{"nothing_around", 0, false, false, ai.StateIdle, ai.TargetNone},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld(t)
			if c.player {
				w.SetPlayer(PlayerConfig{Position: mgl64.Vec3{5, 0, 8}, Speed: 4, Radius: 0.4, MeleeRadius: 1.2, NoiseRadius: 8, LightRange: 6, LightWidth: 1.5})
			}
			if c.sound {
				w.AddSound(mgl64.Vec3{5, 0, 8}, 6, 0, 0)
			}
			a := spawnTestZombie(t, w, "z", mgl64.Vec3{5, 0, 5}, c.yaw, ai.StateIdle, nil)

			w.Step(testDT)

			if a.State() != c.state || a.Machine.TargetType() != c.target {
				t.Fatalf("expected %s/%s, got %s/%s", c.state, c.target, a.State(), a.Machine.TargetType())
			}
		})
	}
}

func TestWallsBlockSight(t *testing.T) {
	w := newTestWorld(t)
	w.AddWall(mgl64.Vec3{5, 0, 6.5}, mgl64.Vec3{4, 1, 0.5})
	w.SetPlayer(PlayerConfig{Position: mgl64.Vec3{5, 0, 8}, Speed: 4, Radius: 0.4, MeleeRadius: 1.2, NoiseRadius: 8, LightRange: 6, LightWidth: 1.5})
	a := spawnTestZombie(t, w, "z", mgl64.Vec3{5, 0, 5}, 0, ai.StateIdle, nil)

	w.Step(testDT)
	if a.State() != ai.StateIdle {
		t.Fatalf("player behind a wall was seen, state %s", a.State())
	}
	if len(a.Overlapping()) == 0 {
		t.Fatalf("the player should still be inside the sensor")
	}
}

func TestMeleeAndStrike(t *testing.T) {
	w := newTestWorld(t)
	p := w.SetPlayer(PlayerConfig{Position: mgl64.Vec3{5, 0, 6}, Speed: 4, Radius: 0.4, MeleeRadius: 1.2, NoiseRadius: 8, LightRange: 6, LightWidth: 1.5})
	a := spawnTestZombie(t, w, "z", mgl64.Vec3{5, 0, 5}, math.Pi, ai.StateIdle, nil)

	w.Step(testDT)
	if !a.Machine.InMeleeRange() || len(p.InMelee()) != 1 {
		t.Fatalf("expected the zombie in melee range")
	}
	if hit := w.Strike(); hit != 1 || a.Machine.Health() != 75 {
		t.Fatalf("expected one hit to 75 health, got %d hits and %d health", hit, a.Machine.Health())
	}

	w.MovePlayer(mgl64.Vec3{0, 0, 1}, 1)
	w.Step(testDT)
	if a.Machine.InMeleeRange() {
		t.Fatalf("zombie still in melee range after the player left")
	}
	if w.Strike() != 0 {
		t.Fatalf("nothing should be in reach")
	}
}

func TestDespawn(t *testing.T) {
	w := newTestWorld(t)
	p := w.SetPlayer(PlayerConfig{Position: mgl64.Vec3{5, 0, 6}, Speed: 4, Radius: 0.4, MeleeRadius: 1.2, NoiseRadius: 8, LightRange: 6, LightWidth: 1.5})
	first := spawnTestZombie(t, w, "first", mgl64.Vec3{5, 0, 5}, math.Pi, ai.StateIdle, nil)
	spawnTestZombie(t, w, "second", mgl64.Vec3{15, 0, 15}, 0, ai.StateIdle, nil)
	third := spawnTestZombie(t, w, "third", mgl64.Vec3{15, 0, 2}, 0, ai.StateIdle, nil)

	w.Step(testDT)
	if !first.Machine.InMeleeRange() {
		t.Fatalf("expected the first zombie in melee range")
	}

	if !w.Despawn("first") {
		t.Fatalf("despawn failed")
	}
	if w.Despawn("first") || w.Despawn("missing") {
		t.Fatalf("despawning twice or an unknown name must fail")
	}
	if first.Machine.InMeleeRange() || len(p.InMelee()) != 0 || w.Strike() != 0 {
		t.Fatalf("despawned zombie left in the melee zone")
	}
	if hits := w.Physics().Overlaps(mgl64.Vec3{5, 0, 5}, 0.5, ai.LayerBodyPart); len(hits) != 0 {
		t.Fatalf("despawned body still in the physics space")
	}

	names := []string{}
	for _, a := range w.Agents() {
		names = append(names, a.Name)
	}
	if len(names) != 2 || names[0] != "second" || names[1] != "third" {
		t.Fatalf("unexpected agents %v", names)
	}
	if got, ok := w.Agent("third"); !ok || got != third {
		t.Fatalf("lookup failed after despawn")
	}

	w.Step(testDT)
	if third.State() != ai.StateIdle {
		t.Fatalf("remaining agents must keep running, third is %s", third.State())
	}
}

func TestPatrolFollowsWaypoints(t *testing.T) {
	w := newTestWorld(t)
	route := &zombie.WaypointNetwork{Name: "route", Waypoints: []mgl64.Vec3{{2, 0, 8}, {8, 0, 8}}}
	w.AddNetwork(route)
	a := spawnTestZombie(t, w, "z", mgl64.Vec3{2, 0, 2}, 0, ai.StatePatrol, route)

	for i := 0; i < 30; i++ {
		w.Step(testDT)
	}
	if a.State() != ai.StatePatrol || math.Abs(a.Position().Z()-5) > 0.11 {
		t.Fatalf("expected to walk 3 units while patrolling, at %v in %s", a.Position(), a.State())
	}
	if a.Anim.CurrentState(BaseLayer) != AnimWalk {
		t.Fatalf("expected the walk animation, got %s", a.Anim.CurrentState(BaseLayer))
	}

	for i := 0; i < 30; i++ {
		w.Step(testDT)
	}
	if a.Machine.CurrentWaypoint() != 1 {
		t.Fatalf("expected the second waypoint, got %d", a.Machine.CurrentWaypoint())
	}
}

func TestSoundEmitterPeriod(t *testing.T) {
	p := NewPhysics()
	s := &SoundEmitter{Sphere: p.AddStaticSphere(ai.TagSoundEmitter, ai.LayerAudioAggravator, mgl64.Vec3{}, 3), Period: 2, Duration: 0.5}

	steps := []struct {
		dt float64
		on bool
	}{
		{0.25, true},
		{0.5, false},
		{1.5, true},
		{0.5, false},
	}
	for i, step := range steps {
		s.update(step.dt)
		if s.Enabled() != step.on {
			t.Fatalf("step %d: expected enabled=%v", i, step.on)
		}
	}
}

func TestParticles(t *testing.T) {
	var p Particles
	p.Emit(mgl64.Vec3{}, mgl64.QuatIdent(), 10)
	p.update(0.3)
	p.Emit(mgl64.Vec3{1, 0, 0}, mgl64.QuatIdent(), 5)
	p.update(0.3)

	if len(p.Bursts()) != 1 || p.Bursts()[0].Count != 5 || p.Total() != 15 {
		t.Fatalf("unexpected bursts %+v total %d", p.Bursts(), p.Total())
	}
}

func TestBuildEmbeddedScene(t *testing.T) {
	scene, err := prefabs.LoadSceneSpec("scene.yaml")
	if err != nil {
		t.Fatalf("load scene: %v", err)
	}
	w, err := Build(scene, Options{Seed: 3, Logger: log.New(io.Discard, "", 0)})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if len(w.Agents()) != len(scene.Zombies) || len(w.Walls()) != len(scene.Walls) || w.Player() == nil {
		t.Fatalf("scene not fully built")
	}
	for i, a := range w.Agents() {
		if a.Name != scene.Zombies[i].Name {
			t.Fatalf("agents out of spawn order: %s at %d", a.Name, i)
		}
		if _, ok := a.Machine.State(ai.StateDead); !ok {
			t.Fatalf("%s has no dead state", a.Name)
		}
	}
	if walker, _ := w.Agent("walker-2"); walker.State() != ai.StatePatrol {
		t.Fatalf("spawn initial state must override the species, got %s", walker.State())
	}

	for i := 0; i < 50; i++ {
		w.Step(testDT)
	}

	t.Run("scripted_death", func(t *testing.T) {
		a, _ := w.Agent("walker-1")
		if !a.Machine.TakeDamage(1000) || a.State() != ai.StateDead {
			t.Fatalf("expected the dead state, got %s", a.State())
		}
		w.Step(testDT)
		if !a.Anim.Bool(ParamDead) || a.Anim.CurrentState(BaseLayer) != AnimDead || !a.Nav.Stopped() {
			t.Fatalf("dead script did not run, base=%s", a.Anim.CurrentState(BaseLayer))
		}
	})

	t.Run("reload_species", func(t *testing.T) {
		spec, err := prefabs.LoadSpeciesSpec("zombie.yaml")
		if err != nil {
			t.Fatalf("load species: %v", err)
		}
		spec.Attributes.Sight = 0.9
		spec.Tuning.Patrol.Speed = 2
		if n := w.ReloadSpecies("zombie.yaml", spec); n != 2 {
			t.Fatalf("expected two walkers, got %d", n)
		}
		a, _ := w.Agent("walker-2")
		if a.Machine.Sight() != 0.9 {
			t.Fatalf("attributes not applied")
		}
		crawler, _ := w.Agent("crawler-1")
		if crawler.Machine.Sight() == 0.9 {
			t.Fatalf("other species must be left alone")
		}
	})

	t.Run("corpse_despawns", func(t *testing.T) {
		a, _ := w.Agent("walker-1")
		body, sensor := a.Body.ID(), a.Sensor.ID()
		for i := 0; i < 110; i++ {
			w.Step(testDT)
		}
		if _, ok := w.Agent("walker-1"); ok {
			t.Fatalf("dead zombie still in the world after its corpse time")
		}
		if len(w.Agents()) != len(scene.Zombies)-1 {
			t.Fatalf("expected %d agents, got %d", len(scene.Zombies)-1, len(w.Agents()))
		}
		if w.Scene().StateMachine(body) != nil || w.Scene().StateMachine(sensor) != nil {
			t.Fatalf("despawned colliders still registered")
		}
		for _, other := range w.Agents() {
			if got, ok := w.Agent(other.Name); !ok || got != other {
				t.Fatalf("lookup of %s broken after despawn", other.Name)
			}
		}
	})
}

func TestBuildErrors(t *testing.T) {
	scene := prefabs.DefaultSceneSpec()
	scene.Zombies = []prefabs.ZombieSpawn{{Name: "z", Species: "zombie.yaml", Position: [3]float64{5, 0, 5}, Network: "missing"}}
	if _, err := Build(scene, Options{Logger: log.New(io.Discard, "", 0)}); err == nil {
		t.Fatalf("expected an unknown network error")
	}

	scene.Zombies[0].Network = ""
	scene.Zombies[0].Species = "missing.yaml"
	if _, err := Build(scene, Options{Logger: log.New(io.Discard, "", 0)}); err == nil {
		t.Fatalf("expected a missing species error")
	}
}
