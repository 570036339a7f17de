package sim

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadearth/ai"
	"github.com/milk9111/deadearth/ai/zombie"
	"github.com/milk9111/deadearth/ecs"
)

// DefaultClearance is how far agents keep their centre from walls.
const DefaultClearance = 0.4

// Config sizes a world.
type Config struct {
	Width     float64
	Depth     float64
	CellSize  float64
	Clearance float64
	Seed      int64
	Logger    *log.Logger
	Debug     bool
}

// World hosts agents on a plane. Each Step runs, in order: emitters, the
// physics step, the fixed phase (threat reset and trigger events), the
// frame phase (state updates), animation and locomotion.
type World struct {
	physics   *Physics
	ecs       *ecs.World
	scene     *ai.Scene
	grid      *Grid
	particles *Particles

	agents   ecs.SparseSet[*Agent]
	player   *Player
	walls    []*Box
	lights   []*Box
	sounds   []*SoundEmitter
	food     []*Sphere
	networks map[string]*zombie.WaypointNetwork

	clearance float64
	seed      int64
	spawned   int64
	logger    *log.Logger
	debug     bool
	clock     float64
}

func NewWorld(cfg Config) *World {
	w := &World{
		physics:   NewPhysics(),
		ecs:       ecs.NewWorld(),
		scene:     ai.NewScene(),
		grid:      NewGrid(cfg.Width, cfg.Depth, cfg.CellSize),
		particles: &Particles{},
		networks:  map[string]*zombie.WaypointNetwork{},
		clearance: cfg.Clearance,
		seed:      cfg.Seed,
		logger:    cfg.Logger,
		debug:     cfg.Debug,
	}
	if w.clearance <= 0 {
		w.clearance = DefaultClearance
	}
	if w.logger == nil {
		w.logger = log.Default()
	}
	w.scene.SetParticles(w.particles)

	w.ecs.AddSystem(ecs.SystemFunc(func(_ *ecs.World, dt float64) { w.updateEmitters(dt) }))
	w.ecs.AddSystem(ecs.SystemFunc(func(_ *ecs.World, dt float64) { w.physics.Step(dt) }))
	w.ecs.AddSystem(ecs.SystemFunc(func(_ *ecs.World, dt float64) { w.fixedUpdate(dt) }))
	w.ecs.AddSystem(ecs.SystemFunc(func(_ *ecs.World, dt float64) { w.frameUpdate(dt) }))
	w.ecs.AddSystem(ecs.SystemFunc(func(_ *ecs.World, dt float64) { w.animate(dt) }))
	w.ecs.AddSystem(ecs.SystemFunc(func(_ *ecs.World, dt float64) { w.locomote(dt) }))
	return w
}

func (w *World) Physics() *Physics       { return w.physics }
func (w *World) Scene() *ai.Scene        { return w.scene }
func (w *World) Grid() *Grid             { return w.grid }
func (w *World) Particles() *Particles   { return w.particles }
func (w *World) Player() *Player         { return w.player }
func (w *World) Walls() []*Box           { return w.walls }
func (w *World) Lights() []*Box          { return w.lights }
func (w *World) Sounds() []*SoundEmitter { return w.sounds }
func (w *World) Food() []*Sphere         { return w.food }
func (w *World) Time() float64           { return w.clock }

// Step advances the world by dt seconds.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.clock += dt
	w.ecs.Update(dt)
}

// AddWall adds a static wall and blocks it for path planning.
func (w *World) AddWall(center, size mgl64.Vec3) *Box {
	b := w.physics.AddStaticBox(ai.TagUntagged, ai.LayerDefault, center, size)
	w.grid.BlockBox(center, size, w.clearance)
	w.walls = append(w.walls, b)
	return b
}

// AddLight adds a fixed light that aggravates zombies like a flashlight.
func (w *World) AddLight(center, size mgl64.Vec3) *Box {
	b := w.physics.AddStaticBox(ai.TagFlashLight, ai.LayerVisualAggravator, center, size)
	w.lights = append(w.lights, b)
	return b
}

// AddSound adds a periodic sound emitter.
func (w *World) AddSound(center mgl64.Vec3, radius, period, duration float64) *SoundEmitter {
	s := &SoundEmitter{
		Sphere:   w.physics.AddStaticSphere(ai.TagSoundEmitter, ai.LayerAudioAggravator, center, radius),
		Period:   period,
		Duration: duration,
	}
	s.update(0)
	w.sounds = append(w.sounds, s)
	return s
}

// foodRadius is the size of a food pickup.
const foodRadius = 0.3

func (w *World) AddFood(center mgl64.Vec3) *Sphere {
	f := w.physics.AddStaticSphere(ai.TagFood, ai.LayerDefault, center, foodRadius)
	w.food = append(w.food, f)
	return f
}

func (w *World) AddNetwork(n *zombie.WaypointNetwork) {
	if n == nil {
		return
	}
	w.networks[n.Name] = n
}

func (w *World) Network(name string) (*zombie.WaypointNetwork, bool) {
	n, ok := w.networks[name]
	return n, ok
}

func (w *World) Networks() []*zombie.WaypointNetwork {
	out := make([]*zombie.WaypointNetwork, 0, len(w.networks))
	for _, n := range w.networks {
		out = append(out, n)
	}
	return out
}

// SetPlayer places the player. A world has at most one player.
func (w *World) SetPlayer(cfg PlayerConfig) *Player {
	if w.player == nil {
		w.player = newPlayer(w.physics, w.scene, cfg)
	}
	return w.player
}

// MovePlayer walks the player along dir.
func (w *World) MovePlayer(dir mgl64.Vec3, dt float64) {
	if w.player == nil {
		return
	}
	w.player.Move(w.grid, dir, dt)
}

// Strike damages every zombie in the player's melee zone and returns how
// many were hit.
func (w *World) Strike() int {
	if w.player == nil {
		return 0
	}
	hit := 0
	for _, id := range sortedIDs(w.player.melee) {
		sm := w.scene.StateMachine(id)
		if sm == nil {
			continue
		}
		if z, ok := sm.Owner().(*zombie.Machine); ok && z.Health() > 0 {
			z.TakeDamage(w.player.strikeDamage)
			hit++
		}
	}
	return hit
}

// SpawnConfig describes one zombie.
type SpawnConfig struct {
	Name     string
	Species  string
	Position mgl64.Vec3
	Yaw      float64
	Initial  ai.StateID

	Attributes       zombie.Attributes
	Tuning           zombie.Tuning
	Network          *zombie.WaypointNetwork
	RandomPatrol     bool
	StoppingDistance float64
	SensorRadius     float64
	BodyRadius       float64
	RootMotion       map[string]ai.RootMotionConfigurator

	// Extra states are registered after the standard zombie states.
	Extra []ai.State
}

// SpawnZombie creates an agent, registers its colliders with the scene and
// enters its initial state.
func (w *World) SpawnZombie(cfg SpawnConfig) (*Agent, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("sim: zombie without a name")
	}
	if _, exists := w.Agent(cfg.Name); exists {
		return nil, fmt.Errorf("sim: duplicate zombie %q", cfg.Name)
	}
	if cfg.SensorRadius <= 0 {
		return nil, fmt.Errorf("sim: zombie %q: sensor radius must be positive", cfg.Name)
	}
	if cfg.BodyRadius <= 0 {
		cfg.BodyRadius = DefaultClearance
	}

	tr := NewTransform(cfg.Position, cfg.Yaw)
	a := &Agent{
		Entity:    w.ecs.CreateEntity(),
		Name:      cfg.Name,
		Species:   cfg.Species,
		Transform: tr,
		Body:      w.physics.AddSphere(ai.TagUntagged, ai.LayerBodyPart, cfg.Position, cfg.BodyRadius),
		Sensor:    &sensorSphere{id: w.physics.NewID(), transform: tr, radius: cfg.SensorRadius},
		Nav:       NewNavigator(w.grid, tr),
		Anim:      NewAnimator(tr),
		overlaps:  map[ai.ColliderID]ai.Collider{},
	}
	a.Anim.SetRootMotion(cfg.RootMotion)

	w.spawned++
	a.order = w.spawned
	a.Machine = zombie.New(zombie.Config{
		Config: ai.Config{
			Name:             cfg.Name,
			Transform:        tr,
			Animator:         a.Anim,
			Navigator:        a.Nav,
			Spatial:          w.physics,
			Scene:            w.scene,
			Collider:         a.Body,
			Sensor:           a.Sensor,
			StoppingDistance: cfg.StoppingDistance,
			Rand:             rand.New(rand.NewSource(w.seed + w.spawned)),
			Logger:           w.logger,
			Debug:            w.debug,
		},
		Attributes:   cfg.Attributes,
		Network:      cfg.Network,
		RandomPatrol: cfg.RandomPatrol,
	}, cfg.Tuning, cfg.Initial, cfg.Extra...)
	a.Anim.Bind(a.Machine.StateMachine)

	w.agents.Set(a.Entity, a)
	return a, nil
}

// Agents returns the agents in spawn order.
func (w *World) Agents() []*Agent {
	return w.agentList()
}

// agentList copies the agents before sorting so the sparse set keeps its
// dense order.
func (w *World) agentList() []*Agent {
	out := append([]*Agent(nil), w.agents.Values()...)
	sortAgents(out)
	return out
}

func (w *World) Agent(name string) (*Agent, bool) {
	for _, a := range w.agents.Values() {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// ApplySpecies hands new attributes, tuning and root motion to every agent
// of species. It returns how many agents changed.
func (w *World) ApplySpecies(species string, attrs zombie.Attributes, tuning zombie.Tuning, rootMotion map[string]ai.RootMotionConfigurator) int {
	n := 0
	for _, a := range w.agentList() {
		if a.Species != species {
			continue
		}
		a.Machine.ApplyAttributes(attrs)
		a.Machine.ApplyTuning(tuning)
		a.Anim.SetRootMotion(rootMotion)
		n++
	}
	return n
}

func (w *World) updateEmitters(dt float64) {
	if w.player != nil {
		w.player.update(dt)
	}
	for _, s := range w.sounds {
		s.update(dt)
	}
	w.particles.update(dt)
}

func (w *World) fixedUpdate(dt float64) {
	for _, a := range w.agentList() {
		a.Machine.FixedTick(dt)
	}
	w.detectSensors()
	w.detectTargets()
	w.detectMelee()
	w.dispatchTriggers()
}

func (w *World) frameUpdate(dt float64) {
	for _, a := range w.agentList() {
		a.Machine.Tick(dt)
	}
	w.reap()
}

// reap despawns the agents whose machine asked for it during this update.
func (w *World) reap() {
	for _, a := range w.agentList() {
		if a.Machine.DespawnRequested() {
			w.despawn(a)
		}
	}
}

// Despawn removes the named agent from the world.
func (w *World) Despawn(name string) bool {
	a, ok := w.Agent(name)
	if !ok {
		return false
	}
	return w.despawn(a)
}

func (w *World) despawn(a *Agent) bool {
	if !w.ecs.IsAlive(a.Entity) || !w.agents.Has(a.Entity) {
		return false
	}
	id := a.Body.ID()
	if w.player != nil {
		if _, in := w.player.melee[id]; in {
			w.player.zone.OnTriggerExit(a.Body)
			delete(w.player.melee, id)
		}
	}

	a.Anim.SetRootMotion(nil)
	w.scene.UnregisterStateMachine(id, a.Machine.StateMachine)
	w.scene.UnregisterStateMachine(a.Sensor.ID(), a.Machine.StateMachine)
	w.physics.Remove(a.Body.Body)

	w.agents.Remove(a.Entity)
	w.ecs.DestroyEntity(a.Entity)
	w.logger.Printf("sim: despawned %s", a.Name)
	return true
}

func (w *World) animate(dt float64) {
	for _, a := range w.agentList() {
		a.Anim.Evaluate(dt)
		a.Machine.OnRootMotionSample(dt)
		a.Machine.OnAnimatorIK(dt)
	}
}

func (w *World) locomote(dt float64) {
	for _, a := range w.agentList() {
		a.Nav.SetSpeed(a.Machine.Speed())
		a.Nav.Update(dt)
		a.Body.SetPosition(a.Transform.Position())
	}
}
