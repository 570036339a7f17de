package sim

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadearth/ai"
	"github.com/milk9111/deadearth/ai/script"
	"github.com/milk9111/deadearth/prefabs"
)

// Options controls Build.
type Options struct {
	Seed   int64
	Logger *log.Logger
	Debug  bool

	// LoadSpecies and LoadScript default to the prefabs loaders.
	LoadSpecies func(name string) (prefabs.SpeciesSpec, error)
	LoadScript  func(name string) ([]byte, error)
}

// Build creates a world from a scene spec, loading every species the scene
// spawns and compiling each script once.
func Build(scene prefabs.SceneSpec, opts Options) (*World, error) {
	if opts.LoadSpecies == nil {
		opts.LoadSpecies = prefabs.LoadSpeciesSpec
	}
	if opts.LoadScript == nil {
		opts.LoadScript = prefabs.LoadScript
	}

	w := NewWorld(Config{
		Width:    scene.Width,
		Depth:    scene.Depth,
		CellSize: scene.CellSize,
		Seed:     opts.Seed,
		Logger:   opts.Logger,
		Debug:    opts.Debug,
	})

	for _, wall := range scene.Walls {
		w.AddWall(wall.Position, wall.Size)
	}
	for _, n := range scene.Networks {
		net, _ := scene.Network(n.Name)
		w.AddNetwork(net)
	}
	for _, l := range scene.Lights {
		w.AddLight(l.Position, l.Size)
	}
	for _, s := range scene.Sounds {
		w.AddSound(s.Position, s.Radius, s.Period, s.Duration)
	}
	for _, f := range scene.Food {
		w.AddFood(f.Position)
	}

	p := scene.Player
	w.SetPlayer(PlayerConfig{
		Position:    p.Position,
		Speed:       p.Speed,
		Radius:      p.Radius,
		MeleeRadius: p.MeleeRadius,
		NoiseRadius: p.NoiseRadius,
		LightOn:     p.Flashlight.On,
		LightRange:  p.Flashlight.Range,
		LightWidth:  p.Flashlight.Width,
	})

	species := map[string]prefabs.SpeciesSpec{}
	programs := map[string]*script.Program{}
	for _, z := range scene.Zombies {
		spec, ok := species[z.Species]
		if !ok {
			var err error
			spec, err = opts.LoadSpecies(z.Species)
			if err != nil {
				return nil, fmt.Errorf("sim: zombie %s: %w", z.Name, err)
			}
			species[z.Species] = spec
		}

		extra, err := scriptedStates(spec, programs, opts.LoadScript)
		if err != nil {
			return nil, fmt.Errorf("sim: zombie %s: %w", z.Name, err)
		}

		cfg := SpawnConfigFor(spec, extra)
		cfg.Name = z.Name
		cfg.Species = z.Species
		cfg.Position = z.Position
		cfg.Yaw = mgl64.DegToRad(z.Yaw)
		if z.Initial != "" {
			cfg.Initial = ai.StateID(z.Initial)
		}
		if z.Network != "" {
			net, ok := w.Network(z.Network)
			if !ok {
				return nil, fmt.Errorf("sim: zombie %s: unknown network %q", z.Name, z.Network)
			}
			cfg.Network = net
		}

		if _, err := w.SpawnZombie(cfg); err != nil {
			return nil, err
		}
	}

	return w, nil
}

// SpawnConfigFor fills a spawn config from a species spec.
func SpawnConfigFor(spec prefabs.SpeciesSpec, extra []ai.State) SpawnConfig {
	return SpawnConfig{
		Initial:          ai.StateID(spec.Initial),
		Attributes:       spec.Attributes,
		Tuning:           spec.Tuning,
		RandomPatrol:     spec.RandomPatrol,
		StoppingDistance: spec.StoppingDistance,
		SensorRadius:     spec.SensorRadius,
		BodyRadius:       spec.BodyRadius,
		RootMotion:       spec.RootMotion,
		Extra:            extra,
	}
}

// scriptedStates builds a fresh state for every script of spec. Programs
// are compiled once per script name.
func scriptedStates(spec prefabs.SpeciesSpec, programs map[string]*script.Program, load func(string) ([]byte, error)) ([]ai.State, error) {
	states := make([]ai.State, 0, len(spec.Scripts))
	for _, s := range spec.Scripts {
		prog, ok := programs[s.Script]
		if !ok {
			src, err := load(s.Script)
			if err != nil {
				return nil, err
			}
			prog, err = script.Compile(s.Script, src)
			if err != nil {
				return nil, err
			}
			programs[s.Script] = prog
		}
		states = append(states, prog.NewState(ai.StateID(s.State)))
	}
	return states, nil
}

// ReloadSpecies applies an edited species spec to the agents spawned from
// it. Scripts are not recompiled.
func (w *World) ReloadSpecies(species string, spec prefabs.SpeciesSpec) int {
	return w.ApplySpecies(species, spec.Attributes, spec.Tuning, spec.RootMotion)
}
