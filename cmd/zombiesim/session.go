package main

import (
	"image/color"
	"log"

	"github.com/milk9111/deadearth/ai"
	"github.com/milk9111/deadearth/prefabs"
	"github.com/milk9111/deadearth/sim"
	"golang.org/x/image/colornames"
)

// session owns the running world and can rebuild it from the scene file.
type session struct {
	scenePath string
	opts      sim.Options
	logger    *log.Logger

	scene  prefabs.SceneSpec
	world  *sim.World
	colors map[string]color.Color
	states map[string]ai.StateID
}

func newSession(scenePath string, opts sim.Options, logger *log.Logger) (*session, error) {
	s := &session{scenePath: scenePath, opts: opts, logger: logger}
	if err := s.rebuild(); err != nil {
		return nil, err
	}
	return s, nil
}

// rebuild reloads the scene and every species it spawns. The old world is
// kept when loading fails.
func (s *session) rebuild() error {
	scene, err := prefabs.LoadSceneSpec(s.scenePath)
	if err != nil {
		return err
	}
	w, err := sim.Build(scene, s.opts)
	if err != nil {
		return err
	}

	colors := make(map[string]color.Color)
	for _, z := range scene.Zombies {
		if _, ok := colors[z.Species]; ok {
			continue
		}
		spec, err := prefabs.LoadSpeciesSpec(z.Species)
		if err != nil {
			return err
		}
		colors[z.Species] = spec.Color.ColorOr(colornames.Olivedrab)
	}

	s.scene = scene
	s.world = w
	s.colors = colors
	s.states = make(map[string]ai.StateID)
	s.logger.Printf("built %q: %d zombies", scene.Name, len(w.Agents()))
	return nil
}

func (s *session) step(dt float64) {
	s.world.Step(dt)
	s.logTransitions()
}

func (s *session) logTransitions() {
	for _, a := range s.world.Agents() {
		st := a.State()
		if prev, ok := s.states[a.Name]; ok && prev != st {
			s.logger.Printf("t=%.2f %s: %s -> %s (%s)", s.world.Time(), a.Name, prev, st, a.Machine.TargetType())
		}
		s.states[a.Name] = st
	}
}

func (s *session) summary() {
	s.logger.Printf("t=%.2f %d zombies", s.world.Time(), len(s.world.Agents()))
	for _, a := range s.world.Agents() {
		p := a.Position()
		s.logger.Printf("  %-12s %-10s %-8s at (%.1f, %.1f) health %d satisfaction %.2f",
			a.Name, a.Species, a.State(), p.X(), p.Z(), a.Machine.Health(), a.Machine.Satisfaction())
	}
}

func (s *session) speciesColor(species string) color.Color {
	if c, ok := s.colors[species]; ok {
		return c
	}
	return colornames.Olivedrab
}

func (s *session) sceneColor(name string, fallback color.Color) color.Color {
	return s.scene.Colors[name].ColorOr(fallback)
}

func runHeadless(s *session, r *reloader, ticks int, dt float64) {
	for i := 0; i < ticks; i++ {
		r.poll(s)
		s.step(dt)
	}
	s.summary()
}

func (s *session) usesSpecies(name string) bool {
	_, ok := s.colors[name]
	return ok
}
