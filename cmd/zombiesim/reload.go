package main

import (
	"log"

	"github.com/milk9111/deadearth/prefabs"
)

// reloader applies prefab edits to a running session between steps.
type reloader struct {
	watcher *prefabs.Watcher
	logger  *log.Logger
}

func newReloader(logger *log.Logger) (*reloader, error) {
	w, err := prefabs.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &reloader{watcher: w, logger: logger}, nil
}

func (r *reloader) Close() error {
	if r == nil {
		return nil
	}
	return r.watcher.Close()
}

// poll drains pending file events without blocking. Species edits are
// applied in place. Scene and script edits rebuild the world.
func (r *reloader) poll(s *session) {
	if r == nil {
		return
	}
	rebuild := false
	for {
		select {
		case name, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if r.apply(s, name) {
				rebuild = true
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.logger.Printf("watch: %v", err)
		default:
			if rebuild {
				if err := s.rebuild(); err != nil {
					r.logger.Printf("rebuild: %v", err)
				}
			}
			return
		}
	}
}

// apply reports whether name needs a full rebuild.
func (r *reloader) apply(s *session, name string) bool {
	if prefabs.IsScriptFile(name) || name == s.scenePath {
		r.logger.Printf("%s changed, rebuilding", name)
		return true
	}
	if !s.usesSpecies(name) {
		return false
	}

	spec, err := prefabs.LoadSpeciesSpec(name)
	if err != nil {
		r.logger.Printf("reload %s: %v", name, err)
		return false
	}
	n := s.world.ReloadSpecies(name, spec)
	s.colors[name] = spec.Color.ColorOr(s.speciesColor(name))
	r.logger.Printf("reloaded %s on %d zombies", name, n)
	return false
}
