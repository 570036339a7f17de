package main

import (
	"bytes"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/milk9111/deadearth/ai"
	"github.com/milk9111/deadearth/sim"
)

func newTestSession(t *testing.T) (*session, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	s, err := newSession("scene.yaml", sim.Options{Seed: 1, Logger: log.New(io.Discard, "", 0)}, log.New(&buf, "", 0))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s, &buf
}

func TestSessionLogsTransitions(t *testing.T) {
	s, buf := newTestSession(t)
	s.step(0.1)

	a, ok := s.world.Agent("walker-1")
	if !ok {
		t.Fatalf("walker-1 missing")
	}
	a.Machine.TakeDamage(1000)
	s.step(0.1)

	if !strings.Contains(buf.String(), "walker-1: ") || !strings.Contains(buf.String(), "-> "+string(ai.StateDead)) {
		t.Fatalf("transition not logged:\n%s", buf.String())
	}
}

func TestReloaderApply(t *testing.T) {
	s, buf := newTestSession(t)
	r := &reloader{logger: s.logger}

	cases := []struct {
		name    string
		file    string
		rebuild bool
		logged  string
	}{
		{"species_in_use", "zombie.yaml", false, "reloaded zombie.yaml on 2 zombies"},
		{"unused_species", "other.yaml", false, ""},
		{"script", "scripts/dead.tengo", true, "rebuilding"},
		{"scene", "scene.yaml", true, "rebuilding"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			buf.Reset()
			if got := r.apply(s, c.file); got != c.rebuild {
				t.Fatalf("expected rebuild=%v, got %v", c.rebuild, got)
			}
			if c.logged != "" && !strings.Contains(buf.String(), c.logged) {
				t.Fatalf("expected %q in log, got %q", c.logged, buf.String())
			}
		})
	}

	var none *reloader
	none.poll(s)
	if err := none.Close(); err != nil {
		t.Fatalf("closing a nil reloader: %v", err)
	}
}

func TestRebuildResetsWorld(t *testing.T) {
	s, _ := newTestSession(t)
	old := s.world
	for i := 0; i < 10; i++ {
		s.step(0.1)
	}
	if err := s.rebuild(); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if s.world == old || s.world.Time() != 0 {
		t.Fatalf("expected a fresh world")
	}
	if c := s.speciesColor("zombie.yaml"); c == nil {
		t.Fatalf("species color missing")
	}
}
