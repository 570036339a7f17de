package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadearth/ai"
	"github.com/milk9111/deadearth/ai/script"
	"github.com/milk9111/deadearth/ai/zombie"
)

func TestEmbeddedSpecies(t *testing.T) {
	cases := []struct {
		file    string
		name    string
		initial string
		check   func(t *testing.T, s SpeciesSpec)
	}{
		{"zombie.yaml", "walker", "idle", func(t *testing.T, s SpeciesSpec) {
			if s.Attributes != zombie.DefaultAttributes() {
				t.Fatalf("walker attributes drifted from the defaults: %+v", s.Attributes)
			}
			if s.Tuning != zombie.DefaultTuning() {
				t.Fatalf("walker tuning drifted from the defaults: %+v", s.Tuning)
			}
			if s.RootMotion["Attack"].RootRotation != 1 || s.RootMotion["Turn"].RootRotation != 1 {
				t.Fatalf("unexpected root motion %+v", s.RootMotion)
			}
		}},
		{"prefabs/crawler.yaml", "crawler", "patrol", func(t *testing.T, s SpeciesSpec) {
			if !s.Attributes.Crawling || s.Attributes.FOV != 120 || s.Attributes.Health != 60 {
				t.Fatalf("unexpected crawler attributes %+v", s.Attributes)
			}
			if s.Tuning.Patrol.Speed != 0.6 || s.Tuning.Patrol.SlerpSpeed != 5 {
				t.Fatalf("partial tuning must keep defaults, got %+v", s.Tuning.Patrol)
			}
			if s.Tuning.Idle != zombie.DefaultIdleTuning() {
				t.Fatalf("missing idle tuning must keep defaults, got %+v", s.Tuning.Idle)
			}
			if s.StoppingDistance != ai.DefaultStoppingDistance || !s.RandomPatrol {
				t.Fatalf("unexpected crawler spec %+v", s)
			}
		}},
	}

	for _, c := range cases {
		t.Run(c.file, func(t *testing.T) {
			s, err := LoadSpeciesSpec(c.file)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if s.Name != c.name || s.Initial != c.initial {
				t.Fatalf("expected %s/%s, got %s/%s", c.name, c.initial, s.Name, s.Initial)
			}
			if len(s.Scripts) != 1 || s.Scripts[0].State != "dead" {
				t.Fatalf("expected the dead script, got %+v", s.Scripts)
			}
			c.check(t, s)
		})
	}
}

func TestEmbeddedScene(t *testing.T) {
	s, err := LoadSceneSpec("scene.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Width != 40 || s.Depth != 30 || len(s.Walls) == 0 || len(s.Zombies) != 3 {
		t.Fatalf("unexpected scene %+v", s)
	}

	for _, z := range s.Zombies {
		if _, ok := s.Network(z.Network); !ok {
			t.Fatalf("zombie %s uses unknown network %q", z.Name, z.Network)
		}
		if _, err := LoadSpeciesSpec(z.Species); err != nil {
			t.Fatalf("zombie %s: %v", z.Name, err)
		}
	}

	n, _ := s.Network("east")
	if n.Len() != 4 || n.Waypoints[1] != (mgl64.Vec3{5, 0, 25}) {
		t.Fatalf("unexpected east network %+v", n)
	}
	if _, ok := s.Network("missing"); ok {
		t.Fatalf("unknown network resolved")
	}
	if got := s.Colors["wall"].ColorOr(color.White); got != (color.NRGBA{R: 0x3c, G: 0x3c, B: 0x46, A: 0xff}) {
		t.Fatalf("unexpected wall color %v", got)
	}
}

func TestParseSpecs(t *testing.T) {
	t.Run("species_defaults", func(t *testing.T) {
		s, err := ParseSpeciesSpec([]byte("attributes:\n  sight: 0.9\n"))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		want := zombie.DefaultAttributes()
		want.Sight = 0.9
		if s.Attributes != want || s.SensorRadius != 10 {
			t.Fatalf("unexpected spec %+v", s)
		}
	})

	t.Run("scene_defaults", func(t *testing.T) {
		s, err := ParseSceneSpec([]byte("player:\n  speed: 6\n"))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if s.Player.Speed != 6 || s.Player.MeleeRadius != 1.2 || s.CellSize != 0.5 {
			t.Fatalf("unexpected scene %+v", s)
		}
	})

	bad := []struct {
		name string
		doc  string
	}{
		{"short_color", "color: \"#fff\"\n"},
		{"color_not_scalar", "color: [1, 2]\n"},
		{"bad_hex", "color: \"#zz0000\"\n"},
		{"bad_vector", "tuning:\n  feeding:\n    particle_offset: [1, 2]\n"},
	}
	for _, c := range bad {
		t.Run(c.name, func(t *testing.T) {
			if _, err := ParseSpeciesSpec([]byte(c.doc)); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestDeadScriptCompiles(t *testing.T) {
	for _, name := range []string{"dead.tengo", "scripts/dead.tengo", "prefabs/scripts/dead.tengo"} {
		src, err := LoadScript(name)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if _, err := script.Compile(name, src); err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
	}
}

func TestDiskOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })

	if _, ok := ModTime("zombie.yaml"); ok {
		t.Fatalf("no disk file yet")
	}
	if err := os.WriteFile(filepath.Join(dir, "zombie.yaml"), []byte("name: edited\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := LoadSpeciesSpec("zombie.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Name != "edited" {
		t.Fatalf("expected disk copy, got %q", s.Name)
	}
	if _, ok := ModTime("zombie.yaml"); !ok {
		t.Fatalf("expected a mod time for the disk copy")
	}
	if _, err := LoadSpeciesSpec("missing.yaml"); err == nil {
		t.Fatalf("expected an error for a missing spec")
	}
}

func TestWatcherReportsChangedSpecs(t *testing.T) {
	dir := t.TempDir()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })

	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "crawler.yaml"), []byte("name: x\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case name := <-w.Events:
		if name != "crawler.yaml" {
			t.Fatalf("expected crawler.yaml, got %q", name)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no watcher event")
	}
}

func TestFileKinds(t *testing.T) {
	cases := []struct {
		path   string
		spec   bool
		script bool
	}{
		{"a/zombie.yaml", true, false},
		{"scene.YML", true, false},
		{"scripts/dead.tengo", false, true},
		{"readme.md", false, false},
	}
	for _, c := range cases {
		if IsSpecFile(c.path) != c.spec || IsScriptFile(c.path) != c.script {
			t.Fatalf("%s: unexpected classification", c.path)
		}
	}
}
