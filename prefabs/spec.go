package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/deadearth/ai"
	"github.com/milk9111/deadearth/ai/zombie"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	spec, err := loadInto(filename, zero)
	if err != nil {
		return zero, err
	}
	return spec, nil
}

// loadInto decodes filename over base, so keys missing from the file keep
// the values already in base.
func loadInto[T any](filename string, base T) (T, error) {
	data, err := Load(filename)
	if err != nil {
		return base, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, &base); err != nil {
		return base, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return base, nil
}

// SpeciesSpec describes one kind of zombie.
type SpeciesSpec struct {
	Name             string                               `yaml:"name"`
	Initial          string                               `yaml:"initial"`
	Attributes       zombie.Attributes                    `yaml:"attributes"`
	Tuning           zombie.Tuning                        `yaml:"tuning"`
	StoppingDistance float64                              `yaml:"stopping_distance"`
	SensorRadius     float64                              `yaml:"sensor_radius"`
	BodyRadius       float64                              `yaml:"body_radius"`
	RandomPatrol     bool                                 `yaml:"random_patrol"`
	Scripts          []ScriptStateSpec                    `yaml:"scripts"`
	RootMotion       map[string]ai.RootMotionConfigurator `yaml:"root_motion"`
	Color            *YAMLColor                           `yaml:"color"`
}

// ScriptStateSpec registers a tengo script as the state State.
type ScriptStateSpec struct {
	State  string `yaml:"state"`
	Script string `yaml:"script"`
}

func DefaultSpeciesSpec() SpeciesSpec {
	return SpeciesSpec{
		Initial:          string(ai.StateIdle),
		Attributes:       zombie.DefaultAttributes(),
		Tuning:           zombie.DefaultTuning(),
		StoppingDistance: ai.DefaultStoppingDistance,
		SensorRadius:     10,
		BodyRadius:       0.4,
		RootMotion: map[string]ai.RootMotionConfigurator{
			"Turn": {RootRotation: 1},
		},
	}
}

func LoadSpeciesSpec(filename string) (SpeciesSpec, error) {
	return loadInto(filename, DefaultSpeciesSpec())
}

// ParseSpeciesSpec decodes a species document over the defaults.
func ParseSpeciesSpec(data []byte) (SpeciesSpec, error) {
	spec := DefaultSpeciesSpec()
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return spec, fmt.Errorf("prefabs: unmarshal species: %w", err)
	}
	return spec, nil
}

// SceneSpec lays out a level on the ground plane. Positions are x, y, z
// with y up.
type SceneSpec struct {
	Name     string                `yaml:"name"`
	Width    float64               `yaml:"width"`
	Depth    float64               `yaml:"depth"`
	CellSize float64               `yaml:"cell_size"`
	Walls    []WallSpec            `yaml:"walls"`
	Networks []NetworkSpec         `yaml:"networks"`
	Player   PlayerSpec            `yaml:"player"`
	Lights   []LightSpec           `yaml:"lights"`
	Sounds   []SoundSpec           `yaml:"sounds"`
	Food     []FoodSpec            `yaml:"food"`
	Zombies  []ZombieSpawn         `yaml:"zombies"`
	Colors   map[string]*YAMLColor `yaml:"colors"`
}

type WallSpec struct {
	Position [3]float64 `yaml:"position"`
	Size     [3]float64 `yaml:"size"`
}

type NetworkSpec struct {
	Name   string       `yaml:"name"`
	Points [][3]float64 `yaml:"points"`
}

type PlayerSpec struct {
	Position    [3]float64     `yaml:"position"`
	Speed       float64        `yaml:"speed"`
	Radius      float64        `yaml:"radius"`
	MeleeRadius float64        `yaml:"melee_radius"`
	NoiseRadius float64        `yaml:"noise_radius"`
	Flashlight  FlashlightSpec `yaml:"flashlight"`
}

type FlashlightSpec struct {
	On    bool    `yaml:"on"`
	Range float64 `yaml:"range"`
	Width float64 `yaml:"width"`
}

type LightSpec struct {
	Position [3]float64 `yaml:"position"`
	Size     [3]float64 `yaml:"size"`
}

// SoundSpec is a periodic noise source. A zero period makes it constant.
type SoundSpec struct {
	Position [3]float64 `yaml:"position"`
	Radius   float64    `yaml:"radius"`
	Period   float64    `yaml:"period"`
	Duration float64    `yaml:"duration"`
}

type FoodSpec struct {
	Position [3]float64 `yaml:"position"`
}

type ZombieSpawn struct {
	Name     string     `yaml:"name"`
	Species  string     `yaml:"species"`
	Position [3]float64 `yaml:"position"`
	Yaw      float64    `yaml:"yaw"`
	Network  string     `yaml:"network"`
	Initial  string     `yaml:"initial"`
}

func DefaultSceneSpec() SceneSpec {
	return SceneSpec{
		Width:    40,
		Depth:    40,
		CellSize: 0.5,
		Player: PlayerSpec{
			Speed:       4,
			Radius:      0.4,
			MeleeRadius: 1.2,
			NoiseRadius: 8,
			Flashlight:  FlashlightSpec{Range: 6, Width: 1.5},
		},
	}
}

func LoadSceneSpec(filename string) (SceneSpec, error) {
	return loadInto(filename, DefaultSceneSpec())
}

// ParseSceneSpec decodes a scene document over the defaults.
func ParseSceneSpec(data []byte) (SceneSpec, error) {
	spec := DefaultSceneSpec()
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return spec, fmt.Errorf("prefabs: unmarshal scene: %w", err)
	}
	return spec, nil
}

// Network returns the waypoint network called name.
func (s SceneSpec) Network(name string) (*zombie.WaypointNetwork, bool) {
	for _, n := range s.Networks {
		if n.Name != name {
			continue
		}
		out := &zombie.WaypointNetwork{Name: n.Name}
		for _, p := range n.Points {
			out.Waypoints = append(out.Waypoints, p)
		}
		return out, true
	}
	return nil, false
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// ColorOr returns the parsed color, or fallback when c is unset.
func (c *YAMLColor) ColorOr(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
