// Package script runs agent states written in tengo. A script defines
// onEnter, update and onExit, each called with the engine functions, a
// persistent state map and the current state id.
package script

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/deadearth/ai"
)

const lifecycleDispatchScript = `
if __phase == "enter" {
	onEnter(__engine, __state, __current_state)
} else if __phase == "update" {
	update(__engine, __state, __current_state)
} else if __phase == "exit" {
	onExit(__engine, __state, __current_state)
}
`

// Program is a compiled state script. States created from one program share
// nothing but the bytecode.
type Program struct {
	name     string
	compiled *tengo.Compiled
}

// Compile compiles src under name. The script must define onEnter, update
// and onExit.
func Compile(name string, src []byte) (*Program, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + lifecycleDispatchScript))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__current_state", "")

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	return &Program{name: name, compiled: compiled}, nil
}

func (p *Program) Name() string { return p.name }

// NewState returns a state with its own copy of the program globals.
func (p *Program) NewState(id ai.StateID) *State {
	return &State{
		id:       id,
		program:  p.name,
		compiled: p.compiled.Clone(),
		data:     &tengo.Map{Value: map[string]tengo.Object{}},
		events:   map[string]bool{},
	}
}

// Host is the species surface a script can drive besides the generic
// machine. Machines that do not implement it get no-op locomotion
// functions.
type Host interface {
	Speed() float64
	SetSpeed(v float64)
	SetSeeking(v int)
	SetFeeding(v bool)
	SetAttackType(v int)
	Health() int
}

// State adapts a script to ai.State.
type State struct {
	ai.BaseState

	id       ai.StateID
	program  string
	compiled *tengo.Compiled
	data     *tengo.Map
	host     Host

	dt      float64
	pending ai.StateID
	events  map[string]bool
	err     error
}

func (s *State) ID() ai.StateID { return s.id }

func (s *State) Bind(m *ai.StateMachine) {
	s.BaseState.Bind(m)
	s.host, _ = m.Owner().(Host)
}

// Data returns the script's persistent state map.
func (s *State) Data() map[string]any {
	out, _ := objectToAny(s.data).(map[string]any)
	return out
}

// Err returns the last script error, if any.
func (s *State) Err() error { return s.err }

func (s *State) OnEnter() {
	s.pending = ""
	s.run("enter")
}

func (s *State) OnExit() {
	s.run("exit")
	clear(s.events)
}

// OnUpdate runs the script's update and returns the state it asked for with
// transition, or its own id.
func (s *State) OnUpdate(dt float64) ai.StateID {
	s.dt = dt
	s.run("update")
	clear(s.events)

	next := s.pending
	s.pending = ""
	if next == "" {
		return s.id
	}
	return next
}

func (s *State) OnSensorEvent(kind ai.TriggerEventType, other ai.Collider) {
	if other == nil {
		return
	}
	s.events[sensorEventName(kind, other.Tag())] = true
}

func (s *State) OnDestinationReached(reached bool) {
	if reached {
		s.events["destination_reached"] = true
	} else {
		s.events["destination_left"] = true
	}
}

func sensorEventName(kind ai.TriggerEventType, tag ai.Tag) string {
	prefix := "sensor_stay"
	switch kind {
	case ai.TriggerEnter:
		prefix = "sensor_enter"
	case ai.TriggerExit:
		prefix = "sensor_exit"
	}
	return prefix + ":" + strings.ReplaceAll(strings.ToLower(string(tag)), " ", "_")
}

func (s *State) run(phase string) {
	s.err = s.runPhase(phase)
	if s.err == nil || s.Machine == nil {
		return
	}
	s.Machine.Logger().Printf("ai: agent=%s script %s %s error: %v", s.Machine.Name(), s.program, phase, s.err)
}

func (s *State) runPhase(phase string) error {
	if s.compiled == nil {
		return fmt.Errorf("nil script runtime")
	}
	if err := s.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := s.compiled.Set("__engine", s.engine()); err != nil {
		return err
	}
	if err := s.compiled.Set("__state", s.data); err != nil {
		return err
	}
	if err := s.compiled.Set("__current_state", string(s.id)); err != nil {
		return err
	}
	return s.compiled.Run()
}
