package script

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadearth/ai"
)

func vecObject(v mgl64.Vec3) tengo.Object {
	return &tengo.Array{Value: []tengo.Object{
		&tengo.Float{Value: v.X()},
		&tengo.Float{Value: v.Y()},
		&tengo.Float{Value: v.Z()},
	}}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func (s *State) engine() *tengo.ImmutableMap {
	m := s.Machine
	values := map[string]tengo.Object{}

	values["transition"] = &tengo.UserFunction{Name: "transition", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		s.pending = ai.StateID(name)
		return tengo.TrueValue, nil
	}}

	values["event"] = &tengo.UserFunction{Name: "event", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		return boolObject(s.events[strings.TrimSpace(objectAsString(args[0]))]), nil
	}}

	values["consume_event"] = &tengo.UserFunction{Name: "consume_event", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if !s.events[name] {
			return tengo.FalseValue, nil
		}
		delete(s.events, name)
		return tengo.TrueValue, nil
	}}

	values["dt"] = &tengo.UserFunction{Name: "dt", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: s.dt}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if m == nil {
			return tengo.UndefinedValue, nil
		}
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		m.Logger().Printf("ai: agent=%s %s", m.Name(), strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	if m == nil {
		return &tengo.ImmutableMap{Value: values}
	}

	values["time"] = &tengo.UserFunction{Name: "time", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: m.Time()}, nil
	}}

	values["rand"] = &tengo.UserFunction{Name: "rand", Value: func(args ...tengo.Object) (tengo.Object, error) {
		lo, hi := 0.0, 1.0
		if len(args) >= 2 {
			lo, _ = tengo.ToFloat64(args[0])
			hi, _ = tengo.ToFloat64(args[1])
		}
		return &tengo.Float{Value: m.RandRange(lo, hi)}, nil
	}}

	values["get_position"] = &tengo.UserFunction{Name: "get_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return vecObject(m.Position()), nil
	}}

	values["get_target_position"] = &tengo.UserFunction{Name: "get_target_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return vecObject(m.TargetPosition()), nil
	}}

	values["target_type"] = &tengo.UserFunction{Name: "target_type", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: m.TargetType().String()}, nil
	}}

	values["clear_target"] = &tengo.UserFunction{Name: "clear_target", Value: func(args ...tengo.Object) (tengo.Object, error) {
		m.ClearTarget()
		return tengo.TrueValue, nil
	}}

	values["despawn"] = &tengo.UserFunction{Name: "despawn", Value: func(args ...tengo.Object) (tengo.Object, error) {
		m.RequestDespawn()
		return tengo.TrueValue, nil
	}}

	values["in_melee_range"] = &tengo.UserFunction{Name: "in_melee_range", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(m.InMeleeRange()), nil
	}}

	values["set_stopped"] = &tengo.UserFunction{Name: "set_stopped", Value: func(args ...tengo.Object) (tengo.Object, error) {
		nav := m.Navigator()
		if nav == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		nav.SetStopped(!args[0].IsFalsy())
		return tengo.TrueValue, nil
	}}

	values["set_destination"] = &tengo.UserFunction{Name: "set_destination", Value: func(args ...tengo.Object) (tengo.Object, error) {
		nav := m.Navigator()
		if nav == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		p, err := objectAsVec(args[0])
		if err != nil {
			return nil, err
		}
		return boolObject(nav.SetDestination(p)), nil
	}}

	values["set_float"] = animatorSetter("set_float", m, func(anim ai.Animator, name string, v tengo.Object) {
		f, _ := tengo.ToFloat64(v)
		anim.SetFloat(name, f)
	})
	values["set_bool"] = animatorSetter("set_bool", m, func(anim ai.Animator, name string, v tengo.Object) {
		anim.SetBool(name, !v.IsFalsy())
	})
	values["set_int"] = animatorSetter("set_int", m, func(anim ai.Animator, name string, v tengo.Object) {
		i, _ := tengo.ToInt(v)
		anim.SetInteger(name, i)
	})

	values["animator_state"] = &tengo.UserFunction{Name: "animator_state", Value: func(args ...tengo.Object) (tengo.Object, error) {
		anim := m.Animator()
		if anim == nil || len(args) < 1 {
			return &tengo.String{}, nil
		}
		return &tengo.String{Value: anim.CurrentState(objectAsString(args[0]))}, nil
	}}

	s.addHostFunctions(values)
	return &tengo.ImmutableMap{Value: values}
}

func animatorSetter(name string, m *ai.StateMachine, set func(ai.Animator, string, tengo.Object)) *tengo.UserFunction {
	return &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
		anim := m.Animator()
		if anim == nil || len(args) < 2 {
			return tengo.FalseValue, nil
		}
		set(anim, objectAsString(args[0]), args[1])
		return tengo.TrueValue, nil
	}}
}

func (s *State) addHostFunctions(values map[string]tengo.Object) {
	h := s.host

	values["health"] = &tengo.UserFunction{Name: "health", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if h == nil {
			return &tengo.Int{}, nil
		}
		return &tengo.Int{Value: int64(h.Health())}, nil
	}}

	values["speed"] = &tengo.UserFunction{Name: "speed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if h == nil {
			return &tengo.Float{}, nil
		}
		return &tengo.Float{Value: h.Speed()}, nil
	}}

	values["set_speed"] = &tengo.UserFunction{Name: "set_speed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if h == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		v, _ := tengo.ToFloat64(args[0])
		h.SetSpeed(v)
		return tengo.TrueValue, nil
	}}

	values["set_seeking"] = &tengo.UserFunction{Name: "set_seeking", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if h == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		v, _ := tengo.ToInt(args[0])
		h.SetSeeking(v)
		return tengo.TrueValue, nil
	}}

	values["set_feeding"] = &tengo.UserFunction{Name: "set_feeding", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if h == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		h.SetFeeding(!args[0].IsFalsy())
		return tengo.TrueValue, nil
	}}

	values["set_attack_type"] = &tengo.UserFunction{Name: "set_attack_type", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if h == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		v, _ := tengo.ToInt(args[0])
		h.SetAttackType(v)
		return tengo.TrueValue, nil
	}}
}

func objectAsVec(obj tengo.Object) (mgl64.Vec3, error) {
	arr, ok := obj.(*tengo.Array)
	if !ok || len(arr.Value) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("expected [x, y, z], got %s", obj.TypeName())
	}
	var v mgl64.Vec3
	for i, item := range arr.Value {
		f, ok := tengo.ToFloat64(item)
		if !ok {
			return mgl64.Vec3{}, fmt.Errorf("component %d is %s", i, item.TypeName())
		}
		v[i] = f
	}
	return v, nil
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
