package sim

import (
	"sort"

	"github.com/milk9111/deadearth/ai"
	"github.com/milk9111/deadearth/common"
	"github.com/milk9111/deadearth/ecs"
)

// Trigger event types pushed on the ecs queue during the fixed phase.
const (
	EventSensor = "sensor"
	EventTarget = "target"
	EventMelee  = "melee"
)

// SensorEvent is the payload of an EventSensor event.
type SensorEvent struct {
	Kind  ai.TriggerEventType
	Other ai.Collider
}

// sensorMask is everything a sensor can perceive. Sensors never see each
// other.
const sensorMask = ai.LayerAll &^ ai.LayerSensor

// detectSensors diffs each agent's sensor overlaps against the previous
// step and queues enter, stay and exit events.
func (w *World) detectSensors() {
	for _, a := range w.agentList() {
		center, radius := ai.SphereToWorld(a.Sensor)
		found := w.physics.Overlaps(center, radius, sensorMask)

		current := make(map[ai.ColliderID]ai.Collider, len(found))
		for _, c := range found {
			if c.ID() == a.Body.ID() {
				continue
			}
			current[c.ID()] = c
			kind := ai.TriggerEnter
			if _, seen := a.overlaps[c.ID()]; seen {
				kind = ai.TriggerStay
			}
			w.ecs.Events().Push(ecs.Event{Type: EventSensor, Entity: a.Entity, Data: SensorEvent{Kind: kind, Other: c}})
		}

		for _, id := range sortedIDs(a.overlaps) {
			if _, still := current[id]; !still {
				w.ecs.Events().Push(ecs.Event{Type: EventSensor, Entity: a.Entity, Data: SensorEvent{Kind: ai.TriggerExit, Other: a.overlaps[id]}})
			}
		}
		a.overlaps = current
	}
}

// detectTargets compares each agent with its target trigger. Entering
// queues true and leaving queues false.
func (w *World) detectTargets() {
	for _, a := range w.agentList() {
		trigger := a.Machine.TargetTrigger()
		inside := trigger.Enabled &&
			common.Distance(common.Flatten(a.Position()), common.Flatten(trigger.Position)) <= trigger.Radius
		if inside != a.Machine.IsTargetReached() {
			w.ecs.Events().Push(ecs.Event{Type: EventTarget, Entity: a.Entity, Data: inside})
		}
	}
}

// detectMelee diffs the agent bodies inside the player's melee radius.
func (w *World) detectMelee() {
	p := w.player
	if p == nil {
		return
	}
	found := w.physics.Overlaps(p.Position(), p.meleeRadius, ai.LayerBodyPart)

	current := make(map[ai.ColliderID]ai.Collider, len(found))
	for _, c := range found {
		current[c.ID()] = c
		if _, seen := p.melee[c.ID()]; !seen {
			w.ecs.Events().Push(ecs.Event{Type: EventMelee, Data: meleeEvent{collider: c, in: true}})
		}
	}
	for _, id := range sortedIDs(p.melee) {
		if _, still := current[id]; !still {
			w.ecs.Events().Push(ecs.Event{Type: EventMelee, Data: meleeEvent{collider: p.melee[id], in: false}})
		}
	}
	p.melee = current
}

type meleeEvent struct {
	collider ai.Collider
	in       bool
}

// dispatchTriggers drains the queue in arrival order and hands every event
// to its receiver.
func (w *World) dispatchTriggers() {
	for _, evt := range w.ecs.Events().Drain() {
		switch evt.Type {
		case EventSensor:
			a, ok := w.agents.Get(evt.Entity)
			if !ok {
				continue
			}
			if e, ok := evt.Data.(SensorEvent); ok {
				a.Machine.Sensor().OnTrigger(e.Kind, e.Other)
			}
		case EventTarget:
			a, ok := w.agents.Get(evt.Entity)
			if !ok {
				continue
			}
			if reached, ok := evt.Data.(bool); ok {
				a.Machine.OnDestinationReached(reached)
			}
		case EventMelee:
			e, ok := evt.Data.(meleeEvent)
			if !ok || w.player == nil {
				continue
			}
			if e.in {
				w.player.zone.OnTriggerEnter(e.collider)
			} else {
				w.player.zone.OnTriggerExit(e.collider)
			}
		}
	}
}

func sortedIDs(m map[ai.ColliderID]ai.Collider) []ai.ColliderID {
	ids := make([]ai.ColliderID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
