package ai

// StateID identifies a behaviour state.
type StateID string

const (
	StateNone    StateID = ""
	StateIdle    StateID = "idle"
	StateAlerted StateID = "alerted"
	StatePatrol  StateID = "patrol"
	StateAttack  StateID = "attack"
	StateFeeding StateID = "feeding"
	StatePursuit StateID = "pursuit"
	StateDead    StateID = "dead"
)

// TargetType classifies what a target or threat is.
type TargetType int

const (
	TargetNone TargetType = iota
	TargetWaypoint
	TargetVisualPlayer
	TargetVisualLight
	TargetVisualFood
	TargetAudio
)

func (t TargetType) String() string {
	switch t {
	case TargetNone:
		return "none"
	case TargetWaypoint:
		return "waypoint"
	case TargetVisualPlayer:
		return "visual_player"
	case TargetVisualLight:
		return "visual_light"
	case TargetVisualFood:
		return "visual_food"
	case TargetAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// TriggerEventType is the phase of a trigger overlap.
type TriggerEventType int

const (
	TriggerEnter TriggerEventType = iota
	TriggerStay
	TriggerExit
)

func (t TriggerEventType) String() string {
	switch t {
	case TriggerEnter:
		return "enter"
	case TriggerStay:
		return "stay"
	case TriggerExit:
		return "exit"
	default:
		return "unknown"
	}
}
