package zombie

import (
	"math"

	"github.com/milk9111/deadearth/ai"
	"github.com/milk9111/deadearth/common"
)

// Line of sight masks. Walls sit on the default layer.
const (
	PlayerMask = ai.LayerDefault | ai.LayerPlayer | ai.LayerBodyPart
	VisualMask = PlayerMask | ai.LayerVisualAggravator
)

// FoodSatisfactionThreshold is the satisfaction above which food is ignored
// and feeding stops.
const FoodSatisfactionThreshold = 0.9

// Perceive evaluates one sensor event and may replace the visual or audio
// threat. Exit events are ignored.
func (m *Machine) Perceive(kind ai.TriggerEventType, other ai.Collider) {
	if kind == ai.TriggerExit || other == nil {
		return
	}

	current := m.VisualThreat().Type
	head := m.SensorPosition()

	switch other.Tag() {
	case ai.TagPlayer:
		d := common.Distance(head, other.Position())
		if current == ai.TargetVisualPlayer && d >= m.VisualThreat().Distance {
			return
		}
		if m.IsVisible(other, PlayerMask) {
			m.SetVisualThreat(ai.NewTarget(ai.TargetVisualPlayer, other, other.Position(), d, m.Time()))
		}

	case ai.TagFlashLight:
		if current == ai.TargetVisualPlayer {
			return
		}
		light, ok := other.(ai.BoxCollider)
		if !ok {
			return
		}
		depth := light.Size().Z() * light.LossyScale().Z()
		if depth <= 0 {
			return
		}
		d := common.Distance(head, light.Position())
		aggravation := d / depth
		if aggravation <= m.attrs.Sight && aggravation <= m.attrs.Intelligence {
			m.SetVisualThreat(ai.NewTarget(ai.TargetVisualLight, other, other.Position(), d, m.Time()))
		}

	case ai.TagSoundEmitter:
		sound, ok := other.(ai.SphereCollider)
		if !ok {
			return
		}
		if f, d, ok := m.hearingFactor(sound); ok && f <= 1 && d < m.AudioThreat().Distance {
			pos, _ := ai.SphereToWorld(sound)
			m.SetAudioThreat(ai.NewTarget(ai.TargetAudio, other, pos, d, m.Time()))
		}

	case ai.TagFood:
		if current == ai.TargetVisualPlayer || current == ai.TargetVisualLight {
			return
		}
		if m.attrs.Satisfaction > FoodSatisfactionThreshold || m.AudioThreat().Type != ai.TargetNone {
			return
		}
		d := common.Distance(other.Position(), head)
		if d < m.VisualThreat().Distance && m.IsVisible(other, VisualMask) {
			m.SetVisualThreat(ai.NewTarget(ai.TargetVisualFood, other, other.Position(), d, m.Time()))
		}
	}
}

// hearingFactor returns how faint a sound is at the sensor, 0 at its centre
// and 1 at its edge for perfect hearing, along with the distance to it.
func (m *Machine) hearingFactor(sound ai.SphereCollider) (factor, distance float64, ok bool) {
	pos, radius := ai.SphereToWorld(sound)
	if radius <= 0 {
		return math.Inf(1), math.Inf(1), false
	}
	distance = common.Distance(pos, m.SensorPosition())
	factor = distance / radius
	factor += factor * (1 - m.attrs.Hearing)
	return factor, distance, true
}

// IsVisible reports whether other lies strictly inside the field of view
// and is the closest hit of a ray from the sensor towards it. The zombie's
// own body parts never block the ray.
func (m *Machine) IsVisible(other ai.Collider, mask ai.Layer) bool {
	spatial := m.Spatial()
	if other == nil || spatial == nil {
		return false
	}

	head := m.SensorPosition()
	dir := other.Position().Sub(head)
	if common.Angle(dir, m.Forward()) >= m.attrs.FOV*0.5 {
		return false
	}

	hits := spatial.RaycastAll(head, common.SafeNormalize(dir), m.SensorRadius()*m.attrs.Sight, mask)

	closestDistance := math.MaxFloat64
	var closest ai.Collider
	for _, hit := range hits {
		if hit.Collider == nil || hit.Distance >= closestDistance {
			continue
		}
		if hit.Collider.Layer().Has(ai.LayerBodyPart) && m.owns(hit.Collider) {
			continue
		}
		closestDistance = hit.Distance
		closest = hit.Collider
	}

	return closest != nil && closest.ID() == other.ID()
}

func (m *Machine) owns(c ai.Collider) bool {
	return m.Scene().StateMachine(c.ID()) == m.StateMachine
}
