package sim

import (
	"github.com/go-gl/mathgl/mgl64"
)

// SoundEmitter is an audio aggravator that is audible for Duration seconds
// out of every Period. A zero period keeps it on.
type SoundEmitter struct {
	*Sphere
	Period   float64
	Duration float64

	clock float64
}

func (s *SoundEmitter) update(dt float64) {
	if s.Period <= 0 {
		s.SetEnabled(true)
		return
	}
	s.clock += dt
	for s.clock >= s.Period {
		s.clock -= s.Period
	}
	s.SetEnabled(s.clock < s.Duration)
}

// particleLifetime is how long a burst stays visible.
const particleLifetime = 0.5

// Burst is one particle emission.
type Burst struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Count    int
	Age      float64
}

// Particles keeps recent bursts for drawing. It implements
// ai.ParticleEmitter.
type Particles struct {
	bursts []Burst
	total  int
}

func (p *Particles) Emit(position mgl64.Vec3, rotation mgl64.Quat, count int) {
	p.bursts = append(p.bursts, Burst{Position: position, Rotation: rotation, Count: count})
	p.total += count
}

// Total is the number of particles emitted so far.
func (p *Particles) Total() int { return p.total }

func (p *Particles) Bursts() []Burst { return p.bursts }

func (p *Particles) update(dt float64) {
	live := p.bursts[:0]
	for _, b := range p.bursts {
		b.Age += dt
		if b.Age < particleLifetime {
			live = append(live, b)
		}
	}
	p.bursts = live
}
