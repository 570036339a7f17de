package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadearth/ai"
	"github.com/milk9111/deadearth/common"
)

// NoiseDuration is how long a shout stays audible.
const NoiseDuration = 0.5

// PlayerConfig sizes a player.
type PlayerConfig struct {
	Position     mgl64.Vec3
	Speed        float64
	Radius       float64
	MeleeRadius  float64
	NoiseRadius  float64
	LightOn      bool
	LightRange   float64
	LightWidth   float64
	StrikeDamage int
}

// Player is the agents' prey. It carries a flashlight that aggravates
// zombies that can see it and can make noise.
type Player struct {
	Body  *Sphere
	Light *Box
	Noise *Sphere

	speed        float64
	meleeRadius  float64
	lightRange   float64
	strikeDamage int
	yaw          float64
	noiseTimer   float64

	melee map[ai.ColliderID]ai.Collider
	zone  ai.MeleeZone
}

func newPlayer(p *Physics, scene *ai.Scene, cfg PlayerConfig) *Player {
	pl := &Player{
		speed:        cfg.Speed,
		meleeRadius:  cfg.MeleeRadius,
		lightRange:   cfg.LightRange,
		strikeDamage: cfg.StrikeDamage,
		melee:        map[ai.ColliderID]ai.Collider{},
		zone:         ai.MeleeZone{Scene: scene},
	}
	if pl.strikeDamage <= 0 {
		pl.strikeDamage = 25
	}
	pl.Body = p.AddSphere(ai.TagPlayer, ai.LayerPlayer, cfg.Position, cfg.Radius)
	pl.Light = p.AddBox(ai.TagFlashLight, ai.LayerVisualAggravator, cfg.Position, mgl64.Vec3{cfg.LightWidth, 1, cfg.LightRange})
	pl.Light.SetEnabled(cfg.LightOn)
	pl.Noise = p.AddSphere(ai.TagSoundEmitter, ai.LayerAudioAggravator, cfg.Position, cfg.NoiseRadius)
	pl.Noise.SetEnabled(false)
	pl.place(cfg.Position)
	return pl
}

func (p *Player) Position() mgl64.Vec3 { return p.Body.Position() }
func (p *Player) Yaw() float64         { return p.yaw }
func (p *Player) MeleeRadius() float64 { return p.meleeRadius }
func (p *Player) LightOn() bool        { return p.Light.Enabled() }
func (p *Player) SetLight(on bool)     { p.Light.SetEnabled(on) }
func (p *Player) ToggleLight()         { p.Light.SetEnabled(!p.Light.Enabled()) }
func (p *Player) Noisy() bool          { return p.Noise.Enabled() }

// MakeNoise makes the player audible for NoiseDuration.
func (p *Player) MakeNoise() {
	p.noiseTimer = NoiseDuration
	p.Noise.SetEnabled(true)
}

// Move walks the player along dir for dt seconds and turns it to face dir.
// Blocked cells stop the move.
func (p *Player) Move(g *Grid, dir mgl64.Vec3, dt float64) {
	dir = common.SafeNormalize(common.Flatten(dir))
	if dir.LenSqr() == 0 || dt <= 0 {
		return
	}
	if q, ok := common.LookRotation(dir); ok {
		p.yaw = common.Yaw(q)
	}
	next := p.Position().Add(dir.Mul(p.speed * dt))
	if g != nil && g.Blocked(g.CellOf(next)) {
		p.place(p.Position())
		return
	}
	p.place(next)
}

// Face turns the player without moving.
func (p *Player) Face(yaw float64) {
	p.yaw = yaw
	p.place(p.Position())
}

func (p *Player) place(pos mgl64.Vec3) {
	p.Body.SetPosition(pos)
	p.Noise.SetPosition(pos)
	forward := common.Forward(common.YawRotation(p.yaw))
	p.Light.SetPosition(pos.Add(forward.Mul(p.lightRange / 2)))
	p.Light.SetYaw(p.yaw)
}

func (p *Player) update(dt float64) {
	if p.noiseTimer <= 0 {
		return
	}
	p.noiseTimer -= dt
	if p.noiseTimer <= 0 {
		p.Noise.SetEnabled(false)
	}
}

// InMelee returns the colliders currently inside the melee zone.
func (p *Player) InMelee() []ai.Collider {
	out := make([]ai.Collider, 0, len(p.melee))
	for _, c := range p.melee {
		out = append(out, c)
	}
	return out
}
