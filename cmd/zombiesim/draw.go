package main

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/deadearth/ai"
	"github.com/milk9111/deadearth/common"
	"github.com/milk9111/deadearth/sim"
	"golang.org/x/image/colornames"
)

// view maps the ground plane onto the screen: x to the right, z down.
type view struct {
	scale float64
}

func newView(width, depth float64) view {
	return view{scale: fitScale(width, depth)}
}

func (v view) point(p mgl64.Vec3) (float32, float32) {
	return float32(p.X() * v.scale), float32(p.Z() * v.scale)
}

func (v view) length(d float64) float32 {
	return float32(d * v.scale)
}

func (v view) line(screen *ebiten.Image, a, b mgl64.Vec3, width float32, c color.Color) {
	x0, y0 := v.point(a)
	x1, y1 := v.point(b)
	vector.StrokeLine(screen, x0, y0, x1, y1, width, c, true)
}

func (v view) rect(screen *ebiten.Image, center, size mgl64.Vec3, c color.Color) {
	x, y := v.point(center.Sub(size.Mul(0.5)))
	vector.FillRect(screen, x, y, v.length(size.X()), v.length(size.Z()), c, false)
}

func (v view) drawWorld(screen *ebiten.Image, s *session, debug bool) {
	screen.Fill(colornames.Black)
	w := s.world

	for _, l := range w.Lights() {
		v.rect(screen, l.Position(), l.Size(), withAlpha(s.sceneColor("light", colornames.Khaki), 60))
	}
	for _, wall := range w.Walls() {
		v.rect(screen, wall.Position(), wall.Size(), s.sceneColor("wall", colornames.Dimgray))
	}
	v.drawNetworks(screen, w, s.sceneColor("waypoint", colornames.Steelblue))

	sound := s.sceneColor("sound", colornames.Lightsteelblue)
	for _, e := range w.Sounds() {
		if !e.Enabled() {
			continue
		}
		x, y := v.point(e.Position())
		vector.StrokeCircle(screen, x, y, v.length(e.Radius()), 1, sound, true)
	}
	food := s.sceneColor("food", colornames.Brown)
	for _, f := range w.Food() {
		x, y := v.point(f.Position())
		vector.FillCircle(screen, x, y, v.length(f.Radius()), food, true)
	}

	for _, b := range w.Particles().Bursts() {
		x, y := v.point(b.Position)
		vector.FillCircle(screen, x, y, 2+float32(b.Count)/4, colornames.Darkred, true)
	}

	v.drawPlayer(screen, w.Player(), s.sceneColor("player", colornames.Whitesmoke))
	for _, a := range w.Agents() {
		v.drawAgent(screen, a, s.speciesColor(a.Species), debug)
	}
	if debug {
		v.drawPhysics(screen, w.Physics())
	}
}

func (v view) drawNetworks(screen *ebiten.Image, w *sim.World, c color.Color) {
	for _, n := range w.Networks() {
		for i, p := range n.Waypoints {
			next := n.Waypoints[(i+1)%len(n.Waypoints)]
			v.line(screen, p, next, 1, withAlpha(c, 90))
			x, y := v.point(p)
			vector.FillCircle(screen, x, y, 3, c, true)
		}
	}
}

func (v view) drawPlayer(screen *ebiten.Image, p *sim.Player, c color.Color) {
	if p == nil {
		return
	}
	pos := p.Position()
	if p.LightOn() {
		light := p.Light
		fwd := common.YawRotation(p.Yaw()).Rotate(mgl64.Vec3{0, 0, 1})
		v.line(screen, pos, pos.Add(fwd.Mul(light.Size().Z())), v.length(light.Size().X()), withAlpha(colornames.Lightyellow, 70))
	}
	x, y := v.point(pos)
	if p.Noisy() {
		vector.StrokeCircle(screen, x, y, v.length(p.Noise.Radius()), 2, colornames.Gold, true)
	}
	vector.StrokeCircle(screen, x, y, v.length(p.MeleeRadius()), 1, withAlpha(c, 50), true)
	vector.FillCircle(screen, x, y, v.length(p.Body.Radius()), c, true)
}

func (v view) drawAgent(screen *ebiten.Image, a *sim.Agent, c color.Color, debug bool) {
	pos := a.Position()
	x, y := v.point(pos)
	m := a.Machine

	if a.State() != ai.StateDead {
		reach := a.Sensor.Radius() * m.Sight()
		fwd := a.Transform.Forward()
		half := mgl64.DegToRad(m.FOV() / 2)
		cone := withAlpha(colornames.Red, 70)
		v.line(screen, pos, pos.Add(common.YawRotation(half).Rotate(fwd).Mul(reach)), 1, cone)
		v.line(screen, pos, pos.Add(common.YawRotation(-half).Rotate(fwd).Mul(reach)), 1, cone)
		v.line(screen, pos, pos.Add(fwd.Mul(a.Body.Radius()*2)), 2, colornames.White)
	}

	vector.FillCircle(screen, x, y, v.length(a.Body.Radius()), c, true)
	vector.StrokeCircle(screen, x, y, v.length(a.Body.Radius()), 2, stateColor(a.State()), true)

	if !debug {
		return
	}
	vector.StrokeCircle(screen, x, y, v.length(a.Sensor.Radius()), 1, withAlpha(colornames.Gray, 40), true)
	prev := pos
	for _, corner := range a.Nav.Corners() {
		v.line(screen, prev, corner, 1, withAlpha(colornames.Lime, 120))
		prev = corner
	}
	if m.TargetType() != ai.TargetNone {
		v.line(screen, pos, m.TargetPosition(), 1, withAlpha(colornames.Orange, 120))
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s %s\n%d hp", a.Name, a.State(), m.Health()), int(x)+8, int(y)-8)
}

func stateColor(id ai.StateID) color.Color {
	switch id {
	case ai.StateAlerted:
		return colornames.Yellow
	case ai.StatePatrol:
		return colornames.Skyblue
	case ai.StatePursuit:
		return colornames.Orange
	case ai.StateAttack:
		return colornames.Red
	case ai.StateFeeding:
		return colornames.Purple
	case ai.StateDead:
		return colornames.Black
	default:
		return colornames.Gray
	}
}

func withAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: a}
}
