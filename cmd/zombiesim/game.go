package main

import (
	"fmt"
	"math"

	"github.com/ebitenui/ebitenui"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Game struct {
	session *session
	reload  *reloader
	dt      float64
	debug   bool
	paused  bool
	quit    bool
	pauseUI *ebitenui.UI
	strikes int
}

func NewGame(s *session, r *reloader, dt float64, debug bool) *Game {
	g := &Game{
		session: s,
		reload:  r,
		dt:      dt,
		debug:   debug,
	}
	g.pauseUI = NewPauseUI(g)
	return g
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.debug = !g.debug
	}

	g.updatePlayer()
	g.reload.poll(g.session)
	g.session.step(g.dt)
	return nil
}

func (g *Game) updatePlayer() {
	w := g.session.world
	p := w.Player()
	if p == nil {
		return
	}

	var dir mgl64.Vec3
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dir[2]--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dir[2]++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dir[0]--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dir[0]++
	}
	if dir.Len() > 0 {
		w.MovePlayer(dir.Normalize(), g.dt)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		p.MakeNoise()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		p.ToggleLight()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		if n := w.Strike(); n > 0 {
			g.strikes += n
			g.session.logger.Printf("t=%.2f player hit %d zombies", w.Time(), n)
		}
	}
}

// restart rebuilds the world from the scene file and resumes.
func (g *Game) restart() {
	if err := g.session.rebuild(); err != nil {
		g.session.logger.Printf("restart: %v", err)
		return
	}
	g.strikes = 0
	g.paused = false
}

func (g *Game) Draw(screen *ebiten.Image) {
	v := newView(g.session.scene.Width, g.session.scene.Depth)
	v.drawWorld(screen, g.session, g.debug)

	w := g.session.world
	light := "off"
	if p := w.Player(); p != nil && p.LightOn() {
		light = "on"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("t=%.1f  FPS: %.0f  zombies: %d  hits: %d  light: %s\n"+
		"[wasd] move  [space] noise  [f] light  [x] strike  [tab] debug  [esc] pause",
		w.Time(), ebiten.ActualFPS(), len(w.Agents()), g.strikes, light))

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

// fitScale is the number of pixels per world unit that fits a width by
// depth scene on screen.
func fitScale(width, depth float64) float64 {
	if width <= 0 || depth <= 0 {
		return 1
	}
	return math.Min(baseWidth/width, baseHeight/depth)
}
