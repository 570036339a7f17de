package main

import (
	"flag"
	"log"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/deadearth/sim"
)

func main() {
	scenePath := flag.String("scene", "scene.yaml", "scene file name in prefabs/")
	headless := flag.Bool("headless", false, "run the simulation without a window")
	ticks := flag.Int("ticks", 600, "number of steps to run when headless")
	dt := flag.Float64("dt", 1.0/60, "fixed step in seconds")
	seed := flag.Int64("seed", 1, "random seed for zombie decisions")
	debug := flag.Bool("debug", false, "enable state machine debug logging")
	watch := flag.Bool("watch", false, "hot reload edited species files from prefabs/")
	flag.Parse()

	logger := log.New(os.Stderr, "zombiesim: ", log.Ltime)

	s, err := newSession(*scenePath, sim.Options{Seed: *seed, Logger: logger, Debug: *debug}, logger)
	if err != nil {
		log.Fatal(err)
	}

	var r *reloader
	if *watch {
		r, err = newReloader(logger)
		if err != nil {
			logger.Printf("watch disabled: %v", err)
		} else {
			defer r.Close()
		}
	}

	if *headless {
		runHeadless(s, r, *ticks, *dt)
		return
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("zombiesim")
	ebiten.SetTPS(int(math.Round(1 / *dt)))

	if err := ebiten.RunGame(NewGame(s, r, *dt, *debug)); err != nil && err != ebiten.Termination {
		log.Fatal(err)
	}
}
