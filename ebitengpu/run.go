package ebitengpu

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/phanxgames/willow3d"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
	// Duration, when positive, ends the loop once the scene time reaches it.
	Duration float64
}

// game adapts a Scene to ebiten.Game. Time advances by 1/TPS per tick.
type game struct {
	gpu   *GPU
	scene *willow3d.Scene
	cfg   RunConfig
	t     float64
	ticks int
}

func (g *game) Update() error {
	if g.cfg.Duration > 0 && g.t >= g.cfg.Duration {
		return ebiten.Termination
	}
	if g.ticks > 0 {
		g.t += 1.0 / float64(ebiten.TPS())
	}
	g.ticks++
	return g.scene.Tick(g.t)
}

func (g *game) Draw(screen *ebiten.Image) {
	g.gpu.SetScreen(screen)
	g.scene.Draw()
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.0f  TPS: %.0f  t: %.2f",
			ebiten.ActualFPS(), ebiten.ActualTPS(), g.t), 4, 4)
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Run initializes scene, opens a window and drives the scene until the window
// is closed, an update callback fails or cfg.Duration elapses. The scene is
// closed before Run returns. scene must have been created over gpu.
func Run(gpu *GPU, scene *willow3d.Scene, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("ebitengpu: window size %dx%d must be positive", cfg.Width, cfg.Height)
	}
	if err := scene.Init(); err != nil {
		return err
	}
	defer scene.Close()

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	return ebiten.RunGame(&game{gpu: gpu, scene: scene, cfg: cfg})
}
