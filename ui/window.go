// Package ui plays the game in a raylib window.
package ui

import (
	"context"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/golang/glog"

	"snake-chase/game"
	"snake-chase/game/manager"
	"snake-chase/game/types"
)

type Sounds interface {
	Eat()
	Die()
}

type ScoreLister interface {
	Scores() []manager.Score
}

type Options struct {
	Title   string
	Sounds  Sounds
	Scores  ScoreLister
	OnFrame func(game.Snapshot)
}

var directionKeys = []struct {
	key int32
	dir types.Direction
}{
	{rl.KeyUp, types.Up},
	{rl.KeyW, types.Up},
	{rl.KeyDown, types.Down},
	{rl.KeyS, types.Down},
	{rl.KeyLeft, types.Left},
	{rl.KeyA, types.Left},
	{rl.KeyRight, types.Right},
	{rl.KeyD, types.Right},
}

// Run opens the window and drives g until it is closed or ctx is cancelled
func Run(ctx context.Context, g *game.Game, opts Options) error {
	cfg := g.Config()
	renderer := NewRenderer(cfg.Width, cfg.Height)
	w, h := renderer.WindowSize()

	title := opts.Title
	if title == "" {
		title = "Snake"
	}
	rl.InitWindow(w, h, title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	glog.Infof("Window: opened %dx%d", w, h)

	prev := g.Snapshot()
	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return nil
		}
		handleInput(g)
		g.Update(time.Duration(float64(rl.GetFrameTime()) * float64(time.Second)))

		snap := g.Snapshot()
		if opts.Sounds != nil {
			if snap.Ate(prev) {
				opts.Sounds.Eat()
			}
			if snap.Died(prev) {
				opts.Sounds.Die()
			}
		}
		if opts.OnFrame != nil {
			opts.OnFrame(snap)
		}
		prev = snap

		var scores []manager.Score
		if opts.Scores != nil && snap.GameOver {
			scores = opts.Scores.Scores()
		}
		renderer.Draw(snap, scores)
	}
	glog.Infof("Window: closed")
	return nil
}

func handleInput(g *game.Game) {
	if g.AwaitingName() {
		for r := rl.GetCharPressed(); r > 0; r = rl.GetCharPressed() {
			g.Press(game.RuneInput(rune(r)))
		}
		if rl.IsKeyPressed(rl.KeyBackspace) {
			g.Press(game.BackspaceInput())
		}
	} else {
		// steering letters must not end up in the name prompt later
		for rl.GetCharPressed() > 0 {
		}
		for _, k := range directionKeys {
			if rl.IsKeyPressed(k.key) {
				g.Press(game.DirectionInput(k.dir))
			}
		}
		if rl.IsKeyPressed(rl.KeyR) {
			g.Press(game.RestartInput())
		}
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		g.Press(game.ConfirmInput())
	}
}
