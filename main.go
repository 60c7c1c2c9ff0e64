package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/golang/glog"
	"golang.org/x/exp/rand"

	"snake-chase/game"
	"snake-chase/game/manager"
	"snake-chase/sfx"
	"snake-chase/spectate"
	"snake-chase/tty"
	"snake-chase/ui"
)

func main() {
	defaults := game.DefaultConfig()
	width := flag.Int("width", defaults.Width, "Board width in cells, walls included")
	height := flag.Int("height", defaults.Height, "Board height in cells, walls included")
	frontend := flag.String("frontend", "raylib", "Frontend to play with: raylib or tty")
	scoresPath := flag.String("scores", filepath.Join("data", "highscores.json"), "High-score file")
	statsPath := flag.String("stats", filepath.Join("data", "stats.json"), "Round history file")
	speed := flag.Int("speed", defaults.FoodSpeed, "How eagerly the food runs away (0 never moves)")
	period := flag.Duration("period", defaults.BasePeriod, "Time between snake moves at score 0")
	seed := flag.Uint64("seed", 0, "Random seed, 0 picks one from the clock")
	spectateAddr := flag.String("spectate", "", "Serve a websocket spectator feed on this address")
	volume := flag.Float64("volume", 0.3, "Sound effect volume, 0 mutes")
	flag.Parse()
	defer glog.Flush()

	cfg := defaults
	cfg.Width, cfg.Height = *width, *height
	cfg.FoodSpeed = *speed
	cfg.BasePeriod = *period
	if cfg.Width != defaults.Width || cfg.Height != defaults.Height {
		// the fixed starting food only fits the default board
		cfg.InitialFood = nil
	}

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	glog.V(1).Infof("Random seed %d", *seed)

	scores := manager.NewStateManager(*scoresPath)
	history, err := manager.NewStatsManager(*statsPath, manager.DefaultGroupSize)
	if err != nil {
		glog.Warningf("Round history: starting empty: %v", err)
	}
	g, err := game.NewGame(cfg,
		game.WithRand(rand.New(rand.NewSource(*seed))),
		game.WithRecorder(scores),
		game.WithHistory(history),
	)
	if err != nil {
		glog.Exitf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var onFrame func(game.Snapshot)
	if *spectateAddr != "" {
		hub := spectate.NewHub()
		onFrame = hub.Publish
		go func() {
			if err := hub.Serve(ctx, *spectateAddr); err != nil {
				glog.Errorf("Spectator feed stopped: %v", err)
			}
		}()
	}

	var sounds *sfx.Player
	if *volume > 0 {
		if sounds, err = sfx.New(*volume); err != nil {
			glog.Warningf("Playing without sound: %v", err)
		}
		defer sounds.Close()
	}

	switch *frontend {
	case "raylib":
		err = ui.Run(ctx, g, ui.Options{
			Title:   "Snake Chase",
			Sounds:  sounds,
			Scores:  scores,
			OnFrame: onFrame,
		})
	case "tty":
		err = tty.Run(ctx, g, tty.Options{
			Sounds:  sounds,
			Scores:  scores,
			OnFrame: onFrame,
		})
	default:
		glog.Exitf("Unknown frontend %q, want raylib or tty", *frontend)
	}
	if err != nil {
		glog.Exitf("Frontend %s: %v", *frontend, err)
	}
	if err := history.SaveToFile(); err != nil {
		glog.Warningf("Round history not saved: %v", err)
	}
	glog.Infof("%d rounds played, average %.1f, best on the table %d",
		history.RoundsPlayed(), history.AverageScore(), scores.GetHighScore())
}
