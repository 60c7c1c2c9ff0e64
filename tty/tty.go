// Package tty plays the game in a terminal using tcell.
package tty

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/golang/glog"

	"snake-chase/game"
	"snake-chase/game/manager"
)

const frameInterval = time.Second / 60

// Sounds are played on round events; a nil Sounds is silent
type Sounds interface {
	Eat()
	Die()
}

// ScoreLister supplies the high-score table shown at game over
type ScoreLister interface {
	Scores() []manager.Score
}

type Options struct {
	// Screen overrides the terminal screen, mostly for tests
	Screen  tcell.Screen
	Sounds  Sounds
	Scores  ScoreLister
	OnFrame func(game.Snapshot)
}

// Run drives g until the player quits or ctx is cancelled
func Run(ctx context.Context, g *game.Game, opts Options) error {
	s := opts.Screen
	if s == nil {
		var err error
		if s, err = tcell.NewScreen(); err != nil {
			return fmt.Errorf("problem creating screen: %w", err)
		}
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("init problem: %w", err)
	}
	defer s.Fini()
	s.HideCursor()

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	last := time.Now()
	prev := g.Snapshot()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				in, quit := inputFor(ev, g.AwaitingName())
				if quit {
					glog.Infof("Terminal: quit requested")
					return nil
				}
				if in.Kind != game.InputNone {
					g.Press(in)
				}
			case *tcell.EventResize:
				s.Sync()
			}
		case now := <-ticker.C:
			g.Update(now.Sub(last))
			last = now

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
			Draw(s, snap, scores)
			s.Show()
		}
	}
}
