package game

import (
	"time"

	"snake-chase/game/manager"
	"snake-chase/game/types"
)

// Segment is one body cell as seen by a renderer
type Segment struct {
	types.Point
	Digesting bool `json:"digesting,omitempty"`
}

// Snapshot is a read-only copy of everything a renderer needs
type Snapshot struct {
	UUID      string          `json:"uuid"`
	Tick      uint64          `json:"tick"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Body      []Segment       `json:"body"`
	Direction types.Direction `json:"direction"`
	Food      *types.Point    `json:"food,omitempty"`
	Score     int             `json:"score"`
	Period    time.Duration   `json:"period"`
	State     State           `json:"-"`
	GameOver  bool            `json:"gameOver"`
	Collision string          `json:"collision,omitempty"`
	BoardFull bool            `json:"boardFull,omitempty"`

	AwaitingName bool   `json:"awaitingName,omitempty"`
	Name         string `json:"name,omitempty"`
}

// Head returns the head cell of the snapshot
func (s Snapshot) Head() types.Point {
	return s.Body[0].Point
}

func (g *Game) Snapshot() Snapshot {
	body := g.snake.Body()
	segments := make([]Segment, len(body))
	for i, p := range body {
		segments[i] = Segment{Point: p, Digesting: g.snake.Digesting(p)}
	}

	snap := Snapshot{
		UUID:         g.UUID,
		Tick:         g.ticks,
		Width:        g.cfg.Width,
		Height:       g.cfg.Height,
		Body:         segments,
		Direction:    g.snake.HeadDirection(),
		Score:        g.score,
		Period:       g.Period(),
		State:        g.state,
		GameOver:     g.state == GameOver,
		BoardFull:    g.boardFull,
		AwaitingName: g.awaitingName,
		Name:         string(g.name),
	}
	if g.hasFood {
		food := g.food
		snap.Food = &food
	}
	if g.state == GameOver && g.cause != manager.NoCollision {
		snap.Collision = g.cause.String()
	}
	return snap
}

// Ate reports whether food was eaten between prev and s in the same round
func (s Snapshot) Ate(prev Snapshot) bool {
	return s.UUID == prev.UUID && s.Score > prev.Score
}

// Died reports whether the round ended between prev and s
func (s Snapshot) Died(prev Snapshot) bool {
	return s.UUID == prev.UUID && s.GameOver && !prev.GameOver
}
