package game

import (
	"errors"
	"math"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"snake-chase/game/entity"
	"snake-chase/game/manager"
	"snake-chase/game/types"
)

// State is the coarse phase of a round
type State int

const (
	Playing State = iota
	GameOver
)

func (s State) String() string {
	if s == GameOver {
		return "game_over"
	}
	return "playing"
}

// Recorder stores finished rounds that deserve a place in the high scores
type Recorder interface {
	Qualifies(score int) bool
	Record(player string, score int) error
}

// History keeps a log of every finished round
type History interface {
	AddRound(score int, start, end time.Time)
}

// DefaultPlayer is recorded when a high score is confirmed without a name
const DefaultPlayer = "default"

// Game drives one snake chasing one food item, a tick at a time.
// It is not safe for concurrent use; frontends own it and call it from their loop.
type Game struct {
	cfg    Config
	bounds types.Bounds

	rng          manager.Rand
	recorder     Recorder
	history      History
	now          func() time.Time
	collisionMgr *manager.CollisionManager
	foodMgr      *manager.FoodManager

	UUID  string
	snake *entity.Snake
	food  types.Point
	// false between a food being eaten and the next one being placed
	hasFood bool

	directionQueue []types.Direction
	state          State
	waitingTime    time.Duration
	score          int
	ticks          uint64
	startedAt      time.Time

	cause        manager.CollisionType
	boardFull    bool
	awaitingName bool
	name         []rune
}

// Option customises a Game at construction
type Option func(*Game)

// WithRand replaces the time-seeded random source
func WithRand(rng manager.Rand) Option {
	return func(g *Game) {
		g.rng = rng
	}
}

// WithRecorder enables high-score name entry at game over
func WithRecorder(r Recorder) Option {
	return func(g *Game) {
		g.recorder = r
	}
}

// WithHistory logs each round as it ends
func WithHistory(h History) Option {
	return func(g *Game) {
		g.history = h
	}
}

func NewGame(cfg Config, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Game{
		cfg:    cfg,
		bounds: cfg.Bounds(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}

	g.collisionMgr = manager.NewCollisionManager(g.bounds)
	g.foodMgr = manager.NewFoodManager(g.rng, g.collisionMgr, cfg.FoodSpeed, cfg.MaxSpawnAttempts)
	g.Restart()

	return g, nil
}

// Restart resets the snake, food, score and timers
func (g *Game) Restart() {
	g.UUID = uuid.New().String()
	g.snake = entity.NewSnake(g.cfg.StartHead, g.cfg.StartLength, g.cfg.StartDirection)
	g.hasFood = false
	if g.cfg.InitialFood != nil {
		g.food = *g.cfg.InitialFood
		g.hasFood = true
	}
	g.directionQueue = g.directionQueue[:0]
	g.state = Playing
	g.waitingTime = 0
	g.score = 0
	g.ticks = 0
	g.cause = manager.NoCollision
	g.boardFull = false
	g.awaitingName = false
	g.name = g.name[:0]
	g.startedAt = g.now()

	glog.Infof("Game %s: new round on %dx%d board", g.UUID, g.cfg.Width, g.cfg.Height)
}

func (g *Game) Score() int           { return g.score }
func (g *Game) GameOver() bool       { return g.state == GameOver }
func (g *Game) State() State         { return g.state }
func (g *Game) Snake() *entity.Snake { return g.snake }
func (g *Game) Config() Config       { return g.cfg }

// Food returns the current food cell, if any
func (g *Game) Food() (types.Point, bool) {
	return g.food, g.hasFood
}

// AwaitingName reports whether the round ended with a high score waiting for a player name
func (g *Game) AwaitingName() bool { return g.awaitingName }

// Period is the time between two ticks at the current score
func (g *Game) Period() time.Duration {
	steps := 0
	if g.cfg.FoodsPerSpeedUp > 0 {
		steps = g.score / g.cfg.FoodsPerSpeedUp
	}
	period := time.Duration(float64(g.cfg.BasePeriod) * math.Pow(g.cfg.SpeedDecay, float64(steps)))
	if period < g.cfg.MinPeriod {
		period = g.cfg.MinPeriod
	}
	return period
}

// Update advances the clock by dt, moving food and snake once a period has passed
func (g *Game) Update(dt time.Duration) {
	g.waitingTime += dt

	if g.state == GameOver {
		if !g.awaitingName && g.waitingTime > g.cfg.RestartDelay {
			g.Restart()
		}
		return
	}

	if !g.hasFood {
		if err := g.addFood(); err != nil {
			return
		}
	}

	if g.waitingTime > g.Period() {
		g.updateFood()
		g.updateSnake()
	}
}

func (g *Game) addFood() error {
	food, err := g.foodMgr.Spawn(g.snake)
	if err != nil {
		if errors.Is(err, manager.ErrBoardFull) {
			g.boardFull = true
		}
		glog.Warningf("Game %s: cannot place food: %v", g.UUID, err)
		g.endRound()
		return err
	}
	g.food = food
	g.hasFood = true
	glog.V(2).Infof("Game %s: food placed at %+v", g.UUID, food)
	return nil
}

func (g *Game) updateFood() {
	if !g.hasFood {
		return
	}
	offset := g.foodMgr.Escape(g.food, g.snake)
	g.food = g.food.Add(offset)
}

func (g *Game) updateSnake() {
	var dir *types.Direction
	if n := len(g.directionQueue); n > 0 {
		d := g.directionQueue[n-1]
		dir = &d
	}

	if cause := g.collisionMgr.CheckCollision(g.snake.NextHead(dir), g.snake); cause == manager.NoCollision {
		g.snake.MoveForward(dir)
		g.ticks++
		g.checkEaten()
		glog.V(2).Infof("Game %s: tick %d head %+v heading %v", g.UUID, g.ticks, g.snake.HeadPosition(), g.snake.HeadDirection())
	} else {
		g.cause = cause
		g.endRound()
	}

	g.waitingTime = 0
	g.directionQueue = g.directionQueue[:0]
}

// CheckSnakeAlive reports whether moving in dir (nil keeps the heading) is survivable
func (g *Game) CheckSnakeAlive(dir *types.Direction) bool {
	return g.collisionMgr.CheckSnakeAlive(g.snake, dir)
}

func (g *Game) checkEaten() {
	if !g.hasFood || g.snake.HeadPosition() != g.food {
		return
	}
	g.hasFood = false
	if restored, ok := g.snake.RestoreTail(); ok {
		g.snake.Digest(restored, g.snake.Len())
	}
	g.score++
	glog.V(1).Infof("Game %s: ate food at %+v, score %d", g.UUID, g.food, g.score)
}

func (g *Game) endRound() {
	g.state = GameOver
	g.waitingTime = 0
	if g.recorder != nil && g.recorder.Qualifies(g.score) {
		g.awaitingName = true
	}
	if g.history != nil {
		g.history.AddRound(g.score, g.startedAt, g.now())
	}
	glog.Infof("Game %s: game over (collision %v, board full %v), score %d", g.UUID, g.cause, g.boardFull, g.score)
}

// Press handles one input event. Reversals and direction presses after the
// round has ended are dropped.
func (g *Game) Press(in Input) {
	switch in.Kind {
	case InputDirection:
		if g.state == GameOver || !in.Direction.Valid() {
			return
		}
		if in.Direction == g.snake.HeadDirection().Opposite() {
			return
		}
		g.directionQueue = append(g.directionQueue, in.Direction)
	case InputRestart:
		if g.state == GameOver {
			g.Restart()
		}
	case InputRune:
		if g.awaitingName && len(g.name) < g.cfg.MaxNameLength && validNameRune(in.Rune) {
			g.name = append(g.name, in.Rune)
		}
	case InputBackspace:
		if g.awaitingName && len(g.name) > 0 {
			g.name = g.name[:len(g.name)-1]
		}
	case InputConfirm:
		if g.awaitingName {
			g.submitName()
		} else if g.state == GameOver {
			g.Restart()
		}
	}
}

func (g *Game) submitName() {
	player := string(g.name)
	if player == "" {
		player = DefaultPlayer
	}
	if err := g.recorder.Record(player, g.score); err != nil {
		glog.Warningf("Game %s: could not record score: %v", g.UUID, err)
	} else {
		glog.Infof("Game %s: recorded high score %d for %q", g.UUID, g.score, player)
	}
	g.Restart()
}

// QueuedDirections returns the presses waiting for the next tick
func (g *Game) QueuedDirections() []types.Direction {
	q := make([]types.Direction, len(g.directionQueue))
	copy(q, g.directionQueue)
	return q
}
