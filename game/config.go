package game

import (
	"errors"
	"fmt"
	"time"

	"snake-chase/game/entity"
	"snake-chase/game/manager"
	"snake-chase/game/types"
)

// Config holds every tunable of a game. Board dimensions are in cells.
type Config struct {
	Width, Height int

	StartHead      types.Point
	StartLength    int
	StartDirection types.Direction
	// InitialFood places the first food of every round; nil draws it at random
	InitialFood *types.Point

	// The tick period is BasePeriod * SpeedDecay^(score / FoodsPerSpeedUp),
	// never shorter than MinPeriod
	BasePeriod      time.Duration
	SpeedDecay      float64
	FoodsPerSpeedUp int
	MinPeriod       time.Duration

	// FoodSpeed scales how quickly the food becomes evasive as the snake grows
	FoodSpeed int

	RestartDelay     time.Duration
	MaxSpawnAttempts int
	MaxNameLength    int
}

// DefaultConfig returns the classic 20x20 setup
func DefaultConfig() Config {
	food := types.Point{X: 6, Y: 4}
	return Config{
		Width:            20,
		Height:           20,
		StartHead:        types.Point{X: 4, Y: 2},
		StartLength:      entity.DefaultLength,
		StartDirection:   types.Right,
		InitialFood:      &food,
		BasePeriod:       100 * time.Millisecond,
		SpeedDecay:       0.9,
		FoodsPerSpeedUp:  5,
		MinPeriod:        30 * time.Millisecond,
		FoodSpeed:        manager.DefaultSpeedParam,
		RestartDelay:     time.Second,
		MaxSpawnAttempts: manager.DefaultMaxSpawnAttempts,
		MaxNameLength:    10,
	}
}

// Bounds returns the board bounds
func (c Config) Bounds() types.Bounds {
	return types.NewBounds(c.Width, c.Height)
}

var errInvalidConfig = errors.New("invalid game config")

func (c Config) Validate() error {
	b := c.Bounds()
	switch {
	case c.Width < 3 || c.Height < 3:
		return fmt.Errorf("%w: board %dx%d is smaller than 3x3", errInvalidConfig, c.Width, c.Height)
	case c.StartLength < 1:
		return fmt.Errorf("%w: start length %d", errInvalidConfig, c.StartLength)
	case !c.StartDirection.Valid():
		return fmt.Errorf("%w: start direction %d", errInvalidConfig, c.StartDirection)
	case c.StartHead.OutOfBounds(b):
		return fmt.Errorf("%w: start head %+v is outside the walls", errInvalidConfig, c.StartHead)
	case c.InitialFood != nil && c.InitialFood.OutOfBounds(b):
		return fmt.Errorf("%w: initial food %+v is outside the walls", errInvalidConfig, *c.InitialFood)
	case c.BasePeriod <= 0:
		return fmt.Errorf("%w: base period %v", errInvalidConfig, c.BasePeriod)
	case c.SpeedDecay <= 0 || c.SpeedDecay > 1:
		return fmt.Errorf("%w: speed decay %v not in (0, 1]", errInvalidConfig, c.SpeedDecay)
	case c.FoodSpeed < 0:
		return fmt.Errorf("%w: food speed %d", errInvalidConfig, c.FoodSpeed)
	case c.MaxNameLength < 1:
		return fmt.Errorf("%w: max name length %d", errInvalidConfig, c.MaxNameLength)
	}
	return nil
}
