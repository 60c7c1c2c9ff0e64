package manager

import (
	"errors"

	"snake-chase/game/entity"
	"snake-chase/game/types"
)

// ErrBoardFull is returned when no cell is left to place food on
var ErrBoardFull = errors.New("no free cell left for food")

const (
	// DefaultSpeedParam scales how fast escape probability grows with length
	DefaultSpeedParam = 5
	// DefaultMaxSpawnAttempts bounds random draws before scanning for free cells
	DefaultMaxSpawnAttempts = 1000
)

// Rand is the source of randomness used for placement and evasion.
// *golang.org/x/exp/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

type FoodManager struct {
	rng          Rand
	collisionMgr *CollisionManager
	speedParam   int
	maxAttempts  int
}

func NewFoodManager(rng Rand, collisionMgr *CollisionManager, speedParam, maxAttempts int) *FoodManager {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxSpawnAttempts
	}
	return &FoodManager{
		rng:          rng,
		collisionMgr: collisionMgr,
		speedParam:   speedParam,
		maxAttempts:  maxAttempts,
	}
}

// GetDistance is the Euclidean distance used to score escape moves
func GetDistance(a, b types.Point) float64 {
	return types.Distance(a, b)
}

// EscapeOffset returns the move taking food furthest from the snake's head.
// Staying put is always a candidate; ties are broken uniformly at random.
func (fm *FoodManager) EscapeOffset(food types.Point, snake *entity.Snake) types.Offset {
	head := snake.HeadPosition()
	bestDist := GetDistance(food, head)
	best := []types.Offset{types.Stay}

	for _, do := range types.Offsets() {
		dest := food.Add(do.Offset)
		if !fm.collisionMgr.ValidateSpawnPosition(dest, snake) {
			continue
		}
		dist := GetDistance(dest, head)
		switch {
		case dist > bestDist:
			bestDist = dist
			best = append(best[:0], do.Offset)
		case dist == bestDist:
			best = append(best, do.Offset)
		}
	}

	if len(best) == 1 {
		return best[0]
	}
	return best[fm.rng.Intn(len(best))]
}

// Escape gates EscapeOffset by a probability growing with the snake's length.
// With area cells on the board the food moves when a draw from [0, area)
// does not exceed min(len*speed, area).
func (fm *FoodManager) Escape(food types.Point, snake *entity.Snake) types.Offset {
	escape := fm.EscapeOffset(food, snake)

	area := fm.collisionMgr.Bounds().Area()
	if area <= 0 {
		return types.Stay
	}
	weight := clamp(snake.Len()*fm.speedParam, 0, area)

	if fm.rng.Intn(area) <= weight {
		return escape
	}
	return types.Stay
}

// Spawn picks a random free cell inside the walls for a new food item
func (fm *FoodManager) Spawn(snake *entity.Snake) (types.Point, error) {
	b := fm.collisionMgr.Bounds()
	w, h := b.Width()-2, b.Height()-2
	if w <= 0 || h <= 0 {
		return types.Point{}, ErrBoardFull
	}

	for i := 0; i < fm.maxAttempts; i++ {
		food := types.Point{
			X: b.XLow + 1 + fm.rng.Intn(w),
			Y: b.YLow + 1 + fm.rng.Intn(h),
		}
		if fm.collisionMgr.ValidateSpawnPosition(food, snake) {
			return food, nil
		}
	}

	// Nearly full board: pick among what is left instead of drawing blindly
	free := fm.freeCells(snake)
	if len(free) == 0 {
		return types.Point{}, ErrBoardFull
	}
	return free[fm.rng.Intn(len(free))], nil
}

func (fm *FoodManager) freeCells(snake *entity.Snake) []types.Point {
	b := fm.collisionMgr.Bounds()
	var free []types.Point
	for y := b.YLow + 1; y < b.YHigh-1; y++ {
		for x := b.XLow + 1; x < b.XHigh-1; x++ {
			p := types.Point{X: x, Y: y}
			if fm.collisionMgr.ValidateSpawnPosition(p, snake) {
				free = append(free, p)
			}
		}
	}
	return free
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
