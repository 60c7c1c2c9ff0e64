package manager

import (
	"snake-chase/game/entity"
	"snake-chase/game/types"
)

// CollisionType represents the type of collision
type CollisionType int

const (
	NoCollision CollisionType = iota
	WallCollision
	SelfCollision
)

func (c CollisionType) String() string {
	switch c {
	case WallCollision:
		return "wall"
	case SelfCollision:
		return "self"
	default:
		return "none"
	}
}

type CollisionManager struct {
	bounds types.Bounds
}

func NewCollisionManager(bounds types.Bounds) *CollisionManager {
	return &CollisionManager{
		bounds: bounds,
	}
}

func (cm *CollisionManager) Bounds() types.Bounds {
	return cm.bounds
}

// CheckCollision classifies what a head entering pos would hit
func (cm *CollisionManager) CheckCollision(pos types.Point, snake *entity.Snake) CollisionType {
	if cm.isWallCollision(pos) {
		return WallCollision
	}
	// The tail cell is free by the time the head gets there
	if snake.OverlapTail(pos) {
		return SelfCollision
	}
	return NoCollision
}

// CheckSnakeAlive reports whether moving in dir (nil keeps the heading) is survivable
func (cm *CollisionManager) CheckSnakeAlive(snake *entity.Snake, dir *types.Direction) bool {
	return cm.CheckCollision(snake.NextHead(dir), snake) == NoCollision
}

// ValidateSpawnPosition checks that food can be placed at pos
func (cm *CollisionManager) ValidateSpawnPosition(pos types.Point, snake *entity.Snake) bool {
	return !cm.isWallCollision(pos) && !snake.OverlapTail(pos)
}

func (cm *CollisionManager) isWallCollision(pos types.Point) bool {
	return pos.OutOfBounds(cm.bounds)
}
