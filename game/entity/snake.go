package entity

import (
	"snake-chase/game/types"
)

// DefaultLength is the length of a snake created without an explicit length
const DefaultLength = 3

// Snake is the player's body and heading. Index 0 of the body is the head.
type Snake struct {
	body      []types.Point
	direction types.Direction

	// Last segment popped by MoveForward, kept so eating can elongate the body
	tail    types.Point
	hasTail bool

	// Cells where a swallowed food is still travelling down the body
	digesting map[types.Point]int
}

// NewSnake creates a snake with its head at head, the rest of the body
// trailing behind it opposite to dir.
func NewSnake(head types.Point, length int, dir types.Direction) *Snake {
	if length < 1 {
		length = 1
	}
	if !dir.Valid() {
		dir = types.Right
	}

	back := dir.Opposite()
	body := make([]types.Point, length)
	body[0] = head
	for i := 1; i < length; i++ {
		body[i] = body[i-1].Step(back)
	}

	return &Snake{
		body:      body,
		direction: dir,
		digesting: make(map[types.Point]int),
	}
}

func (s *Snake) Len() int {
	return len(s.body)
}

func (s *Snake) HeadPosition() types.Point {
	return s.body[0]
}

func (s *Snake) HeadDirection() types.Direction {
	return s.direction
}

// Tail returns the last body segment
func (s *Snake) Tail() types.Point {
	return s.body[len(s.body)-1]
}

// Body returns a copy of the segments from head to tail
func (s *Snake) Body() []types.Point {
	body := make([]types.Point, len(s.body))
	copy(body, s.body)
	return body
}

// NextHead returns the cell the head would move to in dir, or in the current
// direction when dir is nil. The snake is not modified.
func (s *Snake) NextHead(dir *types.Direction) types.Point {
	moving := s.direction
	if dir != nil {
		moving = *dir
	}
	return s.HeadPosition().Step(moving)
}

// MoveForward advances the snake one cell. A non-nil dir replaces the current
// heading; rejecting reversals and deadly moves is the caller's job.
func (s *Snake) MoveForward(dir *types.Direction) {
	if dir != nil {
		s.direction = *dir
	}

	// Counters at zero are dropped here, so they outlive their value by a tick
	for p, count := range s.digesting {
		if count >= 1 {
			s.digesting[p] = count - 1
		} else {
			delete(s.digesting, p)
		}
	}

	newHead := s.NextHead(nil)
	last := len(s.body) - 1
	s.tail = s.body[last]
	s.hasTail = true

	copy(s.body[1:], s.body[:last])
	s.body[0] = newHead
}

// RestoreTail appends the segment popped by the last move, growing the snake
// by one. It returns the restored cell, or false when there is nothing to
// restore (no move yet, or the tail was already restored).
func (s *Snake) RestoreTail() (types.Point, bool) {
	if !s.hasTail {
		return types.Point{}, false
	}
	s.body = append(s.body, s.tail)
	s.hasTail = false
	return s.tail, true
}

// Digest marks p as holding a swallowed food for the given number of ticks
func (s *Snake) Digest(p types.Point, ticks int) {
	s.digesting[p] = ticks
}

// Digesting reports whether p still holds a swallowed food
func (s *Snake) Digesting(p types.Point) bool {
	_, ok := s.digesting[p]
	return ok
}

// DigestCounter returns the remaining ticks for p
func (s *Snake) DigestCounter(p types.Point) (int, bool) {
	count, ok := s.digesting[p]
	return count, ok
}

// OverlapTail reports whether p is covered by any segment except the last one.
// The last segment vacates its cell on the same tick a head would enter it.
func (s *Snake) OverlapTail(p types.Point) bool {
	for _, part := range s.body[:len(s.body)-1] {
		if part == p {
			return true
		}
	}
	return false
}

// Occupies reports whether p is covered by any segment, the tail included
func (s *Snake) Occupies(p types.Point) bool {
	return s.OverlapTail(p) || s.Tail() == p
}
