package types

import "fmt"

// Direction is one of the four cardinal headings
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

var offsets = [...]Offset{
	Up:    {DX: 0, DY: -1}, // y grows downwards
	Down:  {DX: 0, DY: 1},
	Left:  {DX: -1, DY: 0},
	Right: {DX: 1, DY: 0},
}

var opposites = [...]Direction{
	Up:    Down,
	Down:  Up,
	Left:  Right,
	Right: Left,
}

var names = [...]string{
	Up:    "up",
	Down:  "down",
	Left:  "left",
	Right: "right",
}

// Valid reports whether d is one of the four headings
func (d Direction) Valid() bool {
	return int(d) < len(offsets)
}

// Opposite returns the heading pointing the other way
func (d Direction) Opposite() Direction {
	if !d.Valid() {
		return d
	}
	return opposites[d]
}

// Offset returns the unit vector of d, or Stay for an invalid value
func (d Direction) Offset() Offset {
	if !d.Valid() {
		return Stay
	}
	return offsets[d]
}

func (d Direction) String() string {
	if !d.Valid() {
		return "invalid"
	}
	return names[d]
}

// DirOffset pairs a heading with its unit vector
type DirOffset struct {
	Direction Direction
	Offset    Offset
}

// Offsets returns the four unit vectors in Up, Down, Left, Right order
func Offsets() [4]DirOffset {
	return [4]DirOffset{
		{Up, offsets[Up]},
		{Down, offsets[Down]},
		{Left, offsets[Left]},
		{Right, offsets[Right]},
	}
}

// Ptr returns a pointer to a copy of d, for the optional direction arguments
// of the snake and the game.
func (d Direction) Ptr() *Direction {
	return &d
}

// MarshalText encodes d by name so snapshots read naturally as JSON
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid direction %d", uint8(d))
	}
	return []byte(names[d]), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	for i, name := range names {
		if name == string(text) {
			*d = Direction(i)
			return nil
		}
	}
	return fmt.Errorf("unknown direction %q", text)
}
