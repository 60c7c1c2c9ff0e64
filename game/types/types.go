package types

import "math"

// Point is a single grid cell address
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Offset is the displacement applied to a Point in one step
type Offset struct {
	DX, DY int
}

// Stay is the zero offset
var Stay = Offset{}

func (p Point) Add(o Offset) Point {
	return Point{X: p.X + o.DX, Y: p.Y + o.DY}
}

// Step returns the neighbouring cell in direction d
func (p Point) Step(d Direction) Point {
	return p.Add(d.Offset())
}

// OutOfBounds reports whether p touches or crosses the outer ring of b.
// The outermost ring is reserved for the walls.
func (p Point) OutOfBounds(b Bounds) bool {
	return p.X <= b.XLow || p.X >= b.XHigh-1 || p.Y <= b.YLow || p.Y >= b.YHigh-1
}

// Distance returns the Euclidean distance between two cells
func Distance(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Bounds are exclusive board bounds [XLow, XHigh) x [YLow, YHigh)
type Bounds struct {
	XLow, XHigh int
	YLow, YHigh int
}

// NewBounds returns the bounds of a width x height board anchored at the origin
func NewBounds(width, height int) Bounds {
	return Bounds{XHigh: width, YHigh: height}
}

func (b Bounds) Width() int  { return b.XHigh - b.XLow }
func (b Bounds) Height() int { return b.YHigh - b.YLow }
func (b Bounds) Area() int   { return b.Width() * b.Height() }
