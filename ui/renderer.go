package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"snake-chase/game"
	"snake-chase/game/manager"
	"snake-chase/game/types"
)

const (
	BlockSize      = 25
	SnakeBlockSize = 20
	headerHeight   = 30
	fontSize       = 20
	lineHeight     = 24
)

var (
	backgroundColor = rl.RayWhite
	wallColor       = rl.Black
	bodyColor       = rl.Color{R: 0, G: 158, B: 47, A: 255}
	headColor       = rl.DarkGreen
	foodColor       = rl.Red
)

type Renderer struct {
	cellSize int32
	offsetX  int32
	offsetY  int32
	width    int32
	height   int32
}

func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		cellSize: BlockSize,
		offsetY:  headerHeight,
		width:    int32(width) * BlockSize,
		height:   int32(height) * BlockSize,
	}
}

// WindowSize is the window needed to show the board and the score row
func (r *Renderer) WindowSize() (int32, int32) {
	return r.offsetX + r.width, r.offsetY + r.height
}

func (r *Renderer) cell(p types.Point) rl.Rectangle {
	return rl.Rectangle{
		X:      float32(r.offsetX + int32(p.X)*r.cellSize),
		Y:      float32(r.offsetY + int32(p.Y)*r.cellSize),
		Width:  float32(r.cellSize),
		Height: float32(r.cellSize),
	}
}

// segmentRect is the body block at p, inset from the cell and stretched
// towards each adjacent segment so the body reads as one piece
func (r *Renderer) segmentRect(p types.Point, neighbours ...types.Point) rl.Rectangle {
	pad := float32(r.cellSize-SnakeBlockSize) / 2
	full := r.cell(p)
	rect := rl.Rectangle{
		X:      full.X + pad,
		Y:      full.Y + pad,
		Width:  SnakeBlockSize,
		Height: SnakeBlockSize,
	}
	for _, n := range neighbours {
		switch {
		case n.X == p.X-1 && n.Y == p.Y:
			rect.X -= pad
			rect.Width += pad
		case n.X == p.X+1 && n.Y == p.Y:
			rect.Width += pad
		case n.Y == p.Y-1 && n.X == p.X:
			rect.Y -= pad
			rect.Height += pad
		case n.Y == p.Y+1 && n.X == p.X:
			rect.Height += pad
		}
	}
	return rect
}

func (r *Renderer) Draw(snap game.Snapshot, scores []manager.Score) {
	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(backgroundColor)

	rl.DrawText(fmt.Sprintf("Score: %d", snap.Score), 5, (headerHeight-fontSize)/2, fontSize, rl.DarkGray)

	for x := 0; x < snap.Width; x++ {
		rl.DrawRectangleRec(r.cell(types.Point{X: x, Y: 0}), wallColor)
		rl.DrawRectangleRec(r.cell(types.Point{X: x, Y: snap.Height - 1}), wallColor)
	}
	for y := 0; y < snap.Height; y++ {
		rl.DrawRectangleRec(r.cell(types.Point{X: 0, Y: y}), wallColor)
		rl.DrawRectangleRec(r.cell(types.Point{X: snap.Width - 1, Y: y}), wallColor)
	}

	if snap.Food != nil {
		rl.DrawRectangleRec(r.cell(*snap.Food), foodColor)
	}

	for i := len(snap.Body) - 1; i >= 0; i-- {
		seg := snap.Body[i]
		switch {
		case i == 0:
			rl.DrawRectangleRec(r.cell(seg.Point), headColor)
			r.drawHeading(seg.Point, snap.Direction)
		case seg.Digesting:
			rl.DrawRectangleRec(r.cell(seg.Point), bodyColor)
		default:
			neighbours := []types.Point{snap.Body[i-1].Point}
			if i+1 < len(snap.Body) {
				neighbours = append(neighbours, snap.Body[i+1].Point)
			}
			rl.DrawRectangleRec(r.segmentRect(seg.Point, neighbours...), bodyColor)
		}
	}

	if snap.GameOver {
		r.drawGameOver(snap, scores)
	}
}

// drawHeading marks the side of the head the snake is moving towards
func (r *Renderer) drawHeading(p types.Point, dir types.Direction) {
	c := r.cell(p)
	half := c.Width / 2
	cx, cy := c.X+half, c.Y+half
	var tip, left, right rl.Vector2
	switch dir {
	case types.Right:
		tip = rl.Vector2{X: c.X + c.Width, Y: cy}
		left = rl.Vector2{X: cx, Y: c.Y}
		right = rl.Vector2{X: cx, Y: c.Y + c.Height}
	case types.Left:
		tip = rl.Vector2{X: c.X, Y: cy}
		left = rl.Vector2{X: cx, Y: c.Y + c.Height}
		right = rl.Vector2{X: cx, Y: c.Y}
	case types.Down:
		tip = rl.Vector2{X: cx, Y: c.Y + c.Height}
		left = rl.Vector2{X: c.X + c.Width, Y: cy}
		right = rl.Vector2{X: c.X, Y: cy}
	default:
		tip = rl.Vector2{X: cx, Y: c.Y}
		left = rl.Vector2{X: c.X, Y: cy}
		right = rl.Vector2{X: c.X + c.Width, Y: cy}
	}
	// raylib wants counter-clockwise vertices
	rl.DrawTriangle(tip, left, right, rl.Yellow)
}

func (r *Renderer) drawGameOver(snap game.Snapshot, scores []manager.Score) {
	w, h := r.WindowSize()
	rl.DrawRectangle(0, 0, w, h, rl.Fade(rl.Black, 0.6))

	title := "Game Over"
	if snap.BoardFull {
		title = "Board Full"
	}
	y := r.offsetY + 2*lineHeight
	r.drawCentered(title, y, fontSize+10, rl.White)
	y += 2 * lineHeight

	if snap.AwaitingName {
		r.drawCentered("New high score! Enter your name:", y, fontSize, rl.Gold)
		y += lineHeight
		r.drawCentered(snap.Name+"_", y, fontSize, rl.White)
	} else {
		r.drawCentered("Press R to restart", y, fontSize, rl.LightGray)
	}
	y += 2 * lineHeight

	for i, sc := range scores {
		line := fmt.Sprintf("%2d. %-10s %5d  %s", i+1, sc.Player, sc.Score, sc.Timestamp.Format(manager.DisplayFormat))
		r.drawCentered(line, y, fontSize-4, rl.RayWhite)
		y += lineHeight - 4
	}
}

func (r *Renderer) drawCentered(text string, y, size int32, color rl.Color) {
	w, _ := r.WindowSize()
	rl.DrawText(text, (w-rl.MeasureText(text, size))/2, y, size, color)
}
