package tty

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"snake-chase/game"
	"snake-chase/game/manager"
	"snake-chase/game/types"
)

// each board cell is two columns wide so the board looks square
const cellWidth = 2

var (
	wallStyle  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	headStyle  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	bodyStyle  = tcell.StyleDefault.Foreground(tcell.ColorLime)
	foodStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	textStyle  = tcell.StyleDefault
	alertStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

const (
	wallRune      = '#'
	headRune      = '@'
	bodyRune      = 'o'
	digestingRune = 'O'
	foodRune      = '*'
)

func setCell(s tcell.Screen, p types.Point, r rune, style tcell.Style) {
	for i := 0; i < cellWidth; i++ {
		s.SetContent(p.X*cellWidth+i, p.Y, r, nil, style)
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// Draw renders snap, plus the high-score table when the round is over
func Draw(s tcell.Screen, snap game.Snapshot, scores []manager.Score) {
	s.Clear()

	for x := 0; x < snap.Width; x++ {
		setCell(s, types.Point{X: x, Y: 0}, wallRune, wallStyle)
		setCell(s, types.Point{X: x, Y: snap.Height - 1}, wallRune, wallStyle)
	}
	for y := 0; y < snap.Height; y++ {
		setCell(s, types.Point{X: 0, Y: y}, wallRune, wallStyle)
		setCell(s, types.Point{X: snap.Width - 1, Y: y}, wallRune, wallStyle)
	}

	if snap.Food != nil {
		setCell(s, *snap.Food, foodRune, foodStyle)
	}

	// tail first so the head wins when segments overlap
	for i := len(snap.Body) - 1; i >= 0; i-- {
		seg := snap.Body[i]
		switch {
		case i == 0:
			setCell(s, seg.Point, headRune, headStyle)
		case seg.Digesting:
			setCell(s, seg.Point, digestingRune, bodyStyle)
		default:
			setCell(s, seg.Point, bodyRune, bodyStyle)
		}
	}

	y := snap.Height
	drawText(s, 0, y, textStyle, fmt.Sprintf("Score: %d", snap.Score))
	if !snap.GameOver {
		return
	}

	y++
	msg := "Game over"
	switch {
	case snap.BoardFull:
		msg = "Board full"
	case snap.Collision != "":
		msg = fmt.Sprintf("Game over (%s)", snap.Collision)
	}
	drawText(s, 0, y, alertStyle, msg)

	y++
	if snap.AwaitingName {
		drawText(s, 0, y, alertStyle, "New high score! Name: "+snap.Name+"_")
	} else {
		drawText(s, 0, y, textStyle, "r to restart, q to quit")
	}

	for i, sc := range scores {
		line := fmt.Sprintf("%2d. %-10s %6d  %s", i+1, sc.Player, sc.Score, sc.Timestamp.Format(manager.DisplayFormat))
		drawText(s, 0, y+2+i, textStyle, line)
	}
}
