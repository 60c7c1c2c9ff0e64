package tty

import (
	"github.com/gdamore/tcell/v2"

	"snake-chase/game"
	"snake-chase/game/types"
)

var arrowKeys = map[tcell.Key]types.Direction{
	tcell.KeyUp:    types.Up,
	tcell.KeyDown:  types.Down,
	tcell.KeyLeft:  types.Left,
	tcell.KeyRight: types.Right,
}

var letterKeys = map[rune]types.Direction{
	'w': types.Up,
	's': types.Down,
	'a': types.Left,
	'd': types.Right,
}

// inputFor maps a key press to a game input. While a name is being typed
// letters are text, so only arrows steer and q does not quit.
func inputFor(ev *tcell.EventKey, awaitingName bool) (game.Input, bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return game.Input{}, true
	case tcell.KeyEnter:
		return game.ConfirmInput(), false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return game.BackspaceInput(), false
	case tcell.KeyRune:
		r := ev.Rune()
		if awaitingName {
			return game.RuneInput(r), false
		}
		if d, ok := letterKeys[r]; ok {
			return game.DirectionInput(d), false
		}
		switch r {
		case 'q':
			return game.Input{}, true
		case 'r':
			return game.RestartInput(), false
		}
		return game.Input{}, false
	}
	if d, ok := arrowKeys[ev.Key()]; ok {
		return game.DirectionInput(d), false
	}
	return game.Input{}, false
}
