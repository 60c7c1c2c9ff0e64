package game

import (
	"unicode"

	"snake-chase/game/types"
)

// InputKind identifies what a frontend event means to the game
type InputKind int

const (
	InputNone InputKind = iota
	InputDirection
	InputRestart
	InputRune
	InputBackspace
	InputConfirm
)

// Input is a single, already decoded key press
type Input struct {
	Kind      InputKind
	Direction types.Direction
	Rune      rune
}

func DirectionInput(d types.Direction) Input { return Input{Kind: InputDirection, Direction: d} }
func RuneInput(r rune) Input                 { return Input{Kind: InputRune, Rune: r} }
func RestartInput() Input                    { return Input{Kind: InputRestart} }
func BackspaceInput() Input                  { return Input{Kind: InputBackspace} }
func ConfirmInput() Input                    { return Input{Kind: InputConfirm} }

func validNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}
