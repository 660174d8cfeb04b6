// Package round drives a Composer or Pasta game from invitation to the final
// summary. Events come in from the chat, instructions go back out; no
// transport types cross the Machine API.
package round

import "composer-pasta-bot/internal/game"

// Event is an inbound chat event addressed to a room.
type Event interface {
	Room() int64
}

// NewGame asks for a new game in a room.
type NewGame struct {
	RoomID        int64
	InitiatorID   int64
	InitiatorName string
	Kind          game.RoomKind
}

// Join is a press of the Join button on the invite menu.
type Join struct {
	RoomID   int64
	PlayerID int64
	Name     string
}

// StartPress is a press of the Start button on the invite menu.
type StartPress struct {
	RoomID   int64
	PlayerID int64
	Name     string
}

// LengthChoice is a press on the game length menu.
type LengthChoice struct {
	RoomID int64
	Value  string
}

// AnswerChoice is a press on the Composer/Pasta menu.
type AnswerChoice struct {
	RoomID   int64
	PlayerID int64
	Value    string
}

// Cancel asks to end the room's game early.
type Cancel struct {
	RoomID   int64
	PlayerID int64
}

func (e NewGame) Room() int64      { return e.RoomID }
func (e Join) Room() int64         { return e.RoomID }
func (e StartPress) Room() int64   { return e.RoomID }
func (e LengthChoice) Room() int64 { return e.RoomID }
func (e AnswerChoice) Room() int64 { return e.RoomID }
func (e Cancel) Room() int64       { return e.RoomID }

// eventName is used in log fields.
func eventName(ev Event) string {
	switch ev.(type) {
	case NewGame:
		return "new_game"
	case Join:
		return "join"
	case StartPress:
		return "start"
	case LengthChoice:
		return "length"
	case AnswerChoice:
		return "answer"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}
