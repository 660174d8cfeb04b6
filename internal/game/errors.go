package game

import "errors"

// Errors returned by games and the registry.
var (
	ErrAlreadyActive    = errors.New("a game is already active in this room")
	ErrInvalidLength    = errors.New("invalid game length")
	ErrNoPlayers        = errors.New("game has no players")
	ErrRoundsAlreadySet = errors.New("total rounds already set")
	ErrGameFinished     = errors.New("game is finished")
	ErrEmptyCatalog     = errors.New("both catalogs are empty")
	ErrNotAParticipant  = errors.New("player is not a participant")
	ErrWrongTurnPlayer  = errors.New("it is not this player's turn")
)
