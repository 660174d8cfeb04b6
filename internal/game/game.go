// Package game implements the per-room Composer or Pasta game: turn order,
// scoring, question selection and the registry of active games.
package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"composer-pasta-bot/internal/model"
)

// Length is the length option chosen before the first round.
type Length string

// Recognised game lengths.
const (
	LengthShort  Length = "SHORT"
	LengthMedium Length = "MEDIUM"
	LengthLong   Length = "LONG"
)

// Lengths lists the recognised lengths in menu order.
var Lengths = []Length{LengthShort, LengthMedium, LengthLong}

// lengthMultipliers maps a length to the number of rounds per player.
var lengthMultipliers = map[Length]int{
	LengthShort:  10,
	LengthMedium: 20,
	LengthLong:   50,
}

// ParseLength converts a menu value into a Length.
func ParseLength(s string) (Length, error) {
	l := Length(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := lengthMultipliers[l]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidLength, s)
	}
	return l, nil
}

// Multiplier returns the rounds per player, or 0 for an unknown length.
func (l Length) Multiplier() int {
	return lengthMultipliers[l]
}

// State is the conversation state of a game.
type State int

// Game states. A room with no registered game has no state.
const (
	StateAwaitingInvite State = iota
	StateAwaitingLength
	StateAwaitingAnswer
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateAwaitingInvite:
		return "awaiting_invite"
	case StateAwaitingLength:
		return "awaiting_length"
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// RoomKind classifies the chat a game is played in.
type RoomKind int

// Room kinds.
const (
	RoomGroup RoomKind = iota
	RoomPrivate
	RoomChannel
)

// Question is a round's prompt: the name shown and the category it belongs to.
type Question struct {
	Category model.Category
	Name     string
}

// Game holds the state of one room's game.
// A Game is not safe for concurrent use; callers serialise access per room.
type Game struct {
	ID            uuid.UUID
	RoomID        int64
	InitiatorID   int64
	Kind          RoomKind
	State         State
	Order         []int64
	Scores        map[int64]int
	TotalRounds   int
	CurrentRound  int
	CorrectAnswer Question
	CreatedAt     time.Time
	LastActivity  time.Time

	playerIDs []int64
	names     map[int64]string
}

// New creates an empty game for a room.
func New(roomID int64) *Game {
	now := time.Now()
	return &Game{
		ID:           uuid.New(),
		RoomID:       roomID,
		Scores:       make(map[int64]int),
		CreatedAt:    now,
		LastActivity: now,
		names:        make(map[int64]string),
	}
}

// AddPlayer adds a player, or updates the display name of one already present.
func (g *Game) AddPlayer(playerID int64, name string) {
	if _, ok := g.names[playerID]; !ok {
		g.playerIDs = append(g.playerIDs, playerID)
	}
	g.names[playerID] = name
}

// HasPlayer reports whether the player has joined.
func (g *Game) HasPlayer(playerID int64) bool {
	_, ok := g.names[playerID]
	return ok
}

// PlayerIDs returns the player ids in join order.
func (g *Game) PlayerIDs() []int64 {
	ids := make([]int64, len(g.playerIDs))
	copy(ids, g.playerIDs)
	return ids
}

// PlayerName returns a player's display name.
func (g *Game) PlayerName(playerID int64) string {
	return g.names[playerID]
}

// PlayerNames returns the display names in join order.
func (g *Game) PlayerNames() []string {
	names := make([]string, 0, len(g.playerIDs))
	for _, id := range g.playerIDs {
		names = append(names, g.names[id])
	}
	return names
}

// PlayerCount returns the number of joined players.
func (g *Game) PlayerCount() int {
	return len(g.playerIDs)
}

// SetTotalRounds fixes the number of rounds from the roster size and the chosen length.
// It must be called once, after every player has joined.
func (g *Game) SetTotalRounds(length Length) error {
	multiplier := length.Multiplier()
	if multiplier == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidLength, length)
	}
	if g.TotalRounds != 0 {
		return ErrRoundsAlreadySet
	}
	if len(g.playerIDs) == 0 {
		return ErrNoPlayers
	}
	g.TotalRounds = len(g.playerIDs) * multiplier
	return nil
}

// InitialiseOrder builds the round-robin turn order: round i belongs to
// the player who joined at position i mod len(players).
func (g *Game) InitialiseOrder() {
	g.Order = make([]int64, g.TotalRounds)
	if len(g.playerIDs) == 0 {
		return
	}
	for i := range g.Order {
		g.Order[i] = g.playerIDs[i%len(g.playerIDs)]
	}
}

// InitialiseScores resets every player's score to zero.
func (g *Game) InitialiseScores() {
	g.Scores = make(map[int64]int, len(g.playerIDs))
	for _, id := range g.playerIDs {
		g.Scores[id] = 0
	}
}

// CurrentPlayer returns the id of the player whose turn it is.
func (g *Game) CurrentPlayer() (int64, error) {
	if g.CurrentRound >= g.TotalRounds || g.CurrentRound >= len(g.Order) {
		return 0, ErrGameFinished
	}
	return g.Order[g.CurrentRound], nil
}

// CurrentPlayerName returns the display name of the player whose turn it is.
func (g *Game) CurrentPlayerName() string {
	id, err := g.CurrentPlayer()
	if err != nil {
		return ""
	}
	return g.names[id]
}

// RecordPointForCurrentPlayer gives the current player one point.
// Call it before AdvanceRound.
func (g *Game) RecordPointForCurrentPlayer() error {
	id, err := g.CurrentPlayer()
	if err != nil {
		return err
	}
	g.Scores[id]++
	return nil
}

// AdvanceRound moves to the next round.
func (g *Game) AdvanceRound() {
	if g.CurrentRound < g.TotalRounds {
		g.CurrentRound++
	}
}

// IsFinished reports whether every round has been played.
func (g *Game) IsFinished() bool {
	return g.TotalRounds > 0 && g.CurrentRound == g.TotalRounds
}

// Touch records activity at the given time.
func (g *Game) Touch(now time.Time) {
	g.LastActivity = now
}

// IdleFor returns how long the game has gone without activity.
func (g *Game) IdleFor(now time.Time) time.Duration {
	return now.Sub(g.LastActivity)
}
