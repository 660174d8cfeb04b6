package round

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"composer-pasta-bot/internal/game"
	"composer-pasta-bot/internal/model"
)

// QuestionSource supplies the next round's question.
type QuestionSource interface {
	Next() (game.Question, error)
}

// RecordStore is the high-score store the machine merges results into.
type RecordStore interface {
	UpdatePlayer(playerID int64, name string, score int)
	GetPlayerHighScore(playerID int64) int
	Flush(ctx context.Context) error
}

// Config holds optional machine settings.
type Config struct {
	// IdleTimeout removes a game that has seen no event for this long.
	// Zero disables eviction.
	IdleTimeout time.Duration
}

// Machine interprets events against the registry's games and returns the
// instructions for the chat. Events for the same room must not be handled
// concurrently; different rooms may be.
type Machine struct {
	registry    *game.Registry
	questions   QuestionSource
	catalog     *model.Catalog
	records     RecordStore
	idleTimeout time.Duration
	now         func() time.Time
}

// New creates a Machine. cfg may be nil.
func New(registry *game.Registry, questions QuestionSource, catalog *model.Catalog, records RecordStore, cfg *Config) *Machine {
	m := &Machine{
		registry:  registry,
		questions: questions,
		catalog:   catalog,
		records:   records,
		now:       time.Now,
	}
	if cfg != nil {
		m.idleTimeout = cfg.IdleTimeout
	}
	if m.catalog == nil {
		m.catalog = model.NewCatalog(nil, nil)
	}
	return m
}

// Handle applies one event and returns the instructions to send.
func (m *Machine) Handle(ctx context.Context, ev Event) []Instruction {
	m.evictIdle(ev.Room())

	log.Debug().
		Int64("room_id", ev.Room()).
		Str("event", eventName(ev)).
		Msg("Handling game event")

	switch e := ev.(type) {
	case NewGame:
		return m.handleNewGame(e)
	case Join:
		return m.handleJoin(e)
	case StartPress:
		return m.handleStart(e)
	case LengthChoice:
		return m.handleLength(e)
	case AnswerChoice:
		return m.handleAnswer(ctx, e)
	case Cancel:
		return m.handleCancel(e)
	default:
		log.Warn().Int64("room_id", ev.Room()).Msg("Ignoring unknown game event")
		return nil
	}
}

func (m *Machine) handleNewGame(e NewGame) []Instruction {
	if e.Kind == game.RoomChannel {
		return []Instruction{Reject{Reason: ReasonChannel}}
	}

	g, err := m.registry.Create(e.RoomID)
	if err != nil {
		log.Debug().Err(err).Int64("room_id", e.RoomID).Msg("Rejected new game")
		return []Instruction{Reject{Reason: ReasonAlreadyActive}}
	}

	g.Kind = e.Kind
	g.InitiatorID = e.InitiatorID
	g.Touch(m.now())

	log.Info().
		Int64("room_id", e.RoomID).
		Str("game_id", g.ID.String()).
		Int64("initiator_id", e.InitiatorID).
		Msg("Game created")

	// A private chat has one possible player, so there is nobody to invite.
	if e.Kind == game.RoomPrivate {
		g.AddPlayer(e.InitiatorID, e.InitiatorName)
		g.State = game.StateAwaitingLength
		return []Instruction{ShowLengthMenu{Players: g.PlayerNames()}}
	}

	g.State = game.StateAwaitingInvite
	return []Instruction{ShowInviteMenu{Players: g.PlayerNames()}}
}

func (m *Machine) handleJoin(e Join) []Instruction {
	g, ok := m.active(e.RoomID, game.StateAwaitingInvite)
	if !ok {
		return nil
	}

	g.AddPlayer(e.PlayerID, e.Name)
	g.Touch(m.now())
	return []Instruction{ShowInviteMenu{Players: g.PlayerNames()}}
}

func (m *Machine) handleStart(e StartPress) []Instruction {
	g, ok := m.active(e.RoomID, game.StateAwaitingInvite)
	if !ok {
		return nil
	}

	if !g.HasPlayer(e.PlayerID) {
		g.AddPlayer(e.PlayerID, e.Name)
	}
	g.State = game.StateAwaitingLength
	g.Touch(m.now())
	return []Instruction{ShowLengthMenu{Players: g.PlayerNames()}}
}

func (m *Machine) handleLength(e LengthChoice) []Instruction {
	g, ok := m.active(e.RoomID, game.StateAwaitingLength)
	if !ok {
		return nil
	}
	g.Touch(m.now())

	length, err := game.ParseLength(e.Value)
	if err != nil {
		return []Instruction{
			Reject{Reason: ReasonInvalidLength},
			ShowLengthMenu{Players: g.PlayerNames()},
		}
	}

	if err := g.SetTotalRounds(length); err != nil {
		log.Error().Err(err).Int64("room_id", e.RoomID).Msg("Failed to set total rounds")
		return []Instruction{Reject{Reason: ReasonInvalidLength}}
	}
	g.InitialiseOrder()
	g.InitialiseScores()
	g.State = game.StateAwaitingAnswer

	log.Info().
		Int64("room_id", e.RoomID).
		Str("game_id", g.ID.String()).
		Str("length", string(length)).
		Int("total_rounds", g.TotalRounds).
		Msg("Game started")

	return m.askQuestion(g)
}

func (m *Machine) handleAnswer(ctx context.Context, e AnswerChoice) []Instruction {
	g, ok := m.active(e.RoomID, game.StateAwaitingAnswer)
	if !ok {
		return nil
	}

	current, err := g.CurrentPlayer()
	if err != nil {
		return nil
	}
	// Presses from anyone but the current player are dropped without a reply.
	if e.PlayerID != current {
		log.Debug().
			Err(game.ErrWrongTurnPlayer).
			Int64("room_id", e.RoomID).
			Int64("player_id", e.PlayerID).
			Int64("current_player_id", current).
			Msg("Ignoring answer from player out of turn")
		return nil
	}

	category, ok := model.ParseCategory(e.Value)
	if !ok {
		return nil
	}
	g.Touch(m.now())

	q := g.CorrectAnswer
	correct := category == q.Category
	if correct {
		if err := g.RecordPointForCurrentPlayer(); err != nil {
			return nil
		}
	}
	g.AdvanceRound()

	out := []Instruction{ShowAnswerFeedback{
		Correct: correct,
		Detail:  FormatFeedback(correct, q, m.catalog.Detail(q.Category, q.Name)),
	}}

	if g.IsFinished() {
		return append(out, m.finish(ctx, g))
	}
	return append(out, m.askQuestion(g)...)
}

func (m *Machine) handleCancel(e Cancel) []Instruction {
	g, ok := m.registry.Lookup(e.RoomID)
	if !ok {
		return []Instruction{Reject{Reason: ReasonNoGame}}
	}
	if !g.HasPlayer(e.PlayerID) && g.InitiatorID != e.PlayerID {
		log.Debug().
			Err(game.ErrNotAParticipant).
			Int64("room_id", e.RoomID).
			Int64("player_id", e.PlayerID).
			Msg("Rejected cancel")
		return []Instruction{Reject{Reason: ReasonNotParticipant}}
	}

	m.registry.Remove(e.RoomID)

	log.Info().
		Int64("room_id", e.RoomID).
		Str("game_id", g.ID.String()).
		Int64("player_id", e.PlayerID).
		Str("state", g.State.String()).
		Msg("Game cancelled")

	return []Instruction{ShowCancelled{By: g.PlayerName(e.PlayerID)}}
}

// askQuestion picks and records the next question for the current player.
func (m *Machine) askQuestion(g *game.Game) []Instruction {
	q, err := m.questions.Next()
	if err != nil {
		log.Error().Err(err).Int64("room_id", g.RoomID).Msg("Failed to select a question, removing game")
		m.registry.Remove(g.RoomID)
		return []Instruction{Reject{Reason: ReasonNoQuestions}}
	}

	g.CorrectAnswer = q
	return []Instruction{ShowQuestion{
		Prompt: FormatQuestion(g.CurrentRound+1, g.TotalRounds, g.CurrentPlayerName(), q.Name),
		Menu:   MenuAnswer,
	}}
}

// finish merges every player's score into the records, flushes them and
// removes the game.
func (m *Machine) finish(ctx context.Context, g *game.Game) Instruction {
	g.State = game.StateFinished

	lines := make([]SummaryLine, 0, g.PlayerCount())
	for _, id := range g.PlayerIDs() {
		score := g.Scores[id]
		previous := m.records.GetPlayerHighScore(id)
		m.records.UpdatePlayer(id, g.PlayerName(id), score)
		lines = append(lines, SummaryLine{
			PlayerID:     id,
			Name:         g.PlayerName(id),
			Score:        score,
			NewHighScore: score > previous,
		})
	}

	// Flush logs its own failure; the summary is still shown.
	_ = m.records.Flush(ctx)
	m.registry.Remove(g.RoomID)

	log.Info().
		Int64("room_id", g.RoomID).
		Str("game_id", g.ID.String()).
		Int("players", len(lines)).
		Int("rounds", g.TotalRounds).
		Msg("Game finished")

	return ShowGameOverSummary{Lines: lines}
}

// active returns the room's game if it is in the wanted state.
func (m *Machine) active(roomID int64, want game.State) (*game.Game, bool) {
	g, ok := m.registry.Lookup(roomID)
	if !ok || g.State != want {
		return nil, false
	}
	return g, true
}

// evictIdle removes the room's game if it has been idle past the timeout.
func (m *Machine) evictIdle(roomID int64) {
	if m.idleTimeout <= 0 {
		return
	}
	g, ok := m.registry.Lookup(roomID)
	if !ok {
		return
	}
	if idle := g.IdleFor(m.now()); idle > m.idleTimeout {
		m.registry.Remove(roomID)
		log.Info().
			Int64("room_id", roomID).
			Str("game_id", g.ID.String()).
			Dur("idle", idle).
			Msg("Removed idle game")
	}
}
