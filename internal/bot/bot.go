// Package bot wires the Telegram client to the game and record handlers.
package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"composer-pasta-bot/internal/config"
	"composer-pasta-bot/internal/game/round"
	"composer-pasta-bot/internal/handler"
	"composer-pasta-bot/internal/pkg/lock"
	"composer-pasta-bot/internal/service"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot     *tele.Bot
	cfg     *config.Config
	private *PrivateUsers

	gameHandler   *handler.GameHandler
	recordHandler *handler.RecordHandler
	adminHandler  *handler.AdminHandler
}

// Dependencies holds all the dependencies needed by the bot handlers.
type Dependencies struct {
	Config   *config.Config
	Machine  *round.Machine
	Records  *service.PlayerRecords
	RoomLock *lock.RoomLock
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, config.ErrEmptyToken
	}
	if deps.Machine == nil || deps.Records == nil {
		return nil, errors.New("bot needs a game machine and player records")
	}

	pollTimeout := deps.Config.Bot.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 10 * time.Second
	}

	teleBot, err := tele.NewBot(tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: pollTimeout},
		OnError: func(err error, c tele.Context) {
			log.Error().Err(err).Msg("Handler error")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	roomLock := deps.RoomLock
	if roomLock == nil {
		roomLock = lock.NewRoomLock()
	}

	b := &Bot{
		bot:           teleBot,
		cfg:           deps.Config,
		private:       NewPrivateUsers(),
		gameHandler:   handler.NewGameHandler(deps.Machine, roomLock),
		recordHandler: handler.NewRecordHandler(deps.Records),
		adminHandler:  handler.NewAdminHandler(deps.Records),
	}

	b.registerMiddleware()
	b.registerHandlers()

	return b, nil
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(WhitelistMiddleware(b.cfg, b.private))
	b.bot.Use(LoggingMiddleware())
}

// registerHandlers registers all command and callback handlers.
func (b *Bot) registerHandlers() {
	b.bot.Handle("/start", b.gameHandler.HandleStart)
	b.bot.Handle("/newgame", b.gameHandler.HandleNewGame)
	b.bot.Handle("/cancel", b.gameHandler.HandleCancel)

	b.bot.Handle("/highscore", b.recordHandler.HandleHighScore)
	b.bot.Handle("/myscore", b.recordHandler.HandleMyScore)

	adminGroup := b.bot.Group()
	adminGroup.Use(AdminMiddleware(b.cfg))
	adminGroup.Handle("/save", b.adminHandler.HandleSave)
	adminGroup.Handle("/saved", b.adminHandler.HandleSaved)

	b.bot.Handle(tele.OnCallback, b.handleCallback)
	b.bot.Handle(tele.OnText, b.gameHandler.HandleUnknown)
}

// handleCallback routes button presses by their data prefix.
func (b *Bot) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}

	// Telebot v3 may add a \f prefix to callback data
	data := strings.TrimPrefix(callback.Data, "\f")
	if strings.HasPrefix(data, round.CallbackPrefix) {
		return b.gameHandler.HandleCallback(c)
	}

	log.Debug().Str("data", data).Msg("Ignoring callback with unknown prefix")
	return c.Respond()
}

// Start starts the bot polling. It blocks until Stop is called.
func (b *Bot) Start() {
	log.Info().Str("username", b.bot.Me.Username).Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}
