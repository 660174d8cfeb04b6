package bot

import (
	"sync"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"composer-pasta-bot/internal/config"
)

// PrivateUsers remembers users seen in whitelisted groups so they may also
// play in a private chat with the bot.
type PrivateUsers struct {
	users map[int64]struct{}
	mu    sync.RWMutex
}

// NewPrivateUsers creates an empty PrivateUsers set.
func NewPrivateUsers() *PrivateUsers {
	return &PrivateUsers{users: make(map[int64]struct{})}
}

// Allow marks a user as allowed in private chat.
func (p *PrivateUsers) Allow(userID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[userID] = struct{}{}
}

// Allowed reports whether a user may use private chat.
func (p *PrivateUsers) Allowed(userID int64) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.users[userID]
	return ok
}

// WhitelistMiddleware drops updates from chats outside the whitelist.
// An empty whitelist allows every chat.
func WhitelistMiddleware(cfg *config.Config, private *PrivateUsers) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			chat := c.Chat()
			sender := c.Sender()
			if chat == nil || sender == nil {
				return nil
			}

			if chat.Type == tele.ChatPrivate {
				if len(cfg.Whitelist.Chats) == 0 || private.Allowed(sender.ID) {
					return next(c)
				}
				log.Debug().
					Int64("user_id", sender.ID).
					Msg("Ignoring private chat from user not seen in a whitelisted group")
				return nil
			}

			if !cfg.IsChatAllowed(chat.ID) {
				log.Debug().
					Int64("chat_id", chat.ID).
					Msg("Ignoring update from non-whitelisted chat")
				return nil
			}

			private.Allow(sender.ID)
			return next(c)
		}
	}
}

// AdminMiddleware rejects commands from users outside admin.ids.
func AdminMiddleware(cfg *config.Config) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return nil
			}

			if !cfg.IsAdmin(sender.ID) {
				log.Warn().
					Int64("user_id", sender.ID).
					Str("command", c.Text()).
					Msg("Non-admin attempted admin command")
				return c.Reply("❌ This command is for bot admins only.")
			}

			return next(c)
		}
	}
}

// LoggingMiddleware logs every incoming update at debug level.
func LoggingMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			logEvent := log.Debug()
			if sender := c.Sender(); sender != nil {
				logEvent = logEvent.
					Int64("user_id", sender.ID).
					Str("username", sender.Username)
			}
			if chat := c.Chat(); chat != nil {
				logEvent = logEvent.
					Int64("chat_id", chat.ID).
					Str("chat_type", string(chat.Type))
			}
			if cb := c.Callback(); cb != nil {
				logEvent = logEvent.Str("callback", cb.Data)
			}
			logEvent.
				Str("text", c.Text()).
				Msg("Received update")

			return next(c)
		}
	}
}

// RecoveryMiddleware turns a handler panic into a logged error.
func RecoveryMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Interface("panic", r).
						Msg("Recovered from panic in handler")
					err = nil
					if c.Callback() != nil {
						_ = c.Respond(&tele.CallbackResponse{Text: "❌ Something went wrong"})
						return
					}
					_ = c.Reply("❌ Something went wrong, please try again.")
				}
			}()
			return next(c)
		}
	}
}
