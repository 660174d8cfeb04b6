// Package handler provides Telegram bot command handlers.
package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"composer-pasta-bot/internal/game"
	"composer-pasta-bot/internal/game/round"
	"composer-pasta-bot/internal/pkg/lock"
)

// RoomLockTimeout bounds how long an update waits for its room's previous update.
const RoomLockTimeout = 5 * time.Second

// GameHandler turns chat updates into game events and renders the resulting instructions.
type GameHandler struct {
	machine  *round.Machine
	roomLock *lock.RoomLock
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(machine *round.Machine, roomLock *lock.RoomLock) *GameHandler {
	return &GameHandler{
		machine:  machine,
		roomLock: roomLock,
	}
}

// HandleStart handles the /start command.
func (h *GameHandler) HandleStart(c tele.Context) error {
	return c.Reply("🎼🍝 Welcome to Composer or Pasta!\nTo start a game, use the command /newgame")
}

// HandleNewGame handles the /newgame command.
func (h *GameHandler) HandleNewGame(c tele.Context) error {
	sender := c.Sender()
	chat := c.Chat()
	if sender == nil || chat == nil {
		return nil
	}

	return h.dispatch(c, round.NewGame{
		RoomID:        chat.ID,
		InitiatorID:   sender.ID,
		InitiatorName: DisplayName(sender),
		Kind:          RoomKind(chat.Type),
	})
}

// HandleCancel handles the /cancel command.
func (h *GameHandler) HandleCancel(c tele.Context) error {
	sender := c.Sender()
	chat := c.Chat()
	if sender == nil || chat == nil {
		return nil
	}

	return h.dispatch(c, round.Cancel{RoomID: chat.ID, PlayerID: sender.ID})
}

// HandleCallback handles presses on the game's inline menus.
func (h *GameHandler) HandleCallback(c tele.Context) error {
	callback := c.Callback()
	sender := c.Sender()
	chat := c.Chat()
	if callback == nil || sender == nil || chat == nil {
		return nil
	}

	data := strings.TrimPrefix(callback.Data, "\f")
	ev, ok := CallbackEvent(chat.ID, sender, data)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Unknown button"})
	}

	return h.dispatch(c, ev)
}

// HandleUnknown replies to commands the bot does not recognise.
func (h *GameHandler) HandleUnknown(c tele.Context) error {
	if !strings.HasPrefix(c.Text(), "/") {
		return nil
	}
	return c.Reply("Hmm... I don't seem to recognise this command!\nPerhaps I'm under the influence of the Confundus Charm...")
}

// dispatch runs ev through the machine under the room lock and renders the result.
func (h *GameHandler) dispatch(c tele.Context, ev round.Event) error {
	ctx := context.Background()

	var out []round.Instruction
	err := h.roomLock.WithLockContext(ctx, ev.Room(), RoomLockTimeout, func() error {
		out = h.machine.Handle(ctx, ev)
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Int64("room_id", ev.Room()).Msg("Dropped game event")
		if errors.Is(err, lock.ErrLockTimeout) && c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{Text: "⏳ Busy, please try again"})
		}
		return nil
	}

	return h.render(c, out)
}

// render sends the instructions to the chat. For a button press the pressed
// message is edited into the first instruction, rejections are shown as
// alerts, and everything else is sent as new messages.
func (h *GameHandler) render(c tele.Context, out []round.Instruction) error {
	callback := c.Callback()
	edited := false
	alert := ""

	for _, in := range out {
		if r, ok := in.(round.Reject); ok && callback != nil {
			alert = r.Reason
			continue
		}

		text, markup := round.Render(in)
		if text == "" {
			continue
		}
		var opts []interface{}
		if markup != nil {
			opts = append(opts, markup)
		}

		var err error
		if callback != nil && !edited {
			err = c.Edit(text, opts...)
			edited = true
		} else {
			err = c.Send(text, opts...)
		}
		if err != nil {
			log.Warn().Err(err).Int64("chat_id", c.Chat().ID).Msg("Failed to deliver game message")
		}
	}

	if callback != nil {
		return c.Respond(&tele.CallbackResponse{Text: alert, ShowAlert: alert != ""})
	}
	return nil
}

// CallbackEvent converts inline button data into a game event.
func CallbackEvent(chatID int64, sender *tele.User, data string) (round.Event, bool) {
	action, param := round.DecodeCallback(data)
	switch action {
	case round.ActionJoin:
		return round.Join{RoomID: chatID, PlayerID: sender.ID, Name: DisplayName(sender)}, true
	case round.ActionStart:
		return round.StartPress{RoomID: chatID, PlayerID: sender.ID, Name: DisplayName(sender)}, true
	case round.ActionLength:
		return round.LengthChoice{RoomID: chatID, Value: param}, true
	case round.ActionAnswer:
		return round.AnswerChoice{RoomID: chatID, PlayerID: sender.ID, Value: param}, true
	default:
		return nil, false
	}
}

// RoomKind maps a Telegram chat type to a game room kind.
func RoomKind(t tele.ChatType) game.RoomKind {
	switch t {
	case tele.ChatPrivate:
		return game.RoomPrivate
	case tele.ChatChannel, tele.ChatChannelPrivate:
		return game.RoomChannel
	default:
		return game.RoomGroup
	}
}

// DisplayName returns the name shown for a user in game messages.
func DisplayName(u *tele.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return "Player"
}
