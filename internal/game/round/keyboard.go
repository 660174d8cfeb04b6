package round

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"composer-pasta-bot/internal/game"
	"composer-pasta-bot/internal/model"
)

const (
	// CallbackPrefix is the prefix for all game callback data
	CallbackPrefix = "cp_"
)

// Callback actions.
const (
	ActionJoin   = "join"
	ActionStart  = "start"
	ActionLength = "length"
	ActionAnswer = "answer"
)

// EncodeCallback encodes an action and parameter into callback data.
func EncodeCallback(action string, param string) string {
	if param != "" {
		return fmt.Sprintf("%s%s_%s", CallbackPrefix, action, param)
	}
	return fmt.Sprintf("%s%s", CallbackPrefix, action)
}

// DecodeCallback decodes callback data into action and parameter.
func DecodeCallback(data string) (action string, param string) {
	if !strings.HasPrefix(data, CallbackPrefix) {
		return "", ""
	}

	content := strings.TrimPrefix(data, CallbackPrefix)
	parts := strings.SplitN(content, "_", 2)
	action = parts[0]
	if len(parts) > 1 {
		param = parts[1]
	}
	return action, param
}

// BuildMenu builds the inline keyboard for a menu. MenuNone yields nil.
//
//   - Invite: [Join] [Start]
//   - Length: [Short] [Medium] [Long]
//   - Answer: [Composer] [Pasta]
func BuildMenu(menu Menu) *tele.ReplyMarkup {
	var row []tele.InlineButton

	switch menu {
	case MenuInvite:
		row = []tele.InlineButton{
			{Text: "🙋 Join", Data: EncodeCallback(ActionJoin, "")},
			{Text: "▶️ Start", Data: EncodeCallback(ActionStart, "")},
		}
	case MenuLength:
		for _, l := range game.Lengths {
			row = append(row, tele.InlineButton{
				Text: lengthLabel(l),
				Data: EncodeCallback(ActionLength, string(l)),
			})
		}
	case MenuAnswer:
		row = []tele.InlineButton{
			{Text: "🎼 Composer", Data: EncodeCallback(ActionAnswer, string(model.CategoryComposer))},
			{Text: "🍝 Pasta", Data: EncodeCallback(ActionAnswer, string(model.CategoryPasta))},
		}
	default:
		return nil
	}

	markup := &tele.ReplyMarkup{}
	markup.InlineKeyboard = [][]tele.InlineButton{row}
	return markup
}

// Render turns an instruction into message text and an optional keyboard.
func Render(in Instruction) (string, *tele.ReplyMarkup) {
	switch v := in.(type) {
	case ShowInviteMenu:
		return FormatInviteMessage(v.Players), BuildMenu(MenuInvite)
	case ShowLengthMenu:
		return FormatLengthMessage(v.Players), BuildMenu(MenuLength)
	case ShowQuestion:
		return v.Prompt, BuildMenu(v.Menu)
	case ShowAnswerFeedback:
		return v.Detail, nil
	case ShowGameOverSummary:
		return FormatSummary(v.Lines), nil
	case ShowCancelled:
		return FormatCancelled(v.By), nil
	case Reject:
		return v.Reason, nil
	default:
		return "", nil
	}
}

func lengthLabel(l game.Length) string {
	switch l {
	case game.LengthShort:
		return "Short"
	case game.LengthMedium:
		return "Medium"
	case game.LengthLong:
		return "Long"
	default:
		return string(l)
	}
}
