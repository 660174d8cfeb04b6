package round

import (
	"fmt"
	"strings"

	"composer-pasta-bot/internal/game"
)

// Rejection reasons shown to the room.
const (
	ReasonChannel        = "❌ Games can't be played in channels."
	ReasonAlreadyActive  = "❌ A game is already running here! Use /cancel to end it first."
	ReasonInvalidLength  = "❌ That's not a game length I know. Please pick one of the options."
	ReasonNoGame         = "❌ There is no game to cancel."
	ReasonNotParticipant = "❌ Only players in this game can cancel it."
	ReasonNoQuestions    = "❌ I have no composers or pastas to ask about, so the game was cancelled."
)

// FormatInviteMessage formats the invite menu text.
func FormatInviteMessage(players []string) string {
	msg := "🎼🍝 Composer or Pasta?\n"
	msg += "━━━━━━━━━━━━━━━\n"
	if len(players) == 0 {
		msg += "No players yet.\n"
	} else {
		msg += fmt.Sprintf("👥 Players (%d): %s\n", len(players), strings.Join(players, ", "))
	}
	msg += "━━━━━━━━━━━━━━━\n"
	msg += "Press Join to play, then Start when everyone is in."
	return msg
}

// FormatLengthMessage formats the length menu text.
func FormatLengthMessage(players []string) string {
	msg := fmt.Sprintf("👥 Players: %s\n", strings.Join(players, ", "))
	msg += "How long should the game be?\n"
	msg += fmt.Sprintf("Short: %d, Medium: %d, Long: %d rounds each",
		game.LengthShort.Multiplier(), game.LengthMedium.Multiplier(), game.LengthLong.Multiplier())
	return msg
}

// FormatQuestion formats a round's prompt.
func FormatQuestion(round, total int, playerName, name string) string {
	return fmt.Sprintf("Round %d/%d\n%s, is %s a composer or a pasta?", round, total, playerName, name)
}

// FormatFeedback formats the answer feedback detail.
func FormatFeedback(correct bool, q game.Question, detail string) string {
	msg := "✅ Correct! "
	if !correct {
		msg = "❌ Wrong! "
	}
	msg += fmt.Sprintf("%s is a %s.", q.Name, q.Category.Label())
	if detail != "" {
		msg += fmt.Sprintf("\n%s", detail)
	}
	return msg
}

// Text returns the summary line as shown in the chat.
func (l SummaryLine) Text() string {
	line := fmt.Sprintf("%s: %d", l.Name, l.Score)
	if l.NewHighScore {
		line += " 🏆 new high score!"
	}
	return line
}

// FormatSummary formats the game over summary.
func FormatSummary(lines []SummaryLine) string {
	msg := "🏁 Game over!\n"
	msg += "━━━━━━━━━━━━━━━\n"
	for _, l := range lines {
		msg += l.Text() + "\n"
	}
	msg += "━━━━━━━━━━━━━━━\n"
	msg += "Use /newgame to play again."
	return msg
}

// FormatCancelled formats the cancellation notice.
func FormatCancelled(by string) string {
	if by == "" {
		return "🛑 The game was cancelled."
	}
	return fmt.Sprintf("🛑 The game was cancelled by %s.", by)
}
