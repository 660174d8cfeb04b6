package handler

import (
	"fmt"
	"sort"
	"strings"

	tele "gopkg.in/telebot.v3"

	"composer-pasta-bot/internal/model"
	"composer-pasta-bot/internal/service"
)

// maxMessageLength is Telegram's limit on message text.
const maxMessageLength = 4096

// RecordHandler handles high-score commands.
type RecordHandler struct {
	records *service.PlayerRecords
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(records *service.PlayerRecords) *RecordHandler {
	return &RecordHandler{records: records}
}

// HandleHighScore handles the /highscore command.
func (h *RecordHandler) HandleHighScore(c tele.Context) error {
	summary, ok := h.records.HighestScoreSummary()
	if !ok {
		return c.Reply("📊 No games have been finished yet.")
	}
	return c.Reply("🏆 Highest score\n━━━━━━━━━━━━━━━\n" + summary)
}

// HandleMyScore handles the /myscore command.
func (h *RecordHandler) HandleMyScore(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	rec, ok := h.records.GetPlayer(sender.ID)
	if !ok {
		return c.Reply(fmt.Sprintf("🏆 %s, your high score is %d. Play a game with /newgame!",
			DisplayName(sender), h.records.GetPlayerHighScore(sender.ID)))
	}
	return c.Reply(fmt.Sprintf("🏆 %s, your high score is %d after %d games.",
		DisplayName(sender), rec.HighScore, rec.GamesPlayed))
}

// FormatRecords lists every record ordered by player id, cut to fit one message.
func FormatRecords(records map[int64]model.PlayerRecord) string {
	if len(records) == 0 {
		return "📋 No player records."
	}

	ids := make([]int64, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 Player records (%d)\n", len(records)))
	for _, id := range ids {
		rec := records[id]
		line := fmt.Sprintf("%d: %s, high score %d, games %d\n", id, rec.Name, rec.HighScore, rec.GamesPlayed)
		if b.Len()+len(line) > maxMessageLength-4 {
			b.WriteString("...")
			break
		}
		b.WriteString(line)
	}
	return strings.TrimRight(b.String(), "\n")
}
