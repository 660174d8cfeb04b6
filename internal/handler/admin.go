package handler

import (
	"context"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"composer-pasta-bot/internal/service"
)

// AdminHandler handles admin-only maintenance commands.
type AdminHandler struct {
	records *service.PlayerRecords
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(records *service.PlayerRecords) *AdminHandler {
	return &AdminHandler{records: records}
}

// HandleSave handles the /save command: it flushes the player records now.
func (h *AdminHandler) HandleSave(c tele.Context) error {
	if err := h.records.Flush(context.Background()); err != nil {
		return c.Reply("❌ Saving player records failed, check the logs.")
	}

	log.Info().Int64("admin_id", c.Sender().ID).Int("players", h.records.Len()).Msg("Player records saved by admin")
	return c.Reply("✅ Player records saved.")
}

// HandleSaved handles the /saved command: it lists the records held in memory.
func (h *AdminHandler) HandleSaved(c tele.Context) error {
	return c.Reply(FormatRecords(h.records.Snapshot()))
}
