package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"

	"composer-pasta-bot/internal/game/round"
)

// stubContext records what a handler sends. Methods it does not override panic.
type stubContext struct {
	tele.Context

	callback  *tele.Callback
	edits     []string
	sends     []string
	responses []*tele.CallbackResponse
}

func (c *stubContext) Callback() *tele.Callback { return c.callback }
func (c *stubContext) Chat() *tele.Chat         { return &tele.Chat{ID: -100} }

func (c *stubContext) Edit(what interface{}, opts ...interface{}) error {
	c.edits = append(c.edits, what.(string))
	return nil
}

func (c *stubContext) Send(what interface{}, opts ...interface{}) error {
	c.sends = append(c.sends, what.(string))
	return nil
}

func (c *stubContext) Respond(resp ...*tele.CallbackResponse) error {
	c.responses = append(c.responses, resp...)
	return nil
}

func TestGameHandler_Render(t *testing.T) {
	question := round.ShowQuestion{Prompt: "Round 2/20\nBob, is Penne a composer or a pasta?", Menu: round.MenuAnswer}
	feedback := round.ShowAnswerFeedback{Correct: true, Detail: "✅ Correct! Bach is a composer."}
	reject := round.Reject{Reason: round.ReasonNotParticipant}

	tests := []struct {
		name      string
		pressed   bool
		out       []round.Instruction
		wantEdits []string
		wantSends []string
		wantAlert string
	}{
		{
			name:      "press edits first message and sends the rest",
			pressed:   true,
			out:       []round.Instruction{feedback, question},
			wantEdits: []string{feedback.Detail},
			wantSends: []string{question.Prompt},
		},
		{
			name:      "press shows reject as alert",
			pressed:   true,
			out:       []round.Instruction{reject},
			wantAlert: round.ReasonNotParticipant,
		},
		{
			name:      "press with reject then menu edits with the menu",
			pressed:   true,
			out:       []round.Instruction{round.Reject{Reason: round.ReasonInvalidLength}, round.ShowLengthMenu{Players: []string{"Alice"}}},
			wantEdits: []string{round.FormatLengthMessage([]string{"Alice"})},
			wantAlert: round.ReasonInvalidLength,
		},
		{
			name:    "press with nothing to say only answers the callback",
			pressed: true,
			out:     nil,
		},
		{
			name:      "command sends everything including rejects",
			pressed:   false,
			out:       []round.Instruction{reject, question},
			wantSends: []string{round.ReasonNotParticipant, question.Prompt},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &stubContext{}
			if tt.pressed {
				c.callback = &tele.Callback{Data: "cp_answer_PASTA"}
			}

			h := &GameHandler{}
			require.NoError(t, h.render(c, tt.out))

			assert.Equal(t, tt.wantEdits, c.edits)
			assert.Equal(t, tt.wantSends, c.sends)

			if !tt.pressed {
				assert.Empty(t, c.responses)
				return
			}
			require.Len(t, c.responses, 1)
			assert.Equal(t, tt.wantAlert, c.responses[0].Text)
			assert.Equal(t, tt.wantAlert != "", c.responses[0].ShowAlert)
		})
	}
}
