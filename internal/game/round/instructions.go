package round

// Menu identifies the inline menu attached to a message.
type Menu int

// Menus.
const (
	MenuNone Menu = iota
	MenuInvite
	MenuLength
	MenuAnswer
)

// Instruction is an outbound message for the chat.
type Instruction interface {
	instruction()
}

// ShowInviteMenu shows the Join/Start menu with the players joined so far.
type ShowInviteMenu struct {
	Players []string
}

// ShowLengthMenu asks for the game length.
type ShowLengthMenu struct {
	Players []string
}

// ShowQuestion asks the current player about a name.
type ShowQuestion struct {
	Prompt string
	Menu   Menu
}

// ShowAnswerFeedback tells the room whether the last answer was right.
type ShowAnswerFeedback struct {
	Correct bool
	Detail  string
}

// SummaryLine is one player's result in the game over summary.
type SummaryLine struct {
	PlayerID     int64
	Name         string
	Score        int
	NewHighScore bool
}

// ShowGameOverSummary lists every player's score, in join order.
type ShowGameOverSummary struct {
	Lines []SummaryLine
}

// ShowCancelled announces that the game was cancelled.
type ShowCancelled struct {
	By string
}

// Reject explains why an event was refused.
type Reject struct {
	Reason string
}

func (ShowInviteMenu) instruction()      {}
func (ShowLengthMenu) instruction()      {}
func (ShowQuestion) instruction()        {}
func (ShowAnswerFeedback) instruction()  {}
func (ShowGameOverSummary) instruction() {}
func (ShowCancelled) instruction()       {}
func (Reject) instruction()              {}
