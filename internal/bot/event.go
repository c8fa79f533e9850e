package bot

// EventKind tags the inbound transport event variants the router dispatches.
type EventKind int

const (
	// EventCommand is a slash command typed into the chat.
	EventCommand EventKind = iota
	// EventCallback is an inline-button press on an earlier message.
	EventCallback
)

// Event is the transport-neutral inbound event handed to Dispatch.
type Event struct {
	Kind      EventKind
	ChatID    int64
	SenderID  int64
	MessageID int

	// Command fields.
	Command string
	Args    []string

	// Callback fields.
	CallbackID   string
	CallbackData string
}

// OutcomeKind tags the terminal state of one dispatched event.
type OutcomeKind int

const (
	// OutcomeRendered means the event produced its intended rendering.
	OutcomeRendered OutcomeKind = iota
	// OutcomeRejected means the event was refused (authorization, bad
	// input, unknown command) without side effects beyond the notice.
	OutcomeRejected
	// OutcomeErrored means a collaborator failed and the failure was
	// rendered to the operator.
	OutcomeErrored
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRendered:
		return "rendered"
	case OutcomeRejected:
		return "rejected"
	case OutcomeErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of Dispatch; Detail is a short diagnostic
// for logs and tests, never user-facing text.
type Outcome struct {
	Kind   OutcomeKind
	Detail string
}
