package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSet    Action = "set"
	ActionSubmit Action = "submit"
	ActionReset  Action = "reset"
	ActionPing   Action = "ping"
)

// Request is a message sent by the client while filling in a marksheet.
// Key and Value are only used by ActionSet.
type Request struct {
	Action Action `json:"action"`
	Key    string `json:"key,omitempty"`
	Value  string `json:"value"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventState     Event = "state"
	EventInvalid   Event = "invalid"
	EventSubmitted Event = "submitted"
	EventError     Event = "error"
	EventPong      Event = "pong"
)

// Message is the envelope of every server event.
type Message struct {
	Event Event `json:"event"`
	Data  any   `json:"data,omitempty"`
}

// StateData is the current content of a draft and its running tally.
type StateData struct {
	DraftID string            `json:"draftId"`
	Values  map[string]string `json:"values"`
	Tally   any               `json:"tally"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// InvalidData lists the values that blocked a submission.
type InvalidData struct {
	Fields map[string]string `json:"fields"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
