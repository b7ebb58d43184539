package websocket

// Outgoing event names.
const (
	EventWelcome      = "welcome"
	EventGame         = "game"
	EventAnnouncement = "announcement"
	EventError        = "error"
)

// EventCommand is the incoming event carrying a /bj command line.
const EventCommand = "command"

type OutgoingMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type IncomingMessage struct {
	From  string      `json:"from"`
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}
