package announce

import "Blackjack/internal/websocket"

// Hub is the part of the websocket hub announcements go through.
type Hub interface {
	BroadcastAll(msg websocket.OutgoingMessage)
	SendToPlayer(addr string, msg websocket.OutgoingMessage)
}

// Message is the payload of an "announcement" websocket event.
type Message struct {
	Raw  string `json:"raw"`
	Text string `json:"text"`
}

// HubSink pushes announcements to websocket clients.
type HubSink struct {
	hub Hub
}

func NewHubSink(hub Hub) *HubSink {
	return &HubSink{hub: hub}
}

func (s *HubSink) Broadcast(message string) {
	s.hub.BroadcastAll(outgoing(message))
}

func (s *HubSink) Whisper(playerID, message string) {
	s.hub.SendToPlayer(playerID, outgoing(message))
}

func outgoing(message string) websocket.OutgoingMessage {
	return websocket.OutgoingMessage{
		Event: websocket.EventAnnouncement,
		Data:  Message{Raw: message, Text: Plain(message)},
	}
}
