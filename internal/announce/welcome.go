package announce

import "Blackjack/internal/websocket"

type JoinConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Messages []string `mapstructure:"messages"`
}

func DefaultJoinConfig() JoinConfig {
	return JoinConfig{
		Enabled: true,
		Messages: []string{
			"&6&lBlackjack &eis available on this server!",
			"&7Type &e/bj &7to deal a hand, or &e/bj help &7for commands.",
		},
	}
}

// Welcome returns a hub register hook that greets each new connection.
// It returns nil when there is nothing to send.
func Welcome(cfg JoinConfig, hub Hub) func(addr string) {
	if !cfg.Enabled || len(cfg.Messages) == 0 {
		return nil
	}
	return func(addr string) {
		lines := make([]Message, 0, len(cfg.Messages))
		for _, m := range cfg.Messages {
			lines = append(lines, Message{Raw: m, Text: Plain(m)})
		}
		hub.SendToPlayer(addr, websocket.OutgoingMessage{
			Event: websocket.EventWelcome,
			Data:  lines,
		})
	}
}
