package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"Blackjack/config"
	"Blackjack/internal/announce"
	"Blackjack/internal/command"
	"Blackjack/internal/game/manager"
	"Blackjack/internal/game/rules"
	"Blackjack/internal/ui"
	"Blackjack/internal/utils"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
)

// terminal prints announcements straight to stdout; there is only one player.
type terminal struct{}

func (terminal) Broadcast(message string)  { fmt.Println(ui.Legacy(message)) }
func (terminal) Whisper(_, message string) { fmt.Println(ui.Legacy(message)) }

func main() {
	path := pflag.StringP("config", "c", config.DefaultPath, "path to config.yaml")
	name := pflag.StringP("name", "n", "", "player name (random if empty)")
	seed := pflag.Int64("seed", 0, "seed for a replayable run of rounds (0 for time based)")
	pflag.Parse()

	cfg, err := config.Load(*path)
	utils.Init(cfg.Log.Level)
	if err != nil {
		utils.Log.Debug("failed to load config, using defaults", "err", err)
	}
	ruleset, err := cfg.Gameplay.Rules()
	if err != nil {
		utils.Log.Warn("invalid gameplay config, using defaults", "err", err)
		ruleset = rules.DefaultConfig()
	}

	games, err := manager.NewGameManager(ruleset)
	if err != nil {
		utils.Log.Fatal("game manager init failed", "err", err)
	}
	if *seed != 0 {
		games.Seed(*seed)
	}

	player := *name
	if player == "" {
		player = "player-" + uuid.NewString()[:8]
	}
	d := command.NewDispatcher(games, announce.New(cfg.Announcements, terminal{}))

	if cfg.JoinMessage.Enabled {
		for _, m := range cfg.JoinMessage.Messages {
			fmt.Println(ui.Legacy(m))
		}
	}
	fmt.Println()

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("/bj> ")
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())
		line = strings.TrimSpace(strings.TrimPrefix(line, "/bj"))

		switch {
		case line == "quit" || line == "exit":
			return
		case strings.HasSuffix(line, "?"):
			// "ins?" or "insurance ?" lists completions
			args := strings.Fields(strings.TrimSuffix(line, "?"))
			if len(args) == 0 || strings.HasSuffix(line, " ?") {
				args = append(args, "")
			}
			fmt.Println(strings.Join(command.Complete(args), "  "))
			continue
		}

		reply := d.Execute(player, strings.Fields(line))
		fmt.Println(reply.Text())
	}
}
