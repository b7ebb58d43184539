package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Blackjack/config"
	"Blackjack/internal/announce"
	"Blackjack/internal/auth"
	"Blackjack/internal/command"
	"Blackjack/internal/game/manager"
	"Blackjack/internal/game/rules"
	"Blackjack/internal/middleware"
	"Blackjack/internal/storage"
	"Blackjack/internal/utils"
	"Blackjack/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
)

func main() {
	defaultPath := config.DefaultPath
	if p := os.Getenv("BJ_CONFIG"); p != "" {
		defaultPath = p
	}
	path := pflag.StringP("config", "c", defaultPath, "path to config.yaml")
	pflag.Parse()

	cfg, err := config.Load(*path)
	utils.Init(cfg.Log.Level)
	if err != nil {
		utils.Log.Warn("failed to load config, using defaults", "err", err)
	}

	ruleset, err := cfg.Gameplay.Rules()
	if err != nil {
		utils.Log.Warn("invalid gameplay config, using defaults", "err", err)
		ruleset = rules.DefaultConfig()
	}
	logRules(ruleset)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//-------------------------------------------------------
	// 1. Hub
	//-------------------------------------------------------
	hub := websocket.NewHub()
	go hub.Run()

	//-------------------------------------------------------
	// 2. Announcements, relayed through Redis when enabled
	//-------------------------------------------------------
	var sink announce.Sink = announce.NewHubSink(hub)
	if cfg.Redis.Enabled {
		rdb, err := storage.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			utils.Log.Fatal("redis init failed", "err", err)
		}
		defer rdb.Close()

		relay := announce.NewRedisRelay(rdb, cfg.Redis.Channel, sink)
		if err := relay.Start(ctx); err != nil {
			utils.Log.Fatal("redis subscribe failed", "err", err)
		}
		sink = relay
		utils.Log.Info("announcement relay enabled", "addr", cfg.Redis.Addr, "channel", cfg.Redis.Channel)
	}

	//-------------------------------------------------------
	// 3. Games and commands
	//-------------------------------------------------------
	games, err := manager.NewGameManager(ruleset)
	if err != nil {
		utils.Log.Fatal("game manager init failed", "err", err)
	}
	dispatcher := command.NewDispatcher(games, announce.New(cfg.Announcements, sink))

	hub.OnIncoming = func(m websocket.IncomingMessage) {
		dispatcher.HandleMessage(hub, m)
	}
	hub.OnRegister = announce.Welcome(cfg.JoinMessage, hub)

	//-------------------------------------------------------
	// 4. HTTP
	//-------------------------------------------------------
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "activeGames": games.ActiveGameCount()})
	})

	authGroup := r.Group("/auth")
	{
		h := auth.NewHandler(cfg.JWT.Secret)
		authGroup.GET("/nonce", h.Nonce)
		authGroup.POST("/nonce", h.Nonce)
		authGroup.POST("/login", h.Login)
	}

	secret := []byte(cfg.JWT.Secret)
	private := r.Group("/", middleware.JwtAuthMiddleware(secret))
	{
		private.GET("/ws", websocket.ServeWS(hub))

		bj := command.NewHandler(dispatcher)
		private.GET("/bj/complete", bj.Complete)
		private.POST("/bj/:action", bj.Action)
	}

	//-------------------------------------------------------
	// 5. Serve until signalled
	//-------------------------------------------------------
	srv := &http.Server{Addr: cfg.Server.Port, Handler: r}
	go func() {
		utils.Log.Info("server running", "addr", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Log.Fatal("server failed", "err", err)
		}
	}()

	<-ctx.Done()
	utils.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Log.Error("shutdown", "err", err)
	}
	hub.Close()
}

func logRules(c rules.Config) {
	utils.Log.Info("game configuration loaded",
		"decks", c.NumberOfDecks,
		"standsOnSoft17", c.DealerStandsOnSoft17,
		"blackjackPayout", c.BlackjackPayout,
		"payoutRatio", c.BlackjackPayoutLabel(),
		"doubleDown", c.AllowDoubleDown,
		"doubleOn", c.DoubleDownOn,
		"split", c.AllowSplit,
		"maxHands", c.MaxSplitHands,
		"surrender", c.SurrenderType,
		"insurance", c.AllowInsurance,
	)
}
