package main

import (
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"api/ai"
	"api/config"
	"api/crypto"
	"api/game"
	"api/shared/logger"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Authorization",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Debug {
		logger.SetDebug()
	}

	// Dependencies
	sessionMaxAge := time.Hour * 24
	tokenManager := crypto.NewJWTManager(cfg.JWTKey, sessionMaxAge)

	var generator ai.Generator
	if cfg.AIEndpoint != "" {
		generator = ai.NewHTTPGenerator(cfg.AIEndpoint, cfg.AITimeout)
	} else {
		logger.Warning("No AI endpoint configured, serving canned answers")
		generator = ai.CannedGenerator{}
	}

	idGen := game.NewIdGen()
	tickerGen := game.NewTickerGen()
	lobby := game.NewLobby(idGen, tickerGen, func() game.Room {
		return game.NewRoom(generator, game.NewRandomizer())
	})

	lobbyStarted := make(chan struct{})
	go lobby.LobbyActor(lobbyStarted)
	<-lobbyStarted

	gameHandler := game.NewGameHandler(lobby, tokenManager, sessionMaxAge)

	r := CreateServer(cfg.AllowedOrigins)
	r.POST("/session", gameHandler.CreateSessionHandler)
	r.GET("/play", gameHandler.PlayHandler)
	r.GET("/games", gameHandler.GetPublicGamesHandler)

	logger.Infof("Listening on %s", cfg.ListenAddr)
	r.Run(cfg.ListenAddr)
}
