package game

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"api/crypto"
	"api/shared/logger"
)

var (
	ErrMissingTokenStr          = "missing-token"
	ErrExpiredTokenStr          = "expired-token"
	ErrBadTokenStr              = "bad-token"
	ErrInvalidRequestFormatStr  = "bad-request-format"
	ErrInvalidUsernameFormatStr = "invalid-username-format"
	ErrUnknownStr               = "unknown-error"
)

const maxUsernameLength = 24

type GameLobby interface {
	JoinGame(ctx context.Context, p Player) error
	GetPublicGames(ctx context.Context) []roomDescription
}

type SessionIssuer interface {
	Generate(session crypto.Session, now time.Time) (string, error)
	Verify(tokenString string) (crypto.Session, error)
}

type GameHandler struct {
	lobby         GameLobby
	tokens        SessionIssuer
	sessionMaxAge time.Duration
}

func NewGameHandler(lobby GameLobby, tokens SessionIssuer, sessionMaxAge time.Duration) *GameHandler {
	return &GameHandler{lobby: lobby, tokens: tokens, sessionMaxAge: sessionMaxAge}
}

// CreateSessionHandler issues a guest session for a display name. No account,
// the cookie is the whole identity.
func (h *GameHandler) CreateSessionHandler(ctx *gin.Context) {
	var body struct {
		Username string `json:"username"`
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.String(http.StatusBadRequest, ErrInvalidRequestFormatStr)
		ctx.Abort()
		return
	}

	username := strings.TrimSpace(body.Username)
	if username == "" || utf8.RuneCountInString(username) > maxUsernameLength {
		ctx.String(http.StatusBadRequest, ErrInvalidUsernameFormatStr)
		ctx.Abort()
		return
	}

	session := crypto.Session{Id: uuid.NewString(), Name: username}
	token, err := h.tokens.Generate(session, time.Now())
	if err != nil {
		logger.Criticalf("Failed to generate session token: %v", err)
		ctx.String(http.StatusInternalServerError, ErrUnknownStr)
		ctx.Abort()
		return
	}

	ctx.SetCookie("token", token, int(h.sessionMaxAge.Seconds()), "/", "", true, true)
	ctx.SetSameSite(http.SameSiteNoneMode)
	ctx.JSON(http.StatusCreated, gin.H{"id": session.Id, "username": session.Name})
}

// PlayHandler upgrades the connection and hands the player to matchmaking.
func (h *GameHandler) PlayHandler(ctx *gin.Context) {
	token, err := ctx.Cookie("token")
	if err != nil {
		ctx.String(http.StatusUnauthorized, ErrMissingTokenStr)
		ctx.Abort()
		return
	}

	session, err := h.tokens.Verify(token)
	if err != nil {
		switch {
		case errors.Is(err, crypto.ErrExpiredToken):
			ctx.String(http.StatusUnauthorized, ErrExpiredTokenStr)
		default:
			ctx.String(http.StatusUnauthorized, ErrBadTokenStr)
		}
		ctx.Abort()
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// Origins are vetted by the server-wide middleware before this runs.
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		logger.Warningf("WS upgrade failed for %s: %v", session.Name, err)
		return
	}

	socket := NewWebsocketConnection(conn)
	p := NewPlayer(session.Id, session.Name, socket)

	joinCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if err := h.lobby.JoinGame(joinCtx, p); err != nil {
		logger.Warningf("Matchmaking failed for %s: %v", session.Name, err)
		socket.Close("matchmaking-failed")
		return
	}

	go p.ReadPump()
	go p.WritePump()
}

type gameListing struct {
	Id           string `json:"id"`
	PlayersCount int    `json:"playersCount"`
	MaxPlayers   int    `json:"maxPlayers"`
	Status       string `json:"status"`
}

func (h *GameHandler) GetPublicGamesHandler(ctx *gin.Context) {
	descriptions := h.lobby.GetPublicGames(ctx.Request.Context())

	listings := make([]gameListing, 0, len(descriptions))
	for _, d := range descriptions {
		listings = append(listings, gameListing{
			Id:           d.id,
			PlayersCount: d.playersCount,
			MaxPlayers:   d.maxPlayers,
			Status:       d.status.String(),
		})
	}
	ctx.JSON(http.StatusOK, gin.H{"games": listings})
}
