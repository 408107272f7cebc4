package services

import (
	"net/http"
	"strconv"

	"github.com/bellapacxx/bingo-hall/utils/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleGameSocket attaches a player to a game's event stream and accepts
// their commands. The connecting user also gets their private topic so win
// notifications reach them on the same socket.
func HandleGameSocket(c *gin.Context) {
	gameID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}
	userID, err := strconv.ParseUint(c.Query("user"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user query parameter required"})
		return
	}

	session, err := Sessions.GetOrCreate(uint(gameID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("websocket upgrade: %v", err)
		return
	}

	client := newClient(conn, uint(userID), Bus, session,
		GameTopic(uint(gameID)), UserTopic(uint(userID)))
	go client.writePump()

	// current state first, so a reconnecting player catches up immediately
	client.sendEvent(session.Status())

	client.readPump()
}

// HandleUserSocket serves the private notification stream alone, for users
// browsing outside any particular game.
func HandleUserSocket(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user query parameter required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("websocket upgrade: %v", err)
		return
	}

	client := newClient(conn, uint(userID), Bus, nil, UserTopic(uint(userID)))
	go client.writePump()
	client.readPump()
}
