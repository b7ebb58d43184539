package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /ws, behind the JWT middleware which sets "address".
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr := c.GetString("address")
		if addr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing address"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		client := &Client{
			Address: addr,
			Conn:    conn,
			Send:    make(chan OutgoingMessage, 32),
			Hub:     hub,
		}

		if !hub.registerClient(client) {
			_ = conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}
