package command

import (
	"fmt"
	"net/http"
	"strings"

	"Blackjack/internal/utils"
	"Blackjack/internal/websocket"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	d *Dispatcher
}

func NewHandler(d *Dispatcher) *Handler {
	return &Handler{d: d}
}

type ActionRequest struct {
	Args []string `json:"args"`
}

// POST /bj/:action  body (optional): {args}
func (h *Handler) Action(c *gin.Context) {
	player := c.GetString("address")
	if player == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing address"})
		return
	}

	var req ActionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	args := append([]string{c.Param("action")}, req.Args...)
	reply := h.d.Execute(player, args)
	if reply.Error != "" {
		c.JSON(http.StatusBadRequest, reply)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// GET /bj/complete?line=insurance%20y
func (h *Handler) Complete(c *gin.Context) {
	line := c.Query("line")
	args := strings.Fields(line)
	if line == "" || strings.HasSuffix(line, " ") {
		args = append(args, "")
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": Complete(args)})
}

// Sender is the part of the hub command replies go back through.
type Sender interface {
	SendToPlayer(addr string, msg websocket.OutgoingMessage)
}

// HandleMessage runs a "command" event from a websocket client and sends
// the reply back to that client.
func (d *Dispatcher) HandleMessage(out Sender, m websocket.IncomingMessage) {
	if m.Event != websocket.EventCommand {
		out.SendToPlayer(m.From, websocket.OutgoingMessage{
			Event: websocket.EventError,
			Data:  errorReply(fmt.Sprintf("unsupported event %q", m.Event)),
		})
		return
	}

	args, ok := commandArgs(m.Data)
	if !ok {
		out.SendToPlayer(m.From, websocket.OutgoingMessage{
			Event: websocket.EventError,
			Data:  errorReply("malformed command"),
		})
		return
	}

	reply := d.Execute(m.From, args)
	event := websocket.EventGame
	if reply.Error != "" {
		event = websocket.EventError
	}
	out.SendToPlayer(m.From, websocket.OutgoingMessage{Event: event, Data: reply})
}

// commandArgs accepts "hit", ["insurance","yes"] or {"args": [...]}.
func commandArgs(data interface{}) ([]string, bool) {
	switch v := data.(type) {
	case string:
		return strings.Fields(v), true
	case []interface{}:
		args := make([]string, 0, len(v))
		for _, a := range v {
			args = append(args, fmt.Sprint(a))
		}
		return args, true
	case map[string]interface{}:
		return commandArgs(v["args"])
	case nil:
		return nil, true
	}
	utils.Log.Warn("unrecognised command payload", "type", fmt.Sprintf("%T", data))
	return nil, false
}
