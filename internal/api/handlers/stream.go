package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"rangeland-forage/internal/api/models"
	"rangeland-forage/internal/sim"
)

// StreamHandler runs a simulation over a WebSocket, pushing each step's
// summary record to the client as it is produced.
type StreamHandler struct {
	upgrader websocket.Upgrader
}

func NewStreamHandler() *StreamHandler {
	return &StreamHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// streamMessage is one WebSocket frame: either a step record or the
// terminal status.
type streamMessage struct {
	Type   string          `json:"type"` // "record", "done" or "error"
	Record *sim.StepRecord `json:"record,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Watch handles GET /api/v1/simulate/watch. The client sends one
// SimulateRequest as the first message, then receives records until the
// run finishes or fails.
func (h *StreamHandler) Watch(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("StreamHandler: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var req models.SimulateRequest
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteJSON(streamMessage{Type: "error", Error: "invalid request: " + err.Error()})
		return
	}

	// Steps are strictly sequential, so writing from the observer cannot
	// interleave frames.
	var writeErr error
	orch, err := buildRun(req, func(record sim.StepRecord) {
		if writeErr == nil {
			writeErr = conn.WriteJSON(streamMessage{Type: "record", Record: &record})
		}
	})
	if err != nil {
		conn.WriteJSON(streamMessage{Type: "error", Error: err.Error()})
		return
	}

	if _, err := orch.Run(c.Request.Context()); err != nil {
		conn.WriteJSON(streamMessage{Type: "error", Error: err.Error()})
		return
	}
	if writeErr != nil {
		log.Printf("StreamHandler: client write failed: %v", writeErr)
		return
	}
	conn.WriteJSON(streamMessage{Type: "done"})
}
