package handlers

import (
	"log"
	"net/http"

	"garment_tracker/internal/middleware"
	"garment_tracker/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Serve upgrades the request and hands the connection to the hub. The JWT
// middleware already ran, so the actor is known.
func (h *WSHandler) Serve(c *gin.Context) {
	actor := middleware.GetActor(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}

	h.hub.Register(conn, actor.ID)
}
