package http

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/datamining-co/minai/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is handled at the HTTP layer; the browser terminal connects
	// from arbitrary origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ChatSocket runs a websocket chat loop: one TurnRequest frame in, one
// TurnResult frame out. The connection is closed on the first read or
// write failure.
// GET /ws
func (h *Handler) ChatSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	remote := c.RealIP()
	ctx := c.Request().Context()

	for {
		var req domain.TurnRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WARN: websocket read error from %s: %v", remote, err)
			}
			return nil
		}

		if req.UserID == "" {
			req.UserID = remote
		}

		result := h.service.SubmitTurn(ctx, req)

		if err := conn.WriteJSON(result); err != nil {
			log.Printf("WARN: websocket write error to %s: %v", remote, err)
			return nil
		}
	}
}
