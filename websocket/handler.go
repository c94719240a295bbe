package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades the connection for an already-authenticated
// employee. The JWT middleware runs before this handler, so identity
// and role come from the verified claims.
func HandleWebSocket(c echo.Context, hub *Hub, employeeID primitive.ObjectID, role string) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		EmployeeID: employeeID,
		Role:       role,
		Conn:       conn,
	}

	hub.register <- client

	conn.WriteJSON(Event{
		Type:       "connected",
		Message:    "WebSocket connection established",
		EmployeeID: employeeID.Hex(),
	})

	// Drain the connection until the client goes away.
	go func() {
		defer func() {
			hub.unregister <- client
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()

	return nil
}
