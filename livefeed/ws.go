package livefeed

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"mozakra/db"
	"mozakra/middleware"
	"mozakra/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// WebSocketHandler upgrades a dashboard connection, replays the currently
// open sessions so the screen starts in sync, then streams every session
// event until the client goes away. Browsers cannot set an Authorization
// header on a websocket, so the token also rides a query parameter.
func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		tokenString := r.Header.Get("Authorization")
		if tokenString == "" {
			tokenString = "Bearer " + r.URL.Query().Get("token")
		}
		claims, err := middleware.ValidateJWT(tokenString)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}

		client := &Client{
			Send:   make(chan []byte, 256),
			UserID: claims.UserID,
		}

		// queue the replay before registering so the snapshot always
		// precedes live broadcasts
		replayActiveSessions(client)

		hub.register <- client
		go writePump(client, conn)
		go readPump(client, conn, hub)
	}
}

// replayActiveSessions buffers the open sessions, oldest first, onto the
// client's send queue.
func replayActiveSessions(c *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})
	cur, err := db.SessionsCollection.Find(ctx, bson.M{"finished": false}, opts)
	if err != nil {
		log.Println("active session replay:", err)
		return
	}
	defer cur.Close(ctx)

	var active []models.Session
	if err := cur.All(ctx, &active); err != nil {
		log.Println("active session decode:", err)
		return
	}
	for i := range active {
		event := models.SessionEvent{Action: "created", Session: &active[i]}
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		select {
		case c.Send <- data:
		default:
			return
		}
	}
}

func writePump(c *Client, conn *websocket.Conn) {
	defer conn.Close()
	for msg := range c.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// readPump discards client input; the feed is one-way. Reading is still
// required to notice disconnects.
func readPump(c *Client, conn *websocket.Conn, hub *Hub) {
	defer func() {
		hub.unregister <- c
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
