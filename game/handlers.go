package game

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"strike-server/config"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleConnections upgrades a websocket request, assigns the session an
// entity slot and starts the read/write pumps. Clients that find no free
// slot stay connected as spectators and keep receiving snapshots.
func (r *Room) HandleConnections(w http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Printf("room %s: upgrade error: %v", r.id, err)
		return
	}

	sessionID := uuid.New().String()
	name := req.URL.Query().Get("name")
	if name == "" {
		name = "player-" + sessionID[:8]
	}

	client := newClient(conn, sessionID, r)

	r.mu.Lock()
	entity := r.Join(sessionID, name)
	r.attach(client)
	r.mu.Unlock()

	welcome := WelcomeMessage{
		Type:     "welcome",
		EntityID: -1,
		TickRate: config.TickRate,
		MapName:  r.def.Name,
	}
	if entity != nil {
		welcome.EntityID = entity.ID
		welcome.Team = entity.Team
	}
	client.sendJSON(welcome)

	go client.writePump()
	go client.readPump()
}
