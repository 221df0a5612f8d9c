package game

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	pongWait      = 60 * time.Second
	pingInterval  = 10 * time.Second
	writeWait     = 10 * time.Second
	maxMessageLen = 1024
)

// Client is one connected websocket session. Outgoing messages go through a
// buffered channel so the tick loop never blocks on a slow connection.
type Client struct {
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	room      *Room
}

func newClient(conn *websocket.Conn, sessionID string, room *Room) *Client {
	return &Client{
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
		room:      room,
	}
}

// trySend queues a frame without blocking. A full buffer drops the frame;
// snapshots are periodic so the client catches up on the next one.
func (c *Client) trySend(data []byte) {
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) sendJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("client %s: marshal: %v", c.sessionID, err)
		return
	}
	c.trySend(data)
}

// readPump reads messages until the connection drops, then releases the
// entity slot back to bot control.
func (c *Client) readPump() {
	defer func() {
		c.room.mu.Lock()
		c.room.detach(c)
		c.room.mu.Unlock()
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageLen)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("client %s: read error: %v", c.sessionID, err)
			}
			return
		}
		c.room.HandleInput(c.sessionID, message)
	}
}

// writePump drains the send channel and keeps the connection alive with
// periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
