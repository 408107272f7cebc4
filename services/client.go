package services

import (
	"encoding/json"
	"sync"

	"github.com/bellapacxx/bingo-hall/utils/logger"
	"github.com/gorilla/websocket"
)

const sendBufferSize = 64

// Command is the closed set of actions a connected player may send over a
// game socket. Unknown types are rejected, never ignored.
type Command interface {
	commandType() string
}

type StartGameCmd struct{}
type ToggleAutoCallCmd struct{}
type CallNumberCmd struct {
	Number *int
}
type BuyCardCmd struct{}

func (StartGameCmd) commandType() string      { return "start_game" }
func (ToggleAutoCallCmd) commandType() string { return "toggle_auto_call" }
func (CallNumberCmd) commandType() string     { return "call_number" }
func (BuyCardCmd) commandType() string        { return "buy_card" }

type rawCommand struct {
	Type   string `json:"type"`
	Number *int   `json:"number"`
}

func parseCommand(data []byte) (Command, error) {
	var raw rawCommand
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	switch raw.Type {
	case "start_game":
		return StartGameCmd{}, nil
	case "toggle_auto_call":
		return ToggleAutoCallCmd{}, nil
	case "call_number":
		return CallNumberCmd{Number: raw.Number}, nil
	case "buy_card":
		return BuyCardCmd{}, nil
	default:
		return nil, ErrInvalidCommand
	}
}

// Client is one websocket connection. The write pump owns the connection's
// write side; everything else goes through the buffered send channel.
type Client struct {
	conn    *websocket.Conn
	send    chan []byte
	userID  uint
	hub     *Hub
	topics  []string
	session *GameSession // nil on a user-only socket

	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, userID uint, hub *Hub, session *GameSession, topics ...string) *Client {
	c := &Client{
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		userID:  userID,
		hub:     hub,
		topics:  topics,
		session: session,
	}
	for _, t := range topics {
		hub.Subscribe(t, c)
	}
	return c
}

// Close tears the client down exactly once: unsubscribes every topic, stops
// the write pump and closes the connection.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		for _, t := range c.topics {
			c.hub.Unsubscribe(t, c)
		}
		close(c.send)
		c.conn.Close()
	})
}

// enqueue hands a frame to the write pump without blocking. It reports false
// when the buffer is full so the hub can drop the client.
func (c *Client) enqueue(data []byte) (ok bool) {
	defer func() {
		// a concurrent Close may have closed the channel
		if recover() != nil {
			ok = false
		}
	}()
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) sendEvent(ev Event) {
	data, err := marshalEvent(ev)
	if err != nil {
		logger.Errorf("marshal %s event: %v", ev.eventType(), err)
		return
	}
	c.enqueue(data)
}

func (c *Client) readPump() {
	defer c.Close()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warnf("user %d: websocket read: %v", c.userID, err)
			}
			return
		}
		c.handle(data)
	}
}

func (c *Client) writePump() {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			c.Close()
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// handle runs one inbound command against the session. Errors come back to
// this client only, as error events; they never disturb other subscribers.
func (c *Client) handle(data []byte) {
	cmd, err := parseCommand(data)
	if err != nil {
		c.sendEvent(ErrorMessage{Message: UserMessage(ErrInvalidCommand)})
		return
	}
	if c.session == nil {
		c.sendEvent(ErrorMessage{Message: "this channel does not accept commands"})
		return
	}

	switch cmd := cmd.(type) {
	case StartGameCmd:
		err = c.session.Start(c.userID)
	case ToggleAutoCallCmd:
		_, err = c.session.ToggleAutoCall(c.userID)
	case CallNumberCmd:
		if c.userID != c.session.OrganizerID() {
			err = ErrNotOrganizer
			break
		}
		_, err = c.session.CallNumber(cmd.Number)
	case BuyCardCmd:
		_, err = c.session.PurchaseCard(c.userID)
	}
	if err != nil {
		c.sendEvent(ErrorMessage{Message: UserMessage(err)})
	}
}
