package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// WebSocket timeout constants following Gorilla best practices
// See: https://github.com/gorilla/websocket/blob/master/examples/chat/client.go
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 16 * 1024

	// Outbound message buffer per client
	sendBuffer = 32
)

// Exchange is one turn of the chat history
type Exchange struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// inboundMessage is a message sent by the browser
type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// outboundMessage is a message sent to the browser
type outboundMessage struct {
	Type    string     `json:"type"`
	Answer  string     `json:"answer,omitempty"`
	Error   string     `json:"error,omitempty"`
	History []Exchange `json:"history,omitempty"`
}

// Client is one websocket chat session. History lives with the
// connection and dies with it.
type Client struct {
	server    *ChatServer
	conn      *websocket.Conn
	send      chan outboundMessage
	id        string
	limiter   *rate.Limiter
	history   []Exchange
	closeOnce sync.Once
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// readPump reads messages from the websocket connection until it
// closes, dispatching each to routeMessage.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.ctx.Done():
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	c.server.logger.Debugw("Read pump started", "client_id", c.id)

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			c.handleReadError(err)
			break
		}

		var msg inboundMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			c.server.logger.Warnw("JSON unmarshal error",
				"error", err.Error(),
				"client_id", c.id,
			)
			continue
		}

		c.routeMessage(&msg)
	}
}

// handleReadError logs unexpected websocket read errors. Expected
// closure codes (going away, abnormal, no status) are silently ignored.
func (c *Client) handleReadError(err error) {
	if websocket.IsUnexpectedCloseError(err,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
		websocket.CloseNoStatusReceived,
	) {
		c.server.logger.Warnw("WebSocket read error",
			"error", err.Error(),
			"client_id", c.id,
		)
	}
}

// routeMessage dispatches one inbound message
func (c *Client) routeMessage(msg *inboundMessage) {
	switch msg.Type {
	case "ask":
		c.handleAsk(msg.Text)
	case "history":
		c.enqueue(outboundMessage{Type: "history", History: c.history})
	case "clear":
		c.history = nil
		c.enqueue(outboundMessage{Type: "history"})
	case "ping":
		// Deadline refresh is handled by the pong handler
	default:
		c.server.logger.Debugw("Unknown message type",
			"type", msg.Type,
			"client_id", c.id,
		)
	}
}

// handleAsk answers one chat question, recording both turns in the
// session history. Questions beyond the rate limit are rejected
// without touching the pipeline.
func (c *Client) handleAsk(text string) {
	if !c.limiter.Allow() {
		c.server.logger.Warnw("Client rate limited", "client_id", c.id)
		c.enqueue(outboundMessage{
			Type:  "error",
			Error: "You're sending messages too quickly. Please wait a moment and try again.",
		})
		return
	}

	answerText := c.server.Answer(c.server.ctx, text)

	c.history = append(c.history,
		Exchange{Role: "user", Content: text},
		Exchange{Role: "assistant", Content: answerText},
	)
	c.enqueue(outboundMessage{Type: "answer", Answer: answerText})
}

// enqueue queues a message for the write pump, dropping it when the
// client cannot keep up.
func (c *Client) enqueue(msg outboundMessage) {
	select {
	case c.send <- msg:
	default:
		c.server.logger.Warnw("Client send buffer full, dropping message",
			"client_id", c.id,
			"type", msg.Type,
		)
	}
}

// writePump writes queued messages and keepalive pings to the
// websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	c.server.logger.Debugw("Write pump started", "client_id", c.id)

	for {
		select {
		case <-c.server.ctx.Done():
			c.server.logger.Debugw("Write pump stopping due to server shutdown", "client_id", c.id)
			return
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.server.logger.Warnw("WebSocket write error",
					"error", err.Error(),
					"client_id", c.id,
				)
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
