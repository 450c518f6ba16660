package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vplay-cli/vplay/log"
	"github.com/vplay-cli/vplay/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// inbound is a command sent by a websocket client.
type inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type wsHandlerFunc func(ctx context.Context, payload json.RawMessage) error

func (s *Server) wsRoutes() map[string]wsHandlerFunc {
	return map[string]wsHandlerFunc{
		"key": func(ctx context.Context, payload json.RawMessage) error {
			var name string
			if err := json.Unmarshal(payload, &name); err != nil {
				return fmt.Errorf("key payload must be a string: %w", err)
			}
			return s.host.Do(ctx, func(c *session.Controller) error { return c.HandleKey(name) })
		},
		"action": func(ctx context.Context, payload json.RawMessage) error {
			var action session.Action
			if err := json.Unmarshal(payload, &action); err != nil {
				return fmt.Errorf("action payload must be a string: %w", err)
			}
			return s.host.Do(ctx, func(c *session.Controller) error { return c.Dispatch(action) })
		},
		"seek": func(ctx context.Context, payload json.RawMessage) error {
			var req seekRequest
			if err := json.Unmarshal(payload, &req); err != nil {
				return fmt.Errorf("seek payload: %w", err)
			}
			if violations, ok := s.validate.Validate(req); !ok {
				return fmt.Errorf("%s", violations[0].Message)
			}
			return s.host.Do(ctx, func(c *session.Controller) error { return c.Seek(*req.Position) })
		},
	}
}

// serveWS streams every surface update to the client and accepts commands
// in the same {type, payload} shape.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("websocket upgrade: %s", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := s.hub.subscribe()
	defer s.hub.unsubscribe(c)

	status, err := s.host.Status(ctx)
	if err != nil {
		_ = conn.Close()
		return
	}
	s.hub.send(c, Event{Type: EventStatus, Payload: status})

	go s.readPump(ctx, cancel, conn, c)
	s.writePump(ctx, conn, c)
}

func (s *Server) writePump(ctx context.Context, conn *websocket.Conn, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case ev, ok := <-c.events:
			if !ok {
				// dropped for falling behind
				_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too slow"), time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (s *Server) readPump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, c *client) {
	defer cancel()

	routes := s.wsRoutes()

	conn.SetReadLimit(maxJSONBody)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg inbound
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debugf("websocket read: %s", err)
			}
			return
		}

		handler, ok := routes[msg.Type]
		if !ok {
			s.hub.send(c, Event{Type: EventError, Payload: map[string]string{"error": "unknown message type"}})
			continue
		}

		if err := handler(ctx, msg.Payload); err != nil {
			s.hub.send(c, Event{Type: EventError, Payload: map[string]string{"error": err.Error()}})
		}
	}
}
