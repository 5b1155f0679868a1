package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"sandbox-server/internal/domain"
	"sandbox-server/internal/engine"
	"sandbox-server/pkg/api"
	"sandbox-server/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и GameService.
// Одно соединение - одна сессия: отключение завершает сессию.
type Client struct {
	Game   *engine.GameService
	Conn   *websocket.Conn
	Schema *api.CommandSchema
	Codec  *api.FrameCodec

	Send      chan api.ServerResponse
	SessionID string
	compress  bool

	log *logrus.Entry
}

func NewClient(game *engine.GameService, conn *websocket.Conn, schema *api.CommandSchema, codec *api.FrameCodec) *Client {
	return &Client{
		Game:   game,
		Conn:   conn,
		Schema: schema,
		Codec:  codec,
		Send:   make(chan api.ServerResponse, 256),
		log: logger.Log.WithFields(logrus.Fields{
			"component": "ws_client",
			"remote":    conn.RemoteAddr().String(),
		}),
	}
}

// handshake читает первый кадр. Он обязан быть START.
func (c *Client) handshake() (api.StartPayload, error) {
	var p api.StartPayload

	_, raw, err := c.Conn.ReadMessage()
	if err != nil {
		return p, fmt.Errorf("read handshake: %w", err)
	}

	cmd, err := c.Schema.Decode(raw)
	if err != nil {
		return p, err
	}
	if domain.ParseAction(cmd.Action) != domain.ActionStart {
		return p, fmt.Errorf("first message must be START, got %s", cmd.Action)
	}
	if len(cmd.Payload) > 0 {
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			return p, fmt.Errorf("invalid start payload: %w", err)
		}
	}
	return p, nil
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		if c.SessionID != "" {
			err := c.Game.EndSession(c.SessionID)
			if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
				c.log.WithError(err).Warn("failed to end session on disconnect")
			}
		}
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// 1. HANDSHAKE (START)
	var updates <-chan api.ServerResponse
	start, err := c.handshake()
	if err == nil {
		c.SessionID, updates, err = c.Game.StartSession(start)
	}
	if err != nil {
		c.log.WithError(err).Warn("Handshake failed")
		// writePump еще не запущен, писать можно напрямую
		_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.Conn.WriteJSON(api.ServerResponse{Type: api.MsgError, Error: err.Error()})
		return
	}

	// Поля настраиваются до старта writePump
	c.compress = start.Compress
	c.log = c.log.WithField("session_id", c.SessionID)
	c.log.WithField("compress", c.compress).Info("Client started a session")
	c.startForwarding(updates)

	// 2. ЦИКЛ ЧТЕНИЯ КОМАНД
	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Error("WS Error")
			}
			break
		}

		cmd, err := c.Schema.Decode(raw)
		if err != nil {
			c.log.WithError(err).Debug("Frame rejected")
			c.Game.Hub.SendTo(c.SessionID, api.ServerResponse{
				Type:      api.MsgError,
				SessionID: c.SessionID,
				Error:     err.Error(),
			})
			continue
		}

		// Соединение может управлять только своей сессией
		cmd.Token = c.SessionID
		if err := c.Game.ProcessCommand(cmd); err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				break
			}
			c.Game.Hub.SendTo(c.SessionID, api.ServerResponse{
				Type:      api.MsgError,
				SessionID: c.SessionID,
				Error:     err.Error(),
			})
		}
	}
}

// startForwarding пересылает снимки из Hub в writePump и запускает его
func (c *Client) startForwarding(updates <-chan api.ServerResponse) {
	go func() {
		for msg := range updates {
			c.Send <- msg
		}
		close(c.Send)
	}()
	go c.writePump()
}

// writeMessage пишет снимок текстом (JSON) или бинарным zstd-кадром
func (c *Client) writeMessage(msg api.ServerResponse) error {
	if !c.compress {
		return c.Conn.WriteJSON(msg)
	}
	frame, err := c.Codec.Encode(msg)
	if err != nil {
		return err
	}
	return c.Conn.WriteMessage(websocket.BinaryMessage, frame)
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.writeMessage(message); err != nil {
				c.log.WithError(err).Debug("write message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
