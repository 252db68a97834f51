package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ByLCY/manosaba/bot"
	"github.com/ByLCY/manosaba/logging"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// wsConn 串行化对同一连接的写操作。
type wsConn struct {
	conn      *websocket.Conn
	sessionID string
	log       *zap.Logger
	mu        sync.Mutex
}

func (c *wsConn) send(msgType string, data interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	msg := outgoingMessage{
		Type:      msgType,
		SessionID: c.sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		c.log.Warn("websocket write failed", zap.Error(err))
	}
}

func (c *wsConn) sendReply(reply bot.Reply) {
	switch reply.Kind {
	case bot.ReplyImage:
		c.send("image", map[string]any{"mime": "image/png", "image": reply.Image})
	default:
		c.send("text", map[string]string{"text": reply.Text})
	}
}

func (c *wsConn) sendError(message string) {
	c.send("error", map[string]string{"message": message})
}

// handleWebSocket 处理 WebSocket 连接，每条文字消息交给机器人处理。
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithCancel(logging.WithSession(r.Context(), sessionID))
	defer cancel()
	log := logging.WithCtx(ctx).With(zap.String("conn", uuid.NewString()))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	log.Info("websocket connected")

	c := &wsConn{conn: conn, sessionID: sessionID, log: log}

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go pingLoop(ctx, conn)

	c.send("connected", map[string]any{"character": h.prefs.Get(sessionID).DisplayName()})

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read error", zap.Error(err))
			}
			log.Info("websocket disconnected")
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		if msg.Type != "" && msg.Type != "text" {
			c.sendError("unsupported message type: " + msg.Type)
			continue
		}
		replies, handled := h.bot.Handle(ctx, sessionID, msg.Text)
		if !handled {
			c.send("ignored", nil)
			continue
		}
		for _, reply := range replies {
			c.sendReply(reply)
		}
	}
}

// pingLoop 定期发送ping消息
func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
