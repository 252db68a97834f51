package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ByLCY/manosaba/bot"
	"github.com/ByLCY/manosaba/logging"
	"github.com/ByLCY/manosaba/worker"
)

// Preferences 为会话角色偏好的读写接口，由 *session.Store 实现。
type Preferences interface {
	bot.Preferences
	Snapshot() map[string]string
}

// Handler 把 HTTP 与 WebSocket 请求接到机器人与表情包服务上。
type Handler struct {
	bot      *bot.Bot
	memes    bot.Memes
	prefs    Preferences
	pool     *worker.Pool
	upgrader websocket.Upgrader
}

// New 创建处理器
func New(memes bot.Memes, prefs Preferences, pool *worker.Pool) *Handler {
	return &Handler{
		bot:   bot.New(memes, prefs, pool),
		memes: memes,
		prefs: prefs,
		pool:  pool,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// NewRouter wires HTTP routes to core services.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(api chi.Router) {
		h.RegisterRoutes(api)
	})
	r.Get("/ws/{sessionID}", h.handleWebSocket)

	return r
}

// RegisterRoutes 注册 /api 下的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Post("/sign", h.handleSign)
	r.Post("/trial", h.handleTrial)
	r.Get("/sessions", h.handleListSessions)
	r.Get("/sessions/{sessionID}/character", h.handleGetCharacter)
	r.Put("/sessions/{sessionID}/character", h.handlePutCharacter)
	r.Post("/messages", h.handleMessage)
}

// requestLogger 用 zap 记录每个请求，并把请求 ID 放进 context。
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithRequest(r.Context(), middleware.GetReqID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r.WithContext(ctx))

		logging.WithCtx(ctx).Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
