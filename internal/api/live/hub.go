package live

import (
	"context"
	"cozytown_backend/internal/converter"
	"cozytown_backend/internal/model"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// Буфер исходящих событий одного клиента. Медленный клиент теряет события, а не тормозит коммит
	sendBuffer = 64
)

// Hub - рассылка изменений тайлов всем открытым websocket соединениям живой карты
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[uint64]chan []byte
	nextID  atomic.Uint64
}

func NewHub(allowedOrigins []string) *Hub {
	return &Hub{
		clients: make(map[uint64]chan []byte),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// Publish - отправляет новое состояние тайла подписчикам
func (h *Hub) Publish(tile model.Tile) {
	b, err := json.Marshal(converter.ToLiveEvent(tile))
	if err != nil {
		log.Println("live: marshal event:", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, out := range h.clients {
		select {
		case out <- b:
		default:
			// клиент не успевает читать
		}
	}
}

// Clients - число подключенных клиентов
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) join() (uint64, chan []byte) {
	id := h.nextID.Add(1)
	out := make(chan []byte, sendBuffer)

	h.mu.Lock()
	h.clients[id] = out
	h.mu.Unlock()
	return id, out
}

func (h *Hub) leave(id uint64) {
	h.mu.Lock()
	delete(h.clients, id)
	h.mu.Unlock()
}

// ServeHTTP - апгрейд соединения и поток событий до разрыва
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	id, out := h.join()
	defer h.leave(id)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	writeErr := make(chan error, 1)
	go func() {
		writeErr <- writeLoop(ctx, conn, out)
	}()

	// Клиент ничего не шлет, читаем только чтобы заметить закрытие и получать pong
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	cancel()
	select {
	case <-writeErr:
	case <-time.After(500 * time.Millisecond):
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, out <-chan []byte) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
				time.Now().Add(time.Second))
			return ctx.Err()
		case b := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return err
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == origin {
				return true
			}
		}
		return false
	}
}
