package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"egg-grader/internal/domain/entity"
	"egg-grader/internal/domain/port"
	"egg-grader/internal/logger"
)

const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // панели и телефоны в цеховой сети
}

// Hub рассылает новые записи журнала всем подключённым websocket-клиентам.
type Hub struct {
	clients    map[string]*websocket.Conn
	broadcast  chan []byte
	register   chan hubClient
	unregister chan string
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *logger.Logger
}

type hubClient struct {
	id   string
	conn *websocket.Conn
}

// NewHub создаёт хаб. Рассылка начинается после Run.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Discard()
	}
	return &Hub{
		clients:    make(map[string]*websocket.Conn),
		broadcast:  make(chan []byte, 16),
		register:   make(chan hubClient),
		unregister: make(chan string),
		done:       make(chan struct{}),
		logger:     log,
	}
}

// Run обслуживает подключения до отмены ctx. Вызывается один раз.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for id, conn := range h.clients {
				conn.Close()
				delete(h.clients, id)
			}
			h.mutex.Unlock()
			return

		case c := <-h.register:
			h.mutex.Lock()
			h.clients[c.id] = c.conn
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("Client %s connected. Total: %d", c.id, total)

		case id := <-h.unregister:
			h.mutex.Lock()
			if conn, ok := h.clients[id]; ok {
				delete(h.clients, id)
				conn.Close()
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("Client %s disconnected. Total: %d", id, total)

		case message := <-h.broadcast:
			h.mutex.Lock()
			for id, conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Error("Error sending message to %s: %v", id, err)
					delete(h.clients, id)
					conn.Close()
				}
			}
			h.mutex.Unlock()
		}
	}
}

// OnRecord ставит запись в рассылку. Не блокирует конвейер: при переполнении запись пропускается.
func (h *Hub) OnRecord(ctx context.Context, record entity.EggRecord) {
	message, err := json.Marshal(record)
	if err != nil {
		h.logger.Error("Failed to encode record for websocket: %v", err)
		return
	}

	select {
	case h.broadcast <- message:
	default:
		h.logger.Warning("Websocket broadcast queue is full, dropping record %s", record.Timestamp)
	}
}

// ClientCount число подключённых клиентов.
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// ServeWS переводит запрос в websocket и держит соединение до его закрытия клиентом.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warning("Websocket upgrade error: %v", err)
		return
	}

	id := uuid.NewString()
	select {
	case h.register <- hubClient{id: id, conn: conn}:
	case <-h.done:
		conn.Close()
		return
	case <-r.Context().Done():
		conn.Close()
		return
	}

	// Клиент только слушает; читаем, чтобы обработать ping/close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	select {
	case h.unregister <- id:
	case <-h.done:
	case <-r.Context().Done():
	}
}

var _ port.RecordListener = (*Hub)(nil)
