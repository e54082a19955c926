package websocket

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Envelope is the message shape pushed to clients.
type Envelope struct {
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Target    string                 `json:"target"`
}

// Manager tracks client connections and routes messages to them.
type Manager struct {
	connections map[string]*Connection
	mu          sync.RWMutex
	hub         *hub
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

// Connection is one client socket.
type Connection struct {
	ID     string
	UserID string
	conn   *websocket.Conn
	send   chan Envelope
}

type hub struct {
	connections map[*Connection]bool
	broadcast   chan Envelope
	register    chan *Connection
	unregister  chan *Connection
	stop        chan struct{}
}

func NewManager(logger *zap.Logger) *Manager {
	h := &hub{
		connections: make(map[*Connection]bool),
		broadcast:   make(chan Envelope, 256),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		stop:        make(chan struct{}),
	}
	m := &Manager{
		connections: make(map[string]*Connection),
		hub:         h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
	go m.run()
	return m
}

// HandleConnection upgrades the request and starts the read/write pumps.
// userID is the authenticated caller's identity.
func (m *Manager) HandleConnection(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:     uuid.New().String(),
		UserID: userID,
		conn:   conn,
		send:   make(chan Envelope, 256),
	}

	// Index before hub registration: drop removes the index entry, so the
	// connection must be visible there before any teardown can run.
	m.mu.Lock()
	m.connections[connection.ID] = connection
	m.mu.Unlock()

	m.hub.register <- connection

	go m.readPump(connection)
	go m.writePump(connection)
	return nil
}

func (m *Manager) readPump(conn *Connection) {
	defer func() {
		m.hub.unregister <- conn
		conn.conn.Close()
	}()

	conn.conn.SetReadLimit(512)
	conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.conn.SetPongHandler(func(string) error {
		conn.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Clients only receive; anything else resets the read deadline.
		if _, _, err := conn.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
	}
}

func (m *Manager) writePump(conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.send:
			conn.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.conn.WriteJSON(message); err != nil {
				return
			}
		case <-ticker.C:
			conn.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (m *Manager) run() {
	for {
		select {
		case conn := <-m.hub.register:
			m.hub.connections[conn] = true
			m.logger.Debug("websocket connected",
				zap.String("connection_id", conn.ID),
				zap.String("user_id", conn.UserID))

		case conn := <-m.hub.unregister:
			if _, ok := m.hub.connections[conn]; ok {
				delete(m.hub.connections, conn)
				m.drop(conn)
				m.logger.Debug("websocket disconnected", zap.String("connection_id", conn.ID))
			}

		case message := <-m.hub.broadcast:
			for conn := range m.hub.connections {
				select {
				case conn.send <- message:
				default:
					delete(m.hub.connections, conn)
					m.drop(conn)
				}
			}

		case <-m.hub.stop:
			for conn := range m.hub.connections {
				delete(m.hub.connections, conn)
				m.drop(conn)
			}
			return
		}
	}
}

// drop removes the connection from the send index and closes its channel.
// Both happen under the mutex SendToUser holds while sending, so the channel
// can never be closed out from under a concurrent send.
func (m *Manager) drop(conn *Connection) {
	m.mu.Lock()
	delete(m.connections, conn.ID)
	close(conn.send)
	m.mu.Unlock()
}

// SendToUser delivers a message to every open connection of one user.
func (m *Manager) SendToUser(userID string, message Envelope) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	message.Target = userID
	sent := 0
	for _, conn := range m.connections {
		if conn.UserID != userID {
			continue
		}
		select {
		case conn.send <- message:
			sent++
		default:
		}
	}
	if sent == 0 {
		return fmt.Errorf("user %s not connected", userID)
	}
	return nil
}

// Broadcast delivers a message to all connected users.
func (m *Manager) Broadcast(message Envelope) error {
	select {
	case m.hub.broadcast <- message:
		return nil
	default:
		return fmt.Errorf("broadcast channel full")
	}
}

// ConnectionCount returns the number of open connections.
func (m *Manager) ConnectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

// Close shuts down the hub and drops all connections.
func (m *Manager) Close() {
	close(m.hub.stop)

	m.mu.Lock()
	for _, conn := range m.connections {
		conn.conn.Close()
	}
	m.connections = make(map[string]*Connection)
	m.mu.Unlock()
}
