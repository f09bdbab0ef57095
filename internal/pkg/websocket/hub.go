package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MessageSchedule carries the weekly grid of a student
const MessageSchedule = "schedule"

// snapshotTimeout bounds the initial snapshot computed on registration
const snapshotTimeout = 5 * time.Second

// Hub maintains the set of active clients and pushes messages to them
type Hub struct {
	// Registered clients organized by student ID
	clients map[int64]map[*Client]bool

	// Outbound messages waiting to be fanned out
	broadcast chan *Message

	register   chan *Client
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	logger zerolog.Logger
}

// Message is the envelope sent over the WebSocket
type Message struct {
	Type      string          `json:"type"`
	StudentID int64           `json:"studentId"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[int64]map[*Client]bool),
		logger:     logger,
	}
}

// Run handles registrations and fan-out until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// Done is closed once the hub stopped
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for studentID, clients := range h.clients {
		for client := range clients {
			close(client.send)
		}
		delete(h.clients, studentID)
	}
	close(h.done)
	h.logger.Info().Msg("WebSocket hub stopped")
}

// registerClient queues the initial snapshot on the new client only, then adds it
// to the fan-out set. Running on the hub goroutine orders the snapshot against
// messages published after it.
func (h *Hub) registerClient(client *Client) {
	first := h.snapshotFor(client)

	h.mu.Lock()
	defer h.mu.Unlock()

	if first != nil {
		client.send <- first
	}

	studentID := client.studentID
	if _, ok := h.clients[studentID]; !ok {
		h.clients[studentID] = make(map[*Client]bool)
	}
	h.clients[studentID][client] = true

	h.logger.Info().
		Int64("studentID", studentID).
		Str("addr", client.remoteAddr()).
		Msg("Client registered")
}

func (h *Hub) snapshotFor(client *Client) []byte {
	if client.snapshot == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	msgType, payload, err := client.snapshot(ctx, client.studentID)
	if err != nil {
		h.logger.Warn().Err(err).Int64("studentID", client.studentID).Msg("Failed to build initial snapshot")
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msgType).Msg("Failed to marshal payload")
		return nil
	}
	data, err := json.Marshal(&Message{Type: msgType, StudentID: client.studentID, Payload: raw, Timestamp: time.Now()})
	if err != nil {
		h.logger.Error().Err(err).Int64("studentID", client.studentID).Msg("Failed to marshal message")
		return nil
	}
	return data
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(client)
}

func (h *Hub) dropLocked(client *Client) {
	clients, ok := h.clients[client.studentID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.studentID)
	}

	h.logger.Info().
		Int64("studentID", client.studentID).
		Str("addr", client.remoteAddr()).
		Msg("Client unregistered")
}

func (h *Hub) broadcastMessage(message *Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[message.StudentID]
	if !ok {
		h.logger.Debug().
			Int64("studentID", message.StudentID).
			Msg("No clients for student")
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().Err(err).Int64("studentID", message.StudentID).Msg("Failed to marshal message")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Slow consumer, drop it
			h.dropLocked(client)
		}
	}

	h.logger.Debug().
		Int64("studentID", message.StudentID).
		Str("type", message.Type).
		Int("clientCount", len(clients)).
		Msg("Message pushed")
}

// Publish queues payload for every connection of a student.
// It never blocks: when the queue is full or the hub stopped the message is dropped.
func (h *Hub) Publish(studentID int64, msgType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msgType).Msg("Failed to marshal payload")
		return
	}

	msg := &Message{Type: msgType, StudentID: studentID, Payload: raw, Timestamp: time.Now()}
	select {
	case <-h.done:
	case h.broadcast <- msg:
	default:
		h.logger.Warn().Int64("studentID", studentID).Str("type", msgType).Msg("Hub queue full, message dropped")
	}
}

// GetClientsCount returns the number of open connections of a student
func (h *Hub) GetClientsCount(studentID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[studentID])
}
