package sse

import (
	"log"
	"sync"
)

// Event represents a Server-Sent Event
type Event struct {
	EventType string `json:"event"`
	Data      string `json:"data"`
}

// Client is one connected consumer of a print job's event stream
type Client struct {
	ID     string
	JobID  string
	Events chan Event
}

// Hub fans print-job events out to the clients subscribed to each job
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// GlobalHub is the singleton SSE Hub instance
var GlobalHub = NewHub()

// NewHub creates a new SSE Hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a new client to the hub
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	log.Printf("[SSE] Client registered: id=%s job=%s (total: %d)", client.ID, client.JobID, len(h.clients))
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
		log.Printf("[SSE] Client unregistered: id=%s (total: %d)", clientID, len(h.clients))
	}
}

// Publish sends an event to every client subscribed to the job. A client
// whose buffer is full misses the event rather than blocking the producer.
func (h *Hub) Publish(jobID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.JobID != jobID {
			continue
		}
		select {
		case client.Events <- event:
		default:
			log.Printf("[SSE] Client %s buffer full, skipping event", client.ID)
		}
	}
}

// CloseJob unregisters every client of a finished job
func (h *Hub) CloseJob(jobID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		if client.JobID != jobID {
			continue
		}
		close(client.Events)
		delete(h.clients, id)
	}
	log.Printf("[SSE] Job closed: job=%s (total: %d)", jobID, len(h.clients))
}
