package websocket

import (
	"github.com/isdelr/taskmanager-be/internal/models"
	"github.com/rs/zerolog/log"
)

type ownerMessage struct {
	ownerID string
	data    []byte
}

// Hub maintains the set of active clients and fans activity events out to
// the clients of the owning user. All map access happens on the Run goroutine.
type Hub struct {
	// Registered clients, grouped by owner id.
	owners map[string]map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	publish chan ownerMessage
	done    chan struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		owners:     make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan ownerMessage, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			for _, clients := range h.owners {
				for client := range clients {
					close(client.Send)
				}
			}
			h.owners = make(map[string]map[*Client]bool)
			return
		case client := <-h.register:
			if h.owners[client.OwnerID] == nil {
				h.owners[client.OwnerID] = make(map[*Client]bool)
			}
			h.owners[client.OwnerID][client] = true
			client.Send <- newSubscribedMessage()
			log.Info().Str("owner_id", client.OwnerID).Int("owner_clients", len(h.owners[client.OwnerID])).Msg("Client connected")
		case client := <-h.unregister:
			if h.remove(client) {
				log.Info().Str("owner_id", client.OwnerID).Msg("Client disconnected")
			}
		case msg := <-h.publish:
			for client := range h.owners[msg.ownerID] {
				select {
				case client.Send <- msg.data:
				default:
					// Slow consumer.
					h.remove(client)
				}
			}
		}
	}
}

// Stop terminates Run and closes every client's send channel.
func (h *Hub) Stop() {
	close(h.done)
}

// Register subscribes client to its owner's events.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// Unregister removes client and closes its send channel.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues event for delivery to the owner's connected clients. Events
// are dropped when the queue is full.
func (h *Hub) Publish(ownerID string, event models.Event) {
	data := NewEventMessage(event)
	if data == nil {
		return
	}
	select {
	case h.publish <- ownerMessage{ownerID: ownerID, data: data}:
	default:
		log.Warn().Str("owner_id", ownerID).Str("event_type", event.Type).Msg("Websocket publish queue full, dropping event")
	}
}

func (h *Hub) remove(client *Client) bool {
	clients, ok := h.owners[client.OwnerID]
	if !ok || !clients[client] {
		return false
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.owners, client.OwnerID)
	}
	return true
}
