package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/devansh/fms/internal/app/models"
)

// Event is one live dashboard notification pushed to subscribers
type Event struct {
	Type string `json:"type"`

	// Routing fields deciding which subscribers may see the event
	TeacherID  int64  `json:"teacherId"`
	Department string `json:"department"`

	Subject     string    `json:"subject"`
	Rating      int       `json:"rating"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// EventFeedbackCreated announces an accepted feedback submission
const EventFeedbackCreated = "feedback.created"

// Hub fans accepted submissions out to connected dashboards. Each client is
// scoped by its account role: teachers see their own feedback, departments
// their department's, admins everything. Student comments never cross the
// wire; ratings stay attributable only in aggregate.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run starts the hub loop, handling registrations and broadcasts
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Info().
		Int64("accountID", client.accountID).
		Str("role", string(client.role)).
		Msg("Dashboard client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		h.logger.Info().
			Int64("accountID", client.accountID).
			Str("role", string(client.role)).
			Msg("Dashboard client unregistered")
	}
}

// visibleTo applies the role scoping rule for one subscriber
func (c *Client) visibleTo(event *Event) bool {
	switch c.role {
	case models.RoleAdmin:
		return true
	case models.RoleDepartment:
		return c.department == event.Department
	case models.RoleTeacher:
		return c.accountID == event.TeacherID
	}
	return false
}

func (h *Hub) broadcastEvent(event *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal dashboard event")
		return
	}

	var dropped []*Client
	for client := range h.clients {
		if !client.visibleTo(event) {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Send buffer full; the client is slow or gone
			dropped = append(dropped, client)
		}
	}

	for _, client := range dropped {
		go func(c *Client) { h.unregister <- c }(client)
	}
}

// BroadcastFeedback publishes an accepted submission to live dashboards
func (h *Hub) BroadcastFeedback(fb *models.Feedback) {
	event := &Event{
		Type:        EventFeedbackCreated,
		TeacherID:   fb.TeacherID,
		Department:  fb.Department,
		Subject:     fb.Subject,
		Rating:      fb.Rating,
		SubmittedAt: fb.SubmittedAt,
	}

	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn().Msg("Dashboard broadcast queue full, dropping event")
	}
}

// ClientCount returns the number of connected dashboard clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
