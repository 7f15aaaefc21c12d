package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ptnguyen/fundflow/internal/core/events"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// DonationAlert is the message pushed to connected clients when a
// donation is confirmed.
type DonationAlert struct {
	Type          string `json:"type"`
	CampaignID    int64  `json:"campaign_id"`
	CampaignTitle string `json:"campaign_title"`
	Amount        string `json:"amount"`
	DonorName     string `json:"donor_name"`
}

// Hub fans confirmed-donation events out to websocket subscribers.
type Hub struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	mu         sync.Mutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 64),
		logger:     logger,
	}
}

// SubscribeTo wires the hub into the event bus.
func (h *Hub) SubscribeTo(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeDonationConfirmed, func(ctx context.Context, event events.Event) error {
		e, ok := event.(*events.DonationConfirmedEvent)
		if !ok {
			return nil
		}

		alert := DonationAlert{
			Type:          "donation.confirmed",
			CampaignID:    e.CampaignID,
			CampaignTitle: e.CampaignTitle,
			Amount:        e.Amount.String(),
			DonorName:     e.DonorName,
		}
		payload, err := json.Marshal(alert)
		if err != nil {
			return err
		}

		h.Broadcast(payload)
		return nil
	})
}

func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("websocket broadcast buffer full, dropping message")
	}
}

// Run owns the client set. Register, unregister, and broadcast all pass
// through here so the map is only touched from one goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("websocket client connected", "clients", count)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("websocket client disconnected", "clients", count)

		case message := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Warn("websocket write failed, dropping client", "error", err)
					delete(h.clients, conn)
					conn.Close()
				}
			}
			h.mu.Unlock()

		case <-ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			h.logger.Info("websocket hub stopped")
			return
		}
	}
}

// ServeWS upgrades the request and parks the connection in the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	h.register <- conn

	// Drain reads so control frames are processed; unregister on error.
	go func() {
		defer func() { h.unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
