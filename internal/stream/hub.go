package stream

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"fixedrate-amm-lab/internal/domain"
)

// StepMessage is the JSON message sent to WebSocket subscribers for each
// simulation step.
type StepMessage struct {
	Type          string  `json:"type"`
	RunID         string  `json:"run_id"`
	Step          int     `json:"step"`
	MarketTime    float64 `json:"market_time"`
	SpotPrice     float64 `json:"spot_price"`
	ShareReserves float64 `json:"share_reserves"`
	BondReserves  float64 `json:"bond_reserves"`
	LPTotalSupply float64 `json:"lp_total_supply"`
	AgentBase     float64 `json:"agent_base"`
	AgentFees     float64 `json:"agent_fees"`
}

// Hub manages WebSocket connections and broadcasts step snapshots to all
// subscribers as the simulation advances. Implements simulation.StepListener.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	done      chan struct{}
}

// NewHub creates a new streaming hub.
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, 256),
		done:      make(chan struct{}),
	}
}

// Run starts the hub's broadcast loop. Must be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return

		case msg := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Stop shuts the hub down and closes all subscriber connections.
func (h *Hub) Stop() {
	close(h.done)
}

// OnStep broadcasts a step snapshot to all subscribers. Drops the message if
// the buffer is full so a slow subscriber never blocks the simulation loop.
func (h *Hub) OnStep(snapshot *domain.StepSnapshot) {
	msg := StepMessage{
		Type:          "step",
		RunID:         snapshot.RunID,
		Step:          snapshot.Step,
		MarketTime:    snapshot.MarketTime,
		SpotPrice:     snapshot.SpotPrice,
		ShareReserves: snapshot.ShareReserves,
		BondReserves:  snapshot.BondReserves,
		LPTotalSupply: snapshot.LPTotalSupply,
		AgentBase:     snapshot.AgentBase,
		AgentFees:     snapshot.AgentFees,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// HandleWS upgrades an HTTP request to a WebSocket subscription.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	// Read pump: detect disconnects and unregister.
	go func() {
		defer func() {
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
