package net

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
	sendBuffer = 16
)

// Hub fans board snapshots out to every connected viewer. Each payload is a
// whole board, so pending broadcasts coalesce and only the newest is sent.
// It is also kept so a viewer that joins late starts from the current board.
type Hub struct {
	peers      map[*Peer]bool
	mu         sync.Mutex
	pending    []byte
	wake       chan struct{}
	register   chan *Peer
	unregister chan *Peer
	done       chan struct{}
	count      atomic.Int32
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		peers:      make(map[*Peer]bool),
		wake:       make(chan struct{}, 1),
		register:   make(chan *Peer),
		unregister: make(chan *Peer),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run serves the hub until ctx is done, then disconnects every peer.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	var latest []byte
	for {
		select {
		case <-ctx.Done():
			for p := range h.peers {
				close(p.send)
				delete(h.peers, p)
			}
			h.count.Store(0)
			return
		case p := <-h.register:
			h.peers[p] = true
			h.count.Store(int32(len(h.peers)))
			if latest != nil {
				p.send <- latest
			}
			h.log.Info().Str("peer", p.addr).Int("viewers", len(h.peers)).Msg("viewer connected")
		case p := <-h.unregister:
			if _, ok := h.peers[p]; ok {
				delete(h.peers, p)
				close(p.send)
				h.count.Store(int32(len(h.peers)))
				h.log.Info().Str("peer", p.addr).Int("viewers", len(h.peers)).Msg("viewer disconnected")
			}
		case <-h.wake:
			h.mu.Lock()
			msg := h.pending
			h.pending = nil
			h.mu.Unlock()
			if msg == nil {
				continue
			}
			latest = msg
			for p := range h.peers {
				select {
				case p.send <- msg:
				default:
					// a viewer this far behind is dropped rather than stalling the rest
					close(p.send)
					delete(h.peers, p)
					h.log.Warn().Str("peer", p.addr).Msg("viewer too slow, disconnected")
				}
			}
			h.count.Store(int32(len(h.peers)))
		}
	}
}

// Broadcast queues msg for every viewer, replacing any payload not yet
// sent. It never blocks.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	h.pending = msg
	h.mu.Unlock()
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// Viewers returns how many peers are connected.
func (h *Hub) Viewers() int { return int(h.count.Load()) }

func (h *Hub) add(p *Peer) bool {
	select {
	case h.register <- p:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(p *Peer) {
	select {
	case h.unregister <- p:
	case <-h.done:
	}
}

// Peer is one viewer's websocket connection.
type Peer struct {
	hub  *Hub
	conn *websocket.Conn
	addr string
	send chan []byte
}

func newPeer(h *Hub, conn *websocket.Conn) *Peer {
	return &Peer{hub: h, conn: conn, addr: conn.RemoteAddr().String(), send: make(chan []byte, sendBuffer)}
}

// start registers the peer and runs its pumps until the connection ends.
func (p *Peer) start() {
	if !p.hub.add(p) {
		p.conn.Close()
		return
	}
	go p.writePump()
	go p.readPump()
}

// readPump only keeps the connection alive; viewers never send board changes.
func (p *Peer) readPump() {
	defer func() {
		p.hub.remove(p)
		p.conn.Close()
	}()
	p.conn.SetReadLimit(512)
	_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (p *Peer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-p.send:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = p.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
