// Package server tracks the players connected to one process: who is online,
// the shared leaderboard, and shutdown notification. Every player runs an
// independent game session; the hub never touches gameplay state.
package server

import (
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/asteroids/internal/config"
	"github.com/tomz197/asteroids/internal/loop"
)

// Lobby is what a client needs from the hub. It decouples the client from
// the concrete Hub for testing.
type Lobby interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	SubmitScore(clientID int, result loop.Result)
	TopScores() []TopScoreEntry
	Players() int
}

// Compile-time check that Hub implements Lobby.
var _ Lobby = (*Hub)(nil)

// ClientHandle represents a client's registration with the hub.
type ClientHandle struct {
	ID       int
	Username string
	EventsCh chan ClientEvent // Events sent to the client (shutdown, ...)
}

// ClientEvent represents an event sent from the hub to a client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
)

// TopScoreEntry represents a single entry on the leaderboard.
type TopScoreEntry struct {
	Username string
	Score    int
	Level    int
	clientID int // Used for deterministic tie-break when scores are equal
}

// Hub is safe for concurrent use by many clients.
type Hub struct {
	mu           sync.RWMutex
	clients      map[int]*ClientHandle
	nextClientID int
	topScores    []TopScoreEntry
	log          *log.Logger
}

// NewHub creates an empty hub. A nil logger discards output.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		log:          logger,
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (h *Hub) RegisterClient(username string) *ClientHandle {
	if len(username) > config.MaxUsernameLength {
		username = username[:config.MaxUsernameLength]
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	handle := &ClientHandle{
		ID:       h.nextClientID,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}
	h.nextClientID++
	h.clients[handle.ID] = handle

	h.log.Info("client registered", "id", handle.ID, "user", username, "players", len(h.clients))
	return handle
}

// UnregisterClient removes a client and closes its event channel.
func (h *Hub) UnregisterClient(clientID int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle, ok := h.clients[clientID]
	if !ok {
		return
	}
	close(handle.EventsCh)
	delete(h.clients, clientID)
	h.log.Info("client unregistered", "id", clientID, "players", len(h.clients))
}

// Players returns the number of connected clients.
func (h *Hub) Players() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SubmitScore records a finished game on the leaderboard. Only each client's
// best game is kept.
func (h *Hub) SubmitScore(clientID int, result loop.Result) {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle, ok := h.clients[clientID]
	if !ok || result.Score <= 0 {
		return
	}

	for i, e := range h.topScores {
		if e.clientID == clientID {
			if e.Score >= result.Score {
				return
			}
			h.topScores = slices.Delete(h.topScores, i, i+1)
			break
		}
	}

	h.topScores = append(h.topScores, TopScoreEntry{
		Username: handle.Username,
		Score:    result.Score,
		Level:    result.Level,
		clientID: clientID,
	})
	slices.SortStableFunc(h.topScores, func(a, b TopScoreEntry) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return a.clientID - b.clientID
	})
	if len(h.topScores) > config.TopScoreCount {
		h.topScores = h.topScores[:config.TopScoreCount]
	}
	h.log.Debug("score submitted", "user", handle.Username, "score", result.Score, "level", result.Level)
}

// TopScores returns a copy of the leaderboard, best first.
func (h *Hub) TopScores() []TopScoreEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.topScores)
}

// Shutdown notifies all connected clients about the shutdown and waits for
// them to disconnect, up to the given timeout.
func (h *Hub) Shutdown(timeout time.Duration) {
	h.mu.RLock()
	for _, handle := range h.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	h.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			if h.Players() == 0 {
				return
			}
		}
	}
}
