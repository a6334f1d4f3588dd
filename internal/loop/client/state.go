package client

import (
	"time"

	"github.com/tomz197/asteroids/internal/loop"
)

// ClientState holds the per-connection presentation state. Game state lives in
// the session.
type ClientState struct {
	Running bool          // Client loop running
	delta   time.Duration // Frame delta time

	prevGameState loop.GameState // State drawn last frame
	firstFrame    bool           // Nothing drawn yet

	shutdown      bool    // Hub announced a shutdown
	shutdownTimer float64 // Countdown before auto-disconnect on shutdown
	wasShutdown   bool

	isInactive  bool // Whether the client is in inactive warning state
	wasInactive bool

	banner      string  // Short notice over the field ("LEVEL 2", "EXTRA LIFE")
	bannerTimer float64 // Seconds the banner stays up
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Running:    true,
		firstFrame: true,
	}
}
