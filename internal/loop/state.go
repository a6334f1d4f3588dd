package loop

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/asteroids/internal/object"
)

// GameState is the top-level phase of a session.
type GameState int

const (
	StateIntro    GameState = iota // Title screen
	StateInGame                    // Active gameplay
	StateGameOver                  // Lives exhausted, final result on screen
)

func (s GameState) String() string {
	switch s {
	case StateIntro:
		return "intro"
	case StateInGame:
		return "in_game"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Result is the final score and level of a finished game.
type Result struct {
	Score int
	Level int
}

// EventKind identifies what happened during a tick.
type EventKind int

const (
	EventStateChanged EventKind = iota
	EventLevelUp
	EventPlayerHit
	EventAsteroidDestroyed
	EventUFODestroyed
	EventPowerUpCollected
	EventExtraLife
)

func (k EventKind) String() string {
	switch k {
	case EventStateChanged:
		return "state_changed"
	case EventLevelUp:
		return "level_up"
	case EventPlayerHit:
		return "player_hit"
	case EventAsteroidDestroyed:
		return "asteroid_destroyed"
	case EventUFODestroyed:
		return "ufo_destroyed"
	case EventPowerUpCollected:
		return "powerup_collected"
	case EventExtraLife:
		return "extra_life"
	default:
		return "unknown"
	}
}

// Event is a notification for front-ends. Only the fields relevant to Kind are set.
type Event struct {
	Kind EventKind

	State   GameState           // StateChanged: the new state
	Level   int                 // LevelUp: the new level
	Points  int                 // score awarded by this event
	Lives   int                 // PlayerHit, ExtraLife: lives afterwards
	Pos     mgl64.Vec2          // where it happened
	Size    object.AsteroidSize // AsteroidDestroyed
	PowerUp object.PowerUpKind  // PowerUpCollected
}
