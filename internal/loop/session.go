// Package loop runs a single-player game session: it owns every entity
// collection, advances them each tick, resolves collisions and drives the
// intro, in-game and game-over states. It does no I/O; front-ends feed it
// input and draw what it holds.
package loop

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/asteroids/internal/audio"
	"github.com/tomz197/asteroids/internal/config"
	"github.com/tomz197/asteroids/internal/object"
	"github.com/tomz197/asteroids/internal/physics"
)

// Session is one player's game. It is not safe for concurrent use; a
// front-end drives it from a single goroutine.
//
// The entity slices are exported for drawing. Front-ends must not modify them.
type Session struct {
	cfg   config.Tunables
	field object.Field
	rng   *rand.Rand
	sfx   audio.Sink
	log   *log.Logger

	state  GameState
	score  int
	level  int
	result Result

	Player    *object.Player
	Asteroids []*object.Asteroid
	Shots     []*object.Shot // fired by the player
	UFOShots  []*object.Shot
	UFOs      []*object.UFO
	PowerUps  []*object.PowerUp
	Stars     []*object.Star
	Particles []*object.Particle

	spawnedAsteroids []*object.Asteroid // split products, added after collisions
	ufoSpawn         object.Countdown
	powerUpSpawn     object.Countdown

	hum     audio.Handle
	humming bool

	grid   *physics.SpatialGrid
	events []Event
}

// Option configures a Session.
type Option func(*Session)

// WithRand makes the session draw all randomness from rng.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		s.rng = rng
	}
}

// WithAudio routes sound cues to sink. A nil sink means silence.
func WithAudio(sink audio.Sink) Option {
	return func(s *Session) {
		if sink == nil {
			sink = audio.Silent{}
		}
		s.sfx = sink
	}
}

// WithLogger sets the logger for state transitions and gameplay events.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// NewSession validates cfg and returns a session on the intro screen.
// cfg is copied; later changes to the caller's value have no effect.
func NewSession(cfg config.Tunables, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	s := &Session{
		cfg:   cfg,
		field: object.Field{Width: cfg.FieldWidth, Height: cfg.FieldHeight},
		sfx:   audio.Silent{},
		state: StateIntro,
		level: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.log == nil {
		s.log = log.New(io.Discard)
	}

	s.grid = physics.NewSpatialGrid(cfg.FieldWidth, cfg.FieldHeight, collisionGridCellSize(cfg))
	s.seedStars()
	return s, nil
}

// State returns the current game state.
func (s *Session) State() GameState { return s.state }

// Score returns the current score.
func (s *Session) Score() int { return s.score }

// Level returns the current level, starting at 1.
func (s *Session) Level() int { return s.level }

// Lives returns the player's remaining lives.
func (s *Session) Lives() int {
	if s.Player == nil {
		return s.cfg.PlayerLives
	}
	return s.Player.Lives
}

// Result returns the score and level at the moment the last game ended.
func (s *Session) Result() Result { return s.result }

// Field returns the play area.
func (s *Session) Field() object.Field { return s.field }

// Config returns the tunables the session was built with.
func (s *Session) Config() config.Tunables { return s.cfg }

// DrainEvents returns the events recorded since the last call and forgets them.
func (s *Session) DrainEvents() []Event {
	events := s.events
	s.events = nil
	return events
}

// AddUFOShot implements object.ShotSink.
func (s *Session) AddUFOShot(shot *object.Shot) {
	s.UFOShots = append(s.UFOShots, shot)
}

// SpawnParticle implements object.ParticleSpawner.
func (s *Session) SpawnParticle(p *object.Particle) {
	s.Particles = append(s.Particles, p)
}

// Close stops any looping sound the session started.
func (s *Session) Close() {
	s.stopHum()
}

func (s *Session) emit(e Event) {
	s.events = append(s.events, e)
}

func (s *Session) setState(next GameState) {
	if next == s.state {
		return
	}
	s.log.Info("state changed", "from", s.state, "to", next)
	s.state = next
	s.emit(Event{Kind: EventStateChanged, State: next})
}

// startGame resets score, lives and level and seeds level 1.
func (s *Session) startGame() {
	s.stopHum()

	s.score = 0
	s.level = 1
	s.Player = object.NewPlayer(s.cfg, s.rng)
	s.Shots = s.Shots[:0]
	s.UFOShots = s.UFOShots[:0]
	s.UFOs = s.UFOs[:0]
	s.spawnedAsteroids = s.spawnedAsteroids[:0]

	s.ufoSpawn = object.NewCountdown(s.cfg.UFOSpawnInterval(s.level))
	s.powerUpSpawn = object.NewCountdown(s.cfg.PowerUpSpawnRate)
	s.seedLevel()

	s.setState(StateInGame)
}

// gameOver freezes the world and records the final result.
func (s *Session) gameOver() {
	s.stopHum()
	s.result = Result{Score: s.score, Level: s.level}
	s.sfx.Play(audio.ClipGameOver)
	s.log.Info("game over", "score", s.result.Score, "level", s.result.Level)
	s.setState(StateGameOver)
}

func (s *Session) startHum() {
	if s.humming {
		return
	}
	s.hum = s.sfx.Loop(audio.ClipThrust)
	s.humming = true
}

func (s *Session) stopHum() {
	if !s.humming {
		return
	}
	s.sfx.Stop(s.hum)
	s.humming = false
}

// collisionGridCellSize is the largest shot-asteroid interaction distance. The
// grid only finds pairs that are at most one cell apart.
func collisionGridCellSize(cfg config.Tunables) float64 {
	return object.MaxAsteroidRadius + max(cfg.ShotRadius, object.MaxAsteroidRadius)
}

// compact drops the items remove reports true for, reusing the backing array.
func compact[T any](items []T, remove func(T) bool) []T {
	kept := items[:0]
	for _, it := range items {
		if !remove(it) {
			kept = append(kept, it)
		}
	}
	clear(items[len(kept):])
	return kept
}
