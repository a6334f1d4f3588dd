package object

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/asteroids/internal/config"
)

// Player is the ship. It lives for the whole session; losing a life puts it
// through the respawn grace period instead of removing it.
type Player struct {
	Body

	Lives       int
	FireRate    float64 // seconds between shots
	SpeedLimit  float64
	ThrustAccel float64 // units/s²
	RotateSpeed float64 // degrees/s

	// Invincible counts down the respawn grace period. The ship is hidden until
	// it drops to the visible tail, then reappears at the start position.
	Invincible float64

	fireRateFloor float64
	invincibility float64
	visibleTail   float64
	hidden        bool
	fireTimer     float64

	start                        mgl64.Vec2
	spawnAngleMin, spawnAngleMax float64
	spawnSpeedMin, spawnSpeedMax float64
	rng                          Rand
}

// NewPlayer creates a ship at the start position, facing up, ready to fire.
func NewPlayer(cfg config.Tunables, rng Rand) *Player {
	start := mgl64.Vec2{cfg.PlayerStartX, cfg.PlayerStartY}
	return &Player{
		Body: Body{
			Pos:    start,
			Angle:  90,
			Radius: cfg.PlayerRadius,
		},
		Lives:         cfg.PlayerLives,
		FireRate:      cfg.PlayerFireRate,
		SpeedLimit:    cfg.PlayerSpeedLimit,
		ThrustAccel:   cfg.PlayerThrust,
		RotateSpeed:   cfg.PlayerRotateSpeed,
		fireRateFloor: cfg.PlayerFireRateFloor,
		invincibility: cfg.PlayerInvincibility,
		visibleTail:   cfg.PlayerVisibleTail,
		fireTimer:     cfg.PlayerFireRate,
		start:         start,
		spawnAngleMin: cfg.PlayerSpawnAngleMin,
		spawnAngleMax: cfg.PlayerSpawnAngleMax,
		spawnSpeedMin: cfg.PlayerSpawnSpeedMin,
		spawnSpeedMax: cfg.PlayerSpawnSpeedMax,
		rng:           rng,
	}
}

// Thrust accelerates along the current heading for dt seconds and clamps the
// resulting speed to SpeedLimit, keeping the direction.
func (p *Player) Thrust(dt float64) {
	p.Vel = p.Vel.Add(Heading(p.Angle).Mul(p.ThrustAccel * dt))

	speed := p.Vel.Len()
	if speed == 0 || speed <= p.SpeedLimit {
		return
	}
	p.Vel = p.Vel.Mul(p.SpeedLimit / speed)
}

// Turn rotates the ship. dir is +1 for counter-clockwise (left), -1 for clockwise.
func (p *Player) Turn(dir, dt float64) {
	p.Angle += dir * p.RotateSpeed * dt
}

// fireRateEpsilon absorbs the rounding of summed tick lengths, so a shot is
// allowed on the tick the interval elapses.
const fireRateEpsilon = 1e-9

// Fire reports whether a shot may be fired now and, if so, restarts the fire-rate
// gate. Building the shot is up to the caller.
func (p *Player) Fire() bool {
	if p.fireTimer+fireRateEpsilon < p.FireRate {
		return false
	}
	p.fireTimer = 0
	return true
}

// ApplyFireRate scales the fire interval, never below the configured floor.
func (p *Player) ApplyFireRate(mult float64) {
	p.FireRate = math.Max(p.FireRate*mult, p.fireRateFloor)
}

// ApplyDamage takes a life. It reports true when no lives are left; the caller
// ends the game. Otherwise the ship goes through Reset.
func (p *Player) ApplyDamage() (dead bool) {
	p.Lives--
	if p.Lives <= 0 {
		p.Lives = 0
		return true
	}
	p.Reset()
	return false
}

// Reset starts the respawn grace period: the ship is hidden, stops drifting and
// can't be hit until Invincible runs out.
func (p *Player) Reset() {
	p.Invincible = p.invincibility
	p.hidden = true
	p.Vel = mgl64.Vec2{}
}

// IsInvincible reports whether hostile contact is currently ignored.
func (p *Player) IsInvincible() bool {
	return p.Invincible > 0
}

// Visible reports whether the ship is on the field.
func (p *Player) Visible() bool {
	return !p.hidden
}

// Nose returns the point shots leave from.
func (p *Player) Nose() mgl64.Vec2 {
	return p.Pos.Add(Heading(p.Angle).Mul(p.Radius))
}

// Outline returns the ship triangle in field coordinates.
func (p *Player) Outline() [3]mgl64.Vec2 {
	// Nose-up artwork, rotated into the game's heading.
	art := [3]mgl64.Vec2{{0, 1.4}, {-0.9, -1}, {0.9, -1}}
	rot := mgl64.Rotate2D(mgl64.DegToRad(p.Angle - ArtworkOffset))

	var out [3]mgl64.Vec2
	for i, v := range art {
		out[i] = p.Pos.Add(rot.Mul2x1(v.Mul(p.Radius)))
	}
	return out
}

// Update advances motion and the fire and grace timers.
func (p *Player) Update(dt float64, f Field) {
	p.fireTimer += dt
	if p.fireTimer > p.FireRate {
		p.fireTimer = p.FireRate
	}

	if p.Invincible > 0 {
		p.Invincible = math.Max(p.Invincible-dt, 0)
	}
	if p.hidden {
		if p.Invincible <= p.visibleTail {
			p.respawn()
		}
		return
	}

	Move(&p.Body, dt, f)
}

func (p *Player) respawn() {
	p.hidden = false
	p.Pos = p.start
	p.Angle = uniform(p.rng, p.spawnAngleMin, p.spawnAngleMax)
	p.Vel = Heading(p.Angle).Mul(uniform(p.rng, p.spawnSpeedMin, p.spawnSpeedMax))
}
