package object

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/asteroids/internal/audio"
	"github.com/tomz197/asteroids/internal/config"
)

// ufoSpin is the cosmetic spin in degrees per second per unit of speed.
const ufoSpin = 4.0

// ShotSink receives shots fired by UFOs.
type ShotSink interface {
	AddUFOShot(s *Shot)
}

// UFO is the roaming bonus saucer. It does not wrap; leaving the field removes it.
// Its two behaviours are polled countdowns the game loop checks every tick.
type UFO struct {
	Body

	Big bool

	ShootTimer Countdown
	DirTimer   Countdown

	Target *Player
	Shots  ShotSink

	shot   config.ShotTuning
	jitter float64
	sfx    audio.Sink

	destroyed bool
}

// NewUFO spawns a saucer on a random field edge, heading roughly across the field.
// Speed and fire interval follow the level.
func NewUFO(cfg config.Tunables, rng Rand, level int, f Field, target *Player, shots ShotSink, sfx audio.Sink) *UFO {
	var pos mgl64.Vec2
	switch rng.Intn(4) {
	case 0: // left
		pos = mgl64.Vec2{0, rng.Float64() * f.Height}
	case 1: // right
		pos = mgl64.Vec2{f.Width, rng.Float64() * f.Height}
	case 2: // bottom
		pos = mgl64.Vec2{rng.Float64() * f.Width, 0}
	default: // top
		pos = mgl64.Vec2{rng.Float64() * f.Width, f.Height}
	}

	// Aim within ±45° of the center so it always crosses the field
	heading := AngleTo(pos, f.Center()) + uniform(rng, -45, 45)

	big := rng.Intn(2) == 0
	radius := cfg.UFORadiusSmall
	if big {
		radius = cfg.UFORadiusBig
	}

	return &UFO{
		Body: Body{
			Pos:    pos,
			Vel:    Heading(heading).Mul(cfg.UFOSpeedAt(level)),
			Radius: radius,
		},
		Big:        big,
		ShootTimer: NewCountdown(cfg.UFOFireInterval(level)),
		DirTimer:   NewCountdown(cfg.UFODirChangeRate),
		Target:     target,
		Shots:      shots,
		shot:       cfg.UFOShot(),
		jitter:     cfg.UFODirJitter,
		sfx:        sfx,
	}
}

// ChangeDir nudges the velocity by a random symmetric delta: r is taken from x
// and given to y, so the path turns erratic while the speed stays roughly the same.
func (u *UFO) ChangeDir(rng Rand) {
	r := uniform(rng, -u.jitter, u.jitter) * u.Speed()
	u.Vel[0] -= r
	u.Vel[1] += r
}

// Shoot fires one shot at the target into the shot sink. A UFO without a target
// or sink is a wiring bug and panics.
func (u *UFO) Shoot() {
	if u.Target == nil || u.Shots == nil {
		panic("object: UFO has no target or shot sink")
	}
	angle := AngleTo(u.Pos, u.Target.Pos)
	u.Shots.AddUFOShot(NewShot(OwnerUFO, u.Pos, angle, u.shot, u.sfx))
}

// Update moves the saucer and advances its timers. Returns true once it has left
// the field or was destroyed.
func (u *UFO) Update(dt float64, f Field) bool {
	if u.destroyed {
		return true
	}

	u.Integrate(dt)
	u.Angle += u.Speed() * ufoSpin * dt
	u.ShootTimer.Tick(dt)
	u.DirTimer.Tick(dt)

	return f.Outside(&u.Body)
}

// Destroy removes the saucer and cancels both pending behaviours.
func (u *UFO) Destroy() {
	u.destroyed = true
	u.ShootTimer.Stop()
	u.DirTimer.Stop()
}

// MarkDestroyed flags the saucer for removal.
func (u *UFO) MarkDestroyed() {
	u.Destroy()
}

// IsDestroyed reports whether the saucer was destroyed.
func (u *UFO) IsDestroyed() bool {
	return u.destroyed
}
