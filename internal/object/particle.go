package object

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// ParticleSpawner collects particles emitted during a tick.
type ParticleSpawner interface {
	SpawnParticle(p *Particle)
}

// Particle is a short-lived visual effect. It never takes part in gameplay.
type Particle struct {
	Pos, Vel    mgl64.Vec2
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime (for fade calculation)
	Drag        float64 // Velocity kept per reference frame (1.0 = no drag)
}

// NewParticle creates a single particle from the pool.
func NewParticle(pos, vel mgl64.Vec2, lifetime float64) *Particle {
	p := particlePool.Get().(*Particle)
	p.Pos = pos
	p.Vel = vel
	p.Lifetime = lifetime
	p.MaxLifetime = lifetime
	p.Drag = 0.95
	return p
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the game.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// SpawnExplosion emits count particles in a circular burst.
func SpawnExplosion(rng Rand, pos mgl64.Vec2, count int, speed, lifetime float64, spawner ParticleSpawner) {
	if spawner == nil {
		return
	}

	for i := 0; i < count; i++ {
		// Speed 50%-150%, lifetime 50%-100%
		vel := Heading(RandomAngle(rng)).Mul(speed * (0.5 + rng.Float64()))
		life := lifetime * (0.5 + rng.Float64()*0.5)
		spawner.SpawnParticle(NewParticle(pos, vel, life))
	}
}

// SpawnThrust emits exhaust behind a ship at pos facing angle.
func SpawnThrust(rng Rand, pos mgl64.Vec2, angle float64, spawner ParticleSpawner) {
	if spawner == nil {
		return
	}

	count := 1 + rng.Intn(2)
	for i := 0; i < count; i++ {
		// Opposite the ship's facing, with ±15° spread
		dir := angle + 180 + uniform(rng, -15, 15)
		vel := Heading(dir).Mul(8 + rng.Float64()*4)
		p := NewParticle(pos, vel, 0.1+rng.Float64()*0.15)
		p.Drag = 0.85
		spawner.SpawnParticle(p)
	}
}

// Update moves the particle and checks lifetime. Returns true if it should be removed.
func (p *Particle) Update(dt float64) bool {
	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true
	}

	p.Vel = p.Vel.Mul(math.Pow(p.Drag, dt*ReferenceFPS))
	p.Pos = p.Pos.Add(p.Vel.Mul(dt))

	// No wrapping; particles that leave the field just aren't drawn.
	return false
}

// Fade returns the remaining fraction of the particle's life.
func (p *Particle) Fade() float64 {
	if p.MaxLifetime <= 0 {
		return 0
	}
	return p.Lifetime / p.MaxLifetime
}
