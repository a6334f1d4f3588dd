package object

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/asteroids/internal/config"
	"github.com/tomz197/asteroids/internal/physics"
)

// AsteroidSize represents the size category of an asteroid.
type AsteroidSize int

const (
	AsteroidSmall  AsteroidSize = 1
	AsteroidMedium AsteroidSize = 2
	AsteroidLarge  AsteroidSize = 3
)

// Size properties, indexed by AsteroidSize.
var (
	asteroidRadii  = [...]float64{AsteroidSmall: 1.5, AsteroidMedium: 3.0, AsteroidLarge: 5.0}
	asteroidSpeeds = [...]float64{AsteroidSmall: 1.8, AsteroidMedium: 1.3, AsteroidLarge: 1.0}
)

// MaxAsteroidRadius is the radius of the largest asteroid.
const MaxAsteroidRadius = 5.0

// maxSpawnAttempts bounds the rejection sampling in RandomAsteroidPosition.
const maxSpawnAttempts = 1000

// Valid reports whether s is one of the three size tiers.
func (s AsteroidSize) Valid() bool {
	return s >= AsteroidSmall && s <= AsteroidLarge
}

// Asteroid is a drifting, spinning rock.
type Asteroid struct {
	Body

	Size          AsteroidSize
	RotationSpeed float64   // degrees per reference frame, cosmetic
	Value         int       // score for shooting it
	Level         int       // level it was spawned on
	Vertices      []float64 // vertex distances from center (for irregular shape)

	destroyed bool
}

// NewAsteroid creates an asteroid of the given size at pos. Its heading is angle
// perturbed by up to ±asteroid_spread degrees. It panics on an invalid size.
func NewAsteroid(cfg config.Tunables, rng Rand, size AsteroidSize, pos mgl64.Vec2, angle float64, level int) *Asteroid {
	if !size.Valid() {
		panic(fmt.Sprintf("object: invalid asteroid size %d", size))
	}

	radius := asteroidRadii[size]
	heading := angle + uniform(rng, -cfg.AsteroidSpread, cfg.AsteroidSpread)
	speed := cfg.AsteroidSpeed * asteroidSpeeds[size] * cfg.AsteroidSpeedFactor(level)

	// Irregular polygon, 8-12 vertices, radius varied by ±30%
	vertices := make([]float64, 8+rng.Intn(5))
	for i := range vertices {
		vertices[i] = radius * (0.7 + rng.Float64()*0.6)
	}

	return &Asteroid{
		Body: Body{
			Pos:    pos,
			Vel:    Heading(heading).Mul(speed),
			Angle:  rng.Float64() * 360,
			Radius: radius,
		},
		Size:          size,
		RotationSpeed: float64(rng.Intn(5)),
		Value:         cfg.AsteroidScore(int(size)),
		Level:         level,
		Vertices:      vertices,
	}
}

// RandomAsteroidPosition picks a point in the field at least
// asteroid_min_spawn_distance away from the player's start position. If no such
// point turns up within a bounded number of draws, the farthest one seen is used.
func RandomAsteroidPosition(cfg config.Tunables, rng Rand, f Field) mgl64.Vec2 {
	start := mgl64.Vec2{cfg.PlayerStartX, cfg.PlayerStartY}

	var best mgl64.Vec2
	bestSq := -1.0
	for i := 0; i < maxSpawnAttempts; i++ {
		p := f.RandomPoint(rng)
		if !physics.PointInCircle(p, start, cfg.AsteroidMinSpawnDistance) {
			return p
		}
		d := physics.DistanceSquared(p, start)
		if d > bestSq {
			best, bestSq = p, d
		}
	}
	return best
}

// RandomAngle returns a uniform heading in [0, 360).
func RandomAngle(rng Rand) float64 {
	return rng.Float64() * 360
}

// Update moves and spins the asteroid. Returns true if it should be removed.
func (a *Asteroid) Update(dt float64, f Field) bool {
	if a.destroyed {
		return true
	}
	Move(&a.Body, dt, f)
	a.Angle = math.Mod(a.Angle+a.RotationSpeed*dt*ReferenceFPS, 360)
	return false
}

// MarkDestroyed marks the asteroid for removal.
func (a *Asteroid) MarkDestroyed() {
	a.destroyed = true
}

// IsDestroyed returns true if the asteroid is marked for removal.
func (a *Asteroid) IsDestroyed() bool {
	return a.destroyed
}

// Outline returns the asteroid polygon in field coordinates into buf.
func (a *Asteroid) Outline(buf []mgl64.Vec2) []mgl64.Vec2 {
	buf = buf[:0]
	n := float64(len(a.Vertices))
	for i, dist := range a.Vertices {
		buf = append(buf, a.Pos.Add(Heading(a.Angle+float64(i)*360/n).Mul(dist)))
	}
	return buf
}
