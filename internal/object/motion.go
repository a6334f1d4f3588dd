package object

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/asteroids/internal/physics"
)

// ReferenceFPS is the frame rate per-tick multiplicative effects (fade, spin,
// twinkle) are tuned for. They are scaled by dt*ReferenceFPS so they look the
// same at any tick rate.
const ReferenceFPS = 60.0

// ArtworkOffset is the angle, in degrees, between the game's 0° heading (+x) and
// the direction ship artwork points in its own coordinates (nose up).
// Renderers subtract it when rotating outlines; game logic never sees it.
const ArtworkOffset = 90.0

// Body is the kinematic state every moving entity shares.
type Body struct {
	Pos    mgl64.Vec2 // center, y up
	Vel    mgl64.Vec2 // units per second
	Angle  float64    // degrees, 0 = +x, counter-clockwise
	Radius float64    // collision radius
}

// Integrate advances position by velocity over dt seconds.
func (b *Body) Integrate(dt float64) {
	b.Pos = b.Pos.Add(b.Vel.Mul(dt))
}

// Speed returns the velocity magnitude.
func (b *Body) Speed() float64 {
	return b.Vel.Len()
}

// Overlaps reports whether the collision circles of two bodies intersect.
func (b *Body) Overlaps(o *Body) bool {
	return physics.CirclesOverlap(b.Pos, b.Radius, o.Pos, o.Radius)
}

// Field is the play area [0,Width]x[0,Height].
type Field struct {
	Width, Height float64
}

// Wrap moves a body that has left the field completely to the opposite edge.
// Bodies that are even partially inside are not touched.
func (f Field) Wrap(b *Body) {
	switch {
	case b.Pos[0]+b.Radius < 0:
		b.Pos[0] += f.Width
	case b.Pos[0]-b.Radius > f.Width:
		b.Pos[0] -= f.Width
	}
	switch {
	case b.Pos[1]+b.Radius < 0:
		b.Pos[1] += f.Height
	case b.Pos[1]-b.Radius > f.Height:
		b.Pos[1] -= f.Height
	}
}

// Outside reports whether a body has left the field completely.
func (f Field) Outside(b *Body) bool {
	return b.Pos[0]+b.Radius < 0 || b.Pos[0]-b.Radius > f.Width ||
		b.Pos[1]+b.Radius < 0 || b.Pos[1]-b.Radius > f.Height
}

// Center returns the middle of the field.
func (f Field) Center() mgl64.Vec2 {
	return mgl64.Vec2{f.Width / 2, f.Height / 2}
}

// RandomPoint returns a uniformly distributed point inside the field.
func (f Field) RandomPoint(rng Rand) mgl64.Vec2 {
	return mgl64.Vec2{rng.Float64() * f.Width, rng.Float64() * f.Height}
}

// Move integrates a body and wraps it around the field.
func Move(b *Body, dt float64, f Field) {
	b.Integrate(dt)
	f.Wrap(b)
}

// Heading returns the unit vector for an angle in degrees.
func Heading(deg float64) mgl64.Vec2 {
	rad := mgl64.DegToRad(deg)
	return mgl64.Vec2{math.Cos(rad), math.Sin(rad)}
}

// AngleTo returns the angle in degrees of the direction from one point to another.
func AngleTo(from, to mgl64.Vec2) float64 {
	d := to.Sub(from)
	return mgl64.RadToDeg(math.Atan2(d.Y(), d.X()))
}

// Rand is the subset of *rand.Rand entities draw from. Sessions inject a seeded
// source so tests are reproducible.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// uniform returns a value in [lo, hi).
func uniform(rng Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
