// Package physics provides collision detection and distance utilities.
package physics

import "github.com/go-gl/mathgl/mgl64"

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b mgl64.Vec2) float64 {
	d := b.Sub(a)
	return d.Dot(d)
}

// PointInCircle checks if a point is within radius of a target position.
func PointInCircle(p, center mgl64.Vec2, radius float64) bool {
	return DistanceSquared(p, center) <= radius*radius
}

// CirclesOverlap checks if two circles overlap.
func CirclesOverlap(p1 mgl64.Vec2, r1 float64, p2 mgl64.Vec2, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(p1, p2) < minDist*minDist
}
