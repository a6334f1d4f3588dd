package object

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Star is background decoration. It twinkles and drifts left, bigger stars faster.
type Star struct {
	Body

	Size      float64 // 1..3
	Alpha     float64 // 0..255
	fadePos   float64 // radians
	fadeSpeed float64 // radians per reference frame
}

// NewStar places a star at a random point with a random twinkle phase.
func NewStar(rng Rand, f Field) *Star {
	s := &Star{
		Body:      Body{Pos: f.RandomPoint(rng)},
		Size:      1 + float64(rng.Intn(3)),
		fadePos:   rng.Float64() * 2 * math.Pi,
		fadeSpeed: 0.02 + rng.Float64()*0.06,
	}
	s.twinkle()
	return s
}

// Update advances the twinkle and the parallax drift.
func (s *Star) Update(dt, drift float64, f Field) {
	s.fadePos = math.Mod(s.fadePos+s.fadeSpeed*dt*ReferenceFPS, 2*math.Pi)
	s.twinkle()

	s.Vel = mgl64.Vec2{-drift * s.Size, 0}
	Move(&s.Body, dt, f)
}

// Bright reports whether the star is in the brighter half of its twinkle.
func (s *Star) Bright() bool {
	return s.Alpha >= 128
}

func (s *Star) twinkle() {
	s.Alpha = math.Min(128+128*math.Cos(s.fadePos), 255)
}
