package object

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/asteroids/internal/audio"
	"github.com/tomz197/asteroids/internal/config"
)

// Owner tells player shots from UFO shots.
type Owner int

const (
	OwnerPlayer Owner = iota
	OwnerUFO
)

// Shot is a projectile. It flies straight, wraps, fades near the end of its
// range and is removed once it has travelled further than Range.
type Shot struct {
	Body

	Owner     Owner
	Speed     float64
	Distance  float64 // travelled so far
	Range     float64
	FadeStart float64
	FadeSpeed float64 // alpha multiplier per reference frame
	Alpha     float64 // 1 = opaque

	destroyed bool
}

// NewShot creates a shot at pos heading along angle. If sfx is non-nil the
// owner's firing cue is played once.
func NewShot(owner Owner, pos mgl64.Vec2, angle float64, t config.ShotTuning, sfx audio.Sink) *Shot {
	s := &Shot{
		Body: Body{
			Pos:    pos,
			Vel:    Heading(angle).Mul(t.Speed),
			Angle:  angle,
			Radius: t.Radius,
		},
		Owner:     owner,
		Speed:     t.Speed,
		Range:     t.Range,
		FadeStart: t.FadeStart,
		FadeSpeed: t.FadeSpeed,
		Alpha:     1,
	}

	if sfx != nil {
		clip := audio.ClipPlayerShot
		if owner == OwnerUFO {
			clip = audio.ClipUFOShot
		}
		sfx.Play(clip)
	}
	return s
}

// Update moves the shot and applies fade. Returns true if the shot should be removed.
func (s *Shot) Update(dt float64, f Field) bool {
	if s.destroyed {
		return true
	}

	Move(&s.Body, dt, f)
	s.Distance += s.Speed * dt

	if s.Distance > s.FadeStart {
		s.Alpha *= math.Pow(s.FadeSpeed, dt*ReferenceFPS)
	}
	return s.Distance > s.Range
}

// MarkDestroyed marks the shot for removal.
func (s *Shot) MarkDestroyed() {
	s.destroyed = true
}

// IsDestroyed returns true if the shot is marked for removal.
func (s *Shot) IsDestroyed() bool {
	return s.destroyed
}
