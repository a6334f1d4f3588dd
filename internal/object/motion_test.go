package object

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestWrapIsNoOpInsideField(t *testing.T) {
	f := Field{Width: 160, Height: 100}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		b := Body{Pos: f.RandomPoint(rng), Radius: rng.Float64() * 5}
		before := b.Pos
		f.Wrap(&b)
		f.Wrap(&b)
		if b.Pos != before {
			t.Fatalf("wrap moved in-field body from %v to %v", before, b.Pos)
		}
	}
}

func TestWrapUsesEdgesNotCenter(t *testing.T) {
	f := Field{Width: 100, Height: 50}

	tests := []struct {
		name string
		pos  mgl64.Vec2
		want mgl64.Vec2
	}{
		{"center past left, edge still inside", mgl64.Vec2{-1, 10}, mgl64.Vec2{-1, 10}},
		{"fully past left", mgl64.Vec2{-2.5, 10}, mgl64.Vec2{97.5, 10}},
		{"fully past right", mgl64.Vec2{102.5, 10}, mgl64.Vec2{2.5, 10}},
		{"fully below", mgl64.Vec2{10, -3}, mgl64.Vec2{10, 47}},
		{"fully above", mgl64.Vec2{10, 53}, mgl64.Vec2{10, 3}},
		{"corner", mgl64.Vec2{-3, 53}, mgl64.Vec2{97, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Body{Pos: tt.pos, Radius: 2}
			f.Wrap(&b)
			if !near(b.Pos[0], tt.want[0], 1e-9) || !near(b.Pos[1], tt.want[1], 1e-9) {
				t.Errorf("Wrap(%v) = %v, want %v", tt.pos, b.Pos, tt.want)
			}
		})
	}
}

func TestMoveIntegratesVelocity(t *testing.T) {
	f := Field{Width: 100, Height: 100}
	b := Body{Pos: mgl64.Vec2{10, 10}, Vel: mgl64.Vec2{30, -60}}
	Move(&b, 0.5, f)
	// (25, -20) is below the field and wraps to the top.
	if !near(b.Pos[0], 25, 1e-9) || !near(b.Pos[1], 80, 1e-9) {
		t.Errorf("Pos = %v, want [25 80]", b.Pos)
	}
}

func TestOutside(t *testing.T) {
	f := Field{Width: 100, Height: 100}
	if f.Outside(&Body{Pos: mgl64.Vec2{0, 50}, Radius: 1}) {
		t.Error("body on the edge is not outside")
	}
	if !f.Outside(&Body{Pos: mgl64.Vec2{-2, 50}, Radius: 1}) {
		t.Error("body past the edge should be outside")
	}
}

func TestHeadingAndAngleTo(t *testing.T) {
	h := Heading(90)
	if !near(h[0], 0, 1e-12) || !near(h[1], 1, 1e-12) {
		t.Errorf("Heading(90) = %v", h)
	}
	if got := AngleTo(mgl64.Vec2{0, 0}, mgl64.Vec2{-1, 0}); !near(got, 180, 1e-9) {
		t.Errorf("AngleTo = %v, want 180", got)
	}
}

func TestCountdown(t *testing.T) {
	c := NewCountdown(1)
	c.Tick(0.6)
	if c.Due() {
		t.Fatal("due too early")
	}
	c.Tick(0.6)
	if !c.Due() {
		t.Fatal("not due after interval")
	}
	c.Restart()
	if c.Due() || !near(c.Remaining(), 0.8, 1e-9) {
		t.Fatalf("after Restart remaining = %v, want 0.8", c.Remaining())
	}

	c.Tick(5)
	c.Restart()
	if c.Due() {
		t.Fatal("a long tick must not leave the countdown due after Restart")
	}

	c.Stop()
	c.Tick(100)
	if c.Due() || !c.Stopped() {
		t.Fatal("stopped countdown became due")
	}
}
