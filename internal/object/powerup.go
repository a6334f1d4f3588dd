package object

import (
	"github.com/tomz197/asteroids/internal/config"
)

// PowerUpKind selects an entry of the power-up table.
type PowerUpKind int

const (
	ScoreGreen PowerUpKind = iota
	ScoreYellow
	ScoreRed
	ShieldGreen
	ShieldYellow
	ShieldRed
	powerUpKindCount
)

// Effect is what collecting a power-up grants, applied once by the game loop.
type Effect struct {
	Score              int
	Lives              int
	FireRateMultiplier float64 // 1 = unchanged, < 1 = faster
}

// Stronger kinds expire sooner.
var powerUpTable = [powerUpKindCount]struct {
	name     string
	effect   Effect
	lifetime float64
}{
	ScoreGreen:   {"score_green", Effect{Score: 250, FireRateMultiplier: 1}, 12},
	ScoreYellow:  {"score_yellow", Effect{Score: 500, FireRateMultiplier: 1}, 9},
	ScoreRed:     {"score_red", Effect{Score: 1000, FireRateMultiplier: 1}, 6},
	ShieldGreen:  {"shield_green", Effect{FireRateMultiplier: 0.8}, 12},
	ShieldYellow: {"shield_yellow", Effect{Lives: 1, FireRateMultiplier: 1}, 9},
	ShieldRed:    {"shield_red", Effect{Lives: 1, FireRateMultiplier: 0.7}, 6},
}

func (k PowerUpKind) String() string {
	if k < 0 || k >= powerUpKindCount {
		return "unknown"
	}
	return powerUpTable[k].name
}

// Effect returns the bundle granted by this kind.
func (k PowerUpKind) Effect() Effect {
	return powerUpTable[k].effect
}

// Lifetime returns how long this kind stays on the field, in seconds.
func (k PowerUpKind) Lifetime() float64 {
	return powerUpTable[k].lifetime
}

// PowerUp is a timed pickup drifting across the field.
type PowerUp struct {
	Body

	Kind PowerUpKind
	Life float64 // seconds left

	collected bool
}

// NewPowerUp creates a power-up of a uniformly random kind at a random position.
func NewPowerUp(cfg config.Tunables, rng Rand, f Field) *PowerUp {
	kind := PowerUpKind(rng.Intn(int(powerUpKindCount)))
	return &PowerUp{
		Body: Body{
			Pos:    f.RandomPoint(rng),
			Vel:    Heading(RandomAngle(rng)).Mul(cfg.PowerUpSpeed),
			Radius: cfg.PowerUpRadius,
		},
		Kind: kind,
		Life: kind.Lifetime(),
	}
}

// Collect marks the power-up as taken and returns its effect.
func (p *PowerUp) Collect() Effect {
	p.collected = true
	return p.Kind.Effect()
}

// IsDestroyed reports whether the power-up has been collected.
func (p *PowerUp) IsDestroyed() bool {
	return p.collected
}

// Update moves the power-up and runs down its lifetime. Returns true if it should be removed.
func (p *PowerUp) Update(dt float64, f Field) bool {
	if p.collected {
		return true
	}
	Move(&p.Body, dt, f)
	p.Life -= dt
	return p.Life <= 0
}
