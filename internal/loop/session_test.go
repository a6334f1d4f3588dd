package loop

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/asteroids/internal/audio"
	"github.com/tomz197/asteroids/internal/config"
	"github.com/tomz197/asteroids/internal/input"
	"github.com/tomz197/asteroids/internal/object"
)

const tick = 1.0 / 60

// playingSession starts a game and empties the field, so each test places
// exactly the entities it needs. The spawn schedulers are pushed far out.
func playingSession(t *testing.T) (*Session, *audio.Recorder) {
	t.Helper()

	rec := audio.NewRecorder()
	s, err := NewSession(config.Default(), WithRand(rand.New(rand.NewSource(7))), WithAudio(rec))
	if err != nil {
		t.Fatal(err)
	}
	s.Tick(tick, input.Intent{FirePressed: true})
	if s.State() != StateInGame {
		t.Fatalf("state = %v, want in_game", s.State())
	}

	s.Asteroids = nil
	s.PowerUps = nil
	s.UFOs = nil
	s.ufoSpawn = object.NewCountdown(1e6)
	s.powerUpSpawn = object.NewCountdown(1e6)
	s.DrainEvents()
	return s, rec
}

// rock places a motionless asteroid.
func rock(s *Session, size object.AsteroidSize, pos mgl64.Vec2) *object.Asteroid {
	a := object.NewAsteroid(s.cfg, s.rng, size, pos, 0, s.level)
	a.Vel = mgl64.Vec2{}
	s.Asteroids = append(s.Asteroids, a)
	return a
}

func playerShot(s *Session, pos mgl64.Vec2) *object.Shot {
	sh := object.NewShot(object.OwnerPlayer, pos, 0, s.cfg.PlayerShot(), nil)
	s.Shots = append(s.Shots, sh)
	return sh
}

func countEvents(events []Event, kind EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.FieldWidth = 0

	_, err := NewSession(cfg)
	if !errors.Is(err, config.ErrInvalidTunable) {
		t.Fatalf("err = %v, want ErrInvalidTunable", err)
	}
}

func TestNewSessionStartsOnIntro(t *testing.T) {
	s, err := NewSession(config.Default(), WithRand(rand.New(rand.NewSource(1))))
	if err != nil {
		t.Fatal(err)
	}
	if s.State() != StateIntro {
		t.Errorf("state = %v", s.State())
	}
	if len(s.Stars) != s.cfg.StarCount {
		t.Errorf("stars = %d, want %d", len(s.Stars), s.cfg.StarCount)
	}

	// Anything but start keys leaves the intro alone.
	s.Tick(tick, input.Intent{Thrust: true, BackPressed: true})
	if s.State() != StateIntro {
		t.Errorf("state = %v after unrelated input", s.State())
	}
}

func TestStartGameSeedsLevelOne(t *testing.T) {
	s, err := NewSession(config.Default(), WithRand(rand.New(rand.NewSource(3))))
	if err != nil {
		t.Fatal(err)
	}
	s.Tick(tick, input.Intent{RestartPressed: true})

	if s.State() != StateInGame || s.Score() != 0 || s.Level() != 1 || s.Lives() != 3 {
		t.Fatalf("state=%v score=%d level=%d lives=%d", s.State(), s.Score(), s.Level(), s.Lives())
	}
	if len(s.Asteroids) != s.cfg.AsteroidCount(1) {
		t.Errorf("asteroids = %d, want %d", len(s.Asteroids), s.cfg.AsteroidCount(1))
	}
	for _, a := range s.Asteroids {
		if a.Size != object.AsteroidLarge {
			t.Errorf("seeded asteroid size %d", a.Size)
		}
	}
	if len(s.PowerUps) != s.cfg.PowerUpPerLevel {
		t.Errorf("power-ups = %d, want %d", len(s.PowerUps), s.cfg.PowerUpPerLevel)
	}

	events := s.DrainEvents()
	if len(events) != 1 || events[0].Kind != EventStateChanged || events[0].State != StateInGame {
		t.Errorf("events = %+v", events)
	}
	if len(s.DrainEvents()) != 0 {
		t.Error("events not cleared by DrainEvents")
	}
}

func TestShotSplitsLargeAsteroid(t *testing.T) {
	s, _ := playingSession(t)
	a := rock(s, object.AsteroidLarge, mgl64.Vec2{20, 20})
	playerShot(s, a.Pos)

	s.Tick(tick, input.Intent{})

	if s.Score() != s.cfg.ScoreLarge {
		t.Errorf("score = %d, want %d", s.Score(), s.cfg.ScoreLarge)
	}
	if len(s.Asteroids) != s.cfg.AsteroidSplitCount {
		t.Fatalf("asteroids = %d, want %d", len(s.Asteroids), s.cfg.AsteroidSplitCount)
	}
	for _, c := range s.Asteroids {
		if c.Size != object.AsteroidMedium {
			t.Errorf("child size = %d, want medium", c.Size)
		}
	}
	if len(s.Shots) != 0 {
		t.Errorf("shot survived its hit")
	}
	if n := countEvents(s.DrainEvents(), EventAsteroidDestroyed); n != 1 {
		t.Errorf("asteroid events = %d", n)
	}
}

func TestSmallAsteroidLeavesNoChildren(t *testing.T) {
	s, _ := playingSession(t)
	rock(s, object.AsteroidLarge, mgl64.Vec2{140, 90})
	a := rock(s, object.AsteroidSmall, mgl64.Vec2{20, 20})
	playerShot(s, a.Pos)

	s.Tick(tick, input.Intent{})

	if len(s.Asteroids) != 1 {
		t.Errorf("asteroids = %d, want 1", len(s.Asteroids))
	}
	if s.Score() != s.cfg.ScoreSmall {
		t.Errorf("score = %d, want %d", s.Score(), s.cfg.ScoreSmall)
	}
}

func TestShotHitsOnlyOneAsteroid(t *testing.T) {
	s, _ := playingSession(t)
	first := rock(s, object.AsteroidMedium, mgl64.Vec2{20, 20})
	second := rock(s, object.AsteroidMedium, mgl64.Vec2{21, 20})
	playerShot(s, mgl64.Vec2{20.5, 20})

	s.Tick(tick, input.Intent{})

	if s.Score() != s.cfg.ScoreMedium {
		t.Errorf("score = %d, want %d", s.Score(), s.cfg.ScoreMedium)
	}
	if !first.IsDestroyed() {
		t.Error("earliest overlapping asteroid was not the one hit")
	}
	if second.IsDestroyed() {
		t.Error("one shot destroyed two asteroids")
	}
}

func TestLargeShotRadiusStillHits(t *testing.T) {
	cfg := config.Default()
	cfg.ShotRadius = 12
	s, err := NewSession(cfg, WithRand(rand.New(rand.NewSource(7))))
	if err != nil {
		t.Fatal(err)
	}
	s.Tick(tick, input.Intent{FirePressed: true})
	s.Asteroids = nil
	s.PowerUps = nil
	s.UFOs = nil
	s.ufoSpawn = object.NewCountdown(1e6)
	s.powerUpSpawn = object.NewCountdown(1e6)
	s.Player.Pos = mgl64.Vec2{140, 10}

	rock(s, object.AsteroidLarge, mgl64.Vec2{150, 90})
	a := rock(s, object.AsteroidLarge, mgl64.Vec2{40, 29.9})
	sh := playerShot(s, mgl64.Vec2{40, 46})
	sh.Vel = mgl64.Vec2{}
	if !sh.Overlaps(&a.Body) {
		t.Fatal("test setup: shot and asteroid must overlap")
	}

	s.Tick(tick, input.Intent{})

	if !a.IsDestroyed() {
		t.Error("overlapping asteroid two grid cells away was not hit")
	}
	if s.Score() != cfg.ScoreLarge {
		t.Errorf("score = %d, want %d", s.Score(), cfg.ScoreLarge)
	}
}

func TestTwoShotsOnOneAsteroidScoreOnce(t *testing.T) {
	s, _ := playingSession(t)
	rock(s, object.AsteroidLarge, mgl64.Vec2{140, 90})
	a := rock(s, object.AsteroidSmall, mgl64.Vec2{20, 20})
	playerShot(s, a.Pos)
	late := playerShot(s, a.Pos)

	s.Tick(tick, input.Intent{})

	if s.Score() != s.cfg.ScoreSmall {
		t.Errorf("score = %d, want %d", s.Score(), s.cfg.ScoreSmall)
	}
	if late.IsDestroyed() {
		t.Error("second shot was consumed by an already destroyed asteroid")
	}
}

func TestShotDestroysUFO(t *testing.T) {
	s, _ := playingSession(t)
	rock(s, object.AsteroidLarge, mgl64.Vec2{140, 90})
	u := object.NewUFO(s.cfg, s.rng, 1, s.field, s.Player, s, nil)
	u.Pos = mgl64.Vec2{30, 80}
	u.Vel = mgl64.Vec2{}
	s.UFOs = []*object.UFO{u}
	playerShot(s, u.Pos)

	s.Tick(tick, input.Intent{})

	if s.Score() != s.cfg.UFOBonus {
		t.Errorf("score = %d, want %d", s.Score(), s.cfg.UFOBonus)
	}
	if len(s.UFOs) != 0 {
		t.Error("ufo not removed")
	}
	if !u.ShootTimer.Stopped() || !u.DirTimer.Stopped() {
		t.Error("destroyed ufo kept its timers")
	}
}

func TestPlayerHitStartsGracePeriod(t *testing.T) {
	s, rec := playingSession(t)
	rock(s, object.AsteroidLarge, mgl64.Vec2{140, 90})
	rock(s, object.AsteroidLarge, s.Player.Pos)

	s.Tick(tick, input.Intent{})

	if s.Lives() != 2 {
		t.Errorf("lives = %d, want 2", s.Lives())
	}
	if s.Player.Visible() || !s.Player.IsInvincible() {
		t.Error("ship should be hidden and invincible after a hit")
	}
	if len(s.Asteroids) != 1 {
		t.Errorf("asteroids = %d; ramming must destroy without splitting", len(s.Asteroids))
	}
	if s.Score() != 0 {
		t.Errorf("ramming scored %d", s.Score())
	}
	if rec.Count(audio.ClipPlayerHit) != 1 {
		t.Error("hit cue not played")
	}
}

func TestInvinciblePlayerIgnoresHostiles(t *testing.T) {
	s, _ := playingSession(t)
	rock(s, object.AsteroidLarge, s.Player.Pos)
	s.UFOShots = []*object.Shot{object.NewShot(object.OwnerUFO, s.Player.Pos, 0, s.cfg.UFOShot(), nil)}
	s.Player.Invincible = 1

	s.Tick(tick, input.Intent{})

	if s.Lives() != 3 {
		t.Errorf("lives = %d, want 3", s.Lives())
	}
	if len(s.UFOShots) != 1 {
		t.Error("ufo shot consumed by an invincible ship")
	}
}

// saucer places a motionless UFO at pos.
func saucer(s *Session, pos mgl64.Vec2) *object.UFO {
	u := object.NewUFO(s.cfg, s.rng, 1, s.field, s.Player, s, nil)
	u.Pos = pos
	u.Vel = mgl64.Vec2{}
	s.UFOs = append(s.UFOs, u)
	return u
}

func TestUFORammingCostsLife(t *testing.T) {
	s, _ := playingSession(t)
	rock(s, object.AsteroidLarge, mgl64.Vec2{140, 90})
	u := saucer(s, s.Player.Pos)

	s.Tick(tick, input.Intent{})

	if s.Lives() != 2 {
		t.Errorf("lives = %d, want 2", s.Lives())
	}
	if s.Score() != 0 {
		t.Errorf("ramming a ufo scored %d", s.Score())
	}
	if len(s.UFOs) != 0 {
		t.Error("rammed ufo not removed")
	}
	if !u.ShootTimer.Stopped() || !u.DirTimer.Stopped() {
		t.Error("rammed ufo kept its timers")
	}
	events := s.DrainEvents()
	if countEvents(events, EventPlayerHit) != 1 || countEvents(events, EventUFODestroyed) != 1 {
		t.Errorf("events = %+v", events)
	}
}

func TestInvincibleShipPassesThroughUFO(t *testing.T) {
	s, _ := playingSession(t)
	rock(s, object.AsteroidLarge, mgl64.Vec2{140, 90})
	u := saucer(s, s.Player.Pos)
	s.Player.Invincible = 1

	s.Tick(tick, input.Intent{})

	if s.Lives() != 3 {
		t.Errorf("lives = %d, want 3", s.Lives())
	}
	if len(s.UFOs) != 1 || u.IsDestroyed() {
		t.Error("ufo destroyed by an invincible ship")
	}
}

func TestUFOShotHitsPlayer(t *testing.T) {
	s, _ := playingSession(t)
	rock(s, object.AsteroidLarge, mgl64.Vec2{140, 90})
	s.UFOShots = []*object.Shot{object.NewShot(object.OwnerUFO, s.Player.Pos, 0, s.cfg.UFOShot(), nil)}

	s.Tick(tick, input.Intent{})

	if s.Lives() != 2 {
		t.Errorf("lives = %d, want 2", s.Lives())
	}
	if len(s.UFOShots) != 0 {
		t.Error("hitting ufo shot not removed")
	}
}

func TestLastLifeEndsGameWithSnapshot(t *testing.T) {
	s, rec := playingSession(t)
	s.score = 1234
	s.level = 3
	s.Player.Lives = 1

	rock(s, object.AsteroidLarge, s.Player.Pos)
	// Would score if the tick carried on after the fatal hit.
	a := rock(s, object.AsteroidLarge, mgl64.Vec2{20, 20})
	playerShot(s, a.Pos)

	s.Tick(tick, input.Intent{Thrust: true})

	if s.State() != StateGameOver {
		t.Fatalf("state = %v, want game_over", s.State())
	}
	if s.Lives() != 0 {
		t.Errorf("lives = %d", s.Lives())
	}
	want := Result{Score: 1234, Level: 3}
	if s.Result() != want {
		t.Errorf("result = %+v, want %+v", s.Result(), want)
	}
	if a.IsDestroyed() {
		t.Error("collisions resolved after the fatal hit")
	}
	if rec.Looping(audio.ClipThrust) {
		t.Error("thrust hum still running after game over")
	}
	if rec.Count(audio.ClipGameOver) != 1 {
		t.Error("game over cue not played")
	}

	// The world stays frozen.
	pos := a.Pos
	a.Vel = mgl64.Vec2{5, 5}
	s.Tick(tick, input.Intent{})
	if a.Pos != pos {
		t.Error("asteroid moved on the game over screen")
	}
}

func TestGameOverRestartAndBack(t *testing.T) {
	s, _ := playingSession(t)
	s.score = 500
	s.level = 2
	s.Player.Lives = 1
	rock(s, object.AsteroidLarge, s.Player.Pos)
	s.Tick(tick, input.Intent{})
	if s.State() != StateGameOver {
		t.Fatalf("state = %v", s.State())
	}

	s.Tick(tick, input.Intent{FirePressed: true})
	if s.State() != StateGameOver {
		t.Error("fire alone must not restart from game over")
	}

	s.Tick(tick, input.Intent{RestartPressed: true})
	if s.State() != StateInGame || s.Score() != 0 || s.Level() != 1 || s.Lives() != s.cfg.PlayerLives {
		t.Fatalf("restart: state=%v score=%d level=%d lives=%d", s.State(), s.Score(), s.Level(), s.Lives())
	}

	s.Player.Lives = 1
	rock(s, object.AsteroidLarge, s.Player.Pos)
	s.Tick(tick, input.Intent{})
	s.Tick(tick, input.Intent{BackPressed: true})
	if s.State() != StateIntro {
		t.Errorf("back: state = %v, want intro", s.State())
	}
}

func TestFireRateGatesShots(t *testing.T) {
	s, rec := playingSession(t)
	rock(s, object.AsteroidLarge, mgl64.Vec2{10, 10})

	s.Tick(tick, input.Intent{Fire: true, FirePressed: true})
	if len(s.Shots) != 1 {
		t.Fatalf("shots = %d after first fire", len(s.Shots))
	}

	s.Tick(tick, input.Intent{Fire: true, FirePressed: true})
	if len(s.Shots) != 1 {
		t.Fatalf("shots = %d; second fire inside the interval went through", len(s.Shots))
	}

	for i := 0; i < 20; i++ {
		s.Tick(tick, input.Intent{})
	}
	s.Tick(tick, input.Intent{FirePressed: true})
	if got := rec.Count(audio.ClipPlayerShot); got != 2 {
		t.Errorf("shots fired = %d, want 2", got)
	}
}

func TestHeldFireKeepsTheConfiguredRate(t *testing.T) {
	s, rec := playingSession(t)
	rock(s, object.AsteroidLarge, mgl64.Vec2{140, 90})
	interval := int(math.Round(s.Player.FireRate / tick))

	var fired []int
	for i := 0; i <= 3*interval; i++ {
		before := rec.Count(audio.ClipPlayerShot)
		s.Tick(tick, input.Intent{Fire: true, FirePressed: true})
		if rec.Count(audio.ClipPlayerShot) > before {
			fired = append(fired, i)
		}
	}

	if len(fired) != 4 {
		t.Fatalf("shots on ticks %v, want 4 shots", fired)
	}
	for i := 1; i < len(fired); i++ {
		if gap := fired[i] - fired[i-1]; gap != interval {
			t.Errorf("gap between shots = %d ticks, want %d", gap, interval)
		}
	}
}

func TestPowerUpCollection(t *testing.T) {
	s, rec := playingSession(t)
	rock(s, object.AsteroidLarge, mgl64.Vec2{140, 90})
	s.Player.Invincible = 1 // pickups are not gated by invincibility
	s.PowerUps = []*object.PowerUp{{
		Body: object.Body{Pos: s.Player.Pos, Radius: s.cfg.PowerUpRadius},
		Kind: object.ShieldRed,
		Life: object.ShieldRed.Lifetime(),
	}}
	rate := s.Player.FireRate

	s.Tick(tick, input.Intent{})

	if s.Lives() != 4 {
		t.Errorf("lives = %d, want 4", s.Lives())
	}
	if want := rate * 0.7; s.Player.FireRate != want {
		t.Errorf("fire rate = %v, want %v", s.Player.FireRate, want)
	}
	if len(s.PowerUps) != 0 {
		t.Error("collected power-up not removed")
	}
	events := s.DrainEvents()
	if countEvents(events, EventPowerUpCollected) != 1 || countEvents(events, EventExtraLife) != 1 {
		t.Errorf("events = %+v", events)
	}
	if rec.Count(audio.ClipPowerUp) != 1 {
		t.Error("power-up cue not played")
	}
}

func TestScorePowerUp(t *testing.T) {
	s, _ := playingSession(t)
	rock(s, object.AsteroidLarge, mgl64.Vec2{140, 90})
	s.PowerUps = []*object.PowerUp{{
		Body: object.Body{Pos: s.Player.Pos, Radius: s.cfg.PowerUpRadius},
		Kind: object.ScoreYellow,
		Life: object.ScoreYellow.Lifetime(),
	}}

	s.Tick(tick, input.Intent{})

	if s.Score() != 500 {
		t.Errorf("score = %d, want 500", s.Score())
	}
	if s.Lives() != 3 {
		t.Errorf("lives = %d, want 3", s.Lives())
	}
}

func TestClearedFieldAdvancesLevel(t *testing.T) {
	s, rec := playingSession(t)
	s.score = 40

	s.Tick(tick, input.Intent{})

	if s.Level() != 2 {
		t.Fatalf("level = %d, want 2", s.Level())
	}
	if want := s.cfg.AsteroidCount(2); len(s.Asteroids) != want {
		t.Errorf("asteroids = %d, want %d", len(s.Asteroids), want)
	}
	for _, a := range s.Asteroids {
		if a.Level != 2 {
			t.Errorf("asteroid level tag = %d", a.Level)
		}
	}
	if s.Score() != 40 {
		t.Errorf("score changed on level up: %d", s.Score())
	}
	if countEvents(s.DrainEvents(), EventLevelUp) != 1 {
		t.Error("no level up event")
	}
	if rec.Count(audio.ClipLevelUp) != 1 {
		t.Error("level up cue not played")
	}
}

func TestUFOFiresWhenTimerElapses(t *testing.T) {
	s, rec := playingSession(t)
	rock(s, object.AsteroidLarge, mgl64.Vec2{140, 90})
	u := object.NewUFO(s.cfg, s.rng, 1, s.field, s.Player, s, rec)
	u.Pos = mgl64.Vec2{20, 80}
	u.Vel = mgl64.Vec2{}
	u.ShootTimer = object.NewCountdown(tick / 2)
	s.UFOs = []*object.UFO{u}

	s.Tick(tick, input.Intent{})
	if len(s.UFOShots) != 0 {
		t.Fatal("ufo fired before its timer elapsed")
	}

	s.Tick(tick, input.Intent{})
	if len(s.UFOShots) != 1 {
		t.Fatalf("ufo shots = %d, want 1", len(s.UFOShots))
	}
	if rec.Count(audio.ClipUFOShot) != 1 {
		t.Error("ufo shot cue not played")
	}
}

func TestDestroyedUFONeverFires(t *testing.T) {
	s, _ := playingSession(t)
	rock(s, object.AsteroidLarge, mgl64.Vec2{140, 90})
	u := object.NewUFO(s.cfg, s.rng, 1, s.field, s.Player, s, nil)
	u.Pos = mgl64.Vec2{20, 80}
	u.ShootTimer = object.NewCountdown(0)
	s.UFOs = []*object.UFO{u}

	u.Destroy()
	s.Tick(tick, input.Intent{})

	if len(s.UFOShots) != 0 {
		t.Error("destroyed ufo fired")
	}
	if len(s.UFOs) != 0 {
		t.Error("destroyed ufo not removed")
	}
}

func TestUFOLeavingFieldIsRemoved(t *testing.T) {
	s, _ := playingSession(t)
	rock(s, object.AsteroidLarge, mgl64.Vec2{140, 90})
	u := object.NewUFO(s.cfg, s.rng, 1, s.field, s.Player, s, nil)
	u.Pos = mgl64.Vec2{-10, 50}
	u.Vel = mgl64.Vec2{-1, 0}
	s.UFOs = []*object.UFO{u}

	s.Tick(tick, input.Intent{})

	if len(s.UFOs) != 0 {
		t.Error("ufo outside the field kept")
	}
	if !u.ShootTimer.Stopped() {
		t.Error("timers of a departed ufo still armed")
	}
}

func TestUFOSpawnScheduler(t *testing.T) {
	s, _ := playingSession(t)
	rock(s, object.AsteroidLarge, mgl64.Vec2{140, 90})
	s.ufoSpawn = object.NewCountdown(tick / 2)

	s.Tick(tick, input.Intent{})

	if len(s.UFOs) != 1 {
		t.Fatalf("ufos = %d, want 1", len(s.UFOs))
	}
	if s.UFOs[0].Target != s.Player {
		t.Error("ufo not aimed at the player")
	}
}

func TestThrustHumFollowsInput(t *testing.T) {
	s, rec := playingSession(t)
	rock(s, object.AsteroidLarge, mgl64.Vec2{140, 90})

	s.Tick(tick, input.Intent{Thrust: true})
	if !rec.Looping(audio.ClipThrust) {
		t.Fatal("hum not started")
	}
	if s.Player.Speed() == 0 {
		t.Error("thrust did not accelerate the ship")
	}
	if len(s.Particles) == 0 {
		t.Error("no exhaust particles")
	}

	s.Tick(tick, input.Intent{Thrust: true})
	s.Tick(tick, input.Intent{})
	if rec.Looping(audio.ClipThrust) {
		t.Error("hum still running after release")
	}
}

func TestHiddenShipIgnoresInput(t *testing.T) {
	s, _ := playingSession(t)
	rock(s, object.AsteroidLarge, mgl64.Vec2{140, 90})
	s.Player.Reset()
	angle := s.Player.Angle

	s.Tick(tick, input.Intent{TurnLeft: true, Fire: true, FirePressed: true})

	if s.Player.Angle != angle || len(s.Shots) != 0 {
		t.Error("hidden ship reacted to input")
	}
}

func TestCompact(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	got := compact(items, func(i int) bool { return i%2 == 0 })
	if len(got) != 3 || got[0] != 1 || got[1] != 3 || got[2] != 5 {
		t.Errorf("compact = %v", got)
	}
	if items[3] != 0 || items[4] != 0 {
		t.Error("tail not cleared")
	}
}
