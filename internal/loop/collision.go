package loop

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/asteroids/internal/audio"
	"github.com/tomz197/asteroids/internal/object"
)

// Explosion particle bursts.
const (
	shipExplosionParticles     = 20
	asteroidExplosionParticles = 8
	ufoExplosionParticles      = 14
	explosionSpeed             = 25.0
	explosionLifetime          = 1.0
)

// checkCollisions resolves every collision rule in order. It reports true if
// the player lost the last life, in which case nothing after the fatal hit is
// resolved.
func (s *Session) checkCollisions() (dead bool) {
	if s.checkPlayerUFOShots() {
		return true
	}
	if s.checkPlayerAsteroids() {
		return true
	}
	s.checkPlayerPowerUps()
	if s.checkPlayerUFOs() {
		return true
	}
	s.checkShotUFOs()
	s.checkShotAsteroids()

	s.Asteroids = append(s.Asteroids, s.spawnedAsteroids...)
	clear(s.spawnedAsteroids)
	s.spawnedAsteroids = s.spawnedAsteroids[:0]
	return false
}

// playerVulnerable reports whether hostile contact counts this tick.
func (s *Session) playerVulnerable() bool {
	return s.Player.Visible() && !s.Player.IsInvincible()
}

// checkPlayerUFOShots handles UFO shots hitting the ship.
func (s *Session) checkPlayerUFOShots() bool {
	if !s.playerVulnerable() {
		return false
	}
	for _, sh := range s.UFOShots {
		if sh.IsDestroyed() || !sh.Overlaps(&s.Player.Body) {
			continue
		}
		sh.MarkDestroyed()
		return s.hitPlayer()
	}
	return false
}

// checkPlayerAsteroids handles the ship ramming an asteroid. The asteroid is
// destroyed without splitting and without score.
func (s *Session) checkPlayerAsteroids() bool {
	if !s.playerVulnerable() {
		return false
	}
	for _, a := range s.Asteroids {
		if a.IsDestroyed() || !a.Overlaps(&s.Player.Body) {
			continue
		}
		a.MarkDestroyed()
		s.explode(a.Pos, asteroidExplosionParticles)
		s.emit(Event{Kind: EventAsteroidDestroyed, Pos: a.Pos, Size: a.Size})
		return s.hitPlayer()
	}
	return false
}

// checkPlayerPowerUps applies every power-up the visible ship touches.
func (s *Session) checkPlayerPowerUps() {
	if !s.Player.Visible() {
		return
	}
	for _, pu := range s.PowerUps {
		if pu.IsDestroyed() || !pu.Overlaps(&s.Player.Body) {
			continue
		}
		s.applyPowerUp(pu)
	}
}

func (s *Session) applyPowerUp(pu *object.PowerUp) {
	eff := pu.Collect()
	s.score += eff.Score
	if eff.FireRateMultiplier != 1 {
		s.Player.ApplyFireRate(eff.FireRateMultiplier)
	}
	s.sfx.Play(audio.ClipPowerUp)
	s.log.Debug("power-up collected", "kind", pu.Kind, "score", eff.Score, "lives", eff.Lives)
	s.emit(Event{Kind: EventPowerUpCollected, Pos: pu.Pos, Points: eff.Score, PowerUp: pu.Kind})

	if eff.Lives > 0 {
		s.Player.Lives += eff.Lives
		s.emit(Event{Kind: EventExtraLife, Pos: pu.Pos, Lives: s.Player.Lives})
	}
}

// checkPlayerUFOs handles the ship colliding with a saucer. The saucer is
// destroyed without the bonus.
func (s *Session) checkPlayerUFOs() bool {
	if !s.playerVulnerable() {
		return false
	}
	for _, u := range s.UFOs {
		if u.IsDestroyed() || !u.Overlaps(&s.Player.Body) {
			continue
		}
		u.Destroy()
		s.explode(u.Pos, ufoExplosionParticles)
		s.emit(Event{Kind: EventUFODestroyed, Pos: u.Pos})
		return s.hitPlayer()
	}
	return false
}

// checkShotUFOs awards the UFO bonus for player shots hitting saucers.
func (s *Session) checkShotUFOs() {
	for _, sh := range s.Shots {
		if sh.IsDestroyed() {
			continue
		}
		for _, u := range s.UFOs {
			if u.IsDestroyed() || !sh.Overlaps(&u.Body) {
				continue
			}
			sh.MarkDestroyed()
			u.Destroy()
			s.score += s.cfg.UFOBonus
			s.explode(u.Pos, ufoExplosionParticles)
			s.log.Debug("ufo destroyed", "score", s.score)
			s.emit(Event{Kind: EventUFODestroyed, Pos: u.Pos, Points: s.cfg.UFOBonus})
			break
		}
	}
}

// checkShotAsteroids resolves player shots against asteroids. Each shot hits at
// most one asteroid per tick: the earliest one in the collection it overlaps.
func (s *Session) checkShotAsteroids() {
	if len(s.Shots) == 0 || len(s.Asteroids) == 0 {
		return
	}

	s.grid.Clear()
	for i, a := range s.Asteroids {
		if !a.IsDestroyed() {
			s.grid.Insert(a.Pos, i)
		}
	}

	for _, sh := range s.Shots {
		if sh.IsDestroyed() {
			continue
		}

		hit := -1
		s.grid.QueryAround(sh.Pos, func(i int) bool {
			a := s.Asteroids[i]
			if !a.IsDestroyed() && (hit < 0 || i < hit) && sh.Overlaps(&a.Body) {
				hit = i
			}
			return false
		})
		if hit < 0 {
			continue
		}

		a := s.Asteroids[hit]
		sh.MarkDestroyed()
		s.destroyAsteroid(a, sh.Angle)
	}
}

// destroyAsteroid scores a shot-down asteroid and queues its split products.
// hitAngle is the direction the shot travelled into it.
func (s *Session) destroyAsteroid(a *object.Asteroid, hitAngle float64) {
	a.MarkDestroyed()
	s.score += a.Value
	s.explode(a.Pos, asteroidExplosionParticles)
	s.log.Debug("asteroid destroyed", "size", a.Size, "score", s.score)
	s.emit(Event{Kind: EventAsteroidDestroyed, Pos: a.Pos, Points: a.Value, Size: a.Size})

	if a.Size <= object.AsteroidSmall {
		return
	}
	child := a.Size - 1
	for i, n := 0, s.cfg.AsteroidSplitCount; i < n; i++ {
		s.spawnedAsteroids = append(s.spawnedAsteroids,
			object.NewAsteroid(s.cfg, s.rng, child, a.Pos, hitAngle, a.Level))
	}
}

// hitPlayer costs the ship a life. It reports true when that was the last one
// and the game is over.
func (s *Session) hitPlayer() (dead bool) {
	pos := s.Player.Pos
	s.stopHum()
	object.SpawnExplosion(s.rng, pos, shipExplosionParticles, explosionSpeed, explosionLifetime, s)
	s.sfx.Play(audio.ClipPlayerHit)

	dead = s.Player.ApplyDamage()
	s.log.Debug("player hit", "lives", s.Player.Lives)
	s.emit(Event{Kind: EventPlayerHit, Pos: pos, Lives: s.Player.Lives})

	if dead {
		s.gameOver()
	}
	return dead
}

func (s *Session) explode(pos mgl64.Vec2, count int) {
	object.SpawnExplosion(s.rng, pos, count, explosionSpeed, explosionLifetime, s)
	s.sfx.Play(audio.ClipExplosion)
}
