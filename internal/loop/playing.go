package loop

import (
	"github.com/tomz197/asteroids/internal/input"
	"github.com/tomz197/asteroids/internal/object"
)

// Tick advances the session by dt seconds using this tick's intent.
func (s *Session) Tick(dt float64, in input.Intent) {
	switch s.state {
	case StateIntro:
		s.updateDecor(dt)
		if in.RestartPressed || in.FirePressed {
			s.startGame()
		}
	case StateInGame:
		s.updatePlaying(dt, in)
		s.updateDecor(dt)
	case StateGameOver:
		// World stays frozen; only decoration moves.
		s.updateDecor(dt)
		switch {
		case in.RestartPressed:
			s.startGame()
		case in.BackPressed:
			s.setState(StateIntro)
		}
	}
}

// updatePlaying runs one in-game tick. The order of the steps is fixed.
func (s *Session) updatePlaying(dt float64, in input.Intent) {
	s.runUFOSchedules()
	s.steer(dt, in)

	if dead := s.checkCollisions(); dead {
		return
	}

	s.updateObjects(dt)

	if len(s.Asteroids) == 0 {
		s.nextLevel()
	}
}

// runUFOSchedules fires and turns every live UFO whose countdown has elapsed.
func (s *Session) runUFOSchedules() {
	for _, u := range s.UFOs {
		if u.IsDestroyed() {
			continue
		}
		if u.ShootTimer.Due() {
			u.Shoot()
			u.ShootTimer.Restart()
		}
		if u.DirTimer.Due() {
			u.ChangeDir(s.rng)
			u.DirTimer.Restart()
		}
	}
}

// steer applies turn, thrust and fire intent. A hidden ship ignores input.
func (s *Session) steer(dt float64, in input.Intent) {
	p := s.Player
	if !p.Visible() {
		s.stopHum()
		return
	}

	p.Turn(in.Turn(), dt)

	if in.Thrust {
		p.Thrust(dt)
		tail := p.Pos.Sub(object.Heading(p.Angle).Mul(p.Radius))
		object.SpawnThrust(s.rng, tail, p.Angle, s)
		s.startHum()
	} else {
		s.stopHum()
	}

	if (in.Fire || in.FirePressed) && p.Fire() {
		s.Shots = append(s.Shots, object.NewShot(object.OwnerPlayer, p.Nose(), p.Angle, s.cfg.PlayerShot(), s.sfx))
	}
}

// updateObjects advances every collection and drops what asked to be removed.
func (s *Session) updateObjects(dt float64) {
	f := s.field

	s.Player.Update(dt, f)

	s.Shots = compact(s.Shots, func(sh *object.Shot) bool { return sh.Update(dt, f) })
	s.UFOShots = compact(s.UFOShots, func(sh *object.Shot) bool { return sh.Update(dt, f) })
	s.Asteroids = compact(s.Asteroids, func(a *object.Asteroid) bool { return a.Update(dt, f) })
	s.UFOs = compact(s.UFOs, func(u *object.UFO) bool {
		if u.Update(dt, f) {
			u.Destroy()
			return true
		}
		return false
	})
	s.PowerUps = compact(s.PowerUps, func(p *object.PowerUp) bool { return p.Update(dt, f) })

	s.ufoSpawn.Tick(dt)
	if s.ufoSpawn.Due() {
		s.spawnUFO()
		s.ufoSpawn.Restart()
	}
	s.powerUpSpawn.Tick(dt)
	if s.powerUpSpawn.Due() {
		s.spawnPowerUp()
		s.powerUpSpawn.Restart()
	}
}

// updateDecor advances stars and particles. They never affect gameplay.
func (s *Session) updateDecor(dt float64) {
	for _, st := range s.Stars {
		st.Update(dt, s.cfg.StarDrift, s.field)
	}
	s.Particles = compact(s.Particles, func(p *object.Particle) bool {
		if p.Update(dt) {
			p.Release()
			return true
		}
		return false
	})
}
