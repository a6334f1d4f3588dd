package loop

import (
	"github.com/tomz197/asteroids/internal/audio"
	"github.com/tomz197/asteroids/internal/object"
)

// seedLevel fills the field for the current level: asteroids away from the
// start position, the level's power-ups and a fresh star field.
func (s *Session) seedLevel() {
	clear(s.Asteroids)
	s.Asteroids = s.Asteroids[:0]
	for i, n := 0, s.cfg.AsteroidCount(s.level); i < n; i++ {
		pos := object.RandomAsteroidPosition(s.cfg, s.rng, s.field)
		s.Asteroids = append(s.Asteroids,
			object.NewAsteroid(s.cfg, s.rng, object.AsteroidLarge, pos, object.RandomAngle(s.rng), s.level))
	}

	clear(s.PowerUps)
	s.PowerUps = s.PowerUps[:0]
	for i, n := 0, s.cfg.PowerUpPerLevel; i < n; i++ {
		s.spawnPowerUp()
	}

	s.seedStars()
}

func (s *Session) seedStars() {
	s.Stars = make([]*object.Star, 0, s.cfg.StarCount)
	for i, n := 0, s.cfg.StarCount; i < n; i++ {
		s.Stars = append(s.Stars, object.NewStar(s.rng, s.field))
	}
}

// nextLevel advances to the next level once the asteroid field is cleared.
// UFOs and shots already in flight stay.
func (s *Session) nextLevel() {
	s.level++
	s.ufoSpawn.SetInterval(s.cfg.UFOSpawnInterval(s.level))
	s.seedLevel()

	s.sfx.Play(audio.ClipLevelUp)
	s.log.Info("level up", "level", s.level, "asteroids", len(s.Asteroids), "score", s.score)
	s.emit(Event{Kind: EventLevelUp, Level: s.level})
}

func (s *Session) spawnUFO() {
	u := object.NewUFO(s.cfg, s.rng, s.level, s.field, s.Player, s, s.sfx)
	s.UFOs = append(s.UFOs, u)
	s.log.Debug("ufo spawned", "big", u.Big, "level", s.level)
}

func (s *Session) spawnPowerUp() {
	s.PowerUps = append(s.PowerUps, object.NewPowerUp(s.cfg, s.rng, s.field))
}
