// Package config centralizes all tunable game parameters.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/BurntSushi/toml"
)

// Configuration errors. Both are fatal at session start.
var (
	ErrMissingTunable = errors.New("missing tunable")
	ErrInvalidTunable = errors.New("invalid tunable")
)

//go:embed defaults.toml
var defaultsTOML string

// Tunables is the immutable parameter bundle a game session is built from.
// Load it once, then pass it by value.
type Tunables struct {
	TickRate int `toml:"tick_rate"`

	FieldWidth  float64 `toml:"field_width"`
	FieldHeight float64 `toml:"field_height"`

	PlayerLives         int     `toml:"player_lives"`
	PlayerStartX        float64 `toml:"player_start_x"`
	PlayerStartY        float64 `toml:"player_start_y"`
	PlayerRadius        float64 `toml:"player_radius"`
	PlayerThrust        float64 `toml:"player_thrust"`        // units/s²
	PlayerSpeedLimit    float64 `toml:"player_speed_limit"`   // units/s
	PlayerRotateSpeed   float64 `toml:"player_rotate_speed"`  // degrees/s
	PlayerFireRate      float64 `toml:"player_fire_rate"`     // seconds between shots
	PlayerFireRateFloor float64 `toml:"player_fire_rate_floor"`
	PlayerInvincibility float64 `toml:"player_invincibility"` // full respawn grace period
	PlayerVisibleTail   float64 `toml:"player_visible_tail"`  // visible part at the end of the grace period
	PlayerSpawnAngleMin float64 `toml:"player_spawn_angle_min"`
	PlayerSpawnAngleMax float64 `toml:"player_spawn_angle_max"`
	PlayerSpawnSpeedMin float64 `toml:"player_spawn_speed_min"`
	PlayerSpawnSpeedMax float64 `toml:"player_spawn_speed_max"`

	ShotSpeed     float64 `toml:"shot_speed"`
	ShotRange     float64 `toml:"shot_range"`
	ShotFadeStart float64 `toml:"shot_fade_start"`
	ShotFadeSpeed float64 `toml:"shot_fade_speed"` // alpha multiplier per 60 Hz tick
	ShotRadius    float64 `toml:"shot_radius"`

	AsteroidBaseCount        int     `toml:"asteroid_base_count"`
	AsteroidPerLevel         int     `toml:"asteroid_per_level"`
	AsteroidSplitCount       int     `toml:"asteroid_split_count"`
	AsteroidSpread           float64 `toml:"asteroid_spread"`
	AsteroidSpeed            float64 `toml:"asteroid_speed"`
	AsteroidLevelSpeed       float64 `toml:"asteroid_level_speed"`
	AsteroidMinSpawnDistance float64 `toml:"asteroid_min_spawn_distance"`

	ScoreSmall  int `toml:"score_small"`
	ScoreMedium int `toml:"score_medium"`
	ScoreLarge  int `toml:"score_large"`

	UFOSpawnRate         float64 `toml:"ufo_spawn_rate"`
	UFOSpawnRatePerLevel float64 `toml:"ufo_spawn_rate_per_level"`
	UFOSpawnRateFloor    float64 `toml:"ufo_spawn_rate_floor"`
	UFOSpeed             float64 `toml:"ufo_speed"`
	UFOLevelSpeed        float64 `toml:"ufo_level_speed"`
	UFODirChangeRate     float64 `toml:"ufo_dir_change_rate"`
	UFODirJitter         float64 `toml:"ufo_dir_jitter"`
	UFOFireRate          float64 `toml:"ufo_fire_rate"`
	UFOLevelFireRate     float64 `toml:"ufo_level_fire_rate"`
	UFOFireRateFloor     float64 `toml:"ufo_fire_rate_floor"`
	UFOShotSpeed         float64 `toml:"ufo_shot_speed"`
	UFOShotRange         float64 `toml:"ufo_shot_range"`
	UFOBonus             int     `toml:"ufo_bonus"`
	UFORadiusSmall       float64 `toml:"ufo_radius_small"`
	UFORadiusBig         float64 `toml:"ufo_radius_big"`

	PowerUpPerLevel  int     `toml:"powerup_per_level"`
	PowerUpSpawnRate float64 `toml:"powerup_spawn_rate"`
	PowerUpSpeed     float64 `toml:"powerup_speed"`
	PowerUpRadius    float64 `toml:"powerup_radius"`

	StarCount int     `toml:"star_count"`
	StarDrift float64 `toml:"star_drift"`
}

// ShotTuning describes one kind of projectile.
type ShotTuning struct {
	Speed     float64
	Range     float64
	FadeStart float64
	FadeSpeed float64
	Radius    float64
}

// Default returns the built-in tunables. It panics if the embedded table is broken,
// which can only happen at development time.
func Default() Tunables {
	t, err := decodeDefaults()
	if err != nil {
		panic(err)
	}
	return t
}

// Load decodes the built-in table, then applies the overlay file at path (if path is
// non-empty) and validates the result. Unknown keys in the overlay are rejected.
func Load(path string) (Tunables, error) {
	t, err := decodeDefaults()
	if err != nil {
		return Tunables{}, err
	}

	if path != "" {
		md, err := toml.DecodeFile(path, &t)
		if err != nil {
			return Tunables{}, fmt.Errorf("config overlay %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Tunables{}, fmt.Errorf("config overlay %s: unknown keys %v", path, undecoded)
		}
	}

	if err := t.Validate(); err != nil {
		return Tunables{}, err
	}
	return t, nil
}

func decodeDefaults() (Tunables, error) {
	var t Tunables
	md, err := toml.Decode(defaultsTOML, &t)
	if err != nil {
		return Tunables{}, fmt.Errorf("default tunables: %w", err)
	}
	for _, key := range tunableKeys() {
		if !md.IsDefined(key) {
			return Tunables{}, fmt.Errorf("%w: %s", ErrMissingTunable, key)
		}
	}
	return t, nil
}

// tunableKeys lists the TOML key of every Tunables field.
func tunableKeys() []string {
	typ := reflect.TypeOf(Tunables{})
	keys := make([]string, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		if key := typ.Field(i).Tag.Get("toml"); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// Validate reports the first out-of-range tunable.
func (t Tunables) Validate() error {
	positive := []struct {
		key string
		val float64
	}{
		{"tick_rate", float64(t.TickRate)},
		{"field_width", t.FieldWidth},
		{"field_height", t.FieldHeight},
		{"player_lives", float64(t.PlayerLives)},
		{"player_radius", t.PlayerRadius},
		{"player_thrust", t.PlayerThrust},
		{"player_speed_limit", t.PlayerSpeedLimit},
		{"player_rotate_speed", t.PlayerRotateSpeed},
		{"player_fire_rate", t.PlayerFireRate},
		{"player_fire_rate_floor", t.PlayerFireRateFloor},
		{"player_invincibility", t.PlayerInvincibility},
		{"shot_speed", t.ShotSpeed},
		{"shot_range", t.ShotRange},
		{"shot_fade_speed", t.ShotFadeSpeed},
		{"shot_radius", t.ShotRadius},
		{"asteroid_base_count", float64(t.AsteroidBaseCount)},
		{"asteroid_split_count", float64(t.AsteroidSplitCount)},
		{"asteroid_speed", t.AsteroidSpeed},
		{"ufo_spawn_rate", t.UFOSpawnRate},
		{"ufo_spawn_rate_floor", t.UFOSpawnRateFloor},
		{"ufo_speed", t.UFOSpeed},
		{"ufo_dir_change_rate", t.UFODirChangeRate},
		{"ufo_fire_rate", t.UFOFireRate},
		{"ufo_fire_rate_floor", t.UFOFireRateFloor},
		{"ufo_shot_speed", t.UFOShotSpeed},
		{"ufo_shot_range", t.UFOShotRange},
		{"ufo_radius_small", t.UFORadiusSmall},
		{"ufo_radius_big", t.UFORadiusBig},
		{"powerup_spawn_rate", t.PowerUpSpawnRate},
		{"powerup_radius", t.PowerUpRadius},
	}
	for _, p := range positive {
		if !(p.val > 0) {
			return fmt.Errorf("%w: %s must be > 0, got %v", ErrInvalidTunable, p.key, p.val)
		}
	}

	nonNegative := []struct {
		key string
		val float64
	}{
		{"player_visible_tail", t.PlayerVisibleTail},
		{"player_spawn_speed_min", t.PlayerSpawnSpeedMin},
		{"shot_fade_start", t.ShotFadeStart},
		{"asteroid_per_level", float64(t.AsteroidPerLevel)},
		{"asteroid_spread", t.AsteroidSpread},
		{"asteroid_level_speed", t.AsteroidLevelSpeed},
		{"asteroid_min_spawn_distance", t.AsteroidMinSpawnDistance},
		{"score_small", float64(t.ScoreSmall)},
		{"score_medium", float64(t.ScoreMedium)},
		{"score_large", float64(t.ScoreLarge)},
		{"ufo_spawn_rate_per_level", t.UFOSpawnRatePerLevel},
		{"ufo_level_speed", t.UFOLevelSpeed},
		{"ufo_dir_jitter", t.UFODirJitter},
		{"ufo_bonus", float64(t.UFOBonus)},
		{"powerup_per_level", float64(t.PowerUpPerLevel)},
		{"powerup_speed", t.PowerUpSpeed},
		{"star_count", float64(t.StarCount)},
		{"star_drift", t.StarDrift},
	}
	for _, n := range nonNegative {
		if n.val < 0 {
			return fmt.Errorf("%w: %s must be >= 0, got %v", ErrInvalidTunable, n.key, n.val)
		}
	}

	switch {
	case t.PlayerFireRateFloor > t.PlayerFireRate:
		return fmt.Errorf("%w: player_fire_rate_floor exceeds player_fire_rate", ErrInvalidTunable)
	case t.PlayerVisibleTail > t.PlayerInvincibility:
		return fmt.Errorf("%w: player_visible_tail exceeds player_invincibility", ErrInvalidTunable)
	case t.PlayerSpawnAngleMin > t.PlayerSpawnAngleMax:
		return fmt.Errorf("%w: player_spawn_angle_min exceeds player_spawn_angle_max", ErrInvalidTunable)
	case t.PlayerSpawnSpeedMin > t.PlayerSpawnSpeedMax:
		return fmt.Errorf("%w: player_spawn_speed_min exceeds player_spawn_speed_max", ErrInvalidTunable)
	case t.ShotFadeSpeed > 1:
		return fmt.Errorf("%w: shot_fade_speed must be <= 1", ErrInvalidTunable)
	case t.ShotFadeStart > t.ShotRange:
		return fmt.Errorf("%w: shot_fade_start exceeds shot_range", ErrInvalidTunable)
	case t.AsteroidSpread > 180:
		return fmt.Errorf("%w: asteroid_spread must be <= 180", ErrInvalidTunable)
	case t.PlayerStartX < 0 || t.PlayerStartX > t.FieldWidth || t.PlayerStartY < 0 || t.PlayerStartY > t.FieldHeight:
		return fmt.Errorf("%w: player start position lies outside the field", ErrInvalidTunable)
	case t.AsteroidMinSpawnDistance >= t.farthestCornerFromStart():
		return fmt.Errorf("%w: asteroid_min_spawn_distance leaves no room to spawn", ErrInvalidTunable)
	}
	return nil
}

func (t Tunables) farthestCornerFromStart() float64 {
	dx := math.Max(t.PlayerStartX, t.FieldWidth-t.PlayerStartX)
	dy := math.Max(t.PlayerStartY, t.FieldHeight-t.PlayerStartY)
	return math.Hypot(dx, dy)
}

// AsteroidScore returns the score for destroying an asteroid of the given size tier.
func (t Tunables) AsteroidScore(size int) int {
	switch size {
	case 1:
		return t.ScoreSmall
	case 2:
		return t.ScoreMedium
	case 3:
		return t.ScoreLarge
	default:
		return 0
	}
}

// AsteroidCount is the number of asteroids seeded at the start of a level.
func (t Tunables) AsteroidCount(level int) int {
	return t.AsteroidBaseCount + levelSteps(level)*t.AsteroidPerLevel
}

// AsteroidSpeedFactor scales asteroid speed for a level.
func (t Tunables) AsteroidSpeedFactor(level int) float64 {
	return 1 + t.AsteroidLevelSpeed*float64(levelSteps(level))
}

// UFOSpeedAt is the UFO cruise speed for a level.
func (t Tunables) UFOSpeedAt(level int) float64 {
	return t.UFOSpeed * (1 + t.UFOLevelSpeed*float64(levelSteps(level)))
}

// UFOFireInterval is the time between UFO shots for a level.
func (t Tunables) UFOFireInterval(level int) float64 {
	return math.Max(t.UFOFireRate+t.UFOLevelFireRate*float64(levelSteps(level)), t.UFOFireRateFloor)
}

// UFOSpawnInterval is the time between UFO appearances for a level.
func (t Tunables) UFOSpawnInterval(level int) float64 {
	return math.Max(t.UFOSpawnRate-t.UFOSpawnRatePerLevel*float64(levelSteps(level)), t.UFOSpawnRateFloor)
}

// PlayerShot returns the tuning for shots fired by the player.
func (t Tunables) PlayerShot() ShotTuning {
	return ShotTuning{
		Speed:     t.ShotSpeed,
		Range:     t.ShotRange,
		FadeStart: t.ShotFadeStart,
		FadeSpeed: t.ShotFadeSpeed,
		Radius:    t.ShotRadius,
	}
}

// UFOShot returns the tuning for shots fired by UFOs.
// They share the player's fade curve, scaled to their own range.
func (t Tunables) UFOShot() ShotTuning {
	return ShotTuning{
		Speed:     t.UFOShotSpeed,
		Range:     t.UFOShotRange,
		FadeStart: t.UFOShotRange * t.ShotFadeStart / t.ShotRange,
		FadeSpeed: t.ShotFadeSpeed,
		Radius:    t.ShotRadius,
	}
}

// TickSeconds is the fixed simulation step.
func (t Tunables) TickSeconds() float64 {
	return 1 / float64(t.TickRate)
}

func levelSteps(level int) int {
	if level < 1 {
		return 0
	}
	return level - 1
}
