// Package audio defines the fire-and-forget sound sink the game loop talks to.
package audio

import "sync"

// Clip identifies a sound cue.
type Clip int

const (
	ClipPlayerShot Clip = iota
	ClipUFOShot
	ClipExplosion
	ClipPlayerHit
	ClipPowerUp
	ClipLevelUp
	ClipGameOver
	ClipThrust // looped engine hum
	clipCount
)

var clipNames = [clipCount]string{
	"player_shot", "ufo_shot", "explosion", "player_hit", "power_up", "level_up", "game_over", "thrust",
}

func (c Clip) String() string {
	if c < 0 || c >= clipCount {
		return "unknown"
	}
	return clipNames[c]
}

// Handle refers to a looping sound started with Sink.Loop. The zero Handle is
// never returned by Loop and is safe to Stop.
type Handle uint64

// Sink plays sound cues. Implementations must never block the caller.
type Sink interface {
	Play(c Clip)
	Loop(c Clip) Handle
	Stop(h Handle)
}

// Silent discards every cue.
type Silent struct{}

func (Silent) Play(Clip) {}

func (Silent) Loop(Clip) Handle { return 1 }

func (Silent) Stop(Handle) {}

// Recorder remembers every cue it is given. Tests use it to assert sound side effects.
type Recorder struct {
	mu      sync.Mutex
	played  []Clip
	looping map[Handle]Clip
	next    Handle
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{looping: make(map[Handle]Clip)}
}

func (r *Recorder) Play(c Clip) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.played = append(r.played, c)
}

func (r *Recorder) Loop(c Clip) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.looping[r.next] = c
	return r.next
}

func (r *Recorder) Stop(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.looping, h)
}

// Played returns a copy of the one-shot cues in order.
func (r *Recorder) Played() []Clip {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Clip(nil), r.played...)
}

// Count returns how many times c was played as a one-shot.
func (r *Recorder) Count(c Clip) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.played {
		if p == c {
			n++
		}
	}
	return n
}

// Looping reports whether a loop of c is currently running.
func (r *Recorder) Looping(c Clip) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, lc := range r.looping {
		if lc == c {
			return true
		}
	}
	return false
}
