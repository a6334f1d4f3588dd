package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// BeepSink synthesizes every cue on the fly and plays it through the system speaker.
// Only one BeepSink may exist per process.
type BeepSink struct {
	mixer  *beep.Mixer
	volume float64

	mu    sync.Mutex
	loops map[Handle]*beep.Ctrl
	next  Handle
}

// NewBeepSink opens the speaker. Volume is linear, 1 = unchanged.
func NewBeepSink(volume float64) (*BeepSink, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("audio: init speaker: %w", err)
	}

	s := &BeepSink{
		mixer:  &beep.Mixer{},
		volume: volume,
		loops:  make(map[Handle]*beep.Ctrl),
	}
	speaker.Play(s.mixer)
	return s, nil
}

// Play starts a one-shot cue.
func (s *BeepSink) Play(c Clip) {
	st := clipStreamer(c)
	if st == nil {
		return
	}
	speaker.Lock()
	s.mixer.Add(withVolume(st, s.volume))
	speaker.Unlock()
}

// Loop starts c and keeps it running until Stop is called with the returned handle.
func (s *BeepSink) Loop(c Clip) Handle {
	st := clipStreamer(c)
	if st == nil {
		return 0
	}
	ctrl := &beep.Ctrl{Streamer: withVolume(st, s.volume)}

	speaker.Lock()
	s.mixer.Add(ctrl)
	speaker.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.loops[s.next] = ctrl
	return s.next
}

// Stop ends a loop. Unknown handles are ignored.
func (s *BeepSink) Stop(h Handle) {
	s.mu.Lock()
	ctrl, ok := s.loops[h]
	delete(s.loops, h)
	s.mu.Unlock()
	if !ok {
		return
	}

	// A Ctrl with no streamer reports drained and the mixer drops it.
	speaker.Lock()
	ctrl.Streamer = nil
	speaker.Unlock()
}

// Close silences everything still playing.
func (s *BeepSink) Close() {
	s.mu.Lock()
	clear(s.loops)
	s.mu.Unlock()

	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
}

func withVolume(st beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: st, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: st, Base: 2, Volume: math.Log2(vol)}
}

// clipStreamer builds a fresh streamer for one playback of c.
// Every clip except ClipThrust drains on its own.
func clipStreamer(c Clip) beep.Streamer {
	switch c {
	case ClipPlayerShot:
		return newTone(waveSquare, 880, -2400, 80*time.Millisecond, 18, 0.25)
	case ClipUFOShot:
		return newTone(waveSquare, 520, -900, 140*time.Millisecond, 10, 0.2)
	case ClipExplosion:
		return newTone(waveNoise, 0, 0, 350*time.Millisecond, 9, 0.5)
	case ClipPlayerHit:
		return beep.Mix(
			newTone(waveNoise, 0, 0, 600*time.Millisecond, 5, 0.5),
			newTone(waveSine, 110, -60, 600*time.Millisecond, 4, 0.4),
		)
	case ClipPowerUp:
		return newTone(waveSine, 660, 1800, 180*time.Millisecond, 3, 0.35)
	case ClipLevelUp:
		return beep.Seq(
			newTone(waveSine, 523.25, 0, 110*time.Millisecond, 4, 0.3),
			newTone(waveSine, 659.25, 0, 110*time.Millisecond, 4, 0.3),
			newTone(waveSine, 783.99, 0, 220*time.Millisecond, 4, 0.3),
		)
	case ClipGameOver:
		return beep.Seq(
			newTone(waveSine, 392, 0, 220*time.Millisecond, 3, 0.3),
			newTone(waveSine, 329.63, 0, 220*time.Millisecond, 3, 0.3),
			newTone(waveSine, 261.63, -40, 500*time.Millisecond, 2, 0.3),
		)
	case ClipThrust:
		return newHum()
	}
	return nil
}

type waveShape int

const (
	waveSine waveShape = iota
	waveSquare
	waveNoise
)

// tone is a single oscillator with a linear pitch slide and exponential decay.
type tone struct {
	wave  waveShape
	freq  float64 // Hz at the start
	slide float64 // Hz per second
	decay float64 // amplitude e-folds per second
	amp   float64
	total int // samples

	pos   int
	phase float64
	seed  uint32
}

func newTone(wave waveShape, freq, slide float64, d time.Duration, decay, amp float64) *tone {
	return &tone{
		wave:  wave,
		freq:  freq,
		slide: slide,
		decay: decay,
		amp:   amp,
		total: sampleRate.N(d),
		seed:  0x9e3779b9,
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}
		sec := float64(t.pos) / float64(sampleRate)

		var v float64
		switch t.wave {
		case waveSine:
			v = math.Sin(2 * math.Pi * t.phase)
		case waveSquare:
			v = 1
			if t.phase >= 0.5 {
				v = -1
			}
		case waveNoise:
			t.seed = t.seed*1664525 + 1013904223
			v = float64(t.seed)/float64(math.MaxUint32)*2 - 1
		}
		v *= t.amp * math.Exp(-t.decay*sec)

		samples[i][0] = v
		samples[i][1] = v

		f := math.Max(t.freq+t.slide*sec, 20)
		t.phase += f / float64(sampleRate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// hum is the endless engine rumble: low-passed noise over a low saw.
type hum struct {
	phase float64
	lp    float64
	seed  uint32
}

func newHum() *hum {
	return &hum{seed: 0x2545f491}
}

func (h *hum) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		h.seed = h.seed*1664525 + 1013904223
		noise := float64(h.seed)/float64(math.MaxUint32)*2 - 1
		h.lp += 0.08 * (noise - h.lp)

		saw := 2 * (h.phase - 0.5)
		h.phase += 55 / float64(sampleRate)
		h.phase -= math.Floor(h.phase)

		v := 0.35*h.lp + 0.08*saw
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (h *hum) Err() error { return nil }
