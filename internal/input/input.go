package input

import (
	"bufio"
	"io"
	"sync"
	"time"

	"github.com/tomz197/asteroids/internal/config"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report presses, so a held key shows up as a stream of
// auto-repeated bytes.
const keyHoldDuration = 60 * time.Millisecond

const ctrlC = 0x03

// Stream delivers terminal input bytes via a channel and tracks when each bound
// action was last seen.
type Stream struct {
	ch       chan byte
	done     chan struct{} // closed by Close; stops the reader goroutine
	exited   chan struct{} // closed when the reader goroutine returns
	closed   bool
	bindings map[string]config.Action
	lastSeen map[config.Action]time.Time
	prevHeld map[config.Action]bool

	closeOnce sync.Once
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// Keys are decoded through km.
func StartStream(r io.Reader, km config.KeyMap) *Stream {
	s := newStream(km)
	br := bufio.NewReader(r)
	go func() {
		defer close(s.exited)
		for {
			b, err := br.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			select {
			case s.ch <- b:
			case <-s.done:
				return
			}
		}
	}()
	return s
}

func newStream(km config.KeyMap) *Stream {
	return &Stream{
		ch:       make(chan byte, 128),
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
		bindings: km.Bindings(),
		lastSeen: make(map[config.Action]time.Time),
		prevHeld: make(map[config.Action]bool),
	}
}

// Read drains all available bytes (non-blocking) and returns this tick's intent.
// activity reports whether any byte arrived. A closed input stream reads as Quit.
func (s *Stream) Read() (in Intent, activity bool) {
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in = s.apply(buf, time.Now())
	if s.closed {
		in.Quit = true
	}
	return in, len(buf) > 0
}

// Close stops delivering input. The reader goroutine exits once its pending
// read returns.
func (s *Stream) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Reset forgets all key state, so keys pressed on one screen don't leak into the next.
func (s *Stream) Reset() {
	clear(s.lastSeen)
	clear(s.prevHeld)
}

// apply decodes buf, records the actions seen at now and builds the intent.
func (s *Stream) apply(buf []byte, now time.Time) Intent {
	seen := make(map[config.Action]bool)
	quit := false

	for _, key := range decodeKeys(buf) {
		if key == "ctrl+c" {
			quit = true
			continue
		}
		if a, ok := s.bindings[key]; ok {
			s.lastSeen[a] = now
			seen[a] = true
		}
	}

	held := func(a config.Action) bool {
		t, ok := s.lastSeen[a]
		return ok && now.Sub(t) < keyHoldDuration
	}
	pressed := func(a config.Action) bool {
		return seen[a] && !s.prevHeld[a]
	}

	in := Intent{
		TurnLeft:       held(config.ActionTurnLeft),
		TurnRight:      held(config.ActionTurnRight),
		Thrust:         held(config.ActionThrust),
		Fire:           held(config.ActionFire),
		FirePressed:    pressed(config.ActionFire),
		RestartPressed: pressed(config.ActionRestart),
		BackPressed:    pressed(config.ActionBack),
		Quit:           quit || seen[config.ActionQuit],
	}

	for _, a := range config.Actions {
		s.prevHeld[a] = held(a)
	}
	return in
}

// decodeKeys splits raw terminal bytes into key names as used by config.KeyMap.
// Handles CSI arrow sequences; other escape sequences are dropped.
func decodeKeys(buf []byte) []string {
	var keys []string
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// Check for escape sequences (arrow keys, etc.)
		if b == '\x1b' && i+2 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
			// Skip parameter bytes up to the final byte
			j := i + 2
			for j < len(buf)-1 && buf[j] >= '0' && buf[j] <= '?' {
				j++
			}
			switch buf[j] {
			case 'A':
				keys = append(keys, config.KeyUp)
			case 'B':
				keys = append(keys, config.KeyDown)
			case 'C':
				keys = append(keys, config.KeyRight)
			case 'D':
				keys = append(keys, config.KeyLeft)
			}
			i = j
			continue
		}

		switch {
		case b == ctrlC:
			keys = append(keys, "ctrl+c")
		case b == ' ':
			keys = append(keys, config.KeySpace)
		case b == '\r' || b == '\n':
			keys = append(keys, config.KeyEnter)
		case b == '\x1b':
			keys = append(keys, config.KeyEsc)
		case b > ' ' && b < 0x7f:
			keys = append(keys, config.NormalizeKey(string(b)))
		}
	}
	return keys
}
