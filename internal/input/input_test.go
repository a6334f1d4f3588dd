package input

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/asteroids/internal/config"
)

func TestDecodeKeys(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a", []string{"a"}},
		{"A", []string{"a"}},
		{" \r", []string{config.KeySpace, config.KeyEnter}},
		{"\x1b[A\x1b[D", []string{config.KeyUp, config.KeyLeft}},
		{"\x1bOC", []string{config.KeyRight}},
		{"\x1b", []string{config.KeyEsc}},
		{"\x1b[5~", nil},
		{"\x03", []string{"ctrl+c"}},
		{"\x7f\t", nil},
	}
	for _, tt := range tests {
		got := decodeKeys([]byte(tt.in))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("decodeKeys(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHeldKeysExpire(t *testing.T) {
	s := newStream(config.DefaultKeyMap())
	now := time.Unix(100, 0)

	in := s.apply([]byte("w"), now)
	if !in.Thrust {
		t.Fatal("thrust not held right after press")
	}
	in = s.apply(nil, now.Add(keyHoldDuration/2))
	if !in.Thrust {
		t.Fatal("thrust released too early")
	}
	in = s.apply(nil, now.Add(keyHoldDuration))
	if in.Thrust {
		t.Fatal("thrust still held after the hold window")
	}
}

func TestPressedEdgesFireOnce(t *testing.T) {
	s := newStream(config.DefaultKeyMap())
	now := time.Unix(100, 0)

	in := s.apply([]byte(" "), now)
	if !in.Fire || !in.FirePressed {
		t.Fatalf("first press: %+v", in)
	}

	// Auto-repeat while still held is not a new edge.
	in = s.apply([]byte(" "), now.Add(20*time.Millisecond))
	if !in.Fire || in.FirePressed {
		t.Fatalf("repeat: %+v", in)
	}

	// Released, then pressed again.
	s.apply(nil, now.Add(200*time.Millisecond))
	in = s.apply([]byte(" "), now.Add(220*time.Millisecond))
	if !in.FirePressed {
		t.Fatal("second press did not register an edge")
	}
}

func TestCustomKeyMap(t *testing.T) {
	km := config.DefaultKeyMap()
	km.Restart = []string{"x"}
	s := newStream(km)

	in := s.apply([]byte("\r"), time.Unix(1, 0))
	if in.RestartPressed {
		t.Error("enter should no longer restart")
	}
	in = s.apply([]byte("x"), time.Unix(2, 0))
	if !in.RestartPressed {
		t.Error("x should restart")
	}
}

func TestQuit(t *testing.T) {
	s := newStream(config.DefaultKeyMap())
	if in := s.apply([]byte("q"), time.Unix(1, 0)); !in.Quit {
		t.Error("q should quit")
	}
	if in := s.apply([]byte{ctrlC}, time.Unix(2, 0)); !in.Quit {
		t.Error("ctrl+c should quit")
	}
}

func TestClosedStreamQuits(t *testing.T) {
	s := StartStream(strings.NewReader("a"), config.DefaultKeyMap())

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if in, _ := s.Read(); in.Quit {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("reader EOF never turned into Quit")
}

// endless never runs out of key presses.
type endless struct{}

func (endless) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'x'
	}
	return len(p), nil
}

func TestCloseStopsReaderWithFullBuffer(t *testing.T) {
	s := StartStream(endless{}, config.DefaultKeyMap())

	// Let the reader fill the channel buffer and block on the next send.
	deadline := time.Now().Add(2 * time.Second)
	for len(s.ch) < cap(s.ch) {
		if time.Now().After(deadline) {
			t.Fatal("reader never filled the buffer")
		}
		time.Sleep(time.Millisecond)
	}

	s.Close()
	s.Close()

	select {
	case <-s.exited:
	case <-time.After(2 * time.Second):
		t.Fatal("reader goroutine still running after Close")
	}
}

func TestTurn(t *testing.T) {
	if (Intent{TurnLeft: true}).Turn() != 1 {
		t.Error("left should be +1")
	}
	if (Intent{TurnRight: true}).Turn() != -1 {
		t.Error("right should be -1")
	}
	if (Intent{TurnLeft: true, TurnRight: true}).Turn() != 0 {
		t.Error("both should cancel")
	}
}
