package client

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/asteroids/internal/config"
	"github.com/tomz197/asteroids/internal/input"
	"github.com/tomz197/asteroids/internal/loop"
	"github.com/tomz197/asteroids/internal/loop/server"
)

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func newTestClient(t *testing.T, hub *server.Hub, r io.Reader, out io.Writer) *Client {
	t.Helper()
	c, err := NewClient(hub, r, out, ClientOptions{
		Tunables:     config.Default(),
		KeyMap:       config.DefaultKeyMap(),
		TermSizeFunc: fixedSize(120, 40),
		Username:     "alice",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

// idleReader never delivers input, so the stream stays open.
func idleReader(t *testing.T) io.Reader {
	r, w := io.Pipe()
	t.Cleanup(func() { w.Close() })
	return r
}

func TestClampTermSize(t *testing.T) {
	tests := []struct {
		name                       string
		w, h                       int
		wantW, wantH, wantC, wantR int
	}{
		{"fits", 80, 24, 80, 24, 0, 0},
		{"wide", config.MaxTermWidth + 40, 30, config.MaxTermWidth, 30, 20, 0},
		{"tall", 100, config.MaxTermHeight + 11, 100, config.MaxTermHeight, 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, c, r := clampTermSize(tt.w, tt.h)
			if w != tt.wantW || h != tt.wantH || c != tt.wantC || r != tt.wantR {
				t.Errorf("clampTermSize(%d, %d) = %d, %d, %d, %d; want %d, %d, %d, %d",
					tt.w, tt.h, w, h, c, r, tt.wantW, tt.wantH, tt.wantC, tt.wantR)
			}
		})
	}
}

func TestNewClientRejectsBrokenKeyMap(t *testing.T) {
	km := config.DefaultKeyMap()
	km.Fire = []string{"nope"}
	_, err := NewClient(server.NewHub(nil), idleReader(t), io.Discard, ClientOptions{
		Tunables:     config.Default(),
		KeyMap:       km,
		TermSizeFunc: fixedSize(80, 24),
	})
	if err == nil {
		t.Fatal("expected an error for an unknown key")
	}
}

func TestRunStopsWhenInputCloses(t *testing.T) {
	hub := server.NewHub(nil)
	var out bytes.Buffer
	c := newTestClient(t, hub, strings.NewReader(""), &out)

	if hub.Players() != 1 {
		t.Fatalf("players = %d, want 1", hub.Players())
	}

	done := make(chan error, 1)
	go func() { done <- c.Run() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after input closed")
	}

	if hub.Players() != 0 {
		t.Errorf("client still registered after Run")
	}
	if !strings.Contains(out.String(), "\033[?1049h") || !strings.Contains(out.String(), "\033[?1049l") {
		t.Error("alternate screen not entered and left")
	}
}

func TestIntroShowsLeaderboard(t *testing.T) {
	hub := server.NewHub(nil)
	other := hub.RegisterClient("bob")
	hub.SubmitScore(other.ID, loop.Result{Score: 1234, Level: 3})

	var out bytes.Buffer
	c := newTestClient(t, hub, idleReader(t), &out)

	if err := c.drawFrame(); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	text := out.String()
	for _, want := range []string{"Top Scores", "bob", "1234", "Controls"} {
		if !strings.Contains(text, want) {
			t.Errorf("intro screen missing %q", want)
		}
	}
}

func TestLevelUpShowsBanner(t *testing.T) {
	var out bytes.Buffer
	c := newTestClient(t, server.NewHub(nil), idleReader(t), &out)
	c.state.delta = time.Second / 60

	c.update(input.Intent{FirePressed: true})
	if c.session.State() != loop.StateInGame {
		t.Fatalf("state = %v, want in_game", c.session.State())
	}

	c.session.Asteroids = nil
	c.session.UFOs = nil
	c.update(input.Intent{})

	if c.state.banner != "LEVEL 2" || c.state.bannerTimer <= 0 {
		t.Errorf("banner = %q (%.2fs), want LEVEL 2", c.state.banner, c.state.bannerTimer)
	}

	out.Reset()
	if err := c.drawFrame(); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	if !strings.Contains(out.String(), "LEVEL 2") || !strings.Contains(out.String(), "SCORE:") {
		t.Error("HUD does not show the banner and score")
	}
}

func TestShutdownEventStartsCountdown(t *testing.T) {
	hub := server.NewHub(nil)
	c := newTestClient(t, hub, idleReader(t), io.Discard)

	go hub.Shutdown(50 * time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for !c.state.shutdown && time.Now().Before(deadline) {
		c.processServerEvents()
		time.Sleep(5 * time.Millisecond)
	}
	if !c.state.shutdown {
		t.Fatal("shutdown event not received")
	}
	if c.state.shutdownTimer != config.ShutdownDisplaySeconds {
		t.Errorf("shutdown timer = %v", c.state.shutdownTimer)
	}

	c.state.delta = time.Duration(config.ShutdownDisplaySeconds+1) * time.Second
	for i := 0; i < int(config.ShutdownDisplaySeconds/maxFrameDelta)+2; i++ {
		c.update(input.Intent{})
	}
	if c.state.Running {
		t.Error("client still running after the shutdown countdown")
	}
}
