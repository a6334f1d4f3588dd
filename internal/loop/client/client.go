// Package client is the terminal front-end: it reads key input, ticks a game
// session and draws it with half-block graphics, once per frame.
package client

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/asteroids/internal/audio"
	"github.com/tomz197/asteroids/internal/config"
	"github.com/tomz197/asteroids/internal/draw"
	"github.com/tomz197/asteroids/internal/input"
	"github.com/tomz197/asteroids/internal/loop"
	"github.com/tomz197/asteroids/internal/loop/server"
)

// maxFrameDelta caps dt after a stalled frame so entities don't jump across the field.
const maxFrameDelta = 0.1

// bannerSeconds is how long a level or extra-life notice stays up.
const bannerSeconds = 2.0

// Client handles rendering and input for a single connection.
type Client struct {
	lobby        server.Lobby
	handle       *server.ClientHandle
	session      *loop.Session
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	keys         config.KeyMap
	lastInput    time.Time
	remote       bool
	username     string
	termSizeFunc draw.TermSizeFunc
	styles       styles
	log          *log.Logger

	outline []mgl64.Vec2 // Scratch space for asteroid outlines
}

// ClientOptions configures the client.
type ClientOptions struct {
	Tunables     config.Tunables
	KeyMap       config.KeyMap
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Audio        audio.Sink
	Logger       *log.Logger
	Renderer     *lipgloss.Renderer // Styles the overlays; per connection for SSH
	Remote       bool               // Enables the inactivity warning and disconnect
}

// NewClient creates a client with its own game session, registered with lobby.
func NewClient(lobby server.Lobby, r io.Reader, w io.Writer, opts ClientOptions) (*Client, error) {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = lipgloss.NewRenderer(w)
	}
	if err := opts.KeyMap.Validate(); err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	session, err := loop.NewSession(opts.Tunables,
		loop.WithAudio(opts.Audio),
		loop.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	// Create canvas with clamped dimensions for max render resolution
	field := session.Field()
	termWidth, termHeight, _ := draw.TerminalSizeRawWith(termSizeFunc)
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, field.Width, field.Height)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)
	chunkWriter.SetBounds(renderWidth, renderHeight)

	return &Client{
		lobby:        lobby,
		handle:       lobby.RegisterClient(opts.Username),
		session:      session,
		state:        NewClientState(),
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		writer:       w,
		inputStream:  input.StartStream(r, opts.KeyMap),
		keys:         opts.KeyMap,
		lastInput:    time.Now(),
		remote:       opts.Remote,
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		styles:       newStyles(renderer),
		log:          logger,
	}, nil
}

// Run starts the client loop. Blocks until the player quits, the input closes
// or the hub goes away.
func (c *Client) Run() error {
	draw.EnterAltScreen(c.writer)
	draw.HideCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer func() {
		draw.ClearScreen(c.writer)
		draw.ShowCursor(c.writer)
		draw.ExitAltScreen(c.writer)
	}()
	defer c.lobby.UnregisterClient(c.handle.ID)
	defer c.session.Close()
	defer c.inputStream.Close()

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		in := c.processInput()
		c.processServerEvents()
		c.updateScreen()
		c.update(in)

		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}
	return nil
}

// processInput reads this frame's intent and tracks inactivity.
func (c *Client) processInput() input.Intent {
	in, activity := c.inputStream.Read()

	if activity {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if c.remote {
		idle := time.Since(c.lastInput).Seconds()
		if idle > config.InactivityDisconnectUser {
			c.log.Info("disconnecting inactive client", "user", c.username)
			c.state.Running = false
		} else if idle > config.InactivityWarnUser {
			c.state.isInactive = true
		}
	}

	if in.Quit {
		c.state.Running = false
	}
	return in
}

// processServerEvents handles events from the hub.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			if event.Type == server.EventServerShutdown {
				c.state.shutdown = true
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// update advances the session, or the shutdown countdown.
func (c *Client) update(in input.Intent) {
	dt := min(c.state.delta.Seconds(), maxFrameDelta)

	if c.state.shutdown {
		c.state.shutdownTimer -= dt
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
		return
	}
	if c.state.isInactive {
		return
	}

	c.session.Tick(dt, in)
	c.handleSessionEvents()

	if c.state.bannerTimer > 0 {
		c.state.bannerTimer -= dt
	}
}

// handleSessionEvents reacts to what happened during the last tick.
func (c *Client) handleSessionEvents() {
	for _, ev := range c.session.DrainEvents() {
		switch ev.Kind {
		case loop.EventStateChanged:
			// Keys held on one screen must not act on the next.
			c.inputStream.Reset()
			c.state.bannerTimer = 0
			if ev.State == loop.StateGameOver {
				c.lobby.SubmitScore(c.handle.ID, c.session.Result())
			}
		case loop.EventLevelUp:
			c.showBanner(fmt.Sprintf("LEVEL %d", ev.Level))
		case loop.EventExtraLife:
			c.showBanner("EXTRA LIFE")
		}
	}
}

func (c *Client) showBanner(text string) {
	c.state.banner = text
	c.state.bannerTimer = bannerSeconds
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(c.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetBounds(renderWidth, renderHeight)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}
