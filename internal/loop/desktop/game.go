// Package desktop runs a game session in a window, drawn with ebiten vector
// graphics and controlled by keyboard or gamepad.
package desktop

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/tomz197/asteroids/internal/config"
	"github.com/tomz197/asteroids/internal/input"
	"github.com/tomz197/asteroids/internal/loop"
	"github.com/tomz197/asteroids/internal/loop/server"
)

// Stick deflection below this is treated as centered.
const axisDeadzone = 0.3

const bannerSeconds = 2.0

// Game adapts a loop.Session to ebiten.Game.
type Game struct {
	session *loop.Session
	lobby   server.Lobby
	handle  *server.ClientHandle
	keys    map[config.Action][]ebiten.Key
	scale   float64
	log     *log.Logger

	banner      string
	bannerTimer float64

	gamepads []ebiten.GamepadID
	outline  []mgl64.Vec2
}

// NewGame wraps session for the desktop. Finished games are submitted to lobby.
func NewGame(session *loop.Session, lobby server.Lobby, km config.KeyMap, logger *log.Logger) (*Game, error) {
	keys, err := bindings(km)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Game{
		session: session,
		lobby:   lobby,
		handle:  lobby.RegisterClient(""),
		keys:    keys,
		scale:   config.DesktopScale,
		log:     logger,
	}, nil
}

// Close leaves the lobby and silences the session.
func (g *Game) Close() {
	g.lobby.UnregisterClient(g.handle.ID)
	g.session.Close()
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	in := g.intent()
	if in.Quit {
		return ebiten.Termination
	}

	dt := 1.0 / float64(ebiten.TPS())
	g.session.Tick(dt, in)
	g.handleEvents()

	if g.bannerTimer > 0 {
		g.bannerTimer -= dt
	}
	return nil
}

// Layout implements ebiten.Game. The window shows the whole field at a fixed scale.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	f := g.session.Field()
	return int(f.Width * g.scale), int(f.Height * g.scale)
}

func (g *Game) handleEvents() {
	for _, ev := range g.session.DrainEvents() {
		switch ev.Kind {
		case loop.EventStateChanged:
			g.bannerTimer = 0
			if ev.State == loop.StateGameOver {
				g.lobby.SubmitScore(g.handle.ID, g.session.Result())
			}
		case loop.EventLevelUp:
			g.showBanner(fmt.Sprintf("LEVEL %d", ev.Level))
		case loop.EventExtraLife:
			g.showBanner("EXTRA LIFE")
		case loop.EventPlayerHit:
			g.log.Debug("player hit", "lives", ev.Lives)
		}
	}
}

func (g *Game) showBanner(text string) {
	g.banner = text
	g.bannerTimer = bannerSeconds
}

// intent reads the keyboard and every connected gamepad.
func (g *Game) intent() input.Intent {
	held := func(a config.Action) bool {
		for _, k := range g.keys[a] {
			if ebiten.IsKeyPressed(k) {
				return true
			}
		}
		return false
	}
	pressed := func(a config.Action) bool {
		for _, k := range g.keys[a] {
			if inpututil.IsKeyJustPressed(k) {
				return true
			}
		}
		return false
	}

	in := input.Intent{
		TurnLeft:       held(config.ActionTurnLeft),
		TurnRight:      held(config.ActionTurnRight),
		Thrust:         held(config.ActionThrust),
		Fire:           held(config.ActionFire),
		FirePressed:    pressed(config.ActionFire),
		RestartPressed: pressed(config.ActionRestart),
		BackPressed:    pressed(config.ActionBack),
		Quit:           pressed(config.ActionQuit),
	}

	g.gamepads = ebiten.AppendGamepadIDs(g.gamepads[:0])
	for _, id := range g.gamepads {
		applyStick(&in, ebiten.GamepadAxisValue(id, 0), ebiten.GamepadAxisValue(id, 1))

		if ebiten.IsGamepadButtonPressed(id, ebiten.GamepadButton0) {
			in.Fire = true
		}
		if inpututil.IsGamepadButtonJustPressed(id, ebiten.GamepadButton0) {
			in.FirePressed = true
		}
		if ebiten.IsStandardGamepadLayoutAvailable(id) {
			if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight) {
				in.RestartPressed = true
			}
			if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterLeft) {
				in.BackPressed = true
			}
		}
	}
	return in
}

// applyStick maps a stick to turning (x) and thrust (pushing up, y < 0).
func applyStick(in *input.Intent, x, y float64) {
	if x < -axisDeadzone {
		in.TurnLeft = true
	}
	if x > axisDeadzone {
		in.TurnRight = true
	}
	if y < -axisDeadzone {
		in.Thrust = true
	}
}
