package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/asteroids/internal/config"
	"github.com/tomz197/asteroids/internal/loop"
	"github.com/tomz197/asteroids/internal/object"
)

// Below these, shots and particles have faded out and are not drawn.
const (
	shotVisibleAlpha    = 0.3
	particleVisibleFade = 0.25
)

// Power-ups blink during their last seconds on the field.
const (
	powerUpWarnSeconds    = 2.0
	powerUpBlinkFrequency = 4.0
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On game state, inactivity or shutdown transitions, do a full terminal clear
	// so UI elements from the previous screen don't persist.
	gs := c.session.State()
	stateChanged := c.state.firstFrame || gs != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	shutdownChanged := c.state.shutdown != c.state.wasShutdown
	if stateChanged || inactiveChanged || shutdownChanged {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.firstFrame = false
		c.state.prevGameState = gs
		c.state.wasInactive = c.state.isInactive
		c.state.wasShutdown = c.state.shutdown
	}

	c.canvas.Clear()
	c.drawWorld()

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI()

	return c.chunkWriter.Flush()
}

// flip converts a field position (y up) to canvas coordinates (y down).
func (c *Client) flip(p mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{p.X(), c.session.Field().Height - p.Y()}
}

// drawOutline draws a closed polygon given in field coordinates.
func (c *Client) drawOutline(points []mgl64.Vec2, filled bool) {
	pts := c.canvas.BorrowPoints(len(points))
	for i, p := range points {
		pts[i] = c.flip(p)
	}
	c.canvas.DrawPolygon(pts, filled)
}

// drawWorld draws every entity of the session onto the canvas.
func (c *Client) drawWorld() {
	s := c.session

	for _, st := range s.Stars {
		if st.Bright() {
			c.canvas.Set(c.flip(st.Pos))
		}
	}
	for _, p := range s.Particles {
		if p.Fade() > particleVisibleFade {
			c.canvas.Set(c.flip(p.Pos))
		}
	}

	// The title screen shows only the star field.
	if s.State() == loop.StateIntro {
		return
	}

	for _, a := range s.Asteroids {
		c.outline = a.Outline(c.outline)
		c.drawOutline(c.outline, false)
	}
	for _, pu := range s.PowerUps {
		if pu.Life < powerUpWarnSeconds && !object.ShouldRenderBlink(pu.Life, powerUpBlinkFrequency) {
			continue
		}
		c.canvas.DrawCircle(c.flip(pu.Pos), pu.Radius, true)
	}
	for _, u := range s.UFOs {
		c.drawUFO(u)
	}
	for _, sh := range s.Shots {
		if sh.Alpha > shotVisibleAlpha {
			c.canvas.Set(c.flip(sh.Pos))
		}
	}
	for _, sh := range s.UFOShots {
		c.canvas.DrawCircle(c.flip(sh.Pos), sh.Radius, true)
	}

	c.drawPlayer(s.Player)
}

// drawPlayer draws the ship, blinking while it is still untouchable after a respawn.
func (c *Client) drawPlayer(p *object.Player) {
	if p == nil || !p.Visible() {
		return
	}
	if p.IsInvincible() && !object.ShouldRenderBlink(p.Invincible, config.PlayerBlinkFrequency) {
		return
	}
	outline := p.Outline()
	c.drawOutline(outline[:], false)
}

// drawUFO draws a saucer: a hull with a dome on top.
func (c *Client) drawUFO(u *object.UFO) {
	r := u.Radius
	hull := []mgl64.Vec2{
		u.Pos.Add(mgl64.Vec2{-r, 0}),
		u.Pos.Add(mgl64.Vec2{-r / 2, -r / 2}),
		u.Pos.Add(mgl64.Vec2{r / 2, -r / 2}),
		u.Pos.Add(mgl64.Vec2{r, 0}),
		u.Pos.Add(mgl64.Vec2{r / 2, r / 2}),
		u.Pos.Add(mgl64.Vec2{-r / 2, r / 2}),
	}
	c.drawOutline(hull, false)
	c.canvas.DrawCircle(c.flip(u.Pos.Add(mgl64.Vec2{0, r / 2})), r/3, false)
}

// drawUI draws the game UI overlay.
func (c *Client) drawUI() {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.shutdown {
		c.drawShutdownScreen(centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerY)
		return
	}

	switch c.session.State() {
	case loop.StateIntro:
		c.drawStartScreen(centerX, centerY)
	case loop.StateInGame:
		c.drawPlayingHUD(termWidth, termHeight, centerY)
	case loop.StateGameOver:
		c.drawGameOverScreen(centerY)
	}
}

// writeAt writes styled text at a 1-based canvas position and marks the cells
// so the canvas restores them once the text is gone.
func (c *Client) writeAt(col, row int, style lipgloss.Style, text string) {
	c.chunkWriter.WriteAt(col, row, style.Render(text))
	c.canvas.MarkTextDirty(col, row, lipgloss.Width(text))
}

// writeCentered writes styled text horizontally centered on row.
func (c *Client) writeCentered(row int, style lipgloss.Style, text string) {
	col := c.canvas.TerminalWidth()/2 - lipgloss.Width(text)/2 + 1
	c.writeAt(col, row, style, text)
}

// writeBlock writes lines centered as one block, so ASCII art stays aligned.
func (c *Client) writeBlock(row int, style lipgloss.Style, lines []string) {
	width := 0
	for _, line := range lines {
		width = max(width, lipgloss.Width(line))
	}
	col := c.canvas.TerminalWidth()/2 - width/2 + 1
	for i, line := range lines {
		c.writeAt(col, row+i, style, line)
	}
}

// blinkOn drives blinking prompts.
func blinkOn() bool {
	return time.Now().UnixMilli()/600%2 == 0
}

// keyLabel names the first key bound to an action, for prompts.
func (c *Client) keyLabel(a config.Action) string {
	keys := c.keys.Keys(a)
	if len(keys) == 0 {
		return "?"
	}
	return strings.ToUpper(keys[0])
}

// keyList names up to two keys bound to an action, for the controls table.
func (c *Client) keyList(a config.Action) string {
	keys := c.keys.Keys(a)
	if len(keys) > 2 {
		keys = keys[:2]
	}
	labels := make([]string, len(keys))
	for i, k := range keys {
		labels[i] = strings.ToUpper(k)
	}
	return strings.Join(labels, " / ")
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerY int) {
	c.writeCentered(centerY-2, c.styles.warning, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.writeCentered(centerY, c.styles.text, msg)
	c.writeCentered(centerY+2, c.styles.dim, "Press any key to continue")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerY int) {
	c.writeCentered(centerY-3, c.styles.warning, "SERVER SHUTTING DOWN")
	c.writeCentered(centerY-1, c.styles.text, "The server is restarting for maintenance.")
	c.writeCentered(centerY, c.styles.text, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	c.writeCentered(centerY+2, c.styles.text, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.writeCentered(centerY+4, c.styles.dim, fmt.Sprintf("Press %s to disconnect now", c.keyLabel(config.ActionQuit)))
}

// ASCII art titles (figlet "small" font)
var (
	titleArt = []string{
		`    _   ___ _____ ___ ___  ___ ___ ___  ___ `,
		`   /_\ / __|_   _| __| _ \/ _ \_ _|   \/ __|`,
		`  / _ \\__ \ | | | _||   / (_) | || |) \__ \`,
		` /_/ \_\___/ |_| |___|_|_\\___/___|___/|___/`,
	}
	gameOverArt = []string{
		`   ___   _   __  __ ___    _____   _____ ___ `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \`,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   /`,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\`,
	}
)

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int) {
	titleStartY := centerY - 9
	c.writeBlock(titleStartY, c.styles.title, titleArt)
	c.writeCentered(titleStartY+len(titleArt)+1, c.styles.dim, "~ Asteroids in your terminal ~")

	// Controls section
	controlsY := titleStartY + len(titleArt) + 3
	c.writeCentered(controlsY, c.styles.text, "Controls")
	controls := []struct {
		action config.Action
		label  string
	}{
		{config.ActionThrust, "Thrust"},
		{config.ActionTurnLeft, "Rotate left"},
		{config.ActionTurnRight, "Rotate right"},
		{config.ActionFire, "Shoot"},
		{config.ActionQuit, "Quit"},
	}
	lines := make([]string, len(controls))
	for i, ctl := range controls {
		lines[i] = fmt.Sprintf("%-14s %12s", c.keyList(ctl.action), ctl.label)
	}
	c.writeBlock(controlsY+1, c.styles.dim, lines)

	promptY := controlsY + len(lines) + 2
	if blinkOn() {
		c.writeCentered(promptY, c.styles.prompt, fmt.Sprintf(">>  Press %s to Start  <<", c.keyLabel(config.ActionFire)))
	}

	c.drawLeaderboard(promptY + 2)

	if c.remote {
		players := fmt.Sprintf("Players online: %-4d", c.lobby.Players())
		c.writeAt(centerX-lipgloss.Width(players)/2, c.canvas.TerminalHeight(), c.styles.dim, players)
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen (since we no longer clear every frame).
func (c *Client) drawPlayingHUD(termWidth, termHeight, centerY int) {
	c.writeAt(2, 1, c.styles.hud, fmt.Sprintf("SCORE: %-8d", c.session.Score()))
	c.writeCentered(1, c.styles.hud, fmt.Sprintf("LEVEL: %-3d", c.session.Level()))

	livesText := fmt.Sprintf("LIVES: %-3d", c.session.Lives())
	c.writeAt(termWidth-len(livesText)-1, 1, c.styles.hud, livesText)

	if c.state.bannerTimer > 0 {
		c.writeCentered(centerY-4, c.styles.banner, c.state.banner)
	}

	if c.remote {
		players := fmt.Sprintf("Players: %-4d", c.lobby.Players())
		c.writeAt(termWidth-len(players)-1, termHeight, c.styles.dim, players)
	}
}

// drawGameOverScreen draws the final result and the restart prompt.
func (c *Client) drawGameOverScreen(centerY int) {
	titleStartY := centerY - 8
	c.writeBlock(titleStartY, c.styles.warning, gameOverArt)

	res := c.session.Result()
	y := titleStartY + len(gameOverArt) + 1
	c.writeCentered(y, c.styles.text, fmt.Sprintf("Score: %d   Level: %d", res.Score, res.Level))

	if blinkOn() {
		prompt := fmt.Sprintf(">>  Press %s to Restart  <<", c.keyLabel(config.ActionRestart))
		c.writeCentered(y+2, c.styles.prompt, prompt)
	}
	c.writeCentered(y+3, c.styles.dim, fmt.Sprintf("%s for the title screen", c.keyLabel(config.ActionBack)))

	c.drawLeaderboard(y + 5)
}

// drawLeaderboard lists the hub's best games, highlighting this player's entry.
func (c *Client) drawLeaderboard(row int) {
	top := c.lobby.TopScores()
	if len(top) == 0 {
		return
	}

	c.writeCentered(row, c.styles.text, "Top Scores")
	for i, e := range top {
		style := c.styles.dim
		if e.Username == c.handle.Username {
			style = c.styles.self
		}
		name := e.Username
		if name == "" {
			name = "anonymous"
		}
		line := fmt.Sprintf("%d. %-16s %8d  L%-2d", i+1, name, e.Score, e.Level)
		c.writeCentered(row+1+i, style, line)
	}
}
