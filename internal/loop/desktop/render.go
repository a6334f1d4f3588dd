package desktop

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/tomz197/asteroids/internal/config"
	"github.com/tomz197/asteroids/internal/loop"
	"github.com/tomz197/asteroids/internal/object"
)

const strokeWidth = 1.5

// ebitenutil's debug font is 6x16 pixels per glyph.
const (
	glyphWidth  = 6
	glyphHeight = 16
)

var powerUpColors = map[object.PowerUpKind]color.RGBA{
	object.ScoreGreen:   colornames.Lime,
	object.ScoreYellow:  colornames.Gold,
	object.ScoreRed:     colornames.Orangered,
	object.ShieldGreen:  colornames.Mediumseagreen,
	object.ShieldYellow: colornames.Goldenrod,
	object.ShieldRed:    colornames.Crimson,
}

// toScreen converts a field position (y up) to window pixels (y down).
func (g *Game) toScreen(p mgl64.Vec2) (float32, float32) {
	h := g.session.Field().Height
	return float32(p.X() * g.scale), float32((h - p.Y()) * g.scale)
}

// fade scales a color's opacity by a in [0,1].
func fade(c color.RGBA, a float64) color.RGBA {
	a = mgl64.Clamp(a, 0, 1)
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}

func (g *Game) strokePolygon(screen *ebiten.Image, pts []mgl64.Vec2, clr color.Color) {
	for i := range pts {
		x0, y0 := g.toScreen(pts[i])
		x1, y1 := g.toScreen(pts[(i+1)%len(pts)])
		vector.StrokeLine(screen, x0, y0, x1, y1, strokeWidth, clr, true)
	}
}

func (g *Game) fillCircle(screen *ebiten.Image, center mgl64.Vec2, radius float64, clr color.Color) {
	x, y := g.toScreen(center)
	vector.DrawFilledCircle(screen, x, y, float32(radius*g.scale), clr, true)
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	s := g.session

	for _, st := range s.Stars {
		x, y := g.toScreen(st.Pos)
		vector.DrawFilledRect(screen, x, y, float32(st.Size), float32(st.Size), fade(colornames.White, st.Alpha/255), false)
	}
	for _, p := range s.Particles {
		g.fillCircle(screen, p.Pos, 0.3, fade(colornames.Orange, p.Fade()))
	}

	if s.State() != loop.StateIntro {
		g.drawEntities(screen)
	}

	switch s.State() {
	case loop.StateIntro:
		g.drawIntro(screen)
	case loop.StateInGame:
		g.drawHUD(screen)
	case loop.StateGameOver:
		g.drawGameOver(screen)
	}
}

func (g *Game) drawEntities(screen *ebiten.Image) {
	s := g.session

	for _, a := range s.Asteroids {
		g.outline = a.Outline(g.outline)
		g.strokePolygon(screen, g.outline, colornames.Lightgray)
	}
	for _, pu := range s.PowerUps {
		if pu.Life < 2 && !object.ShouldRenderBlink(pu.Life, 4) {
			continue
		}
		g.fillCircle(screen, pu.Pos, pu.Radius, powerUpColors[pu.Kind])
	}
	for _, u := range s.UFOs {
		x, y := g.toScreen(u.Pos)
		r := float32(u.Radius * g.scale)
		vector.StrokeCircle(screen, x, y, r, strokeWidth, colornames.Magenta, true)
		vector.StrokeLine(screen, x-r, y, x+r, y, strokeWidth, colornames.Magenta, true)
	}
	for _, sh := range s.Shots {
		g.fillCircle(screen, sh.Pos, sh.Radius, fade(colornames.White, sh.Alpha))
	}
	for _, sh := range s.UFOShots {
		g.fillCircle(screen, sh.Pos, sh.Radius, colornames.Red)
	}

	p := s.Player
	if p == nil || !p.Visible() {
		return
	}
	if p.IsInvincible() && !object.ShouldRenderBlink(p.Invincible, config.PlayerBlinkFrequency) {
		return
	}
	outline := p.Outline()
	g.strokePolygon(screen, outline[:], colornames.Cyan)
}

// printCentered draws debug text centered horizontally at row y.
func printCentered(screen *ebiten.Image, text string, y int) {
	x := (screen.Bounds().Dx() - len(text)*glyphWidth) / 2
	ebitenutil.DebugPrintAt(screen, text, x, y)
}

func (g *Game) drawIntro(screen *ebiten.Image) {
	cy := screen.Bounds().Dy() / 2
	printCentered(screen, "A S T E R O I D S", cy-4*glyphHeight)
	printCentered(screen, "Arrows / stick: steer and thrust", cy-2*glyphHeight)
	printCentered(screen, "Space / button A: fire", cy-glyphHeight)
	printCentered(screen, "Press FIRE to start", cy+glyphHeight)
	g.drawLeaderboard(screen, cy+3*glyphHeight)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	w := screen.Bounds().Dx()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("SCORE: %d", g.session.Score()), 8, 4)
	printCentered(screen, fmt.Sprintf("LEVEL: %d", g.session.Level()), 4)

	lives := fmt.Sprintf("LIVES: %d", g.session.Lives())
	ebitenutil.DebugPrintAt(screen, lives, w-len(lives)*glyphWidth-8, 4)

	if g.bannerTimer > 0 {
		printCentered(screen, g.banner, screen.Bounds().Dy()/2-3*glyphHeight)
	}
}

func (g *Game) drawGameOver(screen *ebiten.Image) {
	cy := screen.Bounds().Dy() / 2
	res := g.session.Result()
	printCentered(screen, "G A M E   O V E R", cy-4*glyphHeight)
	printCentered(screen, fmt.Sprintf("Score: %d   Level: %d", res.Score, res.Level), cy-2*glyphHeight)
	printCentered(screen, "Enter / Start: play again    Esc / Back: title", cy)
	g.drawLeaderboard(screen, cy+2*glyphHeight)
}

func (g *Game) drawLeaderboard(screen *ebiten.Image, y int) {
	top := g.lobby.TopScores()
	if len(top) == 0 {
		return
	}
	printCentered(screen, "Top Scores", y)
	for i, e := range top {
		printCentered(screen, fmt.Sprintf("%d. %8d  L%-2d", i+1, e.Score, e.Level), y+(i+1)*glyphHeight)
	}
}
