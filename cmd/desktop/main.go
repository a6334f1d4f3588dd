package main

import (
	"errors"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/asteroids/internal/audio"
	"github.com/tomz197/asteroids/internal/config"
	"github.com/tomz197/asteroids/internal/loop"
	"github.com/tomz197/asteroids/internal/loop/desktop"
	"github.com/tomz197/asteroids/internal/loop/server"
)

func main() {
	logger := config.NewLogger(os.Stderr, "desktop")

	tunables, err := config.Load(config.GetEnv("ASTEROIDS_CONFIG", ""))
	if err != nil {
		logger.Fatal("invalid game config", "err", err)
	}
	keys, err := config.LoadKeyMap(config.GetEnv("ASTEROIDS_KEYS", config.DefaultKeyMapPath()))
	if err != nil {
		logger.Fatal("invalid key bindings", "err", err)
	}

	var sfx audio.Sink = audio.Silent{}
	if beep, err := audio.NewBeepSink(0.5); err != nil {
		logger.Warn("audio disabled", "err", err)
	} else {
		sfx = beep
		defer beep.Close()
	}

	session, err := loop.NewSession(tunables, loop.WithAudio(sfx), loop.WithLogger(logger))
	if err != nil {
		logger.Fatal("could not start session", "err", err)
	}

	g, err := desktop.NewGame(session, server.NewHub(logger), keys, logger)
	if err != nil {
		logger.Fatal("could not start game", "err", err)
	}
	defer g.Close()

	ebiten.SetWindowSize(int(tunables.FieldWidth*config.DesktopScale), int(tunables.FieldHeight*config.DesktopScale))
	ebiten.SetWindowTitle("Asteroids")
	ebiten.SetWindowResizable(true)
	ebiten.SetTPS(tunables.TickRate)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game error", "err", err)
	}
}
