package main

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/term"

	"github.com/tomz197/asteroids/internal/audio"
	"github.com/tomz197/asteroids/internal/config"
	"github.com/tomz197/asteroids/internal/loop/client"
	"github.com/tomz197/asteroids/internal/loop/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Configuration errors are reported before the terminal is touched.
	tunables, err := config.Load(config.GetEnv("ASTEROIDS_CONFIG", ""))
	if err != nil {
		return err
	}
	keysPath := config.GetEnv("ASTEROIDS_KEYS", config.DefaultKeyMapPath())
	keys, err := config.LoadKeyMap(keysPath)
	if err != nil {
		return err
	}

	logFile, err := config.OpenLogFile()
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := config.NewLogger(logFile, "asteroids")

	// Leave an editable copy of the bindings on first run.
	if keysPath != "" {
		if _, err := os.Stat(keysPath); errors.Is(err, fs.ErrNotExist) {
			if err := config.SaveKeyMap(keysPath, keys); err != nil {
				logger.Warn("could not write key bindings", "path", keysPath, "err", err)
			}
		}
	}

	var sfx audio.Sink = audio.Silent{}
	if beep, err := audio.NewBeepSink(0.5); err != nil {
		logger.Warn("audio disabled", "err", err)
	} else {
		sfx = beep
		defer beep.Close()
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	hub := server.NewHub(logger)
	c, err := client.NewClient(hub, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Tunables: tunables,
		KeyMap:   keys,
		Username: config.GetEnv("USER", ""),
		Audio:    sfx,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	return c.Run()
}
