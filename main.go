package main

import (
	"errors"
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/gameaudio/config"
	"github.com/milk9111/gameaudio/session"
)

func main() {
	configPath := flag.String("config", "gameaudio.yaml", "config file (missing file uses defaults)")
	debug := flag.Bool("debug", false, "enable debug logging")
	scriptPath := flag.String("script", "", "tengo script to load, overrides script.path")
	watch := flag.Bool("watch", false, "reload the cue bank when it changes on disk")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("load config", "path", *configPath, "err", err)
	}
	if *scriptPath != "" {
		cfg.Script = *scriptPath
	}
	if *watch {
		cfg.Cues.Watch = true
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "gameaudio",
		Level:           cfg.Level(),
	})
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}

	s, err := session.New(cfg, session.WithLogger(logger))
	if err != nil {
		logger.Fatal("start session", "err", err)
	}

	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("gameaudio")

	game := NewGame(s, cfg.TPS, logger)
	err = ebiten.RunGame(game)
	if cerr := s.Close(); cerr != nil {
		logger.Error("close session", "err", cerr)
	}
	if err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal("run game", "err", err)
	}
}
