package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/scene-engine/internal/config"
	"github.com/jwebster45206/scene-engine/internal/logger"
	"github.com/jwebster45206/scene-engine/internal/storage"
	"github.com/jwebster45206/scene-engine/pkg/render"
	"github.com/jwebster45206/scene-engine/pkg/resource"
	"github.com/jwebster45206/scene-engine/pkg/scene"
	"github.com/jwebster45206/scene-engine/pkg/sound"
	"github.com/jwebster45206/scene-engine/pkg/state"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file.
	logPath := filepath.Join(os.TempDir(), "scene-console.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := logger.SetupTo(logFile, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := storage.Open(ctx, cfg, log)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open %s save store: %v\n", cfg.SaveBackend, err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.WithError(log, err).Warn("Failed to close save store")
		}
	}()

	assets := resource.NewDirAssets(cfg.DataDir, cfg.HintResource, cfg.HintTable, log)
	scenes, err := assets.ListScenes()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list scenes in %s: %v\n", cfg.DataDir, err)
		os.Exit(1)
	}

	gs := state.NewGameState(cfg.TextboxWidth)
	sc := scene.New(gs, sound.NewMixer(cfg.SoundFrames, log), render.NewRegistry(), assets, log)

	// An explicit start scene skips the selection modal.
	var choices []uint16
	if _, set := os.LookupEnv("START_SCENE"); set || len(scenes) == 0 {
		sc.Start(cfg.StartScene, cfg.StartFrame)
	} else {
		choices = scenes
	}

	log.Info("Console starting", "data_dir", cfg.DataDir, "scenes", len(scenes), "save_backend", cfg.SaveBackend)

	p := tea.NewProgram(NewConsoleUI(NewSession(sc, store, log), choices, cfg.StartFrame),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
