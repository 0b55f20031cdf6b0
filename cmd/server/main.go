package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scene-manager/internal/engine"
	"scene-manager/internal/infrastructure/storage"
	"scene-manager/internal/modules"
	"scene-manager/internal/scene"
	"scene-manager/internal/server"
	"scene-manager/internal/version"
	"scene-manager/pkg/demo"
	"scene-manager/pkg/logger"

	"github.com/pkg/profile"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Config: env first, flags override
	cfg, err := engine.LoadConfig()
	if err != nil {
		logger.Log.Fatal("Invalid configuration: ", err)
	}

	var profileDir string
	flag.StringVar(&cfg.ScenePath, "scene", cfg.ScenePath, "Scene file to load (.hcl or .scns)")
	flag.StringVar(&cfg.Port, "port", cfg.Port, "HTTP/WebSocket port")
	flag.Int64Var(&cfg.DemoSeed, "seed", cfg.DemoSeed, "Demo scene seed, used when no scene file is given")
	flag.StringVar(&profileDir, "profile", "", "Write a CPU profile into this directory")
	flag.Parse()

	if profileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(profileDir), profile.NoShutdownHook).Stop()
	}

	logger.Log.Info("Starting scene panel...")
	logger.Log.Info(version.String())

	// 2. Host scene
	world := scene.New(scene.WithInstanceFactory(modules.NewInstance))
	var specs []scene.Spec
	if cfg.ScenePath != "" {
		specs, err = storage.LoadScene(cfg.ScenePath)
		if err != nil {
			logger.Log.Fatal("Failed to load scene: ", err)
		}
		logger.Log.Infof("Loaded %d entities from %s", len(specs), cfg.ScenePath)
	} else {
		specs = demo.Generate(cfg.DemoSeed)
		logger.Log.Infof("Generated demo scene with %d entities (seed %d)", len(specs), cfg.DemoSeed)
	}
	for _, s := range specs {
		world.Spawn(s)
	}

	snapshots, err := storage.NewSnapshotService(cfg.SnapshotDir)
	if err != nil {
		logger.Log.Fatal(err)
	}

	// 3. Panel loop
	svc := engine.NewService(cfg, world)
	ctx, cancel := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(loopDone)
	}()

	// 4. Server
	srv := server.New(svc, cfg.Port)
	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Log.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Warn("server shutdown")
	}

	cancel()
	<-loopDone

	// The loop has stopped, so the panel is ours now.
	path, err := snapshots.Save(svc.Panel().AllEntities())
	if err != nil {
		logger.Log.WithError(err).Error("Failed to save scene snapshot")
	} else {
		logger.Log.Infof("Scene snapshot saved to %s", path)
	}

	logger.Log.Info("Done.")
}
