package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"egg-grader/config"
	telegram "egg-grader/internal/api"
	httpapi "egg-grader/internal/api/http"
	"egg-grader/internal/container"
	"egg-grader/internal/domain/entity"
	"egg-grader/internal/domain/port"
	"egg-grader/internal/infrastructure/serialport"
	"egg-grader/internal/infrastructure/storage"
	"egg-grader/internal/infrastructure/vision"
	"egg-grader/internal/logger"
	"egg-grader/internal/timeutil"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogDir)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Журнал результатов и снимки
	results, closeResults, err := openResultLog(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to open result log: %v", err)
		os.Exit(1)
	}
	defer closeResults()

	images, err := storage.NewDirImageStore(cfg.SaveDir)
	if err != nil {
		appLogger.Error("Failed to prepare image directory: %v", err)
		os.Exit(1)
	}

	// Датчик и табло на одном последовательном порту
	channel, err := serialport.Open(cfg.SerialPort, serialport.PortOptions{BaudRate: cfg.BaudRate}, appLogger)
	if err != nil {
		appLogger.Error("❌ Could not open serial port: %v", err)
		os.Exit(1)
	}
	defer channel.Close()
	appLogger.Info("✅ Serial port %s opened at %d baud", cfg.SerialPort, cfg.BaudRate)

	camera, err := vision.OpenCamera(cfg.CameraDevice)
	if err != nil {
		appLogger.Error("❌ Could not open camera %d: %v", cfg.CameraDevice, err)
		os.Exit(1)
	}
	defer camera.Close()

	detector, err := vision.NewYOLODetector(cfg.ModelPath, cfg.ModelLabels)
	if err != nil {
		appLogger.Error("❌ Failed to load model %s: %v", cfg.ModelPath, err)
		os.Exit(1)
	}
	defer detector.Close()
	appLogger.Info("✅ Model %s loaded (%d classes)", cfg.ModelPath, len(cfg.ModelLabels))

	// Собираем сервисы приложения
	appContainer := container.New(container.Deps{
		Triggers:    channel,
		Commands:    channel,
		Camera:      camera,
		Detector:    detector,
		Cropper:     vision.MatCropper{},
		Images:      images,
		Results:     results,
		Subscribers: storage.NewMemorySubscriberRepository(),
		Clock:       timeutil.RealClock{},
		Logger:      appLogger,
	}, container.Settings{
		Cooldown:        cfg.CaptureCooldown,
		SettleDelay:     cfg.SettleDelay,
		ConfidenceFloor: cfg.ConfidenceFloor,
		Sizes:           entity.SizeThresholds{SmallMax: cfg.SizeSmallMax, MediumMax: cfg.SizeMediumMax},
	})

	if err := appContainer.Pipeline.Restore(ctx); err != nil {
		appLogger.Warning("Could not restore last result: %v", err)
	}

	var wg sync.WaitGroup
	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil && !errors.Is(err, context.Canceled) {
				appLogger.Error("%s stopped: %v", name, err)
				stop()
			}
		}()
	}

	run("serial monitor", func() error { return channel.Monitor(ctx) })

	hub := httpapi.NewHub(appLogger)
	appContainer.Pipeline.AddListener(hub)
	run("websocket hub", func() error { hub.Run(ctx); return nil })

	server := httpapi.NewServer(appContainer.Reports, appContainer.Pipeline, hub, images.Dir(), appLogger)
	run("http server", func() error { return server.ListenAndServe(ctx, cfg.HTTPAddr) })

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer.Reports, appContainer.Subscriptions, appLogger)
		if err != nil {
			appLogger.Warning("Telegram bot disabled: %v", err)
		} else {
			appContainer.Pipeline.AddListener(bot)
			run("telegram bot", func() error { return bot.Run(ctx) })
		}
	}

	appLogger.Info("🥚 Egg grader is running...")
	if err := appContainer.Pipeline.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Pipeline error: %v", err)
	}

	stop()
	channel.Close()
	wg.Wait()
	appLogger.Info("Shutdown complete")
}

func openResultLog(cfg *config.Config, log *logger.Logger) (port.ResultLog, func(), error) {
	switch cfg.ResultStore {
	case config.StoreSQLite:
		db, err := storage.NewSQLiteResultLog(cfg.LogPath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Result log: sqlite %s", cfg.LogPath)
		return db, func() { db.Close() }, nil
	case config.StoreMemory:
		log.Warning("Result log kept in memory, records are lost on exit")
		return storage.NewMemoryResultLog(), func() {}, nil
	default:
		jl, err := storage.NewJSONResultLog(cfg.LogPath, log)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Result log: %s", jl.Path())
		return jl, func() {}, nil
	}
}
