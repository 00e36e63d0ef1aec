package container

import (
	"time"

	app "egg-grader/internal/application"
	"egg-grader/internal/domain/entity"
	"egg-grader/internal/domain/port"
	"egg-grader/internal/logger"
	"egg-grader/internal/timeutil"
)

// Settings параметры конвейера из конфигурации.
type Settings struct {
	Cooldown        time.Duration
	SettleDelay     time.Duration
	ConfidenceFloor float64
	Sizes           entity.SizeThresholds
}

// Deps адаптеры, собранные в main.
type Deps struct {
	Triggers    port.TriggerSource
	Commands    port.CommandSender
	Camera      port.FrameSource
	Detector    port.ObjectDetector
	Cropper     port.FrameCropper
	Images      port.ImageStore
	Results     port.ResultLog
	Subscribers port.SubscriberRepository
	Clock       timeutil.Clock
	Logger      *logger.Logger
}

type Container struct {
	Pipeline      *app.Pipeline
	Reports       *app.ReportService
	Subscriptions *app.SubscriptionService
}

func New(deps Deps, settings Settings) *Container {
	clock := deps.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}

	pipeline := app.NewPipeline(app.PipelineDeps{
		Triggers:   deps.Triggers,
		Gate:       app.NewDebounceGate(settings.Cooldown),
		Scheduler:  app.NewCaptureScheduler(settings.SettleDelay, clock, deps.Triggers, deps.Camera),
		Classifier: app.NewClassifier(deps.Detector, deps.Cropper, settings.ConfidenceFloor, settings.Sizes, deps.Logger),
		Images:     deps.Images,
		Results:    deps.Results,
		Feedback:   app.NewGradeFeedback(deps.Commands, deps.Logger),
		Clock:      clock,
		Logger:     deps.Logger,
	})

	return &Container{
		Pipeline:      pipeline,
		Reports:       app.NewReportService(deps.Results, clock),
		Subscriptions: app.NewSubscriptionService(deps.Subscribers),
	}
}
