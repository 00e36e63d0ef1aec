package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"egg-grader/internal/domain/entity"
	"egg-grader/internal/domain/port"
	"egg-grader/internal/logger"
	"egg-grader/internal/timeutil"
)

// PipelineDeps зависимости контроллера конвейера.
type PipelineDeps struct {
	Triggers   port.TriggerSource
	Gate       *DebounceGate
	Scheduler  *CaptureScheduler
	Classifier *Classifier
	Images     port.ImageStore
	Results    port.ResultLog
	Feedback   port.FeedbackSink
	Clock      timeutil.Clock
	Logger     *logger.Logger
}

// Pipeline контроллер конвейера: сигнал → пауза → снимок → классификация → журнал → оценка.
// Один цикл, включая паузу, завершается до разбора следующего сигнала.
type Pipeline struct {
	triggers   port.TriggerSource
	gate       *DebounceGate
	scheduler  *CaptureScheduler
	classifier *Classifier
	images     port.ImageStore
	results    port.ResultLog
	feedback   port.FeedbackSink
	clock      timeutil.Clock
	logger     *logger.Logger

	listenersMu sync.RWMutex
	listeners   []port.RecordListener

	mu    sync.RWMutex
	state entity.PipelineState
}

// NewPipeline создаёт контроллер в состоянии Idle.
func NewPipeline(deps PipelineDeps) *Pipeline {
	clock := deps.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}

	return &Pipeline{
		triggers:   deps.Triggers,
		gate:       deps.Gate,
		scheduler:  deps.Scheduler,
		classifier: deps.Classifier,
		images:     deps.Images,
		results:    deps.Results,
		feedback:   deps.Feedback,
		clock:      clock,
		logger:     log,
		state: entity.PipelineState{
			Phase:      entity.PhaseIdle,
			LastResult: entity.NoResult(),
		},
	}
}

// AddListener подписывает l на новые записи журнала.
func (p *Pipeline) AddListener(l port.RecordListener) {
	p.listenersMu.Lock()
	defer p.listenersMu.Unlock()
	p.listeners = append(p.listeners, l)
}

// State возвращает снимок состояния. Безопасно вызывать из других горутин.
func (p *Pipeline) State() entity.PipelineState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Restore восстанавливает последний результат по журналу после перезапуска.
func (p *Pipeline) Restore(ctx context.Context) error {
	records, err := p.results.Records(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	last := records[len(records)-1]
	p.mu.Lock()
	p.state.LastResult = entity.LastResultFromRecord(last)
	p.mu.Unlock()
	p.logger.Info("Restored last result from log: %s (%d records)", last.Label, len(records))
	return nil
}

// Run обрабатывает сигналы датчика, пока не отменён ctx.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("Pipeline started, waiting for triggers...")
	for ev := range p.triggers.Poll(ctx) {
		p.HandleEvent(ctx, ev)
	}
	return ctx.Err()
}

// HandleEvent проводит один сигнал через все состояния и возвращает конвейер в Idle.
func (p *Pipeline) HandleEvent(ctx context.Context, ev entity.DetectionEvent) {
	switch ev.Kind {
	case entity.ObjectGone:
		p.logger.Info("Object is no longer detected.")
		return
	case entity.ObjectDetected:
	default:
		p.logger.Warning("Unknown event %q ignored", ev.Kind)
		return
	}

	if !p.gate.Accept(ev.At) {
		p.logger.Info("Ignoring duplicate trigger (egg bounce).")
		return
	}

	p.mu.Lock()
	p.state.Phase = entity.PhaseAwaitingSettle
	p.state.LastTrigger = ev.At
	p.mu.Unlock()
	defer p.setPhase(entity.PhaseIdle)
	// Паника в любой фазе (драйвер камеры, модель) завершает только этот цикл.
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Cycle aborted by panic: %v", r)
		}
	}()

	p.logger.Info("✨ Trigger received! Waiting for egg to settle...")
	frame, err := p.scheduler.Capture(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		p.logger.Error("Capture failed, skipping cycle: %v", err)
		return
	}

	p.setPhase(entity.PhaseClassifying)
	if err := p.classify(ctx, frame); err != nil {
		p.logger.Error("Classification cycle failed: %v", err)
	}
}

// classify выполняет фазу Classifying. Оценка уходит сортировщику сразу после
// классификации: яйцо уже на лотке, сбой записи на диск его не возвращает.
func (p *Pipeline) classify(ctx context.Context, frame entity.Frame) error {
	det, ok, err := p.classifier.Classify(ctx, frame)
	if err != nil {
		return err
	}
	if !ok {
		p.logger.Warning("Trigger received, but no egg detected in settled frame.")
		return nil
	}
	p.logger.Info("Egg detected: %s (%.2f), size %s (diagonal %.2fpx)",
		det.Label, det.Confidence, det.Size.Label, det.Size.DiagonalPixels)

	p.feedback.SendGrade(ctx, det.Label)

	now := p.clock.Now()
	name := fmt.Sprintf("%s_%s_%s.jpg", now.Format("20060102_150405"), det.Label, det.Size.Label)
	path, err := p.images.Save(ctx, name, det.Crop)
	if err != nil {
		return fmt.Errorf("%w: save image: %v", entity.ErrPersistence, err)
	}
	p.logger.Info("Cropped egg image saved to %s", path)

	record := entity.NewEggRecord(now, det, path)
	appended := true
	if err := p.results.Append(ctx, record); err != nil {
		appended = false
		p.logger.Error("Record lost: %v", err)
	}

	p.mu.Lock()
	p.state.LastResult = entity.LastResultFromRecord(record)
	p.mu.Unlock()

	if appended {
		p.notify(ctx, record)
	}
	return nil
}

func (p *Pipeline) notify(ctx context.Context, record entity.EggRecord) {
	p.listenersMu.RLock()
	listeners := append([]port.RecordListener(nil), p.listeners...)
	p.listenersMu.RUnlock()

	for _, l := range listeners {
		l.OnRecord(ctx, record)
	}
}

func (p *Pipeline) setPhase(phase entity.Phase) {
	p.mu.Lock()
	p.state.Phase = phase
	p.mu.Unlock()
}
