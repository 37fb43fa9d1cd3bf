package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler re-imports the source file on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	importer *Importer
	source   string
	spec     string
	logger   *zap.Logger
	wg       sync.WaitGroup
}

func NewScheduler(importer *Importer, source, spec string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cronLogger{logger.Sugar()}), cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger.Sugar()}))),
		importer: importer,
		source:   source,
		spec:     spec,
		logger:   logger,
	}
}

// Start registers the import job, starts the scheduler and runs one import
// right away so the store is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc(%q): %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info("import scheduler started", zap.String("spec", s.spec), zap.String("source", s.source))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
	return nil
}

// Stop halts the scheduler and waits for running imports to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("import scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.importer.Run(ctx, s.source); err != nil {
		s.logger.Error("scheduled import failed", zap.String("source", s.source), zap.Error(err))
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct{ l *zap.SugaredLogger }

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
