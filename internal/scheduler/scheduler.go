package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/linetrack/internal/domain/models"
	"github.com/mamadbah2/linetrack/internal/i18n"
	"github.com/mamadbah2/linetrack/internal/repository"
	"github.com/mamadbah2/linetrack/internal/service/whatsapp"
)

// Reporter builds reports from the live snapshot.
type Reporter interface {
	Report(req models.ReportRequest) (models.Report, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	reporter  Reporter
	archive   repository.ReportArchive
	messaging whatsapp.MessagingService
	localizer *i18n.Localizer
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler creates a scheduler running in loc. archive and messaging are
// optional; a nil one skips that step of the daily job.
func NewScheduler(schedule string, loc *time.Location, reporter Reporter, archive repository.ReportArchive, messaging whatsapp.MessagingService, localizer *i18n.Localizer, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		schedule:  schedule,
		reporter:  reporter,
		archive:   archive,
		messaging: messaging,
		localizer: localizer,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the daily report job and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.runDailyReport); err != nil {
		return fmt.Errorf("schedule daily report: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDailyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.DailyReport(ctx); err != nil {
		s.logger.Error("daily report finished with errors", zap.Error(err))
		return
	}
	s.logger.Info("daily report completed")
}

// DailyReport builds today's report, archives its snapshot and sends the
// summary. A failing step does not stop the following ones.
func (s *Scheduler) DailyReport(ctx context.Context) error {
	report, err := s.reporter.Report(models.ReportRequest{Mode: models.ReportDaily})
	if err != nil {
		return fmt.Errorf("build daily report: %w", err)
	}

	var errs []error

	if s.archive != nil {
		snapshot := models.NewDailyReport(report, s.now().UTC())
		if err := s.archive.SaveDailyReport(ctx, snapshot); err != nil {
			s.logger.Error("failed to archive daily report", zap.String("date", snapshot.Date), zap.Error(err))
			errs = append(errs, fmt.Errorf("archive daily report: %w", err))
		}
	}

	if s.messaging != nil {
		req := models.OutboundMessageRequest{Message: Summary(report, s.localizer)}
		if err := s.messaging.SendOutbound(ctx, req); err != nil {
			s.logger.Error("failed to send daily report", zap.Error(err))
			errs = append(errs, fmt.Errorf("send daily report: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Summary renders the daily report as a short text message.
func Summary(r models.Report, l *i18n.Localizer) string {
	return l.T(i18n.MsgDailySummary, map[string]any{
		"Date":        models.DisplayDate(r.Range.Start),
		"Box1":        r.Production.Box1Total,
		"Box2":        r.Production.Box2Total,
		"Total":       r.Production.TotalBags,
		"Packaging":   r.Packaging.Total,
		"Stops":       r.Stops.TotalStops,
		"StopMinutes": r.Stops.TotalTime,
		"Active":      r.Stops.ActiveStops,
	})
}
