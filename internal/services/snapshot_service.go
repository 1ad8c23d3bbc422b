package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"

	"synapse/internal/knowledge"
)

// SnapshotService persists every knowledge namespace on a cron schedule
// and logs store statistics, so a crash never loses more than a day of
// learned entries even if write-through persistence was degraded.
type SnapshotService struct {
	scheduler gocron.Scheduler
	store     *knowledge.Store
	cronExpr  string
}

// NewSnapshotService validates the cron expression and prepares the
// scheduler.
func NewSnapshotService(store *knowledge.Store, cronExpr string) (*SnapshotService, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(cronExpr); err != nil {
		return nil, fmt.Errorf("invalid snapshot cron expression %q: %w", cronExpr, err)
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot scheduler: %w", err)
	}

	return &SnapshotService{
		scheduler: scheduler,
		store:     store,
		cronExpr:  cronExpr,
	}, nil
}

// Start registers and launches the snapshot job.
func (s *SnapshotService) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.CronJob(s.cronExpr, false),
		gocron.NewTask(s.snapshot),
		gocron.WithName("knowledge-snapshot"),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule snapshot job: %w", err)
	}

	s.scheduler.Start()
	log.Printf("✅ [SNAPSHOT] Scheduled knowledge snapshot (%s)", s.cronExpr)
	return nil
}

func (s *SnapshotService) snapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	s.store.PersistAll(ctx)

	stats := s.store.Stats()
	log.Printf("💾 [SNAPSHOT] Persisted all namespaces in %v (entries: %v)", time.Since(start), stats)
}

// Stop shuts the scheduler down.
func (s *SnapshotService) Stop() {
	if err := s.scheduler.Shutdown(); err != nil {
		log.Printf("⚠️  [SNAPSHOT] Shutdown error: %v", err)
	}
}
