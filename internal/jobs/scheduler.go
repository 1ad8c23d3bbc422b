// Package jobs runs the background work: draining the learning queue and
// trimming retained data on fixed intervals.
package jobs

import (
	"context"
	"log"
	"sync"
	"time"
)

// Job is a unit of scheduled background work.
type Job interface {
	Run(ctx context.Context) error
	Interval() time.Duration
}

// Scheduler runs each registered job on its own ticker until stopped.
type Scheduler struct {
	mu      sync.Mutex
	jobs    map[string]Job
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:   make(map[string]Job),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register adds a job under a name. Must be called before Start.
func (s *Scheduler) Register(name string, job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[name] = job
	log.Printf("✅ [SCHEDULER] Registered job: %s (every %v)", name, job.Interval())
}

// Start launches one goroutine per registered job.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true

	log.Printf("🚀 [SCHEDULER] Starting %d background jobs", len(s.jobs))
	for name, job := range s.jobs {
		s.wg.Add(1)
		go s.runLoop(name, job)
	}
}

func (s *Scheduler) runLoop(name string, job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := job.Run(s.ctx); err != nil {
				log.Printf("❌ [SCHEDULER] Job %s failed: %v", name, err)
			}
		case <-s.ctx.Done():
			return
		}
	}
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()

	if !ok {
		log.Printf("⚠️  [SCHEDULER] Job %s not found", name)
		return nil
	}
	return job.Run(s.ctx)
}

// Stop cancels all jobs and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	log.Println("🛑 [SCHEDULER] Stopped")
}
