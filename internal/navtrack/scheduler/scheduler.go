package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"k8s.io/utils/clock"

	"github.com/sfiharvest/navtrack/pkg/log"
)

// DefaultStopTimeout bounds the final runs performed on shutdown.
const DefaultStopTimeout = 30 * time.Second

// Task is a callback invoked every Interval.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
	// RunOnStop runs the task one last time after the scheduler stops, so
	// that buffered data is not lost on shutdown.
	RunOnStop bool
}

// Scheduler runs every registered task on its own goroutine. Ticks of one
// task never overlap; a slow task delays only its own next tick.
type Scheduler struct {
	clock       clock.WithTicker
	stopTimeout time.Duration
	logger      log.Logger

	mu      sync.Mutex
	tasks   []Task
	started bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the real clock, mostly for tests.
func WithClock(c clock.WithTicker) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithStopTimeout bounds the final runs performed on shutdown.
func WithStopTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.stopTimeout = d }
}

func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:       clock.RealClock{},
		stopTimeout: DefaultStopTimeout,
		logger:      log.WithName("scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds t. A zero interval disables the task and is not an error.
func (s *Scheduler) Register(t Task) error {
	if t.Run == nil {
		return fmt.Errorf("task %q has no callback", t.Name)
	}
	if t.Interval < 0 {
		return fmt.Errorf("task %q has negative interval %s", t.Name, t.Interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("scheduler already started")
	}
	if t.Interval == 0 {
		s.logger.Info("Task disabled", "task", t.Name)
		return nil
	}
	s.tasks = append(s.tasks, t)
	return nil
}

// Tasks returns the names of the registered tasks.
func (s *Scheduler) Tasks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, len(s.tasks))
	for i, t := range s.tasks {
		names[i] = t.Name
	}
	return names
}

// Start runs the tasks until ctx is cancelled. A tick in progress at that
// moment is completed, then tasks marked RunOnStop run once more.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("scheduler already started")
	}
	s.started = true
	tasks := append([]Task(nil), s.tasks...)
	s.mu.Unlock()

	s.logger.Info("Starting scheduler", "tasks", len(tasks))

	var wg sync.WaitGroup
	for _, t := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.loop(ctx, t)
		}()
	}
	wg.Wait()

	s.logger.Info("Scheduler stopped, running final tasks")
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.stopTimeout)
	defer cancel()

	var errs []error
	for _, t := range tasks {
		if !t.RunOnStop {
			continue
		}
		if err := s.run(stopCtx, t); err != nil {
			errs = append(errs, fmt.Errorf("final %s: %w", t.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Scheduler) loop(ctx context.Context, t Task) {
	ticker := s.clock.NewTicker(t.Interval)
	defer ticker.Stop()

	// ticks run detached from ctx so that shutdown never interrupts a write
	runCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			_ = s.run(runCtx, t)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, t Task) error {
	start := s.clock.Now()
	err := t.Run(ctx)
	if err != nil {
		s.logger.Error(err, "Task failed", "task", t.Name)
		return err
	}
	s.logger.Debug("Task completed", "task", t.Name, "duration", s.clock.Since(start))
	return nil
}
