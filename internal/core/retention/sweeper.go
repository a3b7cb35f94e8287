package retention

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/storage"
	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/shared/utils"
	"github.com/robfig/cron/v3"
)

// Report summarizes one sweep
type Report struct {
	Scanned int      `json:"scanned"`
	Deleted []string `json:"deleted"`
	Failed  int      `json:"failed"`
	Logs    int64    `json:"logs"`
}

// LogPruner deletes export log rows older than a cutoff
type LogPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper removes generated artifacts older than the retention window
type Sweeper struct {
	provider storage.Provider
	maxAge   time.Duration
	logs     LogPruner
	now      func() time.Time

	cron    *cron.Cron
	entryID cron.EntryID
	mu      sync.Mutex // one sweep at a time
}

// NewSweeper creates a sweeper. A non-positive maxAge disables deletion.
func NewSweeper(provider storage.Provider, maxAge time.Duration) *Sweeper {
	return &Sweeper{
		provider: provider,
		maxAge:   maxAge,
		now:      time.Now,
		cron:     cron.New(cron.WithSeconds()), // Support seconds in cron expressions
	}
}

// PruneLogs makes every sweep also delete export log rows past the window
func (s *Sweeper) PruneLogs(p LogPruner) *Sweeper {
	s.logs = p
	return s
}

// Schedule registers the sweep, e.g. "@every 1h" or "0 0 * * * *"
func (s *Sweeper) Schedule(spec string) error {
	if s.entryID != 0 {
		s.cron.Remove(s.entryID)
		s.entryID = 0
	}

	entryID, err := s.cron.AddFunc(spec, func() {
		report, err := s.RunOnce(context.Background(), s.now())
		if err != nil {
			utils.LogError("Retention sweep failed", err, nil)
			return
		}
		if len(report.Deleted) > 0 || report.Failed > 0 || report.Logs > 0 {
			utils.LogInfo("Retention sweep finished", map[string]interface{}{
				"scanned": report.Scanned,
				"deleted": len(report.Deleted),
				"failed":  report.Failed,
				"logs":    report.Logs,
			})
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.entryID = entryID
	return nil
}

// Start starts the scheduler
func (s *Sweeper) Start() {
	utils.LogInfo("Starting retention sweeper", map[string]interface{}{
		"provider": s.provider.GetProviderName(),
		"max_age":  s.maxAge.String(),
	})
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running sweep
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	utils.LogInfo("Retention sweeper stopped", nil)
}

// RunOnce deletes every artifact last modified before now minus the window
func (s *Sweeper) RunOnce(ctx context.Context, now time.Time) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := &Report{Deleted: []string{}}
	if s.maxAge <= 0 {
		return report, nil
	}

	objects, err := s.provider.List(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := now.Add(-s.maxAge)
	for _, obj := range objects {
		report.Scanned++
		if !obj.ModTime.Before(cutoff) {
			continue
		}
		if err := s.provider.Delete(ctx, obj.Key); err != nil {
			report.Failed++
			utils.LogWarn("Failed to delete expired artifact", map[string]interface{}{
				"key":   obj.Key,
				"error": err.Error(),
			})
			continue
		}
		report.Deleted = append(report.Deleted, obj.Key)
	}

	if s.logs != nil {
		n, err := s.logs.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return report, fmt.Errorf("failed to prune export logs: %w", err)
		}
		report.Logs = n
	}

	return report, nil
}
