// Package poller keeps an admin's alert list approximately fresh: one fetch
// at start, then one per fixed interval, until stopped.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/me/roadwatch/pkg/model"
)

// DefaultInterval matches the screen's 10-second refresh cadence.
const DefaultInterval = 10 * time.Second

// ErrAlreadyStarted is returned when Start is called on a running poller.
// One poller owns at most one timer; a re-render must not create a second.
var ErrAlreadyStarted = errors.New("poller already started")

// ErrStopped is returned when Start is called after Stop. A stopped poller
// stays stopped; a new screen mount builds a new poller.
var ErrStopped = errors.New("poller stopped")

// Fetcher is the slice of the API client the poller needs.
type Fetcher interface {
	AdminAlerts(ctx context.Context) ([]model.Alert, error)
	MarkAlertRead(ctx context.Context, alertID int64) error
}

// Config holds poller configuration.
type Config struct {
	Interval time.Duration

	// OnUpdate runs after every applied snapshot replacement.
	OnUpdate func([]model.Alert)

	// OnError runs once per failed fetch. Failures keep the previous
	// snapshot and do not stop the loop.
	OnError func(error)
}

// Poller owns the polling goroutine and the current alert snapshot.
type Poller struct {
	fetcher Fetcher
	config  Config
	logger  *slog.Logger

	stopCh chan struct{}
	doneCh chan struct{}

	mu      sync.Mutex
	alerts  []model.Alert
	started bool
	stopped bool
}

// New creates a poller. A zero Interval falls back to DefaultInterval.
func New(fetcher Fetcher, cfg Config, logger *slog.Logger) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Poller{
		fetcher: fetcher,
		config:  cfg,
		logger:  logger.With("component", "poller"),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Start fetches immediately, then once per interval, until Stop is called or
// ctx is cancelled. It does not block; the loop runs in its own goroutine.
// Starting a started or stopped poller is an error, never a duplicate timer
// and never a fetch after Stop has returned.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	switch {
	case p.stopped:
		p.mu.Unlock()
		return ErrStopped
	case p.started:
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	p.started = true
	p.mu.Unlock()

	p.logger.Info("polling started", "interval", p.config.Interval)

	go func() {
		defer close(p.doneCh)

		p.tick(ctx)

		ticker := time.NewTicker(p.config.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.logger.Info("polling stopping (context cancelled)")
				return
			case <-p.stopCh:
				p.logger.Info("polling stopping (stop called)")
				return
			case <-ticker.C:
				p.tick(ctx)
			}
		}
	}()

	return nil
}

// Stop tears the loop down deterministically: after it returns no further
// fetch is issued, and an in-flight fetch's result is discarded rather than
// applied. Safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	started := p.started
	p.mu.Unlock()

	close(p.stopCh)
	if started {
		<-p.doneCh
	}
}

// Snapshot returns a copy of the current alert list, unread first.
func (p *Poller) Snapshot() []model.Alert {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.Alert, len(p.alerts))
	copy(out, p.alerts)
	return out
}

// MarkRead flips one alert's status to Read: server first, then the local
// snapshot on acknowledgment. On failure the snapshot is left untouched and
// the error is returned for the caller to surface.
func (p *Poller) MarkRead(ctx context.Context, alertID int64) error {
	if err := p.fetcher.MarkAlertRead(ctx, alertID); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.alerts {
		if p.alerts[i].AlertID == alertID {
			p.alerts[i].AlertStatus = model.AlertStatusRead
			break
		}
	}
	return nil
}

// tick performs one fetch and applies the result. Fetches run sequentially
// inside the polling goroutine, so application order is arrival order.
func (p *Poller) tick(ctx context.Context) {
	alerts, err := p.fetcher.AdminAlerts(ctx)
	if err != nil {
		p.logger.Warn("alert fetch failed, keeping previous data", "error", err)
		if p.config.OnError != nil {
			p.config.OnError(err)
		}
		return
	}

	model.SortAlerts(alerts)

	p.mu.Lock()
	if p.stopped {
		// The screen is gone; a late result must not mutate its state.
		p.mu.Unlock()
		return
	}
	p.alerts = alerts
	p.mu.Unlock()

	if p.config.OnUpdate != nil {
		p.config.OnUpdate(alerts)
	}
}
