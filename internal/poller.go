package internal

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"order-sentry/internal/model"
)

// Poller periodically asks the repository for orders created after the last
// check and hands newly arrived ones to the dispatcher. Failed ticks never
// give up: the next tick retries with the same since value, no backoff, no
// ceiling.
type Poller struct {
	repo       IRepository
	dispatcher *Dispatcher
	caps       model.Capabilities
	interval   time.Duration
	logger     *zap.SugaredLogger

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	// flips after the first successful fetch; only touched from Poll,
	// which runs on a single goroutine
	seeded bool
}

func NewPoller(repo IRepository, dispatcher *Dispatcher, caps model.Capabilities, interval time.Duration, logger *zap.SugaredLogger) *Poller {
	return &Poller{
		repo:       repo,
		dispatcher: dispatcher,
		caps:       caps,
		interval:   interval,
		logger:     logger,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (p *Poller) Start(ctx context.Context) {
	go p.run(ctx)
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.Poll(ctx)
		case <-p.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Poll is a single freshness check. Roles without order access never reach
// the backend. Until a fetch has succeeded the full list is requested: the
// cache has nothing to anchor a delta window on yet, and orders predating
// the session must fill the dashboard without raising alerts. From then on
// only the delta window is fetched; on failure lastCheck stays put, so the
// next tick covers the same window again. Duplicate sightings are the
// dispatcher's problem.
func (p *Poller) Poll(ctx context.Context) {
	if !p.caps.ViewOrders {
		return
	}

	since := p.repo.LastCheck()
	if !p.seeded {
		since = time.Time{}
	}

	fresh, err := p.repo.FetchAll(ctx, since)
	if err != nil {
		if errors.Is(err, ErrStaleResponse) {
			p.logger.Debugf("poll overtaken by a newer response: %s", err.Error())
			return
		}
		PollFailuresTotal.Inc()
		p.logger.Errorf("failed to fetch new orders, retrying: %s", err.Error())
		return
	}

	PollsTotal.Inc()

	if !p.seeded {
		p.seeded = true
		p.repo.Acknowledge(time.Now())
		return
	}

	if len(fresh) > 0 {
		p.dispatcher.Dispatch(ctx, fresh)
	}
}

// Stop halts the ticker and waits for the loop to exit. Safe to call more
// than once; in-flight requests are not aborted, their results just go
// unobserved once the loop is gone.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
	<-p.done
}
