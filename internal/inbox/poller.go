package inbox

import (
	"context"
	"time"

	"github.com/justify-app/justify/internal/retry"
	"go.uber.org/zap"
)

// Poller drives the periodic conversation refresh while a conversation is
// open. Consecutive failures stretch the interval with capped exponential
// backoff; the first success snaps it back.
type Poller struct {
	vm       *ViewModel
	interval time.Duration
	backoff  *retry.Backoff
	logger   *zap.Logger
	cancel   context.CancelFunc
}

// NewPoller creates a refresh poller with the given base interval.
func NewPoller(vm *ViewModel, interval time.Duration, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		vm:       vm,
		interval: interval,
		backoff:  retry.Default(interval),
		logger:   logger,
	}
}

// Start begins the refresh loop. Stop tears it down; the loop also exits
// when ctx is cancelled.
func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	go p.loop(ctx)
}

// Stop cancels the refresh loop.
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
}

func (p *Poller) loop(ctx context.Context) {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			p.tick(ctx)
			timer.Reset(p.backoff.Current())
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if p.vm.CounterpartID() == 0 {
		p.backoff.Reset()
		return
	}
	if _, err := p.vm.Refresh(ctx); err != nil {
		delay := p.backoff.Fail()
		p.logger.Warn("refresh failed, backing off",
			zap.Int("failures", p.backoff.Failures()),
			zap.Duration("next", delay),
			zap.Error(err))
		return
	}
	p.backoff.Reset()
}
