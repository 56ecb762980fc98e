package core

import (
	"context"
	"sync"
	"time"

	"github.com/Rican7/retry"
	"github.com/Rican7/retry/backoff"
	"github.com/Rican7/retry/strategy"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Daemon drives both synchronizers on their configured intervals. The
// synchronizers themselves carry no overlap guard, so each loop holds a
// mutex for the duration of a pass and skips ticks that arrive while
// one is still running.
type Daemon struct {
	client      NodeClient
	logger      *logrus.Logger
	proposals   *ProposalSync
	masternodes *MasternodeSync

	proposalInterval   time.Duration
	masternodeInterval time.Duration
	passTimeout        time.Duration

	proposalMu   sync.Mutex
	masternodeMu sync.Mutex

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewDaemon(client NodeClient, publisher Publisher, logger *logrus.Logger, proposalInterval, masternodeInterval, passTimeout time.Duration) *Daemon {
	return &Daemon{
		client:             client,
		logger:             logger,
		proposals:          NewProposalSync(client, publisher, logger),
		masternodes:        NewMasternodeSync(client, publisher, logger),
		proposalInterval:   proposalInterval,
		masternodeInterval: masternodeInterval,
		passTimeout:        passTimeout,
	}
}

// Start probes node connectivity, then launches both sync loops.
func (d *Daemon) Start(ctx context.Context) error {
	probe := func(attempt uint) error {
		_, err := d.client.BlockHeight(ctx)
		if err != nil {
			d.logger.WithError(err).Warnf("node connectivity probe failed, attempt %d", attempt)
		}
		return err
	}
	if err := retry.Retry(probe, strategy.Limit(5), strategy.Backoff(backoff.Fibonacci(5*time.Second))); err != nil {
		return errors.Wrap(err, "node unreachable")
	}

	ctx, d.cancel = context.WithCancel(ctx)

	d.wg.Add(2)
	go d.runLoop(ctx, "proposals", d.proposalInterval, &d.proposalMu, d.proposals.Sync)
	go d.runLoop(ctx, "masternodes", d.masternodeInterval, &d.masternodeMu, d.masternodes.Sync)

	return nil
}

// Stop cancels the loops and waits for in-flight passes to finish.
func (d *Daemon) Stop() error {
	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()
	return nil
}

func (d *Daemon) runLoop(ctx context.Context, name string, interval time.Duration, mu *sync.Mutex, pass func(context.Context) (*SyncResult, error)) {
	defer d.wg.Done()

	d.runOnce(ctx, name, mu, pass)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Infof("%s sync loop stopped", name)
			return
		case <-ticker.C:
			d.runOnce(ctx, name, mu, pass)
		}
	}
}

func (d *Daemon) runOnce(ctx context.Context, name string, mu *sync.Mutex, pass func(context.Context) (*SyncResult, error)) {
	if !mu.TryLock() {
		d.logger.Warnf("%s sync pass still running, skipping tick", name)
		return
	}
	defer mu.Unlock()

	if d.passTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.passTimeout)
		defer cancel()
	}

	result, err := pass(ctx)
	if err != nil {
		d.logger.WithError(err).Errorf("%s sync pass aborted", name)
		return
	}

	d.logger.WithFields(logrus.Fields{
		"created":  result.Created,
		"updated":  result.Updated,
		"deleted":  result.Deleted,
		"errors":   result.Errors,
		"duration": result.Duration,
	}).Infof("%s sync pass complete", name)
}
