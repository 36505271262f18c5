package store

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/gridops/gridassess/internal/logx"
)

// Janitor periodically removes assessments whose import date fell out of the
// retention window.
type Janitor struct {
	store         *Store
	logger        logx.Logger
	retentionDays int

	stopSig  chan bool
	started  int32
	shutdown int32
}

func NewJanitor(store *Store, retentionDays int, logger logx.Logger) *Janitor {
	if logger == nil {
		logger = logx.NewNop()
	}
	return &Janitor{
		store:         store,
		logger:        logger,
		retentionDays: retentionDays,
		stopSig:       make(chan bool),
	}
}

// Run starts the sweep loop in a goroutine.
func (j *Janitor) Run(period time.Duration) {
	if period < time.Minute {
		period = time.Minute
	}
	atomic.StoreInt32(&j.started, 1)

	t := time.NewTicker(period)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-t.C:
				j.sweep()
			case runFinal := <-j.stopSig:
				if runFinal {
					j.sweep()
				}
				close(j.stopSig)
				return
			}
		}
	}()
}

// Stop shuts the loop down, optionally running one final sweep first.
// Stopping before Run would block on the handshake, so it is refused.
func (j *Janitor) Stop(runFinal bool) error {
	if atomic.LoadInt32(&j.started) == 0 {
		return errors.New("janitor not running")
	}
	if !atomic.CompareAndSwapInt32(&j.shutdown, 0, 1) {
		return errors.New("janitor already stopped")
	}
	j.stopSig <- runFinal
	<-j.stopSig
	return nil
}

func (j *Janitor) sweep() {
	n, err := j.store.DeleteExpired(j.retentionDays, time.Now())
	if err != nil {
		j.logger.Warnw("retention sweep failed", "error", err)
		return
	}
	if n > 0 {
		j.logger.Infow("expired assessments removed",
			"count", n,
			"retention_days", j.retentionDays,
		)
	}
}
