// Package numbering serializes invoice number assignment so two creates do
// not read the same maximum and post the same number.
package numbering

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// TryLocker is a non-blocking distributed lock.
type TryLocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}

// WaitRecorder observes lock acquisition latency.
type WaitRecorder interface {
	RecordNumberLockWait(ctx context.Context, wait time.Duration, acquired bool)
}

type Config struct {
	Key  string
	TTL  time.Duration
	Wait time.Duration
}

var errLockBusy = errors.New("numbering lock busy")

// Lock always holds an in-process slot and, when a TryLocker is configured,
// a distributed lock as well. If the distributed lock cannot be obtained
// within Config.Wait, or its store is unreachable, the caller proceeds with
// only the local slot.
type Lock struct {
	slot     chan struct{}
	remote   TryLocker
	cfg      Config
	log      *zap.Logger
	recorder WaitRecorder
}

func New(cfg Config, remote TryLocker, recorder WaitRecorder, log *zap.Logger) *Lock {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Key == "" {
		cfg.Key = "gembill:invoice-number"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 15 * time.Second
	}
	if cfg.Wait <= 0 {
		cfg.Wait = 5 * time.Second
	}
	return &Lock{
		slot:     make(chan struct{}, 1),
		remote:   remote,
		cfg:      cfg,
		log:      log.Named("numbering.lock"),
		recorder: recorder,
	}
}

// Acquire blocks until the local slot is free or ctx ends. The returned
// release func must be called exactly once.
func (l *Lock) Acquire(ctx context.Context) (func(), error) {
	start := time.Now()
	select {
	case l.slot <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	releaseLocal := func() { <-l.slot }

	if l.remote == nil {
		return releaseLocal, nil
	}

	token, err := l.acquireRemote(ctx)
	acquired := err == nil
	if l.recorder != nil {
		l.recorder.RecordNumberLockWait(ctx, time.Since(start), acquired)
	}
	if !acquired {
		if ctxErr := ctx.Err(); ctxErr != nil {
			releaseLocal()
			return nil, ctxErr
		}
		l.log.Warn("proceeding without distributed numbering lock",
			zap.String("key", l.cfg.Key),
			zap.Error(err),
		)
		return releaseLocal, nil
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		switch err := l.remote.Release(releaseCtx, l.cfg.Key, token); {
		case errors.Is(err, ErrLockLost):
			l.log.Warn("numbering lock expired while held; raise NUMBERING_LOCK_TTL", zap.String("key", l.cfg.Key), zap.Duration("ttl", l.cfg.TTL))
		case err != nil:
			l.log.Warn("failed to release numbering lock", zap.String("key", l.cfg.Key), zap.Error(err))
		}
		releaseLocal()
	}, nil
}

func (l *Lock) acquireRemote(ctx context.Context) (string, error) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 25 * time.Millisecond
	exp.MaxInterval = 250 * time.Millisecond
	exp.MaxElapsedTime = l.cfg.Wait

	var token string
	err := backoff.Retry(func() error {
		t, ok, err := l.remote.TryLock(ctx, l.cfg.Key, l.cfg.TTL)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !ok {
			return errLockBusy
		}
		token = t
		return nil
	}, backoff.WithContext(exp, ctx))
	return token, err
}
