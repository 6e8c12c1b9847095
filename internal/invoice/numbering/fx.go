package numbering

import (
	"context"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/gembill/internal/config"
	obsmetrics "github.com/smallbiznis/gembill/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("invoice.numbering",
	fx.Provide(NewRedisClient, NewFromConfig),
)

// NewRedisClient returns nil when no Redis address is configured.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config) *redis.Client {
	if !cfg.Redis.Enabled() {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     strings.TrimSpace(cfg.Redis.Addr),
		Password: strings.TrimSpace(cfg.Redis.Password),
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client
}

type LockParams struct {
	fx.In

	Config  config.Config
	Redis   *redis.Client       `optional:"true"`
	Metrics *obsmetrics.Metrics `optional:"true"`
	Log     *zap.Logger
}

func NewFromConfig(p LockParams) *Lock {
	var remote TryLocker
	if p.Redis != nil {
		remote = NewRedisLocker(p.Redis)
	}
	var recorder WaitRecorder
	if p.Metrics != nil {
		recorder = p.Metrics
	}
	return New(Config{
		Key:  p.Config.Numbering.LockKey,
		TTL:  p.Config.Numbering.LockTTL,
		Wait: p.Config.Numbering.LockWait,
	}, remote, recorder, p.Log)
}
