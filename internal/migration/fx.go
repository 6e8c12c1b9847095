package migration

import (
	"github.com/smallbiznis/gembill/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module migrates the invoice store before its HTTP server starts.
var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		version, err := Apply(conn, cfg.Store.DBType)
		if err != nil {
			return err
		}
		log.Info("invoice store schema ready",
			zap.String("type", cfg.Store.DBType),
			zap.Uint("version", version),
		)
		return nil
	}),
)
