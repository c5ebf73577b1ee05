package logger

import (
	"mailflow/internal/config"
	"mailflow/internal/database"

	"go.uber.org/zap"
)

// NewLogger builds the application logger. Entries go to the console and,
// through an async sink, into the Mongo "logs" collection.
func NewLogger(cfg *config.Config, db *database.MongodbDB) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	sink := NewMongoLogSink(db, cfg)
	core := NewSinkCore(baseLogger.Core(), sink)

	return zap.New(core, zap.AddCaller()), nil
}
