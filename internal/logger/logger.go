package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Newは環境に合わせたzapロガーを返す。
// prodはJSON、devはコンソール出力。
func New(goEnv string, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if goEnv == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}
