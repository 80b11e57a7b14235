// Package logging builds the diagnostic logger shared by the commands.
// Command results are printed by the commands themselves; the logger only
// carries progress and warnings on stderr.
package logging

import (
	"sync"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	once   sync.Once
	logger *zap.SugaredLogger
)

// New builds a logger writing to stderr. Verbose enables debug output
// with caller information.
func New(verbose bool) (*zap.Logger, error) {
	var cfg zap.Config

	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.DisableStacktrace = true
		cfg.Sampling = nil
	}

	cfg.OutputPaths = []string{"stderr"}

	return cfg.Build()
}

// Logger returns the process logger configured by the "verbose" setting.
func Logger() *zap.SugaredLogger {
	once.Do(func() {
		l, err := New(viper.GetBool("verbose"))
		if err != nil {
			l = zap.NewNop()
		}

		logger = l.Sugar()
	})

	return logger
}

// Sync flushes buffered entries.
func Sync() {
	if logger != nil {
		logger.Sync()
	}
}
