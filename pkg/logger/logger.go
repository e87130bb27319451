package logger

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Log      *zap.Logger
	onceInit sync.Once
)

// Init builds the process-wide logger once. Later calls keep the first
// configuration.
func Init(level zapcore.Level, meta ...zap.Field) error {
	var initErr error
	onceInit.Do(func() {
		instance, err := New(level, false)
		if err != nil {
			initErr = err
			return
		}
		Log = instance.With(meta...)
	})
	if initErr != nil {
		return initErr
	}

	if Log == nil {
		return errors.New("logger not initialized")
	}

	return nil
}

// New builds a standalone logger. color switches the level encoder for
// interactive terminals.
func New(level zapcore.Level, color bool) (*zap.Logger, error) {
	instance, err := configure(level, color).Build(zap.AddCaller())
	if err != nil {
		return nil, errors.Wrap(err, "build zap logger")
	}
	return instance, nil
}

// ParseLevel accepts zap level names and falls back to info.
func ParseLevel(name string) (zapcore.Level, error) {
	if name == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel, errors.Wrapf(err, "unknown log level %q", name)
	}
	return lvl, nil
}

func configure(level zapcore.Level, color bool) zap.Config {
	encoder := zap.NewProductionEncoderConfig()
	encoder.TimeKey = "timestamp"
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder.EncodeLevel = zapcore.CapitalLevelEncoder
	if color {
		encoder.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	encoder.EncodeCaller = zapcore.ShortCallerEncoder
	encoder.EncodeDuration = zapcore.SecondsDurationEncoder
	encoder.EncodeName = zapcore.FullNameEncoder
	encoder.CallerKey = "caller"
	return zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       false,
		DisableCaller:     false,
		DisableStacktrace: level > zapcore.DebugLevel,
		Encoding:          "console",
		EncoderConfig:     encoder,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}
