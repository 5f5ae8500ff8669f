package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a console logger at the given verbosity level.
// Unknown level strings fall back to info.
func New(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(zapcore.Lock(os.Stdout)),
		lvl,
	)

	return zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))
}

// Sync flushes buffered log entries, swallowing the harmless errors
// stdout/stderr return when they are not regular files.
func Sync(l *zap.Logger) {
	if err := l.Sync(); err != nil {
		if err.Error() == "sync /dev/stdout: invalid argument" ||
			err.Error() == "sync /dev/stderr: inappropriate ioctl for device" {
			return
		}
	}
}
