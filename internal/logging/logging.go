package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger shared by every command.
type Logger struct {
	*zap.SugaredLogger
}

// builds a console logger; verbose lowers the level to debug
func NewLogger(verbose bool) *Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	if !verbose {
		encoderCfg.CallerKey = ""
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		level,
	)

	opts := []zap.Option{}
	if verbose {
		opts = append(opts, zap.AddCaller())
	}

	return &Logger{SugaredLogger: zap.New(core, opts...).Sugar()}
}

// discards everything, used by tests and library callers without a logger
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// returns a child logger carrying the given key/value pairs
func (l *Logger) With(args ...any) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...)}
}

// flushes buffered entries; sync errors on terminals are ignored
func (l *Logger) Close() {
	_ = l.Sync()
}
