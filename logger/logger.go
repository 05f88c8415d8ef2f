package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	*zap.SugaredLogger
}

// profile is the logging setup selected by the environment name.
type profile struct {
	json       bool
	level      zapcore.Level
	caller     bool
	stacktrace bool
}

var profiles = map[string]profile{
	"development": {level: zap.DebugLevel},
	"debug":       {level: zap.DebugLevel, caller: true, stacktrace: true},
	"production":  {json: true, level: zap.InfoLevel},
	"test":        {json: true, level: zap.WarnLevel},
}

var fallbackProfile = profile{level: zap.InfoLevel}

// Init is New for main packages; it exits the process when zap cannot start.
func Init(serviceName, env string) *Logger {
	l, err := New(serviceName, env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	return l
}

// New logs to stdout using the profile for env: "development", "debug",
// "production" or "test". Other names get an info-level console logger.
func New(serviceName, env string) (*Logger, error) {
	cfg, withCaller := buildConfig(env)
	z, err := cfg.Build(zap.WithCaller(withCaller), zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("cannot init zap logger: %w", err)
	}
	return FromZap(z, serviceName), nil
}

// NewTo is New writing to w, for tools whose stdout carries data.
func NewTo(serviceName, env string, w io.Writer) *Logger {
	cfg, withCaller := buildConfig(env)

	var enc zapcore.Encoder
	if cfg.Encoding == "json" {
		enc = zapcore.NewJSONEncoder(cfg.EncoderConfig)
	} else {
		enc = zapcore.NewConsoleEncoder(cfg.EncoderConfig)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), cfg.Level)
	return FromZap(zap.New(core, zap.WithCaller(withCaller), zap.AddCallerSkip(1)), serviceName)
}

// FromZap wraps an existing zap logger, e.g. one built on an observer core.
func FromZap(z *zap.Logger, serviceName string) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	if serviceName != "" {
		z = z.Named(serviceName)
	}
	return &Logger{SugaredLogger: z.Sugar()}
}

// Nop discards everything.
func Nop() *Logger {
	return FromZap(zap.NewNop(), "")
}

func buildConfig(env string) (zap.Config, bool) {
	p, ok := profiles[strings.ToLower(strings.TrimSpace(env))]
	if !ok {
		p = fallbackProfile
	}

	var cfg zap.Config
	if p.json {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(p.level)
	cfg.DisableStacktrace = !p.stacktrace
	cfg.OutputPaths = []string{"stdout"}

	ec := &cfg.EncoderConfig
	ec.TimeKey = "timestamp"
	ec.LevelKey = "level"
	ec.MessageKey = "msg"
	ec.NameKey = "logger"
	ec.CallerKey = zapcore.OmitKey
	if p.caller {
		ec.CallerKey = "caller"
	}
	ec.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg, p.caller
}

func (l *Logger) With(args ...any) LoggerInterface {
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...)}
}

// SafeSync flushes buffered entries. Errors from syncing a terminal or pipe
// are expected and dropped.
func (l *Logger) SafeSync() {
	if l == nil {
		return
	}
	if err := l.Desugar().Sync(); err != nil && !isIgnorableSyncError(err) {
		l.Errorf("log sync error: %v", err)
	}
}

func isIgnorableSyncError(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "invalid argument") ||
		strings.Contains(s, "inappropriate ioctl for device")
}
