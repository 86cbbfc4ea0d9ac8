package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the logger's severity threshold.
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// LogEntry is the JSON shape of a single log line. Tests parse it; don't
// rename keys without updating consumers of the log stream.
type LogEntry struct {
	Time    string                 `json:"time"`
	Level   string                 `json:"level"`
	Message string                 `json:"message"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// Logger emits one JSON object per line through a zap core.
type Logger struct {
	zl     *zap.Logger
	out    zapcore.WriteSyncer
	level  zap.AtomicLevel
	fields map[string]interface{}
}

// Default is the process-wide logger used by the package-level helpers.
var Default = New()

func New() *Logger {
	l := &Logger{
		out:   zapcore.Lock(os.Stdout),
		level: zap.NewAtomicLevelAt(zapcore.InfoLevel),
	}
	l.rebuild()
	return l
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

func (l *Logger) rebuild() {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), l.out, l.level)
	l.zl = zap.New(core)
}

// SetOutput redirects log output. Returns the logger for chaining.
func (l *Logger) SetOutput(w io.Writer) *Logger {
	l.out = zapcore.AddSync(w)
	l.rebuild()
	return l
}

// SetLevel adjusts the minimum level that will be written.
func (l *Logger) SetLevel(level Level) *Logger {
	l.level.SetLevel(level.zapLevel())
	return l
}

// WithField returns a logger that includes the given field on every entry.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	fields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value
	return &Logger{zl: l.zl, out: l.out, level: l.level, fields: fields}
}

func (l *Logger) log(level zapcore.Level, msg string, fields []map[string]interface{}) {
	ce := l.zl.Check(level, msg)
	if ce == nil {
		return
	}
	merged := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, fm := range fields {
		for k, v := range fm {
			merged[k] = v
		}
	}
	if len(merged) > 0 {
		ce.Write(zap.Any("fields", merged))
		return
	}
	ce.Write()
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.log(zapcore.DebugLevel, msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.log(zapcore.InfoLevel, msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.log(zapcore.WarnLevel, msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.log(zapcore.ErrorLevel, msg, fields)
}

// SetDefaultLevel adjusts the package-level logger.
func SetDefaultLevel(level Level) {
	Default.SetLevel(level)
}

func Debug(msg string, fields ...map[string]interface{}) {
	Default.Debug(msg, fields...)
}

func Info(msg string, fields ...map[string]interface{}) {
	Default.Info(msg, fields...)
}

func Warn(msg string, fields ...map[string]interface{}) {
	Default.Warn(msg, fields...)
}

func Error(msg string, fields ...map[string]interface{}) {
	Default.Error(msg, fields...)
}
