package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LogLevel определяет уровни логирования
type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

// String возвращает строковое представление уровня логирования
func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) logrus() logrus.Level {
	switch l {
	case TRACE:
		return logrus.TraceLevel
	case DEBUG:
		return logrus.DebugLevel
	case WARN:
		return logrus.WarnLevel
	case ERROR:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// ParseLevel разбирает уровень из строки ("debug", "INFO", ...). Неизвестное значение даёт INFO.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return TRACE
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

// Options задаёт параметры логгера
type Options struct {
	Level  LogLevel
	Format string // "json" или "text"
	Dir    string // каталог для файла логов; пусто - только консоль
	Output io.Writer
}

// Logger представляет логгер компонента поверх logrus
type Logger struct {
	component string
	base      *logrus.Logger
	entry     *logrus.Entry
	file      *os.File
}

// Глобальный логгер по умолчанию
var defaultLogger = newConsoleLogger("default")

func newConsoleLogger(component string) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetLevel(levelFromEnv().logrus())
	base.SetFormatter(formatterFromEnv())
	return &Logger{
		component: component,
		base:      base,
		entry:     base.WithField("component", component),
	}
}

func levelFromEnv() LogLevel {
	if lvl, ok := os.LookupEnv("LOG_LEVEL"); ok {
		return ParseLevel(lvl)
	}
	return INFO
}

func formatterFromEnv() logrus.Formatter {
	return formatter(os.Getenv("LOG_FORMAT"))
}

func formatter(format string) logrus.Formatter {
	if strings.ToLower(format) == "json" {
		return &logrus.JSONFormatter{}
	}
	return &logrus.TextFormatter{FullTimestamp: true}
}

// NewLogger создает логгер компонента с настройками из окружения (LOG_LEVEL, LOG_FORMAT)
func NewLogger(component string) (*Logger, error) {
	return NewLoggerWithOptions(component, Options{
		Level:  levelFromEnv(),
		Format: os.Getenv("LOG_FORMAT"),
	})
}

// NewLoggerWithOptions создает логгер компонента.
// Если задан Dir, все сообщения дополнительно пишутся в файл <Dir>/<component>_<timestamp>.log.
func NewLoggerWithOptions(component string, opts Options) (*Logger, error) {
	base := logrus.New()
	base.SetLevel(opts.Level.logrus())
	base.SetFormatter(formatter(opts.Format))

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	l := &Logger{component: component, base: base}

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, fmt.Errorf("ошибка создания директории %s: %w", opts.Dir, err)
		}
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		filename := filepath.Join(opts.Dir, fmt.Sprintf("%s_%s.log", component, timestamp))
		file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("ошибка создания файла логов: %w", err)
		}
		l.file = file
		out = io.MultiWriter(out, file)
	}

	base.SetOutput(out)
	l.entry = base.WithField("component", component)
	return l, nil
}

// Close закрывает файл логов, если он открыт
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// SetLevel меняет минимальный уровень логгера
func (l *Logger) SetLevel(level LogLevel) {
	l.base.SetLevel(level.logrus())
}

// Component возвращает имя компонента
func (l *Logger) Component() string {
	return l.component
}

// WithFields возвращает logrus.Entry с дополнительными полями
func (l *Logger) WithFields(fields logrus.Fields) *logrus.Entry {
	return l.entry.WithFields(fields)
}

// WithField возвращает logrus.Entry с одним дополнительным полем
func (l *Logger) WithField(key string, value interface{}) *logrus.Entry {
	return l.entry.WithField(key, value)
}

// IsDebug сообщает, включён ли уровень DEBUG
func (l *Logger) IsDebug() bool {
	return l.base.IsLevelEnabled(logrus.DebugLevel)
}

func (l *Logger) Trace(format string, args ...interface{}) { l.entry.Tracef(format, args...) }
func (l *Logger) Debug(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// InitDefaultLogger инициализирует глобальный логгер с файлом в каталоге logs
func InitDefaultLogger(component string) error {
	return InitDefaultLoggerWithOptions(component, Options{
		Level:  levelFromEnv(),
		Format: os.Getenv("LOG_FORMAT"),
		Dir:    "logs",
	})
}

// InitDefaultLoggerWithOptions инициализирует глобальный логгер с явными настройками
func InitDefaultLoggerWithOptions(component string, opts Options) error {
	l, err := NewLoggerWithOptions(component, opts)
	if err != nil {
		return err
	}
	_ = defaultLogger.Close()
	defaultLogger = l
	return nil
}

// CloseDefaultLogger закрывает глобальный логгер
func CloseDefaultLogger() {
	_ = defaultLogger.Close()
}

// Default возвращает глобальный логгер
func Default() *Logger {
	return defaultLogger
}

// Trace логирует сообщение уровня TRACE
func Trace(format string, args ...interface{}) { defaultLogger.Trace(format, args...) }

// Debug логирует сообщение уровня DEBUG
func Debug(format string, args ...interface{}) { defaultLogger.Debug(format, args...) }

// Info логирует сообщение уровня INFO
func Info(format string, args ...interface{}) { defaultLogger.Info(format, args...) }

// Warn логирует сообщение уровня WARN
func Warn(format string, args ...interface{}) { defaultLogger.Warn(format, args...) }

// Error логирует сообщение уровня ERROR
func Error(format string, args ...interface{}) { defaultLogger.Error(format, args...) }
