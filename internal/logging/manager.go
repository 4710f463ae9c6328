package logging

import (
	"fmt"
	"sync"
)

// LoggerManager хранит по одному логгеру на компонент симуляции
// (physics, behaviour, hud, events, metrics, ...)
type LoggerManager struct {
	mu      sync.Mutex
	loggers map[string]*Logger
	// defaults - параметры новых логгеров; nil - из окружения
	defaults *Options
}

var (
	globalManager *LoggerManager
	managerOnce   sync.Once
)

// GetLoggerManager возвращает менеджер процесса
func GetLoggerManager() *LoggerManager {
	managerOnce.Do(func() {
		globalManager = &LoggerManager{loggers: make(map[string]*Logger)}
	})
	return globalManager
}

// GetLogger возвращает логгер компонента, создавая его по defaults
func (lm *LoggerManager) GetLogger(component string) (*Logger, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if logger, ok := lm.loggers[component]; ok {
		return logger, nil
	}
	var (
		logger *Logger
		err    error
	)
	if lm.defaults != nil {
		logger, err = NewLoggerWithOptions(component, *lm.defaults)
	} else {
		logger, err = NewLogger(component)
	}
	if err != nil {
		return nil, fmt.Errorf("logger for %s: %w", component, err)
	}
	lm.loggers[component] = logger
	return logger, nil
}

// MustGetLogger как GetLogger, но при ошибке отдаёт логгер по умолчанию
func (lm *LoggerManager) MustGetLogger(component string) *Logger {
	logger, err := lm.GetLogger(component)
	if err != nil {
		return defaultLogger
	}
	return logger
}

// SetDefaults задаёт параметры логгеров, созданных после вызова.
// Уже выданным логгерам и логгеру по умолчанию меняется только уровень.
func (lm *LoggerManager) SetDefaults(opts Options) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.defaults = &opts
	for _, logger := range lm.loggers {
		logger.SetLevel(opts.Level)
	}
	defaultLogger.SetLevel(opts.Level)
}

// CloseAll закрывает файлы логов компонентов и забывает выданные логгеры
func (lm *LoggerManager) CloseAll() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var firstErr error
	for component, logger := range lm.loggers {
		if err := logger.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close logger %s: %w", component, err)
		}
	}
	lm.loggers = make(map[string]*Logger)
	return firstErr
}

// GetComponentLogger - логгер компонента из менеджера процесса
func GetComponentLogger(component string) *Logger {
	return GetLoggerManager().MustGetLogger(component)
}
