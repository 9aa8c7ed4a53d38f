package logging

import (
	"sync"
)

// Registry hands out named loggers and keeps their levels in sync with a list of pattern
// configs. Later patterns win over earlier ones; loggers matched by no pattern get the
// registry's default level.
type Registry struct {
	mu           sync.RWMutex
	loggers      map[string]Logger
	logConfig    []LoggerPatternConfig
	defaultLevel Level
	newLogger    func(name string) Logger
}

// NewRegistry returns a registry whose loggers are created by `newLogger` and default to
// `defaultLevel`.
func NewRegistry(defaultLevel Level, newLogger func(name string) Logger) *Registry {
	return &Registry{
		loggers:      make(map[string]Logger),
		defaultLevel: defaultLevel,
		newLogger:    newLogger,
	}
}

// Logger returns the logger registered under `name`, creating and configuring it on first use.
// Concurrent callers for the same name all get the same logger.
func (lr *Registry) Logger(name string) Logger {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	if existing, ok := lr.loggers[name]; ok {
		return existing
	}

	logger := lr.newLogger(name)
	lr.loggers[name] = logger
	logger.SetLevel(lr.levelFor(name))
	return logger
}

func (lr *Registry) loggerNamed(name string) (Logger, bool) {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	logger, ok := lr.loggers[name]
	return logger, ok
}

// levelFor must be called with `mu` held.
func (lr *Registry) levelFor(name string) Level {
	level := lr.defaultLevel
	for _, lpc := range lr.logConfig {
		if !buildRegexFromPattern(lpc.Pattern).MatchString(name) {
			continue
		}
		if parsed, err := LevelFromString(lpc.Level); err == nil {
			level = parsed
		}
	}
	return level
}

// UpdateConfig replaces the pattern list and re-levels every registered logger. Invalid patterns
// are skipped with a warning on `errorLogger`.
func (lr *Registry) UpdateConfig(logConfig []LoggerPatternConfig, errorLogger Logger) {
	valid := make([]LoggerPatternConfig, 0, len(logConfig))
	for _, lpc := range logConfig {
		if err := lpc.Validate("log"); err != nil {
			errorLogger.Warnw("ignoring log pattern", "pattern", lpc.Pattern, "level", lpc.Level, "error", err)
			continue
		}
		valid = append(valid, lpc)
	}

	lr.mu.Lock()
	defer lr.mu.Unlock()
	lr.logConfig = valid
	for name, logger := range lr.loggers {
		logger.SetLevel(lr.levelFor(name))
	}
}
