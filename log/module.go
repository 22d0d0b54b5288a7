package log

import (
	"github.com/neuronlabs/uni-logger"
)

var modules []*ModuleLogger

// ModuleLogger is the logger used by the specific modules i.e. 'memory', 'network'.
// Each message is prefixed with the module name. Unless the default logger implements
// SubLogger, the module logger writes with the default logger.
type ModuleLogger struct {
	Name           string
	logger         unilogger.LeveledLogger
	isDebugLeveled bool
	isLevelSetter  bool

	levelSetter  unilogger.LevelSetter
	debugLeveled unilogger.DebugLeveledLogger

	currentLevel unilogger.Level
}

// NewModuleLogger creates new module logger for given 'name' of the module and an optional 'logger'.
func NewModuleLogger(name string, moduleLogger ...unilogger.LeveledLogger) *ModuleLogger {
	mLogger := &ModuleLogger{Name: name, currentLevel: currentLevel}
	modules = append(modules, mLogger)

	switch {
	case len(moduleLogger) > 0:
		mLogger.logger = moduleLogger[0]
		mLogger.initializeLogger()
	case logger != nil:
		if sub, ok := logger.(SubLogger); ok {
			mLogger.logger = sub.SubLogger()
			mLogger.initializeLogger()
		}
	}
	return mLogger
}

// Level gets the module logger level.
func (m *ModuleLogger) Level() unilogger.Level {
	return m.currentLevel
}

// SetLevel sets the moduleLogger level.
func (m *ModuleLogger) SetLevel(level unilogger.Level) {
	m.currentLevel = level
	if m.isLevelSetter {
		m.levelSetter.SetLevel(level)
	}
}

// Debug3f writes the formatted debug3 log.
func (m *ModuleLogger) Debug3f(format string, args ...interface{}) {
	if !m.allowed(LDEBUG3) {
		return
	}
	format = m.name() + format
	switch {
	case m.logger == nil:
		Debug3f(format, args...)
	case m.isDebugLeveled:
		m.debugLeveled.Debug3f(format, args...)
	default:
		m.logger.Debugf(format, args...)
	}
}

// Debug2f writes the formatted debug2 log.
func (m *ModuleLogger) Debug2f(format string, args ...interface{}) {
	if !m.allowed(LDEBUG2) {
		return
	}
	format = m.name() + format
	switch {
	case m.logger == nil:
		Debug2f(format, args...)
	case m.isDebugLeveled:
		m.debugLeveled.Debug2f(format, args...)
	default:
		m.logger.Debugf(format, args...)
	}
}

// Debugf writes the formatted debug log.
func (m *ModuleLogger) Debugf(format string, args ...interface{}) {
	if !m.allowed(LDEBUG) {
		return
	}
	format = m.name() + format
	if m.logger != nil {
		m.logger.Debugf(format, args...)
	} else {
		Debugf(format, args...)
	}
}

// Infof writes the formatted info log.
func (m *ModuleLogger) Infof(format string, args ...interface{}) {
	if !m.allowed(LINFO) {
		return
	}
	format = m.name() + format
	if m.logger != nil {
		m.logger.Infof(format, args...)
	} else {
		Infof(format, args...)
	}
}

// Warningf writes the formatted warning log.
func (m *ModuleLogger) Warningf(format string, args ...interface{}) {
	if !m.allowed(LWARNING) {
		return
	}
	format = m.name() + format
	if m.logger != nil {
		m.logger.Warningf(format, args...)
	} else {
		Warningf(format, args...)
	}
}

// Errorf writes the formatted error log.
func (m *ModuleLogger) Errorf(format string, args ...interface{}) {
	if !m.allowed(LERROR) {
		return
	}
	format = m.name() + format
	if m.logger != nil {
		m.logger.Errorf(format, args...)
	} else {
		Errorf(format, args...)
	}
}

// allowed checks the level only for the loggers that can't filter the messages by themselves.
func (m *ModuleLogger) allowed(level unilogger.Level) bool {
	if m.isLevelSetter {
		return true
	}
	return m.currentLevel == unilogger.UNKNOWN || m.currentLevel <= level
}

func (m *ModuleLogger) initializeLogger() {
	if m.logger == nil {
		return
	}
	m.debugLeveled, m.isDebugLeveled = m.logger.(unilogger.DebugLeveledLogger)
	if lGetter, ok := m.logger.(LevelGetter); ok {
		m.currentLevel = lGetter.GetLevel()
	}
	m.levelSetter, m.isLevelSetter = m.logger.(unilogger.LevelSetter)
}

func (m *ModuleLogger) name() string {
	return "[" + m.Name + "] "
}
