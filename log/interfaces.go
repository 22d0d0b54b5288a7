package log

import (
	"github.com/neuronlabs/uni-logger"
)

// SubLogger is the interface implemented by the loggers that could create a sub logger for the modules.
type SubLogger interface {
	SubLogger() unilogger.LeveledLogger
}

// LevelGetter is the interface implemented by the loggers that expose their current level.
type LevelGetter interface {
	GetLevel() unilogger.Level
}
