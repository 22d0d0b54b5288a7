// Package log contains the default tunables logger with its module subloggers. It is used by all packages
// to log their messages.
//
// The package wraps around third-party loggers that implement the unilogger.LeveledLogger interface.
// If the logger implements unilogger.DebugLeveledLogger the Debug2 and Debug3 levels are written
// with its dedicated methods, otherwise they fall back to the Debug level.
//
// The logger is not set by default, thus nothing is written until Default, New or SetLogger is called.
package log
