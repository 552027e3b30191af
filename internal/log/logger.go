// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"sync"
)

// LeveledLogger is the interface implemented by Logger, to be used by
// components accepting a logger.
type LeveledLogger interface {
	Trace(s string)
	Debug(s string)
	Info(s string)
	Warn(s string)
	Error(s string)
	Critical(s string)
	Tracef(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Criticalf(format string, args ...interface{})
}

var _ LeveledLogger = (*Logger)(nil)

// Logger is the logger implementation structure.
// It is thread safe to use.
type Logger struct {
	settings settings
	childs   []*Logger
	mutex    *sync.Mutex // pointer for child loggers
}

// New creates a new logger.
// It can only be called once per writer.
// If you want to create more loggers with different settings for the
// same writer, child loggers can be created using the New(options) method,
// to ensure thread safety on the same writer.
func New(options ...Option) *Logger {
	s := newSettings(options)
	s.setDefaults()

	return &Logger{
		settings: s,
		mutex:    new(sync.Mutex),
	}
}

// New creates a new thread safe child logger.
// It can use a different writer, but it is expected to use the
// same writer since it is thread safe.
func (l *Logger) New(options ...Option) *Logger {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	var s settings
	s.mergeWith(l.settings)
	s.mergeWith(newSettings(options))
	s.setDefaults()

	child := &Logger{
		settings: s,
		mutex:    l.mutex,
	}
	l.childs = append(l.childs, child)

	return child
}
