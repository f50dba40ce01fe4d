package logger

import "sync"

// components caches the loggers handed out by Get. Init and SetGlobalLogger
// clear it so later lookups pick up the new configuration.
var components sync.Map // name -> *Logger

// Get returns the logger for a named component, derived from the global
// logger on first use.
func Get(name string) *Logger {
	if l, ok := components.Load(name); ok {
		return l.(*Logger)
	}
	l, _ := components.LoadOrStore(name, GetGlobalLogger().WithComponent(name))
	return l.(*Logger)
}

// Register overrides the logger Get returns for name.
func Register(name string, l *Logger) {
	components.Store(name, l)
}
