package pdlog

import (
	"sync/atomic"

	"pdlog/internal/caller"
)

// CountLookups makes l count its stack walks.
func CountLookups(l *Logger) *atomic.Int64 {
	var n atomic.Int64
	next := l.lookup
	l.lookup = func() *caller.Frame {
		n.Add(1)
		return next()
	}
	return &n
}
