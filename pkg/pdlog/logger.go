// Package pdlog is a debug logger that stays silent unless enabled.
//
// Every call writes two lines: a verbose trace line "at (<file>:<line>)"
// naming the call site, then the message tagged "<Class>.<method>" of the
// caller. The trace line is what IDEs and terminals turn into a link.
//
// Typical use:
//
//	log := pdlog.New(nil)
//	log.Enable(pdlog.IsDebuggable(pdlog.BuildInfoContext{}))
//	log.D("connected")
package pdlog

import (
	"io"
	"reflect"
	"sync"
	"sync/atomic"

	"pdlog/internal/caller"
)

// Tag is the tag of the trace and sentinel lines.
const Tag = "PdLog"

// SentinelMessage is written once, at Error level, before the first pair.
// Some log viewers only apply their filters after seeing an error line.
const SentinelMessage = "start.(this is not an error message)"

type pkgMarker struct{}

// pkgPath is the import path of this package. Frames from it are never
// reported as the caller.
var pkgPath = reflect.TypeOf(pkgMarker{}).PkgPath()

// Logger writes trace and message line pairs to a Sink. Create one with
// New; the zero Logger is not usable.
type Logger struct {
	enabled  atomic.Bool
	first    atomic.Bool
	sentinel bool

	mu   sync.Mutex // keeps each pair together
	sink Sink

	lookup func() *caller.Frame
}

// Option configures a Logger.
type Option func(*Logger)

// WithoutSentinel disables the one-time sentinel line.
func WithoutSentinel() Option {
	return func(l *Logger) { l.sentinel = false }
}

// New creates a disabled Logger writing to sink. A nil sink writes to
// stderr through a LogSink.
func New(sink Sink, opts ...Option) *Logger {
	if sink == nil {
		sink = NewStderrSink()
	}
	l := &Logger{
		sentinel: true,
		sink:     sink,
		lookup:   lookupCaller,
	}
	l.first.Store(true)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func lookupCaller() *caller.Frame {
	return caller.Lookup(0, pkgPath)
}

// Enable turns logging on or off.
func (l *Logger) Enable(flag bool) {
	l.enabled.Store(flag)
}

// Enabled reports whether logging is on.
func (l *Logger) Enabled() bool {
	return l.enabled.Load()
}

// Close closes the sink when it holds a resource such as an output file.
func (l *Logger) Close() error {
	if c, ok := l.sink.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// D logs msg at Debug level.
func (l *Logger) D(msg string) { l.println(Debug, msg) }

// W logs msg at Warn level.
func (l *Logger) W(msg string) { l.println(Warn, msg) }

// E logs msg at Error level.
func (l *Logger) E(msg string) { l.println(Error, msg) }

// I logs msg at Info level.
func (l *Logger) I(msg string) { l.println(Info, msg) }

// V logs msg at Verbose level.
func (l *Logger) V(msg string) { l.println(Verbose, msg) }

// A logs msg at Assert level.
func (l *Logger) A(msg string) { l.println(Assert, msg) }

func (l *Logger) println(level Level, msg string) {
	if !l.enabled.Load() {
		return
	}

	frame := l.lookup()
	location := frame.Location()
	tag := frame.Tag()

	l.mu.Lock()
	defer l.mu.Unlock()

	// first is never reset: re-enabling does not repeat the sentinel.
	if l.first.CompareAndSwap(true, false) && l.sentinel {
		l.sink.Println(Error, Tag, SentinelMessage)
	}
	l.sink.Println(Verbose, Tag, location)
	l.sink.Println(level, tag, msg)
}
