package pdlog

import "sync/atomic"

var std atomic.Pointer[Logger]

func init() {
	std.Store(New(nil))
}

// Default returns the process-wide Logger used by the package-level
// functions.
func Default() *Logger { return std.Load() }

// SetDefault replaces the process-wide Logger. A nil l is ignored.
func SetDefault(l *Logger) {
	if l != nil {
		std.Store(l)
	}
}

// Enable turns the default Logger on or off.
//
//	pdlog.Enable(pdlog.IsDebuggable(pdlog.BuildInfoContext{}))
func Enable(flag bool) { Default().Enable(flag) }

// D logs msg at Debug level on the default Logger.
func D(msg string) { Default().println(Debug, msg) }

// W logs msg at Warn level on the default Logger.
func W(msg string) { Default().println(Warn, msg) }

// E logs msg at Error level on the default Logger.
func E(msg string) { Default().println(Error, msg) }

// I logs msg at Info level on the default Logger.
func I(msg string) { Default().println(Info, msg) }

// V logs msg at Verbose level on the default Logger.
func V(msg string) { Default().println(Verbose, msg) }

// A logs msg at Assert level on the default Logger.
func A(msg string) { Default().println(Assert, msg) }
