// Package caller identifies the code location that issued a log call.
package caller

import (
	"path"
	"runtime"
	"strconv"
	"strings"
)

// maxDepth bounds the stack walk. Callers are never buried deeper than a
// handful of logging frames.
const maxDepth = 32

// Unknown is the text used in place of a frame that could not be found.
const Unknown = "<nil>"

// Frame describes the first stack frame outside the logging package.
type Frame struct {
	Class    string // receiver type name, or package name for plain functions
	Method   string // function or method name, closures folded into their parent
	File     string // base name of the source file
	Line     int
	Function string // full runtime function name
}

// Lookup walks the current stack and returns the first frame that does not
// belong to package ignore, to the Go runtime, or to a go/defer statement
// wrapper. skip is the number of frames above Lookup's caller to discard
// before the search begins. Lookup returns nil when no such frame exists.
func Lookup(skip int, ignore string) *Frame {
	pcs := make([]uintptr, maxDepth)
	// +2 skips runtime.Callers and Lookup itself.
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if f.Function != "" && !owned(f.Function, ignore) {
			return newFrame(f)
		}
		if !more {
			return nil
		}
	}
}

func owned(function, ignore string) bool {
	if strings.HasPrefix(function, "runtime.") || statementWrapper(function) {
		return true
	}
	return ignore != "" && strings.HasPrefix(function, ignore+".")
}

// statementWrapper reports whether function was generated by the compiler
// to run a go or defer statement. Such a frame calls on behalf of nobody.
func statementWrapper(function string) bool {
	last := function[strings.LastIndex(function, ".")+1:]
	return strings.HasPrefix(last, "gowrap") || strings.HasPrefix(last, "deferwrap")
}

func newFrame(f runtime.Frame) *Frame {
	class, method := Split(f.Function)
	return &Frame{
		Class:    class,
		Method:   method,
		File:     path.Base(f.File),
		Line:     f.Line,
		Function: f.Function,
	}
}

// Split breaks a runtime function name into a simple class name and a
// method name.
//
//	pdlog/cmd/echo.(*server).handleStream  -> server, handleStream
//	pdlog/cmd/echo.handleStream.func1      -> echo, handleStream
//	main.main                              -> main, main
func Split(function string) (class, method string) {
	slash := strings.LastIndex(function, "/")
	name := function[slash+1:]

	dot := strings.Index(name, ".")
	if dot < 0 {
		return "", name
	}
	// The runtime escapes dots in the last import path element.
	pkg := strings.ReplaceAll(name[:dot], "%2e", ".")

	rest := strings.ReplaceAll(name[dot+1:], "[...]", "")
	rest = strings.TrimSuffix(rest, "-fm")

	parts := strings.Split(rest, ".")
	for len(parts) > 1 && isWrapper(parts[len(parts)-1]) {
		parts = parts[:len(parts)-1]
	}
	if len(parts) >= 2 {
		return strings.Trim(parts[0], "(*)"), parts[1]
	}
	return pkg, parts[0]
}

// isWrapper reports whether a name segment was generated by the compiler
// for a closure, a go statement, or a defer.
func isWrapper(seg string) bool {
	for _, prefix := range []string{"func", "gowrap", "deferwrap"} {
		if s, ok := strings.CutPrefix(seg, prefix); ok && s != "" {
			seg = s
			break
		}
	}
	if seg == "" {
		return true
	}
	_, err := strconv.Atoi(seg)
	return err == nil
}

// Location returns the trace text "at (<file>:<line>)".
func (f *Frame) Location() string {
	if f == nil {
		return Unknown
	}
	return "at (" + f.File + ":" + strconv.Itoa(f.Line) + ")"
}

// Tag returns "<Class>.<Method>".
func (f *Frame) Tag() string {
	if f == nil {
		return Unknown
	}
	return f.Class + "." + f.Method
}
