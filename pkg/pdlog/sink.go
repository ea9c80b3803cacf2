package pdlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Sink receives finished log lines. One call writes one line.
// Implementations must be safe for concurrent use.
type Sink interface {
	Println(level Level, tag, msg string)
}

// LogSink writes lines in logcat brief format ("D/tag: msg") through a
// standard library logger.
type LogSink struct {
	logger *log.Logger
	closer io.Closer
}

// NewLogSink creates a LogSink writing to w with the given log flags.
func NewLogSink(w io.Writer, flags int) *LogSink {
	return &LogSink{logger: log.New(w, "", flags)}
}

// NewStderrSink creates a timestamped LogSink on stderr.
func NewStderrSink() *LogSink {
	return NewLogSink(os.Stderr, log.LstdFlags)
}

// Println implements Sink.
func (s *LogSink) Println(level Level, tag, msg string) {
	s.logger.Printf("%s/%s: %s", level.Letter(), tag, msg)
}

// Close closes the output file opened by BuildSink, if any.
func (s *LogSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// ColorSink writes the same format as LogSink with each line colored by
// level.
type ColorSink struct {
	mu     sync.Mutex
	out    io.Writer
	closer io.Closer
	colors map[Level]*color.Color
}

// NewColorSink creates a ColorSink writing to w. Color is dropped when w is
// not a terminal; force keeps it regardless.
func NewColorSink(w io.Writer, force bool) *ColorSink {
	colors := map[Level]*color.Color{
		Verbose: color.New(color.FgHiBlack),
		Debug:   color.New(color.FgBlue),
		Info:    color.New(color.FgGreen),
		Warn:    color.New(color.FgYellow),
		Error:   color.New(color.FgRed),
		Assert:  color.New(color.FgMagenta, color.Bold),
	}
	tty := isTerminal(w)
	for _, c := range colors {
		switch {
		case force:
			c.EnableColor()
		case !tty:
			c.DisableColor()
		}
	}
	return &ColorSink{out: w, colors: colors}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Println implements Sink.
func (s *ColorSink) Println(level Level, tag, msg string) {
	line := fmt.Sprintf("%s/%s: %s", level.Letter(), tag, msg)
	if c, ok := s.colors[level]; ok {
		line = c.Sprint(line)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, line)
}

// Close closes the output file opened by BuildSink, if any.
func (s *ColorSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

type discardSink struct{}

func (discardSink) Println(Level, string, string) {}

// Discard is a Sink that drops every line.
var Discard Sink = discardSink{}
