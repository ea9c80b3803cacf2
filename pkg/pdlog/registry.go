package pdlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"sync"
)

// SinkConfig selects and configures one sink.
type SinkConfig struct {
	Type   string `yaml:"type"`
	Output string `yaml:"output,omitempty"` // "stderr" (default), "stdout", or a file path
	Force  bool   `yaml:"force,omitempty"`  // color sinks only
}

// SinkFactory creates a sink from its config.
type SinkFactory func(cfg SinkConfig) (Sink, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]SinkFactory{}
)

func init() {
	RegisterSink("log", newLogSinkFromConfig)
	RegisterSink("color", newColorSinkFromConfig)
	RegisterSink("discard", func(SinkConfig) (Sink, error) { return Discard, nil })
}

// RegisterSink adds a sink factory to the registry, replacing any factory
// already registered under name.
func RegisterSink(name string, factory SinkFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// BuildSink creates the sink named by cfg.Type.
func BuildSink(cfg SinkConfig) (Sink, error) {
	registryMu.RLock()
	factory, ok := registry[cfg.Type]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown sink type: %s", cfg.Type)
	}
	s, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create sink %s: %w", cfg.Type, err)
	}
	return s, nil
}

// ListSinks returns all registered sink names, sorted.
func ListSinks() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newLogSinkFromConfig(cfg SinkConfig) (Sink, error) {
	w, closer, err := openOutput(cfg.Output)
	if err != nil {
		return nil, err
	}
	s := NewLogSink(w, log.LstdFlags)
	s.closer = closer
	return s, nil
}

func newColorSinkFromConfig(cfg SinkConfig) (Sink, error) {
	w, closer, err := openOutput(cfg.Output)
	if err != nil {
		return nil, err
	}
	s := NewColorSink(w, cfg.Force)
	s.closer = closer
	return s, nil
}

// openOutput resolves an output name. Files are opened for append; the
// returned closer is nil for the standard streams.
func openOutput(name string) (io.Writer, io.Closer, error) {
	switch name {
	case "", "stderr":
		return os.Stderr, nil, nil
	case "stdout":
		return os.Stdout, nil, nil
	}
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log output: %w", err)
	}
	return f, f, nil
}
