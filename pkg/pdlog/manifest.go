package pdlog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is a packaging manifest listing applications and their build
// flags.
//
//	applications:
//	  - package: example.com/echo
//	    debuggable: true
//	    log:
//	      type: color
//	      output: /var/log/echo-debug.log
type Manifest struct {
	Applications []ManifestApplication `yaml:"applications"`
}

// ManifestApplication is one entry of a Manifest.
type ManifestApplication struct {
	Package    string      `yaml:"package"`
	Debuggable bool        `yaml:"debuggable"`
	Log        *SinkConfig `yaml:"log,omitempty"` // sink for the debug logger, if set
}

// ParseManifest decodes a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// ManifestContext reads packaging metadata for Package from the manifest
// file at Path.
type ManifestContext struct {
	Path    string
	Package string
}

// Application returns the manifest entry for Package.
func (c ManifestContext) Application() (ManifestApplication, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return ManifestApplication{}, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return ManifestApplication{}, err
	}
	for _, app := range m.Applications {
		if app.Package == c.Package {
			return app, nil
		}
	}
	return ManifestApplication{}, fmt.Errorf("%w: %s", ErrPackageNotFound, c.Package)
}

// ApplicationInfo implements AppContext.
func (c ManifestContext) ApplicationInfo() (ApplicationInfo, error) {
	app, err := c.Application()
	if err != nil {
		return ApplicationInfo{}, err
	}
	info := ApplicationInfo{Package: app.Package}
	if app.Debuggable {
		info.Flags |= FlagDebuggable
	}
	return info, nil
}
