package pdlog

import (
	"errors"
	"runtime/debug"
	"slices"
	"strings"
)

// Flag is a bit set of application packaging flags.
type Flag int

// FlagDebuggable marks an application built for debugging.
const FlagDebuggable Flag = 1 << 1

var (
	// ErrNoBuildInfo is returned when the binary carries no build information.
	ErrNoBuildInfo = errors.New("build info not available")
	// ErrPackageNotFound is returned when a manifest has no entry for the package.
	ErrPackageNotFound = errors.New("package not found")
)

// ApplicationInfo is the packaging metadata of the host application.
type ApplicationInfo struct {
	Package string
	Flags   Flag
}

// AppContext looks up the packaging metadata of the host application.
type AppContext interface {
	ApplicationInfo() (ApplicationInfo, error)
}

// IsDebuggable reports whether ctx describes a debuggable build. A failed
// lookup, including a nil ctx, reports false.
func IsDebuggable(ctx AppContext) bool {
	if ctx == nil {
		return false
	}
	info, err := ctx.ApplicationInfo()
	if err != nil {
		return false
	}
	return info.Flags&FlagDebuggable != 0
}

// BuildInfoContext reads packaging metadata from the build information
// embedded in the running binary. A binary is debuggable when it was built
// with the "debug" build tag or with optimizations disabled (-gcflags -N).
type BuildInfoContext struct {
	// Read replaces debug.ReadBuildInfo when set.
	Read func() (*debug.BuildInfo, bool)
}

// ApplicationInfo implements AppContext.
func (c BuildInfoContext) ApplicationInfo() (ApplicationInfo, error) {
	read := c.Read
	if read == nil {
		read = debug.ReadBuildInfo
	}
	bi, ok := read()
	if !ok || bi == nil {
		return ApplicationInfo{}, ErrNoBuildInfo
	}

	info := ApplicationInfo{Package: bi.Main.Path}
	if info.Package == "" {
		info.Package = bi.Path
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "-tags":
			if slices.Contains(strings.Split(s.Value, ","), "debug") {
				info.Flags |= FlagDebuggable
			}
		case "-gcflags":
			if slices.Contains(strings.Fields(stripPattern(s.Value)), "-N") {
				info.Flags |= FlagDebuggable
			}
		}
	}
	return info, nil
}

// stripPattern drops the package pattern of a flag value such as
// "all=-N -l".
func stripPattern(v string) string {
	if i := strings.Index(v, "="); i >= 0 && !strings.HasPrefix(v, "-") {
		return v[i+1:]
	}
	return v
}
