package pdlog

import "strconv"

// Level is a log priority. Values follow the Android logcat numbering.
type Level int

const (
	Verbose Level = iota + 2
	Debug
	Info
	Warn
	Error
	Assert
)

var levelNames = map[Level]string{
	Verbose: "VERBOSE",
	Debug:   "DEBUG",
	Info:    "INFO",
	Warn:    "WARN",
	Error:   "ERROR",
	Assert:  "ASSERT",
}

// String returns the upper-case level name.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "Level(" + strconv.Itoa(int(l)) + ")"
}

// Letter returns the single-letter form used in logcat output.
func (l Level) Letter() string {
	if name, ok := levelNames[l]; ok {
		return name[:1]
	}
	return "?"
}
