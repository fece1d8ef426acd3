package logging

import (
	"errors"
	"fmt"
	"strings"
)

// Level is a log severity.
type Level int8

const (
	DebugLevel Level = iota - 1
	InfoLevel
	WarnLevel
	ErrorLevel
)

// ErrUnknownLevel is returned by LookupLevel for unrecognised names.
var ErrUnknownLevel = errors.New("unknown log level")

var levelNames = map[Level]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// LookupLevel resolves a level name in any case. "warning" is accepted for
// WarnLevel.
func LookupLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		return WarnLevel, nil
	}
	for l, n := range levelNames {
		if n == name {
			return l, nil
		}
	}
	return InfoLevel, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// ParseLevel is LookupLevel with unknown names mapped to InfoLevel.
func ParseLevel(s string) Level {
	l, _ := LookupLevel(s)
	return l
}

// MarshalText encodes the level name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a level name strictly.
func (l *Level) UnmarshalText(text []byte) error {
	v, err := LookupLevel(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}
