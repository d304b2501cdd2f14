package text

import (
	"fmt"
	"regexp"
	"runtime"
)

var sourcePathPattern = regexp.MustCompile(`.*/((?:cmd|examples|internal|lib|pkg)/.*\.go)$`)

// Location identifies the call expression that triggered an accessor error.
type Location struct {
	File string
	Line int
}

// CallerLocation reports the caller skip frames above the function calling it.
// CallerLocation(0) is the line that invoked CallerLocation.
func CallerLocation(skip int) Location {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Location{}
	}
	return Location{File: file, Line: line}
}

// IsZero reports whether the location was never captured
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0
}

// String renders "File: <path> Line: <n>" for files under a recognizable
// source directory and the raw "file:line" otherwise.
func (l Location) String() string {
	if l.IsZero() {
		return "unknown"
	}
	if match := sourcePathPattern.FindStringSubmatch(l.File); len(match) == 2 {
		return fmt.Sprintf("File: %s Line: %d", match[1], l.Line)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}
