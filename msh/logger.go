package msh

import (
	"fmt"
	"io"
	"strings"

	"github.com/mogaika/msh_browser/chunk"
)

// Logger receives decoding progress. Nil logger is valid and silent.
type Logger struct {
	io.Writer
}

func NewLogger(w io.Writer) *Logger {
	return &Logger{Writer: w}
}

func (l *Logger) Printf(format string, a ...interface{}) {
	if l != nil && l.Writer != nil {
		fmt.Fprintf(l, format+"\n", a...)
	}
}

// Chunkf prints message indented by depth of chunk r.
func (l *Logger) Chunkf(r *chunk.Reader, format string, a ...interface{}) {
	if l != nil && l.Writer != nil {
		fmt.Fprintf(l, strings.Repeat("  ", r.Depth())+format+"\n", a...)
	}
}
