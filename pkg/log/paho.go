package log

import (
	"fmt"
	"strings"
)

// PahoLogger adapts a Logger to the Println/Printf interface expected by
// autopaho's Debug and PahoDebug hooks. Everything is emitted at debug level.
type PahoLogger struct {
	l Logger
}

// Paho returns a PahoLogger writing through the std logger under name.
func Paho(name string) PahoLogger {
	return PahoLogger{l: std.WithName(name)}
}

func (p PahoLogger) Println(v ...any) {
	p.l.Debug(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

func (p PahoLogger) Printf(format string, v ...any) {
	p.l.Debug(strings.TrimSuffix(fmt.Sprintf(format, v...), "\n"))
}
