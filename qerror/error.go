package qerror

import (
	"fmt"
	"runtime/debug"
)

// QuarryError is an error raised from within the physics core. It carries the
// stack of the goroutine that created it so that crashes in background workers
// remain diagnosable after recovery.
type QuarryError struct {
	Err   string
	Stack string
}

// New creates a QuarryError from the given format and arguments.
func New(format string, args ...interface{}) *QuarryError {
	return &QuarryError{
		Err:   fmt.Sprintf(format, args...),
		Stack: string(debug.Stack()),
	}
}

func (e *QuarryError) Error() string {
	return e.Err
}
