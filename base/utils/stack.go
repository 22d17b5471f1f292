package utils

import (
	"bytes"
	"runtime"
	"strconv"
)

// Stack returns the formatted stack trace of the calling goroutine,
// skipping the innermost `skip` frames.
func Stack(skip int) []byte {
	buf := new(bytes.Buffer)
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip+1, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		buf.WriteString(frame.Function)
		buf.WriteString("\n\t")
		buf.WriteString(frame.File)
		buf.WriteString(":")
		buf.WriteString(strconv.Itoa(frame.Line))
		buf.WriteString("\n")
		if !more {
			break
		}
	}
	return buf.Bytes()
}
