// Package errors marks errors with source locations they passed through.
//
//	return xe.Wrap(err)
//
// Messages are not changed by marking. Locations are read with Trace,
// or by formatting with "%+v".
package errors

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Frame is a location where an error is marked.
type Frame struct {
	Func string
	File string
	Line int
}

func (f Frame) String() string {
	return fmt.Sprintf("%s (%s:%d)", f.Func, filepath.Base(f.File), f.Line)
}

type marked struct {
	at   Frame
	note string
	err  error
}

func (m *marked) Error() string {
	if m.note == "" {
		return m.err.Error()
	}
	return m.note + ": " + m.err.Error()
}

func (m *marked) Unwrap() error {
	return m.err
}

// Format prints the message with %v and %s, and the message followed by the trace with %+v.
func (m *marked) Format(s fmt.State, verb rune) {
	switch {
	case verb == 'v' && s.Flag('+'):
		fmt.Fprint(s, m.Error())
		for _, f := range Trace(m) {
			fmt.Fprintf(s, "\n\tat %s", f)
		}
	case verb == 'q':
		fmt.Fprintf(s, "%q", m.Error())
	default:
		fmt.Fprint(s, m.Error())
	}
}

// Wrap marks err with the caller location. Wrap(nil) is nil.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return mark("", err)
}

// Wrapf marks err with the caller location and prefixes the message with a note.
// Wrapf(nil, ...) is nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return mark(fmt.Sprintf(format, args...), err)
}

func mark(note string, err error) error {
	f := Frame{Func: "(unknown)", File: "?", Line: -1}
	if pc, file, line, ok := runtime.Caller(2); ok {
		f.File, f.Line = file, line
		if fn := runtime.FuncForPC(pc); fn != nil {
			name := fn.Name()
			f.Func = name[strings.LastIndex(name, "/")+1:]
		}
	}
	return &marked{at: f, note: note, err: err}
}

// Trace returns locations err passed through, from the outermost.
func Trace(err error) []Frame {
	frames := []Frame{}
	for err != nil {
		var m *marked
		if !errors.As(err, &m) {
			break
		}
		frames = append(frames, m.at)
		err = m.err
	}
	return frames
}
