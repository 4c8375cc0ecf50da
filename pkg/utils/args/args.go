// Package args provides flag.Value for typed command line options.
package args

import (
	"fmt"
	"os"
	"slices"
	"sort"
)

// Source tells where the value of Flag came from.
type Source int

const (
	Unset Source = iota
	Environment
	CommandLine
)

// Flag is a flag.Value parsed into T.
//
// It can be defaulted with an environment variable, and the command line wins.
type Flag[T fmt.Stringer] struct {
	value  T
	parse  func(string) (T, error)
	source Source
}

func Parser[T fmt.Stringer](parse func(string) (T, error)) *Flag[T] {
	return &Flag[T]{parse: parse}
}

// FromEnv sets the value from the environment variable when it is not empty.
func (f *Flag[T]) FromEnv(name string) (*Flag[T], error) {
	s := os.Getenv(name)
	if s == "" {
		return f, nil
	}
	v, err := f.parse(s)
	if err != nil {
		return f, fmt.Errorf("$%s: %w", name, err)
	}
	f.value = v
	f.source = Environment
	return f, nil
}

func (f *Flag[T]) String() string {
	if f == nil || f.source == Unset {
		return ""
	}
	return f.value.String()
}

func (f *Flag[T]) Set(s string) error {
	v, err := f.parse(s)
	if err != nil {
		return err
	}
	f.value = v
	f.source = CommandLine
	return nil
}

func (f *Flag[T]) Value() T {
	return f.value
}

func (f *Flag[T]) IsSet() bool {
	return f.source != Unset
}

func (f *Flag[T]) Source() Source {
	return f.source
}

type Settable interface {
	IsSet() bool
}

// Missing returns names of flags which are not set, in order.
func Missing(flags map[string]Settable) []string {
	missing := []string{}
	for name, f := range flags {
		if !f.IsSet() {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return slices.Clip(missing)
}
