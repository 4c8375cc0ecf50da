package recurring

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/opst/photoshare/pkg/loop"
)

// Policy decides what a loop does after each task.
//
// Next is called with whether the task did something and its error.
type Policy interface {
	Next(updated bool, err error) loop.Next
	String() string
}

var parsers = map[string]func(params []string) (Policy, error){
	"forever": func(params []string) (Policy, error) {
		switch len(params) {
		case 0:
			return Forever(0), nil
		case 1:
			d, err := duration(params[0])
			if err != nil {
				return nil, err
			}
			return Forever(d), nil
		}
		return nil, fmt.Errorf("forever takes COOLDOWN at most")
	},
	"backlog": func(params []string) (Policy, error) {
		if len(params) != 0 {
			return nil, fmt.Errorf("backlog takes no parameters")
		}
		return Backlog(), nil
	},
	"idle": func(params []string) (Policy, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("idle takes MIN and MAX")
		}
		min, err := duration(params[0])
		if err != nil {
			return nil, err
		}
		max, err := duration(params[1])
		if err != nil {
			return nil, err
		}
		if min == 0 || max < min {
			return nil, fmt.Errorf("idle needs 0 < MIN <= MAX")
		}
		return Idle(min, max), nil
	},
}

func duration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration: %s", s)
	}
	return d, nil
}

// ParsePolicy parses "forever[:COOLDOWN]", "idle:MIN:MAX" or "backlog".
func ParsePolicy(s string) (Policy, error) {
	name, rest, hasParams := strings.Cut(s, ":")
	parse, ok := parsers[name]
	if !ok {
		names := make([]string, 0, len(parsers))
		for n := range parsers {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown policy: %q (one of %s)", name, strings.Join(names, "|"))
	}
	params := []string{}
	if hasParams && rest != "" {
		params = strings.Split(rest, ":")
	} else if hasParams {
		params = []string{""}
	}
	p, err := parse(params)
	if err != nil {
		return nil, fmt.Errorf("policy %q: %w", s, err)
	}
	return p, nil
}

// Forever restarts immediately while the task has updated something,
// and otherwise after cooldown.
func Forever(cooldown time.Duration) Policy {
	return forever(cooldown)
}

type forever time.Duration

func (f forever) String() string {
	return "forever:" + time.Duration(f).String()
}

func (f forever) Next(updated bool, _ error) loop.Next {
	if updated {
		return loop.Continue(0)
	}
	return loop.Continue(time.Duration(f))
}

// Backlog restarts immediately while the task has updated something,
// and otherwise breaks.
func Backlog() Policy {
	return backlog{}
}

type backlog struct{}

func (backlog) String() string {
	return "backlog"
}

func (backlog) Next(updated bool, _ error) loop.Next {
	if updated {
		return loop.Continue(0)
	}
	return loop.Break(nil)
}

// Idle restarts immediately while the task has updated something.
//
// Otherwise it waits min, then doubles the wait on each idle cycle up to max.
// An update resets the wait to min.
func Idle(min, max time.Duration) Policy {
	return &idle{min: min, max: max, wait: min}
}

type idle struct {
	min, max time.Duration
	wait     time.Duration
}

func (i *idle) String() string {
	return fmt.Sprintf("idle:%s:%s", i.min, i.max)
}

func (i *idle) Next(updated bool, _ error) loop.Next {
	if updated {
		i.wait = i.min
		return loop.Continue(0)
	}
	w := i.wait
	i.wait *= 2
	if i.max < i.wait {
		i.wait = i.max
	}
	return loop.Continue(w)
}

// UntilError breaks with the error, if any. Otherwise it follows p.
func UntilError(p Policy) Policy {
	return untilError{base: p}
}

type untilError struct {
	base Policy
}

func (u untilError) String() string {
	return u.base.String() + " (until error)"
}

func (u untilError) Next(updated bool, err error) loop.Next {
	if err != nil {
		return loop.Break(err)
	}
	return u.base.Next(updated, nil)
}
