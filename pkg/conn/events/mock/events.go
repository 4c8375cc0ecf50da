package mock

import (
	"context"
	"sync"

	"github.com/opst/photoshare/pkg/conn/events"
)

// Publisher records published events.
type Publisher struct {
	mux    sync.Mutex
	Events []events.Event

	// If not nil, Publish returns it.
	Err error
}

var _ events.Publisher = &Publisher{}

func New() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(_ context.Context, ev events.Event) error {
	p.mux.Lock()
	defer p.mux.Unlock()
	p.Events = append(p.Events, ev)
	return p.Err
}

func (p *Publisher) Close() error {
	return nil
}

// Types returns types of recorded events, in order.
func (p *Publisher) Types() []events.Type {
	p.mux.Lock()
	defer p.mux.Unlock()
	ret := make([]events.Type, len(p.Events))
	for i, ev := range p.Events {
		ret[i] = ev.Type
	}
	return ret
}
