package mock

import (
	"context"
	"sync"

	"github.com/opst/photoshare/pkg/conn/mail"
)

// Sender records messages.
type Sender struct {
	mux  sync.Mutex
	Sent []mail.Message

	// If not nil, Send returns it.
	Err error
}

var _ mail.Sender = &Sender{}

func New() *Sender {
	return &Sender{}
}

func (s *Sender) Send(_ context.Context, messages ...mail.Message) error {
	if s.Err != nil {
		return s.Err
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	s.Sent = append(s.Sent, messages...)
	return nil
}
