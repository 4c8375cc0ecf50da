package mock

import (
	"context"
	"errors"

	"github.com/opst/photoshare/pkg/conn/vision"
)

type Labeler struct {
	Impl struct {
		Labels func(context.Context, []byte) ([]vision.Label, error)
	}
	Calls struct {
		Labels [][]byte
	}
}

var _ vision.Labeler = &Labeler{}

func New() *Labeler {
	return &Labeler{}
}

func (m *Labeler) Labels(ctx context.Context, image []byte) ([]vision.Label, error) {
	m.Calls.Labels = append(m.Calls.Labels, image)
	if m.Impl.Labels != nil {
		return m.Impl.Labels(ctx, image)
	}
	panic(errors.New("it should not be called"))
}
