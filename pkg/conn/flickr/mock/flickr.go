package mock

import (
	"context"
	"errors"

	"github.com/opst/photoshare/pkg/conn/flickr"
	"github.com/opst/photoshare/pkg/domain"
)

type Client struct {
	Impl struct {
		Person func(ctx context.Context, nsid string) (domain.FlickrUser, error)
	}
	Calls struct {
		Person []string
	}
}

var _ flickr.Client = &Client{}

func New() *Client {
	return &Client{}
}

func (m *Client) Person(ctx context.Context, nsid string) (domain.FlickrUser, error) {
	m.Calls.Person = append(m.Calls.Person, nsid)
	if m.Impl.Person != nil {
		return m.Impl.Person(ctx, nsid)
	}
	panic(errors.New("it should not be called"))
}
