package photoshare

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	bconf "github.com/opst/photoshare/pkg/configs/backend"
	"github.com/opst/photoshare/pkg/conn/events"
	"github.com/opst/photoshare/pkg/conn/mail"
	"github.com/opst/photoshare/pkg/conn/storage"
	"github.com/opst/photoshare/pkg/conn/storage/local"
	"github.com/opst/photoshare/pkg/conn/storage/s3"
	kdb "github.com/opst/photoshare/pkg/domain/photoshare/db"
)

// Middlewares are the backing services of photoshare processes.
type Middlewares interface {
	Config() *bconf.BackendConfig
	Database() kdb.Database
	Storage() storage.Storage
	Events() events.Publisher
	Mail() mail.Sender
}

// Photoshare is the set of Middlewares attached to a process.
type Photoshare interface {
	Middlewares

	// AWS returns AWS SDK config following the aws section of the config.
	AWS(ctx context.Context) (aws.Config, error)

	// Close closes connections to Events and Database.
	Close() error
}

type photoshare struct { // implements Photoshare
	config   *bconf.BackendConfig
	database kdb.Database
	storage  storage.Storage
	events   events.Publisher
	mail     mail.Sender
}

var _ Photoshare = &photoshare{}

// Attach builds Photoshare upon the config and the database.
//
// Events and Mail are no-op when they are not configured.
func Attach(ctx context.Context, config *bconf.BackendConfig, database kdb.Database) (Photoshare, error) {
	p := &photoshare{config: config, database: database}

	st, err := OpenStorage(ctx, config.Storage(), func(ctx context.Context) (aws.Config, error) {
		return p.AWS(ctx)
	})
	if err != nil {
		return nil, err
	}
	p.storage = st

	p.events = events.Noop()
	if ev := config.Events(); ev != nil {
		p.events = events.NewKafka(ev.Brokers(), ev.Topic())
	}

	p.mail = mail.Noop()
	if m := config.Mail(); m != nil {
		s, err := mail.NewSMTP(m.Host(), m.Port(), m.Username(), m.Password(), m.From())
		if err != nil {
			return nil, fmt.Errorf("mail: %w", err)
		}
		p.mail = s
	}

	return p, nil
}

// OpenStorage opens storage following conf.
//
// awsConfig is called only for s3.
func OpenStorage(
	ctx context.Context,
	conf *bconf.StorageConfig,
	awsConfig func(context.Context) (aws.Config, error),
) (storage.Storage, error) {
	switch conf.Kind() {
	case bconf.StorageLocal:
		return local.New(conf.Root(), conf.BaseURL()), nil
	case bconf.StorageS3:
		cfg, err := awsConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		return s3.FromConfig(
			cfg, conf.Bucket(), conf.Endpoint(), conf.UsePathStyle(), conf.URLTTL(),
		), nil
	default:
		return nil, fmt.Errorf("storage: unknown kind: %s", conf.Kind())
	}
}

func (p *photoshare) Config() *bconf.BackendConfig {
	return p.config
}

func (p *photoshare) Database() kdb.Database {
	return p.database
}

func (p *photoshare) Storage() storage.Storage {
	return p.storage
}

func (p *photoshare) Events() events.Publisher {
	return p.events
}

func (p *photoshare) Mail() mail.Sender {
	return p.mail
}

func (p *photoshare) AWS(ctx context.Context) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if r := p.config.AWS().Region(); r != "" {
		opts = append(opts, awsconfig.WithRegion(r))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

func (p *photoshare) Close() error {
	return errors.Join(p.events.Close(), p.database.Close())
}
