package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"

	kpool "github.com/opst/photoshare/pkg/conn/db/postgres/pool"
	kalbum "github.com/opst/photoshare/pkg/domain/album/db"
	kpgalbum "github.com/opst/photoshare/pkg/domain/album/db/postgres"
	kcomment "github.com/opst/photoshare/pkg/domain/comment/db"
	kpgcomment "github.com/opst/photoshare/pkg/domain/comment/db/postgres"
	kdeletion "github.com/opst/photoshare/pkg/domain/deletion/db"
	kpgdeletion "github.com/opst/photoshare/pkg/domain/deletion/db/postgres"
	kflickr "github.com/opst/photoshare/pkg/domain/flickr/db"
	kpgflickr "github.com/opst/photoshare/pkg/domain/flickr/db/postgres"
	kgarbage "github.com/opst/photoshare/pkg/domain/garbage/db"
	kpggbg "github.com/opst/photoshare/pkg/domain/garbage/db/postgres"
	kjob "github.com/opst/photoshare/pkg/domain/job/db"
	kpgjob "github.com/opst/photoshare/pkg/domain/job/db/postgres"
	kkeychain "github.com/opst/photoshare/pkg/domain/keychain/db"
	kpgkeychain "github.com/opst/photoshare/pkg/domain/keychain/db/postgres"
	kphoto "github.com/opst/photoshare/pkg/domain/photo/db"
	kpgphoto "github.com/opst/photoshare/pkg/domain/photo/db/postgres"
	dbInterface "github.com/opst/photoshare/pkg/domain/photoshare/db"
	kschema "github.com/opst/photoshare/pkg/domain/schema/db"
	kpgschema "github.com/opst/photoshare/pkg/domain/schema/db/postgres"
	ksetting "github.com/opst/photoshare/pkg/domain/setting/db"
	kpgsetting "github.com/opst/photoshare/pkg/domain/setting/db/postgres"
	ktag "github.com/opst/photoshare/pkg/domain/tag/db"
	kpgtag "github.com/opst/photoshare/pkg/domain/tag/db/postgres"
	kuser "github.com/opst/photoshare/pkg/domain/user/db"
	kpguser "github.com/opst/photoshare/pkg/domain/user/db/postgres"
	xe "github.com/opst/photoshare/pkg/errors"
	"github.com/opst/photoshare/pkg/utils/retry"
)

type photoshareDB struct {
	pool kpool.Pool

	user     kuser.UserInterface
	photo    kphoto.PhotoInterface
	album    kalbum.AlbumInterface
	comment  kcomment.CommentInterface
	tag      ktag.TagInterface
	flickr   kflickr.FlickrInterface
	setting  ksetting.SettingInterface
	deletion kdeletion.DeletionInterface

	job      kjob.JobInterface
	garbage  kgarbage.GarbageInterface
	schema   kschema.SchemaInterface
	keychain kkeychain.KeychainInterface
}

type Config struct {
	SchemaRepository string

	// lease of picked jobs. zero means the default.
	JobLease time.Duration
}

type Option func(*Config) *Config

func WithSchemaRepository(repository string) Option {
	return func(c *Config) *Config {
		c.SchemaRepository = repository
		return c
	}
}

func WithJobLease(d time.Duration) Option {
	return func(c *Config) *Config {
		c.JobLease = d
		return c
	}
}

// New connects to the database at url.
//
// Without WithSchemaRepository, Schema() never upgrades nor expires.
func New(
	ctx context.Context,
	url string,
	options ...Option,
) (dbInterface.Database, error) {
	pool, err := kpool.Connect(ctx, url)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	c := Config{}
	for _, option := range options {
		c = *option(&c)
	}

	return Wrap(pool, c), nil
}

// Retriable tells err from New is temporary:
// the server is unreachable, starting up or too busy.
func Retriable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.CannotConnectNow || pgErr.Code == pgerrcode.TooManyConnections
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Connect is New retried with b while errors are Retriable.
func Connect(
	ctx context.Context,
	url string,
	b retry.Backoff,
	options ...Option,
) (dbInterface.Database, error) {
	return retry.Blocking(ctx, b, func() (dbInterface.Database, error) {
		db, err := New(ctx, url, options...)
		if err != nil && Retriable(err) {
			return nil, fmt.Errorf("%w: %w", retry.ErrRetry, err)
		}
		return db, err
	})
}

// Wrap builds Database upon p. Close closes p.
func Wrap(p kpool.Pool, c Config) dbInterface.Database {
	var schema kschema.SchemaInterface = kpgschema.Null()
	if c.SchemaRepository != "" {
		schema = kpgschema.New(p, c.SchemaRepository)
	}

	jobopts := []kpgjob.Option{}
	if c.JobLease != 0 {
		jobopts = append(jobopts, kpgjob.WithLease(c.JobLease))
	}

	return &photoshareDB{
		pool: p,

		user:     kpguser.New(p),
		photo:    kpgphoto.New(p),
		album:    kpgalbum.New(p),
		comment:  kpgcomment.New(p),
		tag:      kpgtag.New(p),
		flickr:   kpgflickr.New(p),
		setting:  kpgsetting.New(p),
		deletion: kpgdeletion.New(p),

		job:      kpgjob.New(p, jobopts...),
		garbage:  kpggbg.New(p),
		schema:   schema,
		keychain: kpgkeychain.New(p),
	}
}

func (d *photoshareDB) User() kuser.UserInterface             { return d.user }
func (d *photoshareDB) Photo() kphoto.PhotoInterface          { return d.photo }
func (d *photoshareDB) Album() kalbum.AlbumInterface          { return d.album }
func (d *photoshareDB) Comment() kcomment.CommentInterface    { return d.comment }
func (d *photoshareDB) Tag() ktag.TagInterface                { return d.tag }
func (d *photoshareDB) Flickr() kflickr.FlickrInterface       { return d.flickr }
func (d *photoshareDB) Setting() ksetting.SettingInterface    { return d.setting }
func (d *photoshareDB) Deletion() kdeletion.DeletionInterface { return d.deletion }

func (d *photoshareDB) Job() kjob.JobInterface                { return d.job }
func (d *photoshareDB) Garbage() kgarbage.GarbageInterface    { return d.garbage }
func (d *photoshareDB) Schema() kschema.SchemaInterface       { return d.schema }
func (d *photoshareDB) Keychain() kkeychain.KeychainInterface { return d.keychain }

func (d *photoshareDB) Close() error {
	d.pool.Close()
	return nil
}
