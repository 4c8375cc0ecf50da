package mock

import (
	kalbum "github.com/opst/photoshare/pkg/domain/album/db"
	albummock "github.com/opst/photoshare/pkg/domain/album/db/mock"
	kcomment "github.com/opst/photoshare/pkg/domain/comment/db"
	commentmock "github.com/opst/photoshare/pkg/domain/comment/db/mock"
	kdeletion "github.com/opst/photoshare/pkg/domain/deletion/db"
	deletionmock "github.com/opst/photoshare/pkg/domain/deletion/db/mock"
	kflickr "github.com/opst/photoshare/pkg/domain/flickr/db"
	flickrmock "github.com/opst/photoshare/pkg/domain/flickr/db/mock"
	kgarbage "github.com/opst/photoshare/pkg/domain/garbage/db"
	garbagemock "github.com/opst/photoshare/pkg/domain/garbage/db/mock"
	kjob "github.com/opst/photoshare/pkg/domain/job/db"
	jobmock "github.com/opst/photoshare/pkg/domain/job/db/mock"
	kkeychain "github.com/opst/photoshare/pkg/domain/keychain/db"
	keychainmock "github.com/opst/photoshare/pkg/domain/keychain/db/mock"
	kphoto "github.com/opst/photoshare/pkg/domain/photo/db"
	photomock "github.com/opst/photoshare/pkg/domain/photo/db/mock"
	kdb "github.com/opst/photoshare/pkg/domain/photoshare/db"
	kschema "github.com/opst/photoshare/pkg/domain/schema/db"
	schemamock "github.com/opst/photoshare/pkg/domain/schema/db/mock"
	ksetting "github.com/opst/photoshare/pkg/domain/setting/db"
	settingmock "github.com/opst/photoshare/pkg/domain/setting/db/mock"
	ktag "github.com/opst/photoshare/pkg/domain/tag/db"
	tagmock "github.com/opst/photoshare/pkg/domain/tag/db/mock"
	kuser "github.com/opst/photoshare/pkg/domain/user/db"
	usermock "github.com/opst/photoshare/pkg/domain/user/db/mock"
)

// Database bundles mocks of every store.
//
// Set Impl of each mock to be called.
type Database struct {
	Users    *usermock.UserInterface
	Photos   *photomock.PhotoInterface
	Albums   *albummock.AlbumInterface
	Comments *commentmock.CommentInterface
	Tags     *tagmock.TagInterface
	Flickrs  *flickrmock.FlickrInterface
	Settings *settingmock.SettingInterface
	Deletes  *deletionmock.DeletionInterface

	Jobs      *jobmock.JobInterface
	Garbages  *garbagemock.GarbageInterface
	Schemas   *schemamock.MockSchemaInterface
	Keychains *keychainmock.KeychainInterface

	Closed bool
}

var _ kdb.Database = &Database{}

func New() *Database {
	return &Database{
		Users:    usermock.New(),
		Photos:   photomock.New(),
		Albums:   albummock.New(),
		Comments: commentmock.New(),
		Tags:     tagmock.New(),
		Flickrs:  flickrmock.New(),
		Settings: settingmock.New(),
		Deletes:  deletionmock.New(),

		Jobs:      jobmock.New(),
		Garbages:  garbagemock.New(),
		Schemas:   schemamock.New(),
		Keychains: keychainmock.New(),
	}
}

func (d *Database) User() kuser.UserInterface             { return d.Users }
func (d *Database) Photo() kphoto.PhotoInterface          { return d.Photos }
func (d *Database) Album() kalbum.AlbumInterface          { return d.Albums }
func (d *Database) Comment() kcomment.CommentInterface    { return d.Comments }
func (d *Database) Tag() ktag.TagInterface                { return d.Tags }
func (d *Database) Flickr() kflickr.FlickrInterface       { return d.Flickrs }
func (d *Database) Setting() ksetting.SettingInterface    { return d.Settings }
func (d *Database) Deletion() kdeletion.DeletionInterface { return d.Deletes }

func (d *Database) Job() kjob.JobInterface                { return d.Jobs }
func (d *Database) Garbage() kgarbage.GarbageInterface    { return d.Garbages }
func (d *Database) Schema() kschema.SchemaInterface       { return d.Schemas }
func (d *Database) Keychain() kkeychain.KeychainInterface { return d.Keychains }

func (d *Database) Close() error {
	d.Closed = true
	return nil
}
