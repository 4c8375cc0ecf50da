package db

import (
	kalbum "github.com/opst/photoshare/pkg/domain/album/db"
	kcomment "github.com/opst/photoshare/pkg/domain/comment/db"
	kdeletion "github.com/opst/photoshare/pkg/domain/deletion/db"
	kflickr "github.com/opst/photoshare/pkg/domain/flickr/db"
	kgarbage "github.com/opst/photoshare/pkg/domain/garbage/db"
	kjob "github.com/opst/photoshare/pkg/domain/job/db"
	kkeychain "github.com/opst/photoshare/pkg/domain/keychain/db"
	kphoto "github.com/opst/photoshare/pkg/domain/photo/db"
	kschema "github.com/opst/photoshare/pkg/domain/schema/db"
	ksetting "github.com/opst/photoshare/pkg/domain/setting/db"
	ktag "github.com/opst/photoshare/pkg/domain/tag/db"
	kuser "github.com/opst/photoshare/pkg/domain/user/db"
)

// Database is every record store of photoshare.
type Database interface {
	User() kuser.UserInterface
	Photo() kphoto.PhotoInterface
	Album() kalbum.AlbumInterface
	Comment() kcomment.CommentInterface
	Tag() ktag.TagInterface
	Flickr() kflickr.FlickrInterface
	Setting() ksetting.SettingInterface
	Deletion() kdeletion.DeletionInterface

	Job() kjob.JobInterface
	Garbage() kgarbage.GarbageInterface
	Schema() kschema.SchemaInterface
	Keychain() kkeychain.KeychainInterface

	Close() error
}
