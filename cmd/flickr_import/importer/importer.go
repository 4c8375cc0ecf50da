// Package importer imports photos from a Flickr account data export.
//
// The export is a directory holding:
//
//   - account_profile.json, with "nsid" of the account,
//   - photo_<ID>.json for each photo,
//   - originals named like "<title>_<ID>_o.jpg".
package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/opst/photoshare/pkg/conn/events"
	"github.com/opst/photoshare/pkg/conn/flickr"
	"github.com/opst/photoshare/pkg/conn/storage"
	"github.com/opst/photoshare/pkg/domain"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
	kflickr "github.com/opst/photoshare/pkg/domain/flickr/db"
	kphoto "github.com/opst/photoshare/pkg/domain/photo/db"
	kuser "github.com/opst/photoshare/pkg/domain/user/db"
	"github.com/opst/photoshare/pkg/imaging"
	"go.uber.org/zap"
)

const (
	profileFile     = "account_profile.json"
	dateTakenLayout = "2006-01-02 15:04:05"
)

var extensions = map[string]string{
	"jpeg": "jpg",
	"png":  "png",
	"gif":  "gif",
	"webp": "webp",
}

// ErrNoOriginal is reported for photos whose original is not in the export.
var ErrNoOriginal = errors.New("original is not exported")

type Importer struct {
	Users  kuser.UserInterface
	Photos kphoto.PhotoInterface
	Flickr kflickr.FlickrInterface
	Store  storage.Storage
	Events events.Publisher

	// Client fetches the profile of the account.
	// When nil, the profile is left to flickr_sync jobs.
	Client flickr.Client

	Logger *zap.Logger
}

// Report counts photos by outcome.
type Report struct {
	Imported int
	// imported before.
	Skipped int
	Failed  int
}

type exportedTag struct {
	Tag string `json:"tag"`
}

type exportedPhoto struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	DateTaken   string        `json:"date_taken"`
	Privacy     string        `json:"privacy"`
	Tags        []exportedTag `json:"tags"`
}

type profile struct {
	NSID string `json:"nsid"`
}

// Run imports photos in dir as photos of the user with ownerEmail.
//
// nsid is the Flickr account of the export.
// When it is empty, it is read from account_profile.json.
//
// A photo failing to import does not stop others. They are counted in Report.Failed.
//
// # Returns
//
// - error: when the owner, the account or the directory cannot be read.
func (im *Importer) Run(ctx context.Context, dir string, ownerEmail string, nsid string) (Report, error) {
	logger := im.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pub := im.Events
	if pub == nil {
		pub = events.Noop()
	}

	owner, err := im.Users.GetByEmail(ctx, ownerEmail)
	if err != nil {
		return Report{}, fmt.Errorf("owner %s: %w", ownerEmail, err)
	}

	if nsid == "" {
		p := profile{}
		if err := readJSON(filepath.Join(dir, profileFile), &p); err != nil {
			return Report{}, err
		}
		if p.NSID == "" {
			return Report{}, fmt.Errorf("%s: nsid is missing", profileFile)
		}
		nsid = p.NSID
	}
	if err := im.upsertAccount(ctx, nsid, logger); err != nil {
		return Report{}, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Report{}, err
	}
	originals := map[string]string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if id, ok := originalID(e.Name()); ok {
			originals[id] = filepath.Join(dir, e.Name())
		}
	}

	report := Report{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "photo_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		p := exportedPhoto{}
		if err := readJSON(filepath.Join(dir, name), &p); err != nil {
			logger.Warn("unreadable photo metadata", zap.String("file", name), zap.Error(err))
			report.Failed += 1
			continue
		}

		photo, err := im.importOne(ctx, owner, nsid, p, originals[p.ID], logger)
		switch {
		case errors.Is(err, domerr.ErrConflict):
			logger.Info("imported already", zap.String("flickr_id", p.ID))
			report.Skipped += 1
			continue
		case err != nil:
			logger.Warn("import failed", zap.String("flickr_id", p.ID), zap.Error(err))
			report.Failed += 1
			continue
		}
		report.Imported += 1
		logger.Info("imported", zap.String("flickr_id", p.ID), zap.String("slug", photo.Slug))

		if err := pub.Publish(ctx, events.Event{
			Type:       events.PhotoCreated,
			Subject:    photo.ID,
			Actor:      &owner.ID,
			Payload:    map[string]any{"slug": photo.Slug, "owner": photo.OwnerID, "flickr_id": p.ID},
			OccurredAt: time.Now(),
		}); err != nil {
			logger.Warn("publishing event failed", zap.Int64("photo", photo.ID), zap.Error(err))
		}
	}
	return report, nil
}

// upsertAccount registers the profile of the Flickr account.
//
// Without the profile, creating photos registers the account
// and flickr_sync jobs fetch the profile later.
func (im *Importer) upsertAccount(ctx context.Context, nsid string, logger *zap.Logger) error {
	if im.Client == nil {
		return nil
	}
	u, err := im.Client.Person(ctx, nsid)
	if err != nil {
		logger.Warn("fetching flickr profile failed", zap.String("nsid", nsid), zap.Error(err))
		return nil
	}
	now := time.Now()
	u.NSID = nsid
	u.SyncedAt = &now
	_, err = im.Flickr.UpsertUser(ctx, u)
	return err
}

func (im *Importer) importOne(
	ctx context.Context, owner domain.User, nsid string, p exportedPhoto, path string, logger *zap.Logger,
) (domain.Photo, error) {
	if p.ID == "" {
		return domain.Photo{}, errors.New("id is missing")
	}
	if path == "" {
		return domain.Photo{}, ErrNoOriginal
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.Photo{}, err
	}
	info, err := imaging.Probe(bytes.NewReader(content))
	if err != nil {
		return domain.Photo{}, err
	}
	exif, takenAt := imaging.ReadExif(bytes.NewReader(content))
	if takenAt == nil {
		if t, err := time.Parse(dateTakenLayout, p.DateTaken); err == nil {
			takenAt = &t
		}
	}

	tags := []domain.Tagging{}
	for _, t := range p.Tags {
		name, err := domain.NormalizeTagName(t.Tag)
		if err != nil {
			logger.Debug("tag is dropped", zap.String("flickr_id", p.ID), zap.String("tag", t.Tag), zap.Error(err))
			continue
		}
		tags = append(tags, domain.Tagging{Tag: domain.Tag{Name: name}, Source: domain.TagByFlickr})
	}

	flickrID, ownerNSID := p.ID, nsid
	spec, err := domain.PhotoSpec{
		ObjectKey:        fmt.Sprintf("originals/%s.%s", uuid.NewString(), extensions[info.Format]),
		OwnerID:          owner.ID,
		Title:            p.Name,
		Description:      p.Description,
		Privacy:          privacyOf(p.Privacy),
		OriginalFilename: filepath.Base(path),
		ContentType:      info.ContentType,
		Width:            info.Width,
		Height:           info.Height,
		TakenAt:          takenAt,
		Exif:             exif,
		FlickrID:         &flickrID,
		FlickrOwnerNSID:  &ownerNSID,
		Tags:             tags,
	}.Normalize()
	if err != nil {
		return domain.Photo{}, err
	}

	if err := im.Store.Put(ctx, spec.ObjectKey, bytes.NewReader(content), int64(len(content)), info.ContentType); err != nil {
		return domain.Photo{}, err
	}
	photo, err := im.Photos.Create(ctx, spec)
	if err != nil {
		if derr := im.Store.Delete(ctx, spec.ObjectKey); derr != nil {
			logger.Error("object is left in storage", zap.String("key", spec.ObjectKey), zap.Error(derr))
		}
		return domain.Photo{}, err
	}
	return photo, nil
}

// privacyOf maps Flickr privacy. Only "public" is public here.
// Friends and family are not known to photoshare.
func privacyOf(flickrPrivacy string) domain.Privacy {
	if strings.EqualFold(strings.TrimSpace(flickrPrivacy), "public") {
		return domain.Public
	}
	return domain.Private
}

// originalID extracts the photo id from file names like "title_123_o.jpg" or "123.jpg".
func originalID(filename string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return "", false
	}
	parts := strings.Split(strings.TrimSuffix(filename, filepath.Ext(filename)), "_")
	if 2 <= len(parts) && parts[len(parts)-1] == "o" {
		parts = parts[:len(parts)-1]
	}
	id := parts[len(parts)-1]
	if id == "" || strings.Trim(id, "0123456789") != "" {
		return "", false
	}
	return id, true
}

func readJSON(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}
