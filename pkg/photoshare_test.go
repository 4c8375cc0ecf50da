package photoshare_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	photoshare "github.com/opst/photoshare/pkg"
	bconf "github.com/opst/photoshare/pkg/configs/backend"
	"github.com/opst/photoshare/pkg/conn/events"
	dbmock "github.com/opst/photoshare/pkg/domain/photoshare/db/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configOf(t *testing.T, storage string) *bconf.BackendConfig {
	t.Helper()
	conf, err := bconf.Unmarshal([]byte(`
server:
  port: 8080
  publicUrl: https://photos.example.com
database: postgres://photoshare@db/photoshare
storage:
` + storage))
	require.NoError(t, err)
	return conf
}

func TestAttach_LocalStorage(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	conf := configOf(t, "  kind: local\n  root: "+root+"\n  baseUrl: /objects\n")
	db := dbmock.New()

	p, err := photoshare.Attach(ctx, conf, db)
	require.NoError(t, err)

	assert.Same(t, conf, p.Config())

	require.NoError(t, p.Storage().Put(ctx, "originals/a.jpg", strings.NewReader("jpeg"), 4, "image/jpeg"))
	r, err := p.Storage().Get(ctx, "originals/a.jpg")
	require.NoError(t, err)
	defer r.Close()
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(got))

	u, err := p.Storage().URL(ctx, "originals/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "/objects/originals/a.jpg", u)

	// events and mail are not configured
	assert.NoError(t, p.Events().Publish(ctx, events.Event{Type: events.PhotoCreated, Subject: 1}))
	assert.NoError(t, p.Mail().Send(ctx))

	assert.NoError(t, p.Close())
	assert.True(t, db.Closed)
}

func TestOpenStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("s3 fails when AWS config can not be loaded", func(t *testing.T) {
		conf := configOf(t, "  kind: s3\n  bucket: objects\n")
		expectedErr := errors.New("fake error")

		_, err := photoshare.OpenStorage(ctx, conf.Storage(), func(context.Context) (aws.Config, error) {
			return aws.Config{}, expectedErr
		})
		assert.ErrorIs(t, err, expectedErr)
	})

	t.Run("s3 is built with AWS config", func(t *testing.T) {
		conf := configOf(t, "  kind: s3\n  bucket: objects\n")
		called := false

		st, err := photoshare.OpenStorage(ctx, conf.Storage(), func(context.Context) (aws.Config, error) {
			called = true
			return aws.Config{Region: "ap-northeast-1"}, nil
		})
		require.NoError(t, err)
		assert.NotNil(t, st)
		assert.True(t, called)
	})

	t.Run("local does not load AWS config", func(t *testing.T) {
		conf := configOf(t, "  kind: local\n  root: "+t.TempDir()+"\n  baseUrl: /objects\n")

		st, err := photoshare.OpenStorage(ctx, conf.Storage(), func(context.Context) (aws.Config, error) {
			t.Fatal("should not be called")
			return aws.Config{}, nil
		})
		require.NoError(t, err)
		assert.NotNil(t, st)
	})
}
