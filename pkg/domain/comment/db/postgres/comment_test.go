package postgres_test

import (
	"context"
	"strings"
	"testing"

	"github.com/opst/photoshare/pkg/conn/db/postgres/pool/testenv"
	"github.com/opst/photoshare/pkg/domain"
	kpgcomment "github.com/opst/photoshare/pkg/domain/comment/db/postgres"
	kerr "github.com/opst/photoshare/pkg/domain/errors"
	"github.com/opst/photoshare/pkg/utils/try"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComment(t *testing.T) {
	poolBroker := testenv.NewPoolBroker(context.Background(), t)
	ctx := context.Background()
	pool := poolBroker.GetPool(ctx, t)
	for _, q := range []string{
		`insert into "users" ("id", "email", "name", "password_hash") values (1, 'a@example.com', 'a', 'x')`,
		`insert into "photo" ("id", "slug", "owner_id", "object_key", "content_type", "width", "height")
		values (1, 'p', 1, 'originals/p.jpg', 'image/jpeg', 10, 10)`,
	} {
		if _, err := pool.Exec(ctx, q); err != nil {
			t.Fatal(err)
		}
	}
	testee := kpgcomment.New(pool)

	created := []domain.Comment{}
	for _, body := range []string{" first ", "second", "third"} {
		created = append(created, try.To(testee.Create(ctx, 1, 1, body)).OrFatal(t))
	}
	assert.Equal(t, "first", created[0].Body)

	page := try.To(testee.ForPhoto(ctx, 1, domain.Page{Number: 1, PerPage: 2})).OrFatal(t)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, created[0].ID, page.Items[0].ID, "comments should be oldest first")
	assert.True(t, page.HasNext())

	_, err := testee.Create(ctx, 1, 1, strings.Repeat(" ", 3))
	assert.ErrorIs(t, err, kerr.ErrInvalidArgument)
	_, err = testee.Create(ctx, 404, 1, "to nowhere")
	assert.ErrorIs(t, err, kerr.ErrMissing)

	deleted := try.To(testee.Delete(ctx, created[1].ID)).OrFatal(t)
	assert.Equal(t, "second", deleted.Body)
	_, err = testee.Get(ctx, created[1].ID)
	assert.ErrorIs(t, err, kerr.ErrMissing)
	_, err = testee.Delete(ctx, created[1].ID)
	assert.ErrorIs(t, err, kerr.ErrMissing)
}
