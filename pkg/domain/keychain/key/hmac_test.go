package key_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/opst/photoshare/pkg/domain/keychain/key"
)

func TestHS256(t *testing.T) {
	t.Run("it issues keys with given length and ttl", func(t *testing.T) {
		testee := key.HS256(time.Hour, 32)

		before := time.Now()
		k1, err := testee.Issue()
		if err != nil {
			t.Fatal(err)
		}
		k2, err := testee.Issue()
		if err != nil {
			t.Fatal(err)
		}

		if k1.Alg != "HS256" {
			t.Errorf("alg: %s", k1.Alg)
		}
		if len(k1.Secret) != 32 {
			t.Errorf("secret length: %d", len(k1.Secret))
		}
		if k1.KID == k2.KID {
			t.Errorf("kid is not unique: %s", k1.KID)
		}
		if bytes.Equal(k1.Secret, k2.Secret) {
			t.Errorf("secret is not random")
		}
		if exp := k1.ExpiresAt; exp.Before(before.Add(time.Hour).Add(-time.Second)) || exp.After(time.Now().Add(time.Hour)) {
			t.Errorf("expires at: %s", exp)
		}
		if testee.TTL() != time.Hour {
			t.Errorf("ttl: %s", testee.TTL())
		}
	})
}
