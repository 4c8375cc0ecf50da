package postgres_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/opst/photoshare/pkg/conn/db/postgres/pool/testenv"
	"github.com/opst/photoshare/pkg/domain"
	kerr "github.com/opst/photoshare/pkg/domain/errors"
	kpgsetting "github.com/opst/photoshare/pkg/domain/setting/db/postgres"
	"github.com/opst/photoshare/pkg/utils/try"
)

func TestSetting(t *testing.T) {
	poolBroker := testenv.NewPoolBroker(context.Background(), t)

	t.Run("Unset settings are defaults", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroker.GetPool(ctx, t)
		testee := kpgsetting.New(pool)

		got := try.To(testee.Get(ctx, domain.SettingRekognitionEnabled)).OrFatal(t)
		if !got.Bool(false) || !got.UpdatedAt.IsZero() {
			t.Errorf("unexpected setting: %+v", got)
		}
	})

	t.Run("Stored settings overlay defaults", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroker.GetPool(ctx, t)
		testee := kpgsetting.New(pool)

		set := try.To(testee.Set(ctx, domain.SettingUploadsEnabled, json.RawMessage(`false`))).OrFatal(t)
		if set.Bool(true) || set.UpdatedAt.IsZero() {
			t.Errorf("unexpected setting: %+v", set)
		}

		got := try.To(testee.Get(ctx, domain.SettingUploadsEnabled)).OrFatal(t)
		if got.Bool(true) {
			t.Errorf("unexpected setting: %+v", got)
		}

		all := try.To(testee.All(ctx)).OrFatal(t)
		if len(all) != len(domain.DefaultSettings()) {
			t.Errorf("unexpected settings: %v", all)
		}
		if all[domain.SettingUploadsEnabled].Bool(true) || !all[domain.SettingRekognitionEnabled].Bool(false) {
			t.Errorf("unexpected settings: %v", all)
		}
	})

	t.Run("Invalid settings are rejected", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroker.GetPool(ctx, t)
		testee := kpgsetting.New(pool)

		for key, value := range map[string]string{
			"no.such.key":                    `true`,
			domain.SettingUploadsEnabled:     `"yes"`,
			domain.SettingSiteTitle:          `{`,
			domain.SettingRekognitionEnabled: `1`,
		} {
			if _, err := testee.Set(ctx, key, json.RawMessage(value)); !errors.Is(err, kerr.ErrInvalidArgument) {
				t.Errorf("%s = %s: unexpected error: %v", key, value, err)
			}
		}
	})

	t.Run("Unknown keys are ErrMissing", func(t *testing.T) {
		ctx := context.Background()
		pool := poolBroker.GetPool(ctx, t)
		testee := kpgsetting.New(pool)

		if _, err := testee.Get(ctx, "no.such.key"); !errors.Is(err, kerr.ErrMissing) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
