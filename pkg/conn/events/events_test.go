package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/opst/photoshare/pkg/conn/events"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher(t *testing.T) {
	t.Run("it writes events as JSON keyed by type and subject", func(t *testing.T) {
		w := &fakeWriter{}
		testee := events.WithWriter(w)

		actor := int64(7)
		at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, testee.Publish(context.Background(), events.Event{
			Type: events.AlbumShared, Subject: 42, Actor: &actor,
			Payload:    map[string]any{"emails": 2},
			OccurredAt: at,
		}))
		require.NoError(t, testee.Close())

		require.Len(t, w.messages, 1)
		msg := w.messages[0]
		assert.Equal(t, "album.shared:42", string(msg.Key))
		assert.Equal(t, at, msg.Time)
		assert.Equal(t, []kafka.Header{{Key: "type", Value: []byte("album.shared")}}, msg.Headers)

		var body map[string]any
		require.NoError(t, json.Unmarshal(msg.Value, &body))
		assert.Equal(t, "album.shared", body["type"])
		assert.Equal(t, float64(42), body["subject"])
		assert.Equal(t, float64(7), body["actor"])
		assert.True(t, w.closed)
	})

	t.Run("it fills occurrence time", func(t *testing.T) {
		w := &fakeWriter{}
		require.NoError(t, events.WithWriter(w).Publish(context.Background(), events.Event{
			Type: events.PhotoCreated, Subject: 1,
		}))
		require.Len(t, w.messages, 1)
		assert.False(t, w.messages[0].Time.IsZero())
	})
}
