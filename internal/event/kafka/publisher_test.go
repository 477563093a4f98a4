package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/event"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublish_WritesKeyedMessage(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisherWithWriter(w)

	p.Publish(context.Background(), event.GoalDeleted(9))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "goal", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "goal.deleted", string(msg.Headers[0].Value))

	var decoded event.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "goal.deleted", decoded.Type)
}

func TestPublish_WriteErrorIsSwallowed(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := NewPublisherWithWriter(w)

	assert.NotPanics(t, func() {
		p.Publish(context.Background(), event.TransactionDeleted(1))
	})
	assert.Empty(t, w.messages)
}

func TestClose(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, NewPublisherWithWriter(w).Close())
	assert.True(t, w.closed)
}
