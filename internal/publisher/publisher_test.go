package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ivancliff029/engaato-online/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishTransaction(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	tx := domain.TransactionRecord{
		ID:        "flw-1",
		Reference: "ref-1",
		Amount:    domain.NewPrice(90000),
		Currency:  domain.DefaultCurrency,
		Status:    domain.TransactionStatusSuccessful,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, p.PublishTransaction(context.Background(), tx))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "ref-1", string(w.msgs[0].Key))
	assert.Equal(t, "transaction.recorded", string(w.msgs[0].Headers[0].Value))

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "flw-1", got["id"])
	assert.Equal(t, "UGX", got["currency"])
	assert.EqualValues(t, 90000, got["amount"])
}

func TestPublishTransaction_WriterError(t *testing.T) {
	p := &KafkaPublisher{writer: &fakeWriter{err: errors.New("broker down")}}

	err := p.PublishTransaction(context.Background(), domain.TransactionRecord{ID: "flw-1"})
	assert.ErrorContains(t, err, "failed to publish transaction flw-1")
}

func TestClose(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}
