package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamefi-market/src/logger"
	"gamefi-market/src/models"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	fails  int // calls to fail before succeeding
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails > 0 {
		f.fails--
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func (f *fakeWriter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

func quiet() *logger.Logger {
	return logger.NewLoggerWithWriter(io.Discard, "CRITICAL", "test")
}

func snapshot(ts time.Time) models.MPriceSnapshot {
	return models.MPriceSnapshot{
		Timestamp: ts,
		Prices: map[string]models.MPriceData{
			"LAND": {Symbol: "LAND", Price: 15.1, Timestamp: ts},
			"FARM": {Symbol: "FARM", Price: 1.27, Timestamp: ts},
		},
	}
}

// -----------------------------------------------------------------------------

func TestPublishKeysBySymbol(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, quiet())
	ts := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	require.NoError(t, p.Publish(context.Background(), snapshot(ts)))
	require.Len(t, w.msgs, 2)
	assert.Equal(t, "FARM", string(w.msgs[0].Key))
	assert.Equal(t, "LAND", string(w.msgs[1].Key))

	var msg PriceMessage
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &msg))
	assert.Equal(t, 1.27, msg.Price)
	assert.True(t, ts.Equal(msg.TickTimestamp))

	require.NoError(t, p.Publish(context.Background(), models.MPriceSnapshot{}))
	assert.Len(t, w.msgs, 2)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

// -----------------------------------------------------------------------------

func TestRunContinuesAfterFailure(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down"), fails: 1}
	p := newKafkaPublisher(w, quiet())

	updates := make(chan models.MPriceSnapshot, 2)
	done := make(chan struct{})
	go func() {
		p.Run(context.Background(), updates)
		close(done)
	}()

	updates <- snapshot(time.Now())
	updates <- snapshot(time.Now())
	close(updates)
	<-done

	assert.Equal(t, 2, w.count())
}

// -----------------------------------------------------------------------------

func TestNewKafkaPublisherValidation(t *testing.T) {
	_, err := NewKafkaPublisher(models.MPublisherConfig{Topic: "t"}, quiet())
	assert.Error(t, err)
	_, err = NewKafkaPublisher(models.MPublisherConfig{Brokers: []string{"localhost:9092"}}, quiet())
	assert.Error(t, err)

	p, err := NewKafkaPublisher(models.MPublisherConfig{Brokers: []string{"localhost:9092"}, Topic: "t"}, quiet())
	require.NoError(t, err)
	require.NoError(t, p.Close())
}
