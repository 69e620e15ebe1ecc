package queue

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hirelens/internal/common/logger"
)

func TestValidateJob(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid job", body: `{"application_id": 5, "cv_path": "static/resumes/42.pdf"}`},
		{name: "missing cv path", body: `{"application_id": 5}`, wantErr: true},
		{name: "empty cv path", body: `{"application_id": 5, "cv_path": ""}`, wantErr: true},
		{name: "zero application id", body: `{"application_id": 0, "cv_path": "x.pdf"}`, wantErr: true},
		{name: "string application id", body: `{"application_id": "5", "cv_path": "x.pdf"}`, wantErr: true},
		{name: "not json", body: `garbage`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateJob([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAnalysisJob_RoundTrip(t *testing.T) {
	body, err := json.Marshal(AnalysisJob{ApplicationID: 5, CVPath: "static/resumes/42.pdf"})
	require.NoError(t, err)
	require.NoError(t, validateJob(body))

	var decoded AnalysisJob
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, int64(5), decoded.ApplicationID)
}

type stubAcker struct {
	mu    sync.Mutex
	acked int
}

func (a *stubAcker) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked++
	return nil
}

func (a *stubAcker) Nack(tag uint64, multiple, requeue bool) error { return nil }
func (a *stubAcker) Reject(tag uint64, requeue bool) error         { return nil }

func (a *stubAcker) ackCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.acked
}

func TestConsumeLoop_WaitsForInFlightHandlersOnShutdown(t *testing.T) {
	c := &Client{logger: logger.NewTestLogger(t)}
	acker := &stubAcker{}

	msgs := make(chan amqp.Delivery, 1)
	msgs <- amqp.Delivery{
		Acknowledger: acker,
		Body:         []byte(`{"application_id": 5, "cv_path": "static/resumes/42.pdf"}`),
	}

	started := make(chan struct{})
	release := make(chan struct{})
	handler := func(ctx context.Context, job AnalysisJob) error {
		close(started)
		<-release
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	loopDone := make(chan error, 1)
	go func() {
		loopDone <- c.consumeLoop(ctx, msgs, 2, handler)
	}()

	<-started
	cancel()

	select {
	case <-loopDone:
		t.Fatal("consume loop returned while a handler was still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-loopDone:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("consume loop did not return after handlers finished")
	}
	assert.Equal(t, 1, acker.ackCount())
}
