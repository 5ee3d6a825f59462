package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveOutcome(t *testing.T, ch <-chan Outcome) Outcome {
	t.Helper()
	select {
	case out := <-ch:
		return out
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for batch outcome")
		return Outcome{}
	}
}

func TestQueue_FlushesWhenBatchFills(t *testing.T) {
	client := &fakeClient{response: `{"questions": [{"question": "Tell me about a hard bug."}]}`}
	m := newTestManager(client, newFakeCache(), Options{})
	q := NewQueue(m, 2, time.Minute, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx) //nolint:errcheck

	first := q.Enqueue(Request{Kind: KindInterviewPrep, Payload: "job a"})
	second := q.Enqueue(Request{Kind: KindInterviewPrep, Payload: "job b"})

	outA := receiveOutcome(t, first)
	outB := receiveOutcome(t, second)

	require.NoError(t, outA.Err)
	require.NoError(t, outB.Err)
	assert.NotNil(t, outA.Result.Prep)
	assert.NotNil(t, outB.Result.Prep)
	assert.Equal(t, 2, client.callCount())
}

func TestQueue_FlushesPartialBatchOnInterval(t *testing.T) {
	client := &fakeClient{response: `{"questions": []}`}
	m := newTestManager(client, newFakeCache(), Options{})
	q := NewQueue(m, 10, 20*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx) //nolint:errcheck

	out := receiveOutcome(t, q.Enqueue(Request{Kind: KindInterviewPrep, Payload: "job a"}))
	require.NoError(t, out.Err)
	assert.NotNil(t, out.Result)
}

func TestQueue_DefaultsNonPositiveSizeAndInterval(t *testing.T) {
	m := newTestManager(&fakeClient{response: `{"questions": []}`}, newFakeCache(), Options{})
	q := NewQueue(m, 0, 0, nil)

	assert.Equal(t, 1, q.size)
	assert.Greater(t, q.interval, time.Duration(0))

	// Run must start its ticker without panicking.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx) //nolint:errcheck

	out := receiveOutcome(t, q.Enqueue(Request{Kind: KindInterviewPrep, Payload: "job a"}))
	require.NoError(t, out.Err)
}

func TestQueue_CancellationFailsPending(t *testing.T) {
	m := newTestManager(&fakeClient{}, newFakeCache(), Options{})
	q := NewQueue(m, 10, time.Minute, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- q.Run(ctx) }()

	ch := q.Enqueue(Request{Kind: KindCoverLetter, Payload: "job a"})
	cancel()

	out := receiveOutcome(t, ch)
	assert.ErrorIs(t, out.Err, context.Canceled)
	assert.ErrorIs(t, <-done, context.Canceled)
}
