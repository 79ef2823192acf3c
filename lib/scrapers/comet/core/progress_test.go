package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChannelSinkOrder(t *testing.T) {
	sink := NewChannelSink()

	// Emit everything up front, before the consumer touches the
	// channel. Emit must never block on a slow consumer.
	const n = 1000
	done := make(chan struct{})
	go func() {
		for i := 0; i < n; i++ {
			sink.Emit(Event{Kind: EventStepIndex, Step: i})
		}
		sink.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second * 5):
		t.Fatal("Emit blocked on an undrained sink")
	}

	i := 0
	for e := range sink.Events() {
		require.Equal(t, i, e.Step)
		i++
	}
	require.Equal(t, n, i)
}

func TestChannelSinkEmitAfterClose(t *testing.T) {
	sink := NewChannelSink()
	sink.Emit(Event{Kind: EventPhase, Phase: "working"})
	sink.Close()
	// dropped, must not panic on the closed channel
	sink.Emit(Event{Kind: EventPhase, Phase: "late"})

	var events []Event
	for e := range sink.Events() {
		events = append(events, e)
	}
	require.Len(t, events, 1)
	require.Equal(t, "working", events[0].Phase)
}
