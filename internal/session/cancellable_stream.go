package session

import (
	"context"
	"errors"
	"time"

	"voicegateway/internal/domain/models/voice"
	"voicegateway/internal/llmclient"
)

// DefaultStreamTimeout is the fixed wall-clock bound on an LLM streaming
// initiation, per spec.md §6.
const DefaultStreamTimeout = 15 * time.Second

// ErrCancelled and ErrTimedOut are reported with the same tag to the
// caller per spec.md §4.2 — both mean "the caller should move on without
// waiting for the provider any further."
var (
	ErrCancelled = errors.New("cancelled")
	ErrTimedOut  = errors.New("timed out")
)

// streamer is the subset of *llmclient.Adapter the primitive needs,
// narrowed for testability.
type streamer interface {
	Stream(ctx context.Context, history []voice.Turn) (*llmclient.StreamHandle, error)
}

// RaceStream wraps a single LLM streaming call with two independent
// rejection sources: a caller-owned CancellationToken and a fixed
// wall-clock timeout. It resolves within one scheduling quantum of
// cancellation because the token's OnCancel listener fires synchronously
// inside Cancel and immediately signals the done channel this function is
// selecting on — no select-on-Done() polling latency.
//
// Grounded on the teacher's mstream_adapter.go processProviderStream
// cancellation branch and handleError's errors.Is(err, context.Canceled)
// classification: same "two abort sources, one tagged failure" shape,
// adapted from "cancel mid-stream" to "cancel the initial wait."
func RaceStream(ctx context.Context, adapter streamer, history []voice.Turn, token *CancellationToken, timeout time.Duration) (*llmclient.StreamHandle, error) {
	if timeout <= 0 {
		timeout = DefaultStreamTimeout
	}

	if token.IsCancelled() {
		return nil, ErrCancelled
	}

	// streamCtx stays live after a successful return: the handle's chunks
	// are produced under it, so it is cancelled only on the abort paths
	// below or later by the token's listener.
	streamCtx, cancel := context.WithCancel(ctx)

	cancelSignal := make(chan struct{}, 1)
	token.OnCancel(func() {
		select {
		case cancelSignal <- struct{}{}:
		default:
		}
		cancel()
	})

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	type result struct {
		handle *llmclient.StreamHandle
		err    error
	}
	resultCh := make(chan result, 1)

	go func() {
		handle, err := adapter.Stream(streamCtx, history)
		resultCh <- result{handle, err}
	}()

	select {
	case <-cancelSignal:
		return nil, ErrCancelled
	case <-timer.C:
		cancel()
		return nil, ErrTimedOut
	case res := <-resultCh:
		if res.err != nil {
			cancel()
			if token.IsCancelled() {
				return nil, ErrCancelled
			}
			return nil, res.err
		}
		return res.handle, nil
	}
}
