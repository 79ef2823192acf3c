package core

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("scrapers/comet/core")

const (
	DefaultRetryBaseDelay = time.Second * 30
	retryDelayStep        = time.Second * 15
	retryDelayCap         = time.Second * 300
)

// BackoffDelay is the wait before retry number attempt (0-based). It
// grows linearly from the base and is capped at five minutes.
func BackoffDelay(base time.Duration, attempt int) time.Duration {
	delay := base + time.Duration(attempt)*retryDelayStep
	if delay > retryDelayCap {
		return retryDelayCap
	}
	return delay
}

// Fetcher wraps a client with unbounded retry. A fetch either
// succeeds eventually or is cancelled, there is no failure return for
// a flaky remote.
type Fetcher struct {
	Client *Client
	// wait before the first retry, DefaultRetryBaseDelay when zero
	BaseDelay time.Duration
	Sink      Sink
}

func (f Fetcher) sink() Sink {
	if f.Sink == nil {
		return NopSink{}
	}
	return f.Sink
}

func (f Fetcher) baseDelay() time.Duration {
	if f.BaseDelay == 0 {
		return DefaultRetryBaseDelay
	}
	return f.BaseDelay
}

// Fetch GETs the url, retrying until it returns HTTP 200, and parses
// the body. The attempt counter resets per url. The only error ever
// returned is the context's.
func (f Fetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "fetcher:Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	f.sink().Emit(Event{Kind: EventURL, Url: url})

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "cancelled")
			return nil, err
		}

		res, err := f.Client.Http.R().
			SetContext(ctx).
			Get(url)
		if err == nil && res.StatusCode() == 200 {
			f.sink().Emit(Event{Kind: EventStatus, Status: ""})
			doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed to parse html")
				return nil, err
			}
			return doc, nil
		}

		if err == nil {
			err = fmt.Errorf("code %d, reason %s", res.StatusCode(), res.Status())
		}
		if ctx.Err() != nil {
			span.SetStatus(codes.Error, "cancelled")
			return nil, ctx.Err()
		}

		delay := BackoffDelay(f.baseDelay(), attempt)
		span.AddEvent("retry", trace.WithAttributes(
			attribute.Int("attempt", attempt),
			attribute.String("delay", delay.String()),
			attribute.String("err", err.Error()),
		))
		f.sink().Emit(Event{
			Kind: EventStatus,
			Status: fmt.Sprintf(
				"There was an issue with the request, waiting %.0f seconds and retrying. Error %s",
				delay.Seconds(), err,
			),
		})

		if err := Sleep(ctx, delay); err != nil {
			span.SetStatus(codes.Error, "cancelled during backoff")
			return nil, err
		}
	}
}

// Sleep waits for d or until the context is cancelled.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
