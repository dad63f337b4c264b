// Package remote implements the Fetcher port over HTTP.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.trai.ch/ontoenv/internal/core/domain"
	"go.trai.ch/ontoenv/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

var _ ports.Fetcher = (*Fetcher)(nil)

const (
	defaultInitialInterval = 500 * time.Millisecond
	defaultMaxInterval     = 10 * time.Second
	maxDocumentSize        = 64 << 20
)

// Fetcher dereferences ontology URIs over HTTP with content negotiation,
// conditional requests and bounded exponential retries.
type Fetcher struct {
	client          *http.Client
	metrics         *Metrics
	group           singleflight.Group
	initialInterval time.Duration
	maxInterval     time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) { f.client = client }
}

// WithMetrics records fetches into m.
func WithMetrics(m *Metrics) Option {
	return func(f *Fetcher) { f.metrics = m }
}

// WithRetryInterval sets the first and the largest wait between retries.
func WithRetryInterval(initial, maxInterval time.Duration) Option {
	return func(f *Fetcher) {
		f.initialInterval = initial
		f.maxInterval = maxInterval
	}
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:          &http.Client{},
		initialInterval: defaultInitialInterval,
		maxInterval:     defaultMaxInterval,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.metrics == nil {
		f.metrics = NewMetrics(nil)
	}
	return f
}

// statusError is a non-success HTTP answer.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return "status " + strconv.Itoa(e.code) + " " + http.StatusText(e.code)
}

// Fetch retrieves req.URI. Concurrent calls for the same URI and validators share a
// single request sequence and its result.
func (f *Fetcher) Fetch(ctx context.Context, req domain.FetchRequest) (*domain.FetchedDocument, error) {
	if !req.URI.IsHTTP() {
		return nil, &domain.FetchError{
			URI:      req.URI,
			Importer: req.Importer,
			Err:      zerr.With(domain.ErrFetchRequestFailed, "reason", "unsupported scheme"),
		}
	}

	key := req.URI.String() + "\x00" + req.Validators.ETag + "\x00" + req.Validators.LastModified
	v, err, _ := f.group.Do(key, func() (any, error) {
		return f.fetchWithRetry(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	doc := *v.(*domain.FetchedDocument)
	return &doc, nil
}

func (f *Fetcher) fetchWithRetry(ctx context.Context, req domain.FetchRequest) (*domain.FetchedDocument, error) {
	var attempts atomic.Int32
	var lastStatus atomic.Int32

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = f.initialInterval
	policy.MaxInterval = f.maxInterval
	policy.MaxElapsedTime = 0

	retries := max(req.MaxRetries, 0)
	bo := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(retries)), ctx)

	var doc *domain.FetchedDocument
	op := func() error {
		attempts.Add(1)
		f.metrics.Attempts.Inc()

		got, err := f.attempt(ctx, req)
		if err == nil {
			doc = got
			return nil
		}

		var se *statusError
		if errors.As(err, &se) {
			lastStatus.Store(int32(se.code)) //nolint:gosec // HTTP status codes fit in int32
			if !transientStatus(se.code) {
				return backoff.Permanent(err)
			}
			return err
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}

	if err := backoff.Retry(op, bo); err != nil {
		f.metrics.Fetches.WithLabelValues(outcomeError).Inc()
		return nil, &domain.FetchError{
			URI:      req.URI,
			Importer: req.Importer,
			Status:   int(lastStatus.Load()),
			Attempts: int(attempts.Load()),
			Err:      err,
		}
	}

	if doc.NotModified {
		f.metrics.Fetches.WithLabelValues(outcomeNotModified).Inc()
	} else {
		f.metrics.Fetches.WithLabelValues(outcomeOK).Inc()
		f.metrics.Bytes.Add(float64(len(doc.Body)))
	}
	return doc, nil
}

func (f *Fetcher) attempt(ctx context.Context, req domain.FetchRequest) (*domain.FetchedDocument, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URI.String(), http.NoBody)
	if err != nil {
		return nil, backoff.Permanent(zerr.Wrap(err, domain.ErrFetchRequestFailed.Error()))
	}
	httpReq.Header.Set("Accept", domain.AcceptHeader)
	if req.Validators.ETag != "" {
		httpReq.Header.Set("If-None-Match", req.Validators.ETag)
	}
	if req.Validators.LastModified != "" {
		httpReq.Header.Set("If-Modified-Since", req.Validators.LastModified)
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrFetchRequestFailed.Error())
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close in defer

	validators := domain.Validators{
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
	}

	switch {
	case resp.StatusCode == http.StatusNotModified:
		if validators.IsZero() {
			validators = req.Validators
		}
		return &domain.FetchedDocument{URI: req.URI, Validators: validators, NotModified: true}, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrFetchRequestFailed.Error())
	}
	if len(body) > maxDocumentSize {
		return nil, backoff.Permanent(zerr.With(domain.ErrFetchRequestFailed, "reason", fmt.Sprintf("document larger than %d bytes", maxDocumentSize)))
	}

	return &domain.FetchedDocument{
		URI:         req.URI,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		Validators:  validators,
	}, nil
}

// transientStatus reports whether a retry may succeed.
func transientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusRequestTimeout || code >= 500
}
