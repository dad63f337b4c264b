package remote_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ontoenv/internal/adapters/remote"
	"go.trai.ch/ontoenv/internal/core/domain"
)

const turtleBody = `<http://example.org/a> a <http://www.w3.org/2002/07/owl#Ontology> .`

// MockRoundTripper is a helper to mock http.Client behavior.
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

func newMockClient(handler func(req *http.Request) (*http.Response, error)) *http.Client {
	return &http.Client{Transport: &MockRoundTripper{RoundTripFunc: handler}}
}

func newFetcher(t *testing.T, opts ...remote.Option) (*remote.Fetcher, *remote.Metrics) {
	t.Helper()
	metrics := remote.NewMetrics(prometheus.NewRegistry())
	opts = append([]remote.Option{
		remote.WithMetrics(metrics),
		remote.WithRetryInterval(time.Millisecond, 5*time.Millisecond),
	}, opts...)
	return remote.NewFetcher(opts...), metrics
}

func request(rawURL string, retries int) domain.FetchRequest {
	return domain.FetchRequest{
		URI:        domain.MustNormalizeURI(rawURL),
		Importer:   domain.MustNormalizeURI("urn:importer"),
		Timeout:    time.Second,
		MaxRetries: retries,
	}
}

func TestFetcher_Success(t *testing.T) {
	var accept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "text/turtle; charset=utf-8")
		w.Header().Set("ETag", `"v1"`)
		w.Header().Set("Last-Modified", "Mon, 02 Jan 2006 15:04:05 GMT")
		_, _ = io.WriteString(w, turtleBody)
	}))
	defer srv.Close()

	f, metrics := newFetcher(t, remote.WithHTTPClient(srv.Client()))
	doc, err := f.Fetch(context.Background(), request(srv.URL+"/a", 3))
	require.NoError(t, err)

	assert.Equal(t, domain.AcceptHeader, accept)
	assert.Equal(t, turtleBody, string(doc.Body))
	assert.Equal(t, domain.FormatTurtle, doc.Format())
	assert.Equal(t, `"v1"`, doc.Validators.ETag)
	assert.Equal(t, "Mon, 02 Jan 2006 15:04:05 GMT", doc.Validators.LastModified)
	assert.False(t, doc.NotModified)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Attempts), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Fetches.WithLabelValues("ok")), 0)
	assert.InDelta(t, float64(len(turtleBody)), testutil.ToFloat64(metrics.Bytes), 0)
}

func TestFetcher_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, turtleBody)
	}))
	defer srv.Close()

	f, metrics := newFetcher(t, remote.WithHTTPClient(srv.Client()))
	doc, err := f.Fetch(context.Background(), request(srv.URL+"/a.ttl", 3))
	require.NoError(t, err)

	assert.Equal(t, turtleBody, string(doc.Body))
	assert.Equal(t, int32(3), calls.Load())
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.Attempts), 0)
}

func TestFetcher_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f, metrics := newFetcher(t, remote.WithHTTPClient(srv.Client()))
	_, err := f.Fetch(context.Background(), request(srv.URL+"/a", 2))
	require.Error(t, err)

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusBadGateway, fetchErr.Status)
	assert.Equal(t, 3, fetchErr.Attempts)
	assert.Equal(t, "urn:importer", fetchErr.Importer.String())
	assert.Equal(t, int32(3), calls.Load())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Fetches.WithLabelValues("error")), 0)
}

func TestFetcher_NotFoundIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.NotFound(w, nil)
	}))
	defer srv.Close()

	f, _ := newFetcher(t, remote.WithHTTPClient(srv.Client()))
	_, err := f.Fetch(context.Background(), request(srv.URL+"/missing", 5))

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.Status)
	assert.Equal(t, 1, fetchErr.Attempts)
	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, err.Error(), "404")
}

func TestFetcher_ConditionalRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v2"`)
		_, _ = io.WriteString(w, turtleBody)
	}))
	defer srv.Close()

	f, metrics := newFetcher(t, remote.WithHTTPClient(srv.Client()))

	req := request(srv.URL+"/a", 0)
	req.Validators = domain.Validators{ETag: `"v1"`}
	doc, err := f.Fetch(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, doc.NotModified)
	assert.Empty(t, doc.Body)
	assert.Equal(t, `"v1"`, doc.Validators.ETag)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Fetches.WithLabelValues("not_modified")), 0)

	req.Validators = domain.Validators{ETag: `"v0"`}
	doc, err = f.Fetch(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, doc.NotModified)
	assert.Equal(t, `"v2"`, doc.Validators.ETag)
}

func TestFetcher_NetworkError(t *testing.T) {
	var calls atomic.Int32
	client := newMockClient(func(_ *http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, errors.New("dial tcp: lookup nonexistent.example: no such host")
	})

	f, _ := newFetcher(t, remote.WithHTTPClient(client))
	_, err := f.Fetch(context.Background(), request("http://nonexistent.example/x", 1))

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "http://nonexistent.example/x", fetchErr.URI.String())
	assert.Zero(t, fetchErr.Status)
	assert.Equal(t, 2, fetchErr.Attempts)
	assert.Contains(t, err.Error(), "no such host")
}

func TestFetcher_UnsupportedScheme(t *testing.T) {
	f, metrics := newFetcher(t)
	_, err := f.Fetch(context.Background(), request("urn:example:a", 3))

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), domain.ErrFetchRequestFailed.Error())
	assert.Zero(t, testutil.ToFloat64(metrics.Attempts))
}

func TestFetcher_CanceledContext(t *testing.T) {
	client := newMockClient(func(req *http.Request) (*http.Response, error) {
		return nil, req.Context().Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f, _ := newFetcher(t, remote.WithHTTPClient(client))
	_, err := f.Fetch(ctx, request("http://example.org/a", 5))

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.LessOrEqual(t, fetchErr.Attempts, 1)
}

func TestFetcher_SharesConcurrentFetches(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls atomic.Int32
		release := make(chan struct{})
		client := newMockClient(func(_ *http.Request) (*http.Response, error) {
			calls.Add(1)
			<-release
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"text/turtle"}},
				Body:       io.NopCloser(strings.NewReader(turtleBody)),
			}, nil
		})

		f, _ := newFetcher(t, remote.WithHTTPClient(client))
		req := request("http://example.org/shared", 0)
		req.Timeout = 0

		const callers = 8
		bodies := make([]string, callers)
		var wg sync.WaitGroup
		for i := range callers {
			wg.Go(func() {
				doc, err := f.Fetch(context.Background(), req)
				if assert.NoError(t, err) {
					bodies[i] = string(doc.Body)
				}
			})
		}

		synctest.Wait()
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		for _, body := range bodies {
			assert.Equal(t, turtleBody, body)
		}
	})
}
