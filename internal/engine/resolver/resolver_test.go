package resolver_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ontoenv/internal/adapters/fs"
	"go.trai.ch/ontoenv/internal/adapters/rdf"
	"go.trai.ch/ontoenv/internal/adapters/store"
	"go.trai.ch/ontoenv/internal/adapters/telemetry/progrock"
	"go.trai.ch/ontoenv/internal/core/domain"
	"go.trai.ch/ontoenv/internal/core/ports/mocks"
	"go.trai.ch/ontoenv/internal/engine/loader"
	"go.trai.ch/ontoenv/internal/engine/resolver"
	"go.uber.org/mock/gomock"
)

// ontology renders a Turtle document declaring uri with the given imports.
func ontology(uri string, imports ...string) string {
	var b strings.Builder
	b.WriteString("@prefix owl: <http://www.w3.org/2002/07/owl#> .\n")
	fmt.Fprintf(&b, "<%s> a owl:Ontology", uri)
	for _, imp := range imports {
		fmt.Fprintf(&b, " ;\n    owl:imports <%s>", imp)
	}
	b.WriteString(" .\n")
	return b.String()
}

// fakeWeb answers fetches from a fixed set of documents and counts requests per URI.
type fakeWeb struct {
	mu    sync.Mutex
	docs  map[string]string
	calls map[string]int
}

func newFakeWeb(docs map[string]string) *fakeWeb {
	return &fakeWeb{docs: docs, calls: make(map[string]int)}
}

func (w *fakeWeb) fetch(_ context.Context, req domain.FetchRequest) (*domain.FetchedDocument, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls[req.URI.String()]++
	body, ok := w.docs[req.URI.String()]
	if !ok {
		return nil, &domain.FetchError{URI: req.URI, Importer: req.Importer, Status: 404, Attempts: 1}
	}
	return &domain.FetchedDocument{URI: req.URI, Body: []byte(body), ContentType: "text/turtle"}, nil
}

func (w *fakeWeb) callCounts() map[string]int {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]int, len(w.calls))
	for k, v := range w.calls {
		out[k] = v
	}
	return out
}

type fixture struct {
	cacheDir  string
	idx       *domain.Index
	fetcher   *mocks.MockFetcher
	logger    *mocks.MockLogger
	telemetry *progrock.Recorder
	resolver  *resolver.Resolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	cacheDir := filepath.Join(t.TempDir(), "cache")
	l := loader.New(rdf.NewParser(), fs.NewHasher(), fetcher, store.NewDocumentCache(), cacheDir)
	telemetry := progrock.New(nil)
	return &fixture{
		cacheDir:  cacheDir,
		idx:       domain.NewIndex(),
		fetcher:   fetcher,
		logger:    logger,
		telemetry: telemetry,
		resolver:  resolver.New(l, telemetry, logger),
	}
}

func (f *fixture) serve(web *fakeWeb) {
	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(web.fetch).AnyTimes()
}

func (f *fixture) addLocal(uri string, imports ...string) {
	f.idx.Upsert(domain.OntologyRecord{
		URI:           domain.MustNormalizeURI(uri),
		Location:      domain.Local("/onto/" + strings.TrimPrefix(uri, "urn:") + ".ttl"),
		Format:        domain.FormatTurtle,
		Fingerprint:   "0000000000000000",
		DirectImports: uris(imports...),
	})
}

func uris(raw ...string) []domain.OntologyURI {
	out := make([]domain.OntologyURI, len(raw))
	for i, r := range raw {
		out[i] = domain.MustNormalizeURI(r)
	}
	return out
}

func opts() resolver.Options {
	return resolver.Options{Concurrency: 4, Fetch: domain.FetchConfig{Timeout: time.Second}}
}

func TestResolve_DiamondFetchesEachURIOnce(t *testing.T) {
	f := newFixture(t)
	web := newFakeWeb(map[string]string{
		"http://ex.org/a": ontology("http://ex.org/a", "http://ex.org/b", "http://ex.org/c"),
		"http://ex.org/b": ontology("http://ex.org/b", "http://ex.org/d"),
		"http://ex.org/c": ontology("http://ex.org/c", "http://ex.org/d"),
		"http://ex.org/d": ontology("http://ex.org/d"),
	})
	f.serve(web)

	result, err := f.resolver.Resolve(context.Background(), f.idx, uris("http://ex.org/a"), opts())
	require.NoError(t, err)

	assert.Equal(t, uris("http://ex.org/a", "http://ex.org/b", "http://ex.org/d", "http://ex.org/c"), result.Closure)
	assert.Empty(t, result.Unresolved)
	assert.Empty(t, result.Cycles)
	assert.Equal(t, map[string]int{
		"http://ex.org/a": 1,
		"http://ex.org/b": 1,
		"http://ex.org/c": 1,
		"http://ex.org/d": 1,
	}, web.callCounts())

	assert.Equal(t, 4, f.idx.Len())
	d, ok := f.idx.Get("http://ex.org/d")
	require.True(t, ok)
	assert.Equal(t, domain.LocationRemote, d.Location.Kind)
	assert.False(t, d.ResolvedAt.IsZero())
	assert.Len(t, result.Documents, 4)
	assert.Equal(t, 4, f.telemetry.Summary().Completed)
}

func TestResolve_SecondRunServedFromIndex(t *testing.T) {
	f := newFixture(t)
	web := newFakeWeb(map[string]string{
		"http://ex.org/a": ontology("http://ex.org/a", "http://ex.org/b"),
		"http://ex.org/b": ontology("http://ex.org/b"),
	})
	f.serve(web)

	_, err := f.resolver.Resolve(context.Background(), f.idx, uris("http://ex.org/a"), opts())
	require.NoError(t, err)
	result, err := f.resolver.Resolve(context.Background(), f.idx, uris("http://ex.org/a"), opts())
	require.NoError(t, err)

	assert.Equal(t, uris("http://ex.org/a", "http://ex.org/b"), result.Closure)
	assert.Empty(t, result.Documents)
	assert.Equal(t, map[string]int{"http://ex.org/a": 1, "http://ex.org/b": 1}, web.callCounts())
	assert.Equal(t, 2, f.telemetry.Summary().Cached)
}

func TestResolve_CycleTerminates(t *testing.T) {
	f := newFixture(t)
	f.addLocal("urn:a", "urn:b")
	f.addLocal("urn:b", "urn:a")

	result, err := f.resolver.Resolve(context.Background(), f.idx, uris("urn:a"), opts())
	require.NoError(t, err)

	assert.Equal(t, uris("urn:a", "urn:b"), result.Closure)
	require.Len(t, result.Cycles, 1)
	assert.Equal(t, uris("urn:a", "urn:b", "urn:a"), result.Cycles[0].Path)
	assert.Equal(t, []domain.Edge{{From: "urn:a", To: "urn:b"}, {From: "urn:b", To: "urn:a"}}, result.Graph.Edges())
}

func TestResolve_SelfImport(t *testing.T) {
	f := newFixture(t)
	f.addLocal("urn:a", "urn:a")

	result, err := f.resolver.Resolve(context.Background(), f.idx, uris("urn:a"), opts())
	require.NoError(t, err)
	assert.Equal(t, uris("urn:a"), result.Closure)
	assert.Len(t, result.Cycles, 1)
}

func TestResolve_LenientReportsUnresolved(t *testing.T) {
	f := newFixture(t)
	f.addLocal("urn:a", "http://nonexistent.example/x", "urn:c")
	f.addLocal("urn:c")
	f.serve(newFakeWeb(nil))
	f.logger.EXPECT().Warn(gomock.Cond(func(msg string) bool {
		return strings.HasPrefix(msg, "unresolved http://nonexistent.example/x: ")
	}))

	result, err := f.resolver.Resolve(context.Background(), f.idx, uris("urn:a"), opts())
	require.NoError(t, err)

	assert.Equal(t, uris("http://nonexistent.example/x"), result.Unresolved)
	assert.Equal(t, uris("urn:a", "urn:c"), result.Closure)
	assert.True(t, result.Graph.Has("http://nonexistent.example/x"))

	var fetchErr *domain.FetchError
	require.ErrorAs(t, result.Failures["http://nonexistent.example/x"], &fetchErr)
	assert.Equal(t, domain.OntologyURI("urn:a"), fetchErr.Importer)
	_, indexed := f.idx.Get("http://nonexistent.example/x")
	assert.False(t, indexed)
}

func TestResolve_StrictFailsNamingURI(t *testing.T) {
	f := newFixture(t)
	f.addLocal("urn:a", "http://nonexistent.example/x")
	f.serve(newFakeWeb(nil))
	f.logger.EXPECT().Warn(gomock.Any())

	o := opts()
	o.Strict = true
	result, err := f.resolver.Resolve(context.Background(), f.idx, uris("urn:a"), o)

	var unresolved *domain.UnresolvedError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, uris("http://nonexistent.example/x"), unresolved.URIs)
	assert.Contains(t, err.Error(), "http://nonexistent.example/x")
	require.NotNil(t, result)
	assert.Equal(t, uris("urn:a"), result.Closure)
}

func TestResolve_OfflineNeverFetches(t *testing.T) {
	f := newFixture(t)
	f.addLocal("urn:a", "http://ex.org/b")
	f.logger.EXPECT().Warn(gomock.Any())

	o := opts()
	o.Fetch.Offline = true
	result, err := f.resolver.Resolve(context.Background(), f.idx, uris("urn:a"), o)
	require.NoError(t, err)

	var notFound *domain.NotFoundError
	require.ErrorAs(t, result.Failures["http://ex.org/b"], &notFound)
	assert.Equal(t, domain.OntologyURI("urn:a"), notFound.Importer)
	assert.Contains(t, notFound.Error(), domain.ErrOfflineMode.Error())
}

func TestResolve_UnknownNonHTTPURI(t *testing.T) {
	f := newFixture(t)
	f.addLocal("urn:a", "urn:missing")
	f.logger.EXPECT().Warn("unresolved urn:missing: ontology not found: urn:missing (imported by urn:a)")

	result, err := f.resolver.Resolve(context.Background(), f.idx, uris("urn:a"), opts())
	require.NoError(t, err)
	assert.Equal(t, uris("urn:missing"), result.Unresolved)
}

func TestResolve_FileURI(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "b.ttl")
	require.NoError(t, os.WriteFile(path, []byte(ontology("urn:b", "urn:c")), 0o600))
	f.addLocal("urn:c")

	fileURI := domain.OntologyURI("file://" + filepath.ToSlash(path))
	f.idx.Upsert(domain.OntologyRecord{URI: "urn:a", Location: domain.Local("/onto/a.ttl"), DirectImports: []domain.OntologyURI{fileURI}})

	result, err := f.resolver.Resolve(context.Background(), f.idx, uris("urn:a"), opts())
	require.NoError(t, err)

	assert.Equal(t, []domain.OntologyURI{"urn:a", fileURI, "urn:c"}, result.Closure)
	rec, ok := f.idx.Get(fileURI)
	require.True(t, ok)
	assert.Equal(t, domain.Local(path), rec.Location)
	assert.Equal(t, uris("urn:c"), rec.DirectImports)
	assert.Contains(t, result.Documents, fileURI)
}

func TestResolve_DeadlineReturnsPartialResult(t *testing.T) {
	f := newFixture(t)
	f.addLocal("urn:a", "http://slow.example/b", "http://slow.example/c")
	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, req domain.FetchRequest) (*domain.FetchedDocument, error) {
			<-ctx.Done()
			return nil, &domain.FetchError{URI: req.URI, Err: ctx.Err()}
		}).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any()).Times(2)

	o := opts()
	o.Concurrency = 1
	o.Deadline = 50 * time.Millisecond

	start := time.Now()
	result, err := f.resolver.Resolve(context.Background(), f.idx, uris("urn:a"), o)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	assert.Equal(t, uris("urn:a"), result.Closure)
	assert.Equal(t, uris("http://slow.example/b", "http://slow.example/c"), result.Unresolved)
	for _, uri := range result.Unresolved {
		assert.Contains(t, result.Failures[uri].Error(), domain.ErrResolutionDeadline.Error())
	}
}

func TestResolve_CanceledContext(t *testing.T) {
	f := newFixture(t)
	f.addLocal("urn:a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.resolver.Resolve(ctx, f.idx, uris("urn:a"), opts())
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Empty(t, result.Closure)
}

func TestResolve_MultipleRootsShareVisitedSet(t *testing.T) {
	f := newFixture(t)
	f.addLocal("urn:a", "urn:c")
	f.addLocal("urn:b", "urn:c")
	f.addLocal("urn:c")

	result, err := f.resolver.Resolve(context.Background(), f.idx, uris("urn:a", "urn:b"), opts())
	require.NoError(t, err)
	assert.Equal(t, uris("urn:a", "urn:c", "urn:b"), result.Closure)
	assert.Equal(t, result.Closure, result.Graph.Nodes())
}

func TestRevalidate(t *testing.T) {
	f := newFixture(t)
	web := newFakeWeb(map[string]string{
		"http://ex.org/same":    ontology("http://ex.org/same"),
		"http://ex.org/changed": ontology("http://ex.org/changed"),
		"http://ex.org/gone":    ontology("http://ex.org/gone"),
	})
	f.serve(web)
	_, err := f.resolver.Resolve(context.Background(), f.idx, uris("http://ex.org/same", "http://ex.org/changed", "http://ex.org/gone"), opts())
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req domain.FetchRequest) (*domain.FetchedDocument, error) {
			switch req.URI {
			case "http://ex.org/same":
				return &domain.FetchedDocument{URI: req.URI, NotModified: true}, nil
			case "http://ex.org/changed":
				body := ontology("http://ex.org/changed", "http://ex.org/same")
				return &domain.FetchedDocument{URI: req.URI, Body: []byte(body), ContentType: "text/turtle"}, nil
			default:
				return nil, &domain.FetchError{URI: req.URI, Status: 410, Attempts: 1}
			}
		}).Times(3)
	l := loader.New(rdf.NewParser(), fs.NewHasher(), fetcher, store.NewDocumentCache(), f.cacheDir)
	r := resolver.New(l, progrock.New(nil), f.logger)
	f.logger.EXPECT().Warn(gomock.Cond(func(msg string) bool {
		return strings.HasPrefix(msg, "revalidating http://ex.org/gone: ")
	}))

	report, err := r.Revalidate(context.Background(), f.idx, opts())
	require.NoError(t, err)

	assert.Equal(t, uris("http://ex.org/same"), report.Unchanged)
	assert.Equal(t, uris("http://ex.org/changed"), report.Updated)
	assert.Contains(t, report.Failed, domain.OntologyURI("http://ex.org/gone"))
	changed, _ := f.idx.Get("http://ex.org/changed")
	assert.Equal(t, uris("http://ex.org/same"), changed.DirectImports)
	_, stillIndexed := f.idx.Get("http://ex.org/gone")
	assert.True(t, stillIndexed)
}

func TestRevalidate_FormatChangeDropsOldCacheEntry(t *testing.T) {
	f := newFixture(t)
	uri := "http://ex.org/moved"
	f.serve(newFakeWeb(map[string]string{uri: ontology(uri)}))
	_, err := f.resolver.Resolve(context.Background(), f.idx, uris(uri), opts())
	require.NoError(t, err)
	before, ok := f.idx.Get(domain.OntologyURI(uri))
	require.True(t, ok)
	require.FileExists(t, filepath.Join(f.cacheDir, before.Location.CachePath))

	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	body := "<" + uri + "> " + domain.RDFType + " " + domain.OWLOntology + " .\n"
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(&domain.FetchedDocument{
		URI:         domain.OntologyURI(uri),
		Body:        []byte(body),
		ContentType: "application/n-triples",
	}, nil)
	r := resolver.New(loader.New(rdf.NewParser(), fs.NewHasher(), fetcher, store.NewDocumentCache(), f.cacheDir), progrock.New(nil), f.logger)

	report, err := r.Revalidate(context.Background(), f.idx, opts())
	require.NoError(t, err)
	assert.Equal(t, uris(uri), report.Updated)

	after, _ := f.idx.Get(domain.OntologyURI(uri))
	assert.Equal(t, domain.FormatNTriples, after.Format)
	assert.NotEqual(t, before.Location.CachePath, after.Location.CachePath)
	assert.FileExists(t, filepath.Join(f.cacheDir, after.Location.CachePath))
	assert.NoFileExists(t, filepath.Join(f.cacheDir, before.Location.CachePath))
}
