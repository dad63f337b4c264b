package progrock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ontoenv/internal/adapters/telemetry/progrock"
	"go.trai.ch/ontoenv/internal/core/domain"
	"go.trai.ch/ontoenv/internal/core/ports"
	"go.trai.ch/ontoenv/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestRecorder_Outcomes(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	gomock.InOrder(
		logger.EXPECT().Debug("✓ http://example.org/a"),
		logger.EXPECT().Debug("~ http://example.org/b (cached)"),
		logger.EXPECT().Debug("✗ http://example.org/c: status 404"),
		logger.EXPECT().Debug("3 ontologies: 1 retrieved, 1 cached, 1 failed"),
	)

	recorder := progrock.New(logger)
	ctx := context.Background()

	_, a := recorder.Record(ctx, "http://example.org/a")
	_, err := a.Stdout().Write([]byte("fetched\n"))
	require.NoError(t, err)
	a.Log(domain.LogLevelDebug, "parsed 12 triples")
	a.Complete(nil)

	_, b := recorder.Record(ctx, "http://example.org/b")
	b.Cached()
	b.Complete(nil)

	_, c := recorder.Record(ctx, "http://example.org/c")
	c.Complete(errors.New("status 404"))

	assert.Equal(t, progrock.Summary{Total: 3, Completed: 1, Cached: 1, Failed: 1}, recorder.Summary())
	require.NoError(t, recorder.Close())
}

func TestRecorder_AttachesVertexToContext(t *testing.T) {
	recorder := progrock.New(nil)

	ctx, v := recorder.Record(context.Background(), "urn:x")
	got, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, v, got)

	v.Complete(nil)
	assert.Equal(t, 1, recorder.Summary().Completed)
	require.NoError(t, recorder.Close())
}

func TestRecorder_SameNameSharesVertex(t *testing.T) {
	recorder := progrock.New(nil)

	_, first := recorder.Record(context.Background(), "urn:x")
	first.Complete(nil)
	_, second := recorder.Record(context.Background(), "urn:x")
	second.Complete(nil)

	assert.Equal(t, 1, recorder.Summary().Total)
}

func TestRecorder_EmptySessionIsSilent(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	recorder := progrock.New(logger)
	require.NoError(t, recorder.Close())
}
